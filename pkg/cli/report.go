package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"bcsb-lending/conditions-matrix/pkg/catalog"
	"bcsb-lending/conditions-matrix/pkg/rules"
)

// ReportView is a report together with the answers it was computed from
// and the display text of each requirement.
type ReportView struct {
	Answers rules.AnswerSet `json:"answers" yaml:"answers"`
	rules.Report `yaml:",inline"`

	Descriptions []string `json:"requirement_descriptions" yaml:"requirement_descriptions"`
}

// NewReportView attaches answers and requirement texts from cat to report.
func NewReportView(report rules.Report, answers rules.AnswerSet, cat *catalog.Catalog) ReportView {
	descriptions := make([]string, len(report.Requirements))
	for i, code := range report.Requirements {
		descriptions[i] = cat.Describe(code)
	}
	return ReportView{
		Answers:      answers,
		Report:       report,
		Descriptions: descriptions,
	}
}

// RenderText implements TextRenderer.
func (v ReportView) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	title := "Loan Conditions Assessment"
	if v.CatalogName != "" {
		title += " (" + v.CatalogName + ")"
	}
	fmt.Fprintln(tw, title)
	fmt.Fprintln(tw, strings.Repeat("=", len(title)))

	fmt.Fprintf(tw, "Loan type:\t%s\n", orDash(v.Answers.LoanType))
	fmt.Fprintf(tw, "Amount:\t%s (%s)\n", money(v.Answers.LoanAmount.Decimal), v.AmountBucket)
	fmt.Fprintf(tw, "Borrower:\t%s\n", orDash(v.Answers.BorrowerType))
	fmt.Fprintf(tw, "Industry:\t%s\n", orDash(v.Answers.IndustryType))
	fmt.Fprintf(tw, "Collateral:\t%s\n", orDash(strings.Join(v.Answers.CollateralType, ", ")))
	fmt.Fprintln(tw)

	status := "VALID"
	if !v.Validation.IsValid {
		status = "INVALID"
	}
	fmt.Fprintf(tw, "Status:\t%s\n", status)
	fmt.Fprintf(tw, "Risk level:\t%s\n", v.RiskLevel)
	fmt.Fprintf(tw, "Estimated processing:\t%s\n", v.EstimatedProcessingTime)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(v.Validation.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, msg := range v.Validation.Errors {
			fmt.Fprintf(w, "  ✗ %s\n", msg)
		}
	}
	if len(v.Validation.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, msg := range v.Validation.Warnings {
			fmt.Fprintf(w, "  ! %s\n", msg)
		}
	}

	_, err := fmt.Fprintf(w, "\nRequired documents (%d):\n", len(v.Requirements))
	if err != nil {
		return err
	}
	for i, code := range v.Requirements {
		text := code
		if i < len(v.Descriptions) {
			text = v.Descriptions[i]
		}
		if _, err := fmt.Fprintf(w, "  %2d. %s\n", i+1, text); err != nil {
			return err
		}
	}
	return nil
}

func money(d decimal.Decimal) string {
	return "$" + humanize.Commaf(d.Round(2).InexactFloat64())
}

func humanizeWhole(f float64) string {
	return humanize.Commaf(f)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bcsb-lending/conditions-matrix/pkg/catalog"
	"bcsb-lending/conditions-matrix/pkg/catalog/source"
	"bcsb-lending/conditions-matrix/pkg/cli"
)

const embeddedCatalogName = "embedded"

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate rule catalogs",
}

var catalogLintFlags struct {
	file   string
	strict bool
	watch  bool
	format string
}

var catalogLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate a rule catalog",
	Long: `Validate a rule catalog document.

Errors prevent the catalog from loading: unknown fields, negative or
inverted amount limits, missing or duplicate bucket bounds, empty codes.
Warnings flag requirement codes without display text, unused dictionary
entries and empty requirement lists.

Without --file the configured catalog is checked, or the embedded one when
none is configured.

Examples:
  # Lint a file
  lcm catalog lint --file catalog.yaml

  # Warnings fail the check
  lcm catalog lint --file catalog.yaml --strict

  # Re-lint on every save
  lcm catalog lint --file catalog.yaml --watch`,
	RunE: lintCatalog,
}

var catalogShowFlags struct {
	format string
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the rule tables of the active catalog",
	RunE:  showCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLintCmd, catalogShowCmd)

	catalogLintCmd.Flags().StringVarP(&catalogLintFlags.file, "file", "f", "", "catalog file to validate")
	catalogLintCmd.Flags().BoolVar(&catalogLintFlags.strict, "strict", false, "treat warnings as errors")
	catalogLintCmd.Flags().BoolVarP(&catalogLintFlags.watch, "watch", "w", false, "re-lint whenever the file changes")
	catalogLintCmd.Flags().StringVar(&catalogLintFlags.format, "format", "text", "output format: text, json, yaml")

	catalogShowCmd.Flags().StringVarP(&catalogShowFlags.format, "format", "o", "text", "output format: text, json, yaml")
}

// LintResult is the outcome of linting one catalog document.
type LintResult struct {
	File     string          `json:"file" yaml:"file"`
	Valid    bool            `json:"valid" yaml:"valid"`
	Errors   []catalog.Issue `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []catalog.Issue `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RenderText implements cli.TextRenderer.
func (r LintResult) RenderText(w io.Writer) error {
	switch {
	case !r.Valid:
		fmt.Fprintf(w, "✗ %s: %d errors, %d warnings\n", r.File, len(r.Errors), len(r.Warnings))
	case len(r.Warnings) > 0:
		fmt.Fprintf(w, "✓ %s: valid with %d warnings\n", r.File, len(r.Warnings))
	default:
		fmt.Fprintf(w, "✓ %s: valid\n", r.File)
	}
	for _, issue := range r.Errors {
		fmt.Fprintf(w, "  ✗ %s\n", issue.Error())
	}
	for _, issue := range r.Warnings {
		fmt.Fprintf(w, "  ⚠ %s\n", issue.Error())
	}
	return nil
}

// lintDocument decodes and lints data. In strict mode warnings make the
// result invalid.
func lintDocument(name string, data []byte, strict bool) LintResult {
	result := LintResult{File: name}

	doc, err := catalog.DecodeDocument(data)
	if err != nil {
		result.Errors = []catalog.Issue{{Message: err.Error(), Severity: catalog.SeverityError}}
		return result
	}

	for _, issue := range catalog.Lint(doc) {
		if issue.Severity == catalog.SeverityError {
			result.Errors = append(result.Errors, issue)
		} else {
			result.Warnings = append(result.Warnings, issue)
		}
	}
	result.Valid = len(result.Errors) == 0 && (!strict || len(result.Warnings) == 0)
	return result
}

func lintPath(path string, strict bool) LintResult {
	if path == "" {
		return lintDocument(embeddedCatalogName, catalog.DefaultDocument(), strict)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return LintResult{
			File:   path,
			Errors: []catalog.Issue{{Message: fmt.Sprintf("failed to read catalog: %v", err), Severity: catalog.SeverityError}},
		}
	}
	return lintDocument(path, data, strict)
}

func lintCatalog(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(catalogLintFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := catalogLintFlags.file
	if path == "" {
		path = cfg.Catalog.Path
	}
	if catalogLintFlags.watch && path == "" {
		return cli.NewConfigError("file", "--watch needs a catalog file")
	}

	out := cmd.OutOrStdout()
	result := lintPath(path, catalogLintFlags.strict)
	if err := formatter.FormatTo(out, result); err != nil {
		return err
	}

	if catalogLintFlags.watch {
		logger, err := newLogger(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return watchCatalog(cmd, path, formatter, logger)
	}

	if !result.Valid {
		return fmt.Errorf("%w: %s has %d errors and %d warnings", cli.ErrInvalid, result.File, len(result.Errors), len(result.Warnings))
	}
	return nil
}

// watchCatalog re-lints path after every change until interrupted.
func watchCatalog(cmd *cobra.Command, path string, formatter cli.Formatter, logger *slog.Logger) error {
	ctx, stop := cli.WithSignals(commandContext(cmd))
	defer stop()

	wc := source.DefaultWatcherConfig()
	wc.Path = path
	watcher, err := source.NewWatcher(wc, logger)
	if err != nil {
		return cli.NewCommandError("catalog lint", err)
	}
	defer watcher.Stop()

	logger.Info("watching catalog for changes", "path", path)
	return watcher.Watch(ctx, func() error {
		return formatter.FormatTo(cmd.OutOrStdout(), lintPath(path, catalogLintFlags.strict))
	})
}

// catalogView renders a catalog document as tables. Encoded formats emit
// the document itself.
type catalogView struct {
	doc *catalog.Document
	cat *catalog.Catalog
}

// MarshalJSON emits the underlying document.
func (v catalogView) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.doc)
}

// MarshalYAML emits the underlying document.
func (v catalogView) MarshalYAML() (interface{}, error) {
	return v.doc, nil
}

// RenderText implements cli.TextRenderer.
func (v catalogView) RenderText(w io.Writer) error {
	cat := v.cat
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s", cat.Name())
	if cat.Version() != "" {
		fmt.Fprintf(tw, " (version %s)", cat.Version())
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "\nLOAN TYPE\tMIN\tMAX\tBASE REQUIREMENTS")
	for _, code := range cat.Codes(catalog.TableLoanTypes) {
		rule, _ := cat.LoanType(code)
		fmt.Fprintf(tw, "%s\t$%s\t$%s\t%s\n", code,
			humanize.Commaf(rule.MinAmount.InexactFloat64()),
			humanize.Commaf(rule.MaxAmount.InexactFloat64()),
			strings.Join(rule.BaseRequirements, ", "))
	}

	fmt.Fprintln(tw, "\nAMOUNT BUCKET\tFROM\tREQUIREMENTS")
	for _, b := range cat.Buckets() {
		fmt.Fprintf(tw, "%s\t$%s\t%s\n", b.Name, humanize.Commaf(b.LowerBound.InexactFloat64()), strings.Join(b.Requirements, ", "))
	}

	addOns := []struct {
		table  catalog.Table
		header string
		lookup func(string) (catalog.AddOnRule, bool)
	}{
		{catalog.TableIndustries, "INDUSTRY", cat.Industry},
		{catalog.TableBorrowerTypes, "BORROWER TYPE", cat.BorrowerType},
		{catalog.TableCollateral, "COLLATERAL", cat.Collateral},
	}
	for _, t := range addOns {
		fmt.Fprintf(tw, "\n%s\tREQUIREMENTS\n", t.header)
		for _, code := range cat.Codes(t.table) {
			rule, _ := t.lookup(code)
			fmt.Fprintf(tw, "%s\t%s\n", code, strings.Join(rule.Requirements, ", "))
		}
	}

	fmt.Fprintln(tw, "\nREQUIREMENT\tTEXT")
	for _, code := range cat.RequirementCodes() {
		fmt.Fprintf(tw, "%s\t%s\n", code, cat.Describe(code))
	}
	return tw.Flush()
}

func showCatalog(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(catalogShowFlags.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cat, err := loadCatalog(commandContext(cmd), cfg, logger)
	if err != nil {
		return err
	}

	var doc *catalog.Document
	if cfg.Catalog.Path == "" {
		doc, err = catalog.DecodeDocument(catalog.DefaultDocument())
	} else {
		doc, err = catalog.ReadDocument(cfg.Catalog.Path)
	}
	if err != nil {
		return err
	}

	return formatter.FormatTo(cmd.OutOrStdout(), catalogView{doc: doc, cat: cat})
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bcsb-lending/conditions-matrix/pkg/cli"
	"bcsb-lending/conditions-matrix/pkg/rules"
)

var evaluateFlags struct {
	answers       string
	format        string
	failOnInvalid bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a saved answer file",
	Long: `Evaluate a questionnaire answer file and print the assessment report.

The answer file is YAML, or JSON when its name ends in .json. Use "-" to
read YAML or JSON from standard input. Fields:

  loan_type:       term_loan
  loan_amount:     250000
  borrower_type:   llc
  industry_type:   manufacturing
  collateral_type: [equipment, inventory]

Unknown codes are ignored and an unparseable amount counts as zero.

Examples:
  # Human-readable report
  lcm evaluate --answers answers.yaml

  # JSON report for another system
  lcm evaluate --answers answers.json --format json

  # Fail the pipeline when the amount is outside policy limits
  lcm evaluate --answers answers.yaml --fail-on-invalid`,
	RunE: evaluateAnswers,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.answers, "answers", "a", "", "answer file (YAML or JSON, - for stdin)")
	evaluateCmd.Flags().StringVarP(&evaluateFlags.format, "format", "o", "text", "output format: text, json, yaml")
	evaluateCmd.Flags().BoolVar(&evaluateFlags.failOnInvalid, "fail-on-invalid", false, "exit non-zero when validation fails")
}

func evaluateAnswers(cmd *cobra.Command, args []string) error {
	if evaluateFlags.answers == "" {
		return cli.NewConfigError("answers", "--answers must be specified")
	}
	formatter, err := cli.NewFormatter(evaluateFlags.format)
	if err != nil {
		return err
	}

	answers, err := readAnswers(evaluateFlags.answers, cmd.InOrStdin())
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	engine, logger, err := newEngine(cmd)
	if err != nil {
		return err
	}

	report := engine.Evaluate(answers)
	logger.Debug("answers evaluated",
		"file", evaluateFlags.answers,
		"amount_bucket", report.AmountBucket,
		"requirements", report.RequirementCount,
	)

	view := cli.NewReportView(report, answers, engine.Catalog())
	if err := formatter.FormatTo(cmd.OutOrStdout(), view); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if evaluateFlags.failOnInvalid && !report.Validation.IsValid {
		return fmt.Errorf("%w: %s", cli.ErrInvalid, strings.Join(report.Validation.Errors, "; "))
	}
	return nil
}

// readAnswers decodes an answer file. JSON is a subset of YAML, so only
// files named *.json take the JSON decoder.
func readAnswers(path string, stdin io.Reader) (rules.AnswerSet, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return rules.AnswerSet{}, fmt.Errorf("failed to read answers %q: %w", path, err)
	}

	var answers rules.AnswerSet
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &answers)
	} else {
		err = yaml.Unmarshal(data, &answers)
	}
	if err != nil {
		return rules.AnswerSet{}, fmt.Errorf("failed to parse answers %q: %w", path, err)
	}
	return answers, nil
}

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bcsb-lending/conditions-matrix/pkg/cli"
	"bcsb-lending/conditions-matrix/pkg/questionnaire"
)

var runFlags struct {
	format string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk through the questionnaire interactively",
	Long: `Ask the loan questionnaire on the terminal and print the assessment.

Options can be chosen by number or by code. Type "back" to return to the
previous question or "quit" to stop. With --format json or yaml the
questions are written to standard error so that standard output carries
only the report.

Examples:
  lcm run
  lcm run --format json > assessment.json`,
	RunE: runQuestionnaire,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.format, "format", "o", "text", "output format: text, json, yaml")
}

func runQuestionnaire(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(runFlags.format)
	if err != nil {
		return err
	}
	formatter, err := cli.NewFormatter(string(format))
	if err != nil {
		return err
	}

	engine, logger, err := newEngine(cmd)
	if err != nil {
		return err
	}

	var promptOut io.Writer = cmd.OutOrStdout()
	if format != cli.FormatText {
		promptOut = cmd.ErrOrStderr()
	}

	session := questionnaire.NewSession(questionnaire.DefaultQuestions())
	if err := askAll(session, cli.NewPrompter(cmd.InOrStdin(), promptOut), cli.NewProgressBar(promptOut)); err != nil {
		return cli.NewCommandError("run", err)
	}

	answers := session.AnswerSet()
	report := engine.Evaluate(answers)
	logger.Debug("questionnaire completed", "session_id", session.ID(), "requirements", report.RequirementCount)

	fmt.Fprintln(promptOut)
	return formatter.FormatTo(cmd.OutOrStdout(), cli.NewReportView(report, answers, engine.Catalog()))
}

// askAll drives session to completion, re-asking a question until its
// answer is accepted.
func askAll(session *questionnaire.Session, prompt *cli.Prompter, bar *cli.ProgressBar) error {
	total := len(session.Questions())
	for !session.Complete() {
		q := session.Current()
		bar.Render(session.Index(), total, session.Progress())

		value, err := prompt.Ask(q)
		switch {
		case errors.Is(err, cli.ErrGoBack):
			if !session.Previous() {
				prompt.Say("  already at the first question")
			}
			continue
		case err != nil:
			return err
		}

		if err := session.Answer(q.ID, value); err != nil {
			var answerErr *questionnaire.AnswerError
			if errors.As(err, &answerErr) {
				prompt.Say("  ✗ %s", answerErr.Message)
				continue
			}
			return err
		}
		if _, err := session.Next(); err != nil {
			prompt.Say("  ✗ %v", err)
		}
	}
	return nil
}

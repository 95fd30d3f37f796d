/*
Package cli provides the terminal helpers used by the lcm command: output
formatters, report rendering, the interactive questionnaire prompt, a
question progress bar, typed command errors and signal handling.

Output Formatting:

Command results can be written as text, JSON or YAML:

	formatter, err := cli.NewFormatter("json")
	if err != nil {
		return err
	}
	return formatter.FormatTo(os.Stdout, report)

Values that know how to render themselves for a terminal implement
TextRenderer and are used by the text formatter.

Interactive Prompting:

	prompt := cli.NewPrompter(os.Stdin, os.Stdout)
	value, err := prompt.Ask(question)

Signal Handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli

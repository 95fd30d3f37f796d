package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bcsb-lending/conditions-matrix/pkg/questionnaire"
)

var (
	// ErrGoBack is returned by Ask when the user asks to return to the
	// previous question.
	ErrGoBack = errors.New("go back")

	// ErrQuit is returned by Ask when the user ends the questionnaire.
	ErrQuit = errors.New("questionnaire abandoned")
)

// Input words recognised by the prompt.
const (
	backCommand = "back"
	quitCommand = "quit"
)

// Prompter asks questionnaire questions on a line-oriented terminal.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads answers from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints q and reads one line. Options may be chosen by number or by
// value; checkbox answers are separated by commas or spaces. The returned
// value is not validated. Input ending before an answer yields
// io.ErrUnexpectedEOF.
func (p *Prompter) Ask(q questionnaire.Question) (questionnaire.Value, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt.Text)
	}
	fmt.Fprint(p.out, hint(q), "> ")

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read answer: %w", err)
		}
		return nil, io.ErrUnexpectedEOF
	}
	line := strings.TrimSpace(p.scanner.Text())

	switch strings.ToLower(line) {
	case backCommand:
		return nil, ErrGoBack
	case quitCommand:
		return nil, ErrQuit
	}

	switch q.Type {
	case questionnaire.TypeCheckbox:
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' })
		value := make(questionnaire.Value, 0, len(fields))
		for _, f := range fields {
			value = append(value, resolveOption(q, f))
		}
		return value, nil
	case questionnaire.TypeSelect, questionnaire.TypeRadio:
		return questionnaire.Single(resolveOption(q, line)), nil
	default:
		return questionnaire.Single(line), nil
	}
}

// Say writes a line to the prompt output.
func (p *Prompter) Say(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// resolveOption maps a 1-based option number to its value. Anything else is
// returned unchanged.
func resolveOption(q questionnaire.Question, s string) string {
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1].Value
	}
	return s
}

func hint(q questionnaire.Question) string {
	switch q.Type {
	case questionnaire.TypeCheckbox:
		return "(choose one or more, comma separated) "
	case questionnaire.TypeCurrency:
		if q.Validation != nil {
			return fmt.Sprintf("($%s to $%s) ", humanizeWhole(q.Validation.Min), humanizeWhole(q.Validation.Max))
		}
	}
	return ""
}

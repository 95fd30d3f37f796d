package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"bcsb-lending/conditions-matrix/pkg/catalog"
	"bcsb-lending/conditions-matrix/pkg/questionnaire"
	"bcsb-lending/conditions-matrix/pkg/rules"
	"bcsb-lending/conditions-matrix/pkg/telemetry/logging"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"config", NewConfigError("format", "bad"), ExitConfig},
		{"wrapped config", NewCommandError("evaluate", NewConfigError("answers", "missing")), ExitConfig},
		{"invalid", fmt.Errorf("catalog: %w", ErrInvalid), ExitInvalid},
		{"other", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCommandError(t *testing.T) {
	inner := errors.New("inner")
	err := NewCommandError("serve", inner)
	if err.Error() != "command serve failed: inner" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected CommandError to unwrap")
	}
	if got := NewConfigError("format", "bad").Error(); got != "config error in format: bad" {
		t.Errorf("ConfigError = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %q, want %q", got, tt.want)
			}
			if tt.wantErr && ExitCode(err) != ExitConfig {
				t.Errorf("expected config error, got %T", err)
			}
		})
	}
}

func TestFormatters(t *testing.T) {
	data := map[string]int{"count": 3}

	tests := []struct {
		format string
		want   string
	}{
		{"text", "map[count:3]\n"},
		{"json", "{\n  \"count\": 3\n}\n"},
		{"yaml", "count: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := NewFormatter(tt.format)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := f.FormatTo(&buf, data); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func newTestReport(t *testing.T, answers rules.AnswerSet) ReportView {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	engine, err := rules.NewEngine(cat, rules.DefaultConfig(), logging.Discard(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewReportView(engine.Evaluate(answers), answers, cat)
}

func TestReportView_Text(t *testing.T) {
	view := newTestReport(t, rules.AnswerSet{
		LoanType:       "construction",
		LoanAmount:     rules.AmountOf(6000000),
		CollateralType: rules.CodeSet{"unsecured"},
	})

	var buf bytes.Buffer
	if err := (&TextFormatter{}).FormatTo(&buf, view); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"$6,000,000 (over_5m)",
		"Status:",
		"VALID",
		"Risk level:",
		"High",
		"25 business days",
		"Warnings:",
		fmt.Sprintf("Required documents (%d):", len(view.Requirements)),
		"   1. ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Errors:") {
		t.Errorf("unexpected errors section:\n%s", out)
	}
}

func TestReportView_Invalid(t *testing.T) {
	view := newTestReport(t, rules.AnswerSet{LoanType: "term_loan", LoanAmount: rules.AmountOf(5000)})

	var buf bytes.Buffer
	if err := view.RenderText(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "INVALID") || !strings.Contains(buf.String(), "✗ Loan amount ($5,000)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestReportView_Encoded(t *testing.T) {
	view := newTestReport(t, rules.AnswerSet{LoanType: "term_loan", LoanAmount: rules.AmountOf(50000)})

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"answers", "requirements", "requirement_descriptions", "risk_level", "validation"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON missing %q: %s", key, data)
		}
	}

	out, err := yaml.Marshal(view)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "amount_bucket: under_100k") {
		t.Errorf("YAML missing inlined report fields:\n%s", out)
	}
	if len(view.Descriptions) != len(view.Requirements) {
		t.Errorf("descriptions %d != requirements %d", len(view.Descriptions), len(view.Requirements))
	}
}

func TestPrompter_Ask(t *testing.T) {
	questions := questionnaire.DefaultQuestions()
	loanType, _, _ := questionnaire.Find(questions, questionnaire.QuestionLoanType)
	collateral, _, _ := questionnaire.Find(questions, questionnaire.QuestionCollateralType)
	amount, _, _ := questionnaire.Find(questions, questionnaire.QuestionLoanAmount)

	tests := []struct {
		name    string
		q       questionnaire.Question
		input   string
		want    questionnaire.Value
		wantErr error
	}{
		{"option by number", loanType, "1\n", questionnaire.Value{"term_loan"}, nil},
		{"option by value", loanType, "sba_loan\n", questionnaire.Value{"sba_loan"}, nil},
		{"number out of range", loanType, "99\n", questionnaire.Value{"99"}, nil},
		{"checkbox", collateral, "2, unsecured\n", questionnaire.Value{"equipment", "unsecured"}, nil},
		{"currency", amount, " 250,000 \n", questionnaire.Value{"250,000"}, nil},
		{"back", loanType, "back\n", nil, ErrGoBack},
		{"quit", loanType, "QUIT\n", nil, ErrQuit},
		{"eof", loanType, "", nil, io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewPrompter(strings.NewReader(tt.input), &out).Ask(tt.q)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Ask() error = %v, want %v", err, tt.wantErr)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Ask() = %q, want %q", got, tt.want)
			}
			if !strings.Contains(out.String(), tt.q.Text) {
				t.Errorf("prompt did not print question text: %q", out.String())
			}
		})
	}
}

func TestPrompter_CurrencyHint(t *testing.T) {
	amount, _, _ := questionnaire.Find(questionnaire.DefaultQuestions(), questionnaire.QuestionLoanAmount)
	var out bytes.Buffer
	_, _ = NewPrompter(strings.NewReader("1\n"), &out).Ask(amount)
	if !strings.Contains(out.String(), "($10,000 to $50,000,000)") {
		t.Errorf("missing range hint: %q", out.String())
	}
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf)
	bar.Width = 10

	bar.Render(1, 5, 40)
	want := "Question 2 of 5 [████░░░░░░] 40%\n"
	if buf.String() != want {
		t.Errorf("Render() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	bar.Render(0, 0, 50)
	if buf.Len() != 0 {
		t.Errorf("zero total should render nothing, got %q", buf.String())
	}
}

func TestWithSignals(t *testing.T) {
	ctx, stop := SetupSignalHandler()
	if ctx.Err() != nil {
		t.Fatal("context cancelled before any signal")
	}
	stop()
	if ctx.Err() == nil {
		t.Error("stop should cancel the context")
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"bcsb-lending/conditions-matrix/pkg/cli"
	"bcsb-lending/conditions-matrix/pkg/config"
	"bcsb-lending/conditions-matrix/pkg/telemetry/logging"
)

// resetFlags restores every global flag to its default when the test ends.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		cfgFile = defaultConfigFile
		catalogPath = ""
		verbose = false
		evaluateFlags.answers, evaluateFlags.format, evaluateFlags.failOnInvalid = "", "text", false
		runFlags.format = "text"
		serveFlags.listenAddress, serveFlags.logLevel, serveFlags.dryRun = "", "", false
		catalogLintFlags.file, catalogLintFlags.strict, catalogLintFlags.watch, catalogLintFlags.format = "", false, false, "text"
		catalogShowFlags.format = "text"
	}
	reset()
	t.Cleanup(reset)
}

func newTestCommand(stdin string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	return cmd, out
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing default file uses defaults", func(t *testing.T) {
		resetFlags(t)
		cfg, err := loadConfig()
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Server.ListenAddress != config.DefaultListenAddress {
			t.Errorf("listen address = %q", cfg.Server.ListenAddress)
		}
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		resetFlags(t)
		cfgFile = "testdata/nope.yaml"
		_, err := loadConfig()
		if cli.ExitCode(err) != cli.ExitConfig {
			t.Fatalf("expected config error, got %v", err)
		}
		if !strings.Contains(err.Error(), "nope.yaml") {
			t.Errorf("error should name the file: %v", err)
		}
	})

	t.Run("catalog flag overrides file", func(t *testing.T) {
		resetFlags(t)
		cfgFile = "testdata/config.yaml"
		catalogPath = "testdata/warning-catalog.yaml"
		cfg, err := loadConfig()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Catalog.Path != catalogPath {
			t.Errorf("catalog path = %q", cfg.Catalog.Path)
		}
		if cfg.Telemetry.Logging.Level != "warn" {
			t.Errorf("file settings not applied: %+v", cfg.Telemetry.Logging)
		}
	})
}

func TestStrictCatalogLoad(t *testing.T) {
	resetFlags(t)
	cfg := config.Default()
	cfg.Catalog.Path = "testdata/warning-catalog.yaml"
	cfg.Catalog.Strict = true

	_, err := loadCatalog(context.Background(), cfg, logging.Discard())
	if !errors.Is(err, cli.ErrInvalid) {
		t.Fatalf("expected strict load to fail, got %v", err)
	}

	cfg.Catalog.Strict = false
	if _, err := loadCatalog(context.Background(), cfg, logging.Discard()); err != nil {
		t.Fatalf("non-strict load failed: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	cmd, out := newTestCommand("")
	versionCmd.Run(cmd, nil)
	if !strings.HasPrefix(out.String(), "lcm "+Version+"\n") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"run": false, "evaluate": false, "serve": false, "catalog": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestEvaluateCommand(t *testing.T) {
	tests := []struct {
		name     string
		answers  string
		catalog  string
		format   string
		failFlag bool
		stdin    string
		wantCode int
		want     []string
	}{
		{
			name:     "yaml text",
			answers:  "testdata/answers.yaml",
			wantCode: cli.ExitOK,
			want:     []string{"$50,000 (under_100k)", "VALID", "Risk level:"},
		},
		{
			name:     "custom catalog",
			answers:  "testdata/answers.yaml",
			catalog:  "testdata/valid-catalog.yaml",
			wantCode: cli.ExitOK,
			want:     []string{"Test Policy", "(small)", "Equipment list with serial numbers", "Required documents (3):"},
		},
		{
			name:     "invalid without flag",
			answers:  "testdata/below-minimum.yaml",
			wantCode: cli.ExitOK,
			want:     []string{"INVALID", "below minimum"},
		},
		{
			name:     "invalid with flag",
			answers:  "testdata/below-minimum.yaml",
			failFlag: true,
			wantCode: cli.ExitInvalid,
		},
		{
			name:     "stdin",
			answers:  "-",
			stdin:    "loan_type: sba_loan\nloan_amount: 750000\n",
			wantCode: cli.ExitOK,
			want:     []string{"sba_loan", "$750,000"},
		},
		{
			name:     "missing answers flag",
			wantCode: cli.ExitConfig,
		},
		{
			name:     "bad format",
			answers:  "testdata/answers.yaml",
			format:   "xml",
			wantCode: cli.ExitConfig,
		},
		{
			name:     "missing file",
			answers:  "testdata/nope.yaml",
			wantCode: cli.ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			evaluateFlags.answers = tt.answers
			evaluateFlags.failOnInvalid = tt.failFlag
			catalogPath = tt.catalog
			if tt.format != "" {
				evaluateFlags.format = tt.format
			}

			cmd, out := newTestCommand(tt.stdin)
			err := evaluateAnswers(cmd, nil)
			if got := cli.ExitCode(err); got != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (err %v)", got, tt.wantCode, err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestEvaluateCommand_JSON(t *testing.T) {
	resetFlags(t)
	evaluateFlags.answers = "testdata/answers.json"
	evaluateFlags.format = "json"

	cmd, out := newTestCommand("")
	if err := evaluateAnswers(cmd, nil); err != nil {
		t.Fatal(err)
	}

	var report struct {
		AmountBucket string   `json:"amount_bucket"`
		RiskLevel    string   `json:"risk_level"`
		Requirements []string `json:"requirements"`
		Validation   struct {
			IsValid  bool     `json:"is_valid"`
			Warnings []string `json:"warnings"`
		} `json:"validation"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if report.AmountBucket != "over_5m" || report.RiskLevel != "High" {
		t.Errorf("unexpected report: %+v", report)
	}
	if !report.Validation.IsValid || len(report.Validation.Warnings) != 1 {
		t.Errorf("expected valid report with one warning: %+v", report.Validation)
	}
}

func TestRunCommand(t *testing.T) {
	resetFlags(t)
	// loan type 9 does not exist, then "back" at the first question, then
	// a below-range amount before the accepted answers.
	input := strings.Join([]string{"9", "back", "1", "500", "50,000", "llc", "1", "2"}, "\n") + "\n"

	cmd, out := newTestCommand(input)
	if err := runQuestionnaire(cmd, nil); err != nil {
		t.Fatalf("runQuestionnaire() error = %v", err)
	}

	for _, w := range []string{
		"Question 1 of 5",
		"Question 5 of 5",
		"already at the first question",
		"amount must be at least $10,000",
		"term_loan",
		"$50,000 (under_100k)",
		"Required documents",
	} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output missing %q", w)
		}
	}
}

func TestRunCommand_JSONKeepsStdoutClean(t *testing.T) {
	resetFlags(t)
	runFlags.format = "json"

	cmd, out := newTestCommand("2\n100000\ncorporation\nretail\n3,4\n")
	if err := runQuestionnaire(cmd, nil); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("stdout is not a single JSON document: %v\n%s", err, out.String())
	}
	if decoded["amount_bucket"] != "between_100k_500k" {
		t.Errorf("amount_bucket = %v", decoded["amount_bucket"])
	}
}

func TestRunCommand_EndOfInput(t *testing.T) {
	resetFlags(t)
	cmd, _ := newTestCommand("1\n")
	err := runQuestionnaire(cmd, nil)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
}

func TestCatalogLintCommand(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		strict   bool
		wantCode int
		want     string
	}{
		{"valid", "testdata/valid-catalog.yaml", false, cli.ExitOK, "valid"},
		{"valid strict", "testdata/valid-catalog.yaml", true, cli.ExitOK, "valid"},
		{"warnings", "testdata/warning-catalog.yaml", false, cli.ExitOK, "not referenced by any rule table"},
		{"warnings strict", "testdata/warning-catalog.yaml", true, cli.ExitInvalid, "no display text"},
		{"errors", "testdata/invalid-catalog.yaml", false, cli.ExitInvalid, "must not be below min_amount"},
		{"unknown field", "testdata/unknown-field-catalog.yaml", false, cli.ExitInvalid, "loan_typs"},
		{"missing file", "testdata/nope.yaml", false, cli.ExitInvalid, "failed to read catalog"},
		{"embedded", "", false, cli.ExitOK, "embedded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			catalogLintFlags.file = tt.file
			catalogLintFlags.strict = tt.strict

			cmd, out := newTestCommand("")
			err := lintCatalog(cmd, nil)
			if got := cli.ExitCode(err); got != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (err %v)", got, tt.wantCode, err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestCatalogLintCommand_JSON(t *testing.T) {
	resetFlags(t)
	catalogLintFlags.file = "testdata/invalid-catalog.yaml"
	catalogLintFlags.format = "json"

	cmd, out := newTestCommand("")
	_ = lintCatalog(cmd, nil)

	var result LintResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.Valid || len(result.Errors) < 2 {
		t.Errorf("expected at least two errors: %+v", result)
	}
}

func TestCatalogLintCommand_WatchNeedsFile(t *testing.T) {
	resetFlags(t)
	catalogLintFlags.watch = true

	cmd, _ := newTestCommand("")
	if err := lintCatalog(cmd, nil); cli.ExitCode(err) != cli.ExitConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestCatalogShowCommand(t *testing.T) {
	resetFlags(t)
	cmd, out := newTestCommand("")
	if err := showCatalog(cmd, nil); err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"LOAN TYPE", "term_loan", "$10,000", "AMOUNT BUCKET", "over_5m", "COLLATERAL", "unsecured"} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output missing %q", w)
		}
	}

	resetFlags(t)
	catalogPath = "testdata/valid-catalog.yaml"
	catalogShowFlags.format = "json"
	cmd, out = newTestCommand("")
	if err := showCatalog(cmd, nil); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Name      string                     `json:"name"`
		LoanTypes map[string]json.RawMessage `json:"loan_types"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc.Name != "Test Policy" || len(doc.LoanTypes) != 1 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestServeCommand_DryRun(t *testing.T) {
	resetFlags(t)
	cfgFile = "testdata/config.yaml"
	serveFlags.dryRun = true

	cmd, out := newTestCommand("")
	if err := serveAPI(cmd, nil); err != nil {
		t.Fatalf("serveAPI() error = %v", err)
	}
	if !strings.Contains(out.String(), "Configuration valid") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestServeCommand_BadFlags(t *testing.T) {
	resetFlags(t)
	serveFlags.listenAddress = "not-an-address"
	serveFlags.dryRun = true

	cmd, _ := newTestCommand("")
	if err := serveAPI(cmd, nil); cli.ExitCode(err) != cli.ExitConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestServeCommand_StopsOnCancel(t *testing.T) {
	resetFlags(t)
	cfgFile = "testdata/config.yaml"

	ctx, cancel := context.WithCancel(context.Background())
	cmd, _ := newTestCommand("")
	cmd.SetContext(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- serveAPI(cmd, nil) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("serveAPI() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

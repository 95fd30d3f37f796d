package rules

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"bcsb-lending/conditions-matrix/pkg/catalog"
)

func newTestEngine(t *testing.T, observer Observer) *Engine {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	eng, err := NewEngine(cat, nil, logger, observer)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return eng
}

func TestNewEngine_NilCatalog(t *testing.T) {
	if _, err := NewEngine(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error for nil catalog")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cat, _ := catalog.Default()
	cfg := DefaultConfig()
	cfg.UnsecuredCode = ""
	if _, err := NewEngine(cat, cfg, nil, nil); err == nil {
		t.Fatal("expected error for empty unsecured code")
	}
}

func TestEvaluateRequirements_TermLoanSmall(t *testing.T) {
	eng := newTestEngine(t, nil)
	answers := AnswerSet{LoanType: "term_loan", LoanAmount: AmountOf(50000)}

	got := eng.EvaluateRequirements(answers)
	want := []string{
		"Comprehensive business plan including market analysis and financial projections",
		"Current financial statements (balance sheet, income statement, cash flow) for the last 3 years",
		"personal_guarantee",
	}
	if !slices.Equal(got, want) {
		t.Errorf("EvaluateRequirements() =\n%q\nwant\n%q", got, want)
	}

	report := eng.Evaluate(answers)
	if report.AmountBucket != "under_100k" {
		t.Errorf("AmountBucket = %q, want under_100k", report.AmountBucket)
	}
	if !report.Validation.IsValid {
		t.Errorf("expected valid answers, got errors %v", report.Validation.Errors)
	}
}

func TestValidate_BelowMinimum(t *testing.T) {
	eng := newTestEngine(t, nil)
	result := eng.Validate(AnswerSet{LoanType: "term_loan", LoanAmount: AmountOf(5000)})

	if result.IsValid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	want := "Loan amount ($5,000) is below minimum for term_loan ($10,000)"
	if result.Errors[0] != want {
		t.Errorf("error = %q, want %q", result.Errors[0], want)
	}
}

func TestValidate_AboveMaximum(t *testing.T) {
	eng := newTestEngine(t, nil)
	result := eng.Validate(AnswerSet{LoanType: "equipment_financing", LoanAmount: AmountOf(2500000)})

	if result.IsValid {
		t.Fatal("expected invalid result")
	}
	want := "Loan amount ($2,500,000) exceeds maximum for equipment_financing ($2,000,000)"
	if len(result.Errors) != 1 || result.Errors[0] != want {
		t.Errorf("errors = %q, want [%q]", result.Errors, want)
	}
}

func TestValidate_Skips(t *testing.T) {
	eng := newTestEngine(t, nil)

	tests := []struct {
		name    string
		answers AnswerSet
	}{
		{"empty", AnswerSet{}},
		{"no loan type", AnswerSet{LoanAmount: AmountOf(1)}},
		{"zero amount", AnswerSet{LoanType: "term_loan"}},
		{"negative amount", AnswerSet{LoanType: "term_loan", LoanAmount: AmountOf(-5)}},
		{"unknown loan type", AnswerSet{LoanType: "bridge_loan", LoanAmount: AmountOf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eng.Validate(tt.answers)
			if !result.IsValid || len(result.Errors) != 0 || len(result.Warnings) != 0 {
				t.Errorf("Validate() = %+v, want default valid result", result)
			}
			if result.Errors == nil || result.Warnings == nil {
				t.Error("expected non-nil empty slices")
			}
		})
	}
}

func TestValidate_UnsecuredWarning(t *testing.T) {
	eng := newTestEngine(t, nil)

	tests := []struct {
		name        string
		answers     AnswerSet
		wantWarning bool
	}{
		{
			name:        "over threshold",
			answers:     AnswerSet{LoanType: "term_loan", LoanAmount: AmountOf(300000), CollateralType: CodeSet{"unsecured"}},
			wantWarning: true,
		},
		{
			name:        "at threshold",
			answers:     AnswerSet{LoanType: "term_loan", LoanAmount: AmountOf(250000), CollateralType: CodeSet{"unsecured"}},
			wantWarning: false,
		},
		{
			name:        "secured",
			answers:     AnswerSet{LoanType: "term_loan", LoanAmount: AmountOf(300000), CollateralType: CodeSet{"equipment"}},
			wantWarning: false,
		},
		{
			name:        "no loan type",
			answers:     AnswerSet{LoanAmount: AmountOf(300000), CollateralType: CodeSet{"unsecured"}},
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eng.Validate(tt.answers)
			if got := len(result.Warnings) > 0; got != tt.wantWarning {
				t.Errorf("warning present = %v, want %v (%v)", got, tt.wantWarning, result.Warnings)
			}
			if !result.IsValid {
				t.Errorf("warnings must not invalidate: %v", result.Errors)
			}
		})
	}
}

func TestEvaluate_LargeUnsecuredConstruction(t *testing.T) {
	eng := newTestEngine(t, nil)
	answers := AnswerSet{
		LoanType:       "construction",
		LoanAmount:     AmountOf(6000000),
		CollateralType: CodeSet{"unsecured"},
	}

	report := eng.Evaluate(answers)

	if report.AmountBucket != "over_5m" {
		t.Errorf("AmountBucket = %q, want over_5m", report.AmountBucket)
	}
	if !slices.Contains(report.Requirements, "Regulatory review and approval process") {
		t.Errorf("expected regulatory review requirement, got %q", report.Requirements)
	}
	if report.RiskLevel != RiskHigh {
		t.Errorf("RiskLevel = %q, want High", report.RiskLevel)
	}
	if report.EstimatedProcessingTime.Days() < 25 {
		t.Errorf("EstimatedProcessingTime = %d, want >= 25", report.EstimatedProcessingTime)
	}
	if report.EstimatedProcessingTime != 25 {
		t.Errorf("EstimatedProcessingTime = %d, want 25 for %d requirements", report.EstimatedProcessingTime, report.RequirementCount)
	}
	wantWarning := "Unsecured loans over $250,000 require exceptional credit profile and cash flow"
	if !slices.Contains(report.Validation.Warnings, wantWarning) {
		t.Errorf("warnings = %q, want %q", report.Validation.Warnings, wantWarning)
	}
	if report.RequirementCount != len(report.Requirements) {
		t.Errorf("RequirementCount = %d, len(Requirements) = %d", report.RequirementCount, len(report.Requirements))
	}
	// construction base (3) + over_5m (4) + unsecured (3, board_resolution shared)
	if report.RequirementCount != 9 {
		t.Errorf("RequirementCount = %d, want 9", report.RequirementCount)
	}
}

func TestEvaluateRequirements_Empty(t *testing.T) {
	eng := newTestEngine(t, nil)

	got := eng.EvaluateRequirements(AnswerSet{})
	if got == nil || len(got) != 0 {
		t.Errorf("EvaluateRequirements({}) = %#v, want empty non-nil list", got)
	}
	if !eng.Validate(AnswerSet{}).IsValid {
		t.Error("empty answers should be valid")
	}
}

func TestEvaluateRequirements_UnknownCodes(t *testing.T) {
	eng := newTestEngine(t, nil)
	answers := AnswerSet{
		LoanType:       "bridge_loan",
		IndustryType:   "services",
		BorrowerType:   "trust",
		CollateralType: CodeSet{"crypto", "artwork"},
	}

	if got := eng.EvaluateRequirements(answers); len(got) != 0 {
		t.Errorf("unknown codes contributed %q", got)
	}
}

func TestEvaluateRequirements_UnionAndSort(t *testing.T) {
	eng := newTestEngine(t, nil)
	answers := AnswerSet{
		LoanType:       "real_estate",
		LoanAmount:     AmountOf(750000),
		BorrowerType:   "llc",
		IndustryType:   "real_estate",
		CollateralType: CodeSet{"real_estate", "personal_guarantee", "real_estate"},
	}

	got := eng.EvaluateRequirements(answers)
	if !sort.StringsAreSorted(got) {
		t.Errorf("requirements not sorted: %q", got)
	}

	seen := make(map[string]bool)
	for _, r := range got {
		if seen[r] {
			t.Errorf("duplicate requirement %q", r)
		}
		seen[r] = true
	}

	// appraisal comes from both the loan type and the collateral table.
	appraisal := "Current appraisal by certified appraiser (within 12 months)"
	if !seen[appraisal] {
		t.Errorf("missing %q", appraisal)
	}
	for _, want := range []string{
		"Board resolution authorizing the loan and designating signing authority",
		"LLC operating agreement",
		"member_resolutions",
		"Current rent rolls for income-producing properties",
		"Personal guarantee agreement",
	} {
		if !seen[want] {
			t.Errorf("missing %q", want)
		}
	}
}

func TestEvaluateRequirements_OrdinalSort(t *testing.T) {
	eng := newTestEngine(t, nil)
	got := eng.EvaluateRequirements(AnswerSet{BorrowerType: "non_profit"})

	// Digits sort before upper case, upper case before lower case.
	want := []string{"501c3_determination", "Major donor information and funding sources", "board_minutes"}
	if !slices.Equal(got, want) {
		t.Errorf("EvaluateRequirements() = %q, want %q", got, want)
	}
}

func TestEvaluateRequirements_Deterministic(t *testing.T) {
	eng := newTestEngine(t, nil)
	a := AnswerSet{
		LoanType:       "sba_loan",
		LoanAmount:     AmountOf(1200000),
		BorrowerType:   "corporation",
		IndustryType:   "manufacturing",
		CollateralType: CodeSet{"inventory", "accounts_receivable", "equipment"},
	}
	b := AnswerSet{
		CollateralType: CodeSet{"equipment", "inventory", "accounts_receivable"},
		IndustryType:   "manufacturing",
		BorrowerType:   "corporation",
		LoanAmount:     AmountOf(1200000),
		LoanType:       "sba_loan",
	}

	first := eng.EvaluateRequirements(a)
	second := eng.EvaluateRequirements(a)
	reordered := eng.EvaluateRequirements(b)

	if !slices.Equal(first, second) {
		t.Error("repeated evaluation differs")
	}
	if !slices.Equal(first, reordered) {
		t.Error("collateral order changed the result")
	}
}

func TestEvaluateRequirements_DoesNotMutateAnswers(t *testing.T) {
	eng := newTestEngine(t, nil)
	answers := AnswerSet{
		LoanType:       "term_loan",
		LoanAmount:     AmountOf(200000),
		CollateralType: CodeSet{"unsecured", "equipment"},
	}
	before := strings.Join(answers.CollateralType, ",")

	eng.Evaluate(answers)

	if after := strings.Join(answers.CollateralType, ","); after != before {
		t.Errorf("collateral mutated: %q -> %q", before, after)
	}
}

func TestEstimateProcessingTime(t *testing.T) {
	eng := newTestEngine(t, nil)
	reqs := func(n int) []string { return make([]string, n) }

	tests := []struct {
		name    string
		answers AnswerSet
		reqs    []string
		want    ProcessingTime
	}{
		{"base", AnswerSet{}, nil, 5},
		{"over 500k", AnswerSet{LoanAmount: AmountOf(500001)}, nil, 10},
		{"exactly 500k", AnswerSet{LoanAmount: AmountOf(500000)}, nil, 5},
		{"over 1m", AnswerSet{LoanAmount: AmountOf(1000001)}, nil, 15},
		{"11 requirements", AnswerSet{}, reqs(11), 8},
		{"10 requirements", AnswerSet{}, reqs(10), 5},
		{"16 requirements", AnswerSet{}, reqs(16), 10},
		{"construction", AnswerSet{LoanType: "construction"}, nil, 15},
		{"sba", AnswerSet{LoanType: "sba_loan"}, nil, 20},
		{"everything", AnswerSet{LoanType: "sba_loan", LoanAmount: AmountOf(2000000)}, reqs(20), 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eng.EstimateProcessingTime(tt.answers, tt.reqs); got != tt.want {
				t.Errorf("EstimateProcessingTime() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProcessingTime_String(t *testing.T) {
	if got := ProcessingTime(12).String(); got != "12 business days" {
		t.Errorf("String() = %q", got)
	}
}

func TestAssessRiskLevel(t *testing.T) {
	eng := newTestEngine(t, nil)
	unsecured := CodeSet{"unsecured"}

	tests := []struct {
		name    string
		answers AnswerSet
		want    RiskLevel
	}{
		{"empty", AnswerSet{}, RiskLow},
		{"500k+ only", AnswerSet{LoanAmount: AmountOf(600000)}, RiskLow},
		{"line of credit 1m+", AnswerSet{LoanType: "line_of_credit", LoanAmount: AmountOf(1500000)}, RiskMedium},
		{"over 5m", AnswerSet{LoanAmount: AmountOf(5000001)}, RiskMedium},
		{"exactly 5m", AnswerSet{LoanAmount: AmountOf(5000000)}, RiskLow},
		{"unsecured construction", AnswerSet{LoanType: "construction", CollateralType: unsecured}, RiskMedium},
		{"unsecured construction 500k+", AnswerSet{LoanType: "construction", LoanAmount: AmountOf(600000), CollateralType: unsecured}, RiskHigh},
		{"unsecured line of credit", AnswerSet{LoanType: "line_of_credit", CollateralType: unsecured}, RiskMedium},
		{"max score", AnswerSet{LoanType: "construction", LoanAmount: AmountOf(6000000), CollateralType: unsecured}, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eng.AssessRiskLevel(tt.answers); got != tt.want {
				t.Errorf("AssessRiskLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummary_MatchesEvaluate(t *testing.T) {
	eng := newTestEngine(t, nil)
	answers := AnswerSet{LoanType: "line_of_credit", LoanAmount: AmountOf(800000), BorrowerType: "partnership"}

	summary := eng.Summary(answers)
	report := eng.Evaluate(answers)

	if summary.RequirementCount != report.RequirementCount ||
		summary.RiskLevel != report.RiskLevel ||
		summary.EstimatedProcessingTime != report.EstimatedProcessingTime ||
		summary.Validation.IsValid != report.Validation.IsValid {
		t.Errorf("Summary() = %+v, Evaluate() = %+v", summary, report.Summary)
	}
}

func TestExplain(t *testing.T) {
	eng := newTestEngine(t, nil)
	contributions := eng.Explain(AnswerSet{
		LoanType:       "term_loan",
		LoanAmount:     AmountOf(150000),
		IndustryType:   "other",
		CollateralType: CodeSet{"equipment", "unknown"},
	})

	var tables []string
	for _, c := range contributions {
		tables = append(tables, string(c.Table)+":"+c.Key)
	}
	want := []string{"loan_types:term_loan", "amount_buckets:between_100k_500k", "collateral:equipment"}
	if !slices.Equal(tables, want) {
		t.Errorf("Explain() tables = %v, want %v", tables, want)
	}
}

func TestEngine_Concurrent(t *testing.T) {
	eng := newTestEngine(t, nil)
	answers := AnswerSet{LoanType: "term_loan", LoanAmount: AmountOf(2000000), CollateralType: CodeSet{"equipment"}}
	want := eng.EvaluateRequirements(answers)

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := eng.EvaluateRequirements(answers); !slices.Equal(got, want) {
				errs <- strings.Join(got, "|")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("concurrent evaluation differed: %s", e)
	}
}

type panickingObserver struct {
	mu       sync.Mutex
	failures []string
}

func (o *panickingObserver) RequirementsEvaluated(string, int, time.Duration) {
	panic("observer exploded")
}

func (o *panickingObserver) Assessed(RiskLevel, bool, int) {}

func (o *panickingObserver) FailedOpen(operation string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, operation)
}

func TestEvaluateRequirements_FailOpen(t *testing.T) {
	obs := &panickingObserver{}
	eng := newTestEngine(t, obs)

	got := eng.EvaluateRequirements(AnswerSet{LoanType: "term_loan", LoanAmount: AmountOf(50000)})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty list on internal failure, got %q", got)
	}
	if len(obs.failures) != 1 || obs.failures[0] != "evaluate_requirements" {
		t.Errorf("failures = %v", obs.failures)
	}

	report := eng.Evaluate(AnswerSet{LoanType: "term_loan", LoanAmount: AmountOf(5000)})
	if report.RequirementCount != 0 {
		t.Errorf("RequirementCount = %d, want 0", report.RequirementCount)
	}
	if report.Validation.IsValid {
		t.Error("validation should still run when requirement evaluation fails")
	}
}

func TestEvaluate_HugeExponentAmount(t *testing.T) {
	eng := newTestEngine(t, nil)

	var answers AnswerSet
	input := `{"loan_type":"term_loan","loan_amount":"1e90000000","collateral_type":["unsecured"]}`
	if err := json.Unmarshal([]byte(input), &answers); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	done := make(chan Report, 1)
	go func() { done <- eng.Evaluate(answers) }()

	select {
	case report := <-done:
		if report.AmountBucket != "under_100k" {
			t.Errorf("AmountBucket = %q, want under_100k", report.AmountBucket)
		}
		if len(report.Validation.Errors) != 0 {
			t.Errorf("unexpected errors: %v", report.Validation.Errors)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Evaluate did not return for an out-of-range amount")
	}
}

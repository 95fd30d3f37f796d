package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"bcsb-lending/conditions-matrix/pkg/catalog"
)

// Observer receives evaluation outcomes, typically to record metrics.
type Observer interface {
	// RequirementsEvaluated is called after each successful requirement
	// evaluation.
	RequirementsEvaluated(bucket string, count int, duration time.Duration)

	// Assessed is called after each Summary or Evaluate call.
	Assessed(risk RiskLevel, valid bool, processingDays int)

	// FailedOpen is called when an operation recovered from an internal
	// fault and returned a default result.
	FailedOpen(operation string)
}

type nopObserver struct{}

func (nopObserver) RequirementsEvaluated(string, int, time.Duration) {}
func (nopObserver) Assessed(RiskLevel, bool, int)                    {}
func (nopObserver) FailedOpen(string)                                {}

// Engine evaluates answer sets against a rule catalog.
type Engine struct {
	catalog  *catalog.Catalog
	config   *Config
	logger   *slog.Logger
	observer Observer

	// now is overridable for tests.
	now func() time.Time
}

// NewEngine creates an engine for cat. A nil config selects DefaultConfig,
// a nil logger selects slog.Default and a nil observer discards outcomes.
func NewEngine(cat *catalog.Catalog, config *Config, logger *slog.Logger, observer Observer) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}

	return &Engine{
		catalog:  cat,
		config:   config,
		logger:   logger.With("component", "rules.engine"),
		observer: observer,
		now:      time.Now,
	}, nil
}

// Catalog returns the catalog the engine evaluates against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// recoverTo turns a panic in operation into a logged, counted fail-open.
// fallback runs only when a panic was recovered.
func (e *Engine) recoverTo(operation string, answers AnswerSet, fallback func()) {
	if r := recover(); r != nil {
		e.logger.Error("evaluation failed, returning default result",
			"operation", operation,
			"loan_type", answers.LoanType,
			"panic", fmt.Sprint(r),
		)
		e.observer.FailedOpen(operation)
		fallback()
	}
}

// EvaluateRequirements returns the sorted display texts of every requirement
// the answers trigger. It never fails; on an internal fault it returns an
// empty list.
func (e *Engine) EvaluateRequirements(answers AnswerSet) (requirements []string) {
	defer e.recoverTo("evaluate_requirements", answers, func() {
		requirements = []string{}
	})

	start := time.Now()
	codes, bucket := e.collect(answers)

	requirements = make([]string, 0, len(codes))
	for code := range codes {
		requirements = append(requirements, e.catalog.Describe(code))
	}
	sort.Strings(requirements)

	e.logger.Debug("generated requirements",
		"count", len(requirements),
		"amount_bucket", bucket,
	)
	e.observer.RequirementsEvaluated(bucket, len(requirements), time.Since(start))
	return requirements
}

// collect unions the requirement codes of every applicable table and
// returns them with the name of the selected amount bucket.
func (e *Engine) collect(answers AnswerSet) (map[string]struct{}, string) {
	codes := make(map[string]struct{})
	var bucket string
	for _, c := range e.contributions(answers) {
		if c.Table == catalog.TableAmountBuckets {
			bucket = c.Key
		}
		for _, code := range c.Requirements {
			codes[code] = struct{}{}
		}
	}
	return codes, bucket
}

// contributions lists, per table, the rule that applies to answers.
// Tables with no applicable rule are omitted.
func (e *Engine) contributions(answers AnswerSet) []Contribution {
	var out []Contribution

	if answers.LoanType != "" {
		if rule, ok := e.catalog.LoanType(answers.LoanType); ok {
			out = append(out, Contribution{Table: catalog.TableLoanTypes, Key: rule.Code, Requirements: rule.BaseRequirements})
		}
	}

	bucket := e.catalog.BucketFor(answers.LoanAmount.Decimal)
	out = append(out, Contribution{Table: catalog.TableAmountBuckets, Key: bucket.Name, Requirements: bucket.Requirements})

	if answers.IndustryType != "" {
		if rule, ok := e.catalog.Industry(answers.IndustryType); ok {
			out = append(out, Contribution{Table: catalog.TableIndustries, Key: rule.Code, Requirements: rule.Requirements})
		}
	}

	if answers.BorrowerType != "" {
		if rule, ok := e.catalog.BorrowerType(answers.BorrowerType); ok {
			out = append(out, Contribution{Table: catalog.TableBorrowerTypes, Key: rule.Code, Requirements: rule.Requirements})
		}
	}

	for _, code := range answers.CollateralType {
		if rule, ok := e.catalog.Collateral(code); ok {
			out = append(out, Contribution{Table: catalog.TableCollateral, Key: rule.Code, Requirements: rule.Requirements})
		}
	}

	return out
}

// Explain returns the per-table contributions behind EvaluateRequirements,
// in evaluation order. On an internal fault it returns nil.
func (e *Engine) Explain(answers AnswerSet) (contributions []Contribution) {
	defer e.recoverTo("explain", answers, func() {
		contributions = nil
	})
	return e.contributions(answers)
}

// Summary validates the answers and derives the requirement count, risk
// level and processing-time estimate.
func (e *Engine) Summary(answers AnswerSet) Summary {
	return e.Evaluate(answers).Summary
}

// Evaluate returns the full report for answers: the Summary plus the
// requirement list and the amount bucket applied.
func (e *Engine) Evaluate(answers AnswerSet) (report Report) {
	defer e.recoverTo("evaluate", answers, func() {
		report = Report{
			Summary: Summary{
				Validation: newValidationResult(),
				RiskLevel:  RiskLow,
			},
			Requirements: []string{},
			CatalogName:  e.catalog.Name(),
			EvaluatedAt:  e.now(),
		}
	})

	requirements := e.EvaluateRequirements(answers)
	validation := e.Validate(answers)
	processing := e.EstimateProcessingTime(answers, requirements)
	risk := e.AssessRiskLevel(answers)

	report = Report{
		Summary: Summary{
			Validation:              validation,
			RequirementCount:        len(requirements),
			EstimatedProcessingTime: processing,
			RiskLevel:               risk,
		},
		Requirements: requirements,
		AmountBucket: e.catalog.BucketFor(answers.LoanAmount.Decimal).Name,
		CatalogName:  e.catalog.Name(),
		EvaluatedAt:  e.now(),
	}

	e.observer.Assessed(risk, validation.IsValid, processing.Days())
	return report
}

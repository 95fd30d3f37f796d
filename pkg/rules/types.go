package rules

import (
	"fmt"
	"time"

	"bcsb-lending/conditions-matrix/pkg/catalog"
)

// RiskLevel is a coarse risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ProcessingTime is an estimate in business days.
type ProcessingTime int

// Days returns the estimate as a plain integer.
func (p ProcessingTime) Days() int { return int(p) }

// String renders the estimate the way loan officers read it.
func (p ProcessingTime) String() string {
	return fmt.Sprintf("%d business days", int(p))
}

// ValidationResult reports policy-limit problems with an answer set.
// Warnings never affect IsValid.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid" yaml:"is_valid"`
	Errors   []string `json:"errors" yaml:"errors"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

func newValidationResult() ValidationResult {
	return ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}
}

// Summary is the combined evaluation of an answer set without the
// requirement texts themselves.
type Summary struct {
	Validation              ValidationResult `json:"validation" yaml:"validation"`
	RequirementCount        int              `json:"requirement_count" yaml:"requirement_count"`
	EstimatedProcessingTime ProcessingTime   `json:"estimated_processing_time" yaml:"estimated_processing_time"`
	RiskLevel               RiskLevel        `json:"risk_level" yaml:"risk_level"`
}

// Report is a Summary together with the requirement list and the amount
// bucket that was applied.
type Report struct {
	Summary `yaml:",inline"`

	Requirements []string  `json:"requirements" yaml:"requirements"`
	AmountBucket string    `json:"amount_bucket" yaml:"amount_bucket"`
	CatalogName  string    `json:"catalog_name,omitempty" yaml:"catalog_name,omitempty"`
	EvaluatedAt  time.Time `json:"evaluated_at" yaml:"evaluated_at"`
}

// Contribution records the requirement codes one rule table added for an
// answer set. Codes already added by an earlier table are still listed.
type Contribution struct {
	Table        catalog.Table `json:"table" yaml:"table"`
	Key          string        `json:"key" yaml:"key"`
	Requirements []string      `json:"requirements" yaml:"requirements"`
}

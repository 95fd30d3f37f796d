package rules

import (
	"github.com/shopspring/decimal"
)

// Loan types with fixed processing and risk adjustments.
const (
	LoanTypeConstruction = "construction"
	LoanTypeSBA          = "sba_loan"
	LoanTypeLineOfCredit = "line_of_credit"
)

var (
	fiveHundredThousand = decimal.NewFromInt(500_000)
	oneMillion          = decimal.NewFromInt(1_000_000)
	fiveMillion         = decimal.NewFromInt(5_000_000)
)

// Processing time adjustments in business days.
const (
	baseProcessingDays = 5

	overOneMillionDays         = 10
	overFiveHundredThousandDay = 5

	overFifteenRequirementsDays = 5
	overTenRequirementsDays     = 3

	constructionDays = 10
	sbaDays          = 15
)

// EstimateProcessingTime estimates business days to close from the amount,
// the number of requirements and the loan type. All adjustments add up.
func (e *Engine) EstimateProcessingTime(answers AnswerSet, requirements []string) (days ProcessingTime) {
	defer e.recoverTo("estimate_processing_time", answers, func() {
		days = baseProcessingDays
	})

	total := baseProcessingDays
	amount := answers.LoanAmount.Decimal

	switch {
	case amount.GreaterThan(oneMillion):
		total += overOneMillionDays
	case amount.GreaterThan(fiveHundredThousand):
		total += overFiveHundredThousandDay
	}

	switch n := len(requirements); {
	case n > 15:
		total += overFifteenRequirementsDays
	case n > 10:
		total += overTenRequirementsDays
	}

	switch answers.LoanType {
	case LoanTypeConstruction:
		total += constructionDays
	case LoanTypeSBA:
		total += sbaDays
	}

	return ProcessingTime(total)
}

// AssessRiskLevel scores the answers and buckets the score: 5 or more is
// High, 3 or more is Medium, anything lower is Low.
func (e *Engine) AssessRiskLevel(answers AnswerSet) (level RiskLevel) {
	defer e.recoverTo("assess_risk_level", answers, func() {
		level = RiskLow
	})
	return riskLevelFor(e.riskScore(answers))
}

func (e *Engine) riskScore(answers AnswerSet) int {
	score := 0
	amount := answers.LoanAmount.Decimal

	switch {
	case amount.GreaterThan(fiveMillion):
		score += 3
	case amount.GreaterThan(oneMillion):
		score += 2
	case amount.GreaterThan(fiveHundredThousand):
		score += 1
	}

	if answers.HasCollateral(e.config.UnsecuredCode) {
		score += 2
	}

	switch answers.LoanType {
	case LoanTypeConstruction:
		score += 2
	case LoanTypeLineOfCredit:
		score += 1
	}

	return score
}

func riskLevelFor(score int) RiskLevel {
	switch {
	case score >= 5:
		return RiskHigh
	case score >= 3:
		return RiskMedium
	default:
		return RiskLow
	}
}

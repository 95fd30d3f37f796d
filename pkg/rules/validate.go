package rules

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Validate checks the loan amount against the loan type's limits and flags
// large unsecured loans. Errors make the result invalid; warnings do not.
func (e *Engine) Validate(answers AnswerSet) (result ValidationResult) {
	defer e.recoverTo("validate", answers, func() {
		result = newValidationResult()
	})

	result = newValidationResult()
	e.validateAmountLimits(answers, &result)
	e.validateCollateral(answers, &result)
	return result
}

// validateAmountLimits is skipped when no loan type is given or the amount
// is not positive. Both bounds are checked independently.
func (e *Engine) validateAmountLimits(answers AnswerSet, result *ValidationResult) {
	amount := answers.LoanAmount.Decimal
	if answers.LoanType == "" || !amount.IsPositive() {
		return
	}

	rule, ok := e.catalog.LoanType(answers.LoanType)
	if !ok {
		return
	}

	if amount.LessThan(rule.MinAmount) {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"Loan amount (%s) is below minimum for %s (%s)",
			formatMoney(amount), answers.LoanType, formatMoney(rule.MinAmount),
		))
		result.IsValid = false
	}

	if amount.GreaterThan(rule.MaxAmount) {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"Loan amount (%s) exceeds maximum for %s (%s)",
			formatMoney(amount), answers.LoanType, formatMoney(rule.MaxAmount),
		))
		result.IsValid = false
	}
}

// validateCollateral warns about large unsecured loans whatever the loan
// type, including when no loan type was given. Only the amount and the
// collateral selection are consulted.
func (e *Engine) validateCollateral(answers AnswerSet, result *ValidationResult) {
	if !answers.HasCollateral(e.config.UnsecuredCode) {
		return
	}
	threshold := e.config.UnsecuredWarningThreshold
	if answers.LoanAmount.GreaterThan(threshold) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Unsecured loans over %s require exceptional credit profile and cash flow",
			formatMoney(threshold),
		))
	}
}

// formatMoney renders d as dollars with thousands separators and at most
// three fraction digits, e.g. "$1,250,000" or "$5,000.5".
func formatMoney(d decimal.Decimal) string {
	return "$" + humanize.Commaf(d.Round(3).InexactFloat64())
}

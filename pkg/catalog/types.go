package catalog

import (
	"github.com/shopspring/decimal"
)

// LoanTypeRule holds the base requirements and amount limits for one loan type.
type LoanTypeRule struct {
	// Code is the loan-type key (e.g., "term_loan").
	Code string

	// BaseRequirements are added for every assessment of this loan type,
	// in catalog order.
	BaseRequirements []string

	// MinAmount is the smallest amount the policy allows for this loan type.
	MinAmount decimal.Decimal

	// MaxAmount is the largest amount the policy allows for this loan type.
	MaxAmount decimal.Decimal

	// CollateralRequirements lists the collateral documents normally expected
	// for this loan type. Informational only; the evaluator does not add them.
	CollateralRequirements []string
}

// AmountBucket is a loan-amount tier. The bucket applies to amounts at or
// above LowerBound and below the next bucket's LowerBound.
type AmountBucket struct {
	// Name is the bucket key (e.g., "between_100k_500k").
	Name string

	// LowerBound is the inclusive lower bound of the tier.
	LowerBound decimal.Decimal

	// Requirements are added when this bucket is selected.
	Requirements []string
}

// AddOnRule maps a single answer code to additional requirement codes.
type AddOnRule struct {
	// Code is the answer code (e.g., "manufacturing", "llc", "equipment").
	Code string

	// Requirements are added when the answer selects Code.
	Requirements []string
}

// IndustryRule adds requirements for a borrower's industry.
type IndustryRule = AddOnRule

// BorrowerTypeRule adds requirements for a borrower's legal form.
type BorrowerTypeRule = AddOnRule

// CollateralRule adds requirements for one pledged collateral type.
type CollateralRule = AddOnRule

// Dictionary maps requirement codes to display text.
type Dictionary map[string]string

// Text returns the display text for code, or code itself when the
// dictionary has no entry for it.
func (d Dictionary) Text(code string) string {
	if text, ok := d[code]; ok {
		return text
	}
	return code
}

// Table identifies one of the rule tables of a catalog.
type Table string

const (
	TableLoanTypes     Table = "loan_types"
	TableAmountBuckets Table = "amount_buckets"
	TableIndustries    Table = "industries"
	TableBorrowerTypes Table = "borrower_types"
	TableCollateral    Table = "collateral"
)

// Tables lists the rule tables in evaluation order.
var Tables = []Table{
	TableLoanTypes,
	TableAmountBuckets,
	TableIndustries,
	TableBorrowerTypes,
	TableCollateral,
}

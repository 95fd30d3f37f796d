package catalog

import (
	"maps"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// Catalog is an immutable, compiled rule catalog.
type Catalog struct {
	name    string
	version string

	loanTypes     map[string]LoanTypeRule
	industries    map[string]AddOnRule
	borrowerTypes map[string]AddOnRule
	collateral    map[string]AddOnRule

	// buckets is sorted by LowerBound, highest first.
	buckets []AmountBucket

	dictionary Dictionary
}

// Compile validates doc and builds a Catalog from it. Lint warnings do not
// prevent compilation; only errors do.
func Compile(doc *Document) (*Catalog, error) {
	if doc == nil {
		return nil, ErrEmptyDocument
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	c := &Catalog{
		name:          doc.Name,
		version:       doc.Version,
		loanTypes:     make(map[string]LoanTypeRule, len(doc.LoanTypes)),
		industries:    compileAddOns(doc.Industries),
		borrowerTypes: compileAddOns(doc.BorrowerTypes),
		collateral:    compileAddOns(doc.Collateral),
		buckets:       make([]AmountBucket, 0, len(doc.AmountBuckets)),
		dictionary:    make(Dictionary, len(doc.Requirements)),
	}

	for code, spec := range doc.LoanTypes {
		c.loanTypes[code] = LoanTypeRule{
			Code:                   code,
			BaseRequirements:       slices.Clone(spec.BaseRequirements),
			MinAmount:              decimal.NewFromFloat(spec.MinAmount),
			MaxAmount:              decimal.NewFromFloat(spec.MaxAmount),
			CollateralRequirements: slices.Clone(spec.CollateralRequirements),
		}
	}

	for name, spec := range doc.AmountBuckets {
		c.buckets = append(c.buckets, AmountBucket{
			Name:         name,
			LowerBound:   decimal.NewFromFloat(spec.LowerBound),
			Requirements: slices.Clone(spec.Requirements),
		})
	}
	sort.Slice(c.buckets, func(i, j int) bool {
		return c.buckets[i].LowerBound.GreaterThan(c.buckets[j].LowerBound)
	})

	maps.Copy(c.dictionary, doc.Requirements)

	return c, nil
}

func compileAddOns(specs map[string]AddOnSpec) map[string]AddOnRule {
	rules := make(map[string]AddOnRule, len(specs))
	for code, spec := range specs {
		rules[code] = AddOnRule{
			Code:         code,
			Requirements: slices.Clone(spec.Requirements),
		}
	}
	return rules
}

// Name returns the catalog name.
func (c *Catalog) Name() string { return c.name }

// Version returns the catalog version.
func (c *Catalog) Version() string { return c.version }

// LoanType looks up a loan-type rule.
func (c *Catalog) LoanType(code string) (LoanTypeRule, bool) {
	rule, ok := c.loanTypes[code]
	if !ok {
		return LoanTypeRule{}, false
	}
	rule.BaseRequirements = slices.Clone(rule.BaseRequirements)
	rule.CollateralRequirements = slices.Clone(rule.CollateralRequirements)
	return rule, true
}

// Industry looks up an industry rule.
func (c *Catalog) Industry(code string) (IndustryRule, bool) {
	return lookupAddOn(c.industries, code)
}

// BorrowerType looks up a borrower-type rule.
func (c *Catalog) BorrowerType(code string) (BorrowerTypeRule, bool) {
	return lookupAddOn(c.borrowerTypes, code)
}

// Collateral looks up a collateral rule.
func (c *Catalog) Collateral(code string) (CollateralRule, bool) {
	return lookupAddOn(c.collateral, code)
}

func lookupAddOn(table map[string]AddOnRule, code string) (AddOnRule, bool) {
	rule, ok := table[code]
	if !ok {
		return AddOnRule{}, false
	}
	rule.Requirements = slices.Clone(rule.Requirements)
	return rule, true
}

// Bucket looks up an amount bucket by name.
func (c *Catalog) Bucket(name string) (AmountBucket, bool) {
	for _, b := range c.buckets {
		if b.Name == name {
			b.Requirements = slices.Clone(b.Requirements)
			return b, true
		}
	}
	return AmountBucket{}, false
}

// BucketFor selects the bucket with the highest lower bound that does not
// exceed amount. Amounts below every lower bound select the lowest bucket,
// so exactly one bucket is returned for any amount.
func (c *Catalog) BucketFor(amount decimal.Decimal) AmountBucket {
	var selected AmountBucket
	for _, b := range c.buckets {
		selected = b
		if b.LowerBound.LessThanOrEqual(amount) {
			break
		}
	}
	selected.Requirements = slices.Clone(selected.Requirements)
	return selected
}

// Buckets returns all amount buckets ordered by lower bound, lowest first.
func (c *Catalog) Buckets() []AmountBucket {
	out := make([]AmountBucket, len(c.buckets))
	for i, b := range c.buckets {
		b.Requirements = slices.Clone(b.Requirements)
		out[len(c.buckets)-1-i] = b
	}
	return out
}

// Describe returns the display text for a requirement code, falling back to
// the code itself.
func (c *Catalog) Describe(code string) string {
	return c.dictionary.Text(code)
}

// HasText reports whether the dictionary has display text for code.
func (c *Catalog) HasText(code string) bool {
	_, ok := c.dictionary[code]
	return ok
}

// Codes returns the sorted answer codes known to a table. For
// TableAmountBuckets it returns bucket names.
func (c *Catalog) Codes(table Table) []string {
	switch table {
	case TableLoanTypes:
		return slices.Sorted(maps.Keys(c.loanTypes))
	case TableIndustries:
		return slices.Sorted(maps.Keys(c.industries))
	case TableBorrowerTypes:
		return slices.Sorted(maps.Keys(c.borrowerTypes))
	case TableCollateral:
		return slices.Sorted(maps.Keys(c.collateral))
	case TableAmountBuckets:
		names := make([]string, 0, len(c.buckets))
		for _, b := range c.Buckets() {
			names = append(names, b.Name)
		}
		return names
	default:
		return nil
	}
}

// RequirementCodes returns every requirement code any table can add, sorted
// and deduplicated. Informational collateral requirements of loan types are
// not included since they are never evaluated.
func (c *Catalog) RequirementCodes() []string {
	seen := make(map[string]struct{})
	for _, r := range c.loanTypes {
		for _, code := range r.BaseRequirements {
			seen[code] = struct{}{}
		}
	}
	for _, b := range c.buckets {
		for _, code := range b.Requirements {
			seen[code] = struct{}{}
		}
	}
	for _, table := range []map[string]AddOnRule{c.industries, c.borrowerTypes, c.collateral} {
		for _, r := range table {
			for _, code := range r.Requirements {
				seen[code] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

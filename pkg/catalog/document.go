package catalog

// Document is the YAML representation of a catalog. It is the input to
// Compile and the unit that Lint inspects.
type Document struct {
	// Name is a human-readable catalog name.
	Name string `yaml:"name" json:"name"`

	// Version identifies the policy revision.
	Version string `yaml:"version" json:"version"`

	// LoanTypes is keyed by loan-type code.
	LoanTypes map[string]LoanTypeSpec `yaml:"loan_types" json:"loan_types"`

	// AmountBuckets is keyed by bucket name.
	AmountBuckets map[string]BucketSpec `yaml:"amount_buckets" json:"amount_buckets"`

	// Industries is keyed by industry code.
	Industries map[string]AddOnSpec `yaml:"industries" json:"industries"`

	// BorrowerTypes is keyed by borrower-type code.
	BorrowerTypes map[string]AddOnSpec `yaml:"borrower_types" json:"borrower_types"`

	// Collateral is keyed by collateral code.
	Collateral map[string]AddOnSpec `yaml:"collateral" json:"collateral"`

	// Requirements maps requirement codes to display text.
	Requirements map[string]string `yaml:"requirements" json:"requirements"`
}

// LoanTypeSpec is the document form of a LoanTypeRule.
type LoanTypeSpec struct {
	BaseRequirements       []string `yaml:"base_requirements" json:"base_requirements"`
	MinAmount              float64  `yaml:"min_amount" json:"min_amount"`
	MaxAmount              float64  `yaml:"max_amount" json:"max_amount"`
	CollateralRequirements []string `yaml:"collateral_requirements" json:"collateral_requirements,omitempty"`
}

// BucketSpec is the document form of an AmountBucket.
type BucketSpec struct {
	LowerBound   float64  `yaml:"lower_bound" json:"lower_bound"`
	Requirements []string `yaml:"requirements" json:"requirements"`
}

// AddOnSpec is the document form of an AddOnRule.
type AddOnSpec struct {
	Requirements []string `yaml:"requirements" json:"requirements"`
}

// addOnTables returns the three add-on tables keyed by table name.
func (d *Document) addOnTables() map[Table]map[string]AddOnSpec {
	return map[Table]map[string]AddOnSpec{
		TableIndustries:    d.Industries,
		TableBorrowerTypes: d.BorrowerTypes,
		TableCollateral:    d.Collateral,
	}
}

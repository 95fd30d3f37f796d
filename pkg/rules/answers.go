package rules

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AnswerSet is the record of one borrower's questionnaire responses. All
// fields are optional. The engine reads an AnswerSet and never modifies it.
type AnswerSet struct {
	LoanType       string  `json:"loan_type,omitempty" yaml:"loan_type,omitempty"`
	LoanAmount     Amount  `json:"loan_amount" yaml:"loan_amount"`
	BorrowerType   string  `json:"borrower_type,omitempty" yaml:"borrower_type,omitempty"`
	IndustryType   string  `json:"industry_type,omitempty" yaml:"industry_type,omitempty"`
	CollateralType CodeSet `json:"collateral_type,omitempty" yaml:"collateral_type,omitempty"`
}

// HasCollateral reports whether code is among the selected collateral types.
func (a AnswerSet) HasCollateral(code string) bool {
	return a.CollateralType.Contains(code)
}

// Amount is a loan amount decoded leniently: numbers and numeric strings are
// accepted, a leading numeric prefix is used when a string has trailing
// garbage, and anything else decodes to zero instead of failing.
type Amount struct {
	decimal.Decimal
}

// AmountOf returns the Amount for v. NaN and infinities yield zero.
func AmountOf(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Amount{}
	}
	return Amount{decimal.NewFromFloat(v)}
}

// numericPrefix matches the longest leading decimal number of a string.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseAmount parses the leading number of s as a float64. Strings with no
// numeric prefix, such as "" or "$5,000", yield zero, and so do numbers
// outside the float64 range ("1e400", a thousand-digit string). Every result
// has a bounded exponent, so comparisons against it stay cheap.
func ParseAmount(s string) Amount {
	m := numericPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return Amount{}
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return Amount{}
	}
	return AmountOf(f)
}

// MarshalJSON encodes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON decodes a JSON number or string. Other JSON values decode to
// zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*a = Amount{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = Amount{}
			return nil
		}
		*a = ParseAmount(s)
	default:
		*a = ParseAmount(string(data))
	}
	return nil
}

// MarshalYAML encodes the amount as a YAML float.
func (a Amount) MarshalYAML() (interface{}, error) {
	return a.InexactFloat64(), nil
}

// UnmarshalYAML decodes any scalar through ParseAmount. Sequences and
// mappings decode to zero.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
		*a = Amount{}
		return nil
	}
	*a = ParseAmount(value.Value)
	return nil
}

// CodeSet is a set of answer codes, such as the collateral types pledged for
// a loan. Values that are not a list decode to an empty set.
type CodeSet []string

// Contains reports whether code is in the set.
func (s CodeSet) Contains(code string) bool {
	return slices.Contains(s, code)
}

// UnmarshalJSON keeps the string elements of a JSON array and ignores
// everything else.
func (s *CodeSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*s = nil
		return nil
	}
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = nil
		return nil
	}
	out := make(CodeSet, 0, len(raw))
	for _, v := range raw {
		if code, ok := v.(string); ok {
			out = append(out, code)
		}
	}
	*s = out
	return nil
}

// UnmarshalYAML keeps the scalar elements of a YAML sequence and ignores
// everything else.
func (s *CodeSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		*s = nil
		return nil
	}
	out := make(CodeSet, 0, len(value.Content))
	for _, item := range value.Content {
		if item.Kind == yaml.ScalarNode {
			out = append(out, item.Value)
		}
	}
	*s = out
	return nil
}

package questionnaire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Category groups related questions.
type Category string

// Question categories.
const (
	CategoryLoanType      Category = "loan_type"
	CategoryBorrowerInfo  Category = "borrower_info"
	CategoryCollateral    Category = "collateral"
	CategoryFinancialInfo Category = "financial_info"
	CategoryRiskFactors   Category = "risk_factors"
)

// Type is the input type of a question.
type Type string

// Question types.
const (
	TypeSelect   Type = "select"
	TypeRadio    Type = "radio"
	TypeCheckbox Type = "checkbox"
	TypeCurrency Type = "currency"
	TypeText     Type = "text"
)

// Option is one allowed answer of a select, radio or checkbox question.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Text  string `json:"text" yaml:"text"`
}

// Range bounds a currency answer. A zero bound is not enforced.
type Range struct {
	Min float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Question is one step of the questionnaire.
type Question struct {
	ID         string   `json:"id" yaml:"id"`
	Category   Category `json:"category" yaml:"category"`
	Text       string   `json:"question" yaml:"question"`
	Type       Type     `json:"type" yaml:"type"`
	Required   bool     `json:"required" yaml:"required"`
	Options    []Option `json:"options,omitempty" yaml:"options,omitempty"`
	Validation *Range   `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// HasOption reports whether value is one of the question's options.
func (q Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionText returns the display text of value, or value itself when it is
// not an option.
func (q Question) OptionText(value string) string {
	for _, o := range q.Options {
		if o.Value == value {
			return o.Text
		}
	}
	return value
}

// Value is a raw answer. Select, radio, currency and text questions use one
// element; checkbox questions use one element per selected option.
type Value []string

// Single returns a one-element Value.
func Single(s string) Value {
	return Value{s}
}

// String returns the first element, or "" for an empty value.
func (v Value) String() string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// IsEmpty reports whether v holds no non-blank element.
func (v Value) IsEmpty() bool {
	for _, s := range v {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// UnmarshalJSON accepts a string, a number, null or an array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = nil
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{s}
		return nil
	case data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("answer list must contain only strings: %w", err)
		}
		*v = Value(list)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer must be a string, number or list of strings")
		}
		*v = Value{n.String()}
		return nil
	}
}

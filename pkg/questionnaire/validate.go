package questionnaire

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Validate checks v against the question's type, options and range.
func (q Question) Validate(v Value) error {
	_, err := q.Normalize(v)
	return err
}

// Normalize validates v and returns it in canonical form: elements trimmed,
// blank and duplicate checkbox selections dropped, and currency amounts
// rewritten as plain decimal numbers. An empty answer to an optional
// question normalizes to nil.
func (q Question) Normalize(v Value) (Value, error) {
	values := make(Value, 0, len(v))
	seen := make(map[string]bool, len(v))
	for _, s := range v {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		values = append(values, s)
	}

	if len(values) == 0 {
		if q.Required {
			if q.Type == TypeCheckbox {
				return nil, answerError(q.ID, "select at least one option")
			}
			return nil, answerError(q.ID, "an answer is required")
		}
		return nil, nil
	}

	switch q.Type {
	case TypeSelect, TypeRadio:
		if len(values) > 1 {
			return nil, answerError(q.ID, "exactly one option must be chosen")
		}
		if !q.HasOption(values[0]) {
			return nil, answerError(q.ID, "%q is not a valid option", values[0])
		}
		return values, nil

	case TypeCheckbox:
		for _, s := range values {
			if !q.HasOption(s) {
				return nil, answerError(q.ID, "%q is not a valid option", s)
			}
		}
		return values, nil

	case TypeCurrency:
		if len(values) > 1 {
			return nil, answerError(q.ID, "exactly one amount must be given")
		}
		amount, err := parseCurrency(values[0])
		if err != nil {
			return nil, answerError(q.ID, "%q is not a valid amount", values[0])
		}
		if r := q.Validation; r != nil {
			if r.Min != 0 && amount.LessThan(decimal.NewFromFloat(r.Min)) {
				return nil, answerError(q.ID, "amount must be at least $%s", humanize.Commaf(r.Min))
			}
			if r.Max != 0 && amount.GreaterThan(decimal.NewFromFloat(r.Max)) {
				return nil, answerError(q.ID, "amount must not exceed $%s", humanize.Commaf(r.Max))
			}
		}
		return Value{amount.String()}, nil

	case TypeText:
		if len(values) > 1 {
			return nil, answerError(q.ID, "exactly one answer must be given")
		}
		return values, nil

	default:
		return nil, answerError(q.ID, "question type %q is not supported", q.Type)
	}
}

// plainNumber is a decimal number with an optional exponent. Hex floats,
// "Inf" and "NaN" are not amounts.
var plainNumber = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?$`)

// parseCurrency accepts plain numbers as well as amounts typed with a
// dollar sign and thousands separators, e.g. "$1,250,000.00". Amounts
// outside the float64 range are rejected.
func parseCurrency(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if !plainNumber.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("parse amount: %q is not a number", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount: %w", err)
	}
	if math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("parse amount: %q is out of range", s)
	}
	return decimal.NewFromFloat(f), nil
}

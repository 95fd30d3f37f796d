package catalog

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
)

// Validate checks doc for error-severity issues and returns a
// *ValidationError listing all of them, or nil.
func (d *Document) Validate() error {
	var errs []Issue
	for _, issue := range Lint(d) {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Issues: errs}
	}
	return nil
}

// Lint inspects doc and returns every issue found, errors and warnings,
// ordered by field path.
func Lint(d *Document) []Issue {
	if d == nil {
		return []Issue{{Message: ErrEmptyDocument.Error(), Severity: SeverityError}}
	}

	var issues []Issue
	issues = append(issues, lintMetadata(d)...)
	issues = append(issues, lintLoanTypes(d)...)
	issues = append(issues, lintBuckets(d)...)
	for _, table := range []Table{TableIndustries, TableBorrowerTypes, TableCollateral} {
		issues = append(issues, lintAddOns(table, d.addOnTables()[table])...)
	}
	issues = append(issues, lintDictionary(d)...)

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Field != issues[j].Field {
			return issues[i].Field < issues[j].Field
		}
		return issues[i].Message < issues[j].Message
	})
	return issues
}

func errorf(field, format string, args ...any) Issue {
	return Issue{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func warnf(field, format string, args ...any) Issue {
	return Issue{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

func lintMetadata(d *Document) []Issue {
	var issues []Issue
	if strings.TrimSpace(d.Name) == "" {
		issues = append(issues, warnf("name", "catalog name is empty"))
	}
	if strings.TrimSpace(d.Version) == "" {
		issues = append(issues, warnf("version", "catalog version is empty"))
	}
	return issues
}

func lintCodes(field string, codes []string) []Issue {
	var issues []Issue
	for i, code := range codes {
		if strings.TrimSpace(code) == "" {
			issues = append(issues, errorf(fmt.Sprintf("%s[%d]", field, i), "requirement code must not be empty"))
		}
	}
	return issues
}

func lintLoanTypes(d *Document) []Issue {
	var issues []Issue
	for code, spec := range d.LoanTypes {
		field := fmt.Sprintf("%s.%s", TableLoanTypes, code)
		if strings.TrimSpace(code) == "" {
			issues = append(issues, errorf(string(TableLoanTypes), "loan type code must not be empty"))
		}
		if spec.MinAmount < 0 {
			issues = append(issues, errorf(field+".min_amount", "must not be negative (got %v)", spec.MinAmount))
		}
		if spec.MaxAmount <= 0 {
			issues = append(issues, errorf(field+".max_amount", "must be positive (got %v)", spec.MaxAmount))
		} else if spec.MaxAmount < spec.MinAmount {
			issues = append(issues, errorf(field+".max_amount", "must not be below min_amount (%v < %v)", spec.MaxAmount, spec.MinAmount))
		}
		if len(spec.BaseRequirements) == 0 {
			issues = append(issues, warnf(field+".base_requirements", "loan type has no base requirements"))
		}
		issues = append(issues, lintCodes(field+".base_requirements", spec.BaseRequirements)...)
		issues = append(issues, lintCodes(field+".collateral_requirements", spec.CollateralRequirements)...)
	}
	return issues
}

func lintBuckets(d *Document) []Issue {
	field := string(TableAmountBuckets)
	if len(d.AmountBuckets) == 0 {
		return []Issue{errorf(field, "at least one amount bucket is required")}
	}

	var issues []Issue
	bounds := make(map[float64]string, len(d.AmountBuckets))
	hasZero := false

	for _, name := range slices.Sorted(maps.Keys(d.AmountBuckets)) {
		spec := d.AmountBuckets[name]
		bucketField := fmt.Sprintf("%s.%s", field, name)
		if strings.TrimSpace(name) == "" {
			issues = append(issues, errorf(field, "bucket name must not be empty"))
		}
		if spec.LowerBound < 0 {
			issues = append(issues, errorf(bucketField+".lower_bound", "must not be negative (got %v)", spec.LowerBound))
		}
		if spec.LowerBound == 0 {
			hasZero = true
		}
		if other, dup := bounds[spec.LowerBound]; dup {
			issues = append(issues, errorf(bucketField+".lower_bound", "duplicate lower bound %v (also used by %q)", spec.LowerBound, other))
		} else {
			bounds[spec.LowerBound] = name
		}
		issues = append(issues, lintCodes(bucketField+".requirements", spec.Requirements)...)
	}

	if !hasZero {
		issues = append(issues, errorf(field, "no bucket has lower_bound 0"))
	}
	return issues
}

func lintAddOns(table Table, specs map[string]AddOnSpec) []Issue {
	var issues []Issue
	for code, spec := range specs {
		field := fmt.Sprintf("%s.%s", table, code)
		if strings.TrimSpace(code) == "" {
			issues = append(issues, errorf(string(table), "code must not be empty"))
		}
		issues = append(issues, lintCodes(field+".requirements", spec.Requirements)...)
	}
	return issues
}

// lintDictionary warns about evaluated requirement codes with no display
// text and about dictionary entries nothing references.
func lintDictionary(d *Document) []Issue {
	referenced := make(map[string]struct{})
	for _, spec := range d.LoanTypes {
		for _, code := range spec.BaseRequirements {
			referenced[code] = struct{}{}
		}
	}
	for _, spec := range d.AmountBuckets {
		for _, code := range spec.Requirements {
			referenced[code] = struct{}{}
		}
	}
	for _, specs := range d.addOnTables() {
		for _, spec := range specs {
			for _, code := range spec.Requirements {
				referenced[code] = struct{}{}
			}
		}
	}

	var issues []Issue
	for _, code := range slices.Sorted(maps.Keys(referenced)) {
		if code == "" {
			continue
		}
		if _, ok := d.Requirements[code]; !ok {
			issues = append(issues, warnf("requirements."+code, "no display text; the raw code will be shown"))
		}
	}
	for _, code := range slices.Sorted(maps.Keys(d.Requirements)) {
		if _, ok := referenced[code]; !ok {
			issues = append(issues, warnf("requirements."+code, "not referenced by any rule table"))
		}
		if strings.TrimSpace(d.Requirements[code]) == "" {
			issues = append(issues, errorf("requirements."+code, "display text must not be empty"))
		}
	}
	return issues
}

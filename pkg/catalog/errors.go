package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDocument indicates a catalog document with no content.
var ErrEmptyDocument = errors.New("empty catalog document")

// Severity classifies a lint issue.
type Severity string

const (
	// SeverityError issues prevent the catalog from compiling.
	SeverityError Severity = "error"

	// SeverityWarning issues are reported but do not prevent compilation.
	SeverityWarning Severity = "warning"
)

// Issue is a single problem found in a catalog document.
type Issue struct {
	// Field is the dotted path to the offending entry
	// (e.g., "loan_types.term_loan.max_amount").
	Field string `json:"field"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Severity is either SeverityError or SeverityWarning.
	Severity Severity `json:"severity"`
}

// Error returns the issue formatted as "field: message".
func (i Issue) Error() string {
	if i.Field == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// ValidationError carries every error-severity issue found in a document.
type ValidationError struct {
	Issues []Issue
}

// Error returns a formatted string containing all issues.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "catalog validation failed"
	}
	if len(e.Issues) == 1 {
		return fmt.Sprintf("catalog validation failed: %s", e.Issues[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "catalog validation failed with %d errors:\n", len(e.Issues))
	for _, issue := range e.Issues {
		fmt.Fprintf(&sb, "  - %s\n", issue.Error())
	}
	return sb.String()
}

package define

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostics collects definition-file problems so a whole file can be
// reported in one pass instead of failing on the first bad field.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic is a single finding.
type Diagnostic struct {
	// Code is a stable identifier for this class of finding.
	Code string
	// Message is the human-readable description.
	Message string
	// Record names the record definition this relates to (if any).
	Record string
	// Field names the field this relates to (if any).
	Field string
}

func (d Diagnostic) String() string {
	loc := d.Record
	if d.Field != "" {
		loc = d.Record + "." + d.Field
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s", d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Code, loc, d.Message)
}

// AddError adds an error finding.
func (d *Diagnostics) AddError(code, message, record, field string) {
	d.Errors = append(d.Errors, Diagnostic{Code: code, Message: message, Record: record, Field: field})
}

// AddWarning adds a warning finding.
func (d *Diagnostics) AddWarning(code, message, record, field string) {
	d.Warnings = append(d.Warnings, Diagnostic{Code: code, Message: message, Record: record, Field: field})
}

// IsValid reports whether no errors were collected.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Err folds the errors into one error value, or nil when valid.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	msgs := make([]string, len(d.Errors))
	for i, diag := range d.Errors {
		msgs[i] = diag.String()
	}

	return errors.New("invalid definitions:\n  " + strings.Join(msgs, "\n  "))
}

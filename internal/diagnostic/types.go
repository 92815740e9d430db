package diagnostic

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// Diagnostics holds everything reported while processing annotated types.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a stable identifier for this class of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Type names the annotated type this relates to (if any).
	Type string
	// Member names the field or variant this relates to (if any).
	Member string
	// Pos is the source position of the offending annotation or declaration.
	Pos token.Position
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// AddError records an error diagnostic at pos.
func (d *Diagnostics) AddError(code, message, typeName, member string, pos token.Position) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Type:     typeName,
		Member:   member,
		Pos:      pos,
	})
}

// AddWarning records a warning diagnostic at pos.
func (d *Diagnostics) AddWarning(code, message, typeName, member string, pos token.Position) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Type:     typeName,
		Member:   member,
		Pos:      pos,
	})
}

// AddInfo records an informational diagnostic at pos.
func (d *Diagnostics) AddInfo(code, message, typeName, member string, pos token.Position) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Type:     typeName,
		Member:   member,
		Pos:      pos,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// ErrorsFor returns the error diagnostics recorded against typeName.
func (d *Diagnostics) ErrorsFor(typeName string) []Diagnostic {
	var out []Diagnostic

	for _, e := range d.Errors {
		if e.Type == typeName {
			out = append(out, e)
		}
	}

	return out
}

// Merge appends all diagnostics from other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String formats the diagnostic as position: type.member: [code] message.
func (d Diagnostic) String() string {
	var prefix []string

	if d.Pos.IsValid() {
		prefix = append(prefix, d.Pos.String())
	}

	if d.Type != "" {
		loc := d.Type
		if d.Member != "" {
			loc += "." + d.Member
		}

		prefix = append(prefix, loc)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, ": ") + ": " + msg
	}

	return msg
}

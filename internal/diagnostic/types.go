package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"wxr-importer/internal/common"
)

// Codes reported by the aggregate builder.
const (
	CodeUnknownEntity     = "unknown_entity"
	CodeOrphanPostMeta    = "orphan_post_meta"
	CodeOrphanComment     = "orphan_comment"
	CodeOrphanCommentMeta = "orphan_comment_meta"
	CodeOrphanTermMeta    = "orphan_term_meta"
	CodeIncompleteOption  = "incomplete_site_option"
)

// Diagnostics holds all diagnostic information from a build.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// EntityType is the tag of the entity this relates to (if any).
	EntityType string
	// Position is the zero-based index of the entity in the stream, or -1.
	Position int
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, entityType string, position int) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:   DiagnosticError,
		Code:       code,
		Message:    message,
		EntityType: entityType,
		Position:   position,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, entityType string, position int) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:   DiagnosticWarning,
		Code:       code,
		Message:    message,
		EntityType: entityType,
		Position:   position,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, entityType string, position int) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity:   DiagnosticInfo,
		Code:       code,
		Message:    message,
		EntityType: entityType,
		Position:   position,
	})
}

// Len returns the total number of diagnostics of every severity.
func (d Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// Codes returns the codes of all diagnostics, errors first.
func (d Diagnostics) Codes() []string {
	codes := make([]string, 0, d.Len())
	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			codes = append(codes, diag.Code)
		}
	}

	return codes
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.EntityType != "" {
		prefix = append(prefix, "["+d.EntityType+"]")
	}

	if d.Position >= 0 {
		prefix = append(prefix, fmt.Sprintf("#%d", d.Position))
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

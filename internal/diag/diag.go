// Package diag defines the structured diagnostic wire type used by every
// analyzer pass: a stable code, a severity, a message, a source
// location, and an optional structured-data payload for tooling.
package diag

import "github.com/blendsdk/blend65/internal/ast"

// Severity classifies a Diagnostic. Analysis succeeds only when zero
// diagnostics at SeverityError remain.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityHint:
		return "HINT"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is the single output channel of the analyzer: no exception
// escapes analyze(), every pass-local failure becomes one of these.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Location ast.Span
	Details  map[string]any
}

// List is an ordered collection of diagnostics: single-pass order is
// source order, cross-pass order is pass order.
type List struct {
	items []Diagnostic
}

// Add appends a diagnostic, preserving insertion order.
func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// Errorf appends an ERROR diagnostic.
func (l *List) Errorf(code string, loc ast.Span, msg string, details map[string]any) {
	l.Add(Diagnostic{Severity: SeverityError, Code: code, Message: msg, Location: loc, Details: details})
}

// Warnf appends a WARNING diagnostic.
func (l *List) Warnf(code string, loc ast.Span, msg string, details map[string]any) {
	l.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: msg, Location: loc, Details: details})
}

// Items returns the diagnostics in insertion order. The returned slice is
// owned by the caller to read, not to mutate.
func (l *List) Items() []Diagnostic { return l.items }

// ErrorCount returns the number of diagnostics at SeverityError.
func (l *List) ErrorCount() int {
	n := 0
	for _, d := range l.items {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns |{d : d.Severity == WARNING}|.
func (l *List) WarningCount() int {
	n := 0
	for _, d := range l.items {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// Extend appends another list's items in order, used when aggregating
// per-module diagnostics into a MultiModuleAnalysisResult.
func (l *List) Extend(other *List) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}

// Len reports the number of diagnostics recorded so far.
func (l *List) Len() int { return len(l.items) }

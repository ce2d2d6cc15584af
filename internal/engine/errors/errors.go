// Package errors defines the typed error taxonomy of spec.md §7,
// modeled on the teacher's internal/indexer.IndexerError: a Kind a
// caller can switch on or errors.As to, plus an optional wrapped
// cause, rather than bare fmt.Errorf strings.
package errors

import "fmt"

// Kind identifies the category of failure, per spec.md §7.
type Kind string

const (
	// Io covers file reading failures.
	Io Kind = "io"
	// PathEscape is an attempt to resolve a path outside the
	// configured root.
	PathEscape Kind = "path_escape"
	// SyntaxError is a parser rejection of the source.
	SyntaxError Kind = "syntax_error"
	// NotFound is a requested (path, line) with no nodes, or a
	// seed that cannot be located.
	NotFound Kind = "not_found"
	// InvalidInput covers malformed appendSource arguments,
	// configuration referencing a non-existent field, or an
	// unsupported node kind reaching nameOf.
	InvalidInput Kind = "invalid_input"
	// DuplicateHandle is raised by the HTML collaborator when a
	// file would be parsed twice.
	DuplicateHandle Kind = "duplicate_handle"
)

// Error is the engine's single error type. All failures that
// propagate out of the core (§7's "Propagation policy") are *Error
// values so callers can recover the Kind with errors.As.
type Error struct {
	Kind    Kind
	Message string
	Path    string
	Line    int
	Cause   error
}

func (e *Error) Error() string {
	loc := ""
	if e.Path != "" {
		if e.Line > 0 {
			loc = fmt.Sprintf(" at %s:%d", e.Path, e.Line)
		} else {
			loc = fmt.Sprintf(" at %s", e.Path)
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s%s: %s: %v", e.Kind, loc, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s%s: %s", e.Kind, loc, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an *Error with no location or cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an *Error that wraps cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// At attaches a (path, line) location to an existing error and
// returns it, for call sites that only learn the location after the
// fact.
func (e *Error) At(path string, line int) *Error {
	e.Path = path
	e.Line = line
	return e
}

// Is supports errors.Is(err, SomeKind) by comparing Kind whenever the
// target is itself a *Error; the target's message, location and cause
// are not compared.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// OfKind builds a zero-value sentinel for use with errors.Is, e.g.
// errors.Is(err, errors.OfKind(errors.NotFound)).
func OfKind(k Kind) *Error {
	return &Error{Kind: k}
}

// Package domainerrors provides coded errors shared by services and
// transports. Services create or wrap errors with a Code; the HTTP layer
// translates codes into status responses without inspecting message text.
package domainerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies an error for transport translation and branching.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal"
)

// Error is a coded domain error. Field is optional and names the input
// field a validation failure refers to.
type Error struct {
	Code    Code
	Message string
	Field   string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// NewField creates a coded error tied to a named input field.
func NewField(code Code, field, message string) error {
	return &Error{Code: code, Message: message, Field: field}
}

// Wrap attaches a code and message to an underlying error while keeping
// the cause reachable through errors.Unwrap.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the code.
// For an accumulated List, any member carrying the code matches.
func HasCode(err error, code Code) bool {
	var list *List
	if errors.As(err, &list) {
		return list.HasCode(code)
	}
	for err != nil {
		var coded *Error
		if errors.As(err, &coded) {
			if coded.Code == code {
				return true
			}
			err = coded.cause
			continue
		}
		return false
	}
	return false
}

// Is is a convenience alias for HasCode; reads naturally at call sites.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// List accumulates multiple coded errors so callers receive every
// validation failure in one response instead of the first one found.
type List struct {
	errs []error
}

// Add appends an error to the list. Nil errors are ignored; a *List is
// flattened so nested accumulation does not produce nested envelopes.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	var nested *List
	if errors.As(err, &nested) {
		l.errs = append(l.errs, nested.errs...)
		return
	}
	l.errs = append(l.errs, err)
}

// Addf is shorthand for Add(NewField(code, field, message)).
func (l *List) Addf(code Code, field, message string) {
	l.Add(NewField(code, field, message))
}

// Empty reports whether no errors were accumulated.
func (l *List) Empty() bool { return len(l.errs) == 0 }

// Err returns the list itself when non-empty, or nil. Always finalize an
// accumulation with Err so empty lists never escape as non-nil errors.
func (l *List) Err() error {
	if l.Empty() {
		return nil
	}
	return l
}

// Errors exposes the accumulated errors for transport serialization.
func (l *List) Errors() []error {
	return append([]error{}, l.errs...)
}

func (l *List) Error() string {
	parts := make([]string, 0, len(l.errs))
	for _, err := range l.errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

// HasCodeInList reports whether any accumulated error carries the code.
func (l *List) HasCode(code Code) bool {
	for _, err := range l.errs {
		if HasCode(err, code) {
			return true
		}
	}
	return false
}

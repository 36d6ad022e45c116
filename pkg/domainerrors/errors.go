// Package domainerrors defines the coded errors the engine exposes at its
// boundaries. Stores return sentinel errors; repositories and services wrap
// them into one of these codes so the transport layer can render the right
// response without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the kind of failure. The kind must survive to the boundary
// untranslated: no layer is allowed to collapse a coded error into a generic
// failure.
type Code string

const (
	// CodeValidation: caller-supplied input violates a precondition.
	// Recoverable by correcting the input, never retried automatically.
	CodeValidation Code = "validation_error"
	// CodeNotFound: the referenced entity does not exist at read time.
	CodeNotFound Code = "not_found"
	// CodeDuplicate: a create collided with an existing identifier.
	CodeDuplicate Code = "duplicate_key"
	// CodeUnavailable: the backing store adapter failed (network, auth,
	// quota). Propagated as-is.
	CodeUnavailable Code = "store_unavailable"
	// CodeBusinessRule: a domain invariant was violated outside of
	// field-level validation.
	CodeBusinessRule Code = "business_rule_violation"
	// CodeInternal: anything that should not happen.
	CodeInternal Code = "internal_error"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// raised outside this package.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus maps a code to the status the transport layer should answer
// with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicate:
		return http.StatusConflict
	case CodeBusinessRule:
		return http.StatusUnprocessableEntity
	case CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

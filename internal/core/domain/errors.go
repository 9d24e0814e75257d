package domain

import "errors"

// ErrorKind classifies a business failure for transport-level mapping.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindUnexpected      ErrorKind = "unexpected"
)

// Error carries a machine-readable code alongside the failure kind.
// Handlers return these for expected business conditions instead of
// propagating infrastructure faults.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches two domain errors by code so sentinel comparisons with
// errors.Is work across wrapping.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewValidationError builds a Validation failure.
func NewValidationError(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NewNotFoundError builds a NotFound failure.
func NewNotFoundError(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// NewConflictError builds a Conflict failure.
func NewConflictError(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// NewUnauthenticatedError builds an Unauthenticated failure.
func NewUnauthenticatedError(code, message string) *Error {
	return &Error{Kind: KindUnauthenticated, Code: code, Message: message}
}

// NewForbiddenError builds a Forbidden failure.
func NewForbiddenError(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

// KindOf extracts the failure kind from an error chain. Anything that is
// not a typed domain error is treated as an infrastructure fault.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}

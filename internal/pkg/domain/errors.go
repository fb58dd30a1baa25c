package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies application errors for transport-level mapping.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnavailable  ErrorCode = "UPSTREAM_UNAVAILABLE"
)

// Error is the application error type shared across layers. Handlers map
// codes to HTTP statuses; everything else just wraps and propagates.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// NewValidationError creates a validation error for rejected request data.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewInvalidInputError creates an error for type/shape violations in
// engine input (out-of-range coordinates, non-finite numerics).
func NewInvalidInputError(message string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message}
}

// NewNotFoundError creates a not-found error for the given resource.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewUnavailableError creates an error for an upstream provider failure.
func NewUnavailableError(message string, cause error) *Error {
	return &Error{Code: CodeUnavailable, Message: message, cause: cause}
}

// CodeOf extracts the error code, or empty string for non-application errors.
func CodeOf(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found application error.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

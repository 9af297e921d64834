package core_domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers classify with errors.Is; the HTTP layer maps each kind to a status code.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrBrandNotRegistered  = errors.New("brand not registered")
	ErrBrandNotApproved    = errors.New("brand not approved")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrRemoteCallFailed    = errors.New("remote call failed")
	ErrMissingRequestID    = errors.New("missing provider request id")
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("conflict")
)

// Error carries a user-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// NewError builds an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// InvalidInput is shorthand for the most common caller-correctable error.
func InvalidInput(message string) *Error {
	return NewError(ErrInvalidInput, message)
}

// UserMessage returns the message meant for the caller, falling back to fallback
// when err carries none.
func UserMessage(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}

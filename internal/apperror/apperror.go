// Package apperror defines the error taxonomy shared by every layer.
//
// Services return *AppError values wrapping one of the sentinel errors below.
// The HTTP layer inspects the chain with errors.Is and picks the status code,
// so nothing below the handler package knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("too many requests")
	ErrInternal     = errors.New("internal error")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying failure, logged but never shown to clients
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the sentinel kind and the cause, so errors.Is matches
// either of them.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// NotFoundMessage is NotFound with a free-form message, used when the lookup
// key is not an id (a username, an email).
func NotFoundMessage(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// ConflictMessage reports a uniqueness violation with a custom message.
func ConflictMessage(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized means the credential is missing, invalid, expired or revoked.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// RateLimited is returned when a caller exceeds the request budget.
func RateLimited(message string) *AppError {
	return &AppError{
		Err:     ErrRateLimited,
		Message: message,
	}
}

// Internal marks a persistence or collaborator failure. The message is safe
// to show to clients; cause is kept for logs.
func Internal(message string, cause error) *AppError {
	return &AppError{
		Err:     ErrInternal,
		Message: message,
		Cause:   cause,
	}
}

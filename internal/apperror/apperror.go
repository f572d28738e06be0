package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("Validation Error")
	ErrUpstream      = errors.New("upstream failure")
	ErrUpstreamModel = errors.New("completion service rejected the request")
	ErrForbidden     = errors.New("forbidden")
	ErrInternal      = errors.New("internal error")
)

// InternalMessage is the only text callers ever see for an internal error.
const InternalMessage = "Unexpected error occurred."

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Status  int    // Optional: status reported by an upstream service
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a resource that does not exist. An empty id yields
// the short "<resource> not found" form used for upstream lookups.
func NotFound(resource, id string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	if id != "" {
		msg = fmt.Sprintf("%s not found with id %s", resource, id)
	}
	return &AppError{
		Err:     ErrNotFound,
		Message: msg,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// MissingInput is a validation failure for a required field that was absent.
func MissingInput(field, message string) *AppError {
	return ValidationFailed(field, message)
}

// Upstream wraps a failure of a reachable upstream service. cause is kept
// in the chain for logging and never shown to callers.
func Upstream(message string, cause error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrUpstream, cause),
		Message: message,
	}
}

// UpstreamModel carries the completion service's own status code so
// handlers can pass it through.
func UpstreamModel(status int, message string) *AppError {
	return &AppError{
		Err:     ErrUpstreamModel,
		Message: message,
		Status:  status,
	}
}

// Internal marks cause as unexpected. Any classification inside cause is
// hidden behind the generic InternalMessage.
func Internal(cause error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrInternal, cause),
		Message: InternalMessage,
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

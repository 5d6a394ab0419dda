package apperrors

import (
	"fmt"
	"net/http"
)

// AppError is the portal's error envelope. Services return these (optionally
// wrapped around a cause) and the Fiber error handler maps them to HTTP.
type AppError struct {
	Status  int
	Code    string
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches on the error code so wrapped/customized copies still compare
// equal to their sentinel via errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy with a more specific message.
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	clone := *e
	clone.Message = fmt.Sprintf(format, args...)
	return &clone
}

// WithCause returns a copy carrying the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	clone := *e
	clone.cause = err
	return &clone
}

var (
	// Validation errors, caller-correctable at creation time.
	ErrInvalidCode      = &AppError{Status: http.StatusBadRequest, Code: "INVALID_CODE", Message: "location code is malformed"}
	ErrOutOfServiceArea = &AppError{Status: http.StatusUnprocessableEntity, Code: "OUT_OF_SERVICE_AREA", Message: "coordinate is outside the service region"}
	ErrValidation       = &AppError{Status: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "request validation failed"}

	// Workflow contention, expected and recoverable.
	ErrInvalidTransition = &AppError{Status: http.StatusConflict, Code: "INVALID_TRANSITION", Message: "action is no longer valid for this request"}
	ErrAlreadyClaimed    = &AppError{Status: http.StatusConflict, Code: "ALREADY_CLAIMED", Message: "request is already under review by another auditor"}

	// Infrastructure.
	ErrSourceUnavailable   = &AppError{Status: http.StatusServiceUnavailable, Code: "SOURCE_UNAVAILABLE", Message: "cabinet inventory source could not be fetched"}
	ErrUpstreamUnavailable = &AppError{Status: http.StatusServiceUnavailable, Code: "UPSTREAM_UNAVAILABLE", Message: "persistence backend is unreachable"}

	ErrNotFound  = &AppError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "record not found"}
	ErrForbidden = &AppError{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: "you are not allowed to access this resource"}
)

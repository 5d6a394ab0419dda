package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithMessageKeepsIdentity(t *testing.T) {
	err := ErrAlreadyClaimed.WithMessage("request %s is taken", "abc")

	assert.True(t, errors.Is(err, ErrAlreadyClaimed))
	assert.Equal(t, "request abc is taken", err.Message)
	// The sentinel itself is untouched.
	assert.Equal(t, "request is already under review by another auditor", ErrAlreadyClaimed.Message)
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := ErrUpstreamUnavailable.WithCause(cause)

	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDistinctCodesDoNotMatch(t *testing.T) {
	assert.False(t, errors.Is(ErrInvalidCode, ErrOutOfServiceArea))
	assert.False(t, errors.Is(ErrAlreadyClaimed.WithMessage("x"), ErrInvalidTransition))
}

func TestAsExposesStatus(t *testing.T) {
	var appErr *AppError
	err := error(ErrNotFound.WithMessage("record missing"))

	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/sumrunner/internal/errors"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *errors.AppError
		code   string
		status int
	}{
		{"not found", errors.NewNotFoundError("session", "abc"), errors.ErrCodeNotFound, http.StatusNotFound},
		{"validation", errors.NewValidationError("level", "out of range"), errors.ErrCodeValidation, http.StatusBadRequest},
		{"conflict", errors.NewConflictError("game is paused"), errors.ErrCodeConflict, http.StatusConflict},
		{"bad request", errors.NewBadRequestError("bad json"), errors.ErrCodeBadRequest, http.StatusBadRequest},
		{"internal", errors.NewInternalError(fmt.Errorf("disk full")), errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Contains(t, tt.err.Error(), tt.code)
		})
	}
}

func TestInternalErrorUnwraps(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := errors.NewInternalError(cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "disk full")
}

func TestAsAndHasCode(t *testing.T) {
	wrapped := fmt.Errorf("start game: %w", errors.NewConflictError("already running"))

	appErr, ok := errors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeConflict, appErr.Code)
	assert.True(t, errors.HasCode(wrapped, errors.ErrCodeConflict))
	assert.False(t, errors.HasCode(fmt.Errorf("plain"), errors.ErrCodeConflict))
}

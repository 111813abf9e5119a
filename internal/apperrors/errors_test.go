package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestConstructorsMatchKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   error
		status int
	}{
		{"validation", apperrors.NewValidationFailedError("bad amount"), apperrors.ErrValidation, http.StatusBadRequest},
		{"not found", apperrors.NewNotFoundError("group 1"), apperrors.ErrNotFound, http.StatusNotFound},
		{"conflict", apperrors.NewConflictError("active groups"), apperrors.ErrConflict, http.StatusConflict},
		{"transition", apperrors.NewInvalidTransitionError("not pending"), apperrors.ErrInvalidTransition, http.StatusConflict},
		{"forbidden", apperrors.NewPermissionDeniedError("nope"), apperrors.ErrForbidden, http.StatusForbidden},
		{"capacity", apperrors.Wrap(apperrors.ErrCapacityExceeded, "full"), apperrors.ErrCapacityExceeded, http.StatusConflict},
		{"not a member", apperrors.Wrap(apperrors.ErrNotAMember, "missing"), apperrors.ErrNotAMember, http.StatusNotFound},
		{"cycle not ready", apperrors.Wrap(apperrors.ErrCycleNotReady, "early"), apperrors.ErrCycleNotReady, http.StatusConflict},
		{"internal", apperrors.NewAppError(500, "db down", errors.New("boom")), apperrors.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.status, apperrors.StatusFor(tt.err))
		})
	}
}

func TestAppErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("saving group: %w", apperrors.NewAppError(500, "failed to save group", cause))

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Contains(t, err.Error(), "connection reset")
}

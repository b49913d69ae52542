package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"concordia/internal/errors"
)

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	err := ErrStudentConflict.WithDetails("sid=s-1")

	assert.True(t, errors.Is(err, ErrStudentConflict))
	assert.False(t, errors.Is(err, ErrStudentNotFound))
	assert.Equal(t, "sid=s-1", err.Details())
	assert.Equal(t, http.StatusConflict, err.HTTPCode())
	assert.Empty(t, ErrStudentConflict.Details(), "the predefined value is not mutated")
}

func TestBaseError_WrapMessage(t *testing.T) {
	err := ErrInvalidCredentials.WrapMessage("login failed")

	var appErr AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "INVALID_CREDENTIALS", appErr.ErrorCode())
	assert.Equal(t, "invalid credentials", appErr.Message())
	assert.Contains(t, err.Error(), "login failed")
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := stderrors.New("disk I/O error")
	err := NewDatabaseExecuteError(cause, "insert student")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", err.ErrorCode())
	assert.Equal(t, "insert student", err.Details())
	assert.True(t, errors.Is(err, cause))
	assert.NotContains(t, err.Message(), "disk", "driver details never reach the message")
}

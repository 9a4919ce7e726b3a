package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := New(ErrCodeValidationFailed, "bad input")
	assert.Equal(t, "VALIDATION_FAILED: bad input", err.Error())

	wrapped := Wrap(fmt.Errorf("disk full"), ErrCodeDatabaseQuery, "failed to store message")
	assert.Equal(t, "DATABASE_QUERY: failed to store message: disk full", wrapped.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, ErrCodeProviderAPI, "send failed")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestWithContext(t *testing.T) {
	err := NewValidationError("chatId", "chat id cannot be empty")
	require.NotNil(t, err.Context)
	assert.Equal(t, "chatId", err.Context["field"])

	err.WithContext("extra", 42)
	assert.Equal(t, 42, err.Context["extra"])
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("chat", "96890000000_96891111111")
	assert.Equal(t, ErrCodeNotFound, err.Code)
	assert.Contains(t, err.Error(), "chat not found")
	assert.Equal(t, "chat", err.Context["resource"])
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeAuthentication, GetCode(NewAuthError("wrong password")))
	assert.Equal(t, ErrCodeNotFound, GetCode(NewNotFoundError("line", "x")))

	// Codes survive further wrapping.
	wrapped := fmt.Errorf("handler: %w", NewAuthError("expired"))
	assert.Equal(t, ErrCodeAuthentication, GetCode(wrapped))

	assert.Equal(t, ErrCodeInternalError, GetCode(fmt.Errorf("plain error")))
	assert.Equal(t, ErrCodeInternalError, GetCode(nil))
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{NewAuthError("wrong password"), http.StatusUnauthorized},
		{NewNotFoundError("chat", "x"), http.StatusNotFound},
		{NewValidationError("text", "empty"), http.StatusBadRequest},
		{New(ErrCodeDatabaseQuery, "boom"), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusCode(tt.err))
	}
}

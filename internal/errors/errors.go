package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode categorizes failures for logging and HTTP mapping.
type ErrorCode string

const (
	ErrCodeAuthentication   ErrorCode = "AUTHENTICATION"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeProviderAPI      ErrorCode = "PROVIDER_API"
	ErrCodeDatabaseQuery    ErrorCode = "DATABASE_QUERY"
	ErrCodeInvalidConfig    ErrorCode = "INVALID_CONFIG"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// AppError is a structured application error carrying a code and
// optional key/value context for structured logs.
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// NewValidationError creates a validation error with field context.
func NewValidationError(field, message string) *AppError {
	return New(ErrCodeValidationFailed, message).WithContext("field", field)
}

// NewNotFoundError creates a not-found error with resource context.
func NewNotFoundError(resource, identifier string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithContext("resource", resource).
		WithContext("identifier", identifier)
}

// NewAuthError creates an authentication error.
func NewAuthError(reason string) *AppError {
	return New(ErrCodeAuthentication, reason)
}

// NewDatabaseError wraps a store failure with operation context.
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithContext("operation", operation)
}

// GetCode extracts the error code from an error chain.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// HTTPStatusCode maps error codes to HTTP status codes per the API
// error convention: 401 auth, 404 missing references, 400 bad input,
// 500 everything else.
func HTTPStatusCode(err error) int {
	switch GetCode(err) {
	case ErrCodeAuthentication:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

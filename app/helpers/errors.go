package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// AppError carries the HTTP status and a client-safe message. Internal is logged, never rendered.
type AppError struct {
	Code       int
	Type       string
	Message    string
	Fields     map[string]string
	RetryAfter time.Duration
	Internal   error
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches on Type so callers can test errors.Is(err, helpers.ErrRateLimited).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

const (
	TypeValidation        = "validation_failed"
	TypeDuplicateEmail    = "duplicate_email"
	TypeRateLimited       = "rate_limited"
	TypeInvalidCredential = "invalid_credential"
	TypeUnauthenticated   = "unauthenticated"
	TypeForbidden         = "forbidden"
	TypeNotFound          = "not_found"
	TypeConflict          = "conflict"
	TypeStorage           = "storage_unavailable"
)

// Sentinels for errors.Is; only the Type is compared.
var (
	ErrValidation        = &AppError{Type: TypeValidation}
	ErrDuplicateEmail    = &AppError{Type: TypeDuplicateEmail}
	ErrRateLimited       = &AppError{Type: TypeRateLimited}
	ErrInvalidCredential = &AppError{Type: TypeInvalidCredential}
	ErrUnauthenticated   = &AppError{Type: TypeUnauthenticated}
	ErrForbidden         = &AppError{Type: TypeForbidden}
	ErrNotFound          = &AppError{Type: TypeNotFound}
	ErrConflict          = &AppError{Type: TypeConflict}
	ErrStorage           = &AppError{Type: TypeStorage}
)

const storageMessage = "Service temporarily unavailable. Please try again later."

func NewValidationFailed(message string, fields map[string]string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Type: TypeValidation, Message: message, Fields: fields}
}

func NewDuplicateEmail() *AppError {
	return &AppError{Code: http.StatusBadRequest, Type: TypeDuplicateEmail, Message: "Email already exists"}
}

func NewRateLimited(message string, retryAfter time.Duration) *AppError {
	return &AppError{Code: http.StatusTooManyRequests, Type: TypeRateLimited, Message: message, RetryAfter: retryAfter}
}

func NewInvalidCredential() *AppError {
	return &AppError{Code: http.StatusUnauthorized, Type: TypeInvalidCredential, Message: "Invalid email or password"}
}

func NewUnauthenticated(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Type: TypeUnauthenticated, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Type: TypeForbidden, Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Type: TypeNotFound, Message: message}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Type: TypeConflict, Message: message}
}

func NewStorageUnavailable(err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Type: TypeStorage, Message: storageMessage, Internal: err}
}

// AsAppError converts any error into an AppError, treating unknown errors as storage failures.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewStorageUnavailable(err)
}

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure taxonomy. Services wrap these in an
// AppError carrying the HTTP status and a stable API code.
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidToken   = errors.New("invalid token")
	ErrValidation     = errors.New("validation failed")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrNotFound       = errors.New("not found")
	ErrSelfDeletion   = errors.New("cannot delete your own account")
	ErrInternal       = errors.New("internal error")
)

// AppError is an application error with the HTTP status it maps to.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(err error, message string, statusCode int, code string) *AppError {
	return &AppError{Err: err, Message: message, StatusCode: statusCode, Code: code}
}

func Unauthorized(message string) *AppError {
	return New(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func InvalidToken(message string) *AppError {
	return New(ErrInvalidToken, message, http.StatusUnauthorized, "INVALID_TOKEN")
}

func Forbidden(message string) *AppError {
	return New(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func Validation(message string) *AppError {
	return New(ErrValidation, message, http.StatusBadRequest, "VALIDATION_ERROR")
}

func Duplicate(message string) *AppError {
	return New(ErrDuplicateEmail, message, http.StatusConflict, "DUPLICATE_EMAIL")
}

func NotFound(message string) *AppError {
	return New(ErrNotFound, message, http.StatusNotFound, "NOT_FOUND")
}

func SelfDeletion() *AppError {
	return New(ErrSelfDeletion, "you cannot delete your own account", http.StatusForbidden, "SELF_DELETION_FORBIDDEN")
}

func Internal(err error) *AppError {
	return New(err, "internal server error", http.StatusInternalServerError, "INTERNAL_ERROR")
}

// Status resolves err to the HTTP status and user-facing message it
// should be reported with. Unknown errors map to 500.
func Status(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode, appErr.Message
	}
	return http.StatusInternalServerError, "internal server error"
}

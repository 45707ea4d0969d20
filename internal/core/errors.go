// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrConflict      = errors.New("conflict")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrUnprocessable = errors.New("unprocessable entity")
)

// AppError carries the HTTP rendering of a failure alongside the cause.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusConflict,
		"DUPLICATE",
	)
}

func ConflictError(code, message string) *AppError {
	return NewAppError(ErrConflict, message, http.StatusConflict, code)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		"VALIDATION_ERROR",
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "not authorized"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		"UNAUTHORIZED",
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return NewAppError(
		ErrForbidden,
		message,
		http.StatusForbidden,
		"FORBIDDEN",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"not authorized, token expired",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"not authorized, token failed",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

// StatusFor maps an error chain to the response it should produce.
// Anything without a known sentinel is an internal error.
func StatusFor(err error) (int, string) {
	if appErr := AsAppError(err); appErr != nil {
		return appErr.StatusCode, appErr.Code
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrDuplicateKey):
		return http.StatusConflict, "DUPLICATE"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrUnprocessable):
		return http.StatusUnprocessableEntity, "UNPROCESSABLE"
	case errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized, "TOKEN_EXPIRED"
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// RequireUUID short-circuits lookups for ids that cannot name a row.
func RequireUUID(op, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s: invalid id %q: %w", op, id, ErrNotFound)
	}
	return nil
}

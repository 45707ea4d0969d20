// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type PaginatedResponse struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

var exposeErrors atomic.Bool

// SetExposeErrors controls whether internal error text is written to
// clients. Only development builds should turn this on.
func SetExposeErrors(expose bool) {
	exposeErrors.Store(expose)
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, SuccessResponse{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, SuccessResponse{Success: true, Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Paginated(w http.ResponseWriter, data any, page, pageSize, total int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	JSON(w, http.StatusOK, PaginatedResponse{
		Success: true,
		Data:    data,
		Pagination: PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(w http.ResponseWriter, resource string) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", resource+" not found")
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "not authorized"
	}
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "access denied"
	}
	writeError(w, http.StatusForbidden, "FORBIDDEN", message)
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)

	body := ErrorBody{
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	}
	if exposeErrors.Load() && err != nil {
		body.Detail = err.Error()
	}

	JSON(w, http.StatusInternalServerError, ErrorResponse{Error: body})
}

// JSONError renders err using its AppError metadata or sentinel category.
func JSONError(w http.ResponseWriter, err error) {
	if appErr := AsAppError(err); appErr != nil {
		if appErr.StatusCode == http.StatusInternalServerError {
			InternalServerError(w, err)
			return
		}
		writeError(w, appErr.StatusCode, appErr.Code, appErr.Message)
		return
	}

	status, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		InternalServerError(w, err)
		return
	}

	writeError(w, status, code, rootMessage(err))
}

func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}

	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

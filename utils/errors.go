// utils/errors.go - Application error taxonomy
package utils

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError carries a stable machine-readable code alongside the HTTP status.
// Controllers serialize it as {"success": false, "code": ..., "error": ...}.
type AppError struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(code, message string) *AppError {
	return &AppError{Code: code, Status: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(code, message string) *AppError {
	return &AppError{Code: code, Status: http.StatusNotFound, Message: message}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Code: code, Status: http.StatusConflict, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: "FORBIDDEN", Status: http.StatusForbidden, Message: message}
}

// NewTransitionError reports an illegal state-machine move. The message always
// enumerates the allowed target set, even when it is empty.
func NewTransitionError(code, current string, allowed []string) *AppError {
	allowedList := "none"
	if len(allowed) > 0 {
		allowedList = strings.Join(allowed, ", ")
	}
	return &AppError{
		Code:    code,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("cannot transition from '%s'; allowed targets: %s", current, allowedList),
	}
}

// NewInternalError wraps an unexpected storage/infrastructure failure. The
// message is for operator debugging only and is never parsed by clients.
func NewInternalError(err error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Status: http.StatusInternalServerError, Message: err.Error()}
}

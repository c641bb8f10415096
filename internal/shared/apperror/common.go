package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = New(CodeUnauthorized, "Authentication is required", http.StatusUnauthorized)
	ErrForbidden    = New(CodeForbidden, "You do not have permission to access this resource", http.StatusForbidden)
	ErrInternal     = New(CodeInternalError, "An unexpected error occurred", http.StatusInternalServerError)
)

// RequiredField and InvalidField build fresh errors for one request field,
// so callers compare codes rather than identities.
func RequiredField(field string) *AppError {
	return fieldError(field, "is required")
}

func InvalidField(field string) *AppError {
	return fieldError(field, "is invalid")
}

func fieldError(field, problem string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("%s %s", field, problem), http.StatusBadRequest)
}

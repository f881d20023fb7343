package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusUnprocessableEntity,
	)
)

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Validation builds a VALIDATION_ERROR carrying per-field messages.
func Validation(fields FieldErrors) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    "Validation failed",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    fields,
	}
}

func RequiredField(field string) *AppError {
	return New(CodeValidation, fmt.Sprintf("%s is required", field), http.StatusUnprocessableEntity)
}

func InvalidField(field string) *AppError {
	return New(CodeValidation, fmt.Sprintf("%s is invalid", field), http.StatusUnprocessableEntity)
}

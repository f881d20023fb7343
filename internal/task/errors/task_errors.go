package taskerrors

import (
	"net/http"

	"go-worktrack/internal/shared/apperror"
)

var (
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"Task not found",
		http.StatusNotFound,
	)
	ErrNotEmployee = apperror.New(
		apperror.CodeForbidden,
		"You are not registered as an employee.",
		http.StatusForbidden,
	)
	ErrProgressUpdateExists = apperror.New(
		apperror.CodeConflict,
		"You have already submitted a daily progress update for this task today.",
		http.StatusUnprocessableEntity,
	)
)

// CreateFailed reports an unexpected persistence failure, cause included.
func CreateFailed(err error) *apperror.AppError {
	return apperror.Wrap(err, apperror.CodeInternalError, "Failed to create task", http.StatusInternalServerError).
		WithDetails(map[string]string{"error": err.Error()})
}

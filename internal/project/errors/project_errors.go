package projecterrors

import (
	"net/http"

	"go-worktrack/internal/shared/apperror"
)

var (
	ErrProjectNotFound = apperror.New(
		apperror.CodeNotFound,
		"Project not found",
		http.StatusNotFound,
	)
	ErrNotAssigned = apperror.New(
		apperror.CodeForbidden,
		"You are not assigned to this project",
		http.StatusForbidden,
	)
)

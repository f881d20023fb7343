package stafferrors

import (
	"net/http"

	"go-worktrack/internal/shared/apperror"
)

var (
	ErrDailyActivityExists = apperror.New(
		apperror.CodeConflict,
		"You have already submitted a daily activity for this project on this date.",
		http.StatusUnprocessableEntity,
	)
)

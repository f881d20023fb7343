package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-worktrack/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", apperror.ErrForbidden)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusForbidden, httpErr.Status)
		assert.Equal(t, apperror.CodeForbidden, httpErr.Code)
	})

	t.Run("details survive", func(t *testing.T) {
		conflict := apperror.New(apperror.CodeConflict, "exists", http.StatusUnprocessableEntity)
		httpErr := apperror.ToHTTP(conflict.WithDetails(map[string]int{"id": 1}))
		assert.Equal(t, map[string]int{"id": 1}, httpErr.Details)
		assert.True(t, errors.Is(conflict.WithDetails(nil), conflict))
	})

	t.Run("plain error hidden", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, "Internal server error", httpErr.Message)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_daily_activity_day"}

	assert.True(t, apperror.IsUniqueViolation(pgErr, "uq_daily_activity_day"))
	assert.True(t, apperror.IsUniqueViolation(fmt.Errorf("insert: %w", pgErr), ""))
	assert.False(t, apperror.IsUniqueViolation(pgErr, "uq_progress_update_day"))
	assert.True(t, apperror.IsUniqueViolation(errors.New("UNIQUE constraint failed: daily_activities.project_id"), ""))
	assert.False(t, apperror.IsUniqueViolation(errors.New("boom"), ""))
	assert.False(t, apperror.IsUniqueViolation(nil, ""))
}

type sampleInput struct {
	Title     string `json:"title" validate:"required,max=5"`
	TimeSpent string `json:"time_spent" validate:"required"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()
	apperror.RegisterTagNames(v)

	err := v.Struct(sampleInput{Title: "too long title"})
	require.Error(t, err)

	mapped := apperror.MapValidationError(err)
	var appErr *apperror.AppError
	require.True(t, errors.As(mapped, &appErr))
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)

	fields := appErr.Details.(apperror.FieldErrors)
	assert.Equal(t, []string{"Title may not be greater than 5"}, fields["title"])
	assert.Equal(t, []string{"Time Spent is required"}, fields["time_spent"])

	malformed := apperror.MapValidationError(errors.New("unexpected EOF"))
	require.True(t, errors.As(malformed, &appErr))
	assert.Contains(t, appErr.Details.(apperror.FieldErrors), "body")
}

package apperror

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation on
// the named constraint. An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation &&
			(constraint == "" || pgErr.ConstraintName == constraint)
	}

	errMsg := strings.ToLower(err.Error())
	duplicate := strings.Contains(errMsg, "duplicate key value") ||
		strings.Contains(errMsg, "unique constraint failed")
	if !duplicate {
		return false
	}
	return constraint == "" || strings.Contains(errMsg, strings.ToLower(constraint))
}

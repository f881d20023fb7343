package staff

import (
	"context"
	"database/sql"
	"time"

	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/connection"
	stafferrors "go-worktrack/internal/staff/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=staff_repo.go -destination=mock/staff_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	ListDailyActivities(ctx context.Context, employeeID int64, projectID *int64) ([]DailyActivity, error)
	FindDailyActivity(ctx context.Context, projectID, employeeID int64, day time.Time) (*DailyActivity, error)
	CreateDailyActivity(ctx context.Context, d *DailyActivity) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

// ListDailyActivities returns employeeID's entries, newest day first,
// optionally narrowed to one project.
func (r *repository) ListDailyActivities(ctx context.Context, employeeID int64, projectID *int64) ([]DailyActivity, error) {
	q := r.db.WithContext(ctx).
		Preload("Project").
		Where("employee_id = ?", employeeID)
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}

	var rows []DailyActivity
	err := q.
		Order("submission_date DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// FindDailyActivity returns nil without error when no entry exists.
func (r *repository) FindDailyActivity(ctx context.Context, projectID, employeeID int64, day time.Time) (*DailyActivity, error) {
	var rows []DailyActivity
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Where("employee_id = ?", employeeID).
		Where("submission_date = ?", day).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *repository) CreateDailyActivity(ctx context.Context, d *DailyActivity) error {
	err := r.db.WithContext(ctx).Omit("Project", "Employee").Create(d).Error
	// uq_daily_activity_day is the table's only unique constraint.
	if apperror.IsUniqueViolation(err, "") {
		return stafferrors.ErrDailyActivityExists
	}
	return err
}

package task

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/connection"
	"go-worktrack/internal/shared/request"
	taskerrors "go-worktrack/internal/task/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=task_repo.go -destination=mock/task_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	List(ctx context.Context, page request.Page) ([]Task, int64, error)
	FindByID(ctx context.Context, id int64) (*Task, error)
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error

	FindProgressUpdate(ctx context.Context, taskID, employeeID int64, day time.Time) (*ProgressUpdate, error)
	CreateProgressUpdate(ctx context.Context, p *ProgressUpdate) error
	ListProgressUpdatesForAssignee(ctx context.Context, employeeID int64) ([]ProgressUpdate, error)
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

func (r *repository) List(ctx context.Context, page request.Page) ([]Task, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Task{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []Task
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Assignee").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&tasks).Error
	return tasks, total, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Assignee").
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskerrors.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Create(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Omit("Project", "Assignee").Create(t).Error
}

func (r *repository) Update(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Omit("Project", "Assignee").Save(t).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return taskerrors.ErrTaskNotFound
	}
	return nil
}

// FindProgressUpdate returns nil without error when no update exists.
func (r *repository) FindProgressUpdate(ctx context.Context, taskID, employeeID int64, day time.Time) (*ProgressUpdate, error) {
	var rows []ProgressUpdate
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Where("employee_id = ?", employeeID).
		Where("update_date = ?", day).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *repository) CreateProgressUpdate(ctx context.Context, p *ProgressUpdate) error {
	err := r.db.WithContext(ctx).Omit("Task", "Employee").Create(p).Error
	// uq_progress_update_day is the table's only unique constraint.
	if apperror.IsUniqueViolation(err, "") {
		return taskerrors.ErrProgressUpdateExists
	}
	return err
}

// ListProgressUpdatesForAssignee returns updates on tasks assigned to
// employeeID, whoever wrote them, newest day first.
func (r *repository) ListProgressUpdatesForAssignee(ctx context.Context, employeeID int64) ([]ProgressUpdate, error) {
	assigned := r.db.WithContext(ctx).
		Model(&Task{}).
		Select("id").
		Where("assigned_to = ?", employeeID)

	var rows []ProgressUpdate
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Employee").
		Where("task_id IN (?)", assigned).
		Order("update_date DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

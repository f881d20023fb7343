package leave

import (
	"context"
	"database/sql"
	"errors"

	leaveerrors "go-worktrack/internal/leave/errors"
	"go-worktrack/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	List(ctx context.Context, filter ListFilter) ([]Leave, int64, error)
	FindByID(ctx context.Context, id int64) (*Leave, error)
	Create(ctx context.Context, l *Leave) error
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, id int64) error
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx runs every query of the returned repository on tx.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Leave, int64, error) {
	q := r.db.WithContext(ctx).Model(&Leave{})
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []Leave
	err := q.
		Preload("Employee").
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.PerPage).
		Find(&leaves).Error
	return leaves, total, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("Employee.Department").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &l, nil
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(l).Error
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Omit("Employee").Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Leave{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leaveerrors.ErrLeaveNotFound
	}
	return nil
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

package project

import (
	"context"
	"errors"

	projecterrors "go-worktrack/internal/project/errors"

	"gorm.io/gorm"
)

// Repository answers the project questions other features ask: does it
// exist, and who works on it.
//
//go:generate mockgen -source=project_repo.go -destination=mock/project_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Project, error)
	Exists(ctx context.Context, id int64) (bool, error)
	IsAssigned(ctx context.Context, projectID, employeeID int64) (bool, error)
	ListAssignedTo(ctx context.Context, employeeID int64) ([]Project, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Preload("Department").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projecterrors.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Project{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) IsAssigned(ctx context.Context, projectID, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Activity{}).
		Where("project_id = ?", projectID).
		Where("assigned_to = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

// ListAssignedTo returns the projects where employeeID has at least one
// activity. Only that employee's activities are loaded, oldest first.
func (r *repository) ListAssignedTo(ctx context.Context, employeeID int64) ([]Project, error) {
	assigned := r.db.
		Model(&Activity{}).
		Select("DISTINCT project_id").
		Where("assigned_to = ?", employeeID)

	var projects []Project
	err := r.db.WithContext(ctx).
		Where("id IN (?)", assigned).
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Where("assigned_to = ?", employeeID).Order("start_date ASC").Order("id ASC")
		}).
		Preload("Manager").
		Preload("Department").
		Order("id ASC").
		Find(&projects).Error
	return projects, err
}

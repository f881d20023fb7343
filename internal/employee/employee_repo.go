package employee

import (
	"context"

	"gorm.io/gorm"
)

// Repository is the read side other features use to resolve employees.
//
//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, emp *Employee) error
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindWithDepartment(ctx context.Context, id int64) (*Employee, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, emp *Employee) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(emp).Error)
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Employee, error) {
	var emp Employee
	if err := r.db.WithContext(ctx).First(&emp, "id = ?", id).Error; err != nil {
		return nil, mapRepositoryError(err)
	}
	return &emp, nil
}

func (r *repository) FindWithDepartment(ctx context.Context, id int64) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &emp, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

package audit

import (
	"context"
	"errors"

	"go-worktrack/internal/shared/apperror"

	"gorm.io/gorm"
)

var ErrDuplicateEvent = errors.New("audit event already recorded")

type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	ListByEntity(ctx context.Context, entity string, entityID int64) ([]AuditLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	err := r.db.WithContext(ctx).Create(log).Error
	if apperror.IsUniqueViolation(err, "") {
		return ErrDuplicateEvent
	}
	return err
}

func (r *repository) ListByEntity(ctx context.Context, entity string, entityID int64) ([]AuditLog, error) {
	var logs []AuditLog
	err := r.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	return logs, err
}

package audit

import "time"

// AuditLog is one persisted domain event. EventID is the outbox id, so
// redelivered messages collapse onto the same row.
type AuditLog struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time

	EventID   string `gorm:"type:varchar(64);not null;uniqueIndex:uq_audit_event"`
	RequestID string `gorm:"type:varchar(100)"`
	UserID    *int64 `gorm:"index"`

	Entity   string `gorm:"size:50;not null;index:idx_audit_entity"` // "leave", "daily_activity", "progress_update"
	EntityID int64  `gorm:"index:idx_audit_entity"`
	Action   string `gorm:"size:100;not null"` // event type
	Details  string `gorm:"type:text"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

package leave

import (
	"time"

	"go-worktrack/internal/employee"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeAnnual   = "annual"
	TypeSick     = "sick"
	TypePersonal = "personal"
	TypeUnpaid   = "unpaid"
)

type Leave struct {
	ID         int64              `gorm:"primaryKey"`
	EmployeeID int64              `gorm:"not null;index:idx_leaves_employee_status"`
	Employee   *employee.Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`

	LeaveType string    `gorm:"type:varchar(20);not null;default:'annual'"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Days      int       `gorm:"not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status     string `gorm:"type:varchar(20);not null;default:'pending';index:idx_leaves_employee_status"`
	ReviewedBy *int64
	ReviewedAt *time.Time

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (Leave) TableName() string {
	return "leaves"
}

// CanTransition reports whether status may move from one value to another.
// A reviewed leave may be re-decided but never returns to pending;
// restating the current status is a no-op.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	return isReviewed(to)
}

func isReviewed(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

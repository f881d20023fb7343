package staff

import (
	"time"

	"go-worktrack/internal/employee"
	"go-worktrack/internal/project"
)

const DailyActivityStatusPending = "pending"

// DailyActivity is one employee's journal entry for a project on a day.
// The (project, employee, day) triple is unique.
type DailyActivity struct {
	ID         int64              `gorm:"primaryKey"`
	ProjectID  int64              `gorm:"not null;uniqueIndex:uq_daily_activity_day,priority:1"`
	Project    *project.Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	EmployeeID int64              `gorm:"not null;uniqueIndex:uq_daily_activity_day,priority:2;index"`
	Employee   *employee.Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`

	SubmissionDate      time.Time `gorm:"type:date;not null;uniqueIndex:uq_daily_activity_day,priority:3"`
	ActivityDescription string    `gorm:"type:text;not null"`
	MaterialsUsed       *string   `gorm:"type:text"`
	IssuesChallenges    *string   `gorm:"type:text"`

	Status             string  `gorm:"type:varchar(20);not null;default:'pending'"`
	SupervisorComments *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DailyActivity) TableName() string {
	return "daily_activities"
}

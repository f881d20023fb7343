package task

import (
	"time"

	"go-worktrack/internal/employee"
	"go-worktrack/internal/project"
)

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on_hold"
)

type Task struct {
	ID          int64              `gorm:"primaryKey"`
	ProjectID   *int64             `gorm:"index"`
	Project     *project.Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	AssignedTo  *int64             `gorm:"index"`
	Assignee    *employee.Employee `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL"`
	Title       string             `gorm:"size:191;not null"`
	Description *string            `gorm:"type:text"`
	StartDate   time.Time          `gorm:"type:date;not null"`
	EndDate     *time.Time         `gorm:"type:date"`
	Status      string             `gorm:"type:varchar(20);not null;default:'not_started'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Task) TableName() string {
	return "tasks"
}

// Attachment is a stored upload as recorded on a progress update.
type Attachment struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// ProgressUpdate is one employee's report on a task for one day.
type ProgressUpdate struct {
	ID                  int64              `gorm:"primaryKey"`
	TaskID              int64              `gorm:"not null;uniqueIndex:uq_progress_update_day,priority:1"`
	Task                *Task              `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	EmployeeID          int64              `gorm:"not null;uniqueIndex:uq_progress_update_day,priority:2"`
	Employee            *employee.Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	ProgressDescription string             `gorm:"type:text;not null"`
	TimeSpent           float64            `gorm:"type:decimal(5,2);not null"`
	Remarks             *string            `gorm:"type:text"`
	UpdateDate          time.Time          `gorm:"type:date;not null;uniqueIndex:uq_progress_update_day,priority:3"`
	Attachments         []Attachment       `gorm:"type:json;serializer:json"`
	CreatedAt           time.Time          `gorm:"index"`
	UpdatedAt           time.Time
}

func (ProgressUpdate) TableName() string {
	return "progress_updates"
}

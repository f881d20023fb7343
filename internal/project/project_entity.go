package project

import (
	"time"

	"go-worktrack/internal/department"
	"go-worktrack/internal/employee"
)

type Project struct {
	ID          int64      `gorm:"primaryKey"`
	Name        string     `gorm:"size:255;not null"`
	Description string     `gorm:"type:text"`
	StartDate   *time.Time `gorm:"type:date"`
	EndDate     *time.Time `gorm:"type:date"`
	Status      string     `gorm:"type:varchar(30);not null;default:'active'"`

	ManagerID    *int64                 `gorm:"index"`
	Manager      *employee.Employee     `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`
	DepartmentID *int64                 `gorm:"index"`
	Department   *department.Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL"`

	Activities []Activity `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Project) TableName() string {
	return "projects"
}

// Activity is a unit of project work assigned to one employee. An employee
// sees a project once any of its activities is assigned to them.
type Activity struct {
	ID          int64              `gorm:"primaryKey"`
	ProjectID   int64              `gorm:"not null;index"`
	AssignedTo  *int64             `gorm:"index"`
	Assignee    *employee.Employee `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL"`
	Title       string             `gorm:"size:255;not null"`
	Description string             `gorm:"type:text"`
	StartDate   *time.Time         `gorm:"type:date"`
	EndDate     *time.Time         `gorm:"type:date"`
	Status      string             `gorm:"type:varchar(30);not null;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Activity) TableName() string {
	return "activities"
}

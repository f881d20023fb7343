package employee

import (
	"time"

	"go-worktrack/internal/department"
)

type Employee struct {
	ID           int64                  `gorm:"primaryKey" json:"id"`
	DepartmentID *int64                 `gorm:"index" json:"department_id"`
	Department   *department.Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"department,omitempty"`
	FullName     string                 `gorm:"size:255;not null" json:"full_name"`
	Email        string                 `gorm:"size:255;uniqueIndex:uq_employee_email" json:"email"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// ManagedBy reports whether employeeID manages this employee's department.
func (e *Employee) ManagedBy(employeeID int64) bool {
	return e != nil && e.Department.IsManagedBy(employeeID)
}

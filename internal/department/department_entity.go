package department

import (
	"time"
)

// Department groups employees. ManagerID is the employee who reviews the
// department's leave requests.
type Department struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	ManagerID *int64    `gorm:"index" json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

// IsManagedBy reports whether employeeID manages this department.
func (d *Department) IsManagedBy(employeeID int64) bool {
	return d != nil && d.ManagerID != nil && *d.ManagerID == employeeID
}

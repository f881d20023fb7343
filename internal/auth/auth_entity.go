package auth

import (
	"time"
)

// User is a login account. EmployeeID links it to an employee record and
// is nil for accounts without one.
type User struct {
	ID         int64  `gorm:"primaryKey"`
	EmployeeID *int64 `gorm:"uniqueIndex"`
	Name       string `gorm:"type:varchar(255);not null"`
	Email      string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password   string `gorm:"type:varchar(255);not null"`
	Role       string `gorm:"type:varchar(20);not null;default:'staff'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (User) TableName() string {
	return "users"
}

package rbac

import "time"

// RolePermission is one casbin policy line: role may perform action on resource.
type RolePermission struct {
	ID        int64  `gorm:"primaryKey"`
	Role      string `gorm:"type:varchar(50);not null;uniqueIndex:uq_role_permission"`
	Resource  string `gorm:"type:varchar(100);not null;uniqueIndex:uq_role_permission"`
	Action    string `gorm:"type:varchar(50);not null;uniqueIndex:uq_role_permission"`
	CreatedAt time.Time
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

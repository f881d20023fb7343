package actor

import (
	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin   = "admin"
	RoleHR      = "hr"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Roles lists every role the API knows about.
var Roles = []string{RoleAdmin, RoleHR, RoleManager, RoleStaff}

const ginKey = "actor"

// Actor is the authenticated requester. EmployeeID is nil when the user
// has no employee record linked.
type Actor struct {
	UserID     int64
	EmployeeID *int64
	Role       string
}

func (a Actor) HasEmployee() bool {
	return a.EmployeeID != nil
}

// IsEmployee reports whether the actor is linked to employeeID.
func (a Actor) IsEmployee(employeeID int64) bool {
	return a.EmployeeID != nil && *a.EmployeeID == employeeID
}

func (a Actor) HasRole(roles ...string) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

func IsKnownRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

func Set(c *gin.Context, a Actor) {
	c.Set(ginKey, a)
}

// FromGin returns the actor stored by the auth middleware.
func FromGin(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(ginKey)
	if !ok {
		return Actor{}, false
	}
	a, ok := v.(Actor)
	return a, ok
}

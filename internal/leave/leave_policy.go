package leave

import (
	"go-worktrack/internal/shared/actor"
)

// Decision is the outcome of a policy check. Reason explains a denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Subject is what the policy needs to know about a leave.
type Subject struct {
	OwnerID int64
	Status  string
	// OwnerDepartmentManagerID is the manager of the owner's department.
	OwnerDepartmentManagerID *int64
}

// SubjectOf builds a Subject from a leave loaded with its owner and the
// owner's department.
func SubjectOf(l Leave) Subject {
	s := Subject{OwnerID: l.EmployeeID, Status: l.Status}
	if l.Employee != nil && l.Employee.Department != nil {
		s.OwnerDepartmentManagerID = l.Employee.Department.ManagerID
	}
	return s
}

func isPrivileged(a actor.Actor) bool {
	return a.HasRole(actor.RoleHR, actor.RoleAdmin)
}

func isOwner(a actor.Actor, s Subject) bool {
	return a.IsEmployee(s.OwnerID)
}

func managesOwner(a actor.Actor, s Subject) bool {
	return a.EmployeeID != nil &&
		s.OwnerDepartmentManagerID != nil &&
		*s.OwnerDepartmentManagerID == *a.EmployeeID
}

func CanViewAny(a actor.Actor) Decision {
	if a.HasRole(actor.RoleHR, actor.RoleAdmin, actor.RoleManager) {
		return allow()
	}
	return deny("role cannot list every leave request")
}

func CanView(a actor.Actor, s Subject) Decision {
	switch {
	case isPrivileged(a):
		return allow()
	case isOwner(a, s):
		return allow()
	case managesOwner(a, s):
		return allow()
	}
	return deny("not the owner or the owner's department manager")
}

// CanCreate always allows; ownership of the target employee is checked by
// the service.
func CanCreate(a actor.Actor) Decision {
	return allow()
}

func CanUpdate(a actor.Actor, s Subject) Decision {
	switch {
	case isPrivileged(a):
		return allow()
	case managesOwner(a, s):
		return allow()
	case isOwner(a, s) && s.Status == StatusPending:
		return allow()
	case isOwner(a, s):
		return deny("leave request has already been reviewed")
	}
	return deny("not the owner or the owner's department manager")
}

func CanDelete(a actor.Actor, s Subject) Decision {
	switch {
	case isPrivileged(a):
		return allow()
	case isOwner(a, s) && s.Status == StatusPending:
		return allow()
	case isOwner(a, s):
		return deny("leave request has already been reviewed")
	}
	return deny("only the owner may delete a pending leave request")
}

// CanReview decides who may change a leave's status.
func CanReview(a actor.Actor, s Subject) Decision {
	if isPrivileged(a) || managesOwner(a, s) {
		return allow()
	}
	return deny("only hr, admin or the department manager may review leave")
}

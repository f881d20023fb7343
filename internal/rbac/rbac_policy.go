package rbac

import "go-worktrack/internal/shared/actor"

const (
	ResourceLeaves          = "leaves"
	ResourceStaff           = "staff"
	ResourceTasks           = "tasks"
	ResourceProgressUpdates = "progress_updates"
	ResourceRBAC            = "rbac"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionAll    = "*"
)

// DefaultPolicy opens every feature route to every known role. Finer
// decisions (ownership, department management) are made by the services.
func DefaultPolicy() []RolePermission {
	resources := []string{ResourceLeaves, ResourceStaff, ResourceTasks, ResourceProgressUpdates}

	perms := make([]RolePermission, 0, len(actor.Roles)*(len(resources)+1))
	for _, role := range actor.Roles {
		for _, res := range resources {
			perms = append(perms, RolePermission{Role: role, Resource: res, Action: ActionAll})
		}
		perms = append(perms, RolePermission{Role: role, Resource: ResourceRBAC, Action: ActionRead})
	}
	return perms
}

package staff

import (
	"go-worktrack/internal/middleware"
	"go-worktrack/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the staff views. submitMW runs in front of the
// daily activity submission (rate limiting, idempotency).
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMW gin.HandlerFunc,
	rbacService middleware.RBACService,
	submitMW ...gin.HandlerFunc,
) {
	group := r.Group("/staff")
	group.Use(authMW)
	{
		group.GET("/projects", middleware.RBACAuthorize(rbacService, rbac.ResourceStaff, rbac.ActionRead), handler.Projects)
		group.GET("/projects/:id/daily-activities", middleware.RBACAuthorize(rbacService, rbac.ResourceStaff, rbac.ActionRead), handler.ProjectDailyActivities)

		submit := append([]gin.HandlerFunc{middleware.RBACAuthorize(rbacService, rbac.ResourceStaff, rbac.ActionCreate)}, submitMW...)
		submit = append(submit, handler.SubmitDailyActivity)
		group.POST("/projects/:id/daily-activities", submit...)

		group.GET("/daily-activities", middleware.RBACAuthorize(rbacService, rbac.ResourceStaff, rbac.ActionRead), handler.DailyActivities)
	}
}

package task

import (
	"go-worktrack/internal/middleware"
	"go-worktrack/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts task CRUD and the progress update endpoints.
// submitMW runs in front of progress update submission.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMW gin.HandlerFunc,
	rbacService middleware.RBACService,
	submitMW ...gin.HandlerFunc,
) {
	tasks := r.Group("/tasks")
	tasks.Use(authMW)
	{
		tasks.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceTasks, rbac.ActionRead), handler.GetAll)
		tasks.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceTasks, rbac.ActionCreate), handler.Create)
		tasks.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTasks, rbac.ActionRead), handler.GetByID)
		tasks.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTasks, rbac.ActionUpdate), handler.Update)
		tasks.PATCH("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTasks, rbac.ActionUpdate), handler.Update)
		tasks.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTasks, rbac.ActionDelete), handler.Delete)

		submit := append([]gin.HandlerFunc{middleware.RBACAuthorize(rbacService, rbac.ResourceProgressUpdates, rbac.ActionCreate)}, submitMW...)
		submit = append(submit, handler.RecordProgressUpdate)
		tasks.POST("/:id/progress-updates", submit...)
	}

	r.GET("/progress-updates",
		authMW,
		middleware.RBACAuthorize(rbacService, rbac.ResourceProgressUpdates, rbac.ActionRead),
		handler.ProgressUpdates,
	)
}

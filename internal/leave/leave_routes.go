package leave

import (
	"go-worktrack/internal/middleware"
	"go-worktrack/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMW gin.HandlerFunc,
	rbacService middleware.RBACService,
) {
	leaves := r.Group("/leaves")
	leaves.Use(authMW)
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaves, rbac.ActionRead), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaves, rbac.ActionRead), handler.GetByID)
		leaves.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaves, rbac.ActionCreate), handler.Create)
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaves, rbac.ActionUpdate), handler.Update)
		leaves.PATCH("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaves, rbac.ActionUpdate), handler.Update)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaves, rbac.ActionDelete), handler.Delete)
	}
}

package rbac

import (
	"go-worktrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc, service Service) {
	group := r.Group("/rbac")
	group.Use(authMW)
	{
		group.POST("/enforce", middleware.RBACAuthorize(service, ResourceRBAC, ActionRead), handler.Enforce)
		group.GET("/permissions", middleware.RBACAuthorize(service, ResourceRBAC, ActionRead), handler.MyPermissions)
	}
}

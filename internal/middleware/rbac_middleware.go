package middleware

import (
	"net/http"

	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	EnforceRole(role, resource, action string) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := actor.FromGin(c)
		if !ok {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.EnforceRole(a.Role, resource, action)
		if err != nil {
			zap.L().Named("middleware.rbac").Error("enforce failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden,
				"You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}

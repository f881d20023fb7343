package rbac

import (
	"net/http"
	"strings"

	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

// Enforce answers whether the caller's role may perform action on resource.
func (h *Handler) Enforce(c *gin.Context) {
	a, ok := actor.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthenticated.", nil)
		return
	}

	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	allowed, err := h.service.EnforceRole(a.Role, req.Resource, req.Action)
	if err != nil {
		h.logger.Error("enforce failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Role: a.Role, Allowed: allowed}, nil)
}

func (h *Handler) MyPermissions(c *gin.Context) {
	a, ok := actor.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthenticated.", nil)
		return
	}

	perms, err := h.service.PermissionsForRole(a.Role)
	if err != nil {
		h.logger.Error("list permissions failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, perms, nil)
}

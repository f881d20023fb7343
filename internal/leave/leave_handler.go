package leave

import (
	"net/http"
	"strconv"

	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/request"
	"go-worktrack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) requireActor(c *gin.Context) (actor.Actor, bool) {
	a, ok := actor.FromGin(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
	}
	return a, ok
}

func (h *Handler) requireID(c *gin.Context) (int64, bool) {
	id, ok := request.ParseID(c, "id")
	if !ok {
		h.writeServiceError(c, apperror.ErrNotFound)
	}
	return id, ok
}

func (h *Handler) GetAll(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}

	filter := ListFilter{
		Status: c.Query("status"),
		Page:   request.ParsePage(c, defaultPerPage, maxPerPage),
	}
	if raw := c.Query("employee_id"); raw != "" {
		employeeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeServiceError(c, apperror.Validation(apperror.FieldErrors{
				"employee_id": {"Employee Id must be a number"},
			}))
			return
		}
		filter.EmployeeID = &employeeID
	}

	resp, total, err := h.service.List(c.Request.Context(), a, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, filter.Page.Page, filter.Page.PerPage)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) Create(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	h.logger.Debug("http create leave", zap.Int64("user_id", a.UserID))

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), a, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), a, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.requireID(c)
	if !ok {
		return
	}

	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), a, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	a, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), a, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Leave request deleted successfully")
}

package staff

import (
	"net/http"

	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/request"
	"go-worktrack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("staff.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("staff.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("staff request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	if httpErr.Code == apperror.CodeConflict {
		response.ErrorWithData(c, httpErr.Status, httpErr.Code, httpErr.Message, nil, httpErr.Details)
		return
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) projectID(c *gin.Context) (int64, bool) {
	id, ok := request.ParseID(c, "id")
	if !ok {
		h.writeServiceError(c, apperror.ErrNotFound)
	}
	return id, ok
}

// Every staff view is scoped to the requester; a request without an actor
// reaches the service as the zero Actor and is rejected there.
func currentActor(c *gin.Context) actor.Actor {
	a, _ := actor.FromGin(c)
	return a
}

func (h *Handler) Projects(c *gin.Context) {
	resp, err := h.service.ListAssignedProjects(c.Request.Context(), currentActor(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ProjectDailyActivities(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	resp, err := h.service.ListDailyActivities(c.Request.Context(), currentActor(c), projectID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SubmitDailyActivity(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	var req SubmitDailyActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit daily activity validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SubmitDailyActivity(c.Request.Context(), currentActor(c), projectID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) DailyActivities(c *gin.Context) {
	resp, err := h.service.ListAllDailyActivities(c.Request.Context(), currentActor(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

package task

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/request"
	"go-worktrack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const pageSize = 20

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("task.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("task request failed",
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

func (h *Handler) requireID(c *gin.Context) (int64, bool) {
	id, ok := request.ParseID(c, "id")
	if !ok {
		h.writeServiceError(c, apperror.ErrNotFound)
	}
	return id, ok
}

func (h *Handler) GetAll(c *gin.Context) {
	page := request.ParsePage(c, pageSize, 0)

	resp, total, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page.Page, page.PerPage)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create task bind failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := h.requireID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := h.requireID(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update task bind failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.requireID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.NoContent(c)
}

// RecordProgressUpdate accepts a JSON body or a multipart form whose files
// arrive under "attachments" or "attachments[]".
func (h *Handler) RecordProgressUpdate(c *gin.Context) {
	id, ok := h.requireID(c)
	if !ok {
		return
	}

	var (
		req   ProgressUpdateRequest
		files []Upload
	)
	if strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			h.logger.Warn("http progress update form bind failed", zap.Error(err))
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
		form, err := c.MultipartForm()
		if err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
		files = uploadsOf(form)
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http progress update bind failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	a, _ := actor.FromGin(c)
	resp, err := h.service.RecordProgressUpdate(c.Request.Context(), a, id, req, files)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ProgressUpdates(c *gin.Context) {
	a, _ := actor.FromGin(c)
	resp, err := h.service.ListProgressUpdates(c.Request.Context(), a)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func uploadsOf(form *multipart.Form) []Upload {
	var uploads []Upload
	for _, key := range []string{"attachments", "attachments[]"} {
		for _, fh := range form.File[key] {
			fh := fh
			uploads = append(uploads, Upload{
				Name: fh.Filename,
				Size: fh.Size,
				Open: func() (io.ReadCloser, error) { return fh.Open() },
			})
		}
	}
	return uploads
}

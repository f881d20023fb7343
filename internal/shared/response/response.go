package response

import (
	"github.com/gin-gonic/gin"
)

type PaginationMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		// ceil(total / limit)
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return PaginationMeta{
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   limit,
	}
}

type ApiEnvelope struct {
	Ok      bool            `json:"ok"`
	Message string          `json:"message,omitempty"`
	Data    any             `json:"data,omitempty"`
	Meta    *PaginationMeta `json:"meta,omitempty"`
	Error   any             `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}, meta *PaginationMeta) {
	c.JSON(status, ApiEnvelope{
		Ok:    true,
		Data:  data,
		Meta:  meta,
		Error: nil,
	})
}

func Message(c *gin.Context, status int, message string) {
	c.JSON(status, ApiEnvelope{
		Ok:      true,
		Message: message,
	})
}

func Error(c *gin.Context, status int, errorCode string, message string, details interface{}) {
	ErrorWithData(c, status, errorCode, message, details, nil)
}

// ErrorWithData is Error with a data payload, used when a failure still
// returns a record (e.g. the existing entry on a conflict).
func ErrorWithData(c *gin.Context, status int, errorCode string, message string, details interface{}, data any) {
	c.JSON(status, ApiEnvelope{
		Ok:      false,
		Message: message,
		Data:    data,
		Meta:    nil,
		Error: map[string]interface{}{
			"code":    errorCode,
			"message": message,
			"details": details,
		},
	})
}

func NoContent(c *gin.Context) {
	c.Status(204)
}

package task_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/request"
	"go-worktrack/internal/task"
	taskerrors "go-worktrack/internal/task/errors"
	"go-worktrack/internal/task/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
	apperror.Init()
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"pageSize"`
	} `json:"meta"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func newTaskRouter(svc task.Service, a *actor.Actor) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if a != nil {
			actor.Set(c, *a)
		}
		c.Next()
	})
	h := task.NewHandler(svc)
	r.GET("/tasks", h.GetAll)
	r.POST("/tasks", h.Create)
	r.GET("/tasks/:id", h.GetByID)
	r.PATCH("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
	r.POST("/tasks/:id/progress-updates", h.RecordProgressUpdate)
	r.GET("/progress-updates", h.ProgressUpdates)
	return r
}

func serve(r *gin.Engine, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTaskHandler_CRUD(t *testing.T) {
	t.Run("success list with fixed page size", func(t *testing.T) {
		svc := mock.NewMockService(gomock.NewController(t))
		svc.EXPECT().List(gomock.Any(), request.Page{Page: 2, PerPage: 20}).Return([]task.TaskResponse{{ID: 21}}, int64(21), nil)

		w := serve(newTaskRouter(svc, nil), http.MethodGet, "/tasks?page=2&per_page=5", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(21), env.Meta.Total)
		assert.Equal(t, 20, env.Meta.PageSize)
	})

	t.Run("success create accepts string ids", func(t *testing.T) {
		svc := mock.NewMockService(gomock.NewController(t))
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, req task.TaskRequest) (task.TaskResponse, error) {
			in := req.Normalize()
			assert.Equal(t, int64Ptr(4), in.ProjectID.Value)
			assert.Nil(t, in.AssignedTo.Value)
			return task.TaskResponse{ID: 11, Title: *in.Title}, nil
		})

		body := `{"projectId":"4","assignedTo":"","title":"Wire panel","startDate":"2024-05-01"}`
		w := serve(newTaskRouter(svc, nil), http.MethodPost, "/tasks", strings.NewReader(body), "application/json")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `11`, string(mustField(t, decodeEnvelope(t, w.Body.Bytes()).Data, "id")))
	})

	t.Run("negative validation error", func(t *testing.T) {
		svc := mock.NewMockService(gomock.NewController(t))
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(task.TaskResponse{}, apperror.Validation(apperror.FieldErrors{
			"end_date": {"End Date must be a date after or equal to Start Date"},
		}))

		w := serve(newTaskRouter(svc, nil), http.MethodPost, "/tasks", strings.NewReader(`{}`), "application/json")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, apperror.CodeValidation, env.Error.Code)
		assert.Contains(t, string(env.Error.Details), "end_date")
	})

	t.Run("negative malformed body", func(t *testing.T) {
		svc := mock.NewMockService(gomock.NewController(t))

		w := serve(newTaskRouter(svc, nil), http.MethodPatch, "/tasks/3", strings.NewReader(`{"title":`), "application/json")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("success delete", func(t *testing.T) {
		svc := mock.NewMockService(gomock.NewController(t))
		svc.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)

		w := serve(newTaskRouter(svc, nil), http.MethodDelete, "/tasks/3", nil, "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("negative get missing", func(t *testing.T) {
		svc := mock.NewMockService(gomock.NewController(t))
		svc.EXPECT().GetByID(gomock.Any(), int64(9)).Return(task.TaskResponse{}, taskerrors.ErrTaskNotFound)

		w := serve(newTaskRouter(svc, nil), http.MethodGet, "/tasks/9", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func mustField(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}

func TestTaskHandler_RecordProgressUpdate(t *testing.T) {
	staff := actor.Actor{UserID: 107, EmployeeID: int64Ptr(7), Role: actor.RoleStaff}

	t.Run("success multipart with attachments", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("progress_description", "Pulled cables"))
		require.NoError(t, mw.WriteField("time_spent", "7.5"))
		require.NoError(t, mw.WriteField("update_date", "2024-05-02"))
		fw, err := mw.CreateFormFile("attachments[]", "photo.jpg")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("jpeg"))
		fw, err = mw.CreateFormFile("attachments", "notes.txt")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("notes"))
		require.NoError(t, mw.Close())

		svc := mock.NewMockService(gomock.NewController(t))
		svc.EXPECT().RecordProgressUpdate(gomock.Any(), staff, int64(3), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, a actor.Actor, taskID int64, req task.ProgressUpdateRequest, files []task.Upload) (task.ProgressUpdateView, error) {
				assert.Equal(t, "Pulled cables", req.ProgressDescription)
				require.NotNil(t, req.TimeSpent)
				assert.Equal(t, 7.5, *req.TimeSpent)
				require.Len(t, files, 2)
				assert.Equal(t, "notes.txt", files[0].Name)
				assert.Equal(t, "photo.jpg", files[1].Name)

				rc, err := files[1].Open()
				require.NoError(t, err)
				defer rc.Close()
				content, _ := io.ReadAll(rc)
				assert.Equal(t, "jpeg", string(content))

				return task.ProgressUpdateView{ID: 31, TaskID: taskID, TaskIDCamel: taskID}, nil
			})

		w := serve(newTaskRouter(svc, &staff), http.MethodPost, "/tasks/3/progress-updates", &body, mw.FormDataContentType())

		assert.Equal(t, http.StatusCreated, w.Code)
		data := decodeEnvelope(t, w.Body.Bytes()).Data
		assert.JSONEq(t, `3`, string(mustField(t, data, "task_id")))
		assert.JSONEq(t, `3`, string(mustField(t, data, "taskId")))
	})

	t.Run("success json body", func(t *testing.T) {
		svc := mock.NewMockService(gomock.NewController(t))
		svc.EXPECT().RecordProgressUpdate(gomock.Any(), staff, int64(3), gomock.Any(), gomock.Nil()).
			Return(task.ProgressUpdateView{ID: 31}, nil)

		body := `{"progress_description":"Pulled cables","time_spent":24,"update_date":"2024-05-02"}`
		w := serve(newTaskRouter(svc, &staff), http.MethodPost, "/tasks/3/progress-updates", strings.NewReader(body), "application/json")
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("negative duplicate carries existing update in data", func(t *testing.T) {
		existing := task.ProgressUpdateView{ID: 30, TaskID: 3, TaskIDCamel: 3, UpdateDate: "2024-05-02", UpdateDateCamel: "2024-05-02"}
		svc := mock.NewMockService(gomock.NewController(t))
		svc.EXPECT().RecordProgressUpdate(gomock.Any(), gomock.Any(), int64(3), gomock.Any(), gomock.Any()).
			Return(task.ProgressUpdateView{}, taskerrors.ErrProgressUpdateExists.WithDetails(existing))

		body := `{"progress_description":"again","time_spent":1,"update_date":"2024-05-02"}`
		w := serve(newTaskRouter(svc, &staff), http.MethodPost, "/tasks/3/progress-updates", strings.NewReader(body), "application/json")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, apperror.CodeConflict, env.Error.Code)
		assert.JSONEq(t, `30`, string(mustField(t, env.Data, "id")))
		assert.JSONEq(t, `"2024-05-02"`, string(mustField(t, env.Data, "updateDate")))
		assert.JSONEq(t, `null`, string(env.Error.Details))
	})

	t.Run("negative not an employee", func(t *testing.T) {
		svc := mock.NewMockService(gomock.NewController(t))
		svc.EXPECT().ListProgressUpdates(gomock.Any(), gomock.Any()).Return(nil, taskerrors.ErrNotEmployee)

		w := serve(newTaskRouter(svc, &actor.Actor{UserID: 1}), http.MethodGet, "/progress-updates", nil, "")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "You are not registered as an employee.", decodeEnvelope(t, w.Body.Bytes()).Error.Message)
	})
}

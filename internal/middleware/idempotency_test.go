package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-worktrack/internal/middleware"
	"go-worktrack/internal/shared/actor"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

const (
	idempCacheKey = "idemp:/submit:5:abc"
	idempLockKey  = idempCacheKey + ":lock"
)

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(t *testing.T) (*gin.Engine, redismock.ClientMock, *int) {
		rdb, mock := redismock.NewClientMock()
		calls := 0

		r := gin.New()
		r.POST("/submit",
			withActor(&actor.Actor{UserID: 5, Role: actor.RoleStaff}),
			middleware.Idempotency(rdb),
			func(c *gin.Context) {
				calls++
				c.JSON(http.StatusCreated, gin.H{"id": 1})
			},
		)
		return r, mock, &calls
	}

	post := func(r *gin.Engine, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("first request stores response", func(t *testing.T) {
		r, mock, calls := setup(t)

		mock.ExpectGet(idempCacheKey).RedisNil()
		mock.ExpectSetNX(idempLockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(idempCacheKey, `{"status":201,"body":{"id":1}}`, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(idempLockKey).SetVal(1)

		w := post(r, "abc")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":1}`, w.Body.String())
		assert.Equal(t, 1, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay returns cached response", func(t *testing.T) {
		r, mock, calls := setup(t)

		mock.ExpectGet(idempCacheKey).SetVal(`{"status":201,"body":{"id":1}}`)

		w := post(r, "abc")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, `{"id":1}`, w.Body.String())
		assert.Equal(t, 0, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative in-flight request", func(t *testing.T) {
		r, mock, calls := setup(t)

		mock.ExpectGet(idempCacheKey).RedisNil()
		mock.ExpectSetNX(idempLockKey, "locked", 30*time.Second).SetVal(false)

		w := post(r, "abc")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without key passes through", func(t *testing.T) {
		r, mock, calls := setup(t)

		w := post(r, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

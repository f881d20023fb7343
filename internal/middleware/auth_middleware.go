package middleware

import (
	"fmt"
	"strconv"
	"strings"

	autherrors "go-worktrack/internal/auth/errors"
	"go-worktrack/internal/shared/actor"
	"go-worktrack/internal/shared/apperror"
	"go-worktrack/internal/shared/contextutil"
	"go-worktrack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}

// AuthMiddleware validates the bearer token (or access_token cookie) and
// stores the requester as an actor.Actor.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			abortWith(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		userID, ok := claimInt64(claims, "user_id")
		if !ok || userID == nil {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		employeeID, ok := claimInt64(claims, "employee_id")
		if !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		role, _ := claims["role"].(string)

		a := actor.Actor{UserID: *userID, EmployeeID: employeeID, Role: role}
		actor.Set(c, a)
		c.Set("user_id", strconv.FormatInt(a.UserID, 10))
		c.Set("role", role)

		uid := strconv.FormatInt(a.UserID, 10)
		ctx := contextutil.WithUserID(c.Request.Context(), uid)
		ctx = contextutil.WithLogger(ctx, contextutil.GetLogger(ctx, zap.L()).With(
			zap.String("user_id", uid),
			zap.String("role", role),
		))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// claimInt64 reads a numeric claim. A missing or null claim yields (nil, true).
func claimInt64(claims jwt.MapClaims, key string) (*int64, bool) {
	raw, exists := claims[key]
	if !exists || raw == nil {
		return nil, true
	}

	switch v := raw.(type) {
	case float64:
		id := int64(v)
		return &id, true
	case string:
		if v == "" {
			return nil, true
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, false
		}
		return &id, true
	default:
		return nil, false
	}
}

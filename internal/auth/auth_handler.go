package auth

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
	service      Service
	secureCookie bool
	logger       *zap.Logger
}

func NewHandler(s Service, secureCookie bool, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, secureCookie: secureCookie, logger: l}
}

func isWebClient(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("X-Client-Type"), "web")
}

func (ctrl *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	token, userResp, err := ctrl.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		ctrl.logger.Warn("login failed", zap.String("email", req.Email), zap.String("code", httpErr.Code))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	if isWebClient(c) {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     "access_token",
			Value:    token,
			Path:     "/",
			MaxAge:   86400,
			HttpOnly: true,
			Secure:   ctrl.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":         userResp,
		"access_token": token,
		"token_type":   "Bearer",
	}, nil)
}

func (ctrl *Handler) Me(c *gin.Context) {
	a, ok := actor.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthenticated.", nil)
		return
	}

	userResp, err := ctrl.service.GetMe(c.Request.Context(), a.UserID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, userResp, nil)
}

func (ctrl *Handler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ctrl.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	response.Message(c, http.StatusOK, "Logout success.")
}

package auth

import (
	"context"
	"errors"
	"time"

	autherrors "go-worktrack/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultTokenTTL = 24 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID int64) (*AuthResponse, error)
}

type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

type service struct {
	repo   Repository
	tokens TokenConfig
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, tokens TokenConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if tokens.TTL <= 0 {
		tokens.TTL = defaultTokenTTL
	}
	return &service{repo: repo, tokens: tokens, now: time.Now, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
		}
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		s.logger.Error("sign token failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	return token, toAuthResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID int64) (*AuthResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := toAuthResponse(u)
	return &resp, nil
}

// generateToken signs the claims read back by middleware.AuthMiddleware.
// employee_id is null for users without an employee record.
func (s *service) generateToken(user *User) (string, error) {
	now := s.now()
	var employeeID any
	if user.EmployeeID != nil {
		employeeID = *user.EmployeeID
	}

	claims := jwt.MapClaims{
		"user_id":     user.ID,
		"employee_id": employeeID,
		"role":        user.Role,
		"iat":         now.Unix(),
		"exp":         now.Add(s.tokens.TTL).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.tokens.Secret))
}

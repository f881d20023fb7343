package rbac

import (
	"context"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy(ctx context.Context) error
	EnforceRole(role, resource, action string) (bool, error)
	PermissionsForRole(role string) ([]PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

// LoadPolicy replaces the in-memory policy with the stored role
// permissions, seeding DefaultPolicy when none are stored yet.
func (s *service) LoadPolicy(ctx context.Context) error {
	perms, err := s.repo.ListRolePermissions(ctx)
	if err != nil {
		return err
	}

	if len(perms) == 0 {
		perms = DefaultPolicy()
		if err := s.repo.SeedRolePermissions(ctx, perms); err != nil {
			return err
		}
		s.logger.Info("seeded default rbac policy", zap.Int("rules", len(perms)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()
	for _, p := range perms {
		if _, err := s.enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return err
		}
	}

	s.logger.Info("rbac policy loaded", zap.Int("rules", len(perms)))
	return nil
}

func (s *service) EnforceRole(role, resource, action string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) PermissionsForRole(role string) ([]PermissionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules, err := s.enforcer.GetFilteredPolicy(0, role)
	if err != nil {
		return nil, err
	}

	out := make([]PermissionResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, PermissionResponse{Resource: rule[1], Action: rule[2]})
	}
	return out, nil
}

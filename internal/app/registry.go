package app

import (
	"context"
	"database/sql"

	"go-worktrack/internal/audit"
	"go-worktrack/internal/auth"
	"go-worktrack/internal/config"
	"go-worktrack/internal/employee"
	"go-worktrack/internal/leave"
	"go-worktrack/internal/messaging/kafka"
	"go-worktrack/internal/middleware"
	"go-worktrack/internal/project"
	"go-worktrack/internal/rbac"
	"go-worktrack/internal/rbac/infra"
	"go-worktrack/internal/staff"
	"go-worktrack/internal/storage"
	"go-worktrack/internal/task"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Submissions are limited per user: a burst of 5, then one every 2s.
const (
	submitRate  = rate.Limit(0.5)
	submitBurst = 5
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	projectRepo := project.NewRepository(gormDB)
	rbacRepo := rbac.NewRepository(gormDB)
	staffRepo := staff.NewRepository(gormDB)
	taskRepo := task.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := rbacService.LoadPolicy(context.Background()); err != nil {
		return err
	}

	auditLogger := audit.NewStdoutLogger()
	fileStore := storage.NewLocal(cfg.Storage.Root, cfg.Storage.PublicURL)

	// --- Services ---
	authService := auth.NewService(authRepo, auth.TokenConfig{Secret: cfg.JWTSecret})
	leaveService := leave.NewService(db, leaveRepo, outboxRepo, auditLogger)
	staffService := staff.NewService(db, staffRepo, projectRepo, outboxRepo)
	taskService := task.NewService(db, taskRepo, projectRepo, employeeRepo, outboxRepo, fileStore)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction())
	leaveHandler := leave.NewHandler(leaveService)
	rbacHandler := rbac.NewHandler(rbacService)
	staffHandler := staff.NewHandler(staffService)
	taskHandler := task.NewHandler(taskService)

	// --- Routes Registration ---
	authMW := middleware.AuthMiddleware(cfg.JWTSecret)
	submitMW := []gin.HandlerFunc{
		middleware.RateLimitByUser(submitRate, submitBurst),
		middleware.Idempotency(rdb),
	}

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW)
		leave.RegisterRoutes(api, leaveHandler, authMW, rbacService)
		staff.RegisterRoutes(api, staffHandler, authMW, rbacService, submitMW...)
		task.RegisterRoutes(api, taskHandler, authMW, rbacService, submitMW...)
		rbac.RegisterRoutes(api, rbacHandler, authMW, rbacService)
	}

	return nil
}

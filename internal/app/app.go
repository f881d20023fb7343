package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-worktrack/internal/audit"
	"go-worktrack/internal/auth"
	"go-worktrack/internal/config"
	"go-worktrack/internal/department"
	"go-worktrack/internal/employee"
	"go-worktrack/internal/leave"
	"go-worktrack/internal/messaging/kafka"
	"go-worktrack/internal/middleware"
	"go-worktrack/internal/project"
	"go-worktrack/internal/rbac"
	"go-worktrack/internal/shared/connection"
	"go-worktrack/internal/staff"
	"go-worktrack/internal/task"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

// Models lists every table the API owns, in dependency order.
func Models() []any {
	return []any{
		&department.Department{},
		&employee.Employee{},
		&auth.User{},
		&rbac.RolePermission{},
		&leave.Leave{},
		&project.Project{},
		&project.Activity{},
		&staff.DailyActivity{},
		&task.Task{},
		&task.ProgressUpdate{},
		&kafka.OutboxRecord{},
		&audit.AuditLog{},
	}
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// BuildApp connects the infrastructure and mounts every module on router.
// The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, connectRetries)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := migrate(gormDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		logger.Info("database migrated")
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(zap.L().Named("http")),
	)
	router.GET("/healthz", healthz(sqlDB.PingContext))
	router.Static(cfg.Storage.PublicPrefix, cfg.Storage.Root)

	if err := registerModules(router, cfg, sqlDB, gormDB, redisClient); err != nil {
		cleanup()
		return nil, err
	}
	return cleanup, nil
}

func healthz(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-worktrack/internal/audit"
	"go-worktrack/internal/config"
	"go-worktrack/internal/events"
	"go-worktrack/internal/messaging/kafka/consumer"
	"go-worktrack/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const auditConsumerGroup = "go-worktrack-audit"

// RunConsumer stores every domain event in audit_logs until SIGINT/SIGTERM.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if err := cfg.RequireKafka(); err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, connectRetries)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	auditRepo := audit.NewRepository(gormDB)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		GroupID:        auditConsumerGroup,
		GroupTopics:    events.AuditTopics,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeAuditEvents(ctx, reader, auditRepo, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}

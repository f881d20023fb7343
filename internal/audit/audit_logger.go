package audit

import (
	"context"
	"time"

	"go-worktrack/internal/shared/contextutil"

	"go.uber.org/zap"
)

// Entry is a security-relevant event written to the audit log stream.
type Entry struct {
	Action  string
	Message string
	Meta    map[string]any
}

type Logger interface {
	Log(ctx context.Context, entry Entry)
}

type StdoutLogger struct {
	logger *zap.Logger
}

func NewStdoutLogger(logger ...*zap.Logger) *StdoutLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutLogger{logger: l}
}

func (l *StdoutLogger) Log(ctx context.Context, entry Entry) {
	l.logger.Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}

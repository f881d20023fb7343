package bootstrap

import (
	"go-worktrack/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the process logger and installs it as zap's global.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	build := zap.NewDevelopment
	if cfg.IsProduction() {
		build = zap.NewProduction
	}

	logger, err := build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

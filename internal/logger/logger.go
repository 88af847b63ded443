package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-deck-bot/internal/config"
)

// New builds the application logger: JSON production output in production,
// human-readable development output elsewhere. LogLevel overrides the preset level.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zcfg.Level = level
	}

	return zcfg.Build()
}

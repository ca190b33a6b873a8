package logger

import (
	"go.uber.org/zap"

	"github.com/tmwale/pos-backend/internal/config"
)

// New builds a zap logger from config. Unknown levels fall back to info.
func New(cfg config.LoggerConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	if cfg.Encoding != "" {
		zcfg.Encoding = cfg.Encoding
	}
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}

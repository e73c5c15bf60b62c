package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/KirkDiggler/wargame-mechanics/internal/config"
	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
)

// New builds a logger from the log settings. Development loggers write
// human readable console output; production loggers write JSON.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeValidation, "invalid log level").WithMeta("level", cfg.Level)
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	// Stdout carries command output
	zc.OutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to build logger")
	}
	return logger, nil
}

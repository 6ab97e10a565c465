// Package logging builds the structured loggers shared by commands.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects logger encoding and verbosity.
type Config struct {
	Format string `env:"TALEVORTEX_LOG_FORMAT" envDefault:"json"`
	Level  string `env:"TALEVORTEX_LOG_LEVEL" envDefault:"info"`
}

// New builds a zap logger for cfg. The "console" format produces the
// human-readable development encoder; anything else produces JSON.
func New(cfg Config, service string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zcfg zap.Config
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "console") {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.TimeKey = "ts"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if service = strings.TrimSpace(service); service != "" {
		logger = logger.With(zap.String("service", service))
	}
	return logger, nil
}

// OrNop returns logger, or a no-op logger when logger is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

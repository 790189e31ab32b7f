package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. Development gets a console encoder, everything
// else JSON. An empty level falls back to debug in development and info otherwise.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "development" || env == "local" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	lvl, err := resolveLevel(env, level)
	if err != nil {
		return nil, err
	}
	cfg.Level = lvl
	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

func resolveLevel(env, level string) (zap.AtomicLevel, error) {
	if strings.TrimSpace(level) == "" {
		if env == "development" || env == "local" {
			return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
		}
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}

	var parsed zapcore.Level
	if err := parsed.Set(level); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid level %q: %w", level, err)
	}
	return zap.NewAtomicLevelAt(parsed), nil
}

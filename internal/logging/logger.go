// Package logging builds the zerolog loggers used across batterytext.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	Out        io.Writer
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
		Out:        os.Stderr,
	}
}

// New creates a zerolog logger with the given configuration.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
	}

	return zerolog.New(out).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a config/env level name to a zerolog level.
// Unknown names keep the fallback.
func ParseLevel(name string, fallback zerolog.Level) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return fallback
	}
}

// ApplyEnv overrides cfg from BATTERYTEXT_LOG_LEVEL and BATTERYTEXT_LOG_FORMAT.
func ApplyEnv(cfg Config) Config {
	if level := os.Getenv("BATTERYTEXT_LOG_LEVEL"); level != "" {
		cfg.Level = ParseLevel(level, cfg.Level)
	}
	if format := os.Getenv("BATTERYTEXT_LOG_FORMAT"); format == "json" || format == "console" {
		cfg.Format = format
	}
	return cfg
}

// FromContext extracts the logger from context.
// If no logger is found, returns a disabled logger (no-op).
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field.
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	child := logger.With().Str("component", component).Logger()
	return WithContext(ctx, child)
}

// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     logging
// Description: Factory functions and process-wide logging defaults
// Author:      Mike Stoffels
// Created:     2026-09-29
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	defaultsMu sync.RWMutex
	defaults   = LoggerConfig{Level: "info", Format: "json"}
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name, added to every entry as "service"
	ServiceName string

	// Log level (debug, info, warn, error)
	Level string

	// Output format: "json" or "text" (default: json)
	Format string

	// Output destination (default: stderr)
	Output io.Writer
}

// DefaultLoggerConfig returns the process defaults for a service
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()

	cfg := defaults
	cfg.ServiceName = serviceName
	return cfg
}

// Configure sets the defaults used by New and DefaultLoggerConfig. Empty
// values leave the current default untouched.
func Configure(level, format string, output io.Writer) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()

	if level != "" {
		defaults.Level = level
	}
	if format != "" {
		defaults.Format = format
	}
	if output != nil {
		defaults.Output = output
	}
}

// NewLogger creates a logger from an explicit configuration
func NewLogger(cfg LoggerConfig) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "text" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), parseLevel(cfg.Level).zapLevel())
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	if cfg.ServiceName != "" {
		base = base.With(zap.String("service", cfg.ServiceName))
	}

	return &Logger{
		sugar: base.Sugar(),
		cfg:   cfg,
		name:  cfg.ServiceName,
	}
}

// New creates a logger for the named component using the process defaults
func New(name string) *Logger {
	return NewLogger(DefaultLoggerConfig(name))
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// parseLevel converts a string level to Level; unknown values map to info
func parseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error", "fatal":
		return LevelError
	default:
		return LevelInfo
	}
}

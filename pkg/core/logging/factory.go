// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     logging
// Description: Process-wide logger configuration and constructors
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json" or "text" (default: json)
	Format string

	// Output writer (default: stderr)
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

var (
	configMu     sync.RWMutex
	globalConfig = DefaultLoggerConfig("neurospeak")
)

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "json",
	}
}

// Configure sets the configuration used by every logger created afterwards.
// The terminal monitor owns stdout, so the commands route logs to a file here.
func Configure(cfg LoggerConfig) {
	configMu.Lock()
	defer configMu.Unlock()
	globalConfig = cfg
}

func currentConfig() LoggerConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// NewLogger creates a slog logger from an explicit configuration
func NewLogger(cfg LoggerConfig) *slog.Logger {
	return newSlogLogger(cfg, cfg.ServiceName, parseLevel(cfg.Level))
}

// New creates a named component logger using the process-wide configuration
func New(name string) *Logger {
	cfg := currentConfig()
	return &Logger{
		Logger: newSlogLogger(cfg, name, parseLevel(cfg.Level)),
		name:   name,
	}
}

func newSlogLogger(cfg LoggerConfig, name string, level slog.Level) *slog.Logger {
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler).With("component", name)
}

// parseLevel converts a string level to a slog level
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

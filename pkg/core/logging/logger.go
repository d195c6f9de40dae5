// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     logging
// Description: Named key/value loggers on top of log/slog
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package logging

import (
	"context"
	"log/slog"
)

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LevelTrace sits below slog's debug level
const LevelTrace = slog.Level(-8)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger is a named logger taking alternating key/value pairs
type Logger struct {
	*slog.Logger
	name string
}

// Name returns the component name the logger was created for
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a logger for the same component with its own minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	cfg := currentConfig()
	return &Logger{
		Logger: newSlogLogger(cfg, l.name, level.slogLevel()),
		name:   l.name,
	}
}

// With returns a logger that adds the given key/value pairs to every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.With(keysAndValues...),
		name:   l.name,
	}
}

// Trace logs below debug level
func (l *Logger) Trace(msg string, keysAndValues ...interface{}) {
	l.Logger.Log(context.Background(), LevelTrace, msg, keysAndValues...)
}

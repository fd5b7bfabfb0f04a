// Package logger sets up the process-wide slog logger.
package logger

import (
	"errors"
	"log/slog"
	"os"
	"strings"
)

// New builds a slog logger writing to stderr, keeping stdout clean for
// command output, and installs it as the default.
// logLevel: "debug", "info", "warn", "error"
// logFormat: "json" or "text"
func New(logLevel, logFormat string) (*slog.Logger, error) {
	level, err := ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	default:
		return nil, errors.New("invalid logFormat: " + logFormat)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log, nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(logLevel string) (slog.Level, error) {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("invalid logLevel: " + logLevel)
	}
}

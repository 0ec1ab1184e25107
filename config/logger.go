package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a slog.Logger for the given environment.
// Production writes JSON; every other environment writes text.
// LOG_LEVEL may be: debug, info, warn, error (default: info, or debug when APP_DEBUG is on).
func NewLogger(cfg *Config) *slog.Logger {
	return newLogger(os.Stdout, cfg.Environment, os.Getenv("LOG_LEVEL"), cfg.Debug)
}

func newLogger(w io.Writer, env, levelName string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(levelName, debug)}
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", "eventattendance", "env", env)
}

func parseLevel(s string, debug bool) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Package logger configures process-wide structured logging for the
// long-running morph surfaces (watch, serve). Library packages stay
// silent and return errors; only command loops log.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvVar selects the log level ("debug", "info", "warn", "error").
const EnvVar = "MORPH_LOG"

type Config struct {
	Level  slog.Level
	Format string // "text" or "json"
	Output io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:  LevelFromEnv(),
		Format: "text",
		Output: os.Stderr,
	}
}

// LevelFromEnv maps the EnvVar value to a slog level. Unset or
// unrecognized values mean info.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv(EnvVar)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs the process default logger that ForComponent draws from.
func Setup(cfg Config) {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ForComponent returns a logger tagged with the subsystem it serves.
func ForComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

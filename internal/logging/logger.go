package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process-wide slog logger: JSON to stdout with source
// locations, at the level named by the LOG_LEVEL config value. Unrecognized
// levels fall back to info rather than failing startup.
func NewLogger(level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     levelFromString(level),
		AddSource: true,
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func levelFromString(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

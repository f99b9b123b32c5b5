package api

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger 依照設定建立 slog logger
func NewLogger(w io.Writer, config LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}
	if strings.EqualFold(config.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

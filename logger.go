package spotlight

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLogLevel converts error|warn|info|debug to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be error, warn, info, or debug)", level)
	}
}

// NewLogger returns a text logger writing to w at the given level.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl, _ := ParseLogLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

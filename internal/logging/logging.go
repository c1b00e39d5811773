// Package logging configures the process-wide structured logger.
//
// Logs are written to stderr as JSON (default) or logfmt-style text, with
// the module name and version attached to every record:
//
//	logging.SetDefault("serverdash", version.Version, "info", "json")
//	slog.Info("server started", "addr", addr)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a level name into a slog.Level. Unknown names map to Info.
func ParseLevel(level string) slog.Level {
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

// New builds a logger writing to w.
func New(w io.Writer, module, version, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("module", module),
		slog.String("version", version),
	)
}

// SetDefault installs a stderr logger as the slog default.
func SetDefault(module, version, level, format string) *slog.Logger {
	logger := New(os.Stderr, module, version, level, format)
	slog.SetDefault(logger)
	return logger
}

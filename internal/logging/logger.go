package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON logger on stdout as the process default and returns its handler.
func Setup(level string) slog.Handler {
	return SetupTo(os.Stdout, level)
}

func SetupTo(w io.Writer, level string) slog.Handler {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
	return handler
}

// WithSink makes the default logger also write ERROR+ records to sink.
func WithSink(base slog.Handler, sink slog.Handler) {
	slog.SetDefault(slog.New(NewMultiHandler(base, sink)))
}

func ParseLevel(level string) slog.Level {
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

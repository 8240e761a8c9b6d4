package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewJSONHandler is the stdout handler shape used everywhere: JSON at INFO.
func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout)))
}

// Install replaces the default logger with one that fans out to stdout and
// every extra handler.
func Install(extra ...slog.Handler) {
	handlers := append([]slog.Handler{NewJSONHandler(os.Stdout)}, extra...)
	slog.SetDefault(slog.New(NewMultiHandler(handlers...)))
}

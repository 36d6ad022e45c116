package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Text output on stdout keeps
// local runs readable; swap the handler for JSON when shipping logs.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

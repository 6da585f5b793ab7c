package main

import (
	"log/slog"
	"os"

	"github.com/soocke/splash-fisher/logsink"
)

// NewLogger returns a structured slog.Logger with the given level. When buf is
// non-nil, records at info level and above are also kept for the log pane.
func NewLogger(level slog.Leveler, buf *logsink.Buffer) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if buf == nil {
		return slog.New(h)
	}
	return slog.New(logsink.NewHandler(h, buf, slog.LevelInfo))
}

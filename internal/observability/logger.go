package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the JSON slog logger for the process. The handler is
// wrapped so every record emitted inside a traced request carries the
// trace/span ids.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTraceHandler(handler))
}

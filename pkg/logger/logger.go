package logger

import (
	"log/slog"
	"os"
)

var Log = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Init replaces Log with a JSON handler; debug level outside production.
func Init(env string) {
	level := slog.LevelDebug
	if env == "production" {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	Log = slog.New(handler).With("service", "care-recruitment-backend")
}

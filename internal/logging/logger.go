package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

func InitLogger(level string) {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})

	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
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

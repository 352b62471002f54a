package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/fintrack-ledger/internal/config"
)

// NewLogger builds the process-wide slog.Logger: JSON to stdout at the
// configured level. Source locations are attached only at debug level.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	logger := slog.New(handler)
	logger.Info("logger initialized", "level", level)

	return logger
}

package cli

import (
	"log/slog"

	"github.com/aretw0/tds/internal/config"
	"github.com/aretw0/tds/internal/logging"
)

// NewLogger configures the application logger from cfg. Debug forces the debug
// level. Quiet discards everything.
func NewLogger(cfg config.LogConfig, debug, quiet bool) *slog.Logger {
	if quiet {
		return logging.NewNop()
	}
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(level, cfg.Format)
}

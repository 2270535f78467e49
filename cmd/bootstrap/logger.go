package bootstrap

import (
	"log/slog"

	"slotbooker/internal/handler/middleware"
	"slotbooker/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

// NewLogger builds the process-wide slog logger from the log config,
// matching what the server entrypoint wires by hand.
func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}

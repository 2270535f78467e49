package components

import (
	"slotbooker/internal/handler"
	"slotbooker/internal/handler/api"
	"slotbooker/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewPlatformHandler,
		api.NewSlotHandler,
		api.NewBookingHandler,
		api.NewPromoHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

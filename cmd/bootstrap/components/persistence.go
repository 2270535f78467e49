package components

import (
	"slotbooker/internal/infra/readstore"
	"slotbooker/internal/infra/uow"
	"slotbooker/internal/usecase/queries"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	repositoryModule,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewClientReadStore,
			fx.As(new(queries.ClientReadStore)),
		),
		fx.Annotate(
			readstore.NewSlotReadStore,
			fx.As(new(queries.SlotViewRepo)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
		),
		fx.Annotate(
			readstore.NewPlatformReadStore,
			fx.As(new(queries.PlatformViewRepo)),
		),
		fx.Annotate(
			readstore.NewPromoReadStore,
			fx.As(new(queries.PromoReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// NewPostgresUoW already returns the shared.UnitOfWork interface.
		uow.NewPostgresUoW,
	),
)

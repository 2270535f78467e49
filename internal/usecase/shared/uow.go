package shared

import (
	"context"
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/domain/booking"
	"slotbooker/internal/domain/pricing"
	"slotbooker/internal/domain/promo"
	"slotbooker/internal/domain/slot"
	"slotbooker/internal/infra/db"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	PriceLists() PriceListRepository
	Slots() SlotRepository
	Bookings() BookingRepository
	Promos() PromoRepository
	Redemptions() RedemptionRepository
	Clients() ClientRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	PriceListByID(ctx context.Context, id uuid.UUID) (*PriceListSnapshot, error)
	SlotByID(ctx context.Context, id uuid.UUID) (*SlotSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	PromoByCode(ctx context.Context, code string) (*PromoSnapshot, error)
	ClientByEmail(ctx context.Context, email string) (*ClientSnapshot, error)
}

type PriceListRepository interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*pricing.PriceList, error)
	ActiveRules(ctx context.Context, dbtx db.DBTX, priceListID uuid.UUID) ([]*pricing.Rule, error)
	ActiveOverrides(ctx context.Context, dbtx db.DBTX, priceListID uuid.UUID, from, to time.Time) ([]*pricing.Override, error)
}

type SlotRepository interface {
	// FindByIDForUpdate locks the slot row for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*slot.Slot, error)
	FindByWindow(ctx context.Context, dbtx db.DBTX, platformID, priceListID uuid.UUID, startsAt, endsAt time.Time) (*slot.Slot, error)
	Create(ctx context.Context, dbtx db.DBTX, s *slot.Slot) (uuid.UUID, error)
	UpdateTerms(ctx context.Context, dbtx db.DBTX, s *slot.Slot) error
	UpdateUsage(ctx context.Context, dbtx db.DBTX, s *slot.Slot) error
}

type BookingRepository interface {
	FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error
}

type PromoRepository interface {
	// FindByCodeForUpdate locks the promo row so cap counting and the
	// redemption insert see the same state.
	FindByCodeForUpdate(ctx context.Context, dbtx db.DBTX, code string) (*promo.PromoCode, error)
	CountActiveRedemptions(ctx context.Context, dbtx db.DBTX, promoCodeID uuid.UUID) (int, error)
	CountActiveRedemptionsByClient(ctx context.Context, dbtx db.DBTX, promoCodeID, clientID uuid.UUID) (int, error)
}

type RedemptionRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, r *promo.Redemption) (uuid.UUID, error)
	CancelByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) error
}

type ClientRepository interface {
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, clientID uuid.UUID) error
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	dombooking "slotbooker/internal/domain/booking"
	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/pkg/pgconv"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const findBookingByIDForUpdateSQL = `
SELECT id, platform_id, client_id, slot_id, starts_at, ends_at,
       base_amount, discount, total_amount, promo_code, status, created_at, updated_at
FROM bookings
WHERE id = $1
FOR UPDATE`

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*dombooking.Booking, error) {
	row := dbtx.QueryRow(ctx, findBookingByIDForUpdateSQL, id)

	var (
		bID         uuid.UUID
		platformID  uuid.UUID
		clientID    uuid.UUID
		slotID      pgtype.UUID
		startsAt    time.Time
		endsAt      time.Time
		baseAmount  pgtype.Numeric
		discount    pgtype.Numeric
		totalAmount pgtype.Numeric
		promoCode   string
		status      string
		createdAt   time.Time
		updatedAt   time.Time
	)
	err := row.Scan(&bID, &platformID, &clientID, &slotID, &startsAt, &endsAt,
		&baseAmount, &discount, &totalAmount, &promoCode, &status, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	base, err := pgconv.DecimalFromNumeric(baseAmount)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid booking base amount", err)
	}
	disc, err := pgconv.DecimalFromNumeric(discount)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid booking discount", err)
	}
	total, err := pgconv.DecimalFromNumeric(totalAmount)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid booking total amount", err)
	}

	return dombooking.ReconstructBooking(
		bID,
		platformID, clientID,
		pgconv.UUIDPtrFromPgtype(slotID),
		startsAt, endsAt,
		money.FromDecimal(base), money.FromDecimal(disc), money.FromDecimal(total),
		promoCode,
		dombooking.Status(status),
		createdAt, updatedAt,
	), nil
}

const createBookingSQL = `
INSERT INTO bookings (id, platform_id, client_id, slot_id, starts_at, ends_at,
                      base_amount, discount, total_amount, promo_code, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *dombooking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createBookingSQL,
		b.ID(),
		b.PlatformID(),
		b.ClientID(),
		pgconv.UUIDPtrToPgtype(b.SlotID()),
		b.StartsAt(),
		b.EndsAt(),
		pgconv.NumericFromDecimal(b.BaseAmount().Decimal()),
		pgconv.NumericFromDecimal(b.Discount().Decimal()),
		pgconv.NumericFromDecimal(b.TotalAmount().Decimal()),
		b.PromoCode(),
		string(b.Status()),
		b.CreatedAt(),
		b.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("booking references missing row", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return id, nil
}

const updateBookingStatusSQL = `
UPDATE bookings
SET status = $2, updated_at = $3
WHERE id = $1`

func (r *BookingRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, b *dombooking.Booking) error {
	tag, err := dbtx.Exec(ctx, updateBookingStatusSQL, b.ID(), string(b.Status()), b.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

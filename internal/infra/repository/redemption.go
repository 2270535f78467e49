package repository

import (
	"context"

	"github.com/google/uuid"

	dompromo "slotbooker/internal/domain/promo"
	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/pkg/pgconv"
)

type RedemptionRepository struct{}

func NewRedemptionRepository() *RedemptionRepository {
	return &RedemptionRepository{}
}

const createRedemptionSQL = `
INSERT INTO promo_redemptions (id, promo_code_id, client_id, booking_id, discount_amount, is_cancelled, used_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

func (r *RedemptionRepository) Create(ctx context.Context, dbtx db.DBTX, red *dompromo.Redemption) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createRedemptionSQL,
		red.ID(),
		red.PromoCodeID(),
		red.ClientID(),
		pgconv.UUIDPtrToPgtype(red.BookingID()),
		pgconv.NumericFromDecimal(red.DiscountAmount().Decimal()),
		red.IsCancelled(),
		red.UsedAt(),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("redemption references missing row", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create promo redemption", err)
	}
	return id, nil
}

const cancelRedemptionByBookingSQL = `
UPDATE promo_redemptions
SET is_cancelled = TRUE
WHERE booking_id = $1 AND is_cancelled = FALSE`

// CancelByBookingID is a no-op for bookings without redemptions; rows are
// never deleted so the audit trail survives cancellation.
func (r *RedemptionRepository) CancelByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, cancelRedemptionByBookingSQL, bookingID); err != nil {
		return infra.WrapRepoErr("failed to cancel promo redemption", err)
	}
	return nil
}

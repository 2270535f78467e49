package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/pkg/pgconv"
	"slotbooker/internal/usecase/queries"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const findBookingViewByIDSQL = `
SELECT b.id, b.platform_id, b.client_id, c.email, b.slot_id, b.starts_at, b.ends_at,
       b.base_amount, b.discount, b.total_amount, b.promo_code, b.status, b.created_at, b.updated_at
FROM bookings b
JOIN clients c ON c.id = b.client_id
WHERE b.id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		view        queries.BookingView
		slotID      pgtype.UUID
		baseAmount  pgtype.Numeric
		discount    pgtype.Numeric
		totalAmount pgtype.Numeric
		promoCode   string
	)
	err := r.db.QueryRow(ctx, findBookingViewByIDSQL, id).Scan(
		&view.ID, &view.PlatformID, &view.ClientID, &view.ClientEmail, &slotID,
		&view.StartsAt, &view.EndsAt, &baseAmount, &discount, &totalAmount,
		&promoCode, &view.Status, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	view.SlotID = pgconv.UUIDPtrFromPgtype(slotID)
	if promoCode != "" {
		view.PromoCode = &promoCode
	}

	for _, pair := range []struct {
		src pgtype.Numeric
		dst *money.Money
	}{
		{baseAmount, &view.BaseAmount},
		{discount, &view.Discount},
		{totalAmount, &view.TotalAmount},
	} {
		dec, err := pgconv.DecimalFromNumeric(pair.src)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid booking amount", err)
		}
		*pair.dst = money.FromDecimal(dec)
	}

	return &view, nil
}

const findBookingsByClientPaginatedSQL = `
SELECT id, slot_id, starts_at, ends_at, total_amount, status, created_at
FROM bookings
WHERE client_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

func (r *BookingReadStore) FindByClientIDPaginated(ctx context.Context, clientID uuid.UUID, limit, offset int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, findBookingsByClientPaginatedSQL, clientID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list client bookings", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var (
			item        queries.BookingListItem
			slotID      pgtype.UUID
			totalAmount pgtype.Numeric
		)
		if err := rows.Scan(&item.ID, &slotID, &item.StartsAt, &item.EndsAt, &totalAmount, &item.Status, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		item.SlotID = pgconv.UUIDPtrFromPgtype(slotID)
		dec, err := pgconv.DecimalFromNumeric(totalAmount)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid booking amount", err)
		}
		item.TotalAmount = money.FromDecimal(dec)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return result, nil
}

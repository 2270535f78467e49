package readstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/pkg/pgconv"
	"slotbooker/internal/usecase/queries"
)

type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(dbtx db.DBTX) *SlotReadStore {
	return &SlotReadStore{db: dbtx}
}

const findSlotViewByIDSQL = `
SELECT s.id, s.platform_id, s.price_list_id, s.starts_at, s.ends_at,
       s.price, pl.currency, s.capacity, s.used_capacity, s.status, s.created_at, s.updated_at
FROM slots s
JOIN price_lists pl ON pl.id = s.price_list_id
WHERE s.id = $1`

func (r *SlotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SlotView, error) {
	var (
		view  queries.SlotView
		price pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, findSlotViewByIDSQL, id).Scan(
		&view.ID, &view.PlatformID, &view.PriceListID, &view.StartsAt, &view.EndsAt,
		&price, &view.Currency, &view.Capacity, &view.UsedCapacity, &view.Status,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot by ID", err)
	}

	priceDec, err := pgconv.DecimalFromNumeric(price)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid slot price", err)
	}
	view.Price = money.FromDecimal(priceDec)
	view.Remaining = view.Capacity - view.UsedCapacity
	return &view, nil
}

const findAvailableSlotsSQL = `
SELECT id, starts_at, ends_at, price, capacity - used_capacity AS remaining, status
FROM slots
WHERE price_list_id = $1
  AND starts_at >= $2 AND ends_at <= $3
  AND status IN ('available', 'reserved')
  AND used_capacity < capacity
ORDER BY starts_at
LIMIT $4`

func (r *SlotReadStore) FindAvailable(ctx context.Context, priceListID uuid.UUID, from, to time.Time, limit int32) ([]*queries.SlotListItem, error) {
	rows, err := r.db.Query(ctx, findAvailableSlotsSQL, priceListID, from, to, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list available slots", err)
	}
	defer rows.Close()

	var result []*queries.SlotListItem
	for rows.Next() {
		var (
			item  queries.SlotListItem
			price pgtype.Numeric
		)
		if err := rows.Scan(&item.ID, &item.StartsAt, &item.EndsAt, &price, &item.Remaining, &item.Status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot row", err)
		}
		priceDec, err := pgconv.DecimalFromNumeric(price)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid slot price", err)
		}
		item.Price = money.FromDecimal(priceDec)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slot rows", err)
	}
	return result, nil
}

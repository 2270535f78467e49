package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	domslot "slotbooker/internal/domain/slot"
	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/pkg/pgconv"
)

type SlotRepository struct{}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{}
}

const slotColumns = `id, platform_id, price_list_id, starts_at, ends_at, price, capacity, used_capacity, status, created_at, updated_at`

const findSlotByIDForUpdateSQL = `
SELECT ` + slotColumns + `
FROM slots
WHERE id = $1
FOR UPDATE`

// FindByIDForUpdate takes a row lock that serializes concurrent bookings
// against the same slot for the remainder of the transaction.
func (r *SlotRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*domslot.Slot, error) {
	return r.scanSlot(dbtx.QueryRow(ctx, findSlotByIDForUpdateSQL, id), "slot not found")
}

const findSlotByWindowSQL = `
SELECT ` + slotColumns + `
FROM slots
WHERE platform_id = $1 AND price_list_id = $2 AND starts_at = $3 AND ends_at = $4`

func (r *SlotRepository) FindByWindow(ctx context.Context, dbtx db.DBTX, platformID, priceListID uuid.UUID, startsAt, endsAt time.Time) (*domslot.Slot, error) {
	return r.scanSlot(dbtx.QueryRow(ctx, findSlotByWindowSQL, platformID, priceListID, startsAt, endsAt), "slot not found for window")
}

const createSlotSQL = `
INSERT INTO slots (id, platform_id, price_list_id, starts_at, ends_at, price, capacity, used_capacity, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id`

func (r *SlotRepository) Create(ctx context.Context, dbtx db.DBTX, s *domslot.Slot) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createSlotSQL,
		s.ID(),
		s.PlatformID(),
		s.PriceListID(),
		s.StartsAt(),
		s.EndsAt(),
		pgconv.NumericFromDecimal(s.Price().Decimal()),
		int32(s.Capacity()),
		int32(s.UsedCapacity()),
		string(s.Status()),
		s.CreatedAt(),
		s.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("slot window already exists", err, infra.KindDuplicateKey)
		}
		if isForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("slot references missing row", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create slot", err)
	}
	return id, nil
}

const updateSlotTermsSQL = `
UPDATE slots
SET price = $2, capacity = $3, status = $4, updated_at = $5
WHERE id = $1 AND used_capacity = 0`

// UpdateTerms rewrites price/capacity. The used_capacity guard backs up
// the domain check at the database level: regeneration must never change
// terms under live bookings.
func (r *SlotRepository) UpdateTerms(ctx context.Context, dbtx db.DBTX, s *domslot.Slot) error {
	tag, err := dbtx.Exec(ctx, updateSlotTermsSQL,
		s.ID(),
		pgconv.NumericFromDecimal(s.Price().Decimal()),
		int32(s.Capacity()),
		string(s.Status()),
		s.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update slot terms", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot terms changed concurrently", nil, infra.KindConflict)
	}
	return nil
}

const updateSlotUsageSQL = `
UPDATE slots
SET used_capacity = $2, status = $3, updated_at = $4
WHERE id = $1 AND used_capacity >= 0 AND $2 BETWEEN 0 AND capacity`

func (r *SlotRepository) UpdateUsage(ctx context.Context, dbtx db.DBTX, s *domslot.Slot) error {
	tag, err := dbtx.Exec(ctx, updateSlotUsageSQL,
		s.ID(),
		int32(s.UsedCapacity()),
		string(s.Status()),
		s.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update slot usage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot usage update rejected", nil, infra.KindConflict)
	}
	return nil
}

func (r *SlotRepository) scanSlot(row pgx.Row, notFoundMsg string) (*domslot.Slot, error) {
	var (
		id           uuid.UUID
		platformID   uuid.UUID
		priceListID  uuid.UUID
		startsAt     time.Time
		endsAt       time.Time
		price        pgtype.Numeric
		capacity     int32
		usedCapacity int32
		status       string
		createdAt    time.Time
		updatedAt    time.Time
	)
	err := row.Scan(&id, &platformID, &priceListID, &startsAt, &endsAt, &price, &capacity, &usedCapacity, &status, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(notFoundMsg, err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan slot", err)
	}

	priceDec, err := pgconv.DecimalFromNumeric(price)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid slot price", err)
	}

	return domslot.ReconstructSlot(
		id,
		platformID, priceListID,
		startsAt, endsAt,
		money.FromDecimal(priceDec),
		int(capacity), int(usedCapacity),
		domslot.Status(status),
		createdAt, updatedAt,
	), nil
}

package readstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/pkg/pgconv"
	"slotbooker/internal/usecase/queries"
)

type PlatformReadStore struct {
	db db.DBTX
}

func NewPlatformReadStore(dbtx db.DBTX) *PlatformReadStore {
	return &PlatformReadStore{db: dbtx}
}

const findActivePlatformsSQL = `
SELECT id, name, type, currency, timezone, is_active, created_at
FROM platforms
WHERE is_active = TRUE
ORDER BY name`

func (r *PlatformReadStore) FindAllActive(ctx context.Context) ([]*queries.PlatformView, error) {
	rows, err := r.db.Query(ctx, findActivePlatformsSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list platforms", err)
	}
	defer rows.Close()

	var result []*queries.PlatformView
	for rows.Next() {
		var view queries.PlatformView
		if err := rows.Scan(&view.ID, &view.Name, &view.Type, &view.Currency, &view.Timezone, &view.IsActive, &view.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan platform row", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate platform rows", err)
	}
	return result, nil
}

const findPlatformByIDSQL = `
SELECT id, name, type, currency, timezone, is_active, created_at
FROM platforms
WHERE id = $1`

func (r *PlatformReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PlatformView, error) {
	var view queries.PlatformView
	err := r.db.QueryRow(ctx, findPlatformByIDSQL, id).Scan(
		&view.ID, &view.Name, &view.Type, &view.Currency, &view.Timezone, &view.IsActive, &view.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("platform not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find platform by ID", err)
	}
	return &view, nil
}

const findPriceListsByPlatformSQL = `
SELECT id, platform_id, name, currency, timezone, valid_from, valid_to, default_slot_duration, is_active
FROM price_lists
WHERE platform_id = $1 AND is_active = TRUE
ORDER BY name`

func (r *PlatformReadStore) FindPriceLists(ctx context.Context, platformID uuid.UUID) ([]*queries.PriceListView, error) {
	rows, err := r.db.Query(ctx, findPriceListsByPlatformSQL, platformID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list price lists", err)
	}
	defer rows.Close()

	var result []*queries.PriceListView
	for rows.Next() {
		var (
			view      queries.PriceListView
			validFrom pgtype.Timestamptz
			validTo   pgtype.Timestamptz
		)
		if err := rows.Scan(&view.ID, &view.PlatformID, &view.Name, &view.Currency, &view.Timezone,
			&validFrom, &validTo, &view.DefaultSlotDuration, &view.IsActive); err != nil {
			return nil, infra.WrapRepoErr("failed to scan price list row", err)
		}
		view.ValidFrom = pgconv.TimePtrFromPgtype(validFrom)
		view.ValidTo = pgconv.TimePtrFromPgtype(validTo)
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate price list rows", err)
	}
	return result, nil
}

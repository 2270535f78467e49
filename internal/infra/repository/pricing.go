package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"slotbooker/internal/domain/pricing"
	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/pkg/pgconv"
)

type PriceListRepository struct{}

func NewPriceListRepository() *PriceListRepository {
	return &PriceListRepository{}
}

const findPriceListByIDSQL = `
SELECT id, platform_id, name, currency, timezone, valid_from, valid_to,
       default_slot_duration, is_active, created_at, updated_at
FROM price_lists
WHERE id = $1`

func (r *PriceListRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*pricing.PriceList, error) {
	row := dbtx.QueryRow(ctx, findPriceListByIDSQL, id)

	var (
		plID        uuid.UUID
		platformID  uuid.UUID
		name        string
		currency    string
		timezone    string
		validFrom   pgtype.Timestamptz
		validTo     pgtype.Timestamptz
		duration    int32
		isActive    bool
		createdAt   time.Time
		updatedAt   time.Time
	)
	err := row.Scan(&plID, &platformID, &name, &currency, &timezone, &validFrom, &validTo, &duration, &isActive, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("price list not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find price list", err)
	}

	return pricing.ReconstructPriceList(
		plID,
		platformID,
		name,
		currency,
		timezone,
		pgconv.TimePtrFromPgtype(validFrom),
		pgconv.TimePtrFromPgtype(validTo),
		int(duration),
		isActive,
		createdAt,
		updatedAt,
	), nil
}

const findActiveRulesSQL = `
SELECT id, price_list_id, weekday, starts_at_min, ends_at_min, slot_price, capacity, is_active, created_at
FROM price_list_rules
WHERE price_list_id = $1 AND is_active = TRUE
ORDER BY starts_at_min, id`

func (r *PriceListRepository) ActiveRules(ctx context.Context, dbtx db.DBTX, priceListID uuid.UUID) ([]*pricing.Rule, error) {
	rows, err := dbtx.Query(ctx, findActiveRulesSQL, priceListID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list price list rules", err)
	}
	defer rows.Close()

	var rules []*pricing.Rule
	for rows.Next() {
		var (
			id        uuid.UUID
			plID      uuid.UUID
			weekday   pgtype.Int4
			startsMin int32
			endsMin   int32
			slotPrice pgtype.Numeric
			capacity  int32
			isActive  bool
			createdAt time.Time
		)
		if err := rows.Scan(&id, &plID, &weekday, &startsMin, &endsMin, &slotPrice, &capacity, &isActive, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan price list rule", err)
		}

		window, err := pricing.NewTimeWindow(int(startsMin), int(endsMin))
		if err != nil {
			return nil, infra.WrapRepoErr("invalid rule time window", err)
		}
		price, err := pgconv.DecimalFromNumeric(slotPrice)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid rule price", err)
		}

		var weekdayPtr *int
		if wd := pgconv.Int32PtrFromPgtype(weekday); wd != nil {
			v := int(*wd)
			weekdayPtr = &v
		}

		rules = append(rules, pricing.ReconstructRule(
			id,
			plID,
			weekdayPtr,
			window,
			money.FromDecimal(price),
			int(capacity),
			isActive,
			createdAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate price list rules", err)
	}
	return rules, nil
}

const findActiveOverridesSQL = `
SELECT id, price_list_id, for_date, starts_at_min, ends_at_min, slot_price, capacity, is_active, created_at
FROM price_overrides
WHERE price_list_id = $1 AND is_active = TRUE AND for_date BETWEEN $2 AND $3
ORDER BY for_date, starts_at_min, id`

func (r *PriceListRepository) ActiveOverrides(ctx context.Context, dbtx db.DBTX, priceListID uuid.UUID, from, to time.Time) ([]*pricing.Override, error) {
	rows, err := dbtx.Query(ctx, findActiveOverridesSQL, priceListID, pgconv.DateToPgtype(from), pgconv.DateToPgtype(to))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list price overrides", err)
	}
	defer rows.Close()

	var overrides []*pricing.Override
	for rows.Next() {
		var (
			id        uuid.UUID
			plID      uuid.UUID
			forDate   pgtype.Date
			startsMin int32
			endsMin   int32
			slotPrice pgtype.Numeric
			capacity  pgtype.Int4
			isActive  bool
			createdAt time.Time
		)
		if err := rows.Scan(&id, &plID, &forDate, &startsMin, &endsMin, &slotPrice, &capacity, &isActive, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan price override", err)
		}

		window, err := pricing.NewTimeWindow(int(startsMin), int(endsMin))
		if err != nil {
			return nil, infra.WrapRepoErr("invalid override time window", err)
		}
		price, err := pgconv.DecimalFromNumeric(slotPrice)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid override price", err)
		}

		var capacityPtr *int
		if c := pgconv.Int32PtrFromPgtype(capacity); c != nil {
			v := int(*c)
			capacityPtr = &v
		}

		overrides = append(overrides, pricing.ReconstructOverride(
			id,
			plID,
			pgconv.DateFromPgtype(forDate),
			window,
			money.FromDecimal(price),
			capacityPtr,
			isActive,
			createdAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate price overrides", err)
	}
	return overrides, nil
}

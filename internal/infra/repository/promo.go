package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	dompromo "slotbooker/internal/domain/promo"
	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/pkg/pgconv"
)

type PromoRepository struct{}

func NewPromoRepository() *PromoRepository {
	return &PromoRepository{}
}

const promoColumns = `id, code, discount_type, discount_value, currency, min_order_amount,
       starts_at, ends_at, applies_to, platform_id, price_list_id,
       max_uses, max_uses_per_client, is_stackable, is_active, created_at, updated_at`

const findPromoByCodeForUpdateSQL = `
SELECT ` + promoColumns + `
FROM promo_codes
WHERE code = $1
FOR UPDATE`

// FindByCodeForUpdate locks the promo row so usage-cap counting and the
// redemption insert commit against the same state.
func (r *PromoRepository) FindByCodeForUpdate(ctx context.Context, dbtx db.DBTX, code string) (*dompromo.PromoCode, error) {
	return ScanPromoRow(dbtx.QueryRow(ctx, findPromoByCodeForUpdateSQL, code))
}

const findPromoByCodeSQL = `
SELECT ` + promoColumns + `
FROM promo_codes
WHERE code = $1`

func (r *PromoRepository) FindByCode(ctx context.Context, dbtx db.DBTX, code string) (*dompromo.PromoCode, error) {
	return ScanPromoRow(dbtx.QueryRow(ctx, findPromoByCodeSQL, code))
}

const countActiveRedemptionsSQL = `
SELECT COUNT(*)
FROM promo_redemptions
WHERE promo_code_id = $1 AND is_cancelled = FALSE`

func (r *PromoRepository) CountActiveRedemptions(ctx context.Context, dbtx db.DBTX, promoCodeID uuid.UUID) (int, error) {
	var count int64
	if err := dbtx.QueryRow(ctx, countActiveRedemptionsSQL, promoCodeID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count promo redemptions", err)
	}
	return int(count), nil
}

const countActiveRedemptionsByClientSQL = `
SELECT COUNT(*)
FROM promo_redemptions
WHERE promo_code_id = $1 AND client_id = $2 AND is_cancelled = FALSE`

func (r *PromoRepository) CountActiveRedemptionsByClient(ctx context.Context, dbtx db.DBTX, promoCodeID, clientID uuid.UUID) (int, error) {
	var count int64
	if err := dbtx.QueryRow(ctx, countActiveRedemptionsByClientSQL, promoCodeID, clientID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count client promo redemptions", err)
	}
	return int(count), nil
}

// ScanPromoRow is shared with the read store; both sides reconstruct the
// full domain entity because evaluation needs every field.
func ScanPromoRow(row interface{ Scan(dest ...any) error }) (*dompromo.PromoCode, error) {
	var (
		id               uuid.UUID
		code             string
		discountType     string
		discountValue    pgtype.Numeric
		currency         pgtype.Text
		minOrderAmount   pgtype.Numeric
		startsAt         pgtype.Timestamptz
		endsAt           pgtype.Timestamptz
		appliesTo        string
		platformID       pgtype.UUID
		priceListID      pgtype.UUID
		maxUses          pgtype.Int4
		maxUsesPerClient pgtype.Int4
		isStackable      bool
		isActive         bool
		createdAt        time.Time
		updatedAt        time.Time
	)
	err := row.Scan(&id, &code, &discountType, &discountValue, &currency, &minOrderAmount,
		&startsAt, &endsAt, &appliesTo, &platformID, &priceListID,
		&maxUses, &maxUsesPerClient, &isStackable, &isActive, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("promo code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan promo code", err)
	}

	kind, err := dompromo.ValidateDiscountType(discountType)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid promo discount type", err)
	}
	value, err := pgconv.DecimalFromNumeric(discountValue)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid promo discount value", err)
	}
	discount, err := dompromo.NewDiscount(kind, value)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid promo discount", err)
	}
	scope, err := dompromo.ValidateScope(appliesTo)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid promo scope", err)
	}
	promoCode, err := dompromo.NewCode(code)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid promo code value", err)
	}

	var minAmount *money.Money
	minDec, err := pgconv.DecimalPtrFromNumeric(minOrderAmount)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid promo minimum amount", err)
	}
	if minDec != nil {
		m := money.FromDecimal(*minDec)
		minAmount = &m
	}

	return dompromo.ReconstructPromoCode(dompromo.ReconstructPromoCodeParams{
		ID:               id,
		Code:             promoCode,
		Discount:         discount,
		Currency:         pgconv.StringPtrFromPgtype(currency),
		MinOrderAmount:   minAmount,
		StartsAt:         pgconv.TimePtrFromPgtype(startsAt),
		EndsAt:           pgconv.TimePtrFromPgtype(endsAt),
		AppliesTo:        scope,
		PlatformID:       pgconv.UUIDPtrFromPgtype(platformID),
		PriceListID:      pgconv.UUIDPtrFromPgtype(priceListID),
		MaxUses:          intPtrFromPgtype(maxUses),
		MaxUsesPerClient: intPtrFromPgtype(maxUsesPerClient),
		IsStackable:      isStackable,
		IsActive:         isActive,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}), nil
}

func intPtrFromPgtype(pi pgtype.Int4) *int {
	if v := pgconv.Int32PtrFromPgtype(pi); v != nil {
		i := int(*v)
		return &i
	}
	return nil
}

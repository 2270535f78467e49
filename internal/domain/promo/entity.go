package promo

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

type Scope string

const (
	ScopeGlobal    Scope = "global"
	ScopePlatform  Scope = "platform"
	ScopePriceList Scope = "price_list"
)

// Code is the case-sensitive promo identifier. Whitespace is the only
// normalization applied; "SUMMER" and "summer" are distinct codes.
type Code string

func NewCode(raw string) (Code, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errs.Mark(errs.New("promo code must not be empty"), errs.ErrDomainValidation)
	}
	if len(trimmed) > 64 {
		return "", errs.Mark(errs.New("promo code too long"), errs.ErrDomainValidation)
	}
	return Code(trimmed), nil
}

func (c Code) String() string { return string(c) }

// Discount pairs a type with its value: a percentage of the order amount
// or a fixed amount in the promo's currency.
type Discount struct {
	kind  DiscountType
	value decimal.Decimal
}

func NewDiscount(kind DiscountType, value decimal.Decimal) (Discount, error) {
	switch kind {
	case DiscountPercent:
		if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
			return Discount{}, errs.Mark(errs.New("percent discount must be within 0-100"), errs.ErrDomainValidation)
		}
	case DiscountFixed:
		if value.IsNegative() {
			return Discount{}, errs.Mark(errs.New("fixed discount must not be negative"), errs.ErrDomainValidation)
		}
	default:
		return Discount{}, errs.Mark(errs.New("unknown discount type: "+string(kind)), errs.ErrDomainValidation)
	}
	return Discount{kind: kind, value: value}, nil
}

func (d Discount) Kind() DiscountType     { return d.kind }
func (d Discount) Value() decimal.Decimal { return d.value }

// AmountFor computes the discount against an order amount, clamped so it
// never exceeds the amount itself.
func (d Discount) AmountFor(orderAmount money.Money) money.Money {
	switch d.kind {
	case DiscountPercent:
		return orderAmount.Percent(d.value).Min(orderAmount)
	case DiscountFixed:
		return money.FromDecimal(d.value).Min(orderAmount)
	default:
		return money.Zero()
	}
}

// PromoCode is a discount rule with scope, validity window, currency
// restriction, and usage caps. Cap counting lives in redemption storage;
// the entity only carries the limits.
type PromoCode struct {
	id                uuid.UUID
	code              Code
	discount          Discount
	currency          *string
	minOrderAmount    *money.Money
	startsAt          *time.Time
	endsAt            *time.Time
	appliesTo         Scope
	platformID        *uuid.UUID
	priceListID       *uuid.UUID
	maxUses           *int
	maxUsesPerClient  *int
	isStackable       bool
	isActive          bool
	createdAt         time.Time
	updatedAt         time.Time
}

type NewPromoCodeParams struct {
	Code             Code
	Discount         Discount
	Currency         *string
	MinOrderAmount   *money.Money
	StartsAt         *time.Time
	EndsAt           *time.Time
	AppliesTo        Scope
	PlatformID       *uuid.UUID
	PriceListID      *uuid.UUID
	MaxUses          *int
	MaxUsesPerClient *int
	IsStackable      bool
}

func NewPromoCode(params NewPromoCodeParams) (*PromoCode, error) {
	switch params.AppliesTo {
	case ScopeGlobal:
	case ScopePlatform:
		if params.PlatformID == nil {
			return nil, errs.Mark(errs.New("platform-scoped promo requires a platform"), errs.ErrDomainValidation)
		}
	case ScopePriceList:
		if params.PriceListID == nil {
			return nil, errs.Mark(errs.New("price-list-scoped promo requires a price list"), errs.ErrDomainValidation)
		}
	default:
		return nil, errs.Mark(errs.New("unknown promo scope: "+string(params.AppliesTo)), errs.ErrDomainValidation)
	}
	if params.StartsAt != nil && params.EndsAt != nil && !params.EndsAt.After(*params.StartsAt) {
		return nil, errs.Mark(errs.New("promo validity window must end after it starts"), errs.ErrDomainValidation)
	}
	if params.MaxUses != nil && *params.MaxUses < 1 {
		return nil, errs.Mark(errs.New("max uses must be positive"), errs.ErrDomainValidation)
	}
	if params.MaxUsesPerClient != nil && *params.MaxUsesPerClient < 1 {
		return nil, errs.Mark(errs.New("max uses per client must be positive"), errs.ErrDomainValidation)
	}
	now := time.Now()
	return &PromoCode{
		id:               uuid.New(),
		code:             params.Code,
		discount:         params.Discount,
		currency:         params.Currency,
		minOrderAmount:   params.MinOrderAmount,
		startsAt:         params.StartsAt,
		endsAt:           params.EndsAt,
		appliesTo:        params.AppliesTo,
		platformID:       params.PlatformID,
		priceListID:      params.PriceListID,
		maxUses:          params.MaxUses,
		maxUsesPerClient: params.MaxUsesPerClient,
		isStackable:      params.IsStackable,
		isActive:         true,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

type ReconstructPromoCodeParams struct {
	ID               uuid.UUID
	Code             Code
	Discount         Discount
	Currency         *string
	MinOrderAmount   *money.Money
	StartsAt         *time.Time
	EndsAt           *time.Time
	AppliesTo        Scope
	PlatformID       *uuid.UUID
	PriceListID      *uuid.UUID
	MaxUses          *int
	MaxUsesPerClient *int
	IsStackable      bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ReconstructPromoCode(params ReconstructPromoCodeParams) *PromoCode {
	return &PromoCode{
		id:               params.ID,
		code:             params.Code,
		discount:         params.Discount,
		currency:         params.Currency,
		minOrderAmount:   params.MinOrderAmount,
		startsAt:         params.StartsAt,
		endsAt:           params.EndsAt,
		appliesTo:        params.AppliesTo,
		platformID:       params.PlatformID,
		priceListID:      params.PriceListID,
		maxUses:          params.MaxUses,
		maxUsesPerClient: params.MaxUsesPerClient,
		isStackable:      params.IsStackable,
		isActive:         params.IsActive,
		createdAt:        params.CreatedAt,
		updatedAt:        params.UpdatedAt,
	}
}

func (p *PromoCode) ID() uuid.UUID               { return p.id }
func (p *PromoCode) Code() Code                  { return p.code }
func (p *PromoCode) Discount() Discount          { return p.discount }
func (p *PromoCode) Currency() *string           { return p.currency }
func (p *PromoCode) MinOrderAmount() *money.Money { return p.minOrderAmount }
func (p *PromoCode) StartsAt() *time.Time        { return p.startsAt }
func (p *PromoCode) EndsAt() *time.Time          { return p.endsAt }
func (p *PromoCode) AppliesTo() Scope            { return p.appliesTo }
func (p *PromoCode) PlatformID() *uuid.UUID      { return p.platformID }
func (p *PromoCode) PriceListID() *uuid.UUID     { return p.priceListID }
func (p *PromoCode) MaxUses() *int               { return p.maxUses }
func (p *PromoCode) MaxUsesPerClient() *int      { return p.maxUsesPerClient }
func (p *PromoCode) IsStackable() bool           { return p.isStackable }
func (p *PromoCode) IsActive() bool              { return p.isActive }
func (p *PromoCode) CreatedAt() time.Time        { return p.createdAt }
func (p *PromoCode) UpdatedAt() time.Time        { return p.updatedAt }

func (p *PromoCode) Deactivate() {
	p.isActive = false
	p.updatedAt = time.Now()
}

func ValidateDiscountType(s string) (DiscountType, error) {
	switch DiscountType(s) {
	case DiscountPercent, DiscountFixed:
		return DiscountType(s), nil
	default:
		return "", errs.Mark(errs.New("invalid discount type: "+s), errs.ErrDomainValidation)
	}
}

func ValidateScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeGlobal, ScopePlatform, ScopePriceList:
		return Scope(s), nil
	default:
		return "", errs.Mark(errs.New("invalid promo scope: "+s), errs.ErrDomainValidation)
	}
}

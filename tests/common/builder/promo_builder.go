//go:build unit || e2e

package builder

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"slotbooker/internal/domain/promo"
	"slotbooker/internal/pkg/money"
)

type PromoBuilder struct {
	Code             string
	DiscountType     promo.DiscountType
	DiscountValue    decimal.Decimal
	Currency         *string
	MinOrderAmount   *money.Money
	StartsAt         *time.Time
	EndsAt           *time.Time
	AppliesTo        promo.Scope
	PlatformID       *uuid.UUID
	PriceListID      *uuid.UUID
	MaxUses          *int
	MaxUsesPerClient *int
	IsStackable      bool
}

func NewPromoBuilder() *PromoBuilder {
	return &PromoBuilder{
		Code:          "WELCOME10",
		DiscountType:  promo.DiscountPercent,
		DiscountValue: decimal.NewFromInt(10),
		AppliesTo:     promo.ScopeGlobal,
	}
}

func (b *PromoBuilder) With(mutate func(*PromoBuilder)) *PromoBuilder {
	mutate(b)
	return b
}

func (b *PromoBuilder) Build() (*promo.PromoCode, error) {
	code, err := promo.NewCode(b.Code)
	if err != nil {
		return nil, err
	}
	discount, err := promo.NewDiscount(b.DiscountType, b.DiscountValue)
	if err != nil {
		return nil, err
	}
	return promo.NewPromoCode(promo.NewPromoCodeParams{
		Code:             code,
		Discount:         discount,
		Currency:         b.Currency,
		MinOrderAmount:   b.MinOrderAmount,
		StartsAt:         b.StartsAt,
		EndsAt:           b.EndsAt,
		AppliesTo:        b.AppliesTo,
		PlatformID:       b.PlatformID,
		PriceListID:      b.PriceListID,
		MaxUses:          b.MaxUses,
		MaxUsesPerClient: b.MaxUsesPerClient,
		IsStackable:      b.IsStackable,
	})
}

func (b *PromoBuilder) MustBuild() *promo.PromoCode {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

type PromoContextBuilder struct {
	Ctx promo.Context
}

func NewPromoContextBuilder() *PromoContextBuilder {
	return &PromoContextBuilder{
		Ctx: promo.Context{
			Now:         time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
			PlatformID:  uuid.New(),
			PriceListID: uuid.New(),
			ClientID:    uuid.New(),
			OrderAmount: money.MustFromString("100.00"),
			Currency:    "EUR",
		},
	}
}

func (b *PromoContextBuilder) With(mutate func(*promo.Context)) *PromoContextBuilder {
	mutate(&b.Ctx)
	return b
}

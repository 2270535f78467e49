//go:build unit

package promo_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbooker/internal/domain/promo"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
	"slotbooker/tests/common/builder"
)

func TestEvaluate_Discounts(t *testing.T) {
	engine := promo.NewEngine()
	ctx := builder.NewPromoContextBuilder().Ctx

	t.Run("percent of order amount", func(t *testing.T) {
		code := builder.NewPromoBuilder().MustBuild()

		discount, err := engine.Evaluate(code, ctx)
		require.NoError(t, err)
		assert.True(t, discount.Equal(money.MustFromString("10.00")), "got %s", discount)
	})

	t.Run("fixed amount", func(t *testing.T) {
		code := builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
			b.DiscountType = promo.DiscountFixed
			b.DiscountValue = decimal.RequireFromString("25.50")
		}).MustBuild()

		discount, err := engine.Evaluate(code, ctx)
		require.NoError(t, err)
		assert.True(t, discount.Equal(money.MustFromString("25.50")), "got %s", discount)
	})

	t.Run("fixed amount clamped to order total", func(t *testing.T) {
		code := builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
			b.DiscountType = promo.DiscountFixed
			b.DiscountValue = decimal.NewFromInt(500)
		}).MustBuild()

		discount, err := engine.Evaluate(code, ctx)
		require.NoError(t, err)
		assert.True(t, discount.Equal(ctx.OrderAmount), "got %s", discount)
	})
}

func TestEvaluate_Rejections(t *testing.T) {
	engine := promo.NewEngine()
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	usd := "USD"
	minOrder := money.MustFromString("200.00")
	one := 1

	tests := []struct {
		name    string
		code    *promo.PromoCode
		mutate  func(*promo.Context)
		wantErr error
	}{
		{
			name: "not yet active",
			code: builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
				b.StartsAt = &future
			}).MustBuild(),
			wantErr: errs.ErrPromoNotYetActive,
		},
		{
			name: "expired",
			code: builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
				b.StartsAt = &past
				endsAt := past.AddDate(0, 1, 0)
				b.EndsAt = &endsAt
			}).MustBuild(),
			wantErr: errs.ErrPromoExpired,
		},
		{
			name: "platform scope mismatch",
			code: builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
				b.AppliesTo = promo.ScopePlatform
				other := uuid.New()
				b.PlatformID = &other
			}).MustBuild(),
			wantErr: errs.ErrPromoOutOfScope,
		},
		{
			name: "price list scope mismatch",
			code: builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
				b.AppliesTo = promo.ScopePriceList
				other := uuid.New()
				b.PriceListID = &other
			}).MustBuild(),
			wantErr: errs.ErrPromoOutOfScope,
		},
		{
			name: "below minimum order",
			code: builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
				b.MinOrderAmount = &minOrder
			}).MustBuild(),
			wantErr: errs.ErrPromoBelowMinimum,
		},
		{
			name: "global cap reached",
			code: builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
				b.MaxUses = &one
			}).MustBuild(),
			mutate:  func(c *promo.Context) { c.GlobalUses = 1 },
			wantErr: errs.ErrPromoMaxUsesExceeded,
		},
		{
			name: "per-client cap reached",
			code: builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
				b.MaxUsesPerClient = &one
			}).MustBuild(),
			mutate:  func(c *promo.Context) { c.ClientUses = 1 },
			wantErr: errs.ErrPromoClientLimitExceeded,
		},
		{
			name: "currency mismatch",
			code: builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
				b.Currency = &usd
			}).MustBuild(),
			wantErr: errs.ErrPromoCurrencyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := builder.NewPromoContextBuilder().Ctx
			if tt.mutate != nil {
				tt.mutate(&ctx)
			}
			discount, err := engine.Evaluate(tt.code, ctx)
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, discount.Equal(money.Zero()))
		})
	}
}

func TestEvaluate_ScopeMatches(t *testing.T) {
	engine := promo.NewEngine()
	ctx := builder.NewPromoContextBuilder().Ctx

	t.Run("platform scope on its platform", func(t *testing.T) {
		platformID := ctx.PlatformID
		code := builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
			b.AppliesTo = promo.ScopePlatform
			b.PlatformID = &platformID
		}).MustBuild()

		_, err := engine.Evaluate(code, ctx)
		require.NoError(t, err)
	})

	t.Run("price list scope on its price list", func(t *testing.T) {
		priceListID := ctx.PriceListID
		code := builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
			b.AppliesTo = promo.ScopePriceList
			b.PriceListID = &priceListID
		}).MustBuild()

		_, err := engine.Evaluate(code, ctx)
		require.NoError(t, err)
	})
}

func TestEvaluate_Stacking(t *testing.T) {
	engine := promo.NewEngine()

	stackable := func() *promo.PromoCode {
		return builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
			b.IsStackable = true
		}).MustBuild()
	}
	exclusive := func() *promo.PromoCode {
		return builder.NewPromoBuilder().MustBuild()
	}

	t.Run("stackable promos combine", func(t *testing.T) {
		ctx := builder.NewPromoContextBuilder().With(func(c *promo.Context) {
			c.AppliedPromos = []*promo.PromoCode{stackable()}
		}).Ctx

		_, err := engine.Evaluate(stackable(), ctx)
		require.NoError(t, err)
	})

	t.Run("exclusive promo rejected on top of another", func(t *testing.T) {
		ctx := builder.NewPromoContextBuilder().With(func(c *promo.Context) {
			c.AppliedPromos = []*promo.PromoCode{stackable()}
		}).Ctx

		_, err := engine.Evaluate(exclusive(), ctx)
		require.ErrorIs(t, err, errs.ErrPromoNotStackable)
	})

	t.Run("stackable promo rejected on top of an exclusive one", func(t *testing.T) {
		ctx := builder.NewPromoContextBuilder().With(func(c *promo.Context) {
			c.AppliedPromos = []*promo.PromoCode{exclusive()}
		}).Ctx

		_, err := engine.Evaluate(stackable(), ctx)
		require.ErrorIs(t, err, errs.ErrPromoNotStackable)
	})
}

func TestEvaluate_InactiveCode(t *testing.T) {
	engine := promo.NewEngine()
	ctx := builder.NewPromoContextBuilder().Ctx

	code := builder.NewPromoBuilder().MustBuild()
	code.Deactivate()

	_, err := engine.Evaluate(code, ctx)
	require.ErrorIs(t, err, errs.ErrPromoNotFound)
}

func TestCombineDiscounts(t *testing.T) {
	order := money.MustFromString("100.00")

	total := promo.CombineDiscounts(order,
		money.MustFromString("30.00"),
		money.MustFromString("45.00"),
	)
	assert.True(t, total.Equal(money.MustFromString("75.00")))

	clamped := promo.CombineDiscounts(order,
		money.MustFromString("80.00"),
		money.MustFromString("40.00"),
	)
	assert.True(t, clamped.Equal(order))
}

package promo

import (
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
)

// Context carries everything a single evaluation needs, snapshotted by
// the caller inside its transaction. Usage counts must come from the same
// snapshot that the subsequent redemption insert commits against,
// otherwise two concurrent redemptions can slip past a cap together.
type Context struct {
	Now            time.Time
	PlatformID     uuid.UUID
	PriceListID    uuid.UUID
	ClientID       uuid.UUID
	OrderAmount    money.Money
	Currency       string
	GlobalUses     int
	ClientUses     int
	AppliedPromos  []*PromoCode
}

// Engine validates promo codes against a booking context and computes
// discounts. It performs no I/O and no writes.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs the validation chain in order, short-circuiting on the
// first failure: active lookup handled by the caller, then time window,
// scope, minimum order, global cap, per-client cap, currency, discount
// computation, stackability.
func (e *Engine) Evaluate(code *PromoCode, ctx Context) (money.Money, error) {
	if code == nil || !code.IsActive() {
		return money.Zero(), errs.Mark(errs.New("promo code unavailable"), errs.ErrPromoNotFound)
	}
	if code.StartsAt() != nil && ctx.Now.Before(*code.StartsAt()) {
		return money.Zero(), errs.Mark(errs.New("promo not active until "+code.StartsAt().Format(time.RFC3339)), errs.ErrPromoNotYetActive)
	}
	if code.EndsAt() != nil && ctx.Now.After(*code.EndsAt()) {
		return money.Zero(), errs.Mark(errs.New("promo expired at "+code.EndsAt().Format(time.RFC3339)), errs.ErrPromoExpired)
	}
	if err := checkScope(code, ctx); err != nil {
		return money.Zero(), err
	}
	if min := code.MinOrderAmount(); min != nil && ctx.OrderAmount.LessThan(*min) {
		return money.Zero(), errs.Mark(errs.New("order amount below promo minimum "+min.String()), errs.ErrPromoBelowMinimum)
	}
	if max := code.MaxUses(); max != nil && ctx.GlobalUses >= *max {
		return money.Zero(), errs.Mark(errs.New("promo global usage cap reached"), errs.ErrPromoMaxUsesExceeded)
	}
	if max := code.MaxUsesPerClient(); max != nil && ctx.ClientUses >= *max {
		return money.Zero(), errs.Mark(errs.New("promo per-client usage cap reached"), errs.ErrPromoClientLimitExceeded)
	}
	if cur := code.Currency(); cur != nil && *cur != ctx.Currency {
		return money.Zero(), errs.Mark(errs.New("promo requires currency "+*cur), errs.ErrPromoCurrencyMismatch)
	}

	discount := code.Discount().AmountFor(ctx.OrderAmount)

	if len(ctx.AppliedPromos) > 0 {
		if !code.IsStackable() {
			return money.Zero(), errs.Mark(errs.New("promo cannot be combined with other promos"), errs.ErrPromoNotStackable)
		}
		for _, applied := range ctx.AppliedPromos {
			if !applied.IsStackable() {
				return money.Zero(), errs.Mark(errs.New("an applied promo forbids stacking"), errs.ErrPromoNotStackable)
			}
		}
	}
	return discount, nil
}

func checkScope(code *PromoCode, ctx Context) error {
	switch code.AppliesTo() {
	case ScopeGlobal:
		return nil
	case ScopePlatform:
		if code.PlatformID() != nil && *code.PlatformID() == ctx.PlatformID {
			return nil
		}
	case ScopePriceList:
		if code.PriceListID() != nil && *code.PriceListID() == ctx.PriceListID {
			return nil
		}
	}
	return errs.Mark(errs.New("promo does not apply to this booking"), errs.ErrPromoOutOfScope)
}

// CombineDiscounts sums stackable discounts clamped to the order amount.
func CombineDiscounts(orderAmount money.Money, discounts ...money.Money) money.Money {
	total := money.Zero()
	for _, d := range discounts {
		total = total.Add(d)
	}
	return total.Min(orderAmount)
}

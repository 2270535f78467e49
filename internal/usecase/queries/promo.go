package queries

import (
	"context"

	"github.com/google/uuid"

	"slotbooker/internal/domain/promo"
	"slotbooker/internal/infra"
	"slotbooker/internal/pkg/clock"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
)

// PromoReadStore loads promos for preview without locking; the
// authoritative check re-runs inside the booking transaction.
type PromoReadStore interface {
	FindByCode(ctx context.Context, code string) (*promo.PromoCode, error)
	CountActiveRedemptions(ctx context.Context, promoCodeID uuid.UUID) (int, error)
	CountActiveRedemptionsByClient(ctx context.Context, promoCodeID, clientID uuid.UUID) (int, error)
}

type PromoPreviewRequest struct {
	Code        string
	PlatformID  uuid.UUID
	PriceListID uuid.UUID
	ClientID    uuid.UUID
	OrderAmount money.Money
	Currency    string
}

type PromoQueries interface {
	Preview(ctx context.Context, req PromoPreviewRequest) (*PromoPreviewView, error)
}

type promoQueriesImpl struct {
	readStore PromoReadStore
	engine    *promo.Engine
	clock     clock.Clock
}

func NewPromoQueries(readStore PromoReadStore, clk clock.Clock) PromoQueries {
	return &promoQueriesImpl{
		readStore: readStore,
		engine:    promo.NewEngine(),
		clock:     clk,
	}
}

func (q *promoQueriesImpl) Preview(ctx context.Context, req PromoPreviewRequest) (*PromoPreviewView, error) {
	code, err := q.readStore.FindByCode(ctx, req.Code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrPromoNotFound)
		}
		return nil, err
	}

	globalUses, err := q.readStore.CountActiveRedemptions(ctx, code.ID())
	if err != nil {
		return nil, err
	}
	clientUses, err := q.readStore.CountActiveRedemptionsByClient(ctx, code.ID(), req.ClientID)
	if err != nil {
		return nil, err
	}

	discount, err := q.engine.Evaluate(code, promo.Context{
		Now:         q.clock.Now(),
		PlatformID:  req.PlatformID,
		PriceListID: req.PriceListID,
		ClientID:    req.ClientID,
		OrderAmount: req.OrderAmount,
		Currency:    req.Currency,
		GlobalUses:  globalUses,
		ClientUses:  clientUses,
	})
	if err != nil {
		return nil, err
	}

	return &PromoPreviewView{
		Code:        code.Code().String(),
		OrderAmount: req.OrderAmount,
		Discount:    discount,
		TotalAmount: req.OrderAmount.SubClamped(discount),
	}, nil
}

package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/infra"
	"slotbooker/internal/pkg/errs"
)

var ErrSlotViewNotFound = errs.New("slot not found")

type SlotQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	ListAvailable(ctx context.Context, priceListID uuid.UUID, from, to time.Time, limit int) ([]*SlotListItem, error)
}

type SlotViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	FindAvailable(ctx context.Context, priceListID uuid.UUID, from, to time.Time, limit int32) ([]*SlotListItem, error)
}

type slotQueriesImpl struct {
	repo SlotViewRepo
}

func NewSlotQueries(repo SlotViewRepo) SlotQueries {
	return &slotQueriesImpl{repo: repo}
}

func (q *slotQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSlotViewNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *slotQueriesImpl) ListAvailable(ctx context.Context, priceListID uuid.UUID, from, to time.Time, limit int) ([]*SlotListItem, error) {
	return q.repo.FindAvailable(ctx, priceListID, from, to, int32(ValidateLimit(limit)))
}

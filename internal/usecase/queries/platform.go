package queries

import (
	"context"

	"github.com/google/uuid"

	"slotbooker/internal/infra"
	"slotbooker/internal/pkg/errs"
)

var ErrPlatformNotFound = errs.New("platform not found")

type PlatformQueries interface {
	List(ctx context.Context) ([]*PlatformView, error)
	ListPriceLists(ctx context.Context, platformID uuid.UUID) ([]*PriceListView, error)
}

type PlatformViewRepo interface {
	FindAllActive(ctx context.Context) ([]*PlatformView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*PlatformView, error)
	FindPriceLists(ctx context.Context, platformID uuid.UUID) ([]*PriceListView, error)
}

type platformQueriesImpl struct {
	repo PlatformViewRepo
}

func NewPlatformQueries(repo PlatformViewRepo) PlatformQueries {
	return &platformQueriesImpl{repo: repo}
}

func (q *platformQueriesImpl) List(ctx context.Context) ([]*PlatformView, error) {
	return q.repo.FindAllActive(ctx)
}

func (q *platformQueriesImpl) ListPriceLists(ctx context.Context, platformID uuid.UUID) ([]*PriceListView, error) {
	if _, err := q.repo.FindByID(ctx, platformID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPlatformNotFound
		}
		return nil, err
	}
	return q.repo.FindPriceLists(ctx, platformID)
}

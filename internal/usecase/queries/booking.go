package queries

import (
	"context"

	"github.com/google/uuid"

	"slotbooker/internal/infra"
	"slotbooker/internal/pkg/errs"
)

var (
	ErrBookingViewNotFound = errs.New("booking not found")
	ErrBookingViewAccess   = errs.New("booking belongs to another client")
)

type BookingQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorIsStaff bool, id uuid.UUID) (*BookingView, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByClientIDPaginated(ctx context.Context, clientID uuid.UUID, limit, offset int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorIsStaff bool, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingViewNotFound
		}
		return nil, err
	}
	if !actorIsStaff && view.ClientID != actorID {
		return nil, ErrBookingViewAccess
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByClient(ctx context.Context, clientID uuid.UUID, _ *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	rows, err := q.repo.FindByClientIDPaginated(ctx, clientID, int32(ValidateLimit(limit)), 0)
	if err != nil {
		return nil, nil, err
	}
	return rows, nil, nil
}

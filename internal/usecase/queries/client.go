package queries

import (
	"context"

	"github.com/google/uuid"

	"slotbooker/internal/infra"
	"slotbooker/internal/pkg/errs"
)

var (
	ErrClientNotFound = errs.New("client not found")
	ErrClientInactive = errs.New("client inactive")
)

type ClientQueries interface {
	GetCurrentClient(ctx context.Context, clientID uuid.UUID) (*AuthorizedClientView, error)
}

type ClientReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedClientView, error)
	// FindByEmail also returns the password hash for credential checks.
	FindByEmail(ctx context.Context, email string) (*AuthorizedClientView, string, error)
}

type clientQueriesImpl struct {
	readStore ClientReadStore
}

func NewClientQueries(readStore ClientReadStore) ClientQueries {
	return &clientQueriesImpl{
		readStore: readStore,
	}
}

func (q *clientQueriesImpl) GetCurrentClient(ctx context.Context, clientID uuid.UUID) (*AuthorizedClientView, error) {
	view, err := q.readStore.FindByID(ctx, clientID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if !view.IsActive {
		return nil, ErrClientInactive
	}

	return view, nil
}

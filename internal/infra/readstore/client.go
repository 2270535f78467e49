package readstore

import (
	"context"

	"github.com/google/uuid"

	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/pkg/pgconv"
	"slotbooker/internal/usecase/queries"
)

type ClientReadStore struct {
	db db.DBTX
}

func NewClientReadStore(dbtx db.DBTX) *ClientReadStore {
	return &ClientReadStore{db: dbtx}
}

const findClientByIDSQL = `
SELECT id, name, email, role, is_active
FROM clients
WHERE id = $1`

func (r *ClientReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedClientView, error) {
	var view queries.AuthorizedClientView
	err := r.db.QueryRow(ctx, findClientByIDSQL, id).Scan(&view.ID, &view.Name, &view.Email, &view.Role, &view.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("client not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find client by ID", err)
	}
	return &view, nil
}

const findClientByEmailSQL = `
SELECT id, name, email, role, is_active, password_hash
FROM clients
WHERE email = $1`

func (r *ClientReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedClientView, string, error) {
	var (
		view         queries.AuthorizedClientView
		passwordHash string
	)
	err := r.db.QueryRow(ctx, findClientByEmailSQL, email).Scan(&view.ID, &view.Name, &view.Email, &view.Role, &view.IsActive, &passwordHash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("client not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find client by email", err)
	}
	return &view, passwordHash, nil
}

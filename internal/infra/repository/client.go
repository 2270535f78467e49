package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
)

type ClientRepository struct{}

func NewClientRepository() *ClientRepository {
	return &ClientRepository{}
}

const updateLastLoginSQL = `
UPDATE clients
SET last_login_at = $2, updated_at = $2
WHERE id = $1`

func (r *ClientRepository) UpdateLastLogin(ctx context.Context, dbtx db.DBTX, clientID uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, updateLastLoginSQL, clientID, time.Now())
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("client not found", nil, infra.KindNotFound)
	}
	return nil
}

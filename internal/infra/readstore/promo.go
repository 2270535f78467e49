package readstore

import (
	"context"

	"github.com/google/uuid"

	dompromo "slotbooker/internal/domain/promo"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/infra/repository"
)

// PromoReadStore serves unlocked promo lookups for previews. It reuses
// the write-side row mapping and count queries; only the locking differs.
type PromoReadStore struct {
	db   db.DBTX
	repo *repository.PromoRepository
}

func NewPromoReadStore(dbtx db.DBTX) *PromoReadStore {
	return &PromoReadStore{
		db:   dbtx,
		repo: repository.NewPromoRepository(),
	}
}

func (r *PromoReadStore) FindByCode(ctx context.Context, code string) (*dompromo.PromoCode, error) {
	return r.repo.FindByCode(ctx, r.db, code)
}

func (r *PromoReadStore) CountActiveRedemptions(ctx context.Context, promoCodeID uuid.UUID) (int, error) {
	return r.repo.CountActiveRedemptions(ctx, r.db, promoCodeID)
}

func (r *PromoReadStore) CountActiveRedemptionsByClient(ctx context.Context, promoCodeID, clientID uuid.UUID) (int, error) {
	return r.repo.CountActiveRedemptionsByClient(ctx, r.db, promoCodeID, clientID)
}

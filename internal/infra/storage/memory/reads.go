package memory

import (
	"context"

	"github.com/google/uuid"

	"slotbooker/internal/infra"
	"slotbooker/internal/usecase/shared"
)

// stateReads implements command reads against a single state. Inside a
// transaction it reads the working clone; no locking is needed there.
type stateReads struct {
	state *state
}

func (r *stateReads) PriceListByID(_ context.Context, id uuid.UUID) (*shared.PriceListSnapshot, error) {
	pl, ok := r.state.priceLists[id]
	if !ok {
		return nil, infra.WrapRepoErr("price list not found", nil, infra.KindNotFound)
	}
	return &shared.PriceListSnapshot{
		ID:                  pl.ID(),
		PlatformID:          pl.PlatformID(),
		Name:                pl.Name(),
		Currency:            pl.Currency(),
		Timezone:            pl.Timezone(),
		ValidFrom:           pl.ValidFrom(),
		ValidTo:             pl.ValidTo(),
		DefaultSlotDuration: pl.DefaultSlotDuration(),
		IsActive:            pl.IsActive(),
	}, nil
}

func (r *stateReads) SlotByID(_ context.Context, id uuid.UUID) (*shared.SlotSnapshot, error) {
	s, ok := r.state.slots[id]
	if !ok {
		return nil, infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return &shared.SlotSnapshot{
		ID:           s.ID(),
		PlatformID:   s.PlatformID(),
		PriceListID:  s.PriceListID(),
		StartsAt:     s.StartsAt(),
		EndsAt:       s.EndsAt(),
		Price:        s.Price(),
		Capacity:     s.Capacity(),
		UsedCapacity: s.UsedCapacity(),
		Status:       string(s.Status()),
	}, nil
}

func (r *stateReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	b, ok := r.state.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	var slotID *uuid.UUID
	if sid := b.SlotID(); sid != nil {
		v := *sid
		slotID = &v
	}
	return &shared.BookingSnapshot{
		ID:         b.ID(),
		PlatformID: b.PlatformID(),
		ClientID:   b.ClientID(),
		SlotID:     slotID,
		StartsAt:   b.StartsAt(),
		EndsAt:     b.EndsAt(),
		Status:     string(b.Status()),
	}, nil
}

func (r *stateReads) PromoByCode(_ context.Context, code string) (*shared.PromoSnapshot, error) {
	for _, p := range r.state.promos {
		if p.Code().String() != code {
			continue
		}
		return &shared.PromoSnapshot{
			ID:          p.ID(),
			Code:        p.Code().String(),
			IsActive:    p.IsActive(),
			AppliesTo:   string(p.AppliesTo()),
			PlatformID:  p.PlatformID(),
			PriceListID: p.PriceListID(),
		}, nil
	}
	return nil, infra.WrapRepoErr("promo code not found", nil, infra.KindNotFound)
}

func (r *stateReads) ClientByEmail(_ context.Context, email string) (*shared.ClientSnapshot, error) {
	for _, c := range r.state.clients {
		if c.Email().String() != email {
			continue
		}
		return &shared.ClientSnapshot{
			ID:           c.ID(),
			Email:        c.Email().String(),
			PasswordHash: c.PasswordHash(),
			Role:         string(c.Role()),
			IsActive:     c.IsActive(),
		}, nil
	}
	return nil, infra.WrapRepoErr("client not found", nil, infra.KindNotFound)
}

// memReads serves reads outside any transaction and takes the store lock
// per call.
type memReads struct {
	uow *UoW
}

func (r *memReads) snapshot() *stateReads {
	return &stateReads{state: r.uow.state}
}

func (r *memReads) PriceListByID(ctx context.Context, id uuid.UUID) (*shared.PriceListSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	return r.snapshot().PriceListByID(ctx, id)
}

func (r *memReads) SlotByID(ctx context.Context, id uuid.UUID) (*shared.SlotSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	return r.snapshot().SlotByID(ctx, id)
}

func (r *memReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	return r.snapshot().BookingByID(ctx, id)
}

func (r *memReads) PromoByCode(ctx context.Context, code string) (*shared.PromoSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	return r.snapshot().PromoByCode(ctx, code)
}

func (r *memReads) ClientByEmail(ctx context.Context, email string) (*shared.ClientSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	return r.snapshot().ClientByEmail(ctx, email)
}

var (
	_ shared.Tx           = (*memTx)(nil)
	_ shared.CommandReads = (*stateReads)(nil)
	_ shared.CommandReads = (*memReads)(nil)
)

package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	dombooking "slotbooker/internal/domain/booking"
	"slotbooker/internal/domain/pricing"
	dompromo "slotbooker/internal/domain/promo"
	domslot "slotbooker/internal/domain/slot"
	"slotbooker/internal/infra"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/usecase/shared"
)

type memTx struct {
	state *state
}

func (t *memTx) DB() db.DBTX                             { return nil }
func (t *memTx) PriceLists() shared.PriceListRepository  { return &memPriceLists{t.state} }
func (t *memTx) Slots() shared.SlotRepository            { return &memSlots{t.state} }
func (t *memTx) Bookings() shared.BookingRepository      { return &memBookings{t.state} }
func (t *memTx) Promos() shared.PromoRepository          { return &memPromos{t.state} }
func (t *memTx) Redemptions() shared.RedemptionRepository { return &memRedemptions{t.state} }
func (t *memTx) Clients() shared.ClientRepository        { return &memClients{t.state} }
func (t *memTx) Reads() shared.CommandReads              { return &stateReads{t.state} }

type memPriceLists struct{ state *state }

func (r *memPriceLists) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*pricing.PriceList, error) {
	pl, ok := r.state.priceLists[id]
	if !ok {
		return nil, infra.WrapRepoErr("price list not found", nil, infra.KindNotFound)
	}
	return pl, nil
}

func (r *memPriceLists) ActiveRules(_ context.Context, _ db.DBTX, priceListID uuid.UUID) ([]*pricing.Rule, error) {
	var active []*pricing.Rule
	for _, rule := range r.state.rules[priceListID] {
		if rule.IsActive() {
			active = append(active, rule)
		}
	}
	return active, nil
}

func (r *memPriceLists) ActiveOverrides(_ context.Context, _ db.DBTX, priceListID uuid.UUID, from, to time.Time) ([]*pricing.Override, error) {
	fromDate := pricing.DateOnly(from)
	toDate := pricing.DateOnly(to)
	var active []*pricing.Override
	for _, ov := range r.state.overrides[priceListID] {
		if !ov.IsActive() {
			continue
		}
		if ov.ForDate().Before(fromDate) || ov.ForDate().After(toDate) {
			continue
		}
		active = append(active, ov)
	}
	return active, nil
}

type memSlots struct{ state *state }

func (r *memSlots) FindByIDForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*domslot.Slot, error) {
	s, ok := r.state.slots[id]
	if !ok {
		return nil, infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return copySlot(s), nil
}

func (r *memSlots) FindByWindow(_ context.Context, _ db.DBTX, platformID, priceListID uuid.UUID, startsAt, endsAt time.Time) (*domslot.Slot, error) {
	for _, s := range r.state.slots {
		if s.PlatformID() == platformID && s.PriceListID() == priceListID &&
			s.StartsAt().Equal(startsAt) && s.EndsAt().Equal(endsAt) {
			return copySlot(s), nil
		}
	}
	return nil, infra.WrapRepoErr("slot not found for window", nil, infra.KindNotFound)
}

func (r *memSlots) Create(_ context.Context, _ db.DBTX, s *domslot.Slot) (uuid.UUID, error) {
	for _, existing := range r.state.slots {
		if existing.PlatformID() == s.PlatformID() && existing.PriceListID() == s.PriceListID() &&
			existing.StartsAt().Equal(s.StartsAt()) && existing.EndsAt().Equal(s.EndsAt()) {
			return uuid.Nil, infra.WrapRepoErr("slot window already exists", nil, infra.KindDuplicateKey)
		}
	}
	r.state.slots[s.ID()] = copySlot(s)
	return s.ID(), nil
}

func (r *memSlots) UpdateTerms(_ context.Context, _ db.DBTX, s *domslot.Slot) error {
	current, ok := r.state.slots[s.ID()]
	if !ok {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	if current.UsedCapacity() != 0 {
		return infra.WrapRepoErr("slot terms changed concurrently", nil, infra.KindConflict)
	}
	r.state.slots[s.ID()] = copySlot(s)
	return nil
}

func (r *memSlots) UpdateUsage(_ context.Context, _ db.DBTX, s *domslot.Slot) error {
	if _, ok := r.state.slots[s.ID()]; !ok {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	if s.UsedCapacity() < 0 || s.UsedCapacity() > s.Capacity() {
		return infra.WrapRepoErr("slot usage update rejected", nil, infra.KindConflict)
	}
	r.state.slots[s.ID()] = copySlot(s)
	return nil
}

type memBookings struct{ state *state }

func (r *memBookings) FindByIDForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*dombooking.Booking, error) {
	b, ok := r.state.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return copyBooking(b), nil
}

func (r *memBookings) Create(_ context.Context, _ db.DBTX, b *dombooking.Booking) (uuid.UUID, error) {
	r.state.bookings[b.ID()] = copyBooking(b)
	return b.ID(), nil
}

func (r *memBookings) UpdateStatus(_ context.Context, _ db.DBTX, b *dombooking.Booking) error {
	if _, ok := r.state.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	r.state.bookings[b.ID()] = copyBooking(b)
	return nil
}

type memPromos struct{ state *state }

func (r *memPromos) FindByCodeForUpdate(_ context.Context, _ db.DBTX, code string) (*dompromo.PromoCode, error) {
	for _, p := range r.state.promos {
		if p.Code().String() == code {
			return p, nil
		}
	}
	return nil, infra.WrapRepoErr("promo code not found", nil, infra.KindNotFound)
}

func (r *memPromos) CountActiveRedemptions(_ context.Context, _ db.DBTX, promoCodeID uuid.UUID) (int, error) {
	count := 0
	for _, red := range r.state.redemptions {
		if red.PromoCodeID() == promoCodeID && !red.IsCancelled() {
			count++
		}
	}
	return count, nil
}

func (r *memPromos) CountActiveRedemptionsByClient(_ context.Context, _ db.DBTX, promoCodeID, clientID uuid.UUID) (int, error) {
	count := 0
	for _, red := range r.state.redemptions {
		if red.PromoCodeID() == promoCodeID && red.ClientID() == clientID && !red.IsCancelled() {
			count++
		}
	}
	return count, nil
}

type memRedemptions struct{ state *state }

func (r *memRedemptions) Create(_ context.Context, _ db.DBTX, red *dompromo.Redemption) (uuid.UUID, error) {
	r.state.redemptions[red.ID()] = copyRedemption(red)
	return red.ID(), nil
}

func (r *memRedemptions) CancelByBookingID(_ context.Context, _ db.DBTX, bookingID uuid.UUID) error {
	for id, red := range r.state.redemptions {
		if bid := red.BookingID(); bid != nil && *bid == bookingID && !red.IsCancelled() {
			updated := copyRedemption(red)
			updated.MarkCancelled()
			r.state.redemptions[id] = updated
		}
	}
	return nil
}

type memClients struct{ state *state }

func (r *memClients) UpdateLastLogin(_ context.Context, _ db.DBTX, clientID uuid.UUID) error {
	if _, ok := r.state.clients[clientID]; !ok {
		return infra.WrapRepoErr("client not found", nil, infra.KindNotFound)
	}
	return nil
}

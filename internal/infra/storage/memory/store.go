// Package memory is a mutex-guarded storage backend implementing the same
// unit-of-work contract as the postgres implementation. It backs unit and
// concurrency tests; transactions clone the state and swap it in on
// commit, so a failed transaction leaves nothing behind.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"slotbooker/internal/domain/booking"
	"slotbooker/internal/domain/client"
	"slotbooker/internal/domain/pricing"
	"slotbooker/internal/domain/promo"
	"slotbooker/internal/domain/slot"
	"slotbooker/internal/infra/db"
	"slotbooker/internal/usecase/shared"
)

type state struct {
	priceLists  map[uuid.UUID]*pricing.PriceList
	rules       map[uuid.UUID][]*pricing.Rule
	overrides   map[uuid.UUID][]*pricing.Override
	slots       map[uuid.UUID]*slot.Slot
	bookings    map[uuid.UUID]*booking.Booking
	promos      map[uuid.UUID]*promo.PromoCode
	redemptions map[uuid.UUID]*promo.Redemption
	clients     map[uuid.UUID]*client.Client
}

func newState() *state {
	return &state{
		priceLists:  make(map[uuid.UUID]*pricing.PriceList),
		rules:       make(map[uuid.UUID][]*pricing.Rule),
		overrides:   make(map[uuid.UUID][]*pricing.Override),
		slots:       make(map[uuid.UUID]*slot.Slot),
		bookings:    make(map[uuid.UUID]*booking.Booking),
		promos:      make(map[uuid.UUID]*promo.PromoCode),
		redemptions: make(map[uuid.UUID]*promo.Redemption),
		clients:     make(map[uuid.UUID]*client.Client),
	}
}

// clone copies the maps only; entries are replaced, never mutated in
// place, so a shallow copy isolates the transaction.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.priceLists {
		c.priceLists[k] = v
	}
	for k, v := range s.rules {
		c.rules[k] = append([]*pricing.Rule(nil), v...)
	}
	for k, v := range s.overrides {
		c.overrides[k] = append([]*pricing.Override(nil), v...)
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.promos {
		c.promos[k] = v
	}
	for k, v := range s.redemptions {
		c.redemptions[k] = v
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	return c
}

type UoW struct {
	mu    sync.Mutex
	state *state
}

func NewUoW() *UoW {
	return &UoW{state: newState()}
}

// Within serializes all transactions behind one mutex; inside it, fn sees
// a private clone that becomes visible only on success.
func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	working := u.state.clone()
	tx := &memTx{state: working}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	u.state = working
	return nil
}

func (u *UoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(ctx, nil)
}

func (u *UoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *UoW) CommandReads() shared.CommandReads {
	return &memReads{uow: u}
}

// Seed helpers load fixtures outside any transaction.

func (u *UoW) SeedPriceList(pl *pricing.PriceList, rules []*pricing.Rule, overrides []*pricing.Override) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.priceLists[pl.ID()] = pl
	u.state.rules[pl.ID()] = rules
	u.state.overrides[pl.ID()] = overrides
}

func (u *UoW) SeedSlot(s *slot.Slot) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.slots[s.ID()] = copySlot(s)
}

func (u *UoW) SeedPromo(p *promo.PromoCode) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.promos[p.ID()] = p
}

func (u *UoW) SeedClient(c *client.Client) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.clients[c.ID()] = c
}

// Inspection helpers for test assertions.

func (u *UoW) SlotByID(id uuid.UUID) *slot.Slot {
	u.mu.Lock()
	defer u.mu.Unlock()
	if s, ok := u.state.slots[id]; ok {
		return copySlot(s)
	}
	return nil
}

func (u *UoW) BookingByID(id uuid.UUID) *booking.Booking {
	u.mu.Lock()
	defer u.mu.Unlock()
	if b, ok := u.state.bookings[id]; ok {
		return copyBooking(b)
	}
	return nil
}

func (u *UoW) Bookings() []*booking.Booking {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*booking.Booking, 0, len(u.state.bookings))
	for _, b := range u.state.bookings {
		out = append(out, copyBooking(b))
	}
	return out
}

func (u *UoW) Slots() []*slot.Slot {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*slot.Slot, 0, len(u.state.slots))
	for _, s := range u.state.slots {
		out = append(out, copySlot(s))
	}
	return out
}

func (u *UoW) Redemptions() []*promo.Redemption {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*promo.Redemption, 0, len(u.state.redemptions))
	for _, r := range u.state.redemptions {
		out = append(out, copyRedemption(r))
	}
	return out
}

func copySlot(s *slot.Slot) *slot.Slot {
	return slot.ReconstructSlot(
		s.ID(),
		s.PlatformID(), s.PriceListID(),
		s.StartsAt(), s.EndsAt(),
		s.Price(),
		s.Capacity(), s.UsedCapacity(),
		s.Status(),
		s.CreatedAt(), s.UpdatedAt(),
	)
}

func copyBooking(b *booking.Booking) *booking.Booking {
	var slotID *uuid.UUID
	if sid := b.SlotID(); sid != nil {
		v := *sid
		slotID = &v
	}
	return booking.ReconstructBooking(
		b.ID(),
		b.PlatformID(), b.ClientID(),
		slotID,
		b.StartsAt(), b.EndsAt(),
		b.BaseAmount(), b.Discount(), b.TotalAmount(),
		b.PromoCode(),
		b.Status(),
		b.CreatedAt(), b.UpdatedAt(),
	)
}

func copyRedemption(r *promo.Redemption) *promo.Redemption {
	var bookingID *uuid.UUID
	if bid := r.BookingID(); bid != nil {
		v := *bid
		bookingID = &v
	}
	return promo.ReconstructRedemption(
		r.ID(),
		r.PromoCodeID(), r.ClientID(),
		bookingID,
		r.DiscountAmount(),
		r.IsCancelled(),
		r.UsedAt(),
	)
}

var _ shared.UnitOfWork = (*UoW)(nil)

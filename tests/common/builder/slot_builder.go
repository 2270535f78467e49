//go:build unit || e2e

package builder

import (
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/domain/slot"
	"slotbooker/internal/pkg/money"
)

type SlotBuilder struct {
	ID           uuid.UUID
	PlatformID   uuid.UUID
	PriceListID  uuid.UUID
	StartsAt     time.Time
	EndsAt       time.Time
	Price        money.Money
	Capacity     int
	UsedCapacity int
	Status       slot.Status
}

func NewSlotBuilder() *SlotBuilder {
	starts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &SlotBuilder{
		ID:          uuid.New(),
		PlatformID:  uuid.New(),
		PriceListID: uuid.New(),
		StartsAt:    starts,
		EndsAt:      starts.Add(time.Hour),
		Price:       money.MustFromString("50.00"),
		Capacity:    4,
		Status:      slot.StatusAvailable,
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) Build() *slot.Slot {
	now := time.Now().UTC()
	return slot.ReconstructSlot(
		b.ID,
		b.PlatformID, b.PriceListID,
		b.StartsAt, b.EndsAt,
		b.Price,
		b.Capacity, b.UsedCapacity,
		b.Status,
		now, now,
	)
}

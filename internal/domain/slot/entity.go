package slot

import (
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
)

var (
	ErrInvalidCapacity  = errs.New("capacity must be positive")
	ErrInvalidTimeRange = errs.New("slot must end after it starts")
	ErrSlotFull         = errs.New("slot has no remaining capacity")
	ErrSlotNotBookable  = errs.New("slot is not open for booking")
	ErrCapacityInUse    = errs.New("slot capacity is partially used")
)

// Slot is one bookable window of a price list, denormalized with the
// price and capacity resolved at generation time. used_capacity counts
// active bookings against it; transitions derive from the counter.
type Slot struct {
	id           uuid.UUID
	platformID   uuid.UUID
	priceListID  uuid.UUID
	startsAt     time.Time
	endsAt       time.Time
	price        money.Money
	capacity     int
	usedCapacity int
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

func NewSlot(platformID, priceListID uuid.UUID, startsAt, endsAt time.Time, price money.Money, capacity int) (*Slot, error) {
	if capacity <= 0 {
		return nil, errs.Mark(ErrInvalidCapacity, errs.ErrDomainValidation)
	}
	if !endsAt.After(startsAt) {
		return nil, errs.Mark(ErrInvalidTimeRange, errs.ErrDomainValidation)
	}
	now := time.Now()
	return &Slot{
		id:          uuid.New(),
		platformID:  platformID,
		priceListID: priceListID,
		startsAt:    startsAt.UTC(),
		endsAt:      endsAt.UTC(),
		price:       price,
		capacity:    capacity,
		status:      StatusAvailable,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructSlot(
	id uuid.UUID,
	platformID, priceListID uuid.UUID,
	startsAt, endsAt time.Time,
	price money.Money,
	capacity, usedCapacity int,
	status Status,
	createdAt, updatedAt time.Time,
) *Slot {
	return &Slot{
		id:           id,
		platformID:   platformID,
		priceListID:  priceListID,
		startsAt:     startsAt,
		endsAt:       endsAt,
		price:        price,
		capacity:     capacity,
		usedCapacity: usedCapacity,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (s *Slot) ID() uuid.UUID          { return s.id }
func (s *Slot) PlatformID() uuid.UUID  { return s.platformID }
func (s *Slot) PriceListID() uuid.UUID { return s.priceListID }
func (s *Slot) StartsAt() time.Time    { return s.startsAt }
func (s *Slot) EndsAt() time.Time      { return s.endsAt }
func (s *Slot) Price() money.Money     { return s.price }
func (s *Slot) Capacity() int          { return s.capacity }
func (s *Slot) UsedCapacity() int      { return s.usedCapacity }
func (s *Slot) Status() Status         { return s.status }
func (s *Slot) CreatedAt() time.Time   { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time   { return s.updatedAt }

func (s *Slot) Remaining() int {
	return s.capacity - s.usedCapacity
}

func (s *Slot) IsBookable() bool {
	return (s.status == StatusAvailable || s.status == StatusReserved) && s.Remaining() > 0
}

// Claim consumes one unit of capacity. A slot that reaches full
// utilization flips to booked.
func (s *Slot) Claim() error {
	if s.status == StatusBooked || s.status == StatusCancelled {
		return errs.Mark(ErrSlotNotBookable, errs.ErrDomainValidation)
	}
	if s.Remaining() <= 0 {
		return errs.Mark(ErrSlotFull, errs.ErrDomainValidation)
	}
	s.usedCapacity++
	if s.usedCapacity == s.capacity {
		s.status = StatusBooked
	} else {
		s.status = StatusReserved
	}
	s.updatedAt = time.Now()
	return nil
}

// Release returns one unit of capacity, flooring at zero so a stale
// cancellation cannot drive the counter negative.
func (s *Slot) Release() {
	if s.usedCapacity > 0 {
		s.usedCapacity--
	}
	if s.status == StatusCancelled {
		return
	}
	if s.usedCapacity == 0 {
		s.status = StatusAvailable
	} else {
		s.status = StatusReserved
	}
	s.updatedAt = time.Now()
}

// Reprice applies regenerated pricing. It refuses while any capacity is
// claimed: live bookings pin the slot's terms.
func (s *Slot) Reprice(price money.Money, capacity int) error {
	if s.usedCapacity > 0 {
		return errs.Mark(ErrCapacityInUse, errs.ErrCapacityConflict)
	}
	if capacity <= 0 {
		return errs.Mark(ErrInvalidCapacity, errs.ErrDomainValidation)
	}
	s.price = price
	s.capacity = capacity
	s.status = StatusAvailable
	s.updatedAt = time.Now()
	return nil
}

func (s *Slot) Cancel() {
	s.status = StatusCancelled
	s.updatedAt = time.Now()
}

func ValidateStatus(status string) (Status, error) {
	switch Status(status) {
	case StatusAvailable, StatusReserved, StatusBooked, StatusCancelled:
		return Status(status), nil
	default:
		return "", errs.Mark(errs.New("invalid slot status: "+status), errs.ErrDomainValidation)
	}
}

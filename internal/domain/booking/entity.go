package booking

import (
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Booking is a client's claim on a slot. The time window and amounts are
// copied from the slot at creation time so the contractual terms survive
// later slot edits or deletion; slotID is a weak reference nulled when the
// slot goes away.
type Booking struct {
	id          uuid.UUID
	platformID  uuid.UUID
	clientID    uuid.UUID
	slotID      *uuid.UUID
	startsAt    time.Time
	endsAt      time.Time
	baseAmount  money.Money
	discount    money.Money
	totalAmount money.Money
	promoCode   string
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func NewBooking(
	platformID, clientID, slotID uuid.UUID,
	startsAt, endsAt time.Time,
	baseAmount, discount money.Money,
	promoCode string,
	confirmed bool,
) *Booking {
	status := StatusPending
	if confirmed {
		status = StatusConfirmed
	}
	sid := slotID
	now := time.Now()
	return &Booking{
		id:          uuid.New(),
		platformID:  platformID,
		clientID:    clientID,
		slotID:      &sid,
		startsAt:    startsAt.UTC(),
		endsAt:      endsAt.UTC(),
		baseAmount:  baseAmount,
		discount:    discount.Min(baseAmount),
		totalAmount: baseAmount.SubClamped(discount),
		promoCode:   promoCode,
		status:      status,
		createdAt:   now,
		updatedAt:   now,
	}
}

func ReconstructBooking(
	id uuid.UUID,
	platformID, clientID uuid.UUID,
	slotID *uuid.UUID,
	startsAt, endsAt time.Time,
	baseAmount, discount, totalAmount money.Money,
	promoCode string,
	status Status,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		platformID:  platformID,
		clientID:    clientID,
		slotID:      slotID,
		startsAt:    startsAt,
		endsAt:      endsAt,
		baseAmount:  baseAmount,
		discount:    discount,
		totalAmount: totalAmount,
		promoCode:   promoCode,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID           { return b.id }
func (b *Booking) PlatformID() uuid.UUID   { return b.platformID }
func (b *Booking) ClientID() uuid.UUID     { return b.clientID }
func (b *Booking) SlotID() *uuid.UUID      { return b.slotID }
func (b *Booking) StartsAt() time.Time     { return b.startsAt }
func (b *Booking) EndsAt() time.Time       { return b.endsAt }
func (b *Booking) BaseAmount() money.Money { return b.baseAmount }
func (b *Booking) Discount() money.Money   { return b.discount }
func (b *Booking) TotalAmount() money.Money { return b.totalAmount }
func (b *Booking) PromoCode() string       { return b.promoCode }
func (b *Booking) Status() Status          { return b.status }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time    { return b.updatedAt }

func (b *Booking) IsOwnedBy(clientID uuid.UUID) bool {
	return b.clientID == clientID
}

func (b *Booking) Confirm() error {
	if b.status != StatusPending {
		return errs.Mark(errs.New("only pending bookings can be confirmed"), errs.ErrDomainValidation)
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now()
	return nil
}

// Cancel moves the booking to cancelled. Completed and already-cancelled
// bookings are final.
func (b *Booking) Cancel() error {
	if b.status == StatusCancelled || b.status == StatusCompleted {
		return errs.Mark(errs.New("booking already finalized"), errs.ErrBookingNotCancelable)
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now()
	return nil
}

// Complete marks a fulfilled booking after its window has passed.
func (b *Booking) Complete(now time.Time) error {
	if b.status != StatusConfirmed {
		return errs.Mark(errs.New("only confirmed bookings can be completed"), errs.ErrDomainValidation)
	}
	if now.Before(b.endsAt) {
		return errs.Mark(errs.New("booking window has not passed yet"), errs.ErrDomainValidation)
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now()
	return nil
}

// DetachSlot clears the weak slot reference when the slot is deleted.
// The window and amount snapshots keep the audit trail intact.
func (b *Booking) DetachSlot() {
	b.slotID = nil
	b.updatedAt = time.Now()
}

func ValidateStatus(status string) (Status, error) {
	switch Status(status) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(status), nil
	default:
		return "", errs.Mark(errs.New("invalid booking status: "+status), errs.ErrDomainValidation)
	}
}

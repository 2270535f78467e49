package promo

import (
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/pkg/money"
)

// Redemption records one application of a promo code to a booking. The
// discount amount is immutable once recorded; cancellation only flips the
// flag so the row stays in the audit trail while dropping out of usage
// cap counts. bookingID is a weak reference nulled on booking deletion.
type Redemption struct {
	id             uuid.UUID
	promoCodeID    uuid.UUID
	clientID       uuid.UUID
	bookingID      *uuid.UUID
	discountAmount money.Money
	cancelled      bool
	usedAt         time.Time
}

func NewRedemption(promoCodeID, clientID, bookingID uuid.UUID, discountAmount money.Money, usedAt time.Time) *Redemption {
	bid := bookingID
	return &Redemption{
		id:             uuid.New(),
		promoCodeID:    promoCodeID,
		clientID:       clientID,
		bookingID:      &bid,
		discountAmount: discountAmount,
		usedAt:         usedAt,
	}
}

func ReconstructRedemption(
	id uuid.UUID,
	promoCodeID, clientID uuid.UUID,
	bookingID *uuid.UUID,
	discountAmount money.Money,
	cancelled bool,
	usedAt time.Time,
) *Redemption {
	return &Redemption{
		id:             id,
		promoCodeID:    promoCodeID,
		clientID:       clientID,
		bookingID:      bookingID,
		discountAmount: discountAmount,
		cancelled:      cancelled,
		usedAt:         usedAt,
	}
}

func (r *Redemption) ID() uuid.UUID                 { return r.id }
func (r *Redemption) PromoCodeID() uuid.UUID        { return r.promoCodeID }
func (r *Redemption) ClientID() uuid.UUID           { return r.clientID }
func (r *Redemption) BookingID() *uuid.UUID         { return r.bookingID }
func (r *Redemption) DiscountAmount() money.Money   { return r.discountAmount }
func (r *Redemption) IsCancelled() bool             { return r.cancelled }
func (r *Redemption) UsedAt() time.Time             { return r.usedAt }

func (r *Redemption) MarkCancelled() {
	r.cancelled = true
}

func (r *Redemption) DetachBooking() {
	r.bookingID = nil
}

//go:build unit

package booking_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbooker/internal/domain/booking"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
)

var window = struct{ starts, ends time.Time }{
	starts: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	ends:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
}

func newBooking(confirmed bool) *booking.Booking {
	return booking.NewBooking(
		uuid.New(), uuid.New(), uuid.New(),
		window.starts, window.ends,
		money.MustFromString("50.00"), money.Zero(),
		"",
		confirmed,
	)
}

func TestNewBooking_Amounts(t *testing.T) {
	t.Run("total is base minus discount", func(t *testing.T) {
		b := booking.NewBooking(
			uuid.New(), uuid.New(), uuid.New(),
			window.starts, window.ends,
			money.MustFromString("50.00"), money.MustFromString("10.00"),
			"WELCOME10",
			false,
		)
		assert.True(t, b.TotalAmount().Equal(money.MustFromString("40.00")))
		assert.Equal(t, "WELCOME10", b.PromoCode())
		assert.Equal(t, booking.StatusPending, b.Status())
	})

	t.Run("discount clamps at the base amount", func(t *testing.T) {
		b := booking.NewBooking(
			uuid.New(), uuid.New(), uuid.New(),
			window.starts, window.ends,
			money.MustFromString("50.00"), money.MustFromString("80.00"),
			"BIGGERTHANORDER",
			false,
		)
		assert.True(t, b.Discount().Equal(money.MustFromString("50.00")))
		assert.True(t, b.TotalAmount().Equal(money.Zero()))
	})

	t.Run("confirmed flag skips pending", func(t *testing.T) {
		b := newBooking(true)
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})
}

func TestBooking_Ownership(t *testing.T) {
	clientID := uuid.New()
	b := booking.NewBooking(
		uuid.New(), clientID, uuid.New(),
		window.starts, window.ends,
		money.MustFromString("50.00"), money.Zero(),
		"",
		false,
	)
	assert.True(t, b.IsOwnedBy(clientID))
	assert.False(t, b.IsOwnedBy(uuid.New()))
}

func TestBooking_Transitions(t *testing.T) {
	t.Run("confirm pending", func(t *testing.T) {
		b := newBooking(false)
		require.NoError(t, b.Confirm())
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("confirm is pending-only", func(t *testing.T) {
		b := newBooking(true)
		require.ErrorIs(t, b.Confirm(), errs.ErrDomainValidation)
	})

	t.Run("cancel pending and confirmed", func(t *testing.T) {
		for _, confirmed := range []bool{false, true} {
			b := newBooking(confirmed)
			require.NoError(t, b.Cancel())
			assert.Equal(t, booking.StatusCancelled, b.Status())
		}
	})

	t.Run("cancel is final", func(t *testing.T) {
		b := newBooking(false)
		require.NoError(t, b.Cancel())
		require.ErrorIs(t, b.Cancel(), errs.ErrBookingNotCancelable)
	})

	t.Run("complete after the window", func(t *testing.T) {
		b := newBooking(true)
		require.NoError(t, b.Complete(window.ends.Add(time.Minute)))
		assert.Equal(t, booking.StatusCompleted, b.Status())
	})

	t.Run("complete refuses before the window ends", func(t *testing.T) {
		b := newBooking(true)
		require.ErrorIs(t, b.Complete(window.ends.Add(-time.Minute)), errs.ErrDomainValidation)
	})

	t.Run("completed bookings cannot be cancelled", func(t *testing.T) {
		b := newBooking(true)
		require.NoError(t, b.Complete(window.ends))
		require.ErrorIs(t, b.Cancel(), errs.ErrBookingNotCancelable)
	})
}

func TestBooking_DetachSlot(t *testing.T) {
	b := newBooking(true)
	require.NotNil(t, b.SlotID())

	b.DetachSlot()
	assert.Nil(t, b.SlotID())
	assert.True(t, b.BaseAmount().Equal(money.MustFromString("50.00")))
	assert.Equal(t, window.starts, b.StartsAt())
}

//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbooker/internal/domain/booking"
	"slotbooker/internal/domain/slot"
	"slotbooker/internal/infra/storage/memory"
	"slotbooker/internal/pkg/clock"
	"slotbooker/internal/pkg/config"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/usecase/commands"
	"slotbooker/tests/common/builder"
)

var bookingNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type bookingFixture struct {
	uow *memory.UoW
	uc  commands.BookingCommands
}

func newBookingFixture(t *testing.T, mutateCfg func(*config.BookingConfig)) *bookingFixture {
	t.Helper()
	cfg := config.NewTestConfig().Booking
	if mutateCfg != nil {
		mutateCfg(&cfg)
	}
	uow := memory.NewUoW()
	return &bookingFixture{
		uow: uow,
		uc:  commands.NewBookingCommands(uow, clock.NewMockClock(bookingNow), cfg),
	}
}

func (f *bookingFixture) seedBookableSlot(mutate func(*builder.SlotBuilder)) *slot.Slot {
	priceList := builder.NewPriceListBuilder().Build()
	sb := builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
		b.PlatformID = priceList.PlatformID()
		b.PriceListID = priceList.ID()
	})
	if mutate != nil {
		sb.With(mutate)
	}
	s := sb.Build()
	f.uow.SeedPriceList(priceList, nil, nil)
	f.uow.SeedSlot(s)
	return s
}

func TestBook_HappyPath(t *testing.T) {
	f := newBookingFixture(t, nil)
	seeded := f.seedBookableSlot(nil)
	clientID := uuid.New()

	result, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
		SlotID:   seeded.ID(),
		ClientID: clientID,
	})
	require.NoError(t, err)

	assert.Equal(t, string(booking.StatusPending), result.Status)
	assert.True(t, result.BaseAmount.Equal(money.MustFromString("50.00")))
	assert.True(t, result.Discount.Equal(money.Zero()))
	assert.True(t, result.TotalAmount.Equal(money.MustFromString("50.00")))

	stored := f.uow.BookingByID(result.BookingID)
	require.NotNil(t, stored)
	assert.True(t, stored.IsOwnedBy(clientID))
	assert.Equal(t, seeded.StartsAt(), stored.StartsAt())

	after := f.uow.SlotByID(seeded.ID())
	assert.Equal(t, 1, after.UsedCapacity())
	assert.Equal(t, slot.StatusReserved, after.Status())
}

func TestBook_AutoConfirm(t *testing.T) {
	f := newBookingFixture(t, func(c *config.BookingConfig) {
		c.AutoConfirm = true
	})
	seeded := f.seedBookableSlot(nil)

	result, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
		SlotID:   seeded.ID(),
		ClientID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(booking.StatusConfirmed), result.Status)
}

func TestBook_SlotRejections(t *testing.T) {
	t.Run("unknown slot", func(t *testing.T) {
		f := newBookingFixture(t, nil)

		_, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID:   uuid.New(),
			ClientID: uuid.New(),
		})
		require.ErrorIs(t, err, errs.ErrSlotNotFound)
	})

	t.Run("full slot", func(t *testing.T) {
		f := newBookingFixture(t, nil)
		seeded := f.seedBookableSlot(func(b *builder.SlotBuilder) {
			b.Capacity = 2
			b.UsedCapacity = 2
			b.Status = slot.StatusBooked
		})

		_, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID:   seeded.ID(),
			ClientID: uuid.New(),
		})
		require.ErrorIs(t, err, errs.ErrSlotNotAvailable)
	})

	t.Run("cancelled slot", func(t *testing.T) {
		f := newBookingFixture(t, nil)
		seeded := f.seedBookableSlot(func(b *builder.SlotBuilder) {
			b.Status = slot.StatusCancelled
		})

		_, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID:   seeded.ID(),
			ClientID: uuid.New(),
		})
		require.ErrorIs(t, err, errs.ErrSlotNotAvailable)
	})
}

func TestBook_WithPromo(t *testing.T) {
	f := newBookingFixture(t, nil)
	seeded := f.seedBookableSlot(nil)
	f.uow.SeedPromo(builder.NewPromoBuilder().MustBuild())
	clientID := uuid.New()

	result, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
		SlotID:    seeded.ID(),
		ClientID:  clientID,
		PromoCode: "WELCOME10",
	})
	require.NoError(t, err)

	assert.True(t, result.Discount.Equal(money.MustFromString("5.00")))
	assert.True(t, result.TotalAmount.Equal(money.MustFromString("45.00")))

	redemptions := f.uow.Redemptions()
	require.Len(t, redemptions, 1)
	assert.Equal(t, clientID, redemptions[0].ClientID())
	assert.False(t, redemptions[0].IsCancelled())
	assert.True(t, redemptions[0].DiscountAmount().Equal(money.MustFromString("5.00")))
}

func TestBook_PromoRejectionAbortsBooking(t *testing.T) {
	f := newBookingFixture(t, nil)
	seeded := f.seedBookableSlot(nil)

	t.Run("unknown code", func(t *testing.T) {
		_, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID:    seeded.ID(),
			ClientID:  uuid.New(),
			PromoCode: "NOSUCHCODE",
		})
		require.ErrorIs(t, err, errs.ErrPromoNotFound)
	})

	t.Run("currency mismatch", func(t *testing.T) {
		usd := "USD"
		f.uow.SeedPromo(builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
			b.Code = "USDONLY"
			b.Currency = &usd
		}).MustBuild())

		_, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID:    seeded.ID(),
			ClientID:  uuid.New(),
			PromoCode: "USDONLY",
		})
		require.ErrorIs(t, err, errs.ErrPromoCurrencyMismatch)
	})

	// A failed promo must not leak a capacity claim.
	after := f.uow.SlotByID(seeded.ID())
	assert.Zero(t, after.UsedCapacity())
	assert.Empty(t, f.uow.Bookings())
}

func TestBook_PromoCaps(t *testing.T) {
	t.Run("global cap", func(t *testing.T) {
		f := newBookingFixture(t, nil)
		seeded := f.seedBookableSlot(func(b *builder.SlotBuilder) {
			b.Capacity = 4
		})
		one := 1
		f.uow.SeedPromo(builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
			b.Code = "ONCE"
			b.MaxUses = &one
		}).MustBuild())

		_, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID:    seeded.ID(),
			ClientID:  uuid.New(),
			PromoCode: "ONCE",
		})
		require.NoError(t, err)

		_, err = f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID:    seeded.ID(),
			ClientID:  uuid.New(),
			PromoCode: "ONCE",
		})
		require.ErrorIs(t, err, errs.ErrPromoMaxUsesExceeded)
	})

	t.Run("per-client cap counts only that client", func(t *testing.T) {
		f := newBookingFixture(t, nil)
		seeded := f.seedBookableSlot(func(b *builder.SlotBuilder) {
			b.Capacity = 4
		})
		one := 1
		f.uow.SeedPromo(builder.NewPromoBuilder().With(func(b *builder.PromoBuilder) {
			b.Code = "PERCLIENT"
			b.MaxUsesPerClient = &one
		}).MustBuild())

		repeat := uuid.New()
		_, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID: seeded.ID(), ClientID: repeat, PromoCode: "PERCLIENT",
		})
		require.NoError(t, err)

		_, err = f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID: seeded.ID(), ClientID: repeat, PromoCode: "PERCLIENT",
		})
		require.ErrorIs(t, err, errs.ErrPromoClientLimitExceeded)

		_, err = f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID: seeded.ID(), ClientID: uuid.New(), PromoCode: "PERCLIENT",
		})
		require.NoError(t, err)
	})
}

func TestCancel(t *testing.T) {
	t.Run("owner cancels and capacity returns", func(t *testing.T) {
		f := newBookingFixture(t, nil)
		seeded := f.seedBookableSlot(nil)
		clientID := uuid.New()

		result, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID: seeded.ID(), ClientID: clientID,
		})
		require.NoError(t, err)

		require.NoError(t, f.uc.Cancel(context.Background(), result.BookingID, clientID, false))

		assert.Equal(t, booking.StatusCancelled, f.uow.BookingByID(result.BookingID).Status())
		after := f.uow.SlotByID(seeded.ID())
		assert.Zero(t, after.UsedCapacity())
		assert.Equal(t, slot.StatusAvailable, after.Status())
	})

	t.Run("cancel voids the redemption", func(t *testing.T) {
		f := newBookingFixture(t, nil)
		seeded := f.seedBookableSlot(nil)
		f.uow.SeedPromo(builder.NewPromoBuilder().MustBuild())
		clientID := uuid.New()

		result, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID: seeded.ID(), ClientID: clientID, PromoCode: "WELCOME10",
		})
		require.NoError(t, err)

		require.NoError(t, f.uc.Cancel(context.Background(), result.BookingID, clientID, false))

		redemptions := f.uow.Redemptions()
		require.Len(t, redemptions, 1)
		assert.True(t, redemptions[0].IsCancelled())
	})

	t.Run("stranger is forbidden, staff is not", func(t *testing.T) {
		f := newBookingFixture(t, nil)
		seeded := f.seedBookableSlot(nil)

		result, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID: seeded.ID(), ClientID: uuid.New(),
		})
		require.NoError(t, err)

		err = f.uc.Cancel(context.Background(), result.BookingID, uuid.New(), false)
		require.ErrorIs(t, err, errs.ErrBookingForbidden)

		require.NoError(t, f.uc.Cancel(context.Background(), result.BookingID, uuid.New(), true))
	})

	t.Run("double cancel is rejected", func(t *testing.T) {
		f := newBookingFixture(t, nil)
		seeded := f.seedBookableSlot(nil)
		clientID := uuid.New()

		result, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
			SlotID: seeded.ID(), ClientID: clientID,
		})
		require.NoError(t, err)

		require.NoError(t, f.uc.Cancel(context.Background(), result.BookingID, clientID, false))
		err = f.uc.Cancel(context.Background(), result.BookingID, clientID, false)
		require.ErrorIs(t, err, errs.ErrBookingNotCancelable)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newBookingFixture(t, nil)
		err := f.uc.Cancel(context.Background(), uuid.New(), uuid.New(), false)
		require.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

// The last unit of capacity must go to exactly one of the concurrent
// callers; everyone else sees the slot as unavailable.
func TestBook_LastUnitSingleWinner(t *testing.T) {
	f := newBookingFixture(t, nil)
	seeded := f.seedBookableSlot(func(b *builder.SlotBuilder) {
		b.Capacity = 1
	})

	const callers = 16
	errsCh := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Book(context.Background(), commands.BookSlotRequest{
				SlotID:   seeded.ID(),
				ClientID: uuid.New(),
			})
			errsCh <- err
		}()
	}
	wg.Wait()
	close(errsCh)

	var wins, losses int
	for err := range errsCh {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, errs.ErrSlotNotAvailable)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, losses)

	after := f.uow.SlotByID(seeded.ID())
	assert.Equal(t, 1, after.UsedCapacity())
	assert.Equal(t, slot.StatusBooked, after.Status())
	assert.Len(t, f.uow.Bookings(), 1)
}

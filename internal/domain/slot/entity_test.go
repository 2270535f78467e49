//go:build unit

package slot_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbooker/internal/domain/slot"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
	"slotbooker/tests/common/builder"
)

func TestNewSlot_Validation(t *testing.T) {
	startsAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	price := money.MustFromString("50.00")

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		_, err := slot.NewSlot(uuid.New(), uuid.New(), startsAt, startsAt.Add(time.Hour), price, 0)
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("rejects inverted time range", func(t *testing.T) {
		_, err := slot.NewSlot(uuid.New(), uuid.New(), startsAt, startsAt, price, 2)
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("normalizes instants to UTC", func(t *testing.T) {
		berlin, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)

		s, err := slot.NewSlot(uuid.New(), uuid.New(), startsAt.In(berlin), startsAt.Add(time.Hour).In(berlin), price, 2)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, s.StartsAt().Location())
		assert.Equal(t, slot.StatusAvailable, s.Status())
	})
}

func TestSlot_Claim(t *testing.T) {
	t.Run("partial claim reserves", func(t *testing.T) {
		s := builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = 2
		}).Build()

		require.NoError(t, s.Claim())
		assert.Equal(t, slot.StatusReserved, s.Status())
		assert.Equal(t, 1, s.Remaining())
		assert.True(t, s.IsBookable())
	})

	t.Run("last claim flips to booked", func(t *testing.T) {
		s := builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = 1
		}).Build()

		require.NoError(t, s.Claim())
		assert.Equal(t, slot.StatusBooked, s.Status())
		assert.False(t, s.IsBookable())
	})

	t.Run("full slot refuses further claims", func(t *testing.T) {
		s := builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = 1
		}).Build()
		require.NoError(t, s.Claim())

		err := s.Claim()
		require.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("cancelled slot refuses claims", func(t *testing.T) {
		s := builder.NewSlotBuilder().Build()
		s.Cancel()

		require.ErrorIs(t, s.Claim(), errs.ErrDomainValidation)
	})
}

func TestSlot_Release(t *testing.T) {
	t.Run("release reopens a booked slot", func(t *testing.T) {
		s := builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = 1
		}).Build()
		require.NoError(t, s.Claim())

		s.Release()
		assert.Equal(t, slot.StatusAvailable, s.Status())
		assert.Equal(t, 1, s.Remaining())
	})

	t.Run("release keeps reserved while capacity is still used", func(t *testing.T) {
		s := builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = 3
		}).Build()
		require.NoError(t, s.Claim())
		require.NoError(t, s.Claim())

		s.Release()
		assert.Equal(t, slot.StatusReserved, s.Status())
		assert.Equal(t, 1, s.UsedCapacity())
	})

	t.Run("release floors at zero", func(t *testing.T) {
		s := builder.NewSlotBuilder().Build()

		s.Release()
		assert.Equal(t, 0, s.UsedCapacity())
		assert.Equal(t, slot.StatusAvailable, s.Status())
	})

	t.Run("release never reopens a cancelled slot", func(t *testing.T) {
		s := builder.NewSlotBuilder().Build()
		require.NoError(t, s.Claim())
		s.Cancel()

		s.Release()
		assert.Equal(t, slot.StatusCancelled, s.Status())
	})
}

func TestSlot_Reprice(t *testing.T) {
	t.Run("updates terms on an untouched slot", func(t *testing.T) {
		s := builder.NewSlotBuilder().Build()

		require.NoError(t, s.Reprice(money.MustFromString("75.00"), 6))
		assert.True(t, s.Price().Equal(money.MustFromString("75.00")))
		assert.Equal(t, 6, s.Capacity())
		assert.Equal(t, slot.StatusAvailable, s.Status())
	})

	t.Run("refuses while capacity is claimed", func(t *testing.T) {
		s := builder.NewSlotBuilder().Build()
		require.NoError(t, s.Claim())

		err := s.Reprice(money.MustFromString("75.00"), 6)
		require.ErrorIs(t, err, errs.ErrCapacityConflict)
	})

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		s := builder.NewSlotBuilder().Build()

		require.ErrorIs(t, s.Reprice(money.MustFromString("75.00"), 0), errs.ErrDomainValidation)
	})
}

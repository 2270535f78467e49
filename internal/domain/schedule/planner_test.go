//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"slotbooker/internal/domain/pricing"
	"slotbooker/internal/domain/schedule"
	"slotbooker/internal/pkg/money"
	"slotbooker/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2026-03-02.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newPlanner() *schedule.Planner {
	return schedule.NewPlanner(pricing.NewResolver())
}

func TestPlanRange_Chunking(t *testing.T) {
	list := builder.NewPriceListBuilder().With(func(b *builder.PriceListBuilder) {
		b.DefaultSlotDuration = 60
	}).Build()
	rule := builder.NewRuleBuilder(list.ID()).With(func(b *builder.RuleBuilder) {
		b.Window = pricing.MustWindow("09:00", "12:00")
		b.SlotPrice = money.MustFromString("50.00")
		b.Capacity = 4
	}).Build()

	planned, err := newPlanner().PlanRange(list, []*pricing.Rule{rule}, nil, monday, monday)
	require.NoError(t, err)

	want := []schedule.PlannedSlot{
		{
			StartsAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			Price:    money.MustFromString("50.00"),
			Capacity: 4,
		},
		{
			StartsAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			Price:    money.MustFromString("50.00"),
			Capacity: 4,
		},
		{
			StartsAt: time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
			Price:    money.MustFromString("50.00"),
			Capacity: 4,
		},
	}
	if diff := cmp.Diff(want, planned); diff != "" {
		t.Errorf("planned slots mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanRange_PartialTail(t *testing.T) {
	t.Run("tail shorter than threshold dropped", func(t *testing.T) {
		list := builder.NewPriceListBuilder().With(func(b *builder.PriceListBuilder) {
			b.DefaultSlotDuration = 60
		}).Build()
		// 9:00-10:03: one full hour plus a 3 minute remainder.
		rule := builder.NewRuleBuilder(list.ID()).With(func(b *builder.RuleBuilder) {
			b.Window = mustMinutes(t, 9*60, 10*60+3)
		}).Build()

		planned, err := newPlanner().PlanRange(list, []*pricing.Rule{rule}, nil, monday, monday)
		require.NoError(t, err)
		require.Len(t, planned, 1)
		assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), planned[0].EndsAt)
	})

	t.Run("tail at threshold kept", func(t *testing.T) {
		list := builder.NewPriceListBuilder().With(func(b *builder.PriceListBuilder) {
			b.DefaultSlotDuration = 60
		}).Build()
		rule := builder.NewRuleBuilder(list.ID()).With(func(b *builder.RuleBuilder) {
			b.Window = mustMinutes(t, 9*60, 10*60+5)
		}).Build()

		planned, err := newPlanner().PlanRange(list, []*pricing.Rule{rule}, nil, monday, monday)
		require.NoError(t, err)
		require.Len(t, planned, 2)
		assert.Equal(t, time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC), planned[1].EndsAt)
	})
}

func TestPlanRange_OverrideHole(t *testing.T) {
	list := builder.NewPriceListBuilder().With(func(b *builder.PriceListBuilder) {
		b.DefaultSlotDuration = 60
	}).Build()
	rule := builder.NewRuleBuilder(list.ID()).With(func(b *builder.RuleBuilder) {
		b.Window = pricing.MustWindow("09:00", "13:00")
		b.SlotPrice = money.MustFromString("50.00")
		b.Capacity = 4
	}).Build()
	ov := builder.NewOverrideBuilder(list.ID(), monday).With(func(b *builder.OverrideBuilder) {
		b.Window = pricing.MustWindow("10:00", "12:00")
		b.SlotPrice = money.MustFromString("90.00")
		b.Capacity = builder.IntPtr(2)
	}).Build()

	planned, err := newPlanner().PlanRange(list, []*pricing.Rule{rule}, []*pricing.Override{ov}, monday, monday)
	require.NoError(t, err)
	require.Len(t, planned, 4)

	// 9-10 at rule terms, 10-11 and 11-12 at override terms, 12-13 back on the rule.
	assert.True(t, planned[0].Price.Equal(money.MustFromString("50.00")))
	assert.Equal(t, 4, planned[0].Capacity)
	for _, s := range planned[1:3] {
		assert.True(t, s.Price.Equal(money.MustFromString("90.00")))
		assert.Equal(t, 2, s.Capacity)
	}
	assert.True(t, planned[3].Price.Equal(money.MustFromString("50.00")))

	// Chunks never straddle the override boundary.
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), planned[1].StartsAt)
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), planned[3].StartsAt)
}

func TestPlanRange_NoOverlaps(t *testing.T) {
	list := builder.NewPriceListBuilder().Build()
	rule := builder.NewRuleBuilder(list.ID()).With(func(b *builder.RuleBuilder) {
		b.Window = pricing.MustWindow("09:00", "17:00")
	}).Build()
	ov := builder.NewOverrideBuilder(list.ID(), monday).With(func(b *builder.OverrideBuilder) {
		b.Window = pricing.MustWindow("10:30", "11:30")
	}).Build()

	planned, err := newPlanner().PlanRange(list, []*pricing.Rule{rule}, []*pricing.Override{ov}, monday, monday.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.NotEmpty(t, planned)

	for i := 1; i < len(planned); i++ {
		assert.False(t, planned[i].StartsAt.Before(planned[i-1].EndsAt),
			"slot %d starts before slot %d ends", i, i-1)
	}
}

func TestPlanRange_LocalTimezone(t *testing.T) {
	sofia, err := time.LoadLocation("Europe/Sofia")
	require.NoError(t, err)

	list := builder.NewPriceListBuilder().With(func(b *builder.PriceListBuilder) {
		b.Timezone = "Europe/Sofia"
		b.DefaultSlotDuration = 60
	}).Build()
	rule := builder.NewRuleBuilder(list.ID()).With(func(b *builder.RuleBuilder) {
		b.Window = pricing.MustWindow("09:00", "10:00")
	}).Build()

	// 2026-03-29 is the EU spring-forward date; local wall-clock times
	// must still land on 09:00 local.
	dstDay := time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC)
	planned, err := newPlanner().PlanRange(list, []*pricing.Rule{rule}, nil, dstDay, dstDay)
	require.NoError(t, err)
	require.Len(t, planned, 1)

	local := planned[0].StartsAt.In(sofia)
	assert.Equal(t, 9, local.Hour())
	assert.Equal(t, time.UTC, planned[0].StartsAt.Location())
}

func TestPlanRange_ValidityClipping(t *testing.T) {
	validFrom := monday.AddDate(0, 0, 1)
	list := builder.NewPriceListBuilder().With(func(b *builder.PriceListBuilder) {
		b.ValidFrom = &validFrom
	}).Build()
	rule := builder.NewRuleBuilder(list.ID()).Build()

	t.Run("range before validity produces nothing", func(t *testing.T) {
		planned, err := newPlanner().PlanRange(list, []*pricing.Rule{rule}, nil, monday, monday)
		require.NoError(t, err)
		assert.Empty(t, planned)
	})

	t.Run("range clipped to validity start", func(t *testing.T) {
		planned, err := newPlanner().PlanRange(list, []*pricing.Rule{rule}, nil, monday, monday.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.NotEmpty(t, planned)
		assert.False(t, planned[0].StartsAt.Before(validFrom))
	})
}

func TestPlanRange_RejectsConflictingRules(t *testing.T) {
	list := builder.NewPriceListBuilder().Build()
	a := builder.NewRuleBuilder(list.ID()).With(func(b *builder.RuleBuilder) {
		b.Weekday = builder.IntPtr(1)
		b.Window = pricing.MustWindow("09:00", "13:00")
	}).Build()
	conflicting := builder.NewRuleBuilder(list.ID()).With(func(b *builder.RuleBuilder) {
		b.Weekday = builder.IntPtr(1)
		b.Window = pricing.MustWindow("12:00", "17:00")
	}).Build()

	_, err := newPlanner().PlanRange(list, []*pricing.Rule{a, conflicting}, nil, monday, monday)
	var conflictErr *pricing.RuleConflictError
	require.ErrorAs(t, err, &conflictErr)
}

func mustMinutes(t *testing.T, start, end int) pricing.TimeWindow {
	t.Helper()
	w, err := pricing.NewTimeWindow(start, end)
	require.NoError(t, err)
	return w
}

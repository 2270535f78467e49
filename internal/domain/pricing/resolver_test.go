//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"slotbooker/internal/domain/pricing"
	"slotbooker/internal/pkg/money"
	"slotbooker/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2026-03-02.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestResolve_RulePrecedence(t *testing.T) {
	listID := uuid.New()
	anyDay := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
		b.SlotPrice = money.MustFromString("40.00")
		b.Capacity = 10
	}).Build()
	mondayOnly := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
		b.Weekday = builder.IntPtr(1)
		b.SlotPrice = money.MustFromString("55.00")
		b.Capacity = 6
	}).Build()

	resolver := pricing.NewResolver()
	window := pricing.MustWindow("10:00", "11:00")

	t.Run("specific weekday beats any-day", func(t *testing.T) {
		quote, ok := resolver.Resolve([]*pricing.Rule{anyDay, mondayOnly}, nil, monday, window)
		require.True(t, ok)
		assert.True(t, quote.Price.Equal(money.MustFromString("55.00")))
		assert.Equal(t, 6, quote.Capacity)
	})

	t.Run("any-day applies on other weekdays", func(t *testing.T) {
		tuesday := monday.AddDate(0, 0, 1)
		quote, ok := resolver.Resolve([]*pricing.Rule{anyDay, mondayOnly}, nil, tuesday, window)
		require.True(t, ok)
		assert.True(t, quote.Price.Equal(money.MustFromString("40.00")))
		assert.Equal(t, 10, quote.Capacity)
	})

	t.Run("no coverage outside rule windows", func(t *testing.T) {
		night := pricing.MustWindow("22:00", "23:00")
		_, ok := resolver.Resolve([]*pricing.Rule{anyDay, mondayOnly}, nil, monday, night)
		assert.False(t, ok)
	})

	t.Run("inactive rules are ignored", func(t *testing.T) {
		inactive := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
			b.IsActive = false
		}).Build()
		_, ok := resolver.Resolve([]*pricing.Rule{inactive}, nil, monday, window)
		assert.False(t, ok)
	})
}

func TestResolve_OverridePrecedence(t *testing.T) {
	listID := uuid.New()
	rule := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
		b.SlotPrice = money.MustFromString("40.00")
		b.Capacity = 8
	}).Build()

	resolver := pricing.NewResolver()
	window := pricing.MustWindow("10:00", "11:00")

	t.Run("override beats rule", func(t *testing.T) {
		ov := builder.NewOverrideBuilder(listID, monday).With(func(b *builder.OverrideBuilder) {
			b.Window = pricing.MustWindow("09:00", "12:00")
			b.SlotPrice = money.MustFromString("99.00")
			b.Capacity = builder.IntPtr(2)
		}).Build()

		quote, ok := resolver.Resolve([]*pricing.Rule{rule}, []*pricing.Override{ov}, monday, window)
		require.True(t, ok)
		assert.True(t, quote.Price.Equal(money.MustFromString("99.00")))
		assert.Equal(t, 2, quote.Capacity)
	})

	t.Run("nil override capacity inherits from shadowed rule", func(t *testing.T) {
		ov := builder.NewOverrideBuilder(listID, monday).With(func(b *builder.OverrideBuilder) {
			b.Window = pricing.MustWindow("09:00", "12:00")
			b.SlotPrice = money.MustFromString("99.00")
			b.Capacity = nil
		}).Build()

		quote, ok := resolver.Resolve([]*pricing.Rule{rule}, []*pricing.Override{ov}, monday, window)
		require.True(t, ok)
		assert.Equal(t, 8, quote.Capacity)
	})

	t.Run("override on another date does not apply", func(t *testing.T) {
		ov := builder.NewOverrideBuilder(listID, monday.AddDate(0, 0, 1)).Build()

		quote, ok := resolver.Resolve([]*pricing.Rule{rule}, []*pricing.Override{ov}, monday, window)
		require.True(t, ok)
		assert.True(t, quote.Price.Equal(money.MustFromString("40.00")))
	})

	t.Run("override alone covers a window without rules", func(t *testing.T) {
		ov := builder.NewOverrideBuilder(listID, monday).With(func(b *builder.OverrideBuilder) {
			b.Window = pricing.MustWindow("20:00", "22:00")
			b.Capacity = builder.IntPtr(3)
		}).Build()

		quote, ok := resolver.Resolve(nil, []*pricing.Override{ov}, monday, pricing.MustWindow("20:00", "21:00"))
		require.True(t, ok)
		assert.Equal(t, 3, quote.Capacity)
	})
}

func TestValidateRules(t *testing.T) {
	listID := uuid.New()

	t.Run("overlapping same-weekday rules rejected", func(t *testing.T) {
		a := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
			b.Weekday = builder.IntPtr(1)
			b.Window = pricing.MustWindow("09:00", "13:00")
		}).Build()
		bRule := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
			b.Weekday = builder.IntPtr(1)
			b.Window = pricing.MustWindow("12:00", "17:00")
		}).Build()

		err := pricing.ValidateRules([]*pricing.Rule{a, bRule})
		assert.Error(t, err)
	})

	t.Run("adjacent windows do not overlap", func(t *testing.T) {
		a := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
			b.Window = pricing.MustWindow("09:00", "12:00")
		}).Build()
		bRule := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
			b.Window = pricing.MustWindow("12:00", "17:00")
		}).Build()

		assert.NoError(t, pricing.ValidateRules([]*pricing.Rule{a, bRule}))
	})

	t.Run("different weekdays never conflict", func(t *testing.T) {
		a := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
			b.Weekday = builder.IntPtr(1)
		}).Build()
		bRule := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
			b.Weekday = builder.IntPtr(2)
		}).Build()

		assert.NoError(t, pricing.ValidateRules([]*pricing.Rule{a, bRule}))
	})

	t.Run("inactive rules are skipped", func(t *testing.T) {
		a := builder.NewRuleBuilder(listID).Build()
		bRule := builder.NewRuleBuilder(listID).With(func(b *builder.RuleBuilder) {
			b.IsActive = false
		}).Build()

		assert.NoError(t, pricing.ValidateRules([]*pricing.Rule{a, bRule}))
	})
}

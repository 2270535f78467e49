//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbooker/internal/domain/pricing"
	"slotbooker/internal/domain/slot"
	"slotbooker/internal/infra/storage/memory"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/usecase/commands"
	"slotbooker/tests/common/builder"
)

// Monday 2026-03-02.
var genDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func seedPriceList(uow *memory.UoW, mutate func(*builder.PriceListBuilder)) *pricing.PriceList {
	plb := builder.NewPriceListBuilder()
	if mutate != nil {
		plb.With(mutate)
	}
	priceList := plb.Build()
	rule := builder.NewRuleBuilder(priceList.ID()).With(func(b *builder.RuleBuilder) {
		b.Window = pricing.MustWindow("09:00", "12:00")
		b.SlotPrice = money.MustFromString("50.00")
		b.Capacity = 4
	}).Build()
	uow.SeedPriceList(priceList, []*pricing.Rule{rule}, nil)
	return priceList
}

func TestGenerate_InsertsPlannedSlots(t *testing.T) {
	uow := memory.NewUoW()
	priceList := seedPriceList(uow, nil)
	uc := commands.NewSlotCommands(uow)

	report, err := uc.Generate(context.Background(), commands.GenerateSlotsRequest{
		PriceListID: priceList.ID(),
		From:        genDay,
		To:          genDay,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Planned)
	assert.Equal(t, 3, report.Inserted)
	assert.Zero(t, report.Updated)
	assert.Zero(t, report.Unchanged)
	assert.Zero(t, report.Conflicts)
	assert.Len(t, uow.Slots(), 3)
}

func TestGenerate_Idempotent(t *testing.T) {
	uow := memory.NewUoW()
	priceList := seedPriceList(uow, nil)
	uc := commands.NewSlotCommands(uow)

	req := commands.GenerateSlotsRequest{PriceListID: priceList.ID(), From: genDay, To: genDay}
	_, err := uc.Generate(context.Background(), req)
	require.NoError(t, err)

	second, err := uc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, second.Planned, second.Unchanged)
	assert.Zero(t, second.Inserted)
	assert.Zero(t, second.Updated)
	assert.Len(t, uow.Slots(), 3)
}

func TestGenerate_RepricesUnusedSlots(t *testing.T) {
	uow := memory.NewUoW()
	priceList := seedPriceList(uow, nil)
	uc := commands.NewSlotCommands(uow)

	req := commands.GenerateSlotsRequest{PriceListID: priceList.ID(), From: genDay, To: genDay}
	_, err := uc.Generate(context.Background(), req)
	require.NoError(t, err)

	// Pricing changed since the first run: an override now covers part of
	// the day at new terms.
	override := builder.NewOverrideBuilder(priceList.ID(), genDay).With(func(b *builder.OverrideBuilder) {
		b.Window = pricing.MustWindow("09:00", "10:00")
		b.SlotPrice = money.MustFromString("90.00")
		b.Capacity = builder.IntPtr(2)
	}).Build()
	uow.SeedPriceList(priceList, rulesOf(uow, priceList), []*pricing.Override{override})

	report, err := uc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 2, report.Unchanged)
	assert.Zero(t, report.Conflicts)

	repriced := slotAt(t, uow, genDay.Add(9*time.Hour))
	assert.True(t, repriced.Price().Equal(money.MustFromString("90.00")))
	assert.Equal(t, 2, repriced.Capacity())
}

func TestGenerate_BookedSlotsPinTheirTerms(t *testing.T) {
	uow := memory.NewUoW()
	priceList := seedPriceList(uow, nil)
	uc := commands.NewSlotCommands(uow)

	req := commands.GenerateSlotsRequest{PriceListID: priceList.ID(), From: genDay, To: genDay}
	_, err := uc.Generate(context.Background(), req)
	require.NoError(t, err)

	// A booking claims capacity on the 09:00 slot before terms change.
	claimed := slotAt(t, uow, genDay.Add(9*time.Hour))
	require.NoError(t, claimed.Claim())
	uow.SeedSlot(claimed)

	override := builder.NewOverrideBuilder(priceList.ID(), genDay).With(func(b *builder.OverrideBuilder) {
		b.Window = pricing.MustWindow("09:00", "10:00")
		b.SlotPrice = money.MustFromString("90.00")
	}).Build()
	uow.SeedPriceList(priceList, rulesOf(uow, priceList), []*pricing.Override{override})

	report, err := uc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Conflicts)
	assert.Zero(t, report.Updated)

	pinned := slotAt(t, uow, genDay.Add(9*time.Hour))
	assert.True(t, pinned.Price().Equal(money.MustFromString("50.00")))
	assert.Equal(t, 1, pinned.UsedCapacity())
}

func TestGenerate_Rejections(t *testing.T) {
	t.Run("inverted range", func(t *testing.T) {
		uow := memory.NewUoW()
		uc := commands.NewSlotCommands(uow)

		_, err := uc.Generate(context.Background(), commands.GenerateSlotsRequest{
			PriceListID: uuid.New(),
			From:        genDay,
			To:          genDay.AddDate(0, 0, -1),
		})
		require.ErrorIs(t, err, commands.ErrInvalidDateRange)
	})

	t.Run("inactive price list", func(t *testing.T) {
		uow := memory.NewUoW()
		priceList := seedPriceList(uow, func(b *builder.PriceListBuilder) {
			b.IsActive = false
		})
		uc := commands.NewSlotCommands(uow)

		_, err := uc.Generate(context.Background(), commands.GenerateSlotsRequest{
			PriceListID: priceList.ID(),
			From:        genDay,
			To:          genDay,
		})
		require.ErrorIs(t, err, commands.ErrPriceListInactive)
	})
}

func rulesOf(uow *memory.UoW, priceList *pricing.PriceList) []*pricing.Rule {
	rule := builder.NewRuleBuilder(priceList.ID()).With(func(b *builder.RuleBuilder) {
		b.Window = pricing.MustWindow("09:00", "12:00")
		b.SlotPrice = money.MustFromString("50.00")
		b.Capacity = 4
	}).Build()
	return []*pricing.Rule{rule}
}

func slotAt(t *testing.T, uow *memory.UoW, startsAt time.Time) *slot.Slot {
	t.Helper()
	for _, s := range uow.Slots() {
		if s.StartsAt().Equal(startsAt) {
			return s
		}
	}
	t.Fatalf("no slot starting at %s", startsAt)
	return nil
}

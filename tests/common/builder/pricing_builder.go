//go:build unit || e2e

package builder

import (
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/domain/pricing"
	"slotbooker/internal/pkg/money"
)

type PriceListBuilder struct {
	ID                  uuid.UUID
	PlatformID          uuid.UUID
	Name                string
	Currency            string
	Timezone            string
	ValidFrom           *time.Time
	ValidTo             *time.Time
	DefaultSlotDuration int
	IsActive            bool
}

func NewPriceListBuilder() *PriceListBuilder {
	return &PriceListBuilder{
		ID:                  uuid.New(),
		PlatformID:          uuid.New(),
		Name:                "Standard Rates",
		Currency:            "EUR",
		Timezone:            "UTC",
		DefaultSlotDuration: 60,
		IsActive:            true,
	}
}

func (b *PriceListBuilder) With(mutate func(*PriceListBuilder)) *PriceListBuilder {
	mutate(b)
	return b
}

func (b *PriceListBuilder) Build() *pricing.PriceList {
	now := time.Now().UTC()
	return pricing.ReconstructPriceList(
		b.ID, b.PlatformID,
		b.Name, b.Currency, b.Timezone,
		b.ValidFrom, b.ValidTo,
		b.DefaultSlotDuration,
		b.IsActive,
		now, now,
	)
}

type RuleBuilder struct {
	ID          uuid.UUID
	PriceListID uuid.UUID
	Weekday     *int
	Window      pricing.TimeWindow
	SlotPrice   money.Money
	Capacity    int
	IsActive    bool
}

func NewRuleBuilder(priceListID uuid.UUID) *RuleBuilder {
	return &RuleBuilder{
		ID:          uuid.New(),
		PriceListID: priceListID,
		Window:      pricing.MustWindow("09:00", "17:00"),
		SlotPrice:   money.MustFromString("50.00"),
		Capacity:    4,
		IsActive:    true,
	}
}

func (b *RuleBuilder) With(mutate func(*RuleBuilder)) *RuleBuilder {
	mutate(b)
	return b
}

func (b *RuleBuilder) Build() *pricing.Rule {
	return pricing.ReconstructRule(
		b.ID, b.PriceListID,
		b.Weekday,
		b.Window,
		b.SlotPrice,
		b.Capacity,
		b.IsActive,
		time.Now().UTC(),
	)
}

type OverrideBuilder struct {
	ID          uuid.UUID
	PriceListID uuid.UUID
	ForDate     time.Time
	Window      pricing.TimeWindow
	SlotPrice   money.Money
	Capacity    *int
	IsActive    bool
}

func NewOverrideBuilder(priceListID uuid.UUID, forDate time.Time) *OverrideBuilder {
	return &OverrideBuilder{
		ID:          uuid.New(),
		PriceListID: priceListID,
		ForDate:     forDate,
		Window:      pricing.MustWindow("09:00", "12:00"),
		SlotPrice:   money.MustFromString("80.00"),
		IsActive:    true,
	}
}

func (b *OverrideBuilder) With(mutate func(*OverrideBuilder)) *OverrideBuilder {
	mutate(b)
	return b
}

func (b *OverrideBuilder) Build() *pricing.Override {
	return pricing.ReconstructOverride(
		b.ID, b.PriceListID,
		b.ForDate,
		b.Window,
		b.SlotPrice,
		b.Capacity,
		b.IsActive,
		time.Now().UTC(),
	)
}

// IntPtr is a fixture convenience for optional weekday and capacity fields.
func IntPtr(v int) *int { return &v }

package pricing

import (
	"errors"
	"strings"
	"time"

	"slotbooker/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrEmptyName           = errors.New("price list name cannot be empty")
	ErrInvalidValidity     = errors.New("valid_from must not be after valid_to")
	ErrInvalidSlotDuration = errors.New("default slot duration must be positive")
	ErrNegativeCapacity    = errors.New("capacity cannot be negative")
	ErrUnknownTimezone     = errors.New("unknown price list timezone")
)

// PriceList is a pricing configuration owned by one platform. Rules and
// overrides hang off it; the validity window and timezone drive slot
// generation.
type PriceList struct {
	id                  uuid.UUID
	platformID          uuid.UUID
	name                string
	currency            string
	timezone            string
	validFrom           *time.Time
	validTo             *time.Time
	defaultSlotDuration int
	isActive            bool
	createdAt           time.Time
	updatedAt           time.Time
}

func NewPriceList(
	platformID uuid.UUID,
	name, currency, timezone string,
	validFrom, validTo *time.Time,
	defaultSlotDurationMinutes int,
) (*PriceList, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if defaultSlotDurationMinutes <= 0 {
		return nil, ErrInvalidSlotDuration
	}
	if validFrom != nil && validTo != nil && validFrom.After(*validTo) {
		return nil, ErrInvalidValidity
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, ErrUnknownTimezone
	}
	return &PriceList{
		id:                  uuid.New(),
		platformID:          platformID,
		name:                name,
		currency:            currency,
		timezone:            timezone,
		validFrom:           validFrom,
		validTo:             validTo,
		defaultSlotDuration: defaultSlotDurationMinutes,
		isActive:            true,
	}, nil
}

func ReconstructPriceList(
	id, platformID uuid.UUID,
	name, currency, timezone string,
	validFrom, validTo *time.Time,
	defaultSlotDuration int,
	isActive bool,
	createdAt, updatedAt time.Time,
) *PriceList {
	return &PriceList{
		id:                  id,
		platformID:          platformID,
		name:                name,
		currency:            currency,
		timezone:            timezone,
		validFrom:           validFrom,
		validTo:             validTo,
		defaultSlotDuration: defaultSlotDuration,
		isActive:            isActive,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

func (p *PriceList) ID() uuid.UUID            { return p.id }
func (p *PriceList) PlatformID() uuid.UUID    { return p.platformID }
func (p *PriceList) Name() string             { return p.name }
func (p *PriceList) Currency() string         { return p.currency }
func (p *PriceList) Timezone() string         { return p.timezone }
func (p *PriceList) ValidFrom() *time.Time    { return p.validFrom }
func (p *PriceList) ValidTo() *time.Time      { return p.validTo }
func (p *PriceList) DefaultSlotDuration() int { return p.defaultSlotDuration }
func (p *PriceList) IsActive() bool           { return p.isActive }
func (p *PriceList) CreatedAt() time.Time     { return p.createdAt }
func (p *PriceList) UpdatedAt() time.Time     { return p.updatedAt }

// Location resolves the price list timezone; construction validated it.
func (p *PriceList) Location() *time.Location {
	loc, err := time.LoadLocation(p.timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ClipRange intersects [from,to] (inclusive calendar dates) with the
// validity window. ok is false when nothing remains.
func (p *PriceList) ClipRange(from, to time.Time) (time.Time, time.Time, bool) {
	if p.validFrom != nil && from.Before(*p.validFrom) {
		from = *p.validFrom
	}
	if p.validTo != nil && to.After(*p.validTo) {
		to = *p.validTo
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// Rule is a recurring weekly pricing definition. A nil weekday applies every
// day; day-specific rules win over generic ones on overlapping windows.
type Rule struct {
	id        uuid.UUID
	priceList uuid.UUID
	weekday   *int
	window    TimeWindow
	slotPrice money.Money
	capacity  int
	isActive  bool
	createdAt time.Time
}

func NewRule(priceListID uuid.UUID, weekday *int, window TimeWindow, slotPrice money.Money, capacity int) (*Rule, error) {
	if err := ValidateWeekday(weekday); err != nil {
		return nil, err
	}
	if capacity < 0 {
		return nil, ErrNegativeCapacity
	}
	return &Rule{
		id:        uuid.New(),
		priceList: priceListID,
		weekday:   weekday,
		window:    window,
		slotPrice: slotPrice,
		capacity:  capacity,
		isActive:  true,
	}, nil
}

func ReconstructRule(
	id, priceListID uuid.UUID,
	weekday *int,
	window TimeWindow,
	slotPrice money.Money,
	capacity int,
	isActive bool,
	createdAt time.Time,
) *Rule {
	return &Rule{
		id:        id,
		priceList: priceListID,
		weekday:   weekday,
		window:    window,
		slotPrice: slotPrice,
		capacity:  capacity,
		isActive:  isActive,
		createdAt: createdAt,
	}
}

func (r *Rule) ID() uuid.UUID          { return r.id }
func (r *Rule) PriceListID() uuid.UUID { return r.priceList }
func (r *Rule) Weekday() *int          { return r.weekday }
func (r *Rule) Window() TimeWindow     { return r.window }
func (r *Rule) SlotPrice() money.Money { return r.slotPrice }
func (r *Rule) Capacity() int          { return r.capacity }
func (r *Rule) IsActive() bool         { return r.isActive }
func (r *Rule) CreatedAt() time.Time   { return r.createdAt }

// AppliesOn reports whether the rule covers the given calendar date.
func (r *Rule) AppliesOn(date time.Time) bool {
	if !r.isActive {
		return false
	}
	return r.weekday == nil || *r.weekday == ISOWeekday(date)
}

// Override is a one-off pricing definition for a single calendar date,
// unique per (price list, date, window). It shadows rules on that date.
// A nil capacity inherits from the rule it shadows.
type Override struct {
	id        uuid.UUID
	priceList uuid.UUID
	forDate   time.Time
	window    TimeWindow
	slotPrice money.Money
	capacity  *int
	isActive  bool
	createdAt time.Time
}

func NewOverride(priceListID uuid.UUID, forDate time.Time, window TimeWindow, slotPrice money.Money, capacity *int) (*Override, error) {
	if capacity != nil && *capacity < 0 {
		return nil, ErrNegativeCapacity
	}
	return &Override{
		id:        uuid.New(),
		priceList: priceListID,
		forDate:   DateOnly(forDate),
		window:    window,
		slotPrice: slotPrice,
		capacity:  capacity,
		isActive:  true,
	}, nil
}

func ReconstructOverride(
	id, priceListID uuid.UUID,
	forDate time.Time,
	window TimeWindow,
	slotPrice money.Money,
	capacity *int,
	isActive bool,
	createdAt time.Time,
) *Override {
	return &Override{
		id:        id,
		priceList: priceListID,
		forDate:   DateOnly(forDate),
		window:    window,
		slotPrice: slotPrice,
		capacity:  capacity,
		isActive:  isActive,
		createdAt: createdAt,
	}
}

func (o *Override) ID() uuid.UUID          { return o.id }
func (o *Override) PriceListID() uuid.UUID { return o.priceList }
func (o *Override) ForDate() time.Time     { return o.forDate }
func (o *Override) Window() TimeWindow     { return o.window }
func (o *Override) SlotPrice() money.Money { return o.slotPrice }
func (o *Override) Capacity() *int         { return o.capacity }
func (o *Override) IsActive() bool         { return o.isActive }
func (o *Override) CreatedAt() time.Time   { return o.createdAt }

func (o *Override) AppliesOn(date time.Time) bool {
	return o.isActive && o.forDate.Equal(DateOnly(date))
}

// DateOnly truncates an instant to its calendar date at UTC midnight.
// Calendar dates flow through the engine as such normalized instants.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

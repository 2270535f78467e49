package pricing

import (
	"fmt"
	"sort"
	"time"

	"slotbooker/internal/pkg/money"
)

// Quote is the resolved price and capacity for one candidate window.
type Quote struct {
	Price    money.Money
	Capacity int
}

// Resolver implements the pricing resolution contract: overrides for the
// exact date shadow recurring rules; within each group the candidate with
// the longest intersection wins, day-specific rules beat generic ones, and
// remaining ties break on earliest window start, then smallest id, so the
// outcome is deterministic regardless of input order.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the quote for window on date, or ok=false when no active
// override or rule covers it (the caller skips slot creation).
func (r *Resolver) Resolve(rules []*Rule, overrides []*Override, date time.Time, window TimeWindow) (Quote, bool) {
	if ov := bestOverride(overrides, date, window); ov != nil {
		capacity := 1
		if ov.Capacity() != nil {
			capacity = *ov.Capacity()
		} else if rule := bestRule(rules, date, window); rule != nil {
			// NULL override capacity inherits from the shadowed rule.
			capacity = rule.Capacity()
		}
		return Quote{Price: ov.SlotPrice(), Capacity: capacity}, true
	}

	if rule := bestRule(rules, date, window); rule != nil {
		return Quote{Price: rule.SlotPrice(), Capacity: rule.Capacity()}, true
	}

	return Quote{}, false
}

func bestOverride(overrides []*Override, date time.Time, window TimeWindow) *Override {
	var candidates []*Override
	for _, ov := range overrides {
		if !ov.AppliesOn(date) {
			continue
		}
		if ov.Window().Overlaps(window) {
			candidates = append(candidates, ov)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		ai, _ := a.Window().Intersection(window)
		bi, _ := b.Window().Intersection(window)
		if ai.DurationMinutes() != bi.DurationMinutes() {
			return ai.DurationMinutes() > bi.DurationMinutes()
		}
		if a.Window().StartMinutes() != b.Window().StartMinutes() {
			return a.Window().StartMinutes() < b.Window().StartMinutes()
		}
		return a.ID().String() < b.ID().String()
	})
	return candidates[0]
}

func bestRule(rules []*Rule, date time.Time, window TimeWindow) *Rule {
	var candidates []*Rule
	for _, rule := range rules {
		if !rule.AppliesOn(date) {
			continue
		}
		if rule.Window().Overlaps(window) {
			candidates = append(candidates, rule)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		ai, _ := a.Window().Intersection(window)
		bi, _ := b.Window().Intersection(window)
		if ai.DurationMinutes() != bi.DurationMinutes() {
			return ai.DurationMinutes() > bi.DurationMinutes()
		}
		// Equal coverage: a day-specific rule beats the generic one.
		aSpecific := a.Weekday() != nil
		bSpecific := b.Weekday() != nil
		if aSpecific != bSpecific {
			return aSpecific
		}
		if a.Window().StartMinutes() != b.Window().StartMinutes() {
			return a.Window().StartMinutes() < b.Window().StartMinutes()
		}
		return a.ID().String() < b.ID().String()
	})
	return candidates[0]
}

// RuleConflictError reports two active rules for the same weekday with
// overlapping windows, which the schema forbids.
type RuleConflictError struct {
	First  *Rule
	Second *Rule
}

func (e *RuleConflictError) Error() string {
	return fmt.Sprintf("overlapping rules %s and %s (windows %s / %s)",
		e.First.ID(), e.Second.ID(), e.First.Window(), e.Second.Window())
}

// ValidateRules rejects active same-weekday rules with overlapping windows.
// A generic (nil-weekday) rule may overlap a day-specific one; the resolver
// settles that deterministically.
func ValidateRules(rules []*Rule) error {
	for i, a := range rules {
		if !a.IsActive() {
			continue
		}
		for _, b := range rules[i+1:] {
			if !b.IsActive() {
				continue
			}
			if !sameWeekday(a.Weekday(), b.Weekday()) {
				continue
			}
			if a.Window().Overlaps(b.Window()) {
				return &RuleConflictError{First: a, Second: b}
			}
		}
	}
	return nil
}

func sameWeekday(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

package schedule

import (
	"sort"
	"time"

	"slotbooker/internal/domain/pricing"
	"slotbooker/internal/pkg/money"
)

// minPartialMinutes is the floor for a trailing partial sub-slot; anything
// shorter is dropped (capped by the slot duration itself for tiny slots).
const minPartialMinutes = 5

// PlannedSlot is one materialization candidate: UTC instants plus the
// resolved quote, ready to be upserted as a Slot.
type PlannedSlot struct {
	StartsAt time.Time
	EndsAt   time.Time
	Price    money.Money
	Capacity int
}

// Planner turns a price list's rules and overrides into the non-overlapping
// slot candidates for a date range. It is pure: persistence and conflict
// handling stay with the caller.
type Planner struct {
	resolver *pricing.Resolver
}

func NewPlanner(resolver *pricing.Resolver) *Planner {
	return &Planner{resolver: resolver}
}

// PlanRange plans every calendar date of [from,to] clipped to the price
// list validity window. It rejects rule sets that violate the
// no-overlapping-rules invariant before planning anything.
func (p *Planner) PlanRange(
	priceList *pricing.PriceList,
	rules []*pricing.Rule,
	overrides []*pricing.Override,
	from, to time.Time,
) ([]PlannedSlot, error) {
	if err := pricing.ValidateRules(rules); err != nil {
		return nil, err
	}

	from = pricing.DateOnly(from)
	to = pricing.DateOnly(to)
	from, to, ok := priceList.ClipRange(from, to)
	if !ok {
		return nil, nil
	}

	var planned []PlannedSlot
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		planned = append(planned, p.planDay(priceList, rules, overrides, date)...)
	}
	return planned, nil
}

func (p *Planner) planDay(
	priceList *pricing.PriceList,
	rules []*pricing.Rule,
	overrides []*pricing.Override,
	date time.Time,
) []PlannedSlot {
	segments := coverageSegments(rules, overrides, date)
	duration := priceList.DefaultSlotDuration()
	loc := priceList.Location()

	var planned []PlannedSlot
	for _, seg := range segments {
		for _, window := range chunkWindow(seg, duration) {
			quote, ok := p.resolver.Resolve(rules, overrides, date, window)
			if !ok {
				continue
			}
			start, end := window.UTCRange(date, loc)
			planned = append(planned, PlannedSlot{
				StartsAt: start,
				EndsAt:   end,
				Price:    quote.Price,
				Capacity: quote.Capacity,
			})
		}
	}
	return planned
}

// coverageSegments splits the day at every covering window boundary and
// merges adjacent pieces won by the same source, so an override punching a
// hole into a rule window yields rule/override/rule segments instead of
// overlapping candidates.
func coverageSegments(rules []*pricing.Rule, overrides []*pricing.Override, date time.Time) []pricing.TimeWindow {
	boundarySet := map[int]struct{}{}
	addWindow := func(w pricing.TimeWindow) {
		boundarySet[w.StartMinutes()] = struct{}{}
		boundarySet[w.EndMinutes()] = struct{}{}
	}
	for _, rule := range rules {
		if rule.AppliesOn(date) {
			addWindow(rule.Window())
		}
	}
	for _, ov := range overrides {
		if ov.AppliesOn(date) {
			addWindow(ov.Window())
		}
	}
	if len(boundarySet) == 0 {
		return nil
	}

	boundaries := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		boundaries = append(boundaries, b)
	}
	sort.Ints(boundaries)

	var segments []pricing.TimeWindow
	var lastWinner string

	for i := 0; i+1 < len(boundaries); i++ {
		piece, err := pricing.NewTimeWindow(boundaries[i], boundaries[i+1])
		if err != nil {
			continue
		}
		winner := winnerID(rules, overrides, date, piece)
		if winner == "" {
			lastWinner = ""
			continue
		}
		if winner == lastWinner && len(segments) > 0 {
			merged := segments[len(segments)-1]
			if merged.EndMinutes() == piece.StartMinutes() {
				joined, _ := pricing.NewTimeWindow(merged.StartMinutes(), piece.EndMinutes())
				segments[len(segments)-1] = joined
				continue
			}
		}
		segments = append(segments, piece)
		lastWinner = winner
	}
	return segments
}

// winnerID identifies which source would price the piece, using the same
// precedence the resolver applies: any intersecting override beats every
// rule. Pieces never straddle a window boundary, so the winner is uniform
// across the whole piece.
func winnerID(rules []*pricing.Rule, overrides []*pricing.Override, date time.Time, piece pricing.TimeWindow) string {
	if best := bestOverrideFor(overrides, date, piece); best != nil {
		return "override:" + best.ID().String()
	}
	return bestRuleFor(rules, date, piece)
}

func bestOverrideFor(overrides []*pricing.Override, date time.Time, piece pricing.TimeWindow) *pricing.Override {
	var best *pricing.Override
	for _, ov := range overrides {
		if !ov.AppliesOn(date) || !ov.Window().Overlaps(piece) {
			continue
		}
		if best == nil || overrideLess(ov, best, piece) {
			best = ov
		}
	}
	return best
}

func overrideLess(a, b *pricing.Override, piece pricing.TimeWindow) bool {
	ai, _ := a.Window().Intersection(piece)
	bi, _ := b.Window().Intersection(piece)
	if ai.DurationMinutes() != bi.DurationMinutes() {
		return ai.DurationMinutes() > bi.DurationMinutes()
	}
	if a.Window().StartMinutes() != b.Window().StartMinutes() {
		return a.Window().StartMinutes() < b.Window().StartMinutes()
	}
	return a.ID().String() < b.ID().String()
}

func bestRuleFor(rules []*pricing.Rule, date time.Time, piece pricing.TimeWindow) string {
	var best *pricing.Rule
	for _, rule := range rules {
		if !rule.AppliesOn(date) || !rule.Window().Overlaps(piece) {
			continue
		}
		if best == nil || ruleLess(rule, best, piece) {
			best = rule
		}
	}
	if best == nil {
		return ""
	}
	return "rule:" + best.ID().String()
}

func ruleLess(a, b *pricing.Rule, piece pricing.TimeWindow) bool {
	ai, _ := a.Window().Intersection(piece)
	bi, _ := b.Window().Intersection(piece)
	if ai.DurationMinutes() != bi.DurationMinutes() {
		return ai.DurationMinutes() > bi.DurationMinutes()
	}
	aSpecific := a.Weekday() != nil
	bSpecific := b.Weekday() != nil
	if aSpecific != bSpecific {
		return aSpecific
	}
	if a.Window().StartMinutes() != b.Window().StartMinutes() {
		return a.Window().StartMinutes() < b.Window().StartMinutes()
	}
	return a.ID().String() < b.ID().String()
}

// chunkWindow cuts a covering window into slot-duration pieces anchored at
// the window start. A trailing partial piece survives only when it is at
// least min(minPartialMinutes, duration) long.
func chunkWindow(window pricing.TimeWindow, durationMinutes int) []pricing.TimeWindow {
	if durationMinutes <= 0 {
		return nil
	}
	minTail := min(minPartialMinutes, durationMinutes)

	var chunks []pricing.TimeWindow
	for start := window.StartMinutes(); start < window.EndMinutes(); start += durationMinutes {
		end := min(start+durationMinutes, window.EndMinutes())
		if end-start < durationMinutes && end-start < minTail {
			break
		}
		chunk, err := pricing.NewTimeWindow(start, end)
		if err != nil {
			break
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

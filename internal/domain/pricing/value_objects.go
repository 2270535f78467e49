package pricing

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeWindow = errors.New("invalid time window")
	ErrInvalidWeekday    = errors.New("weekday must be between 1 and 7")
)

const minutesPerDay = 24 * 60

// TimeWindow is a half-open [start,end) range of minutes since local
// midnight in the price list's timezone.
type TimeWindow struct {
	start int
	end   int
}

func NewTimeWindow(startMinutes, endMinutes int) (TimeWindow, error) {
	if startMinutes < 0 || endMinutes > minutesPerDay || startMinutes >= endMinutes {
		return TimeWindow{}, ErrInvalidTimeWindow
	}
	return TimeWindow{start: startMinutes, end: endMinutes}, nil
}

// MustWindow builds a window from "HH:MM" bounds, panicking on bad input.
// For fixtures and seed data only.
func MustWindow(start, end string) TimeWindow {
	w, err := NewTimeWindow(parseClock(start), parseClock(end))
	if err != nil {
		panic(err)
	}
	return w
}

func parseClock(s string) int {
	t, err := time.Parse("15:04", s)
	if err != nil {
		panic(err)
	}
	return t.Hour()*60 + t.Minute()
}

func (w TimeWindow) StartMinutes() int { return w.start }
func (w TimeWindow) EndMinutes() int   { return w.end }

func (w TimeWindow) DurationMinutes() int {
	return w.end - w.start
}

func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start < other.end && other.start < w.end
}

// Intersection returns the overlapping part of two windows.
func (w TimeWindow) Intersection(other TimeWindow) (TimeWindow, bool) {
	start := max(w.start, other.start)
	end := min(w.end, other.end)
	if start >= end {
		return TimeWindow{}, false
	}
	return TimeWindow{start: start, end: end}, true
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.start/60, w.start%60, w.end/60, w.end%60)
}

// UTCRange anchors the window on a calendar date in loc and returns UTC
// instants. Going through time.Date keeps DST transitions correct.
func (w TimeWindow) UTCRange(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, w.start, 0, 0, loc)
	end := time.Date(y, m, d, 0, w.end, 0, 0, loc)
	return start.UTC(), end.UTC()
}

// ISOWeekday maps a date to ISO numbering: 1=Monday .. 7=Sunday.
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func ValidateWeekday(weekday *int) error {
	if weekday == nil {
		return nil
	}
	if *weekday < 1 || *weekday > 7 {
		return ErrInvalidWeekday
	}
	return nil
}

package recurrence

import (
	"sort"
	"time"

	"github.com/jorin/whenfree/internal/interval"
)

// Occurrence is one concrete instance of a recurring event. Occurrences are
// generated lazily per projection call and never persisted.
type Occurrence struct {
	Start         time.Time
	End           time.Time
	SourceEventID string
}

// Iterator steps a rule forward through its occurrences that intersect the
// query window. It is finite and restartable.
type Iterator struct {
	rule     Rule
	window   interval.Interval
	sourceID string

	step    int // occurrence index from the anchor, weekly handled separately
	emitted int // total occurrences produced so far, for Count accounting
	weekly  *weeklyState
}

type weeklyState struct {
	weekAnchor time.Time // midnight of the anchor week's Monday
	days       []time.Weekday
	week       int // week-multiple index
	dayIdx     int
}

// NewIterator validates the rule and prepares projection over the window.
func NewIterator(r Rule, window interval.Interval, sourceID string) (*Iterator, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	it := &Iterator{rule: r, window: window, sourceID: sourceID}
	it.Reset()
	return it, nil
}

// Reset restarts projection from the anchor.
func (it *Iterator) Reset() {
	it.step = 0
	it.emitted = 0
	it.weekly = nil
	if it.rule.Freq == Weekly && len(it.rule.ByWeekday) > 0 {
		days := make([]time.Weekday, len(it.rule.ByWeekday))
		copy(days, it.rule.ByWeekday)
		sort.Slice(days, func(i, j int) bool {
			return mondayIndex(days[i]) < mondayIndex(days[j])
		})
		it.weekly = &weeklyState{
			weekAnchor: startOfWeek(it.rule.Start),
			days:       days,
		}
	}
}

// Next returns the next occurrence whose interval intersects the window.
// Generation is monotonic in start time, so iteration stops at the first
// occurrence at or beyond the window's end, or when Until or Count is hit.
func (it *Iterator) Next() (Occurrence, bool) {
	for {
		start, ok := it.nextStart()
		if !ok {
			return Occurrence{}, false
		}
		if it.rule.Count > 0 && it.emitted >= it.rule.Count {
			return Occurrence{}, false
		}
		it.emitted++

		if it.rule.Until != nil && start.After(*it.rule.Until) {
			return Occurrence{}, false
		}
		if !start.Before(it.window.End) {
			return Occurrence{}, false
		}

		end := start.Add(it.rule.Duration)
		if end.After(it.window.Start) {
			return Occurrence{Start: start, End: end, SourceEventID: it.sourceID}, true
		}
		// Before the window: keep stepping.
	}
}

// nextStart produces occurrence starts in ascending order, beginning with
// the anchor itself.
func (it *Iterator) nextStart() (time.Time, bool) {
	if it.weekly != nil {
		return it.nextWeeklyStart()
	}

	k := it.step
	it.step++
	anchor := it.rule.Start

	switch it.rule.Freq {
	case Daily:
		return anchor.AddDate(0, 0, k*it.rule.Interval), true
	case Weekly:
		return anchor.AddDate(0, 0, 7*k*it.rule.Interval), true
	case Monthly:
		return addMonthsClamped(anchor, k*it.rule.Interval), true
	case Yearly:
		return addYearsClamped(anchor, k*it.rule.Interval), true
	default:
		return time.Time{}, false
	}
}

// nextWeeklyStart walks BYDAY weekdays within each interval-th week,
// skipping candidates before the anchor (DTSTART is always the first
// occurrence per RFC 5545, but only if its weekday is in the set; the
// backend always includes it, so candidates earlier in the anchor week are
// dropped).
func (it *Iterator) nextWeeklyStart() (time.Time, bool) {
	ws := it.weekly
	for {
		if ws.dayIdx >= len(ws.days) {
			ws.dayIdx = 0
			ws.week++
		}
		day := ws.days[ws.dayIdx]
		ws.dayIdx++

		weekStart := ws.weekAnchor.AddDate(0, 0, 7*ws.week*it.rule.Interval)
		date := weekStart.AddDate(0, 0, mondayIndex(day))
		start := time.Date(date.Year(), date.Month(), date.Day(),
			it.rule.Start.Hour(), it.rule.Start.Minute(), it.rule.Start.Second(),
			it.rule.Start.Nanosecond(), it.rule.Start.Location())

		if start.Before(it.rule.Start) {
			continue
		}
		return start, true
	}
}

// Project collects every occurrence of the rule intersecting the window.
func Project(r Rule, window interval.Interval, sourceID string) ([]Occurrence, error) {
	it, err := NewIterator(r, window, sourceID)
	if err != nil {
		return nil, err
	}
	var out []Occurrence
	for {
		occ, ok := it.Next()
		if !ok {
			return out, nil
		}
		out = append(out, occ)
	}
}

// addYearsClamped advances the anchor by whole years, clamping the day of
// month to the target month's length. A Feb 29 anchor lands on Feb 28 in
// non-leap years, never on Mar 1. Each step is computed from the anchor, so
// leap years recover the original day.
func addYearsClamped(anchor time.Time, years int) time.Time {
	y := anchor.Year() + years
	m := anchor.Month()
	d := anchor.Day()
	if last := daysInMonth(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, anchor.Hour(), anchor.Minute(), anchor.Second(),
		anchor.Nanosecond(), anchor.Location())
}

// addMonthsClamped advances the anchor by whole months with the same
// day-of-month clamping (a day-31 anchor lands on the 30th or 28th/29th).
func addMonthsClamped(anchor time.Time, months int) time.Time {
	total := int(anchor.Month()) - 1 + months
	y := anchor.Year() + total/12
	m := time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero; normalize for
		// negative month offsets.
		y = anchor.Year() + (total-11)/12
		m = time.Month((total%12+12)%12 + 1)
	}
	d := anchor.Day()
	if last := daysInMonth(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, anchor.Hour(), anchor.Minute(), anchor.Second(),
		anchor.Nanosecond(), anchor.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// startOfWeek returns midnight of the Monday of t's week (RFC 5545 default
// week start).
func startOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -mondayIndex(t.Weekday()))
}

// mondayIndex maps time.Weekday to a Monday-based index 0..6.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

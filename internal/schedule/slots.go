package schedule

import (
	"time"

	"github.com/jorin/whenfree/internal/interval"
)

// Slot is a candidate booking interval of exactly the requested duration.
// Slots produced from a mutual free timeline satisfy every calendar in the
// query simultaneously.
type Slot struct {
	Interval     interval.Interval
	SatisfiesAll bool
}

// SlotIterator walks a free timeline left to right, yielding one candidate
// slot per maximal free stretch that can hold the requested duration. It is
// finite and restartable; Next never returns slots out of order.
type SlotIterator struct {
	candidates []interval.Interval
	duration   time.Duration
	pos        int
}

// NewSlotIterator prepares candidate emission over the given mutual free
// timeline. The floor is max(window.Start, now): no slot may start in the
// past relative to wall-clock time at evaluation, regardless of the window
// the caller asked for. Working hours, when present, are applied by
// splitting free intervals at day boundaries and keeping the permitted
// sub-intervals.
func NewSlotIterator(free interval.Timeline, q Query, now time.Time) *SlotIterator {
	notBefore := q.Window.Start
	if now.After(notBefore) {
		notBefore = now
	}
	floor := interval.Interval{Start: notBefore, End: q.Window.End}

	var candidates []interval.Interval
	if notBefore.Before(q.Window.End) {
		for _, f := range free {
			clipped, ok := interval.Intersect(f, floor)
			if !ok {
				continue
			}
			for _, sub := range applyWorkingHours(clipped, q.Hours) {
				if sub.Duration() >= q.SlotDuration {
					candidates = append(candidates, sub)
				}
			}
		}
	}

	return &SlotIterator{candidates: candidates, duration: q.SlotDuration}
}

// Next yields the next candidate slot, truncated to exactly the requested
// duration at the start of its free stretch (first fit).
func (it *SlotIterator) Next() (Slot, bool) {
	if it.pos >= len(it.candidates) {
		return Slot{}, false
	}
	c := it.candidates[it.pos]
	it.pos++
	return Slot{
		Interval:     interval.Interval{Start: c.Start, End: c.Start.Add(it.duration)},
		SatisfiesAll: true,
	}, true
}

// Reset restarts iteration from the first candidate.
func (it *SlotIterator) Reset() {
	it.pos = 0
}

// FindSlots returns all candidate slots in ascending start order. A window
// entirely in the past yields an empty result, not an error.
func FindSlots(free interval.Timeline, q Query, now time.Time) []Slot {
	it := NewSlotIterator(free, q, now)
	var out []Slot
	for {
		slot, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, slot)
	}
}

// applyWorkingHours splits the interval at local day boundaries and keeps
// the sub-intervals that fall on an allowed weekday within [StartHour,
// EndHour). A nil filter passes the interval through unchanged.
func applyWorkingHours(iv interval.Interval, wh *WorkingHours) []interval.Interval {
	if wh == nil {
		return []interval.Interval{iv}
	}

	var out []interval.Interval
	dayStart := startOfDay(iv.Start)
	for dayStart.Before(iv.End) {
		nextDay := dayStart.AddDate(0, 0, 1)
		if wh.allowsDay(dayStart.Weekday()) {
			allowed := interval.Interval{
				Start: dayStart.Add(time.Duration(wh.StartHour) * time.Hour),
				End:   dayStart.Add(time.Duration(wh.EndHour) * time.Hour),
			}
			if sub, ok := interval.Intersect(iv, allowed); ok {
				out = append(out, sub)
			}
		}
		dayStart = nextDay
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

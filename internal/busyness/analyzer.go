package busyness

import (
	"sort"
	"time"

	"github.com/jorin/whenfree/internal/interval"
)

// Event is one calendar event already fetched from the backend. Only the
// fields the analyzer needs are carried.
type Event struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
}

// DayBucket accumulates how occupied one calendar day was. Date is midnight
// UTC of the bucket's day. Buckets are created fresh per call and never
// persisted.
type DayBucket struct {
	Date       time.Time
	EventCount int
	TotalBusy  time.Duration
	Flagged    bool
}

// Analyze buckets events into per-day counts and durations. Each event is
// clipped to the window, then to each UTC day it touches, so a
// midnight-spanning event contributes duration to both days without double
// counting. Per-day attribution cannot exceed 24h. One bucket is returned
// for every day the window covers, including empty ones, sorted ascending.
func Analyze(events []Event, window interval.Interval) []DayBucket {
	buckets := make(map[time.Time]*DayBucket)
	for day := dayOf(window.Start); day.Before(window.End); day = day.AddDate(0, 0, 1) {
		buckets[day] = &DayBucket{Date: day}
	}

	for _, ev := range events {
		iv, err := interval.New(ev.Start, ev.End)
		if err != nil {
			continue // zero-length or inverted events carry no busy time
		}
		clipped, ok := interval.Intersect(iv, window)
		if !ok {
			continue
		}

		for day := dayOf(clipped.Start); day.Before(clipped.End); day = day.AddDate(0, 0, 1) {
			dayEnd := day.AddDate(0, 0, 1)
			piece, ok := interval.Intersect(clipped, interval.Interval{Start: day, End: dayEnd})
			if !ok {
				continue
			}
			b, exists := buckets[day]
			if !exists {
				b = &DayBucket{Date: day}
				buckets[day] = b
			}
			b.EventCount++
			b.TotalBusy += piece.Duration()
		}
	}

	out := make([]DayBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// dayOf returns midnight UTC of t's day.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

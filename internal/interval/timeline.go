package interval

import (
	"sort"
	"time"
)

// Timeline is an ordered sequence of pairwise-disjoint intervals. Two
// invariants hold for every Timeline produced by this package: intervals are
// sorted ascending by start, and no two intervals overlap or touch.
type Timeline []Interval

// Normalize sorts the given intervals and folds overlapping or touching
// neighbors into single intervals. The input is not modified.
func Normalize(ivs []Interval) Timeline {
	if len(ivs) == 0 {
		return nil
	}

	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	out := Timeline{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &out[len(out)-1]
		if merged, ok := Merge(*last, cur); ok {
			*last = merged
			continue
		}
		out = append(out, cur)
	}
	return out
}

// Complement returns the gaps of the timeline within the window: every
// sub-interval of window not covered by tl. An empty timeline yields the
// whole window.
func (tl Timeline) Complement(window Interval) Timeline {
	var out Timeline
	cursor := window.Start

	for _, busy := range tl {
		if !busy.Start.Before(window.End) {
			break
		}
		if busy.End.Before(window.Start) {
			continue
		}
		if busy.Start.After(cursor) {
			gapEnd := busy.Start
			if gapEnd.After(window.End) {
				gapEnd = window.End
			}
			if cursor.Before(gapEnd) {
				out = append(out, Interval{Start: cursor, End: gapEnd})
			}
		}
		if busy.End.After(cursor) {
			cursor = busy.End
		}
	}

	if cursor.Before(window.End) {
		out = append(out, Interval{Start: cursor, End: window.End})
	}
	return out
}

// IntersectTimelines returns the instants covered by both timelines, as a
// normalized timeline. Classic merge-sweep over two sorted interval lists.
func IntersectTimelines(a, b Timeline) Timeline {
	var out Timeline
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if overlap, ok := Intersect(a[i], b[j]); ok {
			out = append(out, overlap)
		}
		// Advance whichever interval ends first; the other may still
		// overlap the next one.
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}

// IntersectAll folds IntersectTimelines over all the given timelines. With no
// input it returns nil; callers wanting "whole window" semantics for the empty
// set must handle that case themselves.
func IntersectAll(timelines []Timeline) Timeline {
	if len(timelines) == 0 {
		return nil
	}
	out := timelines[0]
	for _, tl := range timelines[1:] {
		out = IntersectTimelines(out, tl)
		if len(out) == 0 {
			return nil
		}
	}
	return out
}

// TotalDuration sums the length of all intervals in the timeline.
func (tl Timeline) TotalDuration() time.Duration {
	var total time.Duration
	for _, iv := range tl {
		total += iv.Duration()
	}
	return total
}

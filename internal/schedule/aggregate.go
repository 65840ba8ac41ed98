package schedule

import (
	"github.com/jorin/whenfree/internal/interval"
)

// BusyTimelines normalizes the raw busy periods reported for each calendar
// into one disjoint, sorted timeline per calendar. Calendars with no busy
// periods map to an empty timeline.
func BusyTimelines(busy map[string][]interval.Interval) map[string]interval.Timeline {
	out := make(map[string]interval.Timeline, len(busy))
	for cal, periods := range busy {
		out[cal] = interval.Normalize(periods)
	}
	return out
}

// MutualFree computes the time within the window that is free on every one of
// the given calendars simultaneously: each calendar's free timeline is the
// complement of its normalized busy timeline within the window, and the
// result is the intersection of all free timelines.
//
// The calendars slice drives which entries of busy participate; a calendar
// missing from the map is treated as having no busy periods (entirely free).
// An empty calendar set is a caller error.
func MutualFree(calendars []string, busy map[string][]interval.Interval, window interval.Interval) (interval.Timeline, error) {
	if len(calendars) == 0 {
		return nil, &InvalidQueryError{Reason: "calendar set is empty"}
	}

	free := make([]interval.Timeline, 0, len(calendars))
	for _, cal := range calendars {
		timeline := interval.Normalize(busy[cal])
		free = append(free, timeline.Complement(window))
	}
	return interval.IntersectAll(free), nil
}

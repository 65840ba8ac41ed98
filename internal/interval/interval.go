package interval

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval indicates a range whose start is not strictly before its
// end. Such values are treated as programming errors and are rejected at
// construction, so interval arithmetic never has to consider them.
var ErrInvalidInterval = errors.New("interval: start must be before end")

// Interval is a half-open time range [Start, End). Values are immutable;
// Merge and Intersect return new instances.
type Interval struct {
	Start time.Time
	End   time.Time
}

// New validates and creates an Interval. Zero-length and inverted ranges are
// rejected with ErrInvalidInterval.
func New(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: start=%s end=%s", ErrInvalidInterval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Contains reports whether t falls within [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Overlaps reports whether the two intervals share any instant.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Merge returns the combined interval if a and b overlap or touch, and false
// otherwise.
func Merge(a, b Interval) (Interval, bool) {
	if a.Start.After(b.Start) {
		a, b = b, a
	}
	// b starts after a ends with a gap in between: nothing to merge.
	if b.Start.After(a.End) {
		return Interval{}, false
	}
	end := a.End
	if b.End.After(end) {
		end = b.End
	}
	return Interval{Start: a.Start, End: end}, true
}

// Intersect returns the overlap of a and b, and false when they are disjoint.
// Touching intervals have an empty intersection and report false.
func Intersect(a, b Interval) (Interval, bool) {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !start.Before(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

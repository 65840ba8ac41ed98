package busyness

import "math"

// Flagger decides whether a day's load is out of the ordinary given the
// buckets that precede it. Implementations own the policy; the analyzer
// only computes the statistics.
type Flagger interface {
	Flag(history []DayBucket, day DayBucket) bool
}

// BaselineFlagger flags a day whose total busy duration exceeds the mean
// plus Sigma standard deviations of the trailing TrailingDays buckets.
// Days without enough history are never flagged.
type BaselineFlagger struct {
	TrailingDays int
	Sigma        float64
}

// DefaultBaselineFlagger uses a week of history and two standard deviations.
func DefaultBaselineFlagger() BaselineFlagger {
	return BaselineFlagger{TrailingDays: 7, Sigma: 2.0}
}

func (f BaselineFlagger) Flag(history []DayBucket, day DayBucket) bool {
	n := f.TrailingDays
	if n <= 0 {
		n = 7
	}
	if len(history) < n {
		return false
	}
	trailing := history[len(history)-n:]

	var sum float64
	for _, b := range trailing {
		sum += b.TotalBusy.Hours()
	}
	mean := sum / float64(n)

	var sq float64
	for _, b := range trailing {
		d := b.TotalBusy.Hours() - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(n))

	threshold := mean + f.Sigma*stddev
	return day.TotalBusy.Hours() > threshold
}

// ApplyFlags runs the flagger over chronologically sorted buckets, marking
// each against the buckets before it. The input slice is annotated in place
// and returned.
func ApplyFlags(buckets []DayBucket, f Flagger) []DayBucket {
	if f == nil {
		return buckets
	}
	for i := range buckets {
		buckets[i].Flagged = f.Flag(buckets[:i], buckets[i])
	}
	return buckets
}

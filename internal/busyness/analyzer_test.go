package busyness

import (
	"testing"
	"time"

	"github.com/jorin/whenfree/internal/interval"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour int) time.Time {
	return time.Date(2025, time.March, d, hour, 0, 0, 0, time.UTC)
}

func window(t *testing.T, start, end time.Time) interval.Interval {
	t.Helper()
	w, err := interval.New(start, end)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	return w
}

func TestAnalyzeMidnightSpanningEvent(t *testing.T) {
	// 23:00 on day 10 to 01:00 on day 11: one hour attributed to each day.
	events := []Event{
		{ID: "ev1", Summary: "red-eye", Start: at(10, 23), End: at(11, 1)},
	}
	buckets := Analyze(events, window(t, day(10), day(12)))

	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	for i, want := range []struct {
		date  time.Time
		count int
		busy  time.Duration
	}{
		{day(10), 1, time.Hour},
		{day(11), 1, time.Hour},
	} {
		b := buckets[i]
		if !b.Date.Equal(want.date) {
			t.Errorf("bucket %d date = %v, want %v", i, b.Date, want.date)
		}
		if b.EventCount != want.count {
			t.Errorf("bucket %d count = %d, want %d", i, b.EventCount, want.count)
		}
		if b.TotalBusy != want.busy {
			t.Errorf("bucket %d busy = %v, want %v", i, b.TotalBusy, want.busy)
		}
	}

	var total time.Duration
	for _, b := range buckets {
		total += b.TotalBusy
		if b.TotalBusy > 24*time.Hour {
			t.Errorf("bucket %v exceeds 24h: %v", b.Date, b.TotalBusy)
		}
	}
	if total != 2*time.Hour {
		t.Errorf("total busy = %v, want 2h", total)
	}
}

func TestAnalyzeEmptyDaysPresent(t *testing.T) {
	events := []Event{
		{ID: "ev1", Start: at(11, 9), End: at(11, 10)},
	}
	buckets := Analyze(events, window(t, day(10), day(13)))

	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}
	if buckets[0].EventCount != 0 || buckets[0].TotalBusy != 0 {
		t.Errorf("day 10 should be empty, got %+v", buckets[0])
	}
	if buckets[1].EventCount != 1 || buckets[1].TotalBusy != time.Hour {
		t.Errorf("day 11 = %+v, want 1 event, 1h", buckets[1])
	}
	if buckets[2].EventCount != 0 {
		t.Errorf("day 12 should be empty, got %+v", buckets[2])
	}
}

func TestAnalyzeClipsToWindow(t *testing.T) {
	// Event starts before the window; only the inside portion counts.
	events := []Event{
		{ID: "ev1", Start: at(9, 22), End: at(10, 2)},
	}
	buckets := Analyze(events, window(t, day(10), day(11)))

	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	if buckets[0].TotalBusy != 2*time.Hour {
		t.Errorf("busy = %v, want 2h", buckets[0].TotalBusy)
	}
}

func TestAnalyzeSkipsDegenerateEvents(t *testing.T) {
	events := []Event{
		{ID: "zero", Start: at(10, 9), End: at(10, 9)},
		{ID: "inverted", Start: at(10, 11), End: at(10, 10)},
	}
	buckets := Analyze(events, window(t, day(10), day(11)))
	if buckets[0].EventCount != 0 {
		t.Errorf("degenerate events counted: %+v", buckets[0])
	}
}

func TestBaselineFlagger(t *testing.T) {
	f := BaselineFlagger{TrailingDays: 3, Sigma: 2.0}

	history := []DayBucket{
		{Date: day(1), TotalBusy: 4 * time.Hour},
		{Date: day(2), TotalBusy: 5 * time.Hour},
		{Date: day(3), TotalBusy: 4 * time.Hour},
	}

	quiet := DayBucket{Date: day(4), TotalBusy: 5 * time.Hour}
	if f.Flag(history, quiet) {
		t.Error("ordinary day flagged")
	}

	loaded := DayBucket{Date: day(4), TotalBusy: 12 * time.Hour}
	if !f.Flag(history, loaded) {
		t.Error("overloaded day not flagged")
	}
}

func TestBaselineFlaggerNeedsHistory(t *testing.T) {
	f := BaselineFlagger{TrailingDays: 7, Sigma: 1.0}
	day4 := DayBucket{Date: day(4), TotalBusy: 20 * time.Hour}
	if f.Flag(nil, day4) {
		t.Error("flagged with no history")
	}
	short := []DayBucket{{Date: day(1), TotalBusy: time.Hour}}
	if f.Flag(short, day4) {
		t.Error("flagged with insufficient history")
	}
}

func TestApplyFlags(t *testing.T) {
	buckets := []DayBucket{
		{Date: day(1), TotalBusy: 4 * time.Hour},
		{Date: day(2), TotalBusy: 4 * time.Hour},
		{Date: day(3), TotalBusy: 4 * time.Hour},
		{Date: day(4), TotalBusy: 14 * time.Hour},
	}
	out := ApplyFlags(buckets, BaselineFlagger{TrailingDays: 3, Sigma: 2.0})

	for i := 0; i < 3; i++ {
		if out[i].Flagged {
			t.Errorf("day %d flagged, want unflagged", i+1)
		}
	}
	if !out[3].Flagged {
		t.Error("spike day not flagged")
	}
}

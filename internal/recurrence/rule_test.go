package recurrence

import (
	"errors"
	"testing"
	"time"
)

func TestParseRule(t *testing.T) {
	start := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name string
		line string
		want Rule
	}{
		{
			name: "daily with prefix",
			line: "RRULE:FREQ=DAILY",
			want: Rule{Freq: Daily, Interval: 1},
		},
		{
			name: "weekly byday",
			line: "FREQ=WEEKLY;BYDAY=MO,WE",
			want: Rule{Freq: Weekly, Interval: 1, ByWeekday: []time.Weekday{time.Monday, time.Wednesday}},
		},
		{
			name: "monthly interval",
			line: "RRULE:FREQ=MONTHLY;INTERVAL=2",
			want: Rule{Freq: Monthly, Interval: 2},
		},
		{
			name: "yearly count",
			line: "RRULE:FREQ=YEARLY;COUNT=4",
			want: Rule{Freq: Yearly, Interval: 1, Count: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRule(tt.line, start, end)
			if err != nil {
				t.Fatalf("ParseRule(%q) error: %v", tt.line, err)
			}
			if got.Freq != tt.want.Freq {
				t.Errorf("Freq = %v, want %v", got.Freq, tt.want.Freq)
			}
			if got.Interval != tt.want.Interval {
				t.Errorf("Interval = %d, want %d", got.Interval, tt.want.Interval)
			}
			if got.Count != tt.want.Count {
				t.Errorf("Count = %d, want %d", got.Count, tt.want.Count)
			}
			if len(got.ByWeekday) != len(tt.want.ByWeekday) {
				t.Fatalf("ByWeekday = %v, want %v", got.ByWeekday, tt.want.ByWeekday)
			}
			for i, wd := range tt.want.ByWeekday {
				if got.ByWeekday[i] != wd {
					t.Errorf("ByWeekday[%d] = %v, want %v", i, got.ByWeekday[i], wd)
				}
			}
			if !got.Start.Equal(start) {
				t.Errorf("Start = %v, want %v", got.Start, start)
			}
			if got.Duration != time.Hour {
				t.Errorf("Duration = %v, want 1h", got.Duration)
			}
		})
	}
}

func TestParseRuleUntil(t *testing.T) {
	start := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	r, err := ParseRule("RRULE:FREQ=DAILY;UNTIL=20250310T090000Z", start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("ParseRule error: %v", err)
	}
	if r.Until == nil {
		t.Fatal("Until = nil, want set")
	}
	want := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	if !r.Until.Equal(want) {
		t.Errorf("Until = %v, want %v", r.Until, want)
	}
}

func TestParseRuleRejectsSubDaily(t *testing.T) {
	start := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	_, err := ParseRule("RRULE:FREQ=HOURLY", start, start.Add(time.Hour))
	if !errors.Is(err, ErrUnsupportedRule) {
		t.Fatalf("ParseRule(HOURLY) error = %v, want ErrUnsupportedRule", err)
	}
}

func TestParseRuleRejectsInvertedAnchor(t *testing.T) {
	start := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	if _, err := ParseRule("RRULE:FREQ=DAILY", start, start); err == nil {
		t.Fatal("ParseRule with zero-length anchor succeeded, want error")
	}
}

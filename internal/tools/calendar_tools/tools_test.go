package calendar_tools

import (
	"reflect"
	"testing"
	"time"

	"github.com/jorin/whenfree/internal/schedule"
)

func TestCalendarIDFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{
			name:     "no calendarId provided",
			args:     map[string]interface{}{},
			expected: "primary",
		},
		{
			name: "calendarId provided",
			args: map[string]interface{}{
				"calendarId": "team@example.com",
			},
			expected: "team@example.com",
		},
		{
			name: "empty calendarId",
			args: map[string]interface{}{
				"calendarId": "",
			},
			expected: "primary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calendarIDFromArgs(tt.args)
			if result != tt.expected {
				t.Errorf("calendarIDFromArgs() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestParseRFC3339Arg(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]interface{}
		key       string
		expected  time.Time
		expectErr bool
	}{
		{
			name:     "valid timestamp",
			args:     map[string]interface{}{"timeMin": "2025-01-15T09:00:00Z"},
			key:      "timeMin",
			expected: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name:      "missing key",
			args:      map[string]interface{}{},
			key:       "timeMin",
			expectErr: true,
		},
		{
			name:      "empty value",
			args:      map[string]interface{}{"timeMin": ""},
			key:       "timeMin",
			expectErr: true,
		},
		{
			name:      "not a string",
			args:      map[string]interface{}{"timeMin": 42},
			key:       "timeMin",
			expectErr: true,
		},
		{
			name:      "malformed timestamp",
			args:      map[string]interface{}{"timeMin": "January 15th"},
			key:       "timeMin",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRFC3339Arg(tt.args, tt.key)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("parseRFC3339Arg() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestSplitCSVArg(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		expected []string
	}{
		{
			name:     "missing key",
			args:     map[string]interface{}{},
			expected: nil,
		},
		{
			name:     "single entry",
			args:     map[string]interface{}{"attendees": "alice@example.com"},
			expected: []string{"alice@example.com"},
		},
		{
			name:     "multiple entries with whitespace",
			args:     map[string]interface{}{"attendees": "alice@example.com, bob@example.com ,carol@example.com"},
			expected: []string{"alice@example.com", "bob@example.com", "carol@example.com"},
		},
		{
			name:     "empty entries dropped",
			args:     map[string]interface{}{"attendees": "alice@example.com,,  ,bob@example.com"},
			expected: []string{"alice@example.com", "bob@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitCSVArg(tt.args, "attendees")
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("splitCSVArg() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestParseWorkingHoursArgs(t *testing.T) {
	t.Run("absent yields nil", func(t *testing.T) {
		wh, err := parseWorkingHoursArgs(map[string]interface{}{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if wh != nil {
			t.Errorf("expected nil working hours, got %+v", wh)
		}
	})

	t.Run("both bounds", func(t *testing.T) {
		wh, err := parseWorkingHoursArgs(map[string]interface{}{
			"workingHoursStart": float64(9),
			"workingHoursEnd":   float64(17),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if wh == nil || wh.StartHour != 9 || wh.EndHour != 17 {
			t.Errorf("unexpected working hours: %+v", wh)
		}
		if wh.Weekdays != nil {
			t.Errorf("expected nil weekdays, got %v", wh.Weekdays)
		}
	})

	t.Run("only one bound fails", func(t *testing.T) {
		if _, err := parseWorkingHoursArgs(map[string]interface{}{
			"workingHoursStart": float64(9),
		}); err == nil {
			t.Error("expected error for missing workingHoursEnd")
		}
	})

	t.Run("with weekdays", func(t *testing.T) {
		wh, err := parseWorkingHoursArgs(map[string]interface{}{
			"workingHoursStart": float64(9),
			"workingHoursEnd":   float64(17),
			"workingDays":       "Mon, Wed ,fri",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := map[time.Weekday]bool{
			time.Monday:    true,
			time.Wednesday: true,
			time.Friday:    true,
		}
		if !reflect.DeepEqual(wh.Weekdays, want) {
			t.Errorf("weekdays = %v, want %v", wh.Weekdays, want)
		}
	})

	t.Run("unknown weekday fails", func(t *testing.T) {
		if _, err := parseWorkingHoursArgs(map[string]interface{}{
			"workingHoursStart": float64(9),
			"workingHoursEnd":   float64(17),
			"workingDays":       "Funday",
		}); err == nil {
			t.Error("expected error for unknown weekday")
		}
	})
}

func TestBuildQuery(t *testing.T) {
	validArgs := func() map[string]interface{} {
		return map[string]interface{}{
			"timeMin":         "2025-01-15T09:00:00Z",
			"timeMax":         "2025-01-15T17:00:00Z",
			"durationMinutes": float64(30),
		}
	}

	t.Run("valid query", func(t *testing.T) {
		q, err := buildQuery(validArgs(), []string{"primary", "bob@example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.SlotDuration != 30*time.Minute {
			t.Errorf("SlotDuration = %v, want 30m", q.SlotDuration)
		}
		if len(q.Calendars) != 2 {
			t.Errorf("Calendars = %v", q.Calendars)
		}
	})

	t.Run("missing duration", func(t *testing.T) {
		args := validArgs()
		delete(args, "durationMinutes")
		if _, err := buildQuery(args, []string{"primary"}); err == nil {
			t.Error("expected error for missing durationMinutes")
		}
	})

	t.Run("inverted window rejected by validation", func(t *testing.T) {
		args := validArgs()
		args["timeMin"] = "2025-01-15T17:00:00Z"
		args["timeMax"] = "2025-01-15T09:00:00Z"
		if _, err := buildQuery(args, []string{"primary"}); err == nil {
			t.Error("expected validation error for inverted window")
		}
	})

	t.Run("empty calendar set rejected", func(t *testing.T) {
		if _, err := buildQuery(validArgs(), nil); err == nil {
			t.Error("expected validation error for empty calendar set")
		}
	})
}

func TestFindRRuleLine(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected string
	}{
		{
			name:     "no lines",
			lines:    nil,
			expected: "",
		},
		{
			name:     "rrule only",
			lines:    []string{"RRULE:FREQ=WEEKLY;BYDAY=MO"},
			expected: "RRULE:FREQ=WEEKLY;BYDAY=MO",
		},
		{
			name:     "rrule among exdates",
			lines:    []string{"EXDATE:20250120T090000Z", "RRULE:FREQ=DAILY", "RDATE:20250125T090000Z"},
			expected: "RRULE:FREQ=DAILY",
		},
		{
			name:     "no rrule",
			lines:    []string{"RDATE:20250125T090000Z"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findRRuleLine(tt.lines); got != tt.expected {
				t.Errorf("findRRuleLine() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestOutcomeLabel(t *testing.T) {
	tests := []struct {
		status   schedule.OutcomeStatus
		expected string
	}{
		{schedule.StatusScheduled, "scheduled"},
		{schedule.StatusNoSlotFound, "no_slot_found"},
		{schedule.StatusExternalFailure, "external_failure"},
	}

	for _, tt := range tests {
		if got := outcomeLabel(tt.status); got != tt.expected {
			t.Errorf("outcomeLabel(%v) = %q, expected %q", tt.status, got, tt.expected)
		}
	}
}

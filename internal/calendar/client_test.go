package calendar

import (
	"errors"
	"fmt"
	"testing"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

func TestToEventSummaryTimed(t *testing.T) {
	event := &calendar.Event{
		Id:      "ev1",
		Summary: "Design review",
		Status:  "confirmed",
		Start:   &calendar.EventDateTime{DateTime: "2025-03-10T09:00:00Z"},
		End:     &calendar.EventDateTime{DateTime: "2025-03-10T10:00:00Z"},
		Creator: &calendar.EventCreator{Email: "alice@example.com"},
		Attendees: []*calendar.EventAttendee{
			{Email: "bob@example.com", ResponseStatus: "accepted"},
			{Email: "carol@example.com", ResponseStatus: "needsAction", Optional: true},
		},
		Recurrence: []string{"RRULE:FREQ=WEEKLY;BYDAY=MO"},
	}

	got := toEventSummary(event)

	if got.ID != "ev1" || got.Summary != "Design review" {
		t.Errorf("identity fields = %q/%q", got.ID, got.Summary)
	}
	if got.AllDay {
		t.Error("timed event marked all-day")
	}
	wantStart := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	if !got.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", got.Start, wantStart)
	}
	if got.End.Sub(got.Start) != time.Hour {
		t.Errorf("duration = %v, want 1h", got.End.Sub(got.Start))
	}
	if got.Creator != "alice@example.com" {
		t.Errorf("Creator = %q", got.Creator)
	}
	if len(got.Attendees) != 2 {
		t.Fatalf("got %d attendees, want 2", len(got.Attendees))
	}
	if got.Attendees[1].ResponseStatus != "needsAction" || !got.Attendees[1].Optional {
		t.Errorf("attendee 1 = %+v", got.Attendees[1])
	}
	if len(got.Recurrence) != 1 {
		t.Errorf("Recurrence = %v", got.Recurrence)
	}
}

func TestToEventSummaryAllDay(t *testing.T) {
	event := &calendar.Event{
		Id:    "ev2",
		Start: &calendar.EventDateTime{Date: "2025-03-10"},
		End:   &calendar.EventDateTime{Date: "2025-03-11"},
	}

	got := toEventSummary(event)
	if !got.AllDay {
		t.Error("date-only event not marked all-day")
	}
	if !got.Start.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v", got.Start)
	}
	if got.End.Sub(got.Start) != 24*time.Hour {
		t.Errorf("duration = %v, want 24h", got.End.Sub(got.Start))
	}
}

func TestToCalendarInfo(t *testing.T) {
	entry := &calendar.CalendarListEntry{
		Id:         "team@example.com",
		Summary:    "Team",
		TimeZone:   "Europe/Berlin",
		Primary:    false,
		AccessRole: "writer",
	}

	got := toCalendarInfo(entry)
	if got.ID != "team@example.com" || got.TimeZone != "Europe/Berlin" || got.AccessRole != "writer" {
		t.Errorf("got %+v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		sentinel  error
		transient bool
	}{
		{"unauthorized", 401, ErrAuth, false},
		{"forbidden", 403, ErrAuth, false},
		{"not found", 404, ErrNotFound, false},
		{"gone", 410, ErrNotFound, false},
		{"conflict", 409, ErrConflict, false},
		{"rate limited", 429, nil, true},
		{"server error", 503, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("list events", &googleapi.Error{Code: tt.code})
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("classify(%d) = %v, want %v", tt.code, err, tt.sentinel)
			}
			if IsTransient(err) != tt.transient {
				t.Errorf("IsTransient(classify(%d)) = %v, want %v", tt.code, IsTransient(err), tt.transient)
			}
		})
	}
}

func TestClassifyNetworkError(t *testing.T) {
	err := classify("query freebusy", fmt.Errorf("dial tcp: connection refused"))
	if !IsTransient(err) {
		t.Errorf("network error not transient: %v", err)
	}

	var te *TransientError
	if !errors.As(err, &te) || te.Op != "query freebusy" {
		t.Errorf("missing operation context: %v", err)
	}
}

func TestClassifyNil(t *testing.T) {
	if err := classify("noop", nil); err != nil {
		t.Errorf("classify(nil) = %v, want nil", err)
	}
}

func TestSetEventTimes(t *testing.T) {
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("timed", func(t *testing.T) {
		var event calendar.Event
		setEventTimes(&event, EventInput{Start: start, End: end, TimeZone: "Europe/Berlin"})
		if event.Start.DateTime != "2025-03-10T09:00:00Z" || event.Start.TimeZone != "Europe/Berlin" {
			t.Errorf("Start = %+v", event.Start)
		}
		if event.End.DateTime != "2025-03-10T10:00:00Z" {
			t.Errorf("End = %+v", event.End)
		}
	})

	t.Run("all-day", func(t *testing.T) {
		var event calendar.Event
		setEventTimes(&event, EventInput{Start: start, End: end.AddDate(0, 0, 1), AllDay: true})
		if event.Start.Date != "2025-03-10" || event.Start.DateTime != "" {
			t.Errorf("Start = %+v", event.Start)
		}
		if event.End.Date != "2025-03-11" {
			t.Errorf("End = %+v", event.End)
		}
	})

	t.Run("unset times leave event alone", func(t *testing.T) {
		var event calendar.Event
		setEventTimes(&event, EventInput{Summary: "rename only"})
		if event.Start != nil || event.End != nil {
			t.Errorf("times set: %+v / %+v", event.Start, event.End)
		}
	})

	t.Run("default timezone", func(t *testing.T) {
		var event calendar.Event
		setEventTimes(&event, EventInput{Start: start, End: end})
		if event.Start.TimeZone != "UTC" {
			t.Errorf("TimeZone = %q, want UTC", event.Start.TimeZone)
		}
	})
}

func TestToAttendees(t *testing.T) {
	attendees := toAttendees([]string{"a@example.com", "b@example.com"})
	if len(attendees) != 2 {
		t.Fatalf("got %d attendees, want 2", len(attendees))
	}
	if attendees[0].Email != "a@example.com" {
		t.Errorf("attendees[0].Email = %q", attendees[0].Email)
	}
}

func TestHasTokenForAccountWithProvider(t *testing.T) {
	if HasTokenForAccountWithProvider("default", nil) {
		t.Error("nil provider reported a token")
	}
}

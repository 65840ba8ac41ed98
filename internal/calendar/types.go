package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// EventInput carries the fields for creating or updating an event. Zero
// values mean "leave unset" on update.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
	AllDay      bool
	Attendees   []string
	Recurrence  []string // RRULE, EXRULE, RDATE, EXDATE lines

	// Whether the backend notifies attendees: "all", "externalOnly", "none".
	SendUpdates string
}

// EventSummary is the flattened event shape returned to tools and fed to
// the recurrence projector and busyness analyzer.
type EventSummary struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Creator     string
	Organizer   string
	Status      string
	Attendees   []AttendeeInfo
	Recurrence  []string
}

// AttendeeInfo is one attendee's identity and response state.
type AttendeeInfo struct {
	Email          string
	DisplayName    string
	ResponseStatus string // "needsAction", "declined", "tentative", "accepted"
	Optional       bool
	Organizer      bool
}

// CalendarInfo describes one calendar the account can see.
type CalendarInfo struct {
	ID          string
	Summary     string
	Description string
	TimeZone    string
	Primary     bool
	AccessRole  string // "owner", "writer", "reader", "freeBusyReader"
}

// FreeBusyInfo is the per-calendar result of a free/busy query. Errors
// holds the backend's per-calendar failure reasons (unknown calendar,
// access denied) without failing the whole query.
type FreeBusyInfo struct {
	Calendar string
	Busy     []TimeRange
	Errors   []string
}

// TimeRange is a raw [Start, End) pair as delivered by the backend, not
// yet normalized.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// parseEventBoundary converts one end of a backend event to a time.Time.
// Timed events carry RFC 3339 datetimes, all-day events date-only strings
// which parse to midnight UTC. allDay reports which form was present.
func parseEventBoundary(dt *calendar.EventDateTime) (t time.Time, allDay bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, _ = time.Parse(time.RFC3339, dt.DateTime)
		return t, false
	}
	if dt.Date != "" {
		t, _ = time.Parse("2006-01-02", dt.Date)
		return t, true
	}
	return time.Time{}, false
}

// toEventSummary flattens a backend event.
func toEventSummary(event *calendar.Event) EventSummary {
	summary := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Status:      event.Status,
		Recurrence:  event.Recurrence,
	}

	summary.Start, summary.AllDay = parseEventBoundary(event.Start)
	summary.End, _ = parseEventBoundary(event.End)

	if event.Creator != nil {
		summary.Creator = event.Creator.Email
	}
	if event.Organizer != nil {
		summary.Organizer = event.Organizer.Email
	}

	for _, att := range event.Attendees {
		summary.Attendees = append(summary.Attendees, AttendeeInfo{
			Email:          att.Email,
			DisplayName:    att.DisplayName,
			ResponseStatus: att.ResponseStatus,
			Optional:       att.Optional,
			Organizer:      att.Organizer,
		})
	}

	return summary
}

func toCalendarInfo(entry *calendar.CalendarListEntry) CalendarInfo {
	return CalendarInfo{
		ID:          entry.Id,
		Summary:     entry.Summary,
		Description: entry.Description,
		TimeZone:    entry.TimeZone,
		Primary:     entry.Primary,
		AccessRole:  entry.AccessRole,
	}
}

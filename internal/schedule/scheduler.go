package schedule

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jorin/whenfree/internal/interval"
	"github.com/jorin/whenfree/internal/logging"
)

// SelfAlias is the literal string the calendar backend uses for the
// scheduling owner's own default calendar. It must never appear in an
// attendee list sent to the backend.
const SelfAlias = "primary"

// FreeBusySource supplies raw busy periods for a set of calendars within a
// window. Implementations talk to the calendar backend; failures surface as
// errors that Schedule reports as an external failure.
type FreeBusySource interface {
	BusyIntervals(ctx context.Context, calendarIDs []string, window interval.Interval) (map[string][]interval.Interval, error)
}

// EventCreator commits one event to the calendar backend. It is the only
// collaborator allowed to mutate external state.
type EventCreator interface {
	CreateScheduled(ctx context.Context, calendarID string, tmpl EventTemplate, slot interval.Interval, attendees []string) (string, error)
}

// EventTemplate carries the event fields that are independent of the chosen
// slot. Start and end are filled in from the winning candidate.
type EventTemplate struct {
	Summary     string
	Description string
	Location    string
	TimeZone    string
}

// OutcomeStatus enumerates the possible results of a Schedule call.
type OutcomeStatus int

const (
	// StatusScheduled means exactly one event was created.
	StatusScheduled OutcomeStatus = iota
	// StatusNoSlotFound means no mutual slot existed in the window. This is
	// a normal outcome, not an error.
	StatusNoSlotFound
	// StatusExternalFailure means a backend call failed; Cause carries the
	// classified error. No retry was attempted.
	StatusExternalFailure
)

// Outcome is the result of one Schedule invocation. The engine never retains
// it; ownership passes to the caller.
type Outcome struct {
	Status  OutcomeStatus
	EventID string
	Slot    interval.Interval
	Cause   error
}

// Scheduler finds the first mutual slot for a set of attendee calendars and
// issues a single booking attempt. Two invariants are enforced here rather
// than left to callers: the owner's self-alias never reaches an attendee
// list, and a candidate that has fallen into the past between discovery and
// booking is skipped, never booked.
type Scheduler struct {
	source  FreeBusySource
	creator EventCreator
	now     func() time.Time
	logger  *slog.Logger
}

// NewScheduler wires a scheduler to its collaborators. A nil nowFn defaults
// to time.Now; a nil logger defaults to slog.Default().
func NewScheduler(source FreeBusySource, creator EventCreator, nowFn func() time.Time, logger *slog.Logger) *Scheduler {
	if nowFn == nil {
		nowFn = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{source: source, creator: creator, now: nowFn, logger: logger}
}

// Schedule runs the full flow: validate, fetch free/busy, find the first
// viable slot, and attempt exactly one create call on organizerID's
// calendar. It returns an *InvalidQueryError for malformed input; every
// other failure mode is expressed through the Outcome.
func (s *Scheduler) Schedule(ctx context.Context, q Query, organizerID string, attendees []string, tmpl EventTemplate) (Outcome, error) {
	if err := q.Validate(); err != nil {
		return Outcome{}, err
	}

	log := logging.WithOperation(s.logger, "schedule_mutual").With(logging.UserHash(organizerID))

	busy, err := s.source.BusyIntervals(ctx, q.Calendars, q.Window)
	if err != nil {
		log.Warn("free/busy fetch failed", logging.Err(err))
		return Outcome{Status: StatusExternalFailure, Cause: err}, nil
	}

	free, err := MutualFree(q.Calendars, busy, q.Window)
	if err != nil {
		return Outcome{}, err
	}

	invitees := StripSelfAlias(attendees, organizerID)

	it := NewSlotIterator(free, q, s.now())
	for {
		slot, ok := it.Next()
		if !ok {
			log.Info("no mutual slot found",
				slog.Int("calendars", len(q.Calendars)),
				slog.Duration("slot_duration", q.SlotDuration))
			return Outcome{Status: StatusNoSlotFound}, nil
		}

		// The clock may have advanced past the candidate between discovery
		// and booking; re-check before committing and fall through to the
		// next candidate rather than booking in the past.
		if slot.Interval.Start.Before(s.now()) {
			log.Debug("discarding stale candidate",
				slog.Time("slot_start", slot.Interval.Start))
			continue
		}

		eventID, err := s.creator.CreateScheduled(ctx, organizerID, tmpl, slot.Interval, invitees)
		if err != nil {
			// Exactly one create attempt per invocation: trying another
			// slot after a failed create risks a double booking if the
			// first call actually went through.
			log.Warn("event creation failed", logging.Err(err),
				slog.Time("slot_start", slot.Interval.Start))
			return Outcome{Status: StatusExternalFailure, Cause: err}, nil
		}

		log.Info("event scheduled",
			logging.Event(eventID),
			slog.Time("slot_start", slot.Interval.Start),
			slog.Int("attendees", len(invitees)))
		return Outcome{Status: StatusScheduled, EventID: eventID, Slot: slot.Interval}, nil
	}
}

// StripSelfAlias removes the backend's self-alias and the organizer's own
// calendar ID from an attendee list, deduplicating as it goes. Comparison is
// case-insensitive, matching the backend's treatment of email addresses.
func StripSelfAlias(attendees []string, organizerID string) []string {
	out := make([]string, 0, len(attendees))
	seen := make(map[string]bool, len(attendees))
	for _, a := range attendees {
		trimmed := strings.TrimSpace(a)
		key := strings.ToLower(trimmed)
		if trimmed == "" || key == SelfAlias || (organizerID != "" && key == strings.ToLower(organizerID)) {
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

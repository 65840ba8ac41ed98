package schedule

import (
	"fmt"
	"time"

	"github.com/jorin/whenfree/internal/interval"
)

// WorkingHours restricts candidate slots to a daily window on selected
// weekdays. Hours are clock hours in the interval's own location;
// time-of-day membership is [StartHour, EndHour). A nil Weekdays map means
// every weekday is allowed.
type WorkingHours struct {
	StartHour int
	EndHour   int
	Weekdays  map[time.Weekday]bool
}

func (wh WorkingHours) validate() error {
	if wh.StartHour < 0 || wh.EndHour > 24 || wh.StartHour >= wh.EndHour {
		return fmt.Errorf("working hours [%d, %d) out of range", wh.StartHour, wh.EndHour)
	}
	return nil
}

// allowsDay reports whether the weekday is permitted.
func (wh WorkingHours) allowsDay(day time.Weekday) bool {
	if wh.Weekdays == nil {
		return true
	}
	return wh.Weekdays[day]
}

// Query describes one availability request: which calendars to consider,
// the search window, the required slot length, and an optional working-hours
// filter. Query values are immutable once validated.
type Query struct {
	Calendars    []string
	Window       interval.Interval
	SlotDuration time.Duration
	Hours        *WorkingHours
}

// Validate rejects malformed queries before any downstream work happens.
// All failures are reported as *InvalidQueryError.
func (q Query) Validate() error {
	if len(q.Calendars) == 0 {
		return &InvalidQueryError{Reason: "calendar set is empty"}
	}
	if !q.Window.Start.Before(q.Window.End) {
		return &InvalidQueryError{Reason: fmt.Sprintf("window start %s is not before end %s",
			q.Window.Start.Format(time.RFC3339), q.Window.End.Format(time.RFC3339))}
	}
	if q.SlotDuration <= 0 {
		return &InvalidQueryError{Reason: fmt.Sprintf("slot duration %s is not positive", q.SlotDuration)}
	}
	if q.Hours != nil {
		if err := q.Hours.validate(); err != nil {
			return &InvalidQueryError{Reason: err.Error()}
		}
	}
	return nil
}

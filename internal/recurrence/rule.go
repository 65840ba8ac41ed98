package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Frequency is the recurrence step unit.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "DAILY"
	case Weekly:
		return "WEEKLY"
	case Monthly:
		return "MONTHLY"
	case Yearly:
		return "YEARLY"
	default:
		return fmt.Sprintf("Frequency(%d)", int(f))
	}
}

// ErrUnsupportedRule indicates an RRULE this engine does not project
// (sub-daily frequencies, or features beyond interval/byday/until/count).
var ErrUnsupportedRule = errors.New("recurrence: unsupported rule")

// Rule is a parsed recurrence rule anchored to its source event's original
// start and duration. Values are immutable once parsed.
type Rule struct {
	Freq      Frequency
	Interval  int
	ByWeekday []time.Weekday
	Until     *time.Time
	Count     int

	Start    time.Time
	Duration time.Duration
}

// ParseRule parses one RRULE line as delivered by the calendar backend
// (with or without the "RRULE:" prefix) and anchors it to the source
// event's start and end. Frequencies below daily are rejected.
func ParseRule(line string, start, end time.Time) (Rule, error) {
	if !start.Before(end) {
		return Rule{}, fmt.Errorf("recurrence: anchor start %s is not before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "RRULE:")
	opt, err := rrule.StrToROption(trimmed)
	if err != nil {
		return Rule{}, fmt.Errorf("recurrence: parsing rule %q: %w", line, err)
	}

	var freq Frequency
	switch opt.Freq {
	case rrule.DAILY:
		freq = Daily
	case rrule.WEEKLY:
		freq = Weekly
	case rrule.MONTHLY:
		freq = Monthly
	case rrule.YEARLY:
		freq = Yearly
	default:
		return Rule{}, fmt.Errorf("%w: frequency %v", ErrUnsupportedRule, opt.Freq)
	}

	step := opt.Interval
	if step <= 0 {
		step = 1
	}

	r := Rule{
		Freq:     freq,
		Interval: step,
		Count:    opt.Count,
		Start:    start,
		Duration: end.Sub(start),
	}

	if !opt.Until.IsZero() {
		until := opt.Until
		r.Until = &until
	}

	for _, wd := range opt.Byweekday {
		r.ByWeekday = append(r.ByWeekday, rruleWeekday(wd))
	}

	return r, nil
}

// rruleWeekday converts rrule's Monday-based weekday constants to
// time.Weekday.
func rruleWeekday(wd rrule.Weekday) time.Weekday {
	// rrule.MO.Day() == 0 .. rrule.SU.Day() == 6; time.Monday == 1.
	return time.Weekday((wd.Day() + 1) % 7)
}

func (r Rule) validate() error {
	if r.Interval <= 0 {
		return fmt.Errorf("%w: non-positive interval %d", ErrUnsupportedRule, r.Interval)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("%w: non-positive anchor duration %s", ErrUnsupportedRule, r.Duration)
	}
	return nil
}

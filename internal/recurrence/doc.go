// Package recurrence parses RRULE lines and projects recurring events into
// concrete occurrences within a query window.
//
// Projection steps from the anchor rather than from the previous occurrence,
// so day-of-month clamping never drifts: a Feb 29 yearly anchor falls on
// Feb 28 in non-leap years and back on Feb 29 when leap years return, and a
// day-31 monthly anchor clamps to shorter months independently each step.
package recurrence

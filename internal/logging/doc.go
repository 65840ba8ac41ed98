// Package logging holds the slog attribute helpers shared by the rest of
// the codebase. Keys are defined once here so the same concept always logs
// under the same name.
//
// Typical use:
//
//	log := logging.WithOperation(slog.Default(), "schedule_mutual")
//	log.Info("event scheduled", logging.Event(id))
//
// Anything user-identifying goes through a sanitizer before it reaches a
// log line: email addresses via UserHash (a stable hash, so entries for one
// user still correlate) and credentials via SanitizeToken (length only).
package logging

package calendar

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrAuth marks 401/403 responses from the backend. Retrying without fresh
// credentials cannot succeed.
var ErrAuth = errors.New("calendar: authorization failed")

// ErrNotFound marks 404/410 responses.
var ErrNotFound = errors.New("calendar: not found")

// ErrConflict marks 409 responses, typically a duplicate event ID.
var ErrConflict = errors.New("calendar: conflict")

// TransientError wraps failures that are worth retrying by the caller:
// rate limits, server errors, and network trouble. The engine surfaces
// these as external failures without retrying itself.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("calendar: transient failure in %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// classify maps a backend error onto the package's error taxonomy. Errors
// that are not googleapi errors (DNS, timeouts, connection resets) are
// treated as transient.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &TransientError{Op: op, Err: err}
	}

	switch gerr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s: %v", ErrAuth, op, err)
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%w: %s: %v", ErrNotFound, op, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s: %v", ErrConflict, op, err)
	case http.StatusTooManyRequests:
		return &TransientError{Op: op, Err: err}
	}
	if gerr.Code >= 500 {
		return &TransientError{Op: op, Err: err}
	}
	return fmt.Errorf("calendar: %s: %w", op, err)
}

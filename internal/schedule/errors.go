package schedule

import "fmt"

// InvalidQueryError reports a malformed availability or scheduling request.
// It is returned before any external call is made.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Reason)
}

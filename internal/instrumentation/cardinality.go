package instrumentation

import "strings"

// Operation types used as metric and span labels for Google API calls.
const (
	OperationList     = "list"
	OperationGet      = "get"
	OperationCreate   = "create"
	OperationUpdate   = "update"
	OperationDelete   = "delete"
	OperationFreeBusy = "freebusy"
	OperationSchedule = "schedule"
)

// ExtractUserDomain reduces an email address to its domain so metric labels
// stay bounded by the number of organizations, not the number of users.
// Anything that is not a well-formed address maps to "unknown".
func ExtractUserDomain(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return "unknown"
	}
	domain := email[at+1:]
	if strings.ContainsRune(domain, '@') {
		return "unknown"
	}
	return domain
}

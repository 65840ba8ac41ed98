package google

// DefaultOAuthScopes are the Google OAuth scopes required for calendar
// access. The OpenID Connect scopes identify the account the token belongs
// to; the calendar scope covers event and calendar reads and writes plus
// free/busy queries.
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",
}

// Package google provides OAuth2 authentication and token management for Google APIs.
//
// Tokens are stored per account in the user cache directory (for STDIO
// transport). The TokenProvider interface allows different token sources to
// be plugged in without changing the calendar client.
package google

package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenProvider supplies OAuth tokens for the Calendar API. Abstracting the
// source lets the calendar client work against token files today and other
// stores later without changes.
type TokenProvider interface {
	// GetTokenForAccount returns the OAuth token for an account.
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount reports whether a token exists for an account.
	HasTokenForAccount(account string) bool
}

// FileTokenProvider reads tokens from the per-account files written by the
// authorization flow. It is the provider behind the stdio transport.
type FileTokenProvider struct{}

var _ TokenProvider = (*FileTokenProvider)(nil)

// NewFileTokenProvider creates a file-backed token provider.
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

// GetTokenForAccount loads the account's token from disk, refreshing it
// through the token source if it has expired.
func (p *FileTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get token from file: %w", err)
	}

	return token, nil
}

// HasTokenForAccount reports whether a token file exists for the account.
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return HasTokenForAccount(account)
}

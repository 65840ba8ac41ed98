package google

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateAccountName(t *testing.T) {
	valid := []string{"default", "work", "work-email", "personal_email", "account123"}
	for _, account := range valid {
		if err := validateAccountName(account); err != nil {
			t.Errorf("validateAccountName(%q) = %v, want nil", account, err)
		}
	}

	invalid := []string{"", "my account", "account@work", "work/personal", "work.email"}
	for _, account := range invalid {
		if err := validateAccountName(account); err == nil {
			t.Errorf("validateAccountName(%q) = nil, want error", account)
		}
	}
}

func TestGetTokenFilePath(t *testing.T) {
	for account, wantBase := range map[string]string{
		"default":  "google-default.token",
		"work":     "google-work.token",
		"personal": "google-personal.token",
	} {
		if got := filepath.Base(getTokenFilePath(account)); got != wantBase {
			t.Errorf("getTokenFilePath(%q) base = %q, want %q", account, got, wantBase)
		}
	}
}

func TestHasTokenForAccount_InvalidNames(t *testing.T) {
	// Invalid names must not reach the filesystem.
	if HasTokenForAccount("invalid account") {
		t.Error("HasTokenForAccount should reject names with spaces")
	}
	if HasTokenForAccount("") {
		t.Error("HasTokenForAccount should reject the empty name")
	}
}

func TestHasToken_MatchesDefaultAccount(t *testing.T) {
	if HasToken() != HasTokenForAccount("default") {
		t.Error("HasToken() should be equivalent to HasTokenForAccount(\"default\")")
	}
}

func TestMigrateDefaultToken(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)
	t.Setenv("HOME", tmp)

	cacheDir := filepath.Join(userCacheDir(), "whenfree")
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		t.Fatal(err)
	}

	oldTokenFile := filepath.Join(cacheDir, "google.token")
	newTokenFile := filepath.Join(cacheDir, "google-default.token")

	tokenData := []byte("test_access_token test_refresh_token")
	if err := os.WriteFile(oldTokenFile, tokenData, 0600); err != nil {
		t.Fatal(err)
	}

	if err := MigrateDefaultToken(); err != nil {
		t.Fatalf("MigrateDefaultToken() error = %v", err)
	}

	got, err := os.ReadFile(newTokenFile)
	if err != nil {
		t.Fatalf("per-account token file missing after migration: %v", err)
	}
	if string(got) != string(tokenData) {
		t.Errorf("migrated token = %q, want %q", got, tokenData)
	}
	if _, err := os.Stat(oldTokenFile); !os.IsNotExist(err) {
		t.Error("legacy token file should be removed after migration")
	}

	// Idempotent on a second run.
	if err := MigrateDefaultToken(); err != nil {
		t.Fatalf("second MigrateDefaultToken() error = %v", err)
	}
}

func TestGetAuthenticationErrorMessage(t *testing.T) {
	for _, account := range []string{"default", "work", "personal"} {
		msg := GetAuthenticationErrorMessage(account)
		if msg == "" {
			t.Fatalf("empty message for account %q", account)
		}
		if !strings.Contains(msg, account) {
			t.Errorf("message for %q should name the account: %s", account, msg)
		}
		if !strings.Contains(msg, "OAuth") {
			t.Errorf("message for %q should point at the OAuth flow", account)
		}
	}
}

package logging

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestAttrHelpers(t *testing.T) {
	tests := []struct {
		name      string
		attr      slog.Attr
		wantKey   string
		wantValue string
	}{
		{"Account", Account("work"), KeyAccount, "work"},
		{"Calendar", Calendar("team@example.com"), KeyCalendar, "team@example.com"},
		{"Event", Event("evt_abc123"), KeyEvent, "evt_abc123"},
	}
	for _, tt := range tests {
		if tt.attr.Key != tt.wantKey {
			t.Errorf("%s key = %q, want %q", tt.name, tt.attr.Key, tt.wantKey)
		}
		if tt.attr.Value.String() != tt.wantValue {
			t.Errorf("%s value = %q, want %q", tt.name, tt.attr.Value.String(), tt.wantValue)
		}
	}
}

func TestWithOperation(t *testing.T) {
	logger := WithOperation(slog.Default(), "schedule_mutual")
	if logger == nil {
		t.Fatal("WithOperation returned nil")
	}
	if logger == slog.Default() {
		t.Error("WithOperation should return a derived logger")
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "boom")
	}

	// nil errors collapse to an empty group so callers never need to branch
	if got := Err(nil); got.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty group", got.Key)
	}
}

func TestAnonymizeEmail(t *testing.T) {
	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("AnonymizeEmail(empty) = %q, want empty", got)
	}

	h := AnonymizeEmail("jane@example.com")
	if !strings.HasPrefix(h, "user:") {
		t.Errorf("hash %q missing user: prefix", h)
	}
	if len(h) != len("user:")+16 {
		t.Errorf("hash length = %d, want %d", len(h), len("user:")+16)
	}
	if h != AnonymizeEmail("jane@example.com") {
		t.Error("hash is not deterministic")
	}
	if h == AnonymizeEmail("john@example.com") {
		t.Error("distinct emails should hash differently")
	}
}

func TestUserHash(t *testing.T) {
	attr := UserHash("jane@example.com")
	if attr.Key != KeyUserHash {
		t.Errorf("UserHash key = %q, want %q", attr.Key, KeyUserHash)
	}
	if attr.Value.String() != AnonymizeEmail("jane@example.com") {
		t.Error("UserHash should carry the anonymized email")
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", "<empty>"},
		{"abc123", "[token:6 chars]"},
		{"ya29.a0AfB4Xb7sK2mQ", "[token:19 chars]"},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.token); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

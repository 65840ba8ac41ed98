package common

import (
	"context"
	"testing"
)

func TestGetAccountFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing account falls back to default", map[string]interface{}{}, "default"},
		{"nil args fall back to default", nil, "default"},
		{"explicit account is used", map[string]interface{}{"account": "work"}, "work"},
		{"empty account falls back to default", map[string]interface{}{"account": ""}, "default"},
		{"non-string account falls back to default", map[string]interface{}{"account": 7}, "default"},
		{
			"account picked out of unrelated args",
			map[string]interface{}{"calendarId": "primary", "account": "personal"},
			"personal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetAccountFromArgs(context.Background(), tt.args); got != tt.want {
				t.Errorf("GetAccountFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

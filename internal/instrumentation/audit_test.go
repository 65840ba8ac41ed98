package instrumentation

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func attrMap(attrs []slog.Attr) map[string]slog.Attr {
	m := make(map[string]slog.Attr, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a
	}
	return m
}

func TestToolInvocation_Lifecycle(t *testing.T) {
	ti := NewToolInvocation("calendar_find_availability")

	if ti.Tool != "calendar_find_availability" {
		t.Errorf("Tool = %q", ti.Tool)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should be set by the constructor")
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("CompleteSuccess should mark the invocation successful")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" {
		t.Errorf("Error = %q, want empty", ti.Error)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation("calendar_create_event")
	ti.CompleteWithError(errors.New("permission denied"))

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "permission denied" {
		t.Errorf("Error = %q", ti.Error)
	}
}

func TestToolInvocation_Builders(t *testing.T) {
	ti := NewToolInvocation("calendar_schedule_mutual").
		WithUser("jane@example.com").
		WithAccount("work").
		WithService(ServiceScheduler, OperationSchedule)

	if ti.UserEmail != "jane@example.com" {
		t.Errorf("UserEmail = %q", ti.UserEmail)
	}
	if ti.Account != "work" {
		t.Errorf("Account = %q", ti.Account)
	}
	if ti.ServiceName != ServiceScheduler || ti.Operation != OperationSchedule {
		t.Errorf("service/operation = %q/%q", ti.ServiceName, ti.Operation)
	}
	if ti.UserDomain() != "example.com" {
		t.Errorf("UserDomain() = %q", ti.UserDomain())
	}
}

func TestToolInvocation_Status(t *testing.T) {
	ti := NewToolInvocation("x")

	ti.Success = true
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}
	ti.Success = false
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation("calendar_schedule_mutual").
		WithUser("jane@example.com").
		WithAccount("work").
		WithService(ServiceScheduler, OperationSchedule).
		CompleteSuccess()
	ti.TraceID = "abc123"

	m := attrMap(ti.LogAttrs())

	for _, key := range []string{"tool", "user_domain", "duration", "success", "account", "service", "operation", "trace_id"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing attribute %q", key)
		}
	}
	if got := m["user_domain"].Value.String(); got != "example.com" {
		t.Errorf("user_domain = %q", got)
	}
	if _, ok := m["user"]; ok {
		t.Error("LogAttrs must not expose the full email")
	}
}

func TestToolInvocation_LogAttrs_OmitsNoise(t *testing.T) {
	ti := NewToolInvocation("calendar_list_events").
		WithAccount("default").
		CompleteSuccess()

	m := attrMap(ti.LogAttrs())

	for _, key := range []string{"account", "service", "operation", "trace_id", "error"} {
		if _, ok := m[key]; ok {
			t.Errorf("attribute %q should be omitted when unset or default", key)
		}
	}
}

func TestToolInvocation_LogAttrs_Error(t *testing.T) {
	ti := NewToolInvocation("calendar_create_event").
		CompleteWithError(errors.New("quota exceeded"))

	m := attrMap(ti.LogAttrs())

	if got := m["error"].Value.String(); got != "quota exceeded" {
		t.Errorf("error = %q", got)
	}
}

func TestToolInvocation_LogAuditAttrs(t *testing.T) {
	ti := NewToolInvocation("calendar_schedule_mutual").
		WithUser("jane@example.com").
		WithAccount("work").
		CompleteSuccess()
	ti.TraceID = "abc123"
	ti.SpanID = "span789"

	m := attrMap(ti.LogAuditAttrs())

	if got := m["user"].Value.String(); got != "jane@example.com" {
		t.Errorf("user = %q", got)
	}
	if got := m["account"].Value.String(); got != "work" {
		t.Errorf("account = %q", got)
	}
	if got := m["trace_id"].Value.String(); got != "abc123" {
		t.Errorf("trace_id = %q", got)
	}
	if got := m["span_id"].Value.String(); got != "span789" {
		t.Errorf("span_id = %q", got)
	}
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ti := NewToolInvocation("x").WithSpanContext(context.Background())

	if ti.TraceID != "" || ti.SpanID != "" {
		t.Errorf("trace/span = %q/%q, want empty without an active span", ti.TraceID, ti.SpanID)
	}
}

func TestNewAuditLogger_NilLogger(t *testing.T) {
	al := NewAuditLogger(nil)
	if al.logger == nil {
		t.Error("nil logger should fall back to slog.Default")
	}
	if !al.enabled {
		t.Error("audit logger should default to enabled")
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	al := NewAuditLogger(slog.Default())

	al.LogToolInvocation(NewToolInvocation("calendar_list_events").
		WithUser("jane@example.com").
		CompleteSuccess())
	al.LogToolInvocation(NewToolInvocation("calendar_create_event").
		WithUser("jane@example.com").
		CompleteWithError(errors.New("boom")))
}

func TestAuditLogger_Disabled(t *testing.T) {
	al := NewAuditLoggerWithConfig(slog.Default(), AuditLoggingConfig{Enabled: false})

	// Must be a no-op for a finished record.
	al.LogToolInvocation(NewToolInvocation("calendar_list_events").CompleteSuccess())
}

package instrumentation

import (
	"context"
	"errors"
	"testing"
)

func newTracingProvider(t *testing.T) *Provider {
	t.Helper()
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "whenfree-test",
		ServiceVersion:  "0.0.1",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("calendar_find_availability").
		WithService(ServiceCalendar).
		WithOperation("freebusy").
		WithAccount("work").
		WithResource("event", "evt_123").
		Build()

	got := make(map[string]interface{}, len(attrs))
	for _, attr := range attrs {
		got[string(attr.Key)] = attr.Value.AsInterface()
	}

	want := map[string]interface{}{
		SpanAttrTool:         "calendar_find_availability",
		SpanAttrService:      ServiceCalendar,
		SpanAttrOperation:    "freebusy",
		SpanAttrAccount:      "work",
		SpanAttrResourceType: "event",
		SpanAttrResourceID:   "evt_123",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d attributes, want %d", len(got), len(want))
	}
	for key, value := range want {
		if got[key] != value {
			t.Errorf("%s = %v, want %v", key, got[key], value)
		}
	}
}

func TestSpanAttributeBuilder_SkipsEmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("calendar_list_events").
		WithAccount("").
		WithResource("", "").
		Build()

	if len(attrs) != 1 {
		t.Errorf("got %d attributes, want only the tool name", len(attrs))
	}
}

func TestStartToolSpan(t *testing.T) {
	_ = newTracingProvider(t)

	spanCtx, span := StartToolSpan(context.Background(), "calendar_list_events",
		NewSpanAttributeBuilder().WithAccount("work").Build()...)
	defer span.End()

	if spanCtx == nil || span == nil {
		t.Fatal("StartToolSpan returned nil context or span")
	}
}

func TestStartGoogleAPISpan(t *testing.T) {
	_ = newTracingProvider(t)

	spanCtx, span := StartGoogleAPISpan(context.Background(), ServiceCalendar, "freebusy")
	defer span.End()

	if spanCtx == nil || span == nil {
		t.Fatal("StartGoogleAPISpan returned nil context or span")
	}
}

func TestSetSpanStatus(t *testing.T) {
	_ = newTracingProvider(t)

	_, span := StartToolSpan(context.Background(), "calendar_create_event")
	defer span.End()

	SetSpanError(span, errors.New("quota exceeded"))
	SetSpanError(span, nil) // nil must be a no-op
	SetSpanSuccess(span)
}

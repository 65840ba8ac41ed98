package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrTool      = "tool"
	attrAccount   = "account"
)

// Histogram bucket boundaries in seconds. HTTP requests skew fast; Google
// API calls and tool invocations can wait on the network much longer.
var (
	httpDurationBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}
	slowDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
	slotSearchBuckets   = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}
)

// Metrics records the server's operational metrics. All recorders are
// nil-safe so a partially initialized value degrades to a no-op.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	oauthAuthTotal         metric.Int64Counter
	oauthTokenRefreshTotal metric.Int64Counter

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	schedulingOutcomesTotal metric.Int64Counter
	slotSearchDuration      metric.Float64Histogram

	// detailedLabels opts into high-cardinality labels (account names).
	detailedLabels bool
}

// metricsBuilder accumulates the first instrument-creation error so
// NewMetrics stays flat.
type metricsBuilder struct {
	meter metric.Meter
	err   error
}

func (b *metricsBuilder) counter(name, desc, unit string) metric.Int64Counter {
	if b.err != nil {
		return nil
	}
	c, err := b.meter.Int64Counter(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	)
	if err != nil {
		b.err = fmt.Errorf("failed to create %s counter: %w", name, err)
	}
	return c
}

func (b *metricsBuilder) upDownCounter(name, desc, unit string) metric.Int64UpDownCounter {
	if b.err != nil {
		return nil
	}
	c, err := b.meter.Int64UpDownCounter(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	)
	if err != nil {
		b.err = fmt.Errorf("failed to create %s gauge: %w", name, err)
	}
	return c
}

func (b *metricsBuilder) histogram(name, desc string, buckets []float64) metric.Float64Histogram {
	if b.err != nil {
		return nil
	}
	h, err := b.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		b.err = fmt.Errorf("failed to create %s histogram: %w", name, err)
	}
	return h
}

// NewMetrics registers every instrument on the meter. detailedLabels
// controls whether account names appear as labels.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	b := &metricsBuilder{meter: meter}

	m := &Metrics{
		detailedLabels: detailedLabels,

		httpRequestsTotal:   b.counter("http_requests_total", "Total number of HTTP requests", "{request}"),
		httpRequestDuration: b.histogram("http_request_duration_seconds", "HTTP request duration in seconds", httpDurationBuckets),
		activeSessions:      b.upDownCounter("active_sessions", "Number of active user sessions", "{session}"),

		googleAPIOperationsTotal:   b.counter("google_api_operations_total", "Total number of Google API operations", "{operation}"),
		googleAPIOperationDuration: b.histogram("google_api_operation_duration_seconds", "Google API operation duration in seconds", slowDurationBuckets),

		oauthAuthTotal:         b.counter("oauth_auth_total", "Total number of OAuth authentication attempts", "{attempt}"),
		oauthTokenRefreshTotal: b.counter("oauth_token_refresh_total", "Total number of OAuth token refresh attempts", "{attempt}"),

		toolInvocationsTotal: b.counter("mcp_tool_invocations_total", "Total number of MCP tool invocations", "{invocation}"),
		toolDuration:         b.histogram("mcp_tool_duration_seconds", "MCP tool execution duration in seconds", slowDurationBuckets),

		schedulingOutcomesTotal: b.counter("scheduling_outcomes_total", "Total number of mutual scheduling attempts by outcome", "{attempt}"),
		slotSearchDuration:      b.histogram("slot_search_duration_seconds", "Availability search duration in seconds", slotSearchBuckets),
	}
	if b.err != nil {
		return nil, b.err
	}

	return m, nil
}

// RecordHTTPRequest counts one HTTP request and its latency, labeled by
// method, path and status code.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation counts one backend call, labeled by service
// (calendar, scheduler), operation type and status.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOAuthAuth counts one authorization-code exchange. result is
// OAuthResultSuccess or OAuthResultFailure.
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m.oauthAuthTotal == nil {
		return
	}
	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordOAuthTokenRefresh counts one stored-token refresh. result is one of
// the OAuthResult constants.
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if m.oauthTokenRefreshTotal == nil {
		return
	}
	m.oauthTokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordToolInvocation counts one MCP tool call and its latency.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	m.RecordToolInvocationWithAccount(ctx, toolName, status, "", duration)
}

// RecordToolInvocationWithAccount is RecordToolInvocation plus an account
// label. The label is dropped unless detailed labels were enabled, keeping
// cardinality bounded by default.
func (m *Metrics) RecordToolInvocationWithAccount(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	set := metric.WithAttributes(attrs...)
	m.toolInvocationsTotal.Add(ctx, 1, set)
	m.toolDuration.Record(ctx, duration.Seconds(), set)
}

// RecordSchedulingOutcome counts one mutual scheduling attempt, labeled
// scheduled, no_slot_found or external_failure.
func (m *Metrics) RecordSchedulingOutcome(ctx context.Context, outcome string) {
	if m.schedulingOutcomesTotal == nil {
		return
	}
	m.schedulingOutcomesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, outcome)))
}

// RecordSlotSearch records the latency of one availability search.
func (m *Metrics) RecordSlotSearch(ctx context.Context, status string, duration time.Duration) {
	if m.slotSearchDuration == nil {
		return
	}
	m.slotSearchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String(attrStatus, status)))
}

// IncrementActiveSessions bumps the active-session gauge.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions lowers the active-session gauge.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, -1)
}

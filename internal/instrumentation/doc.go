// Package instrumentation wires OpenTelemetry metrics, tracing, and audit
// logging into the whenfree MCP server.
//
// A Provider owns the OTel SDK lifecycle. Construct one from Config (usually
// DefaultConfig, which reads the environment) and shut it down on exit:
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordToolInvocation(ctx, "calendar_find_availability", "success", elapsed)
//
// Metrics cover the HTTP transport (http_requests_total,
// http_request_duration_seconds, active_sessions), Google API calls
// (google_api_operations_total and its duration histogram), OAuth flows
// (oauth_auth_total, oauth_token_refresh_total), MCP tool invocations
// (mcp_tool_invocations_total and duration), and the scheduling engine
// (scheduling_outcomes_total, slot_search_duration_seconds). All recorder
// methods are safe on a zero-value Metrics, so callers never branch on
// whether instrumentation is enabled.
//
// Spans are named tool.<name> for MCP tool handlers and
// google.<service>.<operation> for outbound Google API calls.
//
// Configuration comes from the environment: INSTRUMENTATION_ENABLED,
// METRICS_EXPORTER (prometheus, otlp, stdout), TRACING_EXPORTER (otlp,
// stdout, none), OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_TRACES_SAMPLER_ARG,
// and OTEL_SERVICE_NAME. See DefaultConfig for the defaults.
package instrumentation

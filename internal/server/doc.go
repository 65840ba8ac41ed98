// Package server provides the MCP server context, session management,
// and operational HTTP endpoints for the whenfree application.
//
// # Key Components
//
// ServerContext manages Google Calendar API clients with lazy
// initialization and caching. It supports multiple accounts, each backed
// by its own stored OAuth token.
//
// SessionIDManager handles multi-account session tracking for HTTP
// transport. It maps Bearer tokens to Google accounts, enabling multiple
// users to share a single MCP server instance.
//
// HealthChecker exposes liveness and readiness probes, and MetricsServer
// serves Prometheus metrics on a dedicated port.
package server

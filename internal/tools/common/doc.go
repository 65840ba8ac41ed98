// Package common holds the helpers shared by every MCP tool package:
// account resolution from tool arguments and the instrumented handler
// wrappers that record metrics and audit events around each invocation.
package common

// Package calendar_tools provides MCP (Model Context Protocol) tools for Google Calendar operations.
//
// This package exposes Google Calendar functionality through a standardized MCP interface,
// allowing AI assistants to manage calendars, events, and scheduling on behalf of users.
//
// Beyond direct event and calendar management it wires the scheduling engine
// into the tool surface: mutual availability search, single-shot booking of
// the earliest common slot, recurrence projection, and per-day busyness
// analysis. Write tools are only registered when the server runs with
// writes enabled.
package calendar_tools

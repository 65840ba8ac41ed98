package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jorin/whenfree/internal/calendar"
	"github.com/jorin/whenfree/internal/google"
	"github.com/jorin/whenfree/internal/schedule"
	"github.com/jorin/whenfree/internal/server"
)

// getCalendarClient retrieves or creates a calendar client for the specified account
func getCalendarClient(ctx context.Context, account string, sc *server.ServerContext) (*calendar.Client, error) {
	client := sc.CalendarClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !calendar.HasTokenForAccount(account) {
			return nil, fmt.Errorf("%s", google.GetAuthenticationErrorMessage(account))
		}

		var err error
		client, err = calendar.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
		}
		sc.SetCalendarClientForAccount(account, client)
	}
	return client, nil
}

// parseRFC3339Arg reads a required RFC3339 timestamp argument.
func parseRFC3339Arg(args map[string]interface{}, key string) (time.Time, error) {
	raw, ok := args[key].(string)
	if !ok || raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", key)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %v", key, err)
	}
	return t, nil
}

// splitCSVArg reads a comma-separated string argument into trimmed,
// non-empty entries. A missing argument yields a nil slice.
func splitCSVArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].(string)
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseWorkingHoursArgs builds an optional working-hours filter from
// workingHoursStart, workingHoursEnd and workingDays arguments. Returns nil
// when neither hour bound is present.
func parseWorkingHoursArgs(args map[string]interface{}) (*schedule.WorkingHours, error) {
	startVal, hasStart := args["workingHoursStart"].(float64)
	endVal, hasEnd := args["workingHoursEnd"].(float64)
	if !hasStart && !hasEnd {
		return nil, nil
	}
	if !hasStart || !hasEnd {
		return nil, fmt.Errorf("workingHoursStart and workingHoursEnd must be provided together")
	}

	wh := &schedule.WorkingHours{
		StartHour: int(startVal),
		EndHour:   int(endVal),
	}

	if days := splitCSVArg(args, "workingDays"); days != nil {
		weekdays := make(map[time.Weekday]bool, len(days))
		for _, d := range days {
			day, err := parseWeekday(d)
			if err != nil {
				return nil, err
			}
			weekdays[day] = true
		}
		wh.Weekdays = weekdays
	}

	return wh, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(name) {
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	case "sunday", "sun":
		return time.Sunday, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// RegisterCalendarTools registers all Calendar-related tools with the MCP server.
// Write tools (create, update, delete, schedule) are skipped in read-only mode.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := RegisterEventTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	if err := RegisterCalendarListTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register calendar list tools: %w", err)
	}

	if err := RegisterSchedulingTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register scheduling tools: %w", err)
	}

	if err := RegisterAnalysisTools(s, sc); err != nil {
		return fmt.Errorf("failed to register analysis tools: %w", err)
	}

	return nil
}

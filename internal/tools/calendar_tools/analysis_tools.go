package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jorin/whenfree/internal/busyness"
	"github.com/jorin/whenfree/internal/interval"
	"github.com/jorin/whenfree/internal/recurrence"
	"github.com/jorin/whenfree/internal/server"
	"github.com/jorin/whenfree/internal/tools/common"
)

// RegisterAnalysisTools registers the recurrence projection and busyness
// analysis tools. Both are read-only.
func RegisterAnalysisTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Project recurring event tool
	projectRecurringTool := mcp.NewTool("calendar_project_recurring",
		mcp.WithDescription("Expand a recurring event rule into concrete occurrences within a time window"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Description("ID of a recurring event to project (alternative to rrule+anchorStart)"),
		),
		mcp.WithString("rrule",
			mcp.Description("Recurrence rule to project directly (e.g., 'RRULE:FREQ=WEEKLY;BYDAY=MO,WE')"),
		),
		mcp.WithString("anchorStart",
			mcp.Description("First occurrence start when using rrule (RFC3339 format)"),
		),
		mcp.WithString("anchorEnd",
			mcp.Description("First occurrence end when using rrule (RFC3339 format)"),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start of the projection window (RFC3339 format)"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End of the projection window (RFC3339 format)"),
		),
	)

	s.AddTool(projectRecurringTool, common.InstrumentedToolHandlerWithService(
		"calendar_project_recurring", "scheduler", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleProjectRecurring(ctx, request, sc)
		}))

	// Analyze busyness tool
	analyzeBusynessTool := mcp.NewTool("calendar_analyze_busyness",
		mcp.WithDescription("Summarize per-day meeting load over a time range and flag unusually busy days"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start of the analysis range (RFC3339 format)"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End of the analysis range (RFC3339 format)"),
		),
		mcp.WithNumber("trailingDays",
			mcp.Description("Baseline window in days for flagging busy outliers (default: 7)"),
		),
		mcp.WithNumber("sigma",
			mcp.Description("Standard deviations above the baseline mean before a day is flagged (default: 2.0)"),
		),
	)

	s.AddTool(analyzeBusynessTool, common.InstrumentedToolHandlerWithService(
		"calendar_analyze_busyness", "scheduler", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAnalyzeBusyness(ctx, request, sc)
		}))

	return nil
}

func handleProjectRecurring(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)
	calendarID := calendarIDFromArgs(args)

	timeMin, err := parseRFC3339Arg(args, "timeMin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeMax, err := parseRFC3339Arg(args, "timeMax")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	window, err := interval.New(timeMin, timeMax)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
	}

	var (
		ruleLine    string
		anchorStart time.Time
		anchorEnd   time.Time
		sourceID    string
	)

	eventID, hasEventID := args["eventId"].(string)
	if hasEventID && eventID != "" {
		client, err := getCalendarClient(ctx, account, sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		event, err := client.GetEvent(ctx, calendarID, eventID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get event: %v", err)), nil
		}

		ruleLine = findRRuleLine(event.Recurrence)
		if ruleLine == "" {
			return mcp.NewToolResultError(fmt.Sprintf("event %s has no recurrence rule", eventID)), nil
		}
		anchorStart = event.Start
		anchorEnd = event.End
		sourceID = event.ID
	} else {
		ruleLine, _ = args["rrule"].(string)
		if ruleLine == "" {
			return mcp.NewToolResultError("either eventId or rrule is required"), nil
		}
		anchorStart, err = parseRFC3339Arg(args, "anchorStart")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		anchorEnd, err = parseRFC3339Arg(args, "anchorEnd")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sourceID = "adhoc"
	}

	rule, err := recurrence.ParseRule(ruleLine, anchorStart, anchorEnd)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse recurrence rule: %v", err)), nil
	}

	occurrences, err := recurrence.Project(rule, window, sourceID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to project occurrences: %v", err)), nil
	}

	if len(occurrences) == 0 {
		return mcp.NewToolResultText("No occurrences fall within the requested window"), nil
	}

	result := fmt.Sprintf("Found %d occurrence(s) of %s:\n\n", len(occurrences), ruleLine)
	for i, occ := range occurrences {
		result += fmt.Sprintf("%d. %s to %s\n",
			i+1,
			occ.Start.Format(time.RFC3339),
			occ.End.Format(time.RFC3339))
	}

	return mcp.NewToolResultText(result), nil
}

// findRRuleLine picks the RRULE line out of an event's recurrence set,
// ignoring RDATE/EXDATE lines.
func findRRuleLine(lines []string) string {
	for _, line := range lines {
		if strings.HasPrefix(line, "RRULE") {
			return line
		}
	}
	return ""
}

func handleAnalyzeBusyness(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)
	calendarID := calendarIDFromArgs(args)

	timeMin, err := parseRFC3339Arg(args, "timeMin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeMax, err := parseRFC3339Arg(args, "timeMax")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	window, err := interval.New(timeMin, timeMax)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
	}

	flagger := busyness.DefaultBaselineFlagger()
	if trailingVal, ok := args["trailingDays"].(float64); ok && trailingVal > 0 {
		flagger.TrailingDays = int(trailingVal)
	}
	if sigmaVal, ok := args["sigma"].(float64); ok && sigmaVal > 0 {
		flagger.Sigma = sigmaVal
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := client.ListEvents(ctx, calendarID, timeMin, timeMax, "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	records := make([]busyness.Event, 0, len(events))
	for _, ev := range events {
		records = append(records, busyness.Event{
			ID:      ev.ID,
			Summary: ev.Summary,
			Start:   ev.Start,
			End:     ev.End,
		})
	}

	buckets := busyness.ApplyFlags(busyness.Analyze(records, window), flagger)

	result := fmt.Sprintf("Busyness for %s over %d day(s):\n\n", calendarID, len(buckets))
	for _, b := range buckets {
		line := fmt.Sprintf("%s: %d event(s), %s busy",
			b.Date.Format("2006-01-02"),
			b.EventCount,
			b.TotalBusy.Truncate(time.Minute))
		if b.Flagged {
			line += "  [UNUSUALLY BUSY]"
		}
		result += line + "\n"
	}

	return mcp.NewToolResultText(result), nil
}

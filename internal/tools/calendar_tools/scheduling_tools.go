package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jorin/whenfree/internal/instrumentation"
	"github.com/jorin/whenfree/internal/interval"
	"github.com/jorin/whenfree/internal/schedule"
	"github.com/jorin/whenfree/internal/server"
	"github.com/jorin/whenfree/internal/tools/common"
)

// RegisterSchedulingTools registers availability and scheduling tools with
// the MCP server. The booking tool is skipped in read-only mode.
func RegisterSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Query free/busy tool
	queryFreeBusyTool := mcp.NewTool("calendar_query_freebusy",
		mcp.WithDescription("Check availability for one or more calendars/attendees in a time range"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start time for the range (RFC3339 format, e.g., '2025-01-01T00:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End time for the range (RFC3339 format, e.g., '2025-01-31T23:59:59Z')"),
		),
		mcp.WithString("calendars",
			mcp.Required(),
			mcp.Description("Comma-separated list of calendar IDs or email addresses to check"),
		),
	)

	s.AddTool(queryFreeBusyTool, common.InstrumentedToolHandlerWithService(
		"calendar_query_freebusy", "calendar", "freebusy", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleQueryFreeBusy(ctx, request, sc)
		}))

	// Find availability tool
	findAvailabilityTool := mcp.NewTool("calendar_find_availability",
		mcp.WithDescription("Find time slots where all given calendars are simultaneously free"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendars",
			mcp.Required(),
			mcp.Description("Comma-separated list of calendar IDs or email addresses that must all be free"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Required(),
			mcp.Description("Required slot duration in minutes"),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start time for the search window (RFC3339 format)"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End time for the search window (RFC3339 format)"),
		),
		mcp.WithNumber("workingHoursStart",
			mcp.Description("Restrict slots to start no earlier than this clock hour (0-23)"),
		),
		mcp.WithNumber("workingHoursEnd",
			mcp.Description("Restrict slots to end no later than this clock hour (1-24)"),
		),
		mcp.WithString("workingDays",
			mcp.Description("Comma-separated weekdays to allow (e.g., 'Mon,Tue,Wed,Thu,Fri')"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of slots to return (default: 10)"),
		),
	)

	s.AddTool(findAvailabilityTool, common.InstrumentedToolHandlerWithService(
		"calendar_find_availability", "scheduler", "freebusy", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindAvailability(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Mutual scheduling tool
	scheduleMutualTool := mcp.NewTool("calendar_schedule_mutual",
		mcp.WithDescription("Find the earliest slot where all attendees are free and book a single event in it"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("attendees",
			mcp.Required(),
			mcp.Description("Comma-separated list of attendee email addresses to invite"),
		),
		mcp.WithString("calendars",
			mcp.Description("Calendars that must be free (defaults to the attendees plus the organizer's primary calendar)"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Required(),
			mcp.Description("Meeting duration in minutes"),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start time for the search window (RFC3339 format)"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End time for the search window (RFC3339 format)"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title for the booked meeting"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone for the created event (defaults to UTC)"),
		),
		mcp.WithNumber("workingHoursStart",
			mcp.Description("Restrict slots to start no earlier than this clock hour (0-23)"),
		),
		mcp.WithNumber("workingHoursEnd",
			mcp.Description("Restrict slots to end no later than this clock hour (1-24)"),
		),
		mcp.WithString("workingDays",
			mcp.Description("Comma-separated weekdays to allow (e.g., 'Mon,Tue,Wed,Thu,Fri')"),
		),
	)

	s.AddTool(scheduleMutualTool, common.InstrumentedToolHandlerWithService(
		"calendar_schedule_mutual", "scheduler", "schedule", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleScheduleMutual(ctx, request, sc)
		}))

	return nil
}

func handleQueryFreeBusy(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	timeMin, err := parseRFC3339Arg(args, "timeMin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeMax, err := parseRFC3339Arg(args, "timeMax")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	calendars := splitCSVArg(args, "calendars")
	if len(calendars) == 0 {
		return mcp.NewToolResultError("calendars is required"), nil
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	freeBusyInfos, err := client.QueryFreeBusy(ctx, timeMin, timeMax, calendars)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query free/busy: %v", err)), nil
	}

	result := fmt.Sprintf("Free/Busy information for %d calendar(s):\n\n", len(freeBusyInfos))
	for _, info := range freeBusyInfos {
		result += fmt.Sprintf("Calendar: %s\n", info.Calendar)

		if len(info.Errors) > 0 {
			result += fmt.Sprintf("  Errors: %s\n", strings.Join(info.Errors, ", "))
		}

		if len(info.Busy) == 0 {
			result += "  Status: FREE for entire range\n"
		} else {
			result += fmt.Sprintf("  Busy periods: %d\n", len(info.Busy))
			for i, busy := range info.Busy {
				result += fmt.Sprintf("  %d. %s to %s\n",
					i+1,
					busy.Start.Format("2006-01-02 15:04"),
					busy.End.Format("2006-01-02 15:04"))
			}
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

// buildQuery assembles an engine query from the shared scheduling arguments.
func buildQuery(args map[string]interface{}, calendars []string) (schedule.Query, error) {
	timeMin, err := parseRFC3339Arg(args, "timeMin")
	if err != nil {
		return schedule.Query{}, err
	}
	timeMax, err := parseRFC3339Arg(args, "timeMax")
	if err != nil {
		return schedule.Query{}, err
	}

	durationMinutes, ok := args["durationMinutes"].(float64)
	if !ok || durationMinutes <= 0 {
		return schedule.Query{}, fmt.Errorf("durationMinutes is required and must be positive")
	}

	hours, err := parseWorkingHoursArgs(args)
	if err != nil {
		return schedule.Query{}, err
	}

	q := schedule.Query{
		Calendars:    calendars,
		Window:       interval.Interval{Start: timeMin, End: timeMax},
		SlotDuration: time.Duration(durationMinutes) * time.Minute,
		Hours:        hours,
	}
	if err := q.Validate(); err != nil {
		return schedule.Query{}, err
	}
	return q, nil
}

func handleFindAvailability(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	calendars := splitCSVArg(args, "calendars")
	if len(calendars) == 0 {
		return mcp.NewToolResultError("calendars is required"), nil
	}

	q, err := buildQuery(args, calendars)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	maxResults := 10
	if maxResultsVal, ok := args["maxResults"].(float64); ok && maxResultsVal > 0 {
		maxResults = int(maxResultsVal)
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	searchStart := time.Now()
	busy, err := client.BusyIntervals(ctx, q.Calendars, q.Window)
	if err != nil {
		if metrics := sc.Metrics(); metrics != nil {
			metrics.RecordSlotSearch(ctx, instrumentation.StatusError, time.Since(searchStart))
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch free/busy data: %v", err)), nil
	}

	free, err := schedule.MutualFree(q.Calendars, busy, q.Window)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to compute mutual availability: %v", err)), nil
	}

	slots := schedule.FindSlots(free, q, time.Now())
	if metrics := sc.Metrics(); metrics != nil {
		metrics.RecordSlotSearch(ctx, instrumentation.StatusSuccess, time.Since(searchStart))
	}

	if len(slots) == 0 {
		return mcp.NewToolResultText("No mutually free time slots found for the specified criteria"), nil
	}

	if len(slots) > maxResults {
		slots = slots[:maxResults]
	}

	result := fmt.Sprintf("Found %d slot(s) where all %d calendar(s) are free (%s each):\n\n",
		len(slots), len(q.Calendars), q.SlotDuration)

	for i, slot := range slots {
		result += fmt.Sprintf("%d. %s to %s (%s)\n",
			i+1,
			slot.Interval.Start.Format("Mon, Jan 2 at 15:04 MST"),
			slot.Interval.End.Format("15:04 MST"),
			slot.Interval.Start.Weekday())
	}

	return mcp.NewToolResultText(result), nil
}

func handleScheduleMutual(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	attendees := splitCSVArg(args, "attendees")
	if len(attendees) == 0 {
		return mcp.NewToolResultError("attendees is required"), nil
	}

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

	// The organizer's own calendar must be free too; default the query to
	// the attendee calendars plus the organizer.
	calendars := splitCSVArg(args, "calendars")
	if len(calendars) == 0 {
		calendars = append([]string{schedule.SelfAlias}, attendees...)
	}

	q, err := buildQuery(args, calendars)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tmpl := schedule.EventTemplate{Summary: summary}
	if desc, ok := args["description"].(string); ok {
		tmpl.Description = desc
	}
	if loc, ok := args["location"].(string); ok {
		tmpl.Location = loc
	}
	if tz, ok := args["timeZone"].(string); ok {
		tmpl.TimeZone = tz
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	scheduler := schedule.NewScheduler(client, client, nil, nil)
	outcome, err := scheduler.Schedule(ctx, q, schedule.SelfAlias, attendees, tmpl)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Scheduling failed: %v", err)), nil
	}

	if metrics := sc.Metrics(); metrics != nil {
		metrics.RecordSchedulingOutcome(ctx, outcomeLabel(outcome.Status))
	}

	switch outcome.Status {
	case schedule.StatusScheduled:
		result := fmt.Sprintf("Scheduled: %s\n", summary)
		result += fmt.Sprintf("Event ID: %s\n", outcome.EventID)
		result += fmt.Sprintf("Start: %s\n", outcome.Slot.Start.Format(time.RFC3339))
		result += fmt.Sprintf("End: %s\n", outcome.Slot.End.Format(time.RFC3339))
		result += fmt.Sprintf("Attendees: %s\n", strings.Join(attendees, ", "))
		return mcp.NewToolResultText(result), nil
	case schedule.StatusNoSlotFound:
		return mcp.NewToolResultText("No mutual slot found in the requested window; nothing was booked"), nil
	case schedule.StatusExternalFailure:
		return mcp.NewToolResultError(fmt.Sprintf("Calendar backend failure, nothing was booked: %v", outcome.Cause)), nil
	}

	return mcp.NewToolResultError(fmt.Sprintf("unexpected scheduling outcome %d", outcome.Status)), nil
}

func outcomeLabel(status schedule.OutcomeStatus) string {
	switch status {
	case schedule.StatusScheduled:
		return "scheduled"
	case schedule.StatusNoSlotFound:
		return "no_slot_found"
	default:
		return "external_failure"
	}
}

package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/jorin/whenfree/internal/google"
	"github.com/jorin/whenfree/internal/instrumentation"
	"github.com/jorin/whenfree/internal/interval"
	"github.com/jorin/whenfree/internal/logging"
	"github.com/jorin/whenfree/internal/schedule"
)

// Client wraps the Google Calendar service for one account. It implements
// the scheduling engine's free/busy and event-creation collaborator
// contracts.
type Client struct {
	svc           *calendar.Service
	account       string
	tokenProvider google.TokenProvider
}

var (
	_ schedule.FreeBusySource = (*Client)(nil)
	_ schedule.EventCreator   = (*Client)(nil)
)

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccountWithProvider checks if a valid OAuth token exists for the specified account
func HasTokenForAccountWithProvider(account string, provider google.TokenProvider) bool {
	if provider == nil {
		return false
	}
	return provider.HasTokenForAccount(account)
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	provider := google.NewFileTokenProvider()
	return HasTokenForAccountWithProvider(account, provider)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return HasTokenForAccount("default")
}

// NewClientForAccountWithProvider creates a Calendar client authenticated
// for a specific account, with the OAuth token retrieved from the given
// provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	tokenSource := conf.TokenSource(ctx, token)
	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	baseTransport := &http.Transport{
		ForceAttemptHTTP2: false,
	}
	transport.Base = baseTransport

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:           svc,
		account:       account,
		tokenProvider: tokenProvider,
	}, nil
}

// NewClientForAccount creates a Calendar client for a specific account
// using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	provider := google.NewFileTokenProvider()
	return NewClientForAccountWithProvider(ctx, account, provider)
}

// NewClient creates a Calendar client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// NewClientWithProvider creates a Calendar client for the default account
// using the provided token provider.
func NewClientWithProvider(ctx context.Context, provider google.TokenProvider) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, "default", provider)
}

// ListEvents lists events in a calendar within a time range. Recurring
// events are expanded into single instances, ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, query string) ([]EventSummary, error) {
	call := c.svc.Events.List(calendarID).
		Context(ctx).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	if query != "" {
		call = call.Q(query)
	}

	events, err := call.Do()
	if err != nil {
		return nil, classify("list events", err)
	}

	var summaries []EventSummary
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}

	return summaries, nil
}

// GetEvent retrieves a specific event by ID. For recurring events this is
// the master event, including its recurrence rule lines.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*EventSummary, error) {
	event, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, classify("get event", err)
	}

	summary := toEventSummary(event)
	return &summary, nil
}

// CreateEvent creates a new calendar event.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
	}

	setEventTimes(event, input)

	if len(input.Attendees) > 0 {
		event.Attendees = toAttendees(input.Attendees)
	}
	if len(input.Recurrence) > 0 {
		event.Recurrence = input.Recurrence
	}

	call := c.svc.Events.Insert(calendarID, event).Context(ctx)
	if input.SendUpdates != "" {
		call = call.SendUpdates(input.SendUpdates)
	}

	created, err := call.Do()
	if err != nil {
		return nil, classify("create event", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// QuickAdd creates an event from a plain-text description, letting the
// backend parse times and titles ("Tennis at 5pm tomorrow").
func (c *Client) QuickAdd(ctx context.Context, calendarID, text string) (*EventSummary, error) {
	created, err := c.svc.Events.QuickAdd(calendarID, text).Context(ctx).Do()
	if err != nil {
		return nil, classify("quick add", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// UpdateEvent applies a partial update to an existing event. Only the
// fields set in input are changed; everything else stays as stored.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, input EventInput) (*EventSummary, error) {
	patch := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
	}

	setEventTimes(patch, input)

	if len(input.Attendees) > 0 {
		patch.Attendees = toAttendees(input.Attendees)
	}
	if len(input.Recurrence) > 0 {
		patch.Recurrence = input.Recurrence
	}

	call := c.svc.Events.Patch(calendarID, eventID, patch).Context(ctx)
	if input.SendUpdates != "" {
		call = call.SendUpdates(input.SendUpdates)
	}

	updated, err := call.Do()
	if err != nil {
		return nil, classify("update event", err)
	}

	summary := toEventSummary(updated)
	return &summary, nil
}

// DeleteEvent deletes a calendar event.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return classify("delete event", err)
	}
	return nil
}

// AddAttendee adds attendees to an existing event, preserving the current
// list. Emails already on the event are skipped; if nothing is new the
// stored event is returned unchanged without a write.
func (c *Client) AddAttendee(ctx context.Context, calendarID, eventID string, emails []string) (*EventSummary, error) {
	event, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, classify("get event", err)
	}

	existing := make(map[string]bool, len(event.Attendees))
	for _, att := range event.Attendees {
		existing[att.Email] = true
	}

	attendees := event.Attendees
	added := false
	for _, email := range emails {
		if email == "" || existing[email] {
			continue
		}
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
		existing[email] = true
		added = true
	}

	if !added {
		summary := toEventSummary(event)
		return &summary, nil
	}

	patch := &calendar.Event{Attendees: attendees}
	updated, err := c.svc.Events.Patch(calendarID, eventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, classify("add attendee", err)
	}

	summary := toEventSummary(updated)
	return &summary, nil
}

// CheckAttendeeStatus returns each attendee's response status for an
// event. If emails is non-empty, only those attendees are reported.
func (c *Client) CheckAttendeeStatus(ctx context.Context, calendarID, eventID string, emails []string) (map[string]string, error) {
	event, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, classify("get event", err)
	}

	var filter map[string]bool
	if len(emails) > 0 {
		filter = make(map[string]bool, len(emails))
		for _, email := range emails {
			filter[email] = true
		}
	}

	statuses := make(map[string]string)
	for _, att := range event.Attendees {
		if att.Email == "" || att.ResponseStatus == "" {
			continue
		}
		if filter != nil && !filter[att.Email] {
			continue
		}
		statuses[att.Email] = att.ResponseStatus
	}

	return statuses, nil
}

// ListCalendars lists all calendars accessible to the account.
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	list, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, classify("list calendars", err)
	}

	var calendars []CalendarInfo
	for _, entry := range list.Items {
		calendars = append(calendars, toCalendarInfo(entry))
	}

	return calendars, nil
}

// GetCalendar retrieves information about a specific calendar.
func (c *Client) GetCalendar(ctx context.Context, calendarID string) (*CalendarInfo, error) {
	entry, err := c.svc.CalendarList.Get(calendarID).Context(ctx).Do()
	if err != nil {
		return nil, classify("get calendar", err)
	}

	info := toCalendarInfo(entry)
	return &info, nil
}

// GetPrimaryCalendar retrieves information about the primary calendar.
func (c *Client) GetPrimaryCalendar(ctx context.Context) (*CalendarInfo, error) {
	return c.GetCalendar(ctx, "primary")
}

// CreateCalendar creates a new secondary calendar.
func (c *Client) CreateCalendar(ctx context.Context, summary, description, timeZone string) (*CalendarInfo, error) {
	created, err := c.svc.Calendars.Insert(&calendar.Calendar{
		Summary:     summary,
		Description: description,
		TimeZone:    timeZone,
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify("create calendar", err)
	}

	return &CalendarInfo{
		ID:          created.Id,
		Summary:     created.Summary,
		Description: created.Description,
		TimeZone:    created.TimeZone,
	}, nil
}

// QueryFreeBusy fetches raw busy ranges for calendars in a time range.
// Per-calendar lookup failures are carried in each FreeBusyInfo rather
// than failing the whole query.
func (c *Client) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	items := make([]*calendar.FreeBusyRequestItem, len(calendarIDs))
	for i, id := range calendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	query := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   items,
	}

	result, err := c.svc.Freebusy.Query(query).Context(ctx).Do()
	if err != nil {
		return nil, classify("query freebusy", err)
	}

	var infos []FreeBusyInfo
	for calID, cal := range result.Calendars {
		info := FreeBusyInfo{
			Calendar: calID,
		}

		for _, busy := range cal.Busy {
			start, errS := time.Parse(time.RFC3339, busy.Start)
			end, errE := time.Parse(time.RFC3339, busy.End)
			if errS != nil || errE != nil {
				continue
			}
			info.Busy = append(info.Busy, TimeRange{Start: start, End: end})
		}

		for _, calErr := range cal.Errors {
			info.Errors = append(info.Errors, calErr.Reason)
		}

		infos = append(infos, info)
	}

	return infos, nil
}

// BusyIntervals fetches busy ranges for the scheduling engine. A
// per-calendar error from the backend fails the whole fetch so the engine
// never treats an unreadable calendar as free.
func (c *Client) BusyIntervals(ctx context.Context, calendarIDs []string, window interval.Interval) (map[string][]interval.Interval, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, "freebusy")
	defer span.End()

	infos, err := c.QueryFreeBusy(ctx, window.Start, window.End, calendarIDs)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	busy := make(map[string][]interval.Interval, len(infos))
	for _, info := range infos {
		if len(info.Errors) > 0 {
			err := fmt.Errorf("calendar: freebusy lookup failed for %s: %s", info.Calendar, info.Errors[0])
			slog.Warn("freebusy lookup failed", logging.Calendar(info.Calendar), logging.Err(err))
			instrumentation.SetSpanError(span, err)
			return nil, err
		}
		ranges := make([]interval.Interval, 0, len(info.Busy))
		for _, r := range info.Busy {
			iv, err := interval.New(r.Start, r.End)
			if err != nil {
				continue // zero-length ranges carry no busy time
			}
			ranges = append(ranges, iv)
		}
		busy[info.Calendar] = ranges
	}

	instrumentation.SetSpanSuccess(span)
	return busy, nil
}

// CreateScheduled books one event at the chosen slot on behalf of the
// scheduling engine and returns the created event ID.
func (c *Client) CreateScheduled(ctx context.Context, calendarID string, tmpl schedule.EventTemplate, slot interval.Interval, attendees []string) (string, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, "create",
		instrumentation.NewSpanAttributeBuilder().WithResource("event", "").WithAccount(c.account).Build()...)
	defer span.End()

	created, err := c.CreateEvent(ctx, calendarID, EventInput{
		Summary:     tmpl.Summary,
		Description: tmpl.Description,
		Location:    tmpl.Location,
		Start:       slot.Start,
		End:         slot.End,
		TimeZone:    tmpl.TimeZone,
		Attendees:   attendees,
		SendUpdates: "all",
	})
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return "", err
	}
	instrumentation.SetSpanSuccess(span)
	return created.ID, nil
}

// setEventTimes fills the start/end of a backend event from input. All-day
// events use date-only boundaries.
func setEventTimes(event *calendar.Event, input EventInput) {
	if input.Start.IsZero() && input.End.IsZero() {
		return
	}

	tz := input.TimeZone
	if tz == "" {
		tz = "UTC"
	}

	if !input.Start.IsZero() {
		if input.AllDay {
			event.Start = &calendar.EventDateTime{Date: input.Start.Format("2006-01-02")}
		} else {
			event.Start = &calendar.EventDateTime{
				DateTime: input.Start.Format(time.RFC3339),
				TimeZone: tz,
			}
		}
	}
	if !input.End.IsZero() {
		if input.AllDay {
			event.End = &calendar.EventDateTime{Date: input.End.Format("2006-01-02")}
		} else {
			event.End = &calendar.EventDateTime{
				DateTime: input.End.Format(time.RFC3339),
				TimeZone: tz,
			}
		}
	}
}

func toAttendees(emails []string) []*calendar.EventAttendee {
	attendees := make([]*calendar.EventAttendee, 0, len(emails))
	for _, email := range emails {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	return attendees
}

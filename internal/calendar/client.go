package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/calbot/internal/google"
	"github.com/teemow/calbot/internal/instrumentation"
)

// Operation names used for spans, metrics and error messages.
const (
	opListEvents    = "list"
	opInsertEvent   = "insert"
	opDeleteEvent   = "delete"
	opListCalendars = "list_calendars"
)

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	metrics *instrumentation.Metrics
}

// NewClient creates a Calendar client from arbitrary client options.
// metrics may be nil.
func NewClient(ctx context.Context, metrics *instrumentation.Metrics, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		metrics: metrics,
	}, nil
}

// NewServiceAccountClient creates a Calendar client authenticated as the
// service account whose JSON key is credentialsJSON.
func NewServiceAccountClient(ctx context.Context, credentialsJSON []byte, metrics *instrumentation.Metrics) (*Client, error) {
	opts, err := google.ClientOptions(ctx, credentialsJSON, google.CalendarScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to load service account credentials: %w", err)
	}
	return NewClient(ctx, metrics, opts...)
}

// observe records the span outcome and the API metric for one call.
func (c *Client) observe(ctx context.Context, op string, start time.Time, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, op, status, time.Since(start))
}

// ListEvents lists single events in a calendar whose time range overlaps
// [timeMin, timeMax), ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) (events []Event, err error) {
	ctx, span := instrumentation.StartCalendarSpan(ctx, opListEvents, calendarID)
	defer span.End()
	start := time.Now()
	defer func() {
		c.observe(ctx, opListEvents, start, err)
		instrumentation.SetSpanError(span, err)
	}()

	call := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	// Follow pagination so the first-match rule of delete sees every candidate.
	err = call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			events = append(events, toEvent(item))
		}
		return nil
	})
	if err != nil {
		return nil, wrapError("list events", err)
	}

	return events, nil
}

// InsertEvent creates a new calendar event
func (c *Client) InsertEvent(ctx context.Context, calendarID string, input EventInput) (_ *Event, err error) {
	ctx, span := instrumentation.StartCalendarSpan(ctx, opInsertEvent, calendarID)
	defer span.End()
	start := time.Now()
	defer func() {
		c.observe(ctx, opInsertEvent, start, err)
		instrumentation.SetSpanError(span, err)
	}()

	event := &calendar.Event{
		Summary: input.Summary,
		Start:   toEventDateTime(input.Start),
		End:     toEventDateTime(input.End),
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("create event", err)
	}

	result := toEvent(created)
	return &result, nil
}

// DeleteEvent deletes a calendar event
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) (err error) {
	ctx, span := instrumentation.StartCalendarSpan(ctx, opDeleteEvent, calendarID)
	defer span.End()
	start := time.Now()
	defer func() {
		c.observe(ctx, opDeleteEvent, start, err)
		instrumentation.SetSpanError(span, err)
	}()

	if err = c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return wrapError("delete event", err)
	}
	return nil
}

// ListCalendars lists all calendars on the credential's calendar list.
func (c *Client) ListCalendars(ctx context.Context) (calendars []CalendarInfo, err error) {
	ctx, span := instrumentation.StartCalendarSpan(ctx, opListCalendars, "")
	defer span.End()
	start := time.Now()
	defer func() {
		c.observe(ctx, opListCalendars, start, err)
		instrumentation.SetSpanError(span, err)
	}()

	err = c.svc.CalendarList.List().Pages(ctx, func(page *calendar.CalendarList) error {
		for _, entry := range page.Items {
			calendars = append(calendars, toCalendarInfo(entry))
		}
		return nil
	})
	if err != nil {
		return nil, wrapError("list calendars", err)
	}

	return calendars, nil
}

func toEventDateTime(t EventTime) *calendar.EventDateTime {
	if t.AllDay() {
		return &calendar.EventDateTime{Date: t.Date}
	}
	return &calendar.EventDateTime{
		DateTime: t.DateTime,
		TimeZone: t.TimeZone,
	}
}

func fromEventDateTime(t *calendar.EventDateTime) EventTime {
	if t == nil {
		return EventTime{}
	}
	return EventTime{
		Date:     t.Date,
		DateTime: t.DateTime,
		TimeZone: t.TimeZone,
	}
}

// toEvent converts a Google Calendar event to our Event type
func toEvent(event *calendar.Event) Event {
	if event == nil {
		return Event{}
	}

	return Event{
		ID:       event.Id,
		Summary:  event.Summary,
		Start:    fromEventDateTime(event.Start),
		End:      fromEventDateTime(event.End),
		HTMLLink: event.HtmlLink,
	}
}

// toCalendarInfo converts a Google Calendar list entry to our CalendarInfo type
func toCalendarInfo(entry *calendar.CalendarListEntry) CalendarInfo {
	if entry == nil {
		return CalendarInfo{}
	}

	return CalendarInfo{
		ID:         entry.Id,
		Summary:    entry.Summary,
		TimeZone:   entry.TimeZone,
		Primary:    entry.Primary,
		AccessRole: entry.AccessRole,
	}
}

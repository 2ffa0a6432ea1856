package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/calbot/internal/calendar"
	"github.com/teemow/calbot/internal/command"
)

// clock is a time of day that may be out of range (25:00 is representable).
type clock struct {
	hour, minute int
}

func (c clock) valid() bool {
	return c.hour >= 0 && c.hour <= 23 && c.minute >= 0 && c.minute <= 59
}

// wrapped folds hours past midnight back into 0-23 for display.
func (c clock) wrapped() clock {
	return clock{c.hour % 24, c.minute}
}

func (c clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}

// EventInput builds the insert request for a CreateEvent resolved at now.
//
// Impossible dates and clock values are passed through unnormalized, so
// 2/30 or 25:00 reach the backend as written and are rejected there.
func EventInput(c command.CreateEvent, now time.Time) calendar.EventInput {
	date := c.Date.Resolve(now)

	if c.Time.Kind == command.AllDay {
		return calendar.EventInput{
			Summary: c.Title,
			Start:   calendar.EventTime{Date: date.String()},
			End:     calendar.EventTime{Date: date.AddDays(1).String()},
		}
	}

	start, end := clocks(c.Time)
	input := calendar.EventInput{Summary: c.Title}

	// A duration may run past midnight, so only a range end needs checking.
	endOK := c.Time.Kind == command.PointDuration || end.valid()
	if date.Valid() && start.valid() && endOK {
		startAt := date.At(start.hour, start.minute)
		endAt := date.At(end.hour, end.minute)
		if c.Time.Kind == command.PointDuration {
			endAt = startAt.Add(time.Duration(c.Time.DurationMinutes) * time.Minute)
		}
		input.Start = timed(startAt.Format(time.RFC3339))
		input.End = timed(endAt.Format(time.RFC3339))
		return input
	}

	input.Start = timed(rawDateTime(date, start))
	input.End = timed(rawDateTime(date, end))
	return input
}

// clocks returns the start and end clock of a timed spec. For PointDuration
// the end is start plus duration and may exceed 23:59.
func clocks(spec command.TimeSpec) (clock, clock) {
	start := clock{spec.StartHour, spec.StartMinute}
	if spec.Kind == command.Range {
		return start, clock{spec.EndHour, spec.EndMinute}
	}
	total := spec.StartHour*60 + spec.StartMinute + spec.DurationMinutes
	return start, clock{total / 60, total % 60}
}

func timed(dateTime string) calendar.EventTime {
	return calendar.EventTime{DateTime: dateTime, TimeZone: command.TimeZoneName}
}

func rawDateTime(d command.Date, c clock) string {
	return fmt.Sprintf("%sT%02d:%02d:00+09:00", d, c.hour, c.minute)
}

func (a *Assistant) createEvent(ctx context.Context, c command.CreateEvent, now time.Time) (string, error) {
	input := EventInput(c, now)

	if _, err := a.backend.InsertEvent(ctx, a.calendarID, input); err != nil {
		return "", fmt.Errorf("create event: %w", err)
	}

	date := c.Date.Resolve(now)
	if c.Time.Kind == command.AllDay {
		return createdAllDayReply(date, c.Title), nil
	}
	start, end := clocks(c.Time)
	return createdReply(date, start, end.wrapped(), c.Title), nil
}

func (a *Assistant) listEvents(ctx context.Context, c command.ListEvents, now time.Time) (string, error) {
	w, err := WindowFor(c.Period, now)
	if err != nil {
		return "", err
	}

	events, err := a.backend.ListEvents(ctx, a.calendarID, w.Start, w.End)
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}

	return listReply(c.Period, events), nil
}

func (a *Assistant) deleteEvent(ctx context.Context, c command.DeleteEvent, now time.Time) (string, error) {
	date := c.Date.Resolve(now)
	if !date.Valid() || c.Hour < 0 || c.Hour > 23 {
		return notFoundReply(date, c.Hour, c.Title), nil
	}

	start := date.At(c.Hour, 0)
	events, err := a.backend.ListEvents(ctx, a.calendarID, start, start.Add(time.Hour))
	if err != nil {
		return "", fmt.Errorf("list events for delete: %w", err)
	}

	// First match in backend order wins, even if several events match.
	for _, ev := range events {
		if !strings.Contains(ev.Summary, c.Title) {
			continue
		}
		if err := a.backend.DeleteEvent(ctx, a.calendarID, ev.ID); err != nil {
			return "", fmt.Errorf("delete event: %w", err)
		}
		return deletedReply(date, ev), nil
	}

	return notFoundReply(date, c.Hour, c.Title), nil
}

func (a *Assistant) debug(ctx context.Context) (string, error) {
	cals, err := a.backend.ListCalendars(ctx)
	if err != nil {
		return "", fmt.Errorf("list calendars: %w", err)
	}
	return debugReply(a.calendarID, cals), nil
}

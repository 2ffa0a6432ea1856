package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/calbot/internal/calendar"
	"github.com/teemow/calbot/internal/command"
	"github.com/teemow/calbot/internal/instrumentation"
	"github.com/teemow/calbot/internal/logging"
)

// Backend is the calendar store the assistant operates on.
// *calendar.Client satisfies it.
type Backend interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]calendar.Event, error)
	InsertEvent(ctx context.Context, calendarID string, input calendar.EventInput) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	ListCalendars(ctx context.Context) ([]calendar.CalendarInfo, error)
}

var _ Backend = (*calendar.Client)(nil)

// Config holds the collaborators of an Assistant.
type Config struct {
	// CalendarID is the calendar all commands operate on.
	CalendarID string
	Backend    Backend

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Optional.
	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
	Audit   *instrumentation.AuditLogger
}

// Assistant turns chat messages into calendar operations and reply texts.
// It holds no per-message state and is safe for concurrent use.
type Assistant struct {
	calendarID string
	backend    Backend
	now        func() time.Time
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	audit      *instrumentation.AuditLogger
}

// New creates an Assistant.
func New(cfg Config) (*Assistant, error) {
	if cfg.Backend == nil {
		return nil, errors.New("assistant: backend is required")
	}
	if cfg.CalendarID == "" {
		return nil, errors.New("assistant: calendar ID is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Assistant{
		calendarID: cfg.CalendarID,
		backend:    cfg.Backend,
		now:        cfg.Now,
		logger:     logging.WithComponent(cfg.Logger, "assistant"),
		metrics:    cfg.Metrics,
		audit:      cfg.Audit,
	}, nil
}

// Message is one inbound chat message.
type Message struct {
	Text string
	// UserID identifies the sender on the messaging platform. It is only
	// logged in hashed form unless the audit log includes PII.
	UserID string
	// Source names the transport the message arrived on.
	Source string
}

// Now returns the current interpretation moment.
func (a *Assistant) Now() time.Time {
	return command.Moment(a.now())
}

// Handle parses and executes msg and returns the reply to send. It never
// fails: backend errors and panics are turned into error replies.
func (a *Assistant) Handle(ctx context.Context, msg Message) (reply string) {
	now := a.Now()
	text := strings.TrimSpace(msg.Text)
	cmd := command.Parse(text, now)
	kind := string(cmd.Kind())
	userHash := logging.AnonymizeID(msg.UserID)

	ctx, span := instrumentation.StartCommandSpan(ctx, kind, msg.Source, userHash)
	defer span.End()

	inv := instrumentation.NewCommandInvocation(msg.Source).
		WithUser(msg.UserID, userHash).
		WithText(text, kind).
		WithSpanContext(ctx)

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while handling %s: %v", kind, r)
			reply = unexpectedErrorReply
		}

		outcome := Outcome(err)
		inv.Complete(outcome, err)
		a.metrics.RecordCommand(ctx, kind, outcome, msg.Source, inv.Duration)
		a.audit.LogCommand(inv)

		if err != nil {
			instrumentation.SetSpanError(span, err)
			a.logger.Warn("command failed",
				logging.Command(kind),
				logging.Source(msg.Source),
				logging.UserHash(msg.UserID),
				slog.String("outcome", outcome),
				logging.Err(err))
			return
		}
		instrumentation.SetSpanSuccess(span)
		a.logger.Debug("command handled",
			logging.Command(kind),
			logging.Source(msg.Source),
			logging.UserHash(msg.UserID))
	}()

	reply, err = a.Execute(ctx, cmd, now)
	if err != nil {
		reply = ErrorReply(err)
	}
	return reply
}

// Execute runs a parsed command at the interpretation moment now and returns
// the reply text. Errors are returned unformatted; see ErrorReply.
func (a *Assistant) Execute(ctx context.Context, cmd command.Command, now time.Time) (string, error) {
	now = command.Moment(now)

	switch c := cmd.(type) {
	case command.CreateEvent:
		return a.createEvent(ctx, c, now)
	case command.ListEvents:
		return a.listEvents(ctx, c, now)
	case command.DeleteEvent:
		return a.deleteEvent(ctx, c, now)
	case command.Debug:
		return a.debug(ctx)
	case command.Help:
		return helpReply, nil
	case command.Unrecognized:
		return unrecognizedReply(c.Text), nil
	default:
		return "", fmt.Errorf("unsupported command %T", cmd)
	}
}

// Outcome classifies the error returned by Execute for metrics and audit.
func Outcome(err error) string {
	var ce *calendar.Error
	switch {
	case err == nil:
		return instrumentation.OutcomeOK
	case errors.As(err, &ce):
		return instrumentation.OutcomeBackendError
	default:
		return instrumentation.OutcomeUnexpected
	}
}

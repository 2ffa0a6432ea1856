package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/teemow/calbot/internal/assistant"
	"github.com/teemow/calbot/internal/command"
	"github.com/teemow/calbot/internal/instrumentation"
	"github.com/teemow/calbot/internal/logging"
)

// Query is the message the digest asks the assistant to answer.
const Query = "今日の予定"

// DefaultTimeout bounds one digest run, including all pushes.
const DefaultTimeout = time.Minute

// Dispatcher answers a message. *assistant.Assistant satisfies it.
type Dispatcher interface {
	Handle(ctx context.Context, msg assistant.Message) string
}

// Pusher sends a message outside of a webhook exchange. *line.Client
// satisfies it.
type Pusher interface {
	Push(ctx context.Context, to, text string) error
}

// Config configures a Scheduler.
type Config struct {
	// Schedule is a standard five-field cron expression evaluated in JST.
	Schedule string
	// To lists the destinations the digest is pushed to.
	To         []string
	Dispatcher Dispatcher
	Pusher     Pusher
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Scheduler pushes today's agenda on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	schedule   cron.Schedule
	to         []string
	dispatcher Dispatcher
	pusher     Pusher
	timeout    time.Duration
	logger     *slog.Logger
}

// New validates cfg and creates a stopped Scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Dispatcher == nil || cfg.Pusher == nil {
		return nil, errors.New("digest: dispatcher and pusher are required")
	}
	if len(cfg.To) == 0 {
		return nil, errors.New("digest: at least one destination is required")
	}
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("digest: invalid schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := logging.WithComponent(cfg.Logger, "digest")

	s := &Scheduler{
		schedule:   schedule,
		to:         cfg.To,
		dispatcher: cfg.Dispatcher,
		pusher:     cfg.Pusher,
		timeout:    cfg.Timeout,
		logger:     logger,
	}

	cronLogger := logging.NewCronAdapter(cfg.Logger)
	s.cron = cron.New(
		cron.WithLocation(command.JST),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	s.cron.Schedule(schedule, cron.FuncJob(s.run))

	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("digest scheduled",
		slog.Int("destinations", len(s.to)),
		slog.Time("next", s.Next(time.Now())))
	s.cron.Start()
}

// Stop stops scheduling and waits for a running digest to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the first run time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(command.JST))
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("digest run failed", logging.Operation("digest.run"), logging.Err(err))
	}
}

// RunOnce builds today's agenda and pushes it to every destination. A failed
// push does not stop the others; all failures are returned joined.
func (s *Scheduler) RunOnce(ctx context.Context) (err error) {
	ctx, span := instrumentation.StartSpan(ctx, "digest.run")
	defer func() {
		if err != nil {
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		span.End()
	}()

	text := s.dispatcher.Handle(ctx, assistant.Message{
		Text:   Query,
		Source: instrumentation.SourceDigest,
	})

	var errs []error
	for _, to := range s.to {
		if err := s.pusher.Push(ctx, to, text); err != nil {
			s.logger.Warn("failed to push digest",
				logging.UserHash(to),
				logging.Err(err))
			errs = append(errs, err)
			continue
		}
		s.logger.Debug("digest pushed", logging.UserHash(to))
	}
	return errors.Join(errs...)
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teemow/calbot/internal/assistant"
	"github.com/teemow/calbot/internal/calendar"
	"github.com/teemow/calbot/internal/config"
	"github.com/teemow/calbot/internal/google"
	"github.com/teemow/calbot/internal/instrumentation"
	"github.com/teemow/calbot/internal/logging"
)

// loadConfig reads the optional YAML file and the environment, which the root
// command has already filled from the dotenv files.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(globals.configFile)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newAssistant connects to the calendar with the service account from cfg.
// metrics and audit may be nil.
func newAssistant(ctx context.Context, cfg *config.Config, metrics *instrumentation.Metrics, audit *instrumentation.AuditLogger) (*assistant.Assistant, error) {
	if err := cfg.ValidateCalendar(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	email, err := google.ServiceAccountEmail(creds)
	if err != nil {
		return nil, err
	}
	client, err := calendar.NewServiceAccountClient(ctx, creds, metrics)
	if err != nil {
		return nil, err
	}

	logging.WithOperation(slog.Default(), "calendar.connect").Info("calendar backend configured",
		logging.Calendar(cfg.Calendar.ID),
		slog.String("service_account", email))

	return assistant.New(assistant.Config{
		CalendarID: cfg.Calendar.ID,
		Backend:    client,
		Logger:     slog.Default(),
		Metrics:    metrics,
		Audit:      audit,
	})
}

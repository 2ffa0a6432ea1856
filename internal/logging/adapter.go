package logging

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// CronAdapter adapts an slog.Logger to the cron.Logger interface so the
// scheduler's own messages end up in the structured log.
type CronAdapter struct {
	logger *slog.Logger
}

var _ cron.Logger = (*CronAdapter)(nil)

// NewCronAdapter creates a new CronAdapter wrapping the given slog.Logger.
// If logger is nil, slog.Default() is used.
func NewCronAdapter(logger *slog.Logger) *CronAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CronAdapter{logger: WithComponent(logger, "cron")}
}

// Info logs routine scheduler messages. cron emits these on every tick, so
// they are logged at debug level.
// Arguments are alternating key-value pairs: key1, value1, key2, value2, ...
func (a *CronAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug(msg, keysAndValues...)
}

// Error logs a scheduler error with key-value pairs.
func (a *CronAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{Err(err)}, keysAndValues...)
	a.logger.Error(msg, args...)
}

// Logger returns the underlying slog.Logger for direct access when needed.
func (a *CronAdapter) Logger() *slog.Logger {
	return a.logger
}

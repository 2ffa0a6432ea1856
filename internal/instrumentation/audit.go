package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

// CommandInvocation captures one handled chat message for audit logging.
//
// # Privacy Considerations
//
// UserID and Text are raw chat data. They are only logged when the audit
// logger is configured with IncludePII; otherwise UserHash is used and the
// text is omitted.
type CommandInvocation struct {
	// Command kind as produced by the parser
	Command string

	// Where the message came from (line, mcp, cli, digest)
	Source string

	// Chat identity
	UserID   string
	UserHash string

	// Message text as received, after trimming
	Text string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Outcome   string
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewCommandInvocation creates a new CommandInvocation with timing started.
// Call Complete() when the reply has been produced.
func NewCommandInvocation(source string) *CommandInvocation {
	return &CommandInvocation{
		Source:    source,
		StartTime: time.Now(),
	}
}

// WithUser sets the chat user identity. hash is the anonymized form of id.
func (ci *CommandInvocation) WithUser(id, hash string) *CommandInvocation {
	ci.UserID = id
	ci.UserHash = hash
	return ci
}

// WithText records the message text and the command it parsed to.
func (ci *CommandInvocation) WithText(text, command string) *CommandInvocation {
	ci.Text = text
	ci.Command = command
	return ci
}

// WithSpanContext extracts trace context from the current span.
func (ci *CommandInvocation) WithSpanContext(ctx context.Context) *CommandInvocation {
	ci.TraceID = GetTraceID(ctx)
	ci.SpanID = GetSpanID(ctx)
	return ci
}

// Complete marks the invocation as finished with the given outcome and
// calculates the duration.
func (ci *CommandInvocation) Complete(outcome string, err error) *CommandInvocation {
	ci.Duration = time.Since(ci.StartTime)
	ci.Outcome = outcome
	if err != nil {
		ci.Error = err.Error()
	}
	return ci
}

// Succeeded reports whether the command completed without an error reply.
func (ci *CommandInvocation) Succeeded() bool {
	return ci.Outcome == OutcomeOK
}

// LogAttrs returns slog attributes without raw chat data.
func (ci *CommandInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("command", ci.Command),
		slog.String("source", ci.Source),
		slog.String("outcome", ci.Outcome),
		slog.Duration("duration", ci.Duration),
	}

	if ci.UserHash != "" {
		attrs = append(attrs, slog.String("user", ci.UserHash))
	}
	if ci.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ci.TraceID))
	}
	if ci.Error != "" {
		attrs = append(attrs, slog.String("error", ci.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes including the raw user ID and text.
//
// # Security Warning
//
// Ensure audit logs carrying these attributes are stored with appropriate
// access controls.
func (ci *CommandInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("command", ci.Command),
		slog.String("source", ci.Source),
		slog.String("outcome", ci.Outcome),
		slog.Duration("duration", ci.Duration),
		slog.String("text", ci.Text),
	}

	if ci.UserID != "" {
		attrs = append(attrs, slog.String("user_id", ci.UserID))
	}
	if ci.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ci.TraceID))
	}
	if ci.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ci.SpanID))
	}
	if ci.Error != "" {
		attrs = append(attrs, slog.String("error", ci.Error))
	}

	return attrs
}

// AuditLogger provides structured audit logging for handled commands.
// A nil *AuditLogger discards everything.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// By default, raw chat data is not included.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: false,
		enabled:    true,
	}
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogCommand logs a handled command. Failed commands are logged at WARN.
func (al *AuditLogger) LogCommand(ci *CommandInvocation) {
	if al == nil || !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = ci.LogAuditAttrs()
	} else {
		attrs = ci.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ci.Succeeded() {
		al.logger.Info("command_handled", args...)
	} else {
		al.logger.Warn("command_failed", args...)
	}
}

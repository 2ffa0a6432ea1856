package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrTool      = "tool"
	attrCommand   = "command"
	attrSource    = "source"
	attrEventType = "event_type"
)

// Histogram boundaries in seconds. Webhook requests are answered quickly;
// anything that waits on Google uses the wider buckets.
var (
	requestBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10}
	backendBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
)

// Metrics records calbot's counters and histograms.
// All Record methods are safe to call on a nil or zero-value *Metrics.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	commandsTotal   metric.Int64Counter
	commandDuration metric.Float64Histogram

	webhookEventsTotal metric.Int64Counter

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels adds the message source to command metrics.
	detailedLabels bool
}

// instruments creates instruments on one meter and keeps the first error.
type instruments struct {
	meter metric.Meter
	err   error
}

func (in *instruments) counter(name, description, unit string) metric.Int64Counter {
	if in.err != nil {
		return nil
	}
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.err = fmt.Errorf("failed to create %s counter: %w", name, err)
	}
	return c
}

func (in *instruments) seconds(name, description string, buckets []float64) metric.Float64Histogram {
	if in.err != nil {
		return nil
	}
	h, err := in.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		in.err = fmt.Errorf("failed to create %s histogram: %w", name, err)
	}
	return h
}

// NewMetrics creates every calbot instrument on meter. detailedLabels adds
// the message source to the bot command metrics.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	in := &instruments{meter: meter}
	m := &Metrics{
		httpRequestsTotal:   in.counter("http_requests_total", "HTTP requests served on the webhook port", "{request}"),
		httpRequestDuration: in.seconds("http_request_duration_seconds", "HTTP request duration on the webhook port", requestBuckets),

		googleAPIOperationsTotal:   in.counter("google_api_operations_total", "Google Calendar API calls", "{operation}"),
		googleAPIOperationDuration: in.seconds("google_api_operation_duration_seconds", "Google Calendar API call duration", backendBuckets),

		commandsTotal:   in.counter("bot_commands_total", "Chat messages handled, by parsed command and outcome", "{command}"),
		commandDuration: in.seconds("bot_command_duration_seconds", "Time from receiving a chat message to producing its reply", backendBuckets),

		webhookEventsTotal: in.counter("webhook_events_total", "LINE webhook events received, by event type and result", "{event}"),

		toolInvocationsTotal: in.counter("mcp_tool_invocations_total", "MCP tool invocations", "{invocation}"),
		toolDuration:         in.seconds("mcp_tool_duration_seconds", "MCP tool execution duration", backendBuckets),

		detailedLabels: detailedLabels,
	}
	if in.err != nil {
		return nil, in.err
	}
	return m, nil
}

// RecordHTTPRequest records a request served by the webhook server. path is
// the matched route pattern, never the raw URL.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation records one calendar API call. operation is list,
// insert, delete or list_calendars; status is StatusSuccess or StatusError.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCommand records one handled chat message under its command kind and
// outcome (OutcomeOK, OutcomeBackendError or OutcomeUnexpected).
func (m *Metrics) RecordCommand(ctx context.Context, command, outcome, source string, duration time.Duration) {
	if m == nil || m.commandsTotal == nil {
		return
	}
	kv := []attribute.KeyValue{
		attribute.String(attrCommand, command),
		attribute.String(attrResult, outcome),
	}
	if m.detailedLabels && source != "" {
		kv = append(kv, attribute.String(attrSource, source))
	}
	attrs := metric.WithAttributes(kv...)
	m.commandsTotal.Add(ctx, 1, attrs)
	m.commandDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordWebhookEvent records a webhook event. result is WebhookResultHandled,
// WebhookResultIgnored or WebhookResultRejected.
func (m *Metrics) RecordWebhookEvent(ctx context.Context, eventType, result string) {
	if m == nil || m.webhookEventsTotal == nil {
		return
	}
	m.webhookEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrEventType, eventType),
		attribute.String(attrResult, result),
	))
}

// RecordToolInvocation records one MCP tool call with StatusSuccess or
// StatusError.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	)
	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for calbot.
const TracerName = "github.com/teemow/calbot"

// Span attribute keys.
const (
	SpanAttrCommand   = "bot.command"
	SpanAttrSource    = "bot.source"
	SpanAttrUser      = "bot.user"
	SpanAttrTool      = "mcp.tool"
	SpanAttrService   = "google.service"
	SpanAttrOperation = "google.operation"
	SpanAttrCalendar  = "google.calendar_id"
)

// Span names.
const (
	SpanCommand = "bot.handle"
)

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartSpan starts an internal span. The caller ends it.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartCommandSpan starts the span covering one chat message, from parse to
// reply. userHash is the anonymized sender and is left out when empty, as is
// source.
func StartCommandSpan(ctx context.Context, kind, source, userHash string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String(SpanAttrCommand, kind)}
	if source != "" {
		attrs = append(attrs, attribute.String(SpanAttrSource, source))
	}
	if userHash != "" {
		attrs = append(attrs, attribute.String(SpanAttrUser, userHash))
	}
	return tracer().Start(ctx, SpanCommand,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartToolSpan starts a server span for an MCP tool invocation.
func StartToolSpan(ctx context.Context, toolName string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "tool."+toolName,
		trace.WithAttributes(attribute.String(SpanAttrTool, toolName)),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartCalendarSpan starts a client span for a Google Calendar API call named
// google.calendar.<operation>. calendarID is omitted when empty, as for
// list_calendars.
func StartCalendarSpan(ctx context.Context, operation, calendarID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String(SpanAttrService, ServiceCalendar),
		attribute.String(SpanAttrOperation, operation),
	}
	if calendarID != "" {
		attrs = append(attrs, attribute.String(SpanAttrCalendar, calendarID))
	}
	return tracer().Start(ctx, "google."+ServiceCalendar+"."+operation,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records err on span and marks it failed. A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks span as OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID of the span in ctx, or "" without one.
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID of the span in ctx, or "" without one.
func GetSpanID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}

package common

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/calbot/internal/instrumentation"
	"github.com/teemow/calbot/internal/logging"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Instrumentation holds the optional observers of tool invocations.
// The zero value records nothing and logs to slog.Default.
type Instrumentation struct {
	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

// InstrumentedToolHandler wraps a tool handler with a span, invocation
// metrics and a debug log line per call.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", inst, handler))
func InstrumentedToolHandler(toolName string, inst Instrumentation, handler ToolHandler) ToolHandler {
	logger := inst.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(logging.Tool(toolName))

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := Status(result, err)
		inst.Metrics.RecordToolInvocation(ctx, toolName, status, duration)

		switch {
		case err != nil:
			instrumentation.SetSpanError(span, err)
			logger.Warn("tool failed", logging.Status(status), logging.Err(err), slog.Duration("duration", duration))
		case status == instrumentation.StatusError:
			instrumentation.SetSpanError(span, errors.New(ResultText(result)))
			logger.Debug("tool returned an error result", logging.Status(status), slog.Duration("duration", duration))
		default:
			instrumentation.SetSpanSuccess(span)
			logger.Debug("tool completed", logging.Status(status), slog.Duration("duration", duration))
		}

		return result, err
	}
}

// Status reports the metric status of a tool call.
func Status(result *mcp.CallToolResult, err error) string {
	if err != nil || (result != nil && result.IsError) {
		return instrumentation.StatusError
	}
	return instrumentation.StatusSuccess
}

// ResultText returns the concatenated text content of a result.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var text string
	for _, c := range result.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			text += tc.Text
		case *mcp.TextContent:
			text += tc.Text
		}
	}
	return text
}

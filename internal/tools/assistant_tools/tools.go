package assistant_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calbot/internal/assistant"
	"github.com/teemow/calbot/internal/command"
	"github.com/teemow/calbot/internal/instrumentation"
	"github.com/teemow/calbot/internal/tools/common"
)

// Tool names.
const (
	ParseCommandTool = "calendar_parse_command"
	ChatTool         = "calendar_chat"
)

// Dispatcher answers a message. *assistant.Assistant satisfies it.
type Dispatcher interface {
	Handle(ctx context.Context, msg assistant.Message) string
}

// Config holds what the assistant tools need.
type Config struct {
	// Now returns the default interpretation moment. Defaults to time.Now.
	Now func() time.Time
	// Assistant backs calendar_chat. It may be nil when mutations are
	// disabled.
	Assistant Dispatcher
	// AllowMutations registers calendar_chat, which can create and delete
	// events.
	AllowMutations  bool
	Instrumentation common.Instrumentation
}

// RegisterAssistantTools registers the assistant tools with the MCP server.
func RegisterAssistantTools(s *mcpserver.MCPServer, cfg Config) error {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.AllowMutations && cfg.Assistant == nil {
		return errors.New("calendar_chat requires an assistant")
	}

	// Parse tool (read-only, always available)
	parseTool := mcp.NewTool(ParseCommandTool,
		mcp.WithDescription("Parse a Japanese calendar message (e.g. '明日10時 会議', '今週の予定', '削除 明日10時 会議') "+
			"and show the command it resolves to, without touching the calendar"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The chat message to parse"),
		),
		mcp.WithString("now",
			mcp.Description("Interpretation moment (RFC3339 format, e.g., '2025-10-01T09:00:00+09:00'). Defaults to the current time"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(parseTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandler(ParseCommandTool, cfg.Instrumentation,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleParseCommand(ctx, request, cfg)
		})))

	if !cfg.AllowMutations {
		return nil
	}

	// Chat tool (mutating, only with --yolo)
	chatTool := mcp.NewTool(ChatTool,
		mcp.WithDescription("Send a Japanese calendar message to the assistant and return its reply. "+
			"Messages can create, list and delete events on the configured calendar"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The chat message, as a LINE user would type it"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)
	s.AddTool(chatTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandler(ChatTool, cfg.Instrumentation,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleChat(ctx, request, cfg)
		})))

	return nil
}

func handleParseCommand(_ context.Context, request mcp.CallToolRequest, cfg Config) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	text := strings.TrimSpace(common.StringArg(args, "text"))
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	now, ok, err := common.TimeArg(args, "now")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		now = cfg.Now()
	}

	explanation := assistant.Explain(command.Parse(text, command.Moment(now)), now)
	out, err := json.MarshalIndent(explanation, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode parse result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func handleChat(ctx context.Context, request mcp.CallToolRequest, cfg Config) (*mcp.CallToolResult, error) {
	text := strings.TrimSpace(common.StringArg(request.GetArguments(), "text"))
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	reply := cfg.Assistant.Handle(ctx, assistant.Message{
		Text:   text,
		Source: instrumentation.SourceMCP,
	})
	return mcp.NewToolResultText(reply), nil
}

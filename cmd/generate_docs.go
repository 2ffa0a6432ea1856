package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/calbot/internal/assistant"
	"github.com/teemow/calbot/internal/tools/assistant_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for the MCP tools calbot serves over stdio.
The tools are registered exactly as serve --transport stdio --yolo would
register them, so the output always matches the running server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(cmd.OutOrStdout(), outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// docsDispatcher stands in for the assistant so calendar_chat can be
// registered without calendar credentials. It is never called.
type docsDispatcher struct{}

func (docsDispatcher) Handle(context.Context, assistant.Message) string { return "" }

func runGenerateDocs(w io.Writer, outputFile string) error {
	mcpSrv := mcpserver.NewMCPServer("calbot", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := assistant_tools.RegisterAssistantTools(mcpSrv, assistant_tools.Config{
		AllowMutations: true,
		Assistant:      docsDispatcher{},
	}); err != nil {
		return fmt.Errorf("failed to register assistant tools: %w", err)
	}

	tools := make([]mcp.Tool, 0)
	for _, st := range mcpSrv.ListTools() {
		tools = append(tools, st.Tool)
	}
	markdown := generateToolsMarkdown(tools)

	if outputFile == "" {
		_, err := io.WriteString(w, markdown)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

// toolSection is one category heading with its tools sorted by name.
type toolSection struct {
	title string
	tools []mcp.Tool
}

func sectionsOf(tools []mcp.Tool) []toolSection {
	byTitle := map[string][]mcp.Tool{}
	for _, tool := range tools {
		title := getCategoryFromToolName(tool.Name)
		byTitle[title] = append(byTitle[title], tool)
	}

	sections := make([]toolSection, 0, len(byTitle))
	for title, list := range byTitle {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		sections = append(sections, toolSection{title: title, tools: list})
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].title < sections[j].title })
	return sections
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	sections := sectionsOf(tools)

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("Tools served by `calbot serve --transport stdio`. This file is generated by `calbot generate-docs`.\n\n")

	sb.WriteString("## Table of Contents\n\n")
	for _, s := range sections {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", s.title, strings.ToLower(strings.ReplaceAll(s.title, " ", "-")))
	}
	sb.WriteString("\n## Safety Mode\n\n")
	sb.WriteString("Tools that modify the calendar are only registered when the server is started with `--yolo`.\n\n")

	for _, s := range sections {
		fmt.Fprintf(&sb, "## %s\n\n", s.title)
		for _, tool := range s.tools {
			writeToolMarkdown(&sb, tool)
		}
	}
	return sb.String()
}

func getCategoryFromToolName(name string) string {
	if prefix, _, _ := strings.Cut(name, "_"); prefix == "calendar" {
		return "Calendar Assistant Tools"
	}
	return "Other"
}

func writeToolMarkdown(sb *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", tool.Description)
	}
	if hint := tool.Annotations.DestructiveHint; hint != nil && *hint {
		sb.WriteString("**Modifies the calendar.** Requires `--yolo`.\n\n")
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString("**Arguments:**\n")
	for _, name := range names {
		schema, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		presence := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			presence = "required"
		}
		fmt.Fprintf(sb, "- `%s` (%s): %s\n", name, presence, argumentDescription(schema))
	}
	sb.WriteString("\n")
}

// argumentDescription falls back to "<type> parameter" for undocumented
// arguments.
func argumentDescription(schema map[string]any) string {
	if desc, ok := schema["description"].(string); ok {
		return desc
	}
	typ, ok := schema["type"].(string)
	if !ok {
		typ = "any"
	}
	return typ + " parameter"
}

// Package cmd implements the command-line interface for calbot.
//
// This package provides the following commands:
//   - serve: Run the LINE webhook server, or the MCP server with --transport stdio
//   - parse: Print the command a message parses to without touching the calendar
//   - run: Execute one message against the configured calendar
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd

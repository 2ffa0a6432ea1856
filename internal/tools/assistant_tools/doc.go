// Package assistant_tools exposes the calendar assistant over MCP.
//
// calendar_parse_command is read-only and always registered. calendar_chat
// runs a message through the assistant exactly like a LINE message would and
// is only registered when mutations are allowed.
package assistant_tools

// Package logging provides structured logging utilities for calbot.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Text or JSON handlers selected from configuration
//   - PII sanitization (chat user IDs are hashed)
//   - Consistent attribute naming across the codebase
//   - A cron.Logger adapter so scheduler output is structured too
//
// # Usage Patterns
//
//	logger := logging.WithComponent(slog.Default(), "webhook")
//	logger.Info("message handled",
//	    logging.Command("create_event"),
//	    logging.UserHash(userID))
//
// # Security Considerations
//
//   - Chat user IDs are hashed to prevent PII leakage while allowing correlation
//   - Tokens are never logged directly
package logging

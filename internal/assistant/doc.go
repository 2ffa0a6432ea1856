// Package assistant executes parsed chat commands against a calendar backend
// and renders the Japanese reply texts.
//
// Handle is the entry point for transports: it parses the message at the
// current JST moment, runs the command, and always returns exactly one reply.
// Backend failures become a category-specific error reply; anything else,
// including a panic, becomes a generic error reply.
package assistant

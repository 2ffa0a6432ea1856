// Package line connects the assistant to the LINE Messaging API.
//
// WebhookHandler verifies the X-Line-Signature of each delivery, dispatches
// every text message event and replies with the returned text. Client wraps
// the reply and push endpoints.
package line

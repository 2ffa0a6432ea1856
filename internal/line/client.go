package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// DefaultEndpoint is the LINE Messaging API base URL.
const DefaultEndpoint = "https://api.line.me"

// MaxTextLength is the longest text message LINE accepts, in characters.
const MaxTextLength = 5000

// ClientConfig configures a Messaging API client.
type ClientConfig struct {
	ChannelAccessToken string
	// Endpoint overrides DefaultEndpoint; used by tests.
	Endpoint   string
	HTTPClient *http.Client
}

// Client sends text messages through the LINE Messaging API.
type Client struct {
	api *messaging_api.MessagingApiAPI
}

// NewClient creates a Messaging API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.ChannelAccessToken == "" {
		return nil, errors.New("line: channel access token is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}

	api, err := messaging_api.NewMessagingApiAPI(cfg.ChannelAccessToken,
		messaging_api.WithEndpoint(cfg.Endpoint),
		messaging_api.WithHTTPClient(cfg.HTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging API client: %w", err)
	}
	return &Client{api: api}, nil
}

// Reply answers a webhook event using its reply token.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	_, err := c.api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   textMessages(text),
	})
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// Push sends text to a user, group or room ID outside of a webhook exchange.
func (c *Client) Push(ctx context.Context, to, text string) error {
	_, err := c.api.WithContext(ctx).PushMessage(&messaging_api.PushMessageRequest{
		To:       to,
		Messages: textMessages(text),
	}, "")
	if err != nil {
		return fmt.Errorf("failed to push message to %s: %w", to, err)
	}
	return nil
}

func textMessages(text string) []messaging_api.MessageInterface {
	return []messaging_api.MessageInterface{
		messaging_api.TextMessage{Text: truncate(text, MaxTextLength)},
	}
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

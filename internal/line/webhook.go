package line

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/teemow/calbot/internal/assistant"
	"github.com/teemow/calbot/internal/instrumentation"
	"github.com/teemow/calbot/internal/logging"
)

// Dispatcher turns one inbound message into the reply text.
// *assistant.Assistant satisfies it.
type Dispatcher interface {
	Handle(ctx context.Context, msg assistant.Message) string
}

// Replier sends a reply for a webhook event. *Client satisfies it.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

var (
	_ Dispatcher = (*assistant.Assistant)(nil)
	_ Replier    = (*Client)(nil)
)

// WebhookConfig holds the collaborators of a WebhookHandler.
type WebhookConfig struct {
	ChannelSecret string
	Dispatcher    Dispatcher
	Replier       Replier
	Logger        *slog.Logger
	Metrics       *instrumentation.Metrics
}

// WebhookHandler receives LINE webhook deliveries.
type WebhookHandler struct {
	secret     string
	dispatcher Dispatcher
	replier    Replier
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(cfg WebhookConfig) (*WebhookHandler, error) {
	if cfg.ChannelSecret == "" {
		return nil, errors.New("line: channel secret is required")
	}
	if cfg.Dispatcher == nil || cfg.Replier == nil {
		return nil, errors.New("line: dispatcher and replier are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &WebhookHandler{
		secret:     cfg.ChannelSecret,
		dispatcher: cfg.Dispatcher,
		replier:    cfg.Replier,
		logger:     logging.WithComponent(cfg.Logger, "line"),
		metrics:    cfg.Metrics,
	}, nil
}

// ServeHTTP answers GET with 200 for console verification and processes
// signed POST deliveries. Every text message gets exactly one reply. Send
// failures are logged and the delivery is still acknowledged with 200.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeText(w, http.StatusOK, "OK")
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, POST")
		writeText(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()

	cb, err := webhook.ParseRequest(h.secret, r)
	if err != nil {
		h.metrics.RecordWebhookEvent(ctx, "request", instrumentation.WebhookResultRejected)
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("rejected webhook with invalid signature")
		} else {
			h.logger.Warn("rejected malformed webhook", logging.Err(err))
		}
		writeText(w, http.StatusBadRequest, "bad request")
		return
	}

	for _, event := range cb.Events {
		h.handleEvent(ctx, event)
	}

	writeText(w, http.StatusOK, "OK")
}

func (h *WebhookHandler) handleEvent(ctx context.Context, event webhook.EventInterface) {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		h.metrics.RecordWebhookEvent(ctx, "other", instrumentation.WebhookResultIgnored)
		return
	}
	text, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		h.metrics.RecordWebhookEvent(ctx, "message", instrumentation.WebhookResultIgnored)
		return
	}

	reply := h.dispatcher.Handle(ctx, assistant.Message{
		Text:   text.Text,
		UserID: SourceUserID(e.Source),
		Source: instrumentation.SourceLINE,
	})

	if err := h.replier.Reply(ctx, e.ReplyToken, reply); err != nil {
		h.logger.Error("failed to send reply",
			logging.UserHash(SourceUserID(e.Source)),
			logging.Err(err))
	}
	h.metrics.RecordWebhookEvent(ctx, "message", instrumentation.WebhookResultHandled)
}

// SourceUserID returns the sending user of an event source, or "" when the
// source does not carry one.
func SourceUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	default:
		return ""
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

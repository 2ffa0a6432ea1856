package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/teemow/calbot/internal/instrumentation"
	"github.com/teemow/calbot/internal/logging"
)

// CallbackPath is where LINE delivers webhooks.
const CallbackPath = "/callback"

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
)

// WebhookServerConfig holds configuration for the webhook server.
type WebhookServerConfig struct {
	Addr string
	// Webhook handles deliveries on CallbackPath.
	Webhook http.Handler
	Health  *HealthChecker
	Metrics *instrumentation.Metrics
	Logger  *slog.Logger
}

// WebhookServer is the public HTTP listener: the LINE callback plus the
// health endpoints, all behind the request metrics middleware.
type WebhookServer struct {
	httpServer *http.Server
	health     *HealthChecker
	logger     *slog.Logger
}

// NewWebhookServer creates a WebhookServer.
func NewWebhookServer(config WebhookServerConfig) (*WebhookServer, error) {
	if config.Webhook == nil {
		return nil, errors.New("webhook handler is required")
	}
	if config.Health == nil {
		return nil, errors.New("health checker is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle(CallbackPath, config.Webhook)
	config.Health.RegisterHealthEndpoints(mux)

	return &WebhookServer{
		health: config.Health,
		logger: logging.WithComponent(config.Logger, "webhook-server"),
		httpServer: &http.Server{
			Addr:              config.Addr,
			Handler:           InstrumentHandler(mux, config.Metrics),
			ReadHeaderTimeout: defaultReadHeaderTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
		},
	}, nil
}

// Handler returns the instrumented root handler.
func (s *WebhookServer) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the configured address and serves until Shutdown.
func (s *WebhookServer) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve marks the server ready and serves on ln until Shutdown.
// It returns http.ErrServerClosed after a graceful shutdown.
func (s *WebhookServer) Serve(ln net.Listener) error {
	s.logger.Info("starting webhook server",
		slog.String("addr", ln.Addr().String()),
		slog.String("callback", CallbackPath))
	s.health.SetReady(true)
	return s.httpServer.Serve(ln)
}

// Shutdown fails readiness first and then drains in-flight deliveries.
func (s *WebhookServer) Shutdown(ctx context.Context) error {
	s.health.SetShuttingDown()
	s.logger.Info("shutting down webhook server")
	return s.httpServer.Shutdown(ctx)
}

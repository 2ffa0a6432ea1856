package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/calbot/internal/config"
	"github.com/teemow/calbot/internal/digest"
	"github.com/teemow/calbot/internal/instrumentation"
	"github.com/teemow/calbot/internal/line"
	"github.com/teemow/calbot/internal/logging"
	"github.com/teemow/calbot/internal/server"
	"github.com/teemow/calbot/internal/tools/assistant_tools"
	"github.com/teemow/calbot/internal/tools/common"
)

// Transport names accepted by serve --transport.
const (
	transportHTTP  = "http"
	transportStdio = "stdio"
)

// serveOptions holds the serve flags.
type serveOptions struct {
	transport      string
	httpAddr       string
	yolo           bool
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the LINE webhook server or the MCP server",
		Long: `Start calbot as a long-running server.

Supports two transport types:
  - http: LINE webhook on /callback plus /healthz, /readyz and
    /healthz/detailed (default)
  - stdio: Model Context Protocol server on standard input/output

Configuration:
  LINE_CHANNEL_SECRET, LINE_CHANNEL_ACCESS_TOKEN (http transport)
  CALENDAR_ID and CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS
  DIGEST_SCHEDULE and DIGEST_TO push 今日の予定 on a cron schedule (JST)
  Values may also come from --config (YAML) and --env-file.

Safety Mode:
  Over stdio only calendar_parse_command is exposed by default.
  Use --yolo to also expose calendar_chat, which creates and deletes events.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					opts.metricsAddr = addr
				}
			}
			return runServe(cmd.Context(), opts, cmd.Flags().Changed("http-addr"))
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", transportHTTP, "Transport type: http or stdio")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", config.DefaultHTTPAddr, "Webhook server address (http transport). Can also use HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&opts.yolo, "yolo", false, "Expose calendar_chat over MCP, which can create and delete events. Default is read-only.")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (http transport).")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func (o serveOptions) validate() error {
	switch o.transport {
	case transportHTTP, transportStdio:
		return nil
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", o.transport, transportHTTP, transportStdio)
	}
}

func runServe(ctx context.Context, opts serveOptions, httpAddrSet bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if httpAddrSet {
		cfg.HTTP.Addr = opts.httpAddr
	}

	// Initialize instrumentation provider
	instrConfig, err := instrumentation.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("invalid instrumentation configuration:\n%w", err)
	}
	instrConfig.ServiceVersion = version
	if opts.transport == transportStdio && instrConfig.WritesToStdout() {
		return errors.New("the stdout exporters cannot be used with the stdio transport")
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(flushCtx); err != nil {
			slog.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	audit := instrumentation.NewAuditLoggerWithConfig(slog.Default().With(slog.String("log_type", "audit")), instrConfig.AuditLogging)

	switch opts.transport {
	case transportStdio:
		return runStdioServer(shutdownCtx, cfg, opts, provider, audit)
	default:
		return runWebhookServer(shutdownCtx, cfg, opts, provider, audit)
	}
}

func runStdioServer(ctx context.Context, cfg *config.Config, opts serveOptions, provider *instrumentation.Provider, audit *instrumentation.AuditLogger) error {
	toolsCfg := assistant_tools.Config{
		AllowMutations: opts.yolo,
		Instrumentation: common.Instrumentation{
			Metrics: provider.Metrics(),
			Logger:  slog.Default(),
		},
	}

	if opts.yolo {
		asst, err := newAssistant(ctx, cfg, provider.Metrics(), audit)
		if err != nil {
			return err
		}
		toolsCfg.Assistant = asst
		slog.Info("starting MCP server with calendar_chat enabled (--yolo flag is set)")
	} else {
		slog.Info("starting MCP server in READ-ONLY mode (use --yolo to enable calendar_chat)")
	}

	mcpSrv := mcpserver.NewMCPServer("calbot", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := assistant_tools.RegisterAssistantTools(mcpSrv, toolsCfg); err != nil {
		return fmt.Errorf("failed to register assistant tools: %w", err)
	}

	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runWebhookServer(ctx context.Context, cfg *config.Config, opts serveOptions, provider *instrumentation.Provider, audit *instrumentation.AuditLogger) error {
	if err := cfg.ValidateWebhook(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	metrics := provider.Metrics()
	logger := slog.Default()

	asst, err := newAssistant(ctx, cfg, metrics, audit)
	if err != nil {
		return err
	}

	lineClient, err := line.NewClient(line.ClientConfig{ChannelAccessToken: cfg.LINE.ChannelAccessToken})
	if err != nil {
		return err
	}
	logger.Debug("LINE client configured",
		slog.String("token", logging.SanitizeToken(cfg.LINE.ChannelAccessToken)))

	webhook, err := line.NewWebhookHandler(line.WebhookConfig{
		ChannelSecret: cfg.LINE.ChannelSecret,
		Dispatcher:    asst,
		Replier:       lineClient,
		Logger:        logger,
		Metrics:       metrics,
	})
	if err != nil {
		return err
	}

	health := server.NewHealthChecker(version, cfg.Calendar.ID)
	webhookServer, err := server.NewWebhookServer(server.WebhookServerConfig{
		Addr:    cfg.HTTP.Addr,
		Webhook: webhook,
		Health:  health,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	var metricsServer *server.MetricsServer
	if opts.metricsEnabled && provider.Enabled() && provider.UsesPrometheus() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metricsAddr,
			InstrumentationProvider: provider,
			Logger:                  logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	var scheduler *digest.Scheduler
	if cfg.Digest.Enabled() {
		scheduler, err = digest.New(digest.Config{
			Schedule:   cfg.Digest.Schedule,
			To:         cfg.Digest.To,
			Dispatcher: asst,
			Pusher:     lineClient,
			Logger:     logger,
		})
		if err != nil {
			return err
		}
	}

	serverErr := make(chan error, 2)
	go func() {
		if err := webhookServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("webhook server: %w", err)
		}
	}()
	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}
	if scheduler != nil {
		scheduler.Start()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serverErr:
		logger.Error("server failed", logging.Err(runErr))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()

	errs := []error{runErr}
	if scheduler != nil {
		if err := scheduler.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("digest scheduler: %w", err))
		}
	}
	if err := webhookServer.Shutdown(stopCtx); err != nil {
		errs = append(errs, fmt.Errorf("webhook server shutdown: %w", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

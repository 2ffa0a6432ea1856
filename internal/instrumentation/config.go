package instrumentation

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvEnabled          = "INSTRUMENTATION_ENABLED"
	EnvServiceName      = "OTEL_SERVICE_NAME"
	EnvInstanceID       = "OTEL_SERVICE_INSTANCE_ID"
	EnvMetricsExporter  = "METRICS_EXPORTER"
	EnvTracingExporter  = "TRACING_EXPORTER"
	EnvOTLPEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"
	EnvTraceSampleRatio = "OTEL_TRACES_SAMPLER_ARG"
	EnvDetailedLabels   = "METRICS_DETAILED_LABELS"
	EnvAuditEnabled     = "AUDIT_LOGGING_ENABLED"
	EnvAuditIncludePII  = "AUDIT_LOGGING_INCLUDE_PII"
)

// Config controls how calbot exports metrics, traces and the command audit log.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// InstanceID identifies this process in exported telemetry. The hostname
	// is used when it is empty.
	InstanceID string

	// Enabled turns metrics and tracing on. A disabled Config ignores the
	// exporter settings and yields no-op recorders.
	Enabled bool

	// MetricsExporter is prometheus, otlp or stdout.
	MetricsExporter string

	// TracingExporter is otlp, stdout or none.
	TracingExporter string

	OTLP OTLPConfig

	// TraceSampleRatio is the share of root spans kept, from 0 to 1. Every
	// webhook delivery and digest run starts a root span.
	TraceSampleRatio float64

	// DetailedLabels adds the message source (line, mcp, cli, digest) to the
	// bot command metrics.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// OTLPConfig points the otlp exporters at a collector.
type OTLPConfig struct {
	// Endpoint is host:port without a scheme, e.g. "localhost:4318".
	Endpoint string

	// Insecure sends plain HTTP. Spans carry calendar operation names, so
	// keep it off outside local setups.
	Insecure bool
}

// AuditLoggingConfig holds configuration for the command audit log.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludePII logs raw LINE user IDs and message text. Otherwise user IDs
	// are hashed and message text is left out.
	IncludePII bool
}

// DefaultConfig returns the settings calbot runs with when nothing is configured:
// Prometheus metrics, no tracing and a hashed audit log.
func DefaultConfig() Config {
	return Config{
		ServiceName:      "calbot",
		ServiceVersion:   "unknown",
		Enabled:          true,
		MetricsExporter:  ExporterPrometheus,
		TracingExporter:  ExporterNone,
		TraceSampleRatio: 0.1,
		AuditLogging:     AuditLoggingConfig{Enabled: true},
	}
}

// ConfigFromEnv returns DefaultConfig overridden by the environment. Values
// that cannot be parsed are reported together.
func ConfigFromEnv() (Config, error) {
	return configFromEnv(os.LookupEnv)
}

func configFromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	r := envReader{lookup: lookup}

	r.setBool(&cfg.Enabled, EnvEnabled)
	r.setString(&cfg.ServiceName, EnvServiceName)
	r.setString(&cfg.InstanceID, EnvInstanceID)
	r.setExporter(&cfg.MetricsExporter, EnvMetricsExporter)
	r.setExporter(&cfg.TracingExporter, EnvTracingExporter)
	r.setString(&cfg.OTLP.Endpoint, EnvOTLPEndpoint)
	r.setBool(&cfg.OTLP.Insecure, EnvOTLPInsecure)
	r.setFloat(&cfg.TraceSampleRatio, EnvTraceSampleRatio)
	r.setBool(&cfg.DetailedLabels, EnvDetailedLabels)
	r.setBool(&cfg.AuditLogging.Enabled, EnvAuditEnabled)
	r.setBool(&cfg.AuditLogging.IncludePII, EnvAuditIncludePII)

	return cfg, errors.Join(r.errs...)
}

// envReader applies set, non-blank variables and collects parse errors.
type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *envReader) value(key string) (string, bool) {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *envReader) setString(dst *string, key string) {
	if v, ok := r.value(key); ok {
		*dst = v
	}
}

func (r *envReader) setExporter(dst *string, key string) {
	if v, ok := r.value(key); ok {
		*dst = strings.ToLower(v)
	}
}

func (r *envReader) setBool(dst *bool, key string) {
	v, ok := r.value(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s %q: expected true or false", key, v))
		return
	}
	*dst = b
}

func (r *envReader) setFloat(dst *float64, key string) {
	v, ok := r.value(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s %q: expected a number", key, v))
		return
	}
	*dst = f
}

// Validate reports every problem with an enabled Config at once.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	var errs []error
	switch c.MetricsExporter {
	case ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		errs = append(errs, fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout (set %s)", c.MetricsExporter, EnvMetricsExporter))
	}
	switch c.TracingExporter {
	case ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		errs = append(errs, fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none (set %s)", c.TracingExporter, EnvTracingExporter))
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("trace sample ratio must be between 0 and 1, got %g (set %s)", c.TraceSampleRatio, EnvTraceSampleRatio))
	}
	if c.usesOTLP() && c.OTLP.Endpoint == "" {
		errs = append(errs, fmt.Errorf("OTLP endpoint is required for the otlp exporter (set %s)", EnvOTLPEndpoint))
	}
	return errors.Join(errs...)
}

// WritesToStdout reports whether an enabled exporter prints to standard
// output, which the stdio MCP transport owns.
func (c Config) WritesToStdout() bool {
	return c.Enabled && (c.MetricsExporter == ExporterStdout || c.TracingExporter == ExporterStdout)
}

func (c Config) usesOTLP() bool {
	return c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP
}

// Constants for metric label values.
const (
	// Status values
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	// Command outcomes
	OutcomeOK           = "ok"
	OutcomeBackendError = "backend_error"
	OutcomeUnexpected   = "unexpected_error"

	// Webhook event results
	WebhookResultHandled  = "handled"
	WebhookResultIgnored  = "ignored"
	WebhookResultRejected = "rejected"

	// Message sources
	SourceLINE   = "line"
	SourceMCP    = "mcp"
	SourceCLI    = "cli"
	SourceDigest = "digest"

	// Google service names
	ServiceCalendar = "calendar"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	// DefaultMetricInterval is the push interval of the otlp and stdout
	// metrics exporters.
	DefaultMetricInterval = 10 * time.Second
)

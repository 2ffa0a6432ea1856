// Package server provides the HTTP listeners of the bot.
//
// WebhookServer is the public listener. It serves the LINE callback on
// /callback and the Kubernetes probes /healthz, /readyz and
// /healthz/detailed. Every request is counted by InstrumentHandler, labelled
// with the matched route rather than the raw path.
//
// MetricsServer exposes the Prometheus registry on a separate port so
// operational metrics are not reachable through the public webhook address.
package server

// Package observability wires logging, metrics and tracing for the application.
package observability

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Protea-Shooting-Federation/psf-backend/config"
)

// Observability bundles the logger, tracer and metrics used by every module.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry
	Metrics  *Metrics

	metricsServer *http.Server
}

// New builds the observability stack. When no metrics address is configured the
// registry still exists but no endpoint is served.
func New(cfg *config.Config) *Observability {
	level := slog.LevelInfo
	if cfg.Observability.Environment == "development" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	// The global provider is a noop unless the operator installed an exporter;
	// services only need the Tracer interface.
	tracer := otel.GetTracerProvider().Tracer("psf-backend")
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("psf-backend")
	}

	return &Observability{
		Logger:   logger,
		Tracer:   tracer,
		Registry: registry,
		Metrics:  metrics,
	}
}

// NewForTest returns an observability bundle that discards everything.
func NewForTest() *Observability {
	registry := prometheus.NewRegistry()
	return &Observability{
		Logger:   slog.New(slog.NewTextHandler(discardWriter{}, nil)),
		Tracer:   noop.NewTracerProvider().Tracer("test"),
		Registry: registry,
		Metrics:  NewMetrics(registry),
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// ServeMetrics starts the /metrics endpoint if an address is configured.
func (o *Observability) ServeMetrics(addr string) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(o.Registry, promhttp.HandlerOpts{}))

	o.metricsServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := o.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			o.Logger.Error("metrics server stopped", "error", err)
		}
	}()
}

// Close shuts down the metrics endpoint.
func (o *Observability) Close(ctx context.Context) error {
	if o.metricsServer == nil {
		return nil
	}
	return o.metricsServer.Shutdown(ctx)
}

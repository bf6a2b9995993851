package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusExporter exposes OTel instruments on a Prometheus scrape endpoint.
// Each exporter owns its registry, so several can coexist in one process.
type PrometheusExporter struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler
}

// NewPrometheusExporter creates a registry with the Go runtime collectors and
// a MeterProvider whose instruments are served by Handler.
func NewPrometheusExporter() (*PrometheusExporter, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &PrometheusExporter{
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)),
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, nil
}

// Meter returns a meter whose instruments appear on the scrape endpoint.
func (p *PrometheusExporter) Meter() metric.Meter {
	return p.provider.Meter(instrumentationName)
}

// Handler serves the /metrics scrape endpoint.
func (p *PrometheusExporter) Handler() http.Handler {
	return p.handler
}

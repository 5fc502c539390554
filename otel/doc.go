// Package otel provides OpenTelemetry integration for xanthos cache metrics.
//
// # Overview
//
// This package implements the xanthos.MetricsCollector interface using
// OpenTelemetry, enabling automatic percentile calculation and
// multi-backend export (Prometheus, Jaeger, Datadog, Grafana).
//
// The package lives in a separate module to keep the xanthos core
// free of OTEL dependencies. Applications that don't configure a
// MetricsCollector don't pay for any of it: xanthos defaults to
// NoOpMetricsCollector.
//
// # Installation
//
//	go get github.com/agilira/xanthos/otel
//
// # Quick Start
//
//	import (
//	    "github.com/agilira/xanthos"
//	    xanthosotel "github.com/agilira/xanthos/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := xanthosotel.NewCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cache, err := xanthos.New[string, User](xanthos.Config[string, User]{
//	    MaximumWeight:    10_000,
//	    MetricsCollector: collector,
//	})
//
//	cache.Put("key", value)
//	cache.GetIfPresent("key")
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":2112", nil))
//
// # Metrics Exposed
//
// Histograms (with automatic percentiles):
//   - xanthos_get_latency_ns
//   - xanthos_put_latency_ns
//   - xanthos_invalidate_latency_ns
//   - xanthos_load_latency_ns
//   - xanthos_drain_duration_ns
//
// Counters:
//   - xanthos_hits_total / xanthos_misses_total
//   - xanthos_evictions_total (attribute "cause": explicit, replaced, size, expired, collected)
//   - xanthos_load_successes_total / xanthos_load_failures_total
//   - xanthos_drain_read_events / xanthos_drain_write_events
//
// # Configuration
//
// Custom meter name, useful when running multiple named cache instances:
//
//	collector, err := xanthosotel.NewCollector(
//	    provider,
//	    xanthosotel.WithMeterName("myapp_user_cache"),
//	)
//
// # Prometheus Queries
//
//	histogram_quantile(0.99, rate(xanthos_get_latency_ns_bucket[5m]))
//
//	rate(xanthos_hits_total[5m]) /
//	(rate(xanthos_hits_total[5m]) + rate(xanthos_misses_total[5m]))
//
//	sum by (cause) (rate(xanthos_evictions_total[1m]))
//
// # Architecture
//
//	xanthos (core module)        -- MetricsCollector interface, NoOpMetricsCollector
//	xanthos/otel (this package)  -- Collector, OTEL SDK dependency
//	OTEL MeterProvider           -- aggregation, percentile calculation
//	Prometheus / Jaeger / Datadog -- export backends
//
// # Thread Safety
//
// Every Collector method is safe for concurrent use; the underlying
// OTEL instruments handle their own synchronization.
//
// # License
//
// Same as the xanthos core module.
package otel

// Package otel provides OpenTelemetry integration for xanthos cache metrics.
//
// This package implements xanthos.MetricsCollector using OpenTelemetry,
// enabling percentile latency tracking and multi-backend export
// (Prometheus, Jaeger, Datadog, Grafana) without adding an OTEL
// dependency to the core xanthos module.
//
// # Usage
//
//	import (
//	    "github.com/agilira/xanthos"
//	    xanthosotel "github.com/agilira/xanthos/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	collector, _ := xanthosotel.NewCollector(provider)
//
//	cache, _ := xanthos.New[string, string](xanthos.Config[string, string]{
//	    MaximumWeight:    10_000,
//	    MetricsCollector: collector,
//	})
//
// # Metrics Exposed
//
//   - xanthos_get_latency_ns: histogram of GetIfPresent/Get latencies
//   - xanthos_put_latency_ns: histogram of Put latencies
//   - xanthos_invalidate_latency_ns: histogram of Invalidate latencies
//   - xanthos_load_latency_ns: histogram of Loader call latencies
//   - xanthos_drain_duration_ns: histogram of maintenance drain durations
//   - xanthos_hits_total / xanthos_misses_total: get outcome counters
//   - xanthos_evictions_total: counter of evictions, tagged by cause
//   - xanthos_load_successes_total / xanthos_load_failures_total: load outcome counters
//   - xanthos_drain_read_events / xanthos_drain_write_events: counters of events applied per drain
package otel

import (
	"context"
	"errors"

	"github.com/agilira/xanthos"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Collector implements xanthos.MetricsCollector using OpenTelemetry
// instruments. Safe for concurrent use; every instrument is itself
// safe for concurrent recording.
type Collector struct {
	getLatency        metric.Int64Histogram
	putLatency        metric.Int64Histogram
	invalidateLatency metric.Int64Histogram
	loadLatency       metric.Int64Histogram
	drainDuration     metric.Int64Histogram

	hits      metric.Int64Counter
	misses    metric.Int64Counter
	evictions metric.Int64Counter

	loadSuccesses metric.Int64Counter
	loadFailures  metric.Int64Counter

	drainReadEvents  metric.Int64Counter
	drainWriteEvents metric.Int64Counter
}

// Options configures Collector construction.
type Options struct {
	// MeterName names the OpenTelemetry meter. Default: "github.com/agilira/xanthos".
	MeterName string
}

// Option is a functional option for NewCollector.
type Option func(*Options)

// WithMeterName overrides the default meter name, useful when running
// multiple named cache instances.
func WithMeterName(name string) Option {
	return func(o *Options) { o.MeterName = name }
}

// NewCollector builds a Collector backed by provider, registering every
// instrument xanthos records metrics against.
func NewCollector(provider metric.MeterProvider, opts ...Option) (*Collector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/xanthos"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	c := &Collector{}
	var err error

	if c.getLatency, err = meter.Int64Histogram("xanthos_get_latency_ns",
		metric.WithDescription("Latency of GetIfPresent/Get operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.putLatency, err = meter.Int64Histogram("xanthos_put_latency_ns",
		metric.WithDescription("Latency of Put operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.invalidateLatency, err = meter.Int64Histogram("xanthos_invalidate_latency_ns",
		metric.WithDescription("Latency of Invalidate operations"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.loadLatency, err = meter.Int64Histogram("xanthos_load_latency_ns",
		metric.WithDescription("Latency of Loader calls"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.drainDuration, err = meter.Int64Histogram("xanthos_drain_duration_ns",
		metric.WithDescription("Duration of maintenance drain cycles"), metric.WithUnit("ns")); err != nil {
		return nil, err
	}
	if c.hits, err = meter.Int64Counter("xanthos_hits_total",
		metric.WithDescription("Total number of cache hits")); err != nil {
		return nil, err
	}
	if c.misses, err = meter.Int64Counter("xanthos_misses_total",
		metric.WithDescription("Total number of cache misses")); err != nil {
		return nil, err
	}
	if c.evictions, err = meter.Int64Counter("xanthos_evictions_total",
		metric.WithDescription("Total number of evictions, tagged by cause")); err != nil {
		return nil, err
	}
	if c.loadSuccesses, err = meter.Int64Counter("xanthos_load_successes_total",
		metric.WithDescription("Total number of successful loads")); err != nil {
		return nil, err
	}
	if c.loadFailures, err = meter.Int64Counter("xanthos_load_failures_total",
		metric.WithDescription("Total number of failed loads")); err != nil {
		return nil, err
	}
	if c.drainReadEvents, err = meter.Int64Counter("xanthos_drain_read_events",
		metric.WithDescription("Total number of read-buffer events applied by drains")); err != nil {
		return nil, err
	}
	if c.drainWriteEvents, err = meter.Int64Counter("xanthos_drain_write_events",
		metric.WithDescription("Total number of write-buffer events applied by drains")); err != nil {
		return nil, err
	}

	return c, nil
}

// RecordGet implements xanthos.MetricsCollector.
func (c *Collector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordPut implements xanthos.MetricsCollector.
func (c *Collector) RecordPut(latencyNs int64) {
	c.putLatency.Record(context.Background(), latencyNs)
}

// RecordInvalidate implements xanthos.MetricsCollector.
func (c *Collector) RecordInvalidate(latencyNs int64) {
	c.invalidateLatency.Record(context.Background(), latencyNs)
}

// RecordEviction implements xanthos.MetricsCollector.
func (c *Collector) RecordEviction(cause xanthos.RemovalCause, weight uint32) {
	ctx := context.Background()
	c.evictions.Add(ctx, 1, metric.WithAttributes(attribute.String("cause", cause.String())))
}

// RecordLoad implements xanthos.MetricsCollector.
func (c *Collector) RecordLoad(latencyNs int64, success bool) {
	ctx := context.Background()
	c.loadLatency.Record(ctx, latencyNs)
	if success {
		c.loadSuccesses.Add(ctx, 1)
	} else {
		c.loadFailures.Add(ctx, 1)
	}
}

// RecordDrain implements xanthos.MetricsCollector.
func (c *Collector) RecordDrain(durationNs int64, readDrained, writeDrained int) {
	ctx := context.Background()
	c.drainDuration.Record(ctx, durationNs)
	c.drainReadEvents.Add(ctx, int64(readDrained))
	c.drainWriteEvents.Add(ctx, int64(writeDrained))
}

var _ xanthos.MetricsCollector = (*Collector)(nil)

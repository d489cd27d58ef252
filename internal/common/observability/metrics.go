// internal/common/observability/metrics.go

// Package observability owns the OpenTelemetry meter provider for the worker
// fleet. The prometheus exporter bridges otel instruments into the default
// registry, so they surface on the same /metrics endpoint as the promauto
// vectors in internal/common/metrics.
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	provider    *metric.MeterProvider
	meter       otelmetric.Meter
	jobsHandled otelmetric.Int64Counter
	jobLatency  otelmetric.Float64Histogram
}

// New wires a meter provider backed by the prometheus exporter. A failed
// exporter leaves a no-op Observability rather than aborting startup.
func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("prometheus exporter init failed: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobsHandled, _ := meter.Int64Counter(
		"concierge.jobs.handled",
		otelmetric.WithDescription("Broker jobs handled across the worker fleet"),
	)

	jobLatency, _ := meter.Float64Histogram(
		"concierge.jobs.latency",
		otelmetric.WithDescription("End-to-end job handling latency"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		provider:    provider,
		meter:       meter,
		jobsHandled: jobsHandled,
		jobLatency:  jobLatency,
	}
}

func (o *Observability) RecordJobHandled(ctx context.Context, taskType, status string) {
	if o.jobsHandled != nil {
		o.jobsHandled.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobLatency(ctx context.Context, taskType string, elapsed time.Duration) {
	if o.jobLatency != nil {
		o.jobLatency.Record(ctx, float64(elapsed.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.provider.Shutdown(ctx)
	}
}

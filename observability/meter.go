package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/fileflow/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.WithComponent("observability").Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by the run driver and the probe.
type Metrics struct {
	taskTotal    metric.Int64Counter
	taskDuration metric.Float64Histogram
	probeTotal   metric.Int64Counter
	errorTotal   metric.Int64Counter
	runDuration  metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	taskTotal, err := meter.Int64Counter("fileflow.task.total",
		metric.WithDescription("Task evaluations by decision"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fileflow.task.total counter: %w", err)
	}

	taskDuration, err := meter.Float64Histogram("fileflow.task.duration",
		metric.WithDescription("Duration of task evaluations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fileflow.task.duration histogram: %w", err)
	}

	probeTotal, err := meter.Int64Counter("fileflow.probe.total",
		metric.WithDescription("File lookups by scheme and result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fileflow.probe.total counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("fileflow.error.total",
		metric.WithDescription("Errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fileflow.error.total counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("fileflow.run.duration",
		metric.WithDescription("Duration of whole runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fileflow.run.duration histogram: %w", err)
	}

	return &Metrics{
		taskTotal:    taskTotal,
		taskDuration: taskDuration,
		probeTotal:   probeTotal,
		errorTotal:   errorTotal,
		runDuration:  runDuration,
	}, nil
}

// RecordTask records one task evaluation and the decision taken.
func (m *Metrics) RecordTask(ctx context.Context, task, decision string, duration time.Duration) {
	m.taskTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("task", task),
		attribute.String("decision", decision),
	))
	m.taskDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("task", task),
	))
}

// RecordProbe records one existence lookup.
func (m *Metrics) RecordProbe(ctx context.Context, scheme string, exists bool) {
	m.probeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scheme", scheme),
		attribute.Bool("exists", exists),
	))
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(ctx context.Context, mode, status string, duration time.Duration) {
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}

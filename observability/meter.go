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

	"github.com/kbukum/iocapture/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
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

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by a capture pipeline.
type Metrics struct {
	tuples      metric.Int64Counter
	ignored     metric.Int64Counter
	errors      metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	tuples, err := meter.Int64Counter(MetricTuples,
		metric.WithDescription("Tuples persisted for the target operation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricTuples, err)
	}

	ignored, err := meter.Int64Counter(MetricStepsIgnored,
		metric.WithDescription("Steps skipped because they were absent, abnormal or not matching"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStepsIgnored, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Fatal capture errors by code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}

	runDuration, err := meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Duration of capture runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRunDuration, err)
	}

	return &Metrics{
		tuples:      tuples,
		ignored:     ignored,
		errors:      errorTotal,
		runDuration: runDuration,
	}, nil
}

// Metric names.
const (
	MetricTuples       = "capture.tuples"
	MetricStepsIgnored = "capture.steps.ignored"
	MetricErrors       = "capture.errors"
	MetricRunDuration  = "capture.run.duration"
)

// RecordTuple counts one persisted tuple. A nil Metrics records nothing.
func (m *Metrics) RecordTuple(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.tuples.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOperation, operation)))
}

// RecordIgnored counts one skipped step with the reason it was skipped.
func (m *Metrics) RecordIgnored(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.ignored.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrReason, reason)))
}

// RecordError counts one fatal error by code.
func (m *Metrics) RecordError(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrErrorCode, code)))
}

// RecordRun records the duration of a finished run.
func (m *Metrics) RecordRun(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrStatus, status),
	))
}

package observability

import (
	"context"
	"errors"
)

// Config selects which OpenTelemetry providers Setup installs.
type Config struct {
	MetricsEnabled bool    `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
	TracingEnabled bool    `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
	Endpoint       string  `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure       bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRate     float64 `mapstructure:"sample_rate" yaml:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// ShutdownFunc flushes and stops installed providers.
type ShutdownFunc func(ctx context.Context) error

// Setup installs the enabled providers as the global OpenTelemetry
// providers. With nothing enabled the global no-op providers stay in place.
func Setup(ctx context.Context, cfg Config, serviceName, version, environment string) (ShutdownFunc, error) {
	var shutdowns []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.TracingEnabled {
		tc := DefaultTracerConfig(serviceName)
		tc.ServiceVersion, tc.Environment = version, environment
		tc.Endpoint, tc.Insecure, tc.SampleRate = cfg.Endpoint, cfg.Insecure, cfg.SampleRate
		tp, err := InitTracer(ctx, tc)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if cfg.MetricsEnabled {
		mc := DefaultMeterConfig(serviceName)
		mc.ServiceVersion, mc.Environment = version, environment
		mc.Endpoint, mc.Insecure = cfg.Endpoint, cfg.Insecure
		mp, err := InitMeter(ctx, &mc)
		if err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	return shutdown, nil
}

package config

import (
	"github.com/kbukum/iocapture/codec"
	"github.com/kbukum/iocapture/observability"
	"github.com/kbukum/iocapture/operation"
	"github.com/kbukum/iocapture/storage"
	"github.com/kbukum/iocapture/validation"
)

// ServiceName is the name used to find config.yml and .env files.
const ServiceName = "iocapture"

// DefaultProgressEvery is how many steps pass between progress updates.
const DefaultProgressEvery = 100

// CaptureConfig selects the target operation and how its tuples are written.
type CaptureConfig struct {
	// Pattern designates the target operation (glob, regex or exact signature).
	Pattern string `yaml:"pattern" mapstructure:"pattern" validate:"required"`
	// Codec names the channel wire format.
	Codec string `yaml:"codec" mapstructure:"codec"`
	// RunID overrides the generated run ID.
	RunID string `yaml:"run_id" mapstructure:"run_id" validate:"omitempty,uuid"`
	// ProgressEvery is the number of steps between progress updates.
	ProgressEvery int `yaml:"progress_every" mapstructure:"progress_every" validate:"gte=0"`
}

// Config is the full iocapture configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Capture       CaptureConfig        `yaml:"capture" mapstructure:"capture"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills in every zero-valued section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Capture.Codec == "" {
		c.Capture.Codec = codec.YAML{}.Name()
	}
	if c.Capture.ProgressEvery == 0 {
		c.Capture.ProgressEvery = DefaultProgressEvery
	}
	c.Storage.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate reports every configuration problem as one INVALID_CONFIG error.
func (c *Config) Validate() error {
	v := validation.New().
		Merge("", c.ServiceConfig.Validate()).
		Merge("", validation.Validate(c))
	if c.Capture.Pattern != "" {
		if _, err := operation.NewMatcher(c.Capture.Pattern); err != nil {
			v.Merge("capture.pattern", err)
		}
	}
	if c.Capture.Codec != "" {
		if _, err := codec.ByName(c.Capture.Codec); err != nil {
			v.Merge("capture.codec", err)
		}
	}
	v.Merge("storage", c.Storage.Validate())
	return v.Validate()
}

// Load reads config.yml, .env and the environment into a Config, then
// applies defaults and validates it. A non-nil override runs on the loaded
// values before defaults, so command line flags are validated like any other
// source.
func Load(override func(*Config), opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if override != nil {
		override(&cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

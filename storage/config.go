package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Provider constants for supported storage backends.
const (
	ProviderLocal  = "local"
	ProviderS3     = "s3"
	ProviderMemory = "memory"
)

// Default configuration values.
const (
	DefaultProvider = ProviderLocal
	DefaultBasePath = "out"
	DefaultRegion   = "us-east-1"
)

// Config holds storage configuration.
type Config struct {
	// Provider selects the storage backend: "local", "s3" or "memory".
	Provider string `mapstructure:"provider" yaml:"provider" validate:"omitempty,oneof=local s3 memory"`

	// BasePath is the output folder for local storage.
	BasePath string `mapstructure:"base_path" yaml:"base_path"`

	// Bucket is the S3 bucket name.
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// Prefix is prepended to every S3 key. The run ID is appended to it.
	Prefix string `mapstructure:"prefix" yaml:"prefix"`

	// Region is the AWS region for S3.
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// AccessKey is the AWS access key ID.
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`

	// SecretKey is the AWS secret access key.
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`

	// ForcePathStyle forces path-style URLs instead of virtual-hosted-style.
	ForcePathStyle bool `mapstructure:"force_path_style" yaml:"force_path_style"`

	// MaxAttempts bounds S3 upload attempts. Zero uses the retry default.
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts" validate:"gte=0"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return errors.New("storage: base_path is required for local provider")
		}
	case ProviderS3:
		var errs []error
		if c.Bucket == "" {
			errs = append(errs, errors.New("storage: bucket is required for s3 provider"))
		}
		if c.Region == "" {
			errs = append(errs, errors.New("storage: region is required for s3 provider"))
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			errs = append(errs, errors.New("storage: access_key and secret_key must be set together"))
		}
		if len(errs) > 0 {
			return fmt.Errorf("storage: invalid s3 config: %w", errors.Join(errs...))
		}
	case ProviderMemory:
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}

// ForRun returns a copy of c scoped to one run: S3 keys go under
// {prefix}/{runID}. Other providers are returned unchanged.
func (c Config) ForRun(runID string) Config {
	if c.Provider != ProviderS3 || runID == "" {
		return c
	}
	c.Prefix = strings.Trim(path.Join(c.Prefix, runID), "/")
	return c
}

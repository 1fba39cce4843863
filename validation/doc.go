// Package validation checks configuration values and reports every problem
// in a single INVALID_CONFIG error.
//
// # Struct Tag Validation
//
//	type CaptureConfig struct {
//	    Pattern string `yaml:"pattern" validate:"required"`
//	    Codec   string `yaml:"codec" validate:"omitempty,oneof=yaml json"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(cfg.Bucket != "", "storage.bucket", "is required for s3")
//	err := v.Validate()
package validation

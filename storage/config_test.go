package storage

import (
	"testing"

	apperrors "github.com/kbukum/iocapture/errors"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Provider != ProviderLocal || cfg.BasePath != DefaultBasePath || cfg.Region != DefaultRegion {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"local", Config{Provider: ProviderLocal, BasePath: "out"}, false},
		{"local without path", Config{Provider: ProviderLocal}, true},
		{"s3", Config{Provider: ProviderS3, Bucket: "b", Region: "eu-west-1"}, false},
		{"s3 without bucket", Config{Provider: ProviderS3, Region: "eu-west-1"}, true},
		{"s3 half credentials", Config{Provider: ProviderS3, Bucket: "b", Region: "r", AccessKey: "k"}, true},
		{"memory", Config{Provider: ProviderMemory}, false},
		{"unknown", Config{Provider: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewUnregisteredProvider(t *testing.T) {
	_, err := New(Config{Provider: ProviderMemory}, nil)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG for unregistered provider, got %v", err)
	}
	_, err = New(Config{Provider: "ftp"}, nil)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG for unknown provider, got %v", err)
	}
}

func TestConfigForRun(t *testing.T) {
	s3 := Config{Provider: ProviderS3, Prefix: "captures/"}
	if got := s3.ForRun("r1").Prefix; got != "captures/r1" {
		t.Errorf("expected captures/r1, got %q", got)
	}
	if got := (Config{Provider: ProviderS3}).ForRun("r1").Prefix; got != "r1" {
		t.Errorf("expected r1, got %q", got)
	}
	local := Config{Provider: ProviderLocal, BasePath: "out"}
	if got := local.ForRun("r1"); got != local {
		t.Errorf("local config changed: %+v", got)
	}
}

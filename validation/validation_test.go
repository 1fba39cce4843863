package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/iocapture/errors"
)

func TestValidatorRequired(t *testing.T) {
	if New().Required("name", "iocapture").HasErrors() {
		t.Error("expected no errors for valid input")
	}
	if !New().Required("name", "").HasErrors() {
		t.Error("expected error for empty required field")
	}
	if !New().Required("name", "   ").HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorOptionalUUID(t *testing.T) {
	if New().OptionalUUID("run_id", "").HasErrors() {
		t.Error("expected no error for empty optional UUID")
	}
	if New().OptionalUUID("run_id", uuid.NewString()).HasErrors() {
		t.Error("expected no error for valid UUID")
	}
	if !New().OptionalUUID("run_id", "bad-uuid").HasErrors() {
		t.Error("expected error for invalid UUID")
	}
}

func TestValidatorOneOfAndMin(t *testing.T) {
	v := New().
		OneOf("codec", "json", []string{"yaml", "json"}).
		OneOf("provider", "ftp", []string{"local", "s3"}).
		Min("progress_every", -1, 0).
		Custom(true, "ok", "never reported")
	if len(v.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %v", v.Errors())
	}
	if v.Errors()[0].Field != "provider" || v.Errors()[1].Field != "progress_every" {
		t.Errorf("unexpected fields %v", v.Errors())
	}
}

func TestValidatorValidate(t *testing.T) {
	if err := New().Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	err := New().Required("capture.pattern", "").Required("storage.bucket", "").Validate()
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
	for _, want := range []string{"capture.pattern: is required", "storage.bucket: is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

func TestValidatorMerge(t *testing.T) {
	inner := New().Required("a", "").Required("b", "").Validate()
	v := New().Merge("x", inner).Merge("y", errors.New("plain")).Merge("z", nil)
	if len(v.Errors()) != 3 {
		t.Fatalf("expected 3 errors, got %v", v.Errors())
	}
	if v.Errors()[2].Field != "y" || v.Errors()[2].Message != "plain" {
		t.Errorf("unexpected merged error %+v", v.Errors()[2])
	}
}

type captureSettings struct {
	Pattern string `yaml:"pattern" validate:"required"`
	Codec   string `yaml:"codec" validate:"omitempty,oneof=yaml json"`
	Every   int    `yaml:"progress_every" validate:"gte=0"`
}

type settings struct {
	Capture captureSettings `yaml:"capture"`
}

func TestStructValidate(t *testing.T) {
	if err := Validate(settings{Capture: captureSettings{Pattern: "add", Codec: "yaml"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := Validate(settings{Capture: captureSettings{Codec: "xml", Every: -1}})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
	for _, want := range []string{
		"capture.pattern: is required",
		"capture.codec: must be one of: yaml json",
		"capture.progress_every: must be at least 0",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("BasePath"); got != "base_path" {
		t.Errorf("got %q", got)
	}
}

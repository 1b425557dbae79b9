package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Required("Name", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Required("Name", "value")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_NonNegative(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.NonNegative("SampleSize", -1)

	if !cv.HasErrors() {
		t.Error("Expected error for negative value")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.NonNegative("SampleSize", 0)

	if cv2.HasErrors() {
		t.Error("Expected no error for zero")
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	allowed := []string{"debug", "info", "warn", "error"}

	cv := NewConfigValidator("TestConfig")
	cv.OneOf("LogLevel", "trace", allowed)

	if !cv.HasErrors() {
		t.Error("Expected error for value not in allowed list")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.OneOf("LogLevel", "info", allowed)

	if cv2.HasErrors() {
		t.Error("Expected no error for allowed value")
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	sentinel := errors.New("custom validation failed")

	cv := NewConfigValidator("TestConfig")
	cv.Custom("CustomField", func() error {
		return sentinel
	})

	if !cv.HasErrors() {
		t.Error("Expected error from custom validation")
	}
	if !errors.Is(cv.Validate(), sentinel) {
		t.Error("Expected custom error to stay in the chain")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Custom("CustomField", func() error {
		return nil
	})

	if cv2.HasErrors() {
		t.Error("Expected no error from passing custom validation")
	}
}

func TestConfigValidator_When(t *testing.T) {
	// Condition true - validation should run
	cv := NewConfigValidator("TestConfig")
	cv.When(true, func(v *ConfigValidator) {
		v.NonNegative("Count", -1)
	})

	if !cv.HasErrors() {
		t.Error("Expected error when condition is true")
	}

	// Condition false - validation should not run
	cv2 := NewConfigValidator("TestConfig")
	cv2.When(false, func(v *ConfigValidator) {
		v.NonNegative("Count", -1)
	})

	if cv2.HasErrors() {
		t.Error("Expected no error when condition is false")
	}
}

func TestConfigValidator_Struct(t *testing.T) {
	type section struct {
		Format string `yaml:"format" validate:"oneof=text json"`
		Limit  int    `yaml:"limit" validate:"gte=0"`
	}

	cv := NewConfigValidator("output")
	cv.Struct(section{Format: "xml", Limit: -2})

	if len(cv.Errors()) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(cv.Errors()), cv.Errors())
	}
	if !strings.HasPrefix(cv.Errors()[0].Error(), "output.format:") {
		t.Errorf("Expected YAML field name in error, got %q", cv.Errors()[0])
	}
}

func TestConfigValidator_MultipleErrors(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Required("Name", "").
		NonNegative("Count", -1).
		OneOf("Mode", "x", []string{"a", "b"})

	if len(cv.Errors()) != 3 {
		t.Errorf("Expected 3 errors, got %d", len(cv.Errors()))
	}

	err := cv.Validate()
	if err == nil || !strings.Contains(err.Error(), "3 errors") {
		t.Errorf("Expected combined error, got %v", err)
	}
}

func TestConfigValidator_Validate(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Required("Name", "")

	err := cv.Validate()
	if err == nil {
		t.Error("Expected error from Validate()")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Required("Name", "valid")

	err2 := cv2.Validate()
	if err2 != nil {
		t.Errorf("Expected no error from Validate(), got: %v", err2)
	}
}

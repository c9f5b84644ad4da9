package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidationErrorEmpty(t *testing.T) {
	v := &ValidationError{}
	if !v.Empty() {
		t.Error("new ValidationError should be empty")
	}
	if v.OrNil() != nil {
		t.Error("OrNil() on empty ValidationError should be nil")
	}
}

func TestValidationErrorFields(t *testing.T) {
	v := &ValidationError{Source: "tower.yaml"}
	v.Add("everyLayer[1].forEvery", "field required")
	v.Add("atLayer.x", "key must be a non-negative integer, got %q", "x")

	err := v.OrNil()
	if err == nil {
		t.Fatal("OrNil() = nil, want error")
	}

	msg := err.Error()
	for _, want := range []string{
		"CONFIG_VALIDATION",
		"tower.yaml",
		"2 validation error(s)",
		"everyLayer[1].forEvery: field required",
		`atLayer.x: key must be a non-negative integer, got "x"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	paths := v.Paths()
	if len(paths) != 2 || paths[0] != "atLayer.x" || paths[1] != "everyLayer[1].forEvery" {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestValidationErrorCode(t *testing.T) {
	v := &ValidationError{}
	v.Add("everyLayer", "expected a list")

	wrapped := fmt.Errorf("loading config: %w", v)
	if !Is(wrapped, ErrCodeConfigValidation) {
		t.Error("Is(wrapped, ErrCodeConfigValidation) = false, want true")
	}
	if got := GetCode(wrapped); got != ErrCodeConfigValidation {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeConfigValidation)
	}
	if msg := UserMessage(wrapped); strings.HasPrefix(msg, "CONFIG_VALIDATION") {
		t.Errorf("UserMessage() should not carry the code prefix: %q", msg)
	}
}

func TestFieldErrorString(t *testing.T) {
	tests := []struct {
		field FieldError
		want  string
	}{
		{FieldError{Path: "do", Message: "field required"}, "do: field required"},
		{FieldError{Message: "document is empty"}, "document is empty"},
	}
	for _, tt := range tests {
		if got := tt.field.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

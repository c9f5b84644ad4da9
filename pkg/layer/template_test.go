package layer

import (
	"strings"
	"testing"

	"github.com/matzehuels/modtower/pkg/value"
)

func TestTemplateFormat(t *testing.T) {
	tests := []struct {
		name  string
		tmpl  string
		value value.Number
		level int
		want  string
	}{
		{"plain value", "M104 S{value}", value.Int(210), 1, "M104 S210"},
		{"float value", "M221 S{value}", value.Float(97.5), 1, "M221 S97.5"},
		{"whole float keeps decimal", "{value}", value.Float(200), 1, "200.0"},
		{"level", "M117 Level {level}", value.Int(0), 3, "M117 Level 3"},
		{"both", "M104 S{value} ; level {level}", value.Int(215), 2, "M104 S215 ; level 2"},
		{"fixed precision", "{value:.2f}", value.Float(2.5), 1, "2.50"},
		{"zero padded level", "{level:03d}", value.Int(0), 7, "007"},
		{"right aligned", "{value:>6}", value.Int(210), 1, "   210"},
		{"left aligned", "{value:<5}|", value.Int(1), 1, "1    |"},
		{"centered with fill", "{value:*^9}", value.Int(210), 1, "***210***"},
		{"unicode fill", "{value:·>4}", value.Int(5), 1, "···5"},
		{"plus sign", "{value:+}", value.Int(5), 1, "+5"},
		{"space sign", "{value: }", value.Int(5), 1, " 5"},
		{"negative fixed", "{value:+.2f}", value.Float(-2.5), 1, "-2.50"},
		{"zero padding after sign", "{value:08.3f}", value.Float(-1.5), 1, "-001.500"},
		{"exponent", "{value:e}", value.Int(150), 1, "1.500000e+02"},
		{"general", "{value:g}", value.Float(0.00001), 1, "1e-05"},
		{"general precision", "{value:.3}", value.Float(2.1235), 1, "2.12"},
		{"string", "{value:s}", value.Float(200), 1, "200.0"},
		{"escaped braces", "{{value}}", value.Int(1), 1, "{value}"},
		{"escaped around placeholder", "T{{{level}}}", value.Int(1), 2, "T{2}"},
		{"no placeholders", "M117 hello", value.Int(1), 1, "M117 hello"},
		{"empty", "", value.Int(1), 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tt.tmpl)
			if err != nil {
				t.Fatalf("ParseTemplate(%q) error: %v", tt.tmpl, err)
			}
			got, err := tmpl.Format(tt.value, tt.level)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestParseTemplateErrors(t *testing.T) {
	tests := []struct {
		tmpl    string
		wantMsg string
	}{
		{"M104 S{temp}", "unknown placeholder {temp}"},
		{"{}", "unknown placeholder {}"},
		{"M104 S{value", "unclosed '{'"},
		{"M104 S value}", "single '}'"},
		{"{value:.f}", "missing precision"},
		{"{value:x}", "invalid format spec"},
		{"{level:.2d}", "precision not allowed"},
		{"{value:+s}", "sign not allowed"},
		{"{value:1000}", "exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			_, err := ParseTemplate(tt.tmpl)
			if err == nil {
				t.Fatalf("ParseTemplate(%q) = nil error", tt.tmpl)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("ParseTemplate(%q) error = %q, want it to mention %q", tt.tmpl, err, tt.wantMsg)
			}
		})
	}
}

func TestTemplateFormatIntegerVerb(t *testing.T) {
	tmpl, err := ParseTemplate("S{value:d}")
	if err != nil {
		t.Fatal(err)
	}
	if got, err := tmpl.Format(value.Int(-20), 1); err != nil || got != "S-20" {
		t.Errorf("Format(-20) = %q, %v", got, err)
	}
	if _, err := tmpl.Format(value.Float(2.5), 1); err == nil {
		t.Error("Format(2.5) with 'd' = nil error")
	}
}

func TestTemplateString(t *testing.T) {
	src := "M104 S{value:.1f}"
	tmpl, err := ParseTemplate(src)
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.String() != src {
		t.Errorf("String() = %q, want %q", tmpl.String(), src)
	}
}

package value

import (
	"strings"
	"testing"

	"github.com/matzehuels/modtower/pkg/errors"
)

func TestCompileExpressionRejects(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantMsg string
	}{
		{"empty", "  ", "empty"},
		{"syntax", "level +", "parse"},
		{"trailing tokens", "level level", "parse"},
		{"unknown variable", "temperature + 1", `unknown variable "temperature"`},
		{"unknown variable before minus", "temperature-1", `unknown variable "temperature"`},
		{"attribute access", "level.count", "has no attributes"},
		{"index", "level[0]", "has no attributes"},
		{"unknown function", "upper(level)", `unknown function "upper"`},
		{"file access", `file("/etc/passwd")`, `unknown function "file"`},
		{"string literal", `"hot"`, "unsupported construct"},
		{"string in conditional", `level > 1 ? "a" : "b"`, "unsupported construct"},
		{"tuple", "[level, layer]", "unsupported construct"},
		{"object", "{a = level}", "unsupported construct"},
		{"for expression", "[for x in [1] : x]", "unsupported construct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileExpression(tt.expr)
			if err == nil {
				t.Fatalf("CompileExpression(%q) = nil error", tt.expr)
			}
			if !errors.Is(err, errors.ErrCodeInvalidExpression) {
				t.Errorf("CompileExpression(%q) code = %s, want %s", tt.expr, errors.GetCode(err), errors.ErrCodeInvalidExpression)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("CompileExpression(%q) error = %q, want it to mention %q", tt.expr, err, tt.wantMsg)
			}
		})
	}
}

func TestExpressionEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		in   Inputs
		code errors.Code
	}{
		{"division by zero", "layer / level", Inputs{Layer: 5}, errors.ErrCodeDivisionByZero},
		{"zero by zero", "level / level", Inputs{}, errors.ErrCodeInvalidExpression},
		{"null result", "null", Inputs{}, errors.ErrCodeInvalidExpression},
		{"bool arithmetic", "true + level", Inputs{}, errors.ErrCodeInvalidExpression},
		{"comparison as operand", "(level > 1) * 5", Inputs{Level: 2}, errors.ErrCodeInvalidExpression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := CompileExpression(tt.expr)
			if err != nil {
				t.Fatalf("CompileExpression(%q) error: %v", tt.expr, err)
			}
			_, err = e.Eval(tt.in)
			if !errors.Is(err, tt.code) {
				t.Errorf("Eval(%q) error = %v, want code %s", tt.expr, err, tt.code)
			}
		})
	}
}

func TestExpressionString(t *testing.T) {
	e, err := CompileExpression("level * 5")
	if err != nil {
		t.Fatal(err)
	}
	if e.String() != "level * 5" {
		t.Errorf("String() = %q", e.String())
	}
}

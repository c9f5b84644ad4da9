package value

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/matzehuels/modtower/pkg/errors"
)

// Variable names bound while evaluating an expression.
const (
	VarLevel      = "level"
	VarLevelCount = "level_count"
	VarLayer      = "layer"
	VarLayerCount = "layer_count"
)

var variables = map[string]bool{
	VarLevel:      true,
	VarLevelCount: true,
	VarLayer:      true,
	VarLayerCount: true,
}

// functions is the complete set of callable functions. Nothing else is
// reachable from an expression.
var functions = map[string]function.Function{
	"abs":   stdlib.AbsoluteFunc,
	"ceil":  stdlib.CeilFunc,
	"floor": stdlib.FloorFunc,
	"max":   stdlib.MaxFunc,
	"min":   stdlib.MinFunc,
}

// Expression is a compiled arithmetic expression over level, level_count,
// layer and layer_count.
//
// The grammar is HCL's expression syntax restricted to numeric literals, the
// four variables, arithmetic (+ - * / %), comparison and logical operators,
// the conditional operator (c ? a : b), parentheses and calls to abs, ceil,
// floor, max and min. Strings, collections, for expressions, indexing and
// attribute access are rejected at compile time.
type Expression struct {
	src  string
	expr hclsyntax.Expression
}

// CompileExpression parses src and checks that it only uses the allowed
// constructs, names and functions.
func CompileExpression(src string) (*Expression, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.New(errors.ErrCodeInvalidExpression, "expression is empty")
	}
	expr, diags := hclsyntax.ParseExpression(splitIdentMinus([]byte(src)), "expression", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidExpression, diags, "parse %q", src)
	}

	var problems []string
	hclsyntax.VisitAll(expr, func(n hclsyntax.Node) hcl.Diagnostics {
		switch node := n.(type) {
		case *hclsyntax.LiteralValueExpr, *hclsyntax.BinaryOpExpr, *hclsyntax.UnaryOpExpr,
			*hclsyntax.ConditionalExpr, *hclsyntax.ParenthesesExpr:
		case *hclsyntax.ScopeTraversalExpr:
			name := node.Traversal.RootName()
			switch {
			case !variables[name]:
				problems = append(problems, fmt.Sprintf("unknown variable %q (allowed: %s)", name, allowedVariables()))
			case len(node.Traversal) > 1:
				problems = append(problems, fmt.Sprintf("%q is a number and has no attributes or elements", name))
			}
		case *hclsyntax.FunctionCallExpr:
			if _, ok := functions[node.Name]; !ok {
				problems = append(problems, fmt.Sprintf("unknown function %q (allowed: %s)", node.Name, allowedFunctions()))
			}
		default:
			problems = append(problems, fmt.Sprintf("unsupported construct at %s", n.Range().String()))
		}
		return nil
	})
	if len(problems) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidExpression, "%q: %s", src, strings.Join(problems, "; "))
	}
	return &Expression{src: src, expr: expr}, nil
}

// splitIdentMinus turns the '-' inside identifiers into a spaced operator.
// HCL lets identifiers contain '-', so "level-1" would otherwise be one
// unknown name instead of level minus one. Sources that do not lex are
// returned unchanged for the parser to report.
func splitIdentMinus(src []byte) []byte {
	tokens, diags := hclsyntax.LexExpression(src, "expression", hcl.InitialPos)
	if diags.HasErrors() {
		return src
	}
	var out []byte
	last := 0
	for _, tok := range tokens {
		if tok.Type != hclsyntax.TokenIdent || !bytes.ContainsRune(tok.Bytes, '-') {
			continue
		}
		out = append(out, src[last:tok.Range.Start.Byte]...)
		out = append(out, bytes.ReplaceAll(tok.Bytes, []byte("-"), []byte(" - "))...)
		last = tok.Range.End.Byte
	}
	if out == nil {
		return src
	}
	return append(out, src[last:]...)
}

// String returns the expression source.
func (e *Expression) String() string {
	return e.src
}

// Eval evaluates the expression. Boolean results count as 1 and 0.
func (e *Expression) Eval(in Inputs) (float64, error) {
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			VarLevel:      cty.NumberIntVal(int64(in.Level)),
			VarLevelCount: cty.NumberIntVal(int64(in.LevelCount)),
			VarLayer:      cty.NumberIntVal(int64(in.Layer)),
			VarLayerCount: cty.NumberIntVal(int64(in.LayerCount)),
		},
		Functions: functions,
	}

	val, diags := e.expr.Value(ctx)
	if diags.HasErrors() {
		return 0, errors.Wrap(errors.ErrCodeInvalidExpression, diags, "evaluate %q", e.src)
	}
	if val.IsNull() || !val.IsKnown() {
		return 0, errors.New(errors.ErrCodeInvalidExpression, "%q produced no value", e.src)
	}

	switch val.Type() {
	case cty.Bool:
		if val.True() {
			return 1, nil
		}
		return 0, nil
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		if math.IsInf(f, 0) {
			return 0, errors.New(errors.ErrCodeDivisionByZero, "%q is infinite (division by zero)", e.src)
		}
		return f, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidExpression, "%q must produce a number, got %s", e.src, val.Type().FriendlyName())
	}
}

func allowedVariables() string {
	names := make([]string, 0, len(variables))
	for n := range variables {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func allowedFunctions() string {
	names := make([]string, 0, len(functions))
	for n := range functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

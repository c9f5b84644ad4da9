package value

import (
	"github.com/matzehuels/modtower/pkg/config"
	"github.com/matzehuels/modtower/pkg/errors"
)

// Inputs are the quantities a value can depend on.
type Inputs struct {
	Level      int // zero-based firing index of the rule
	LevelCount int // number of levels the rule spans
	Layer      int // absolute layer number
	LayerCount int // total layers in the file
}

// Generator computes values for one value spec. Expressions are compiled once
// when the generator is created.
type Generator struct {
	spec config.ValueSpec
	expr *Expression
}

// New returns a generator for spec. It fails with ErrCodeInvalidExpression
// when an expression does not compile.
func New(spec config.ValueSpec) (*Generator, error) {
	g := &Generator{spec: spec}
	switch s := spec.(type) {
	case config.ExpressionSpec:
		expr, err := CompileExpression(s.Expression)
		if err != nil {
			return nil, err
		}
		g.expr = expr
	case config.IncrementSpec, config.InterpolateSpec:
	case nil:
		return nil, errors.New(errors.ErrCodeConfigInvalid, "missing value spec")
	default:
		return nil, errors.New(errors.ErrCodeConfigInvalid, "unsupported value spec %T", spec)
	}
	return g, nil
}

// Spec returns the value spec the generator was built from.
func (g *Generator) Spec() config.ValueSpec {
	return g.spec
}

// Compute derives the value for in and applies the spec's rounding setting.
func (g *Generator) Compute(in Inputs) (Number, error) {
	v, err := g.raw(in)
	if err != nil {
		return Number{}, err
	}
	return Round(v, g.spec.Rounding())
}

// Compute is a convenience for New(spec) followed by Compute(in).
func Compute(spec config.ValueSpec, in Inputs) (Number, error) {
	g, err := New(spec)
	if err != nil {
		return Number{}, err
	}
	return g.Compute(in)
}

func (g *Generator) raw(in Inputs) (float64, error) {
	switch s := g.spec.(type) {
	case config.ExpressionSpec:
		return g.expr.Eval(in)

	case config.IncrementSpec:
		if s.Midpoint == config.MidpointOff {
			return s.Start + float64(in.Level)*s.Increment, nil
		}
		return s.Start + float64(midpointCoefficient(s.Midpoint, in))*s.Increment, nil

	case config.InterpolateSpec:
		if s.Midpoint != config.MidpointOff {
			return 0, errors.New(errors.ErrCodeConfigInvalid,
				"cannot interpolate using 'end' with midpointSetting other than 'off' (got %q)", s.Midpoint)
		}
		if in.LevelCount == 1 {
			return 0, errors.New(errors.ErrCodeDivisionByZero,
				"cannot interpolate from %v to %v over a single level", s.Start, s.End)
		}
		ratio := float64(in.Level) / float64(in.LevelCount-1)
		return s.Start + ratio*(s.End-s.Start), nil
	}
	return 0, errors.New(errors.ErrCodeInternal, "unhandled value spec %T", g.spec)
}

// midpointCoefficient shifts the level origin to the middle of the run.
// With an even level count there are two middle levels: high centers on the
// upper one, low on the lower one.
func midpointCoefficient(m config.MidpointSetting, in Inputs) int {
	mid := in.LevelCount/2 + 1
	if m == config.MidpointLow && in.LevelCount%2 == 0 {
		mid--
	}
	return (in.Level + 1) - mid
}

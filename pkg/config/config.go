package config

import (
	"fmt"
	"sort"

	"github.com/matzehuels/modtower/pkg/errors"
)

// =============================================================================
// Enumerations
// =============================================================================

// MidpointSetting selects whether a value ramps from its start (off) or is
// centered on the middle level of the run (high, low).
type MidpointSetting string

const (
	MidpointOff  MidpointSetting = "off"
	MidpointHigh MidpointSetting = "high"
	MidpointLow  MidpointSetting = "low"
)

// RoundSetting selects how a computed value is normalized before emission.
type RoundSetting string

const (
	RoundNearest  RoundSetting = "round"
	RoundTruncate RoundSetting = "truncate"
)

// DefaultRoundSetting applies when a value spec leaves roundSetting unset.
const DefaultRoundSetting = RoundNearest

// ValidMidpointSettings is the set of accepted midpointSetting values.
var ValidMidpointSettings = map[MidpointSetting]bool{
	MidpointOff:  true,
	MidpointHigh: true,
	MidpointLow:  true,
}

// ValidRoundSettings is the set of accepted roundSetting values.
var ValidRoundSettings = map[RoundSetting]bool{
	RoundNearest:  true,
	RoundTruncate: true,
}

// ValueKind discriminates the variants of [ValueSpec].
type ValueKind string

const (
	KindIncrement   ValueKind = "increment"
	KindInterpolate ValueKind = "interpolate"
	KindExpression  ValueKind = "expression"
)

// =============================================================================
// Value Specs
// =============================================================================

// ValueSpec describes how a rule derives its value for a level. It is a
// closed union: the only implementations are [IncrementSpec],
// [InterpolateSpec] and [ExpressionSpec].
type ValueSpec interface {
	// Kind reports which variant the spec is.
	Kind() ValueKind
	// Rounding reports the rounding mode, defaulting to round.
	Rounding() RoundSetting

	valueSpec()
}

// IncrementSpec adds Increment once per level to Start.
type IncrementSpec struct {
	Midpoint  MidpointSetting
	Start     float64
	Increment float64
	Round     RoundSetting
}

// InterpolateSpec spreads the values linearly from Start on the first level
// to End on the last.
type InterpolateSpec struct {
	Midpoint MidpointSetting
	Start    float64
	End      float64
	Round    RoundSetting
}

// ExpressionSpec evaluates an arithmetic expression over level, level_count,
// layer and layer_count.
type ExpressionSpec struct {
	Expression string
	Round      RoundSetting
}

func (IncrementSpec) Kind() ValueKind   { return KindIncrement }
func (InterpolateSpec) Kind() ValueKind { return KindInterpolate }
func (ExpressionSpec) Kind() ValueKind  { return KindExpression }

func (s IncrementSpec) Rounding() RoundSetting   { return orDefault(s.Round) }
func (s InterpolateSpec) Rounding() RoundSetting { return orDefault(s.Round) }
func (s ExpressionSpec) Rounding() RoundSetting  { return orDefault(s.Round) }

func (IncrementSpec) valueSpec()   {}
func (InterpolateSpec) valueSpec() {}
func (ExpressionSpec) valueSpec()  {}

func orDefault(r RoundSetting) RoundSetting {
	if r == "" {
		return DefaultRoundSetting
	}
	return r
}

// =============================================================================
// Tower Config
// =============================================================================

// LayerRule fires every ForEvery layers starting at StartingAt and emits Do
// with the rule's value and one-based level substituted.
type LayerRule struct {
	StartingAt int
	ForEvery   int
	Do         string
	Value      ValueSpec
}

// LevelCount returns the number of levels the rule spans for a file with
// totalLayers layers. It never returns a negative count.
func (r LayerRule) LevelCount(totalLayers int) int {
	if r.ForEvery <= 0 {
		return 0
	}
	n := (totalLayers - r.StartingAt) / r.ForEvery
	if n < 0 {
		return 0
	}
	return n
}

// LevelAt returns the zero-based level at which the rule fires on layer, and
// false if the rule does not fire there (before StartingAt or off-stride).
func (r LayerRule) LevelAt(layer int) (int, bool) {
	if r.ForEvery <= 0 || layer < r.StartingAt {
		return 0, false
	}
	offset := layer - r.StartingAt
	if offset%r.ForEvery != 0 {
		return 0, false
	}
	return offset / r.ForEvery, true
}

// TowerConfig is the validated root configuration. It is immutable once
// loaded.
type TowerConfig struct {
	// EveryLayer rules fire in declared order.
	EveryLayer []LayerRule
	// AtLayer maps a layer number to a command emitted verbatim.
	AtLayer map[int]string
}

// AtLayers returns the AtLayer keys in ascending order.
func (c *TowerConfig) AtLayers() []int {
	layers := make([]int, 0, len(c.AtLayer))
	for l := range c.AtLayer {
		layers = append(layers, l)
	}
	sort.Ints(layers)
	return layers
}

// Validate checks the invariants of a programmatically built config. Configs
// returned by [Load] and [Parse] already satisfy them.
func (c *TowerConfig) Validate() error {
	v := &errors.ValidationError{}
	for layer := range c.AtLayer {
		if layer < 0 {
			v.Add(fmt.Sprintf("atLayer.%d", layer), "layer must be non-negative")
		}
	}
	for i, rule := range c.EveryLayer {
		path := fmt.Sprintf("everyLayer[%d]", i)
		if rule.StartingAt < 0 {
			v.Add(path+".startingAt", "must be non-negative, got %d", rule.StartingAt)
		}
		if rule.ForEvery <= 0 {
			v.Add(path+".forEvery", "must be greater than 0, got %d", rule.ForEvery)
		}
		validateValue(v, path+".value", rule.Value)
	}
	return v.OrNil()
}

func validateValue(v *errors.ValidationError, path string, spec ValueSpec) {
	checkRound := func(r RoundSetting) {
		if r != "" && !ValidRoundSettings[r] {
			v.Add(path+".roundSetting", "must be one of 'round', 'truncate', got %q", r)
		}
	}
	checkMidpoint := func(m MidpointSetting) {
		if !ValidMidpointSettings[m] {
			v.Add(path+".midpointSetting", "must be one of 'off', 'high', 'low', got %q", m)
		}
	}
	switch s := spec.(type) {
	case IncrementSpec:
		checkMidpoint(s.Midpoint)
		checkRound(s.Round)
	case InterpolateSpec:
		checkMidpoint(s.Midpoint)
		checkRound(s.Round)
	case ExpressionSpec:
		if s.Expression == "" {
			v.Add(path+".expression", "must not be empty")
		}
		checkRound(s.Round)
	case nil:
		v.Add(path, "field required")
	default:
		v.Add(path, "unsupported value spec %T", spec)
	}
}

package layer

import (
	"fmt"

	"github.com/matzehuels/modtower/pkg/config"
	"github.com/matzehuels/modtower/pkg/errors"
	"github.com/matzehuels/modtower/pkg/value"
)

// Matcher decides which commands to inject after a layer marker.
// It is safe for concurrent use once built.
type Matcher struct {
	cfg   *config.TowerConfig
	rules []rule
}

type rule struct {
	config.LayerRule
	gen  *value.Generator
	tmpl *Template
}

// NewMatcher validates cfg, compiles every expression and parses every do
// template. Template problems are reported together as a
// *errors.ValidationError; a bad expression fails with
// errors.ErrCodeInvalidExpression.
func NewMatcher(cfg *config.TowerConfig) (*Matcher, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "tower config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{cfg: cfg, rules: make([]rule, 0, len(cfg.EveryLayer))}
	invalid := &errors.ValidationError{}
	var exprErr error
	for i, r := range cfg.EveryLayer {
		tmpl, err := ParseTemplate(r.Do)
		if err != nil {
			invalid.Add(fmt.Sprintf("everyLayer[%d].do", i), "%s", err)
		}
		gen, err := value.New(r.Value)
		if err != nil && exprErr == nil {
			exprErr = fmt.Errorf("everyLayer[%d].value.expression: %w", i, err)
		}
		m.rules = append(m.rules, rule{LayerRule: r, gen: gen, tmpl: tmpl})
	}
	if !invalid.Empty() {
		return nil, invalid
	}
	if exprErr != nil {
		return nil, exprErr
	}
	return m, nil
}

// Config returns the tower config the matcher was built from.
func (m *Matcher) Config() *config.TowerConfig {
	return m.cfg
}

// LinesForLayer returns the commands to emit after the marker of layer in a
// file with totalLayers layers: the atLayer command first, then one line per
// everyLayer rule that fires, in declared order. A rule whose level would lie
// beyond its level count is skipped.
func (m *Matcher) LinesForLayer(layer, totalLayers int) ([]string, error) {
	var lines []string
	if cmd, ok := m.cfg.AtLayer[layer]; ok {
		lines = append(lines, cmd)
	}
	for i := range m.rules {
		r := &m.rules[i]
		level, ok := r.LevelAt(layer)
		if !ok {
			continue
		}
		levelCount := r.LevelCount(totalLayers)
		if level+1 > levelCount {
			continue
		}
		_, line, err := r.render(value.Inputs{
			Level:      level,
			LevelCount: levelCount,
			Layer:      layer,
			LayerCount: totalLayers,
		})
		if err != nil {
			return nil, fmt.Errorf("layer %d: everyLayer[%d]: %w", layer, i, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *rule) render(in value.Inputs) (value.Number, string, error) {
	v, err := r.gen.Compute(in)
	if err != nil {
		return value.Number{}, "", err
	}
	line, err := r.tmpl.Format(v, in.Level+1)
	if err != nil {
		return value.Number{}, "", errors.Wrap(errors.ErrCodeConfigInvalid, err, "format %q", r.tmpl)
	}
	return v, line, nil
}

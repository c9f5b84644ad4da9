package layer

import (
	"fmt"

	"github.com/matzehuels/modtower/pkg/errors"
	"github.com/matzehuels/modtower/pkg/value"
)

// Step is one firing of an everyLayer rule.
type Step struct {
	Level int // one-based
	Layer int
	Value value.Number
	Line  string
}

// NumRules returns the number of everyLayer rules.
func (m *Matcher) NumRules() int {
	return len(m.rules)
}

// Schedule returns every firing of the rule at index for a file with
// totalLayers layers, bottom level first. These are exactly the lines
// LinesForLayer produces for that rule.
func (m *Matcher) Schedule(index, totalLayers int) ([]Step, error) {
	if index < 0 || index >= len(m.rules) {
		return nil, errors.New(errors.ErrCodeInternal, "no everyLayer rule at index %d", index)
	}
	r := &m.rules[index]
	levelCount := r.LevelCount(totalLayers)

	steps := make([]Step, 0, levelCount)
	for level := 0; level < levelCount; level++ {
		layer := r.StartingAt + level*r.ForEvery
		v, line, err := r.render(value.Inputs{
			Level:      level,
			LevelCount: levelCount,
			Layer:      layer,
			LayerCount: totalLayers,
		})
		if err != nil {
			return nil, fmt.Errorf("layer %d: everyLayer[%d]: %w", layer, index, err)
		}
		steps = append(steps, Step{Level: level + 1, Layer: layer, Value: v, Line: line})
	}
	return steps, nil
}

package layer_test

import (
	"fmt"

	"github.com/matzehuels/modtower/pkg/config"
	"github.com/matzehuels/modtower/pkg/layer"
)

func ExampleMatcher_LinesForLayer() {
	cfg := &config.TowerConfig{
		EveryLayer: []config.LayerRule{{
			ForEvery: 5,
			Do:       "M104 S{value} ; level {level}",
			Value:    config.IncrementSpec{Midpoint: config.MidpointOff, Start: 200, Increment: 10},
		}},
		AtLayer: map[int]string{5: "M117 Tower"},
	}
	m, err := layer.NewMatcher(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	lines, _ := m.LinesForLayer(5, 10)
	for _, line := range lines {
		fmt.Println(line)
	}
	// Output:
	// M117 Tower
	// M104 S210 ; level 2
}

func ExampleMatcher_Schedule() {
	cfg := &config.TowerConfig{
		EveryLayer: []config.LayerRule{{
			StartingAt: 2,
			ForEvery:   10,
			Do:         "M221 S{value:.1f}",
			Value:      config.InterpolateSpec{Midpoint: config.MidpointOff, Start: 90, End: 110},
		}},
	}
	m, _ := layer.NewMatcher(cfg)

	steps, _ := m.Schedule(0, 45)
	for _, s := range steps {
		fmt.Printf("level %d at layer %d: %s\n", s.Level, s.Layer, s.Line)
	}
	// Output:
	// level 1 at layer 2: M221 S90.0
	// level 2 at layer 12: M221 S96.7
	// level 3 at layer 22: M221 S103.3
	// level 4 at layer 32: M221 S110.0
}

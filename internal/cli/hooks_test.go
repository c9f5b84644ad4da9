package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modtower/pkg/config"
	"github.com/matzehuels/modtower/pkg/layer"
	"github.com/matzehuels/modtower/pkg/observability"
)

func TestConfigLogHooks(t *testing.T) {
	var buf bytes.Buffer
	c := New(&bytes.Buffer{}, &buf, log.DebugLevel)
	h := c.ConfigHooks()

	h.OnConfigLoaded(context.Background(), "tower.yaml", 2, 1, time.Millisecond, nil)
	h.OnConfigLoaded(context.Background(), "broken.yaml", 0, 0, time.Millisecond, errors.New("bad"))

	out := buf.String()
	for _, want := range []string{"config loaded", "tower.yaml", "config rejected", "broken.yaml"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output does not contain %q:\n%s", want, out)
		}
	}
}

func TestVerboseHooks(t *testing.T) {
	m, err := layer.NewMatcher(&config.TowerConfig{
		EveryLayer: []config.LayerRule{{
			ForEvery: 5,
			Do:       "M104 S{value}",
			Value:    config.IncrementSpec{Midpoint: config.MidpointOff, Start: 200, Increment: 10},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	h := &verboseHooks{w: &buf, logger: newLogger(&buf, log.DebugLevel), matcher: m}
	h.OnLayerCount(context.Background(), 10)
	h.OnInject(context.Background(), 5, []string{"M104 S210"})
	h.OnComplete(context.Background(), observability.InjectStats{Lines: 3, Layers: 1, InjectedLines: 1}, time.Millisecond, nil)

	out := buf.String()
	for _, want := range []string{"Summary", "At layer 5:", "M104 S210", "injection finished"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestWithInjectHooksRestores(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	h := &verboseHooks{}
	err := withInjectHooks(h, func() error {
		if observability.Inject() != h {
			t.Error("hooks not installed during fn")
		}
		return errors.New("boom")
	})
	if err == nil || err.Error() != "boom" {
		t.Errorf("withInjectHooks() error = %v, want fn's error", err)
	}
	if _, ok := observability.Inject().(observability.NoopInjectHooks); !ok {
		t.Errorf("hooks after withInjectHooks = %T, want the previous hooks", observability.Inject())
	}
}

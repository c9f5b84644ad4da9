package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modtower/pkg/layer"
	"github.com/matzehuels/modtower/pkg/observability"
)

// ConfigHooks returns hooks that log config loading at debug level.
// main registers them at startup.
func (c *CLI) ConfigHooks() observability.ConfigHooks {
	return configLogHooks{logger: c.Logger}
}

type configLogHooks struct {
	logger *log.Logger
}

func (h configLogHooks) OnConfigLoaded(_ context.Context, path string, rules, atLayers int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("config rejected", "path", path, "duration", d.Round(time.Microsecond))
		return
	}
	h.logger.Debug("config loaded", "path", path, "everyLayer", rules, "atLayer", atLayers, "duration", d.Round(time.Microsecond))
}

// verboseHooks prints the tower summary once the layer count is known and
// echoes every injection to w.
type verboseHooks struct {
	w       io.Writer
	logger  *log.Logger
	matcher *layer.Matcher
}

func (h *verboseHooks) OnLayerCount(_ context.Context, total int) {
	h.logger.Debug("layer count", "total", total)
	if err := printSummary(h.w, h.matcher, total); err != nil {
		h.logger.Warn("summary incomplete", "err", err)
	}
	fmt.Fprintln(h.w)
}

func (h *verboseHooks) OnInject(_ context.Context, layer int, lines []string) {
	fmt.Fprintln(h.w, StyleDim.Render(fmt.Sprintf("At layer %d:", layer)))
	for _, l := range lines {
		fmt.Fprintln(h.w, "  "+StyleCommand.Render(l))
	}
}

func (h *verboseHooks) OnComplete(_ context.Context, stats observability.InjectStats, d time.Duration, err error) {
	h.logger.Debug("injection finished",
		"lines", stats.Lines,
		"layers", stats.Layers,
		"injected", stats.InjectedLines,
		"duration", d.Round(time.Millisecond),
		"err", err)
}

// spinnerHooks shows the current layer next to the spinner.
type spinnerHooks struct {
	observability.NoopInjectHooks
	spinner *Spinner
	name    string
	total   int
}

func (h *spinnerHooks) OnLayerCount(_ context.Context, total int) {
	h.total = total
}

func (h *spinnerHooks) OnInject(_ context.Context, layer int, _ []string) {
	h.spinner.Update(fmt.Sprintf("Injecting %s... layer %d/%d", h.name, layer, h.total))
}

// withInjectHooks installs h for the duration of fn.
func withInjectHooks(h observability.InjectHooks, fn func() error) error {
	prev := observability.Inject()
	observability.SetInjectHooks(h)
	defer observability.SetInjectHooks(prev)
	return fn()
}

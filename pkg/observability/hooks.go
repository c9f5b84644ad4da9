// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about config loading and G-code injection.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages never
// import a logging or metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetInjectHooks(&myInjectHooks{})
//	    observability.SetConfigHooks(&myConfigHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Inject().OnLayerCount(ctx, total)
//	// ... stream the file ...
//	observability.Inject().OnComplete(ctx, stats, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Injection Hooks
// =============================================================================

// InjectStats summarizes one injection run.
type InjectStats struct {
	Lines         int // lines read from the input
	LayerCount    int // value of the layer count marker, 0 if none was found
	Layers        int // layer markers seen
	InjectedLines int // lines written after layer markers
}

// InjectHooks receives events from the G-code injector.
type InjectHooks interface {
	// OnLayerCount records the total layer count once it has been read.
	OnLayerCount(ctx context.Context, total int)

	// OnInject records the lines written after a layer marker.
	// It is not called for layers that receive no lines.
	OnInject(ctx context.Context, layer int, lines []string)

	// OnComplete records the end of a run, successful or not.
	OnComplete(ctx context.Context, stats InjectStats, duration time.Duration, err error)
}

// =============================================================================
// Config Hooks
// =============================================================================

// ConfigHooks receives events from tower config loading.
type ConfigHooks interface {
	// OnConfigLoaded records a load attempt. rules and atLayers are zero when
	// err is non-nil.
	OnConfigLoaded(ctx context.Context, path string, rules, atLayers int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopInjectHooks is a no-op implementation of InjectHooks.
type NoopInjectHooks struct{}

func (NoopInjectHooks) OnLayerCount(context.Context, int)                             {}
func (NoopInjectHooks) OnInject(context.Context, int, []string)                       {}
func (NoopInjectHooks) OnComplete(context.Context, InjectStats, time.Duration, error) {}

// NoopConfigHooks is a no-op implementation of ConfigHooks.
type NoopConfigHooks struct{}

func (NoopConfigHooks) OnConfigLoaded(context.Context, string, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	injectHooks InjectHooks = NoopInjectHooks{}
	configHooks ConfigHooks = NoopConfigHooks{}
	hooksMu     sync.RWMutex
)

// SetInjectHooks registers custom injection hooks.
// This should be called once at application startup before any file is processed.
func SetInjectHooks(h InjectHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		injectHooks = h
	}
}

// SetConfigHooks registers custom config hooks.
// This should be called once at application startup before any config is loaded.
func SetConfigHooks(h ConfigHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		configHooks = h
	}
}

// Inject returns the registered injection hooks.
func Inject() InjectHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return injectHooks
}

// Config returns the registered config hooks.
func Config() ConfigHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return configHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	injectHooks = NoopInjectHooks{}
	configHooks = NoopConfigHooks{}
}

// Package pkg provides the core libraries of modtower, a post-processor that
// turns sliced G-code into calibration towers.
//
// # Overview
//
// A tower config names commands to inject after the slicer's ;LAYER:N
// markers. The pkg directory is organized by stage:
//
//  1. [config] - Tower config model, loaded from YAML, JSON or TOML
//  2. [value] - Value generators and the rounding policy
//  3. [layer] - Rule matching and do-template rendering
//  4. [gcode] - Streaming line injector
//  5. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The data flow through modtower:
//
//	tower.yaml
//	    ↓
//	[config] package (decode + validate)
//	    ↓
//	[layer] package (compile expressions, parse templates)
//	    ↓
//	[gcode] package (read G-code, inject after each layer marker)
//	    ↓
//	modified G-code
//
// # Quick Start
//
//	cfg, err := config.Load("temp-tower.yaml")
//	if err != nil {
//	    return err
//	}
//	m, err := layer.NewMatcher(cfg)
//	if err != nil {
//	    return err
//	}
//	stats, err := gcode.Inject(ctx, in, out, m, gcode.Options{})
//
// [config]: https://pkg.go.dev/github.com/matzehuels/modtower/pkg/config
// [value]: https://pkg.go.dev/github.com/matzehuels/modtower/pkg/value
// [layer]: https://pkg.go.dev/github.com/matzehuels/modtower/pkg/layer
// [gcode]: https://pkg.go.dev/github.com/matzehuels/modtower/pkg/gcode
// [errors]: https://pkg.go.dev/github.com/matzehuels/modtower/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/modtower/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/modtower/pkg/buildinfo
package pkg

// Package value computes the number a layer rule injects for a given level.
//
// # Generators
//
// A [Generator] is built from one of the three value specs of package config:
//
//   - Increment: start + level * increment
//   - Interpolate: start + level / (levelCount - 1) * (end - start)
//   - Expression: a sandboxed arithmetic expression, see [Expression]
//
// With midpointSetting high or low, an increment spec ramps symmetrically
// around the middle level instead of from the first one:
//
//	levelCount = 5, start = 0, increment = 10, high:
//	level 1..5 -> -20, -10, 0, 10, 20
//
// An interpolate spec cannot be combined with a midpoint.
//
// # Rounding
//
// Every computed value goes through [Round] before it is returned. The
// resulting [Number] remembers whether it is integral so that it prints as
// "210" rather than "210.0".
package value

// Package config defines the tower document: which commands to inject at
// which layers and how their values are derived.
//
// # Document Shape
//
// A tower document has two optional top-level keys:
//
//	everyLayer:
//	  - startingAt: 5          # first layer the rule applies to (default 0)
//	    forEvery: 10           # stride between firings, must be > 0
//	    do: "M104 S{value} ; level {level}"
//	    value:
//	      midpointSetting: off # off, high or low
//	      start: 220
//	      increment: -5
//	      roundSetting: round  # round (default) or truncate
//	atLayer:
//	  0: "M117 Tower start"
//
// The value mapping is one of three variants, told apart by its keys:
// increment ([IncrementSpec]), end ([InterpolateSpec]) or expression
// ([ExpressionSpec]). Mixing keys of two variants is rejected.
//
// # Formats
//
// [Load] reads YAML (and therefore JSON) with gopkg.in/yaml.v3, and TOML
// with github.com/BurntSushi/toml when the file ends in .toml. TOML tables
// only have string keys, so atLayer keys may be written as "10".
//
// # Validation
//
// Validation happens eagerly and reports every problem at once as a
// *errors.ValidationError whose fields carry paths such as
// everyLayer[0].forEvery. Nothing is evaluated until the whole document is
// valid. Semantic problems that only show up when a value is computed, such
// as an interpolation over a single level, are reported by package value.
package config

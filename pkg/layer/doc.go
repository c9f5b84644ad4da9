// Package layer turns a tower config into the commands injected after each
// layer marker.
//
// A [Matcher] is built once per config with [NewMatcher], which compiles
// expressions and parses do templates up front so that nothing can fail
// halfway through a file for syntax reasons. For every layer it answers
// [Matcher.LinesForLayer]: the atLayer command, if any, followed by the
// formatted do command of each everyLayer rule that fires there.
//
// A rule fires on layers StartingAt, StartingAt+ForEvery, ... and spans
//
//	levelCount = (totalLayers - StartingAt) / ForEvery
//
// levels. A firing whose one-based level exceeds levelCount is dropped, so a
// trailing partial level never receives a command.
//
// [Matcher.Schedule] lists all firings of one rule and backs the summary
// printed by the CLI.
package layer

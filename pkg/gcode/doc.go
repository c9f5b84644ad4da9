// Package gcode streams sliced G-code and injects commands after layer
// markers.
//
// Cura-style slicers annotate their output with comment lines:
//
//	;LAYER_COUNT:120
//	;LAYER:0
//	...
//	;LAYER:1
//
// [Inject] reads the file once. Everything up to the layer count marker is
// copied unchanged; after that, each ;LAYER:N line is followed by the lines a
// [LineSource] returns for layer N. Markers must occupy the whole line, so
// "; LAYER:3" or ";LAYER:3 ; note" are passed through untouched.
package gcode

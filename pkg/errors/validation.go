package errors

import (
	"fmt"
	"sort"
	"strings"
)

// FieldError describes one offending field of a configuration document.
type FieldError struct {
	Path    string // Dotted path, e.g. "everyLayer[0].forEvery"
	Message string // What is wrong with the field
}

// String renders the field error as "path: message".
func (f FieldError) String() string {
	if f.Path == "" {
		return f.Message
	}
	return f.Path + ": " + f.Message
}

// ValidationError collects every field error found while validating a
// document. It is reported under ErrCodeConfigValidation.
type ValidationError struct {
	Source string // File name or other origin of the document (optional)
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return string(ErrCodeConfigValidation) + ": " + e.Describe()
}

// Describe renders the source, the error count and one line per field,
// without the code prefix.
func (e *ValidationError) Describe() string {
	var b strings.Builder
	if e.Source != "" {
		fmt.Fprintf(&b, "%s: ", e.Source)
	}
	fmt.Fprintf(&b, "%d validation error(s)", len(e.Fields))
	for _, f := range e.Fields {
		b.WriteString("\n  ")
		b.WriteString(f.String())
	}
	return b.String()
}

// Add records a field error with a formatted message.
func (e *ValidationError) Add(path, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Empty reports whether no field errors were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Paths returns the offending field paths in sorted order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		paths = append(paths, f.Path)
	}
	sort.Strings(paths)
	return paths
}

// OrNil returns e when it holds at least one field error, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

package layer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/modtower/pkg/value"
)

// Placeholder names available in a do template.
const (
	FieldValue = "value"
	FieldLevel = "level"
)

// Template is a parsed do command. Placeholders are written {value} and
// {level}, optionally followed by a format spec such as {value:.1f} or
// {level:03d}. Literal braces are doubled.
type Template struct {
	src   string
	parts []part
}

type part struct {
	literal string
	field   string // empty for literal text
	spec    formatSpec
}

// ParseTemplate parses src. The error describes the first problem found.
func ParseTemplate(src string) (*Template, error) {
	t := &Template{src: src}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, part{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '{' && strings.HasPrefix(src[i:], "{{"):
			lit.WriteByte('{')
			i += 2
		case c == '}' && strings.HasPrefix(src[i:], "}}"):
			lit.WriteByte('}')
			i += 2
		case c == '}':
			return nil, fmt.Errorf("single '}' at offset %d, write '}}' for a literal brace", i)
		case c == '{':
			end := strings.IndexByte(src[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed '{' at offset %d, write '{{' for a literal brace", i)
			}
			p, err := parseField(src[i+1 : i+1+end])
			if err != nil {
				return nil, err
			}
			flush()
			t.parts = append(t.parts, p)
			i += end + 2
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return t, nil
}

// String returns the template source.
func (t *Template) String() string {
	return t.src
}

// Format substitutes v and the one-based level into the template.
func (t *Template) Format(v value.Number, level int) (string, error) {
	var b strings.Builder
	for _, p := range t.parts {
		var (
			s   string
			err error
		)
		switch p.field {
		case "":
			s = p.literal
		case FieldValue:
			s, err = p.spec.format(v)
		case FieldLevel:
			s, err = p.spec.format(value.Int(int64(level)))
		}
		if err != nil {
			return "", fmt.Errorf("{%s}: %w", p.field, err)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func parseField(body string) (part, error) {
	name, rawSpec, hasSpec := strings.Cut(body, ":")
	if name != FieldValue && name != FieldLevel {
		return part{}, fmt.Errorf("unknown placeholder {%s}, expected {%s} or {%s}", body, FieldValue, FieldLevel)
	}
	p := part{field: name, spec: formatSpec{fill: ' ', precision: -1}}
	if hasSpec {
		spec, err := parseSpec(rawSpec)
		if err != nil {
			return part{}, fmt.Errorf("placeholder {%s}: %w", body, err)
		}
		p.spec = spec
	}
	return p, nil
}

// =============================================================================
// Format Specs
// =============================================================================

const maxWidth = 256

// formatSpec is [[fill]align][sign][0][width][.precision][verb].
type formatSpec struct {
	fill      rune
	fillSet   bool
	align     rune // '<', '>', '^', '=' or 0
	sign      rune // '+', '-', ' ' or 0
	zero      bool
	width     int
	precision int // -1 when absent
	verb      rune // 'd', 'f', 'g', 'e', 's' or 0
}

func isAlign(r rune) bool {
	return r == '<' || r == '>' || r == '^' || r == '='
}

func parseSpec(s string) (formatSpec, error) {
	fs := formatSpec{fill: ' ', precision: -1}
	r := []rune(s)
	i := 0

	switch {
	case len(r) >= 2 && isAlign(r[1]):
		fs.fill, fs.fillSet, fs.align = r[0], true, r[1]
		i = 2
	case len(r) >= 1 && isAlign(r[0]):
		fs.align = r[0]
		i = 1
	}
	if i < len(r) && (r[i] == '+' || r[i] == '-' || r[i] == ' ') {
		fs.sign = r[i]
		i++
	}
	if i < len(r) && r[i] == '0' {
		fs.zero = true
		i++
	}
	start := i
	for i < len(r) && r[i] >= '0' && r[i] <= '9' {
		i++
	}
	if i > start {
		fs.width, _ = strconv.Atoi(string(r[start:i]))
		if fs.width > maxWidth {
			return fs, fmt.Errorf("width %d exceeds %d", fs.width, maxWidth)
		}
	}
	if i < len(r) && r[i] == '.' {
		i++
		start = i
		for i < len(r) && r[i] >= '0' && r[i] <= '9' {
			i++
		}
		if i == start {
			return fs, fmt.Errorf("format spec %q: missing precision after '.'", s)
		}
		fs.precision, _ = strconv.Atoi(string(r[start:i]))
		if fs.precision > maxWidth {
			return fs, fmt.Errorf("precision %d exceeds %d", fs.precision, maxWidth)
		}
	}
	if i < len(r) && strings.ContainsRune("dfges", r[i]) {
		fs.verb = r[i]
		i++
	}
	if i != len(r) {
		return fs, fmt.Errorf("invalid format spec %q", s)
	}

	switch {
	case fs.verb == 'd' && fs.precision >= 0:
		return fs, fmt.Errorf("format spec %q: precision not allowed with 'd'", s)
	case fs.verb == 's' && fs.sign != 0:
		return fs, fmt.Errorf("format spec %q: sign not allowed with 's'", s)
	}
	return fs, nil
}

func (fs formatSpec) format(n value.Number) (string, error) {
	x := n.Float64()
	neg := x < 0
	abs := math.Abs(x)
	prec := fs.precision

	var body string
	switch fs.verb {
	case 's':
		body, neg = n.String(), false
	case 'd':
		if !n.Integer {
			return "", fmt.Errorf("format 'd' needs a whole number, got %s", n)
		}
		body = strconv.FormatFloat(abs, 'f', 0, 64)
	case 'f', 'e':
		if prec < 0 {
			prec = 6
		}
		body = strconv.FormatFloat(abs, byte(fs.verb), prec, 64)
	case 'g':
		if prec < 0 {
			prec = 6
		}
		body = strconv.FormatFloat(abs, 'g', max(prec, 1), 64)
	default:
		if prec >= 0 {
			body = strconv.FormatFloat(abs, 'g', max(prec, 1), 64)
		} else {
			body = strings.TrimPrefix(n.String(), "-")
		}
	}

	var sign string
	switch {
	case neg:
		sign = "-"
	case fs.sign == '+':
		sign = "+"
	case fs.sign == ' ':
		sign = " "
	}
	return fs.pad(sign, body), nil
}

func (fs formatSpec) pad(sign, body string) string {
	fill, align := fs.fill, fs.align
	if fs.zero {
		if !fs.fillSet {
			fill = '0'
		}
		if align == 0 {
			align = '='
		}
	}
	if align == 0 {
		align = '>'
		if fs.verb == 's' {
			align = '<'
		}
	}

	n := fs.width - utf8.RuneCountInString(sign) - utf8.RuneCountInString(body)
	if n <= 0 {
		return sign + body
	}
	rep := func(k int) string { return strings.Repeat(string(fill), k) }
	switch align {
	case '<':
		return sign + body + rep(n)
	case '^':
		return rep(n/2) + sign + body + rep(n-n/2)
	case '=':
		return sign + rep(n) + body
	default:
		return rep(n) + sign + body
	}
}

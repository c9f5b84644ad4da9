package config

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/matzehuels/modtower/pkg/errors"
)

// Document keys.
const (
	keyEveryLayer      = "everyLayer"
	keyAtLayer         = "atLayer"
	keyStartingAt      = "startingAt"
	keyForEvery        = "forEvery"
	keyDo              = "do"
	keyValue           = "value"
	keyMidpointSetting = "midpointSetting"
	keyStart           = "start"
	keyIncrement       = "increment"
	keyEnd             = "end"
	keyExpression      = "expression"
	keyRoundSetting    = "roundSetting"
)

// fromDocument converts a generic YAML/TOML tree into a TowerConfig, collecting
// every schema violation before giving up.
func fromDocument(doc any) (*TowerConfig, error) {
	v := &errors.ValidationError{}
	if doc == nil {
		v.Add("", "document is empty")
		return nil, v
	}
	root, ok := asMap(doc)
	if !ok {
		v.Add("", "expected a mapping at the document root, got %s", typeName(doc))
		return nil, v
	}

	obj := object{m: root, v: v}
	obj.only(keyEveryLayer, keyAtLayer)

	cfg := &TowerConfig{AtLayer: map[int]string{}}

	if raw := root[keyEveryLayer]; raw != nil {
		items, ok := asList(raw)
		if !ok {
			v.Add(keyEveryLayer, "expected a list, got %s", typeName(raw))
		}
		for i, item := range items {
			rule, ok := decodeRule(v, fmt.Sprintf("%s[%d]", keyEveryLayer, i), item)
			if ok {
				cfg.EveryLayer = append(cfg.EveryLayer, rule)
			}
		}
	}

	if raw := root[keyAtLayer]; raw != nil {
		m, ok := asMap(raw)
		if !ok {
			v.Add(keyAtLayer, "expected a mapping of layer number to command, got %s", typeName(raw))
		}
		for _, key := range sortedKeys(m) {
			path := keyAtLayer + "." + key
			layer, err := strconv.Atoi(key)
			if err != nil || layer < 0 {
				v.Add(path, "key must be a non-negative integer layer number, got %q", key)
				continue
			}
			cmd, ok := m[key].(string)
			if !ok {
				v.Add(path, "expected a string, got %s", typeName(m[key]))
				continue
			}
			cfg.AtLayer[layer] = cmd
		}
	}

	if !v.Empty() {
		return nil, v
	}
	return cfg, nil
}

func decodeRule(v *errors.ValidationError, path string, raw any) (LayerRule, bool) {
	m, ok := asMap(raw)
	if !ok {
		v.Add(path, "expected a mapping, got %s", typeName(raw))
		return LayerRule{}, false
	}
	before := len(v.Fields)
	obj := object{m: m, path: path, v: v}
	obj.only(keyStartingAt, keyForEvery, keyDo, keyValue)

	rule := LayerRule{
		StartingAt: obj.int(keyStartingAt, false),
		ForEvery:   obj.int(keyForEvery, true),
		Do:         obj.str(keyDo, true),
	}
	if rule.StartingAt < 0 {
		v.Add(obj.at(keyStartingAt), "must be non-negative, got %d", rule.StartingAt)
	}
	if n, ok := asInt(m[keyForEvery]); ok && n <= 0 {
		v.Add(obj.at(keyForEvery), "must be greater than 0, got %d", n)
	}

	if rawValue, present := m[keyValue]; !present || rawValue == nil {
		v.Add(obj.at(keyValue), "field required")
	} else {
		rule.Value = decodeValue(v, obj.at(keyValue), rawValue)
	}
	return rule, len(v.Fields) == before
}

// decodeValue resolves the value spec variant from the keys present.
func decodeValue(v *errors.ValidationError, path string, raw any) ValueSpec {
	m, ok := asMap(raw)
	if !ok {
		v.Add(path, "expected a mapping, got %s", typeName(raw))
		return nil
	}
	obj := object{m: m, path: path, v: v}
	_, hasExpr := m[keyExpression]
	_, hasIncrement := m[keyIncrement]
	_, hasEnd := m[keyEnd]

	switch {
	case hasExpr:
		obj.only(keyExpression, keyRoundSetting)
		spec := ExpressionSpec{
			Expression: obj.str(keyExpression, true),
			Round:      RoundSetting(obj.enum(keyRoundSetting, false, roundNames)),
		}
		if _, ok := m[keyExpression].(string); ok && spec.Expression == "" {
			v.Add(obj.at(keyExpression), "must not be empty")
		}
		return spec
	case hasIncrement && hasEnd:
		v.Add(path, "'%s' and '%s' are mutually exclusive", keyIncrement, keyEnd)
		return nil
	case hasIncrement:
		obj.only(keyMidpointSetting, keyStart, keyIncrement, keyRoundSetting)
		return IncrementSpec{
			Midpoint:  MidpointSetting(obj.enum(keyMidpointSetting, true, midpointNames)),
			Start:     obj.float(keyStart),
			Increment: obj.float(keyIncrement),
			Round:     RoundSetting(obj.enum(keyRoundSetting, false, roundNames)),
		}
	case hasEnd:
		obj.only(keyMidpointSetting, keyStart, keyEnd, keyRoundSetting)
		return InterpolateSpec{
			Midpoint: MidpointSetting(obj.enum(keyMidpointSetting, true, midpointNames)),
			Start:    obj.float(keyStart),
			End:      obj.float(keyEnd),
			Round:    RoundSetting(obj.enum(keyRoundSetting, false, roundNames)),
		}
	default:
		v.Add(path, "must define one of '%s', '%s' or '%s'", keyIncrement, keyEnd, keyExpression)
		return nil
	}
}

var (
	midpointNames = []string{string(MidpointOff), string(MidpointHigh), string(MidpointLow)}
	roundNames    = []string{string(RoundNearest), string(RoundTruncate)}
)

// =============================================================================
// Field Access
// =============================================================================

// object reads typed fields out of a generic mapping, recording violations
// under the mapping's path.
type object struct {
	m    map[string]any
	path string
	v    *errors.ValidationError
}

func (o object) at(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}

// only rejects keys outside allowed.
func (o object) only(allowed ...string) {
	ok := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		ok[k] = true
	}
	for _, k := range sortedKeys(o.m) {
		if !ok[k] {
			o.v.Add(o.at(k), "unknown field")
		}
	}
}

func (o object) lookup(key string, required bool) (any, bool) {
	raw, present := o.m[key]
	if !present || raw == nil {
		if required {
			o.v.Add(o.at(key), "field required")
		}
		return nil, false
	}
	return raw, true
}

func (o object) int(key string, required bool) int {
	raw, ok := o.lookup(key, required)
	if !ok {
		return 0
	}
	n, ok := asInt(raw)
	if !ok {
		o.v.Add(o.at(key), "expected an integer, got %s", typeName(raw))
	}
	return n
}

func (o object) float(key string) float64 {
	raw, ok := o.lookup(key, true)
	if !ok {
		return 0
	}
	f, ok := asFloat(raw)
	if !ok {
		o.v.Add(o.at(key), "expected a number, got %s", typeName(raw))
	}
	return f
}

func (o object) str(key string, required bool) string {
	raw, ok := o.lookup(key, required)
	if !ok {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		o.v.Add(o.at(key), "expected a string, got %s", typeName(raw))
	}
	return s
}

func (o object) enum(key string, required bool, allowed []string) string {
	s := o.str(key, required)
	if s == "" {
		if raw, ok := o.m[key].(string); ok && raw == "" {
			o.v.Add(o.at(key), "must be one of %s, got %q", quoteList(allowed), s)
		}
		return ""
	}
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	o.v.Add(o.at(key), "must be one of %s, got %q", quoteList(allowed), s)
	return ""
}

// =============================================================================
// Generic Tree Helpers
// =============================================================================

// asMap accepts both map shapes produced by the decoders: yaml.v3 yields
// map[any]any when a mapping has non-string keys (atLayer: {10: ...}).
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// asList accepts plain lists and TOML arrays of tables.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt || n < math.MinInt {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64:
		return "integer"
	case float64:
		return "number"
	}
	if _, ok := asMap(v); ok {
		return "mapping"
	}
	if _, ok := asList(v); ok {
		return "list"
	}
	return fmt.Sprintf("%T", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quoteList(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += "'" + s + "'"
	}
	return out
}

// Package jsonval resolves JSON paths and stringifies JSON values the way
// the query predicate language needs: a record's key, its parsed JSON
// payload, and its timestamp all live in the same dynamic-value universe
// (nil, bool, float64, string, []any, map[string]any) that
// encoding/json-flavored decoders (here, bytedance/sonic) already produce.
package jsonval

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
)

// Parse decodes raw JSON bytes into the dynamic value universe. Parse
// failure is not an error at this layer: the predicate evaluator is total,
// so a payload that isn't valid JSON resolves to nil (the record's raw text
// is preserved separately for the Value-whole-text special cases).
func Parse(raw []byte) any {
	var v any
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// Descend walks obj through the given object-key segments, returning nil if
// any intermediate value is missing or not an object. Only map[string]any
// intermediates are descended into; arrays and scalars terminate the walk.
func Descend(obj any, segments []string) any {
	cur := obj
	for _, seg := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := m[seg]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// Canonical renders v as deterministic JSON text, used as the fallback
// "raw text" for Contains/Eq whole-value comparisons when no original raw
// text is available (e.g. the record has no payload at all; a payload that
// failed to parse still carries its raw text).
func Canonical(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// Pretty renders v as indented JSON text for display in table/sink output.
func Pretty(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Stringify renders v the way Contains wants it: strings contribute their
// bare contents (no surrounding quotes), everything else renders as its
// natural text form.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case json.Number:
		return t.String()
	default:
		return Canonical(v)
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// AsFloat64 reports whether v is numeric and, if so, its float64 value.
func AsFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

// AsString reports whether v is a JSON string and, if so, its contents.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsBool reports whether v is a JSON boolean and, if so, its value.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// IsNull reports whether v is the JSON null value (Go nil).
func IsNull(v any) bool { return v == nil }

// Describe is used only for diagnostics (e.g. logging unexpected types).
func Describe(v any) string { return fmt.Sprintf("%T", v) }

package models

import (
	"encoding/json"
	"math"
)

// Document is an open mapping of attribute name to JSON value. Nested result
// groups (parameters, reproducibility, risk assessment, ...) evolve between
// strategy versions, so they are stored opaquely: unknown keys survive a
// round-trip through the store untouched.
type Document map[string]interface{}

// Float64 returns the numeric value stored under key. The second return value
// reports whether the key is present and numeric. JSON numbers decode as
// float64, but values that passed through typed Go code may be ints.
func (d Document) Float64(key string) (float64, bool) {
	v, ok := d[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String returns the string value stored under key, if present.
func (d Document) String(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IsFinite reports whether the value under key, if numeric, is a finite
// number. Keys that are absent or non-numeric report true; finiteness is only
// meaningful for values that claim to be numbers.
func (d Document) IsFinite(key string) bool {
	f, ok := d.Float64(key)
	if !ok {
		return true
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Clone returns a deep copy. Maps and slices are duplicated recursively so
// that a snapshot handed to a reader is never aliased to store-owned state.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case Document:
		return t.Clone()
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		s := make([]string, len(t))
		copy(s, t)
		return s
	default:
		return v
	}
}

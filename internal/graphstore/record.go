// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Record is one result row: field name to value. Values are scalars
// (string, int64, float64, bool, nil), node records (Record or
// map[string]any of node properties) or lists of those.
type Record map[string]any

// String returns the field as a string. Missing and null fields yield "".
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the field as an int, or 0 when it is missing or not numeric.
func (r Record) Int(key string) int {
	if p := r.IntPtr(key); p != nil {
		return *p
	}
	return 0
}

// IntPtr returns the field as an int, or nil when it is missing or not numeric.
func (r Record) IntPtr(key string) *int {
	n, ok := toInt(r[key])
	if !ok {
		return nil
	}
	return &n
}

// FloatPtr returns the field as a float64, or nil when it is missing or not numeric.
func (r Record) FloatPtr(key string) *float64 {
	var f float64
	switch v := r[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

// BoolPtr returns the field as a bool, or nil when it is missing. SQLite
// stores booleans as 0/1, so integers are accepted too.
func (r Record) BoolPtr(key string) *bool {
	var b bool
	switch v := r[key].(type) {
	case bool:
		b = v
	case int64:
		b = v != 0
	case float64:
		b = v != 0
	case int:
		b = v != 0
	default:
		return nil
	}
	return &b
}

// Node returns the field as a node record, or nil when it is missing or null.
func (r Record) Node(key string) Record {
	return asRecord(r[key])
}

// Nodes returns the field as a list of node records. Null entries, which
// OPTIONAL MATCH collections may contain, are skipped.
func (r Record) Nodes(key string) []Record {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(list))
	for _, item := range list {
		if rec := asRecord(item); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

// Strings returns the field as a list of strings, skipping nulls.
func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func asRecord(v any) Record {
	switch n := v.(type) {
	case Record:
		return n
	case map[string]any:
		return Record(n)
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// A single decoded JSON object
type record map[string]any

// Value at a dotted path ("Attributes.name"); false if any segment is missing
func (r record) path(p string) (any, bool) {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(p, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// First defined (present and non-null) value across the fallback paths
func (r record) lookup(paths ...string) (any, bool) {
	for _, p := range paths {
		if v, ok := r.path(p); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r record) str(paths ...string) string {
	v, _ := r.lookup(paths...)
	return toString(v)
}

func (r record) integer(paths ...string) int {
	v, _ := r.lookup(paths...)
	return toInt(v)
}

func (r record) optionalInt(paths ...string) *int {
	v, ok := r.lookup(paths...)
	if !ok {
		return nil
	}
	n, ok := parseInt(v)
	if !ok {
		return nil
	}
	return &n
}

func (r record) strings(paths ...string) []string {
	v, _ := r.lookup(paths...)
	return toStrings(v)
}

func (r record) list(paths ...string) []any {
	v, _ := r.lookup(paths...)
	l, _ := v.([]any)
	return l
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func toInt(v any) int {
	n, _ := parseInt(v)
	return n
}

func parseInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return truncate(f)
		}
	case float64:
		return truncate(t)
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return truncate(f)
		}
	}
	return 0, false
}

func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []any:
		result := make([]string, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			result = append(result, toString(e))
		}
		return result
	case []string:
		return append([]string{}, t...)
	case string:
		if t != "" {
			return []string{t}
		}
	}
	return []string{}
}

// Package listing is the filter/sort engine applied over normalized collections at render time.
package listing

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// A sortable column of a table
type Column[T any] struct {
	Key     string
	Title   string
	Numeric bool
	// direction used when the column becomes the active sort key
	DefaultDesc bool
	Value       func(T) any
}

// Filter and sort definition for one item kind
type Table[T any] struct {
	Name    func(T) string
	Columns []Column[T]
}

// Active sort key and direction.
// An empty key keeps the input order.
type Sort struct {
	Key  string `json:"key" yaml:"key"`
	Desc bool   `json:"desc" yaml:"desc"`
}

// Direction label for display
func (s Sort) Direction() string {
	if s.Desc {
		return "desc"
	}
	return "asc"
}

// Column by key
func (t Table[T]) Column(key string) (Column[T], bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Sort control click: the active key flips direction,
// any other key becomes active with its column's default direction.
func (t Table[T]) Toggle(s Sort, key string) Sort {
	if key == s.Key {
		return Sort{Key: key, Desc: !s.Desc}
	}
	c, _ := t.Column(key)
	return Sort{Key: key, Desc: c.DefaultDesc}
}

// Filtered and sorted view of items. The input slice is never reordered.
func (t Table[T]) Apply(items []T, filter string, s Sort) []T {
	result := t.filter(items, filter)

	c, ok := t.Column(s.Key)
	if !ok {
		return result
	}

	less := func(i, j int) bool {
		cmp := compare(c, result[i], result[j])
		if s.Desc {
			return cmp > 0
		}
		return cmp < 0
	}
	sort.SliceStable(result, less)

	return result
}

// Number of items matching the filter
func (t Table[T]) Count(items []T, filter string) int {
	if filter == "" {
		return len(items)
	}
	needle := strings.ToLower(filter)
	count := 0
	for _, item := range items {
		if t.matches(item, needle) {
			count++
		}
	}
	return count
}

func (t Table[T]) filter(items []T, filter string) []T {
	result := make([]T, 0, len(items))
	if filter == "" {
		return append(result, items...)
	}

	needle := strings.ToLower(filter)
	for _, item := range items {
		if t.matches(item, needle) {
			result = append(result, item)
		}
	}
	return result
}

func (t Table[T]) matches(item T, needle string) bool {
	if t.Name == nil {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name(item)), needle)
}

func compare[T any](c Column[T], a, b T) int {
	if c.Numeric {
		x, y := Number(c.Value(a)), Number(c.Value(b))
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(Text(c.Value(a))), strings.ToLower(Text(c.Value(b))))
}

// Numeric value of a cell, non-numeric values count as 0
func Number(v any) float64 {
	if f := number(v); !math.IsNaN(f) {
		return f
	}
	return 0
}

func number(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case json.Number:
		f, _ := t.Float64()
		return f
	case *int:
		if t != nil {
			return float64(*t)
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return 0
}

// Text value of a cell
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case *int:
		if t == nil {
			return ""
		}
		return strconv.Itoa(*t)
	}
	return fmt.Sprint(v)
}

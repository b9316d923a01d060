// Package render turns tab read models into text: go-pretty tables, YAML dumps and a
// console progress bar.
package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/giwty/slm-view/listing"
	"github.com/giwty/slm-view/tabs"
	"github.com/jedib0t/go-pretty/table"
	"robpike.io/nihongo"
)

const (
	NO_DATA = "No data"
	LOADING = "Loading..."
)

// Rendering options
type Options struct {
	Theme string
	// show names in romaji
	Romanize bool
}

// Table of a tab read model, or its empty state line
func Table[T any](tbl listing.Table[T], view tabs.View[T], opts Options) string {
	if empty := EmptyState(view); empty != "" {
		return empty
	}

	t := table.NewWriter()
	t.SetStyle(Style(opts.Theme))

	header := table.Row{"#"}
	for _, c := range tbl.Columns {
		header = append(header, title(c.Title, c.Key, view.Sort))
	}
	t.AppendHeader(header)

	for i, item := range view.Items {
		row := table.Row{i + 1}
		for _, c := range tbl.Columns {
			row = append(row, cell(c.Key, c.Value(item), opts))
		}
		t.AppendRow(row)
	}

	footer := table.Row{}
	for len(footer) < len(header)-2 {
		footer = append(footer, "")
	}
	footer = append(footer, "Total")
	footer = append(footer, Counts(view))
	t.AppendFooter(footer)

	return t.Render()
}

// Empty state line, "" when there are rows to show
func EmptyState[T any](view tabs.View[T]) string {
	switch {
	case view.Total == 0 && view.State == tabs.Loading:
		return LOADING
	case view.Total == 0:
		return NO_DATA
	case view.Matching == 0:
		return fmt.Sprintf("%v matching %q", NO_DATA, view.Filter)
	}
	return ""
}

// Total, and the matching count while a filter is set
func Counts[T any](view tabs.View[T]) string {
	if view.Filter == "" || view.Matching == view.Total {
		return humanize.Comma(int64(view.Total))
	}
	return fmt.Sprintf("%v of %v", humanize.Comma(int64(view.Matching)), humanize.Comma(int64(view.Total)))
}

// Status line of a tab
func Summary[T any](view tabs.View[T]) string {
	s := fmt.Sprintf("%v: %v", tabs.Titles[view.Name], Counts(view))
	if view.Sort.Key != "" {
		s += fmt.Sprintf(" | sort %v %v", view.Sort.Key, view.Sort.Direction())
	}
	if view.State == tabs.Loading {
		s += " | loading"
	}
	return s
}

func title(t string, key string, s listing.Sort) string {
	if key != s.Key {
		return t
	}
	if s.Desc {
		return t + " ▼"
	}
	return t + " ▲"
}

func cell(key string, v any, opts Options) any {
	switch value := v.(type) {
	case []string:
		return strings.Join(value, "\n")
	case string:
		if opts.Romanize && key == "name" {
			return nihongo.RomajiString(value)
		}
		return value
	}
	return v
}

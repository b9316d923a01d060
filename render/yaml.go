package render

import (
	"io"

	"github.com/giwty/slm-view/listing"
	"github.com/giwty/slm-view/tabs"
	"gopkg.in/yaml.v3"
)

type yamlView[T any] struct {
	Tab      string        `yaml:"tab"`
	State    string        `yaml:"state"`
	Total    int           `yaml:"total"`
	Matching int           `yaml:"matching"`
	Filter   string        `yaml:"filter,omitempty"`
	Sort     *listing.Sort `yaml:"sort,omitempty"`
	Items    []T           `yaml:"items"`
}

// YAML document of a tab read model
func YAML[T any](w io.Writer, view tabs.View[T]) error {
	doc := yamlView[T]{
		Tab:      view.Name,
		State:    view.State.String(),
		Total:    view.Total,
		Matching: view.Matching,
		Filter:   view.Filter,
		Items:    view.Items,
	}
	if view.Sort.Key != "" {
		doc.Sort = &view.Sort
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

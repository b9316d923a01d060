package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sort"

	"go.uber.org/zap"
)

var errNotObject = errors.New("payload is not a JSON object")

// A decoded backend response.
// keys holds the top-level object keys in the order they appear in the payload.
type document struct {
	value any
	keys  []string
}

// Decode a raw response into generic JSON values.
// Returns false when there is nothing to normalize (null, empty or malformed payload).
func parse(raw any) (document, bool) {
	var data []byte

	switch v := raw.(type) {
	case nil:
		return document{}, false
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	case map[string]any:
		return document{value: v, keys: sortedKeys(v)}, true
	case []any:
		return document{value: v}, true
	default:
		// typed Go values (structs, typed slices) go through their JSON form
		b, err := json.Marshal(v)
		if err != nil {
			zap.S().Warnf("failed to encode backend response [%T]: %v", raw, err)
			return document{}, false
		}
		data = b
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return document{}, false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		zap.S().Warnf("failed to parse backend response: %v", err)
		return document{}, false
	}
	// the payload must be a single JSON value
	if _, err := dec.Token(); err != io.EOF {
		zap.S().Warnf("failed to parse backend response: unexpected data after the top-level value")
		return document{}, false
	}

	switch v := value.(type) {
	case nil:
		return document{}, false
	case string:
		// payload was JSON-encoded twice (string inside a message payload)
		return parse(v)
	case map[string]any:
		keys, err := objectKeys(data)
		if err != nil {
			keys = sortedKeys(v)
		}
		return document{value: v, keys: keys}, true
	}

	return document{value: value}, true
}

// Top-level keys of a JSON object in textual order, duplicates reported once
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	keys := []string{}
	seen := map[string]struct{}{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errNotObject
		}

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Records of a collection payload: either a top-level array,
// or an object whose values are the records (taken in key order).
func (d document) records() []record {
	var values []any

	switch v := d.value.(type) {
	case []any:
		values = v
	case map[string]any:
		values = make([]any, 0, len(d.keys))
		for _, k := range d.keys {
			values = append(values, v[k])
		}
	}

	return toRecords(values)
}

func toRecords(values []any) []record {
	result := make([]record, 0, len(values))
	for i, v := range values {
		m, ok := v.(map[string]any)
		if !ok {
			zap.S().Debugf("skipping non-object record at index %v [%T]", i, v)
			continue
		}
		result = append(result, record(m))
	}
	return result
}

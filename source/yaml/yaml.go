// Package yaml decodes YAML specification documents into the same generic
// shape produced by the JSON drivers (map[string]any, []any, json.Number).
package yaml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when the document root is not a mapping.
var ErrNotMapping = errors.New("yaml: document root is not a mapping")

// Decode reads the first YAML document in data. Duplicate mapping keys are
// rejected by yaml.v3 itself.
func Decode(data []byte) (map[string]any, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader is like Decode but reads from r.
func DecodeReader(r io.Reader) (map[string]any, error) {
	dec := yaml.NewDecoder(r)
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotMapping
		}
		return nil, err
	}
	m, ok := normalize(node).(map[string]any)
	if !ok {
		return nil, ErrNotMapping
	}
	return m, nil
}

// normalize converts yaml.v3 values into JSON-like values. Non-string keys are
// stringified; numbers become json.Number so callers see one numeric form.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalize(t[i])
		}
		return arr
	case int:
		return json.Number(strconv.Itoa(t))
	case int64:
		return json.Number(strconv.FormatInt(t, 10))
	case uint64:
		return json.Number(strconv.FormatUint(t, 10))
	case float64:
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64))
	default:
		return v
	}
}

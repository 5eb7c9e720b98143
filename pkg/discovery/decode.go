package discovery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/opst/shepherd/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// Decoder converts descriptor content into a mapping.
//
// It should return ErrNotMapping when content is well-formed but not a mapping.
type Decoder func(content []byte) (model.Fields, error)

var ErrNotMapping = errors.New("descriptor is not a mapping")

// DecodeJSON decodes a JSON object.
//
// Numbers are kept as json.Number, so large integers are written back without loss.
func DecodeJSON(content []byte) (model.Fields, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected content after the first JSON value")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, v)
	}
	return m, nil
}

// DecodeYAML decodes a YAML mapping. As YAML is a superset of JSON, it also accepts JSON descriptors.
func DecodeYAML(content []byte) (model.Fields, error) {
	var v any
	if err := yaml.Unmarshal(content, &v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, v)
	}
	return m, nil
}

// DecoderFor returns a decoder by format name, "json" or "yaml".
func DecoderFor(format string) (Decoder, error) {
	switch format {
	case "", "json":
		return DecodeJSON, nil
	case "yaml", "yml":
		return DecodeYAML, nil
	default:
		return nil, fmt.Errorf("unknown descriptor format: %s", format)
	}
}

// Package columns derives the column schema of a view from discovered models.
package columns

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrDuplicateColumn is returned when a Spec names a column twice.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrMissingColumn is returned, in strict aggregation, when a stored column is no longer found in records.
	ErrMissingColumn = errors.New("column is not found in records")

	// ErrLengthMismatch is returned when column names and states are not paired.
	ErrLengthMismatch = errors.New("numbers of column names and states are not same")

	ErrInvalidColumn = errors.New("invalid column")
)

// Column is a field shown (or hidden) in a table.
//
// It is serialized as a pair, `["name", true]`.
type Column struct {
	Name    string
	Enabled bool
}

func (c Column) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Name, c.Enabled})
}

func (c *Column) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		// also accept {"name": ..., "enabled": ...}
		obj := struct {
			Name    *string `json:"name"`
			Enabled *bool   `json:"enabled"`
		}{}
		if err := json.Unmarshal(b, &obj); err != nil || obj.Name == nil {
			return fmt.Errorf("%w: %s", ErrInvalidColumn, string(b))
		}
		c.Name = *obj.Name
		c.Enabled = obj.Enabled == nil || *obj.Enabled
		return nil
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: want [name, enabled], got %s", ErrInvalidColumn, string(b))
	}
	if err := json.Unmarshal(pair[0], &c.Name); err != nil {
		return fmt.Errorf("%w: name: %w", ErrInvalidColumn, err)
	}
	if err := json.Unmarshal(pair[1], &c.Enabled); err != nil {
		return fmt.Errorf("%w: enabled: %w", ErrInvalidColumn, err)
	}
	return nil
}

func (c Column) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	name, enabled := new(yaml.Node), new(yaml.Node)
	if err := name.Encode(c.Name); err != nil {
		return nil, err
	}
	if err := enabled.Encode(c.Enabled); err != nil {
		return nil, err
	}
	n.Content = []*yaml.Node{name, enabled}
	return n, nil
}

func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("%w: want [name, enabled] (line %d)", ErrInvalidColumn, node.Line)
		}
		if err := node.Content[0].Decode(&c.Name); err != nil {
			return err
		}
		return node.Content[1].Decode(&c.Enabled)
	case yaml.MappingNode:
		obj := struct {
			Name    *string `yaml:"name"`
			Enabled *bool   `yaml:"enabled"`
		}{}
		if err := node.Decode(&obj); err != nil {
			return err
		}
		if obj.Name == nil {
			return fmt.Errorf(`%w: "name" is missing (line %d)`, ErrInvalidColumn, node.Line)
		}
		c.Name = *obj.Name
		c.Enabled = obj.Enabled == nil || *obj.Enabled
		return nil
	default:
		return fmt.Errorf("%w: (line %d)", ErrInvalidColumn, node.Line)
	}
}

// Spec is an ordered list of columns.
type Spec []Column

// FromPairs zips column names and their states.
func FromPairs(names []string, states []bool) (Spec, error) {
	if len(names) != len(states) {
		return nil, fmt.Errorf("%w: %d names, %d states", ErrLengthMismatch, len(names), len(states))
	}
	s := make(Spec, len(names))
	for i := range names {
		s[i] = Column{Name: names[i], Enabled: states[i]}
	}
	return s, s.Validate()
}

// Validate checks that every column has a name and no name appears twice.
func (s Spec) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, c := range s {
		if c.Name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidColumn)
		}
		if _, ok := seen[c.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

func (s Spec) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

func (s Spec) States() []bool {
	states := make([]bool, len(s))
	for i, c := range s {
		states[i] = c.Enabled
	}
	return states
}

// Enabled returns names of enabled columns, in order.
func (s Spec) Enabled() []string {
	names := []string{}
	for _, c := range s {
		if c.Enabled {
			names = append(names, c.Name)
		}
	}
	return names
}

func (s Spec) Clone() Spec {
	if s == nil {
		return Spec{}
	}
	c := make(Spec, len(s))
	copy(c, s)
	return c
}

func (s Spec) Equal(o Spec) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Package model defines records discovered from training and evaluation descriptor files.
package model

import (
	"encoding/json"
	"sort"
)

const (
	// KeyEvaluations is reserved in a model record for its evaluations.
	KeyEvaluations = "evaluations"

	// KeyModel names the model an evaluation was run against. Evaluations are sorted by it.
	KeyModel = "model"

	// KeyResults holds the metrics of an evaluation, as a mapping from metric name to value.
	KeyResults = "results"
)

// Fields is a loosely structured record decoded from a descriptor file.
type Fields map[string]any

// Keys returns field names in no particular order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	return keys
}

// Evaluation is a record read from one evaluation descriptor.
type Evaluation struct {
	// Path of the evaluation descriptor.
	Path string

	Fields Fields
}

// Model returns the "model" field. Empty if it is not a string.
func (e Evaluation) Model() string {
	s, _ := e.Fields[KeyModel].(string)
	return s
}

// Results returns the "results" mapping, or nil if it is not a mapping.
func (e Evaluation) Results() map[string]any {
	r, _ := e.Fields[KeyResults].(map[string]any)
	return r
}

func (e Evaluation) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Fields)
}

// Model is a training run: fields of its training descriptor and the evaluations found for it.
type Model struct {
	// Dir is the model directory.
	Dir string

	// TrainingPath is the path of the training descriptor.
	TrainingPath string

	// Fields of the training descriptor. It never has KeyEvaluations.
	Fields Fields

	// Evaluations in discovery order.
	Evaluations []Evaluation
}

// SortedEvaluations returns evaluations ordered by their "model" field.
// Evaluations with the same "model" keep discovery order.
func (m Model) SortedEvaluations() []Evaluation {
	evals := make([]Evaluation, len(m.Evaluations))
	copy(evals, m.Evaluations)
	sort.SliceStable(evals, func(i, j int) bool {
		return evals[i].Model() < evals[j].Model()
	})
	return evals
}

// Record merges training fields and evaluations into one mapping,
// putting evaluations under KeyEvaluations.
func (m Model) Record() map[string]any {
	rec := make(map[string]any, len(m.Fields)+1)
	for k, v := range m.Fields {
		rec[k] = v
	}
	evals := make([]map[string]any, 0, len(m.Evaluations))
	for _, e := range m.Evaluations {
		evals = append(evals, e.Fields)
	}
	rec[KeyEvaluations] = evals
	return rec
}

func (m Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Record())
}

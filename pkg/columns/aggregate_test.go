package columns_test

import (
	"errors"
	"testing"

	"github.com/opst/shepherd/pkg/columns"
	"github.com/opst/shepherd/pkg/domain/model"
)

func trained(fields model.Fields, results ...map[string]any) model.Model {
	m := model.Model{Fields: fields}
	for _, r := range results {
		m.Evaluations = append(m.Evaluations, model.Evaluation{
			Fields: model.Fields{"model": fields["name"], "results": r},
		})
	}
	return m
}

func TestAggregate(t *testing.T) {
	type When struct {
		Models  []model.Model
		Extract columns.Extractor
		Stored  columns.Spec
	}
	type Then struct {
		Spec columns.Spec
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			actual, err := columns.Aggregate(when.Models, when.Extract, when.Stored)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !actual.Equal(then.Spec) {
				t.Errorf("unmatch:\n- actual   : %v\n- expected : %v", actual, then.Spec)
			}

			again, err := columns.Aggregate(when.Models, when.Extract, actual)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !again.Equal(actual) {
				t.Errorf("not idempotent:\n- again : %v\n- first : %v", again, actual)
			}
		}
	}

	t.Run("without stored columns, all names are sorted and enabled", theory(
		When{
			Models: []model.Model{
				trained(model.Fields{"name": "a", "dataset": "mnist"}),
				trained(model.Fields{"name": "b", "epochs": 10, "accuracy": 0.5}),
			},
			Extract: columns.TrainingFields,
		},
		Then{
			Spec: columns.Spec{
				{Name: "accuracy", Enabled: true},
				{Name: "dataset", Enabled: true},
				{Name: "epochs", Enabled: true},
				{Name: "name", Enabled: true},
			},
		},
	))

	t.Run("stored columns come first, new ones follow sorted", theory(
		When{
			Models: []model.Model{
				trained(model.Fields{"name": "a", "dataset": "mnist", "accuracy": 0.9}),
			},
			Extract: columns.TrainingFields,
			Stored:  columns.Spec{{Name: "name", Enabled: true}},
		},
		Then{
			Spec: columns.Spec{
				{Name: "name", Enabled: true},
				{Name: "accuracy", Enabled: true},
				{Name: "dataset", Enabled: true},
			},
		},
	))

	t.Run("metrics are collected across evaluations of every model", theory(
		When{
			Models: []model.Model{
				trained(model.Fields{"name": "a"}, map[string]any{"loss": 0.1}),
				trained(model.Fields{"name": "b"}, map[string]any{"accuracy": 0.8, "loss": 0.2}),
			},
			Extract: columns.EvaluationMetrics,
			Stored:  columns.Spec{{Name: "accuracy", Enabled: false}},
		},
		Then{
			Spec: columns.Spec{
				{Name: "accuracy", Enabled: false},
				{Name: "loss", Enabled: true},
			},
		},
	))

	t.Run("stored order and states are kept as they are", theory(
		When{
			Models: []model.Model{
				trained(model.Fields{"name": "a", "dataset": "d", "lr": 0.1, "batch": 32}),
			},
			Extract: columns.TrainingFields,
			Stored: columns.Spec{
				{Name: "lr", Enabled: false},
				{Name: "name", Enabled: true},
				{Name: "dataset", Enabled: false},
			},
		},
		Then{
			Spec: columns.Spec{
				{Name: "lr", Enabled: false},
				{Name: "name", Enabled: true},
				{Name: "dataset", Enabled: false},
				{Name: "batch", Enabled: true},
			},
		},
	))

	t.Run("stale stored columns are retained", theory(
		When{
			Models: []model.Model{
				trained(model.Fields{"name": "a"}),
			},
			Extract: columns.TrainingFields,
			Stored: columns.Spec{
				{Name: "removed", Enabled: false},
				{Name: "name", Enabled: true},
			},
		},
		Then{
			Spec: columns.Spec{
				{Name: "removed", Enabled: false},
				{Name: "name", Enabled: true},
			},
		},
	))

	t.Run("names are matched case-sensitively", theory(
		When{
			Models:  []model.Model{trained(model.Fields{"Name": "a"})},
			Extract: columns.TrainingFields,
			Stored:  columns.Spec{{Name: "name", Enabled: true}},
		},
		Then{
			Spec: columns.Spec{
				{Name: "name", Enabled: true},
				{Name: "Name", Enabled: true},
			},
		},
	))

	t.Run("empty field names are not columns", theory(
		When{
			Models: []model.Model{
				trained(model.Fields{"": 1, "name": "a"}),
			},
			Extract: columns.TrainingFields,
		},
		Then{
			Spec: columns.Spec{{Name: "name", Enabled: true}},
		},
	))

	t.Run("empty metric names are not columns", theory(
		When{
			Models: []model.Model{
				trained(model.Fields{"name": "a"}, map[string]any{"": 0.3, "loss": 0.1}),
			},
			Extract: columns.EvaluationMetrics,
		},
		Then{
			Spec: columns.Spec{{Name: "loss", Enabled: true}},
		},
	))

	t.Run("no models, no stored columns", theory(
		When{Extract: columns.EvaluationMetrics},
		Then{Spec: columns.Spec{}},
	))
}

func TestAggregate_Errors(t *testing.T) {
	models := []model.Model{trained(model.Fields{"name": "a"})}

	t.Run("in strict mode, a stale stored column is an error", func(t *testing.T) {
		_, err := columns.Aggregate(
			models, columns.TrainingFields,
			columns.Spec{{Name: "gone", Enabled: true}},
			columns.Strict(),
		)
		if !errors.Is(err, columns.ErrMissingColumn) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("in strict mode, known stored columns pass", func(t *testing.T) {
		actual, err := columns.Aggregate(
			models, columns.TrainingFields,
			columns.Spec{{Name: "name", Enabled: false}},
			columns.Strict(),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !actual.Equal(columns.Spec{{Name: "name", Enabled: false}}) {
			t.Errorf("unexpected result: %v", actual)
		}
	})

	t.Run("duplicated stored columns are rejected", func(t *testing.T) {
		_, err := columns.Aggregate(
			models, columns.TrainingFields,
			columns.Spec{{Name: "name", Enabled: true}, {Name: "name", Enabled: false}},
		)
		if !errors.Is(err, columns.ErrDuplicateColumn) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestAggregate_DoesNotModifyStored(t *testing.T) {
	stored := make(columns.Spec, 1, 8)
	stored[0] = columns.Column{Name: "name", Enabled: true}

	actual, err := columns.Aggregate(
		[]model.Model{trained(model.Fields{"name": "a", "z": 1})},
		columns.TrainingFields, stored,
	)
	if err != nil {
		t.Fatal(err)
	}
	actual[0].Enabled = false
	if !stored[0].Enabled {
		t.Error("stored is aliased by result")
	}
}

package views

import (
	"github.com/opst/shepherd/pkg/columns"
	"github.com/opst/shepherd/pkg/configs/store"
	"github.com/opst/shepherd/pkg/domain/model"
)

// Layout is a view resolved against discovered models: what a table shows.
type Layout struct {
	View store.View `json:"view"`

	// Train is the full training column schema, stored columns first.
	Train columns.Spec `json:"train_columns"`

	// Eval is the full evaluation column schema, stored columns first.
	Eval columns.Spec `json:"eval_columns"`

	Rows []Row `json:"rows"`
}

// Row is a model in a table. Cells are values of enabled columns, in column order.
// A cell is nil when the record lacks the field.
type Row struct {
	Dir   string `json:"dir"`
	Cells []any  `json:"cells"`

	// Evaluations of the model, sorted by their "model" field.
	Evaluations []EvaluationRow `json:"evaluations"`
}

type EvaluationRow struct {
	Model string `json:"model"`
	Cells []any  `json:"cells"`
}

// Resolve aggregates columns of view over models and lays out rows.
//
// Options are passed to columns.Aggregate.
func Resolve(view store.View, models []model.Model, options ...columns.Option) (Layout, error) {
	train, err := columns.Aggregate(models, columns.TrainingFields, view.TrainColumns, options...)
	if err != nil {
		return Layout{}, err
	}
	eval, err := columns.Aggregate(models, columns.EvaluationMetrics, view.EvalColumns, options...)
	if err != nil {
		return Layout{}, err
	}

	trainNames := train.Enabled()
	evalNames := eval.Enabled()

	rows := make([]Row, 0, len(models))
	for _, m := range models {
		row := Row{
			Dir:         m.Dir,
			Cells:       make([]any, len(trainNames)),
			Evaluations: []EvaluationRow{},
		}
		for i, n := range trainNames {
			row.Cells[i] = m.Fields[n]
		}
		for _, e := range m.SortedEvaluations() {
			results := e.Results()
			er := EvaluationRow{Model: e.Model(), Cells: make([]any, len(evalNames))}
			for i, n := range evalNames {
				er.Cells[i] = results[n]
			}
			row.Evaluations = append(row.Evaluations, er)
		}
		rows = append(rows, row)
	}

	return Layout{View: view, Train: train, Eval: eval, Rows: rows}, nil
}

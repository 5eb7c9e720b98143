// Package views defines request and response payloads of view and settings endpoints.
package views

import (
	"github.com/opst/shepherd/pkg/columns"
)

// Create is a request to create a view.
type Create struct {
	Name string `json:"name"`
}

// Columns is a request to update columns of a view.
//
// Names and states are parallel lists, as a table header posts them.
type Columns struct {
	TrainColumns []string `json:"train_columns"`
	TrainStates  []bool   `json:"train_states"`
	EvalColumns  []string `json:"eval_columns"`
	EvalStates   []bool   `json:"eval_states"`
}

// Specs zips names and states into column specs.
func (c Columns) Specs() (train columns.Spec, eval columns.Spec, err error) {
	train, err = columns.FromPairs(c.TrainColumns, c.TrainStates)
	if err != nil {
		return nil, nil, err
	}
	eval, err = columns.FromPairs(c.EvalColumns, c.EvalStates)
	if err != nil {
		return nil, nil, err
	}
	return train, eval, nil
}

// Settings is an update of settings. Nil fields are left unchanged.
type Settings struct {
	ModelHome   *string `json:"model_home,omitempty"`
	ShowWelcome *bool   `json:"show_welcome,omitempty"`
}

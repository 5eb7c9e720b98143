package columns

import (
	"fmt"
	"sort"

	"github.com/opst/shepherd/pkg/domain/model"
)

// Extractor lists field names observed in models. Duplicates are allowed.
type Extractor func(models []model.Model) []string

// TrainingFields extracts names of training descriptor fields.
//
// An empty name cannot be a column, so it is skipped.
func TrainingFields(models []model.Model) []string {
	names := []string{}
	for _, m := range models {
		for _, k := range m.Fields.Keys() {
			if k == "" || k == model.KeyEvaluations {
				continue
			}
			names = append(names, k)
		}
	}
	return names
}

// EvaluationMetrics extracts metric names in "results" of every evaluation of every model.
//
// An empty name is skipped as TrainingFields does.
func EvaluationMetrics(models []model.Model) []string {
	names := []string{}
	for _, m := range models {
		for _, e := range m.Evaluations {
			for k := range e.Results() {
				if k == "" {
					continue
				}
				names = append(names, k)
			}
		}
	}
	return names
}

type aggregation struct {
	strict bool
}

type Option func(*aggregation) *aggregation

// Strict makes Aggregate fail with ErrMissingColumn when a stored column is not found in models.
//
// Without this, such stale columns are kept as they are.
func Strict() Option {
	return func(a *aggregation) *aggregation {
		a.strict = true
		return a
	}
}

// Aggregate computes the full column schema.
//
// The result starts with stored, unchanged in order and states.
// Names found by extract but not in stored follow, sorted and enabled.
//
// Aggregate is idempotent: passing its result as stored yields the same result.
func Aggregate(models []model.Model, extract Extractor, stored Spec, options ...Option) (Spec, error) {
	opt := &aggregation{}
	for _, o := range options {
		opt = o(opt)
	}

	if err := stored.Validate(); err != nil {
		return nil, err
	}

	discovered := map[string]struct{}{}
	for _, name := range extract(models) {
		discovered[name] = struct{}{}
	}

	ret := make(Spec, 0, len(stored)+len(discovered))
	for _, c := range stored {
		if _, ok := discovered[c.Name]; !ok && opt.strict {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c.Name)
		}
		delete(discovered, c.Name)
		ret = append(ret, c)
	}

	fresh := make([]string, 0, len(discovered))
	for name := range discovered {
		fresh = append(fresh, name)
	}
	sort.Strings(fresh)
	for _, name := range fresh {
		ret = append(ret, Column{Name: name, Enabled: true})
	}
	return ret, nil
}

package store

import (
	"sort"

	"github.com/opst/shepherd/pkg/columns"
)

// DefaultViewName is the view which always exists and cannot be deleted.
const DefaultViewName = "overview"

// View is a named table layout over discovered models.
type View struct {
	Name        string `json:"name" yaml:"name"`
	Topic       string `json:"topic" yaml:"topic"`
	Description string `json:"description" yaml:"description"`

	// columns from training descriptors.
	TrainColumns columns.Spec `json:"train_columns" yaml:"train_columns"`

	// columns from metrics of evaluation descriptors.
	EvalColumns columns.Spec `json:"eval_columns" yaml:"eval_columns"`
}

// Clone deep-copies the view.
func (v View) Clone() View {
	v.TrainColumns = v.TrainColumns.Clone()
	v.EvalColumns = v.EvalColumns.Clone()
	return v
}

// Document is the whole persisted configuration.
type Document struct {
	// ModelHome is the directory where models are discovered.
	ModelHome string `json:"model_home" yaml:"model_home"`

	ShowWelcome bool `json:"show_welcome" yaml:"show_welcome"`

	// ViewsOrder is the order of views in menus.
	ViewsOrder []string `json:"views_order" yaml:"views_order"`

	Views map[string]View `json:"views" yaml:"views"`

	// ViewTemplate is copied to create a new view.
	ViewTemplate View `json:"view_template" yaml:"view_template"`
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	c := d
	c.ViewsOrder = append([]string{}, d.ViewsOrder...)
	c.Views = make(map[string]View, len(d.Views))
	for k, v := range d.Views {
		c.Views[k] = v.Clone()
	}
	c.ViewTemplate = d.ViewTemplate.Clone()
	return c
}

// ViewNames returns names of all views, sorted.
func (d Document) ViewNames() []string {
	names := make([]string, 0, len(d.Views))
	for k := range d.Views {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func defaultTrainColumns() columns.Spec {
	return columns.Spec{
		{Name: "name", Enabled: true},
		{Name: "dataset", Enabled: true},
	}
}

// DefaultViewTemplate returns the template of new views.
func DefaultViewTemplate() View {
	return View{
		TrainColumns: defaultTrainColumns(),
		EvalColumns:  columns.Spec{},
	}
}

// Default returns the configuration to start with.
func Default() Document {
	return Document{
		ModelHome:   "./data",
		ShowWelcome: true,
		ViewsOrder:  []string{DefaultViewName},
		Views: map[string]View{
			DefaultViewName: {
				Name:         "Overview",
				Description:  "Show all models known to Shepherd.",
				TrainColumns: defaultTrainColumns(),
				EvalColumns:  columns.Spec{},
			},
		},
		ViewTemplate: DefaultViewTemplate(),
	}
}

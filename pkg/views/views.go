// Package views creates, deletes and reconfigures views in a configuration store.
//
// Failures which a user can recover from (unknown view, illegal name, ...) are
// returned as errors wrapping the sentinels below; ResultOf turns them into a
// message to show.
package views

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/opst/shepherd/pkg/columns"
	"github.com/opst/shepherd/pkg/configs/store"
)

// ReservedName cannot be used as a view name. It is taken by the view creation page.
const ReservedName = "new"

var (
	ErrViewNotFound    = errors.New("view does not exist")
	ErrViewExists      = errors.New("view already exists")
	ErrIllegalViewName = errors.New("illegal view name")
	ErrDefaultView     = errors.New("default view cannot be deleted")
	ErrColumnUpdate    = errors.New("columns cannot be updated")
)

// IllegalNameError is returned when a view cannot be named so. It is ErrIllegalViewName.
type IllegalNameError struct {
	Name string
}

func (e *IllegalNameError) Error() string {
	return fmt.Sprintf("%s: %q", ErrIllegalViewName, e.Name)
}

func (e *IllegalNameError) Unwrap() error {
	return ErrIllegalViewName
}

// Summary of views for menus.
type Summary struct {
	// Order is the order of views in menus.
	Order []string `json:"views_order"`

	// Names are all view names, sorted.
	Names []string `json:"view_names"`
}

// List summarizes views in s.
func List(s store.Store) Summary {
	doc := s.GetAll()
	return Summary{Order: doc.ViewsOrder, Names: doc.ViewNames()}
}

// Get returns the view named name.
func Get(s store.Store, name string) (store.View, error) {
	doc := s.GetAll()
	v, ok := doc.Views[name]
	if !ok {
		return store.View{}, fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	return v, nil
}

// Create adds a view named name, copied from the view template, at the end of views order.
func Create(s store.Store, name string) error {
	if strings.TrimSpace(name) == "" || strings.EqualFold(name, ReservedName) {
		return &IllegalNameError{Name: name}
	}

	return s.Update(func(d *store.Document) error {
		if _, ok := d.Views[name]; ok {
			return fmt.Errorf("%w: %s", ErrViewExists, name)
		}
		v := d.ViewTemplate.Clone()
		v.Name = name
		d.Views[name] = v
		if !slices.Contains(d.ViewsOrder, name) {
			d.ViewsOrder = append(d.ViewsOrder, name)
		}
		return nil
	})
}

// Delete removes the view named name from views and views order.
//
// The default view cannot be deleted.
// Deleting an unknown view fails with ErrViewNotFound, so retrying a delete is safe.
func Delete(s store.Store, name string) error {
	if name == store.DefaultViewName {
		return ErrDefaultView
	}
	return s.Update(func(d *store.Document) error {
		if _, ok := d.Views[name]; !ok {
			return fmt.Errorf("%w: %s", ErrViewNotFound, name)
		}
		delete(d.Views, name)
		d.ViewsOrder = slices.DeleteFunc(d.ViewsOrder, func(n string) bool { return n == name })
		return nil
	})
}

// UpdateColumns replaces training and evaluation columns of the view named name.
//
// Both are replaced together, or, on error, neither.
func UpdateColumns(s store.Store, name string, train columns.Spec, eval columns.Spec) error {
	if err := train.Validate(); err != nil {
		return fmt.Errorf("%w: train columns: %w", ErrColumnUpdate, err)
	}
	if err := eval.Validate(); err != nil {
		return fmt.Errorf("%w: eval columns: %w", ErrColumnUpdate, err)
	}

	return s.Update(func(d *store.Document) error {
		v, ok := d.Views[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrViewNotFound, name)
		}
		v.TrainColumns = train.Clone()
		v.EvalColumns = eval.Clone()
		d.Views[name] = v
		return nil
	})
}

// Result is an outcome of a view operation, to be shown to a user.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ResultOf describes err for a user. When err is nil, it is a success with message success.
func ResultOf(err error, success string) Result {
	switch {
	case err == nil:
		return Result{OK: true, Message: success}
	case errors.Is(err, ErrIllegalViewName):
		name := ""
		if ine := (*IllegalNameError)(nil); errors.As(err, &ine) {
			name = ine.Name
		}
		if strings.TrimSpace(name) == "" {
			return Result{Message: "View name is empty. Please enter a name for the new view."}
		}
		return Result{Message: fmt.Sprintf(
			"%q is an illegal view name. Please enter a different name for the new view.", name,
		)}
	case errors.Is(err, ErrViewExists):
		return Result{Message: "View already exists. Please enter a different name for the new view."}
	case errors.Is(err, ErrDefaultView):
		return Result{Message: "Overview cannot be deleted."}
	case errors.Is(err, ErrViewNotFound):
		return Result{Message: "View does not exist!"}
	case errors.Is(err, ErrColumnUpdate):
		return Result{Message: "Columns are not updated: " + err.Error()}
	default:
		return Result{Message: "Something went wrong! Please contact an administrator."}
	}
}

// Package store keeps the configuration document of shepherd: where models live and how views look.
//
// A Store is passed explicitly to whatever reads or writes the configuration.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrConfigNotFound     = errors.New("config file is not found")
	ErrCannotUpdateConfig = errors.New("cannot update config file")
	ErrUnknownKey         = errors.New("unknown config key")
	ErrInvalidValue       = errors.New("invalid config value")
)

// Keys of the configuration document.
const (
	KeyModelHome    = "model_home"
	KeyShowWelcome  = "show_welcome"
	KeyViewsOrder   = "views_order"
	KeyViews        = "views"
	KeyViewTemplate = "view_template"
)

// Store is a key-value view of the configuration document.
//
// Values passed in and returned out are copies; mutating them does not affect the store.
type Store interface {
	// Get returns the value for one of Key* constants.
	Get(key string) (any, error)

	// Set replaces the value for one of Key* constants. It is not persisted until Save.
	Set(key string, value any) error

	// GetAll returns a copy of the whole document.
	GetAll() Document

	// Update applies fn to a copy of the document, persists the copy and then commits it.
	//
	// When fn or persisting fails, the store is left as it was.
	Update(fn func(*Document) error) error

	// Save persists the current document.
	Save() error
}

// Persister writes a document somewhere.
type Persister interface {
	Persist(Document) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(Document) error

func (f PersisterFunc) Persist(d Document) error {
	return f(d)
}

// Discard is a Persister which persists nothing.
var Discard Persister = PersisterFunc(func(Document) error { return nil })

type documentStore struct {
	mu      sync.RWMutex
	doc     Document
	persist Persister
}

// New creates a Store holding a copy of doc, written out via p.
func New(doc Document, p Persister) Store {
	if p == nil {
		p = Discard
	}
	if doc.Views == nil {
		doc.Views = map[string]View{}
	}
	return &documentStore{doc: doc.Clone(), persist: p}
}

func (s *documentStore) Get(key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch key {
	case KeyModelHome:
		return s.doc.ModelHome, nil
	case KeyShowWelcome:
		return s.doc.ShowWelcome, nil
	case KeyViewsOrder:
		return append([]string{}, s.doc.ViewsOrder...), nil
	case KeyViews:
		return s.doc.Clone().Views, nil
	case KeyViewTemplate:
		return s.doc.ViewTemplate.Clone(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

func (s *documentStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	invalid := func() error {
		return fmt.Errorf("%w: %s: %T", ErrInvalidValue, key, value)
	}

	switch key {
	case KeyModelHome:
		v, ok := value.(string)
		if !ok || strings.TrimSpace(v) == "" {
			return invalid()
		}
		s.doc.ModelHome = v
	case KeyShowWelcome:
		v, ok := value.(bool)
		if !ok {
			return invalid()
		}
		s.doc.ShowWelcome = v
	case KeyViewsOrder:
		v, ok := value.([]string)
		if !ok {
			return invalid()
		}
		s.doc.ViewsOrder = append([]string{}, v...)
	case KeyViews:
		v, ok := value.(map[string]View)
		if !ok {
			return invalid()
		}
		views := make(map[string]View, len(v))
		for k, view := range v {
			views[k] = view.Clone()
		}
		s.doc.Views = views
	case KeyViewTemplate:
		v, ok := value.(View)
		if !ok {
			return invalid()
		}
		s.doc.ViewTemplate = v.Clone()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

func (s *documentStore) GetAll() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

func (s *documentStore) Update(fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.persist.Persist(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (s *documentStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist.Persist(s.doc)
}

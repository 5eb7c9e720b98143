// Package catalog caches discovered models.
//
// Discovery walks the whole model home, so the result is kept until the tree
// under the root changes, or until it is invalidated explicitly.
package catalog

import (
	"context"
	"sync"

	"github.com/opst/shepherd/pkg/discovery"
	"github.com/opst/shepherd/pkg/domain/model"
	"github.com/opst/shepherd/pkg/utils/filewatch"
)

// Discoverer finds models under root.
type Discoverer interface {
	Discover(root string) ([]model.Model, error)
}

// Watcher returns a context which is canceled when the tree under root is modified.
type Watcher func(ctx context.Context, root string) (context.Context, func(), error)

type Catalog struct {
	discoverer Discoverer
	watch      Watcher

	mu     sync.Mutex
	root   string
	models []model.Model
	fresh  context.Context
	stop   func()
}

type Option func(*Catalog) *Catalog

// WithWatcher replaces how changes under root are detected.
//
// By default, filewatch.UntilTreeModifyContext is used.
func WithWatcher(w Watcher) Option {
	return func(c *Catalog) *Catalog {
		c.watch = w
		return c
	}
}

var _ Discoverer = &discovery.Discoverer{}

// New returns a Catalog of models under root.
func New(root string, d Discoverer, options ...Option) *Catalog {
	c := &Catalog{
		discoverer: d,
		watch:      filewatch.UntilTreeModifyContext,
		root:       root,
	}
	for _, o := range options {
		c = o(c)
	}
	return c
}

// Root returns the directory where models are discovered.
func (c *Catalog) Root() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// SetRoot changes the directory where models are discovered.
// The cache is dropped when root is changed.
func (c *Catalog) SetRoot(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.root == root {
		return
	}
	c.root = root
	c.drop()
}

// Models returns models under root.
//
// Models are discovered again when the tree under root has been modified since the last discovery.
// Returned models are shared among callers. Do not modify them.
func (c *Catalog) Models(ctx context.Context) ([]model.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh != nil && c.fresh.Err() == nil {
		return c.models, nil
	}
	c.drop()

	// start watching before discovery, not to miss changes during it.
	fresh, stop, err := c.watch(context.Background(), c.root)
	if err != nil {
		// cannot tell when it gets stale. Serve without caching.
		fresh, stop = nil, nil
	}

	models, err := c.discoverer.Discover(c.root)
	if err != nil {
		if stop != nil {
			stop()
		}
		return nil, err
	}

	c.models, c.fresh, c.stop = models, fresh, stop
	return models, nil
}

// Invalidate drops cached models. Next Models discovers models again.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drop()
}

// Close stops watching the tree.
func (c *Catalog) Close() {
	c.Invalidate()
}

func (c *Catalog) drop() {
	if c.stop != nil {
		c.stop()
	}
	c.models, c.fresh, c.stop = nil, nil, nil
}

package filewatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ErrNotWatched is the cause of a context returned from UntilTreeModifyContext
// when its root does not exist.
var ErrNotWatched = errors.New("not watched")

// UntilModifyContext returns a context that is canceled
// when one of target files is modified (= written, created, removed, or renamed).
//
// # Args
//
// - ctx: context.Context
//
// - targetFilePath ...string: file paths to be watched.
// When any of the files is modified, the context is canceled.
// A directory watches its direct entries.
//
// # Returns
//
// - context.Context: context that is canceled when one of target files is modified.
//
// - func(): cancel function.
//
// - error: error caused when it fails to start watching files.
//
// If error is not nil, both of the context and the cancel function are nil.
func UntilModifyContext(ctx context.Context, targetFilePath ...string) (context.Context, func(), error) {
	return watch(ctx, targetFilePath)
}

// UntilTreeModifyContext is UntilModifyContext for root and every directory under it.
//
// When root does not exist, nothing can be watched: the returned context is
// already canceled with ErrNotWatched, so that a caller does not trust it.
func UntilTreeModifyContext(ctx context.Context, root string) (context.Context, func(), error) {
	dirs := []string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		cctx, cancel := context.WithCancelCause(ctx)
		cancel(fmt.Errorf("%w: %s", ErrNotWatched, root))
		return cctx, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return watch(ctx, dirs)
}

func watch(ctx context.Context, targets []string) (context.Context, func(), error) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return nil, nil, err
	}

	for _, f := range targets {
		if err = w.Add(f); err != nil {
			w.Close()
			cancel(err)
			return nil, nil, err
		}
	}

	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				cancel(fmt.Errorf("%s is updated (%s)", event.Name, event.Op.String()))
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				// events may be lost. Treat it as modified.
				cancel(err)
				return
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}

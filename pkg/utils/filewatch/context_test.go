package filewatch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opst/shepherd/pkg/utils/filewatch"
)

func untilDone(t *testing.T, ctx context.Context) {
	t.Helper()
	deadlineCh := make(<-chan time.Time)
	if dl, ok := t.Deadline(); ok {
		deadlineCh = time.After(time.Until(dl) - 1*time.Second)
	}
	select {
	case <-ctx.Done():
		return
	case <-deadlineCh:
	}
	t.Fatalf("expected context to be canceled, but not")
}

func touch(t *testing.T, path string) {
	t.Helper()
	if f, err := os.Create(path); err != nil {
		t.Fatal(err)
	} else {
		f.Close()
	}
}

func TestUntilModifyContext(t *testing.T) {
	type When struct {
		prepare func(t *testing.T, dir string)
		modify  func(t *testing.T, dir string)
	}

	theory := func(when When) func(*testing.T) {
		return func(t *testing.T) {
			dir := t.TempDir()
			if when.prepare != nil {
				when.prepare(t, dir)
			}

			ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), dir)
			if err != nil {
				t.Fatal(err)
			}
			defer cancel()

			if err := ctx.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			when.modify(t, dir)
			untilDone(t, ctx)
		}
	}

	withFile := func(t *testing.T, dir string) { touch(t, filepath.Join(dir, "file")) }

	t.Run("when a file is created in a watched directory, it cancels context", theory(When{
		modify: withFile,
	}))
	t.Run("when a file is written in a watched directory, it cancels context", theory(When{
		prepare: withFile,
		modify: func(t *testing.T, dir string) {
			if err := os.WriteFile(filepath.Join(dir, "file"), []byte("content"), 0644); err != nil {
				t.Fatal(err)
			}
		},
	}))
	t.Run("when a file in the watched directory is deleted, it cancels context", theory(When{
		prepare: withFile,
		modify: func(t *testing.T, dir string) {
			if err := os.Remove(filepath.Join(dir, "file")); err != nil {
				t.Fatal(err)
			}
		},
	}))
	t.Run("when a file in the watched directory is renamed, it cancels context", theory(When{
		prepare: withFile,
		modify: func(t *testing.T, dir string) {
			if err := os.Rename(filepath.Join(dir, "file"), filepath.Join(dir, "renamed")); err != nil {
				t.Fatal(err)
			}
		},
	}))
}

func TestUntilModifyContext_Cancel(t *testing.T) {
	ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	untilDone(t, ctx)
	if cause := context.Cause(ctx); !errors.Is(cause, context.Canceled) {
		t.Errorf("unexpected cause: %v", cause)
	}
}

func TestUntilModifyContext_MissingTarget(t *testing.T) {
	ctx, cancel, err := filewatch.UntilModifyContext(
		context.Background(), filepath.Join(t.TempDir(), "missing"),
	)
	if err == nil {
		t.Fatal("expected error, but got nil")
	}
	if ctx != nil || cancel != nil {
		t.Errorf("context and cancel should be nil")
	}
}

func TestUntilTreeModifyContext(t *testing.T) {
	t.Run("when a file is created in a nested directory, it cancels context", func(t *testing.T) {
		root := t.TempDir()
		nested := filepath.Join(root, "a", "b")
		if err := os.MkdirAll(nested, 0o755); err != nil {
			t.Fatal(err)
		}

		ctx, cancel, err := filewatch.UntilTreeModifyContext(context.Background(), root)
		if err != nil {
			t.Fatal(err)
		}
		defer cancel()

		if err := ctx.Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		touch(t, filepath.Join(nested, "train.sptrain"))
		untilDone(t, ctx)
	})

	t.Run("when root does not exist, the context is canceled already", func(t *testing.T) {
		ctx, cancel, err := filewatch.UntilTreeModifyContext(
			context.Background(), filepath.Join(t.TempDir(), "missing"),
		)
		if err != nil {
			t.Fatal(err)
		}
		defer cancel()

		if ctx.Err() == nil {
			t.Fatal("context is not canceled")
		}
		if cause := context.Cause(ctx); !errors.Is(cause, filewatch.ErrNotWatched) {
			t.Errorf("unexpected cause: %v", cause)
		}
	})
}

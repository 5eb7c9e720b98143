package discovery_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/opst/shepherd/pkg/discovery"
	"github.com/opst/shepherd/pkg/domain/model"
)

// layout writes files under a new temporary directory and returns it.
func layout(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func evalOf(name string, metric string) string {
	return `{"model": "` + name + `", "results": {"` + metric + `": 0.5}}`
}

func relPaths(t *testing.T, root string, evals []model.Evaluation) []string {
	t.Helper()
	ret := make([]string, 0, len(evals))
	for _, e := range evals {
		rel, err := filepath.Rel(root, e.Path)
		if err != nil {
			t.Fatal(err)
		}
		ret = append(ret, filepath.ToSlash(rel))
	}
	return ret
}

func TestDiscover(t *testing.T) {
	type When struct {
		Files   map[string]string
		Options []discovery.Option
	}
	type Model struct {
		Dir         string
		Name        string
		Evaluations []string
	}
	type Then struct {
		Models []Model
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			root := layout(t, when.Files)
			testee := discovery.New(when.Options...)

			actual, err := testee.Discover(root)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(actual) != len(then.Models) {
				t.Fatalf("unexpected number of models: got %d, want %d (%+v)", len(actual), len(then.Models), actual)
			}
			for i, want := range then.Models {
				got := actual[i]
				dir, _ := filepath.Rel(root, got.Dir)
				if filepath.ToSlash(dir) != want.Dir {
					t.Errorf("#%d: dir: got %s, want %s", i, dir, want.Dir)
				}
				if got.Fields["name"] != want.Name {
					t.Errorf("#%d: name: got %v, want %s", i, got.Fields["name"], want.Name)
				}
				if _, ok := got.Fields[model.KeyEvaluations]; ok {
					t.Errorf("#%d: reserved key is left in fields", i)
				}
				if evals := relPaths(t, root, got.Evaluations); !slices.Equal(evals, want.Evaluations) {
					t.Errorf("#%d: evaluations: got %v, want %v", i, evals, want.Evaluations)
				}
			}
		}
	}

	t.Run("a model without evaluations", theory(
		When{
			Files: map[string]string{
				"run-1/train.sptrain": `{"name": "run-1", "dataset": "mnist"}`,
			},
		},
		Then{
			Models: []Model{{Dir: "run-1", Name: "run-1", Evaluations: []string{}}},
		},
	))

	t.Run("evaluations in the model directory and in its descendants belong to the model", theory(
		When{
			Files: map[string]string{
				"run-1/train.sptrain":            `{"name": "run-1"}`,
				"run-1/a.speval":                 evalOf("run-1", "accuracy"),
				"run-1/evals/b.speval":           evalOf("run-1", "loss"),
				"run-1/evals/deep/more/c.speval": evalOf("run-1", "f1"),
				"run-1/notes.txt":                "not a descriptor",
				"run-2/train.sptrain":            `{"name": "run-2"}`,
				"run-2/z.speval":                 evalOf("run-2", "loss"),
				"loose.speval":                   evalOf("nobody", "loss"),
			},
		},
		Then{
			Models: []Model{
				{
					Dir: "run-1", Name: "run-1",
					Evaluations: []string{
						"run-1/a.speval",
						"run-1/evals/b.speval",
						"run-1/evals/deep/more/c.speval",
					},
				},
				{Dir: "run-2", Name: "run-2", Evaluations: []string{"run-2/z.speval"}},
			},
		},
	))

	nested := map[string]string{
		"outer/train.sptrain":       `{"name": "outer"}`,
		"outer/o.speval":            evalOf("outer", "loss"),
		"outer/inner/train.sptrain": `{"name": "inner"}`,
		"outer/inner/i.speval":      evalOf("inner", "loss"),
	}

	t.Run("by default, evaluations of a nested model also belong to the ancestor model", theory(
		When{Files: nested},
		Then{
			Models: []Model{
				{Dir: "outer", Name: "outer", Evaluations: []string{"outer/inner/i.speval", "outer/o.speval"}},
				{Dir: "outer/inner", Name: "inner", Evaluations: []string{"outer/inner/i.speval"}},
			},
		},
	))

	t.Run("with NearestModel, evaluations belong only to the closest model", theory(
		When{
			Files:   nested,
			Options: []discovery.Option{discovery.WithAttribution(discovery.NearestModel)},
		},
		Then{
			Models: []Model{
				{Dir: "outer", Name: "outer", Evaluations: []string{"outer/o.speval"}},
				{Dir: "outer/inner", Name: "inner", Evaluations: []string{"outer/inner/i.speval"}},
			},
		},
	))

	t.Run("the root itself can be a model directory", theory(
		When{
			Files: map[string]string{
				"train.sptrain": `{"name": "root"}`,
				"sub/x.speval":  evalOf("root", "loss"),
			},
		},
		Then{
			Models: []Model{{Dir: ".", Name: "root", Evaluations: []string{"sub/x.speval"}}},
		},
	))

	t.Run("a custom classifier and decoder are used", theory(
		When{
			Files: map[string]string{
				"run/train.yaml":    "name: yaml-run\ndataset: cifar\n",
				"run/eval-1.yaml":   "model: yaml-run\nresults:\n  accuracy: 0.8\n",
				"run/train.sptrain": `{"name": "ignored"}`,
			},
			Options: []discovery.Option{
				discovery.WithClassifier(discovery.ClassifierFunc(func(name string) discovery.Kind {
					switch {
					case name == "train.yaml":
						return discovery.Training
					case filepath.Ext(name) == ".yaml":
						return discovery.Evaluation
					default:
						return discovery.Other
					}
				})),
				discovery.WithDecoder(discovery.DecodeYAML),
			},
		},
		Then{
			Models: []Model{{Dir: "run", Name: "yaml-run", Evaluations: []string{"run/eval-1.yaml"}}},
		},
	))

	t.Run("a training descriptor with reserved key loses it", theory(
		When{
			Files: map[string]string{
				"run/train.sptrain": `{"name": "run", "evaluations": ["bogus"]}`,
			},
		},
		Then{
			Models: []Model{{Dir: "run", Name: "run", Evaluations: []string{}}},
		},
	))
}

func TestDiscover_RecordsAreNotShared(t *testing.T) {
	root := layout(t, map[string]string{
		"outer/train.sptrain":       `{"name": "outer"}`,
		"outer/inner/train.sptrain": `{"name": "inner"}`,
		"outer/inner/i.speval":      evalOf("inner", "loss"),
	})

	models, err := discovery.New().Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 2 || len(models[0].Evaluations) != 1 || len(models[1].Evaluations) != 1 {
		t.Fatalf("unexpected models: %+v", models)
	}

	models[0].Evaluations[0].Results()["loss"] = "modified"
	if models[1].Evaluations[0].Results()["loss"] == "modified" {
		t.Error("evaluation records are shared between models")
	}
}

func TestDiscover_Errors(t *testing.T) {
	type Then struct {
		Err error
	}
	theory := func(files map[string]string, then Then) func(*testing.T) {
		return func(t *testing.T) {
			root := layout(t, files)
			models, err := discovery.New().Discover(root)
			if !errors.Is(err, then.Err) {
				t.Fatalf("unexpected error: got %v, want %v", err, then.Err)
			}
			if models != nil {
				t.Errorf("partial result is returned: %+v", models)
			}
		}
	}

	t.Run("two training descriptors in a directory", theory(
		map[string]string{
			"ok/train.sptrain": `{"name": "ok"}`,
			"bad/a.sptrain":    `{"name": "a"}`,
			"bad/b.sptrain":    `{"name": "b"}`,
		},
		Then{Err: discovery.ErrMultipleTrainingDescriptors},
	))

	t.Run("a broken training descriptor", theory(
		map[string]string{"run/train.sptrain": `{"name": `},
		Then{Err: discovery.ErrMalformedDescriptor},
	))

	t.Run("a training descriptor which is not a mapping", theory(
		map[string]string{"run/train.sptrain": `["name"]`},
		Then{Err: discovery.ErrMalformedDescriptor},
	))

	t.Run("an evaluation descriptor without results", theory(
		map[string]string{
			"run/train.sptrain": `{"name": "run"}`,
			"run/e.speval":      `{"model": "run"}`,
		},
		Then{Err: discovery.ErrMalformedDescriptor},
	))

	t.Run("an evaluation descriptor without model", theory(
		map[string]string{
			"run/train.sptrain": `{"name": "run"}`,
			"run/e.speval":      `{"results": {"loss": 1}}`,
		},
		Then{Err: discovery.ErrMalformedDescriptor},
	))

	t.Run("a broken evaluation descriptor which belongs to no model is ignored", func(t *testing.T) {
		root := layout(t, map[string]string{
			"run/train.sptrain": `{"name": "run"}`,
			"orphan/e.speval":   `{broken`,
		})
		models, err := discovery.New().Discover(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(models) != 1 || len(models[0].Evaluations) != 0 {
			t.Errorf("unexpected models: %+v", models)
		}
	})

	t.Run("a root which is a file", func(t *testing.T) {
		root := layout(t, map[string]string{"file": "content"})
		_, err := discovery.New().Discover(filepath.Join(root, "file"))
		if !errors.Is(err, discovery.ErrFileSystem) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestDiscover_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")
	models, err := discovery.New().Discover(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if models == nil || len(models) != 0 {
		t.Errorf("want empty result, got %+v", models)
	}
}

func TestDiscover_Deterministic(t *testing.T) {
	root := layout(t, map[string]string{
		"b/train.sptrain":   `{"name": "b"}`,
		"a/train.sptrain":   `{"name": "a"}`,
		"c/d/train.sptrain": `{"name": "d"}`,
		"a/x/1.speval":      evalOf("a", "loss"),
		"a/0.speval":        evalOf("a", "loss"),
	})

	first, err := discovery.New().Discover(root)
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		again, err := discovery.New().Discover(root)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatalf("unstable result length")
		}
		for i := range first {
			if again[i].Dir != first[i].Dir {
				t.Errorf("#%d: unstable order: %s vs %s", i, again[i].Dir, first[i].Dir)
			}
			if !slices.Equal(relPaths(t, root, again[i].Evaluations), relPaths(t, root, first[i].Evaluations)) {
				t.Errorf("#%d: unstable evaluations", i)
			}
		}
	}
}

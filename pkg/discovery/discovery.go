// Package discovery finds model directories under a model home
// and reads their training and evaluation descriptors.
//
// A model directory is a directory which directly contains a training descriptor.
// Evaluation descriptors in a model directory or any of its descendants are
// evaluations of that model.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/opst/shepherd/pkg/domain/model"
	xe "github.com/opst/shepherd/pkg/errors"
)

var (
	// ErrMultipleTrainingDescriptors is returned when a directory has two or more training descriptors.
	ErrMultipleTrainingDescriptors = errors.New("multiple training descriptors in a model directory")

	// ErrMalformedDescriptor is returned when a descriptor cannot be read as a record.
	ErrMalformedDescriptor = errors.New("malformed descriptor")

	// ErrFileSystem is returned when the model home cannot be walked or a descriptor cannot be read.
	ErrFileSystem = errors.New("file system error")
)

// Attribution decides which model directories an evaluation descriptor belongs to,
// when model directories are nested.
type Attribution int

const (
	// AllAncestors attributes an evaluation to every model directory above it.
	AllAncestors Attribution = iota

	// NearestModel attributes an evaluation only to the closest model directory above it.
	NearestModel
)

func (a Attribution) String() string {
	switch a {
	case NearestModel:
		return "nearest"
	default:
		return "all"
	}
}

// ParseAttribution reads "all" or "nearest".
func ParseAttribution(s string) (Attribution, error) {
	switch s {
	case "", "all":
		return AllAncestors, nil
	case "nearest":
		return NearestModel, nil
	default:
		return AllAncestors, fmt.Errorf("unknown attribution: %s (want all|nearest)", s)
	}
}

type Discoverer struct {
	classifier  Classifier
	decode      Decoder
	attribution Attribution
}

type Option func(*Discoverer) *Discoverer

func WithClassifier(c Classifier) Option {
	return func(d *Discoverer) *Discoverer {
		d.classifier = c
		return d
	}
}

func WithDecoder(dec Decoder) Option {
	return func(d *Discoverer) *Discoverer {
		d.decode = dec
		return d
	}
}

func WithAttribution(a Attribution) Option {
	return func(d *Discoverer) *Discoverer {
		d.attribution = a
		return d
	}
}

// New creates a Discoverer.
//
// By default, it classifies files with DefaultClassifier, decodes them as JSON
// and attributes evaluations to all ancestor model directories.
func New(options ...Option) *Discoverer {
	d := &Discoverer{
		classifier:  DefaultClassifier,
		decode:      DecodeJSON,
		attribution: AllAncestors,
	}
	for _, opt := range options {
		d = opt(d)
	}
	return d
}

type modelDir struct {
	path      string
	trainings []string
}

type scan struct {
	// model directories, parents before children.
	models []*modelDir
	byPath map[string]*modelDir

	// evaluation descriptors in walk order.
	evaluations []string
}

// Discover walks root and returns models in the order their directories are visited.
//
// When root does not exist, it returns an empty slice and no error.
//
// # Errors
//
// - ErrMultipleTrainingDescriptors: a directory has two or more training descriptors.
//
// - ErrMalformedDescriptor: a descriptor is not a mapping, or an evaluation descriptor
// lacks "model" (string) or "results" (mapping).
//
// - ErrFileSystem: root or a descriptor cannot be read.
//
// Any error discards the whole result.
func (d *Discoverer) Discover(root string) ([]model.Model, error) {
	root = filepath.Clean(root)
	if stat, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Model{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrFileSystem, xe.WrapWithNote(root, err))
	} else if !stat.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrFileSystem, root)
	}

	sc, err := d.scan(root)
	if err != nil {
		return nil, err
	}

	for _, md := range sc.models {
		if 1 < len(md.trainings) {
			return nil, fmt.Errorf(
				"%w: %s has %s", ErrMultipleTrainingDescriptors,
				md.path, strings.Join(md.trainings, ", "),
			)
		}
	}

	contents := map[string][]byte{}
	read := func(path string) ([]byte, error) {
		if c, ok := contents[path]; ok {
			return c, nil
		}
		c, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileSystem, xe.WrapWithNote(path, err))
		}
		contents[path] = c
		return c, nil
	}

	models := make([]model.Model, 0, len(sc.models))
	for _, md := range sc.models {
		trainPath := md.trainings[0]
		content, err := read(trainPath)
		if err != nil {
			return nil, err
		}
		fields, err := d.decode(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDescriptor, trainPath, err)
		}
		delete(fields, model.KeyEvaluations)

		m := model.Model{
			Dir:          md.path,
			TrainingPath: trainPath,
			Fields:       fields,
			Evaluations:  []model.Evaluation{},
		}

		for _, evalPath := range sc.evaluations {
			if !d.belongs(sc, md.path, evalPath) {
				continue
			}
			content, err := read(evalPath)
			if err != nil {
				return nil, err
			}
			// decode for each model, so that no two models share evaluation records.
			ev, err := d.evaluation(evalPath, content)
			if err != nil {
				return nil, err
			}
			m.Evaluations = append(m.Evaluations, ev)
		}
		models = append(models, m)
	}

	return models, nil
}

func (d *Discoverer) scan(root string) (*scan, error) {
	sc := &scan{byPath: map[string]*modelDir{}}
	var dirs []string

	err := filepath.WalkDir(root, func(path string, ent fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ent.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		switch d.classifier.Classify(ent.Name()) {
		case Training:
			dir := filepath.Dir(path)
			md, ok := sc.byPath[dir]
			if !ok {
				md = &modelDir{path: dir}
				sc.byPath[dir] = md
			}
			md.trainings = append(md.trainings, path)
		case Evaluation:
			sc.evaluations = append(sc.evaluations, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystem, xe.WrapWithNote(root, err))
	}

	// WalkDir visits a directory before anything in it,
	// so this orders model directories parents first.
	for _, dir := range dirs {
		if md, ok := sc.byPath[dir]; ok {
			sc.models = append(sc.models, md)
		}
	}
	return sc, nil
}

func (d *Discoverer) belongs(sc *scan, modelPath string, evalPath string) bool {
	if !within(modelPath, evalPath) {
		return false
	}
	if d.attribution == AllAncestors {
		return true
	}
	return nearest(sc, evalPath) == modelPath
}

// nearest returns the closest model directory containing path.
func nearest(sc *scan, path string) string {
	for dir := filepath.Dir(path); ; {
		if _, ok := sc.byPath[dir]; ok {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func within(dir string, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (d *Discoverer) evaluation(path string, content []byte) (model.Evaluation, error) {
	fields, err := d.decode(content)
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("%w: %s: %w", ErrMalformedDescriptor, path, err)
	}
	if _, ok := fields[model.KeyModel].(string); !ok {
		return model.Evaluation{}, fmt.Errorf(
			`%w: %s: "%s" should be a string`, ErrMalformedDescriptor, path, model.KeyModel,
		)
	}
	if _, ok := fields[model.KeyResults].(map[string]any); !ok {
		return model.Evaluation{}, fmt.Errorf(
			`%w: %s: "%s" should be a mapping`, ErrMalformedDescriptor, path, model.KeyResults,
		)
	}
	return model.Evaluation{Path: path, Fields: fields}, nil
}

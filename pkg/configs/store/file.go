package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hectane/go-acl"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file used when nothing is specified.
const DefaultPath = ".spconfig"

// Format of a configuration file.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf tells the format from the file extension.
// ".yaml" and ".yml" are YAML, and everything else (including ".spconfig") is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Marshal encodes a document in the format.
func (f Format) Marshal(d Document) ([]byte, error) {
	switch f {
	case YAML:
		return yaml.Marshal(d)
	default:
		return json.MarshalIndent(d, "", "  ")
	}
}

// Unmarshal decodes a document in the format.
func (f Format) Unmarshal(buf []byte) (Document, error) {
	var d Document
	var err error
	switch f {
	case YAML:
		err = yaml.Unmarshal(buf, &d)
	default:
		err = json.Unmarshal(buf, &d)
	}
	if err != nil {
		return Document{}, err
	}
	if d.Views == nil {
		d.Views = map[string]View{}
	}
	return d, nil
}

// File persists documents into a file at Path.
type File struct {
	Path string
}

// Persist writes d into the file.
//
// The content is written into a temporary file next to Path, and then renamed to Path,
// so that the file is never left half-written. The file is readable only by its owner.
func (f File) Persist(d Document) error {
	buf, err := FormatOf(f.Path).Marshal(d)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, os.FileMode(0o700)); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotUpdateConfig, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf(
				"%w, because no permission to write file at %s", ErrCannotUpdateConfig, dir,
			)
		}
		return fmt.Errorf("%w: %w", ErrCannotUpdateConfig, err)
	}
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrCannotUpdateConfig, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotUpdateConfig, err)
	}
	if err := acl.Chmod(tmp.Name(), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotUpdateConfig, err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotUpdateConfig, err)
	}
	committed = true
	return nil
}

// Load reads a document from path.
//
// model_home must not be empty.
func Load(path string) (Document, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, fmt.Errorf("%w at %s", ErrConfigNotFound, path)
		}
		return Document{}, err
	}
	d, err := FormatOf(path).Unmarshal(buf)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(d.ModelHome) == "" {
		return Document{}, fmt.Errorf("%s: %w: %s is empty", path, ErrInvalidValue, KeyModelHome)
	}
	return d, nil
}

// Open loads the configuration file at path and returns a Store saving into it.
func Open(path string) (Store, error) {
	d, err := Load(path)
	if err != nil {
		return nil, err
	}
	return New(d, File{Path: path}), nil
}

// OpenOrInit is Open, but when the file does not exist, it writes Default() there first.
func OpenOrInit(path string) (Store, error) {
	s, err := Open(path)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}
	s = New(Default(), File{Path: path})
	if err := s.Save(); err != nil {
		return nil, err
	}
	return s, nil
}

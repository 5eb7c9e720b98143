package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opst/shepherd/pkg/configs/store"
	"github.com/opst/shepherd/pkg/discovery"
	"github.com/youta-t/flarc"
)

type CommonFlags struct {
	Config string `flag:"config" alias:"c" metavar:"PATH" help:"path to configuration file (.json, .yaml or .yml; others are read as json)"`
}

// Flags detects default values of common flags.
//
// The configuration file is the nearest store.DefaultPath found in from or its ancestors.
// When none is found, it is store.DefaultPath in from.
func Flags(from string) (CommonFlags, error) {
	if abs, err := filepath.Abs(from); err == nil {
		from = abs
	}

	for searchpath := from; ; {
		candidate := filepath.Join(searchpath, store.DefaultPath)
		if s, err := os.Stat(candidate); err == nil && s.Mode().IsRegular() {
			return CommonFlags{Config: candidate}, nil
		}

		next := filepath.Dir(searchpath)
		if next == searchpath {
			break
		}
		searchpath = next
	}

	return CommonFlags{Config: filepath.Join(from, store.DefaultPath)}, nil
}

// Discoverer builds a discovery.Discoverer.
//
// attribution is "all" or "nearest". format is "json" or "yaml".
func Discoverer(attribution string, format string) (*discovery.Discoverer, error) {
	attr, err := discovery.ParseAttribution(attribution)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", flarc.ErrUsage, err)
	}
	dec, err := discovery.DecoderFor(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", flarc.ErrUsage, err)
	}
	return discovery.New(
		discovery.WithAttribution(attr),
		discovery.WithDecoder(dec),
	), nil
}

// ModelHome resolves model_home in the configuration.
//
// A relative path is relative to the directory of the configuration file.
func ModelHome(configPath string, modelHome string) string {
	if modelHome == "" || filepath.IsAbs(modelHome) {
		return modelHome
	}
	return filepath.Join(filepath.Dir(configPath), modelHome)
}

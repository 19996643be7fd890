// Package config loads analyzer run options from YAML: a plain struct
// decoded with gopkg.in/yaml.v3, with programmatic defaults when no
// file is given.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blendsdk/blend65/internal/analysis"
)

// File is the on-disk shape of an analyzer run configuration: the three
// recognized Options fields, spelled the way a project's config file
// would name them.
type File struct {
	RunAdvancedAnalysis bool `yaml:"run_advanced_analysis"`
	StopOnFirstError    bool `yaml:"stop_on_first_error"`
	MaxErrors           int  `yaml:"max_errors"`
}

// Defaults returns the programmatic defaults: advanced analysis off,
// no stop-on-first-error, unlimited errors.
func Defaults() analysis.Options {
	return analysis.Options{}
}

// Load reads a YAML configuration file and converts it to analysis.Options.
// A path of "" returns Defaults() without touching the filesystem.
func Load(path string) (analysis.Options, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.Options{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return analysis.Options{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return analysis.Options{
		RunAdvancedAnalysis: f.RunAdvancedAnalysis,
		StopOnFirstError:    f.StopOnFirstError,
		MaxErrors:           f.MaxErrors,
	}, nil
}

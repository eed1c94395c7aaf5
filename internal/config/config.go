// Package config loads bkspell settings from bkspell.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up when no explicit path is given.
const FileName = "bkspell.toml"

// File represents the structure of bkspell.toml
type File struct {
	Defaults Defaults `toml:"defaults"`
	Bench    Bench    `toml:"bench"`

	// Path is where the file was read from; empty for fallback defaults.
	Path string `toml:"-"`
}

// Defaults holds the values CLI flags fall back to.
type Defaults struct {
	Dictionary string `toml:"dictionary"`
	Accuracy   int    `toml:"accuracy"`
	Limit      int    `toml:"limit"`
	Fold       bool   `toml:"fold"`
	StripPunct bool   `toml:"strip_punct"`
	MaxVisits  int    `toml:"max_visits"`
	Workers    int    `toml:"workers"`
	MetricsDir string `toml:"metrics_dir"`
	Quiet      bool   `toml:"quiet"`
	Verbose    bool   `toml:"verbose"`
}

// Bench configures the benchmark runner.
type Bench struct {
	Accuracies []int    `toml:"accuracies"`
	Queries    []string `toml:"queries"`
	Iterations int      `toml:"iterations"`
}

// Hardcoded fallback defaults (used if bkspell.toml not found)
var fallbackDefaults = Defaults{
	Dictionary: "words.txt",
	Accuracy:   1,
	Limit:      0,
	Fold:       false,
	StripPunct: true,
	MaxVisits:  0,
	Workers:    0,
	MetricsDir: "",
	Quiet:      false,
	Verbose:    false,
}

var fallbackBench = Bench{
	Accuracies: []int{0, 1, 2, 3},
	Iterations: 100,
}

// Fallback returns the built-in configuration.
func Fallback() *File {
	b := fallbackBench
	b.Accuracies = append([]int(nil), fallbackBench.Accuracies...)
	return &File{Defaults: fallbackDefaults, Bench: b}
}

// Load reads the config file at path. With an empty path it looks for
// bkspell.toml in the working directory, its parents and next to the
// executable, and falls back to built-in defaults when none is found.
// An explicit path that cannot be read is an error.
func Load(path string) (*File, error) {
	if path != "" {
		return decode(path)
	}

	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return decode(candidate)
		}
	}

	return Fallback(), nil
}

func searchPaths() []string {
	paths := []string{
		FileName,
		filepath.Join("..", FileName),
		filepath.Join("..", "..", FileName),
	}

	// Also try from executable location
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, FileName),
			filepath.Join(dir, "..", FileName),
		)
	}
	return paths
}

// decode reads a file on top of the fallback values, so keys missing from
// the file keep their defaults.
func decode(path string) (*File, error) {
	cfg := Fallback()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (f *File) Validate() error {
	d := f.Defaults
	switch {
	case d.Accuracy < 0:
		return errors.New("accuracy must not be negative")
	case d.Limit < 0:
		return errors.New("limit must not be negative")
	case d.MaxVisits < 0:
		return errors.New("max_visits must not be negative")
	case d.Workers < 0:
		return errors.New("workers must not be negative")
	}
	for _, a := range f.Bench.Accuracies {
		if a < 0 {
			return errors.New("bench accuracies must not be negative")
		}
	}
	return nil
}

// MaxWorkers is the cap for parallel query workers
const MaxWorkers = 8

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Dataset names one file to reduce.
type Dataset struct {
	// Name labels the dataset in status output.
	Name string `yaml:"name"`

	// Path is the JSON file. Relative paths resolve against the manifest's
	// directory.
	Path string `yaml:"path"`

	// Field overrides the extractor's projected field for this dataset.
	Field string `yaml:"field,omitempty"`
}

// Manifest lists the datasets a batch run reduces, in order.
type Manifest struct {
	Datasets []Dataset `yaml:"datasets"`

	// dir is the directory relative dataset paths resolve against.
	dir string
}

// ReadManifest loads and validates a YAML manifest. Unknown keys are
// rejected so a misspelled "field" does not silently fall back to "id".
func ReadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing manifest %s: file is empty", path)
		}
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks that the manifest lists at least one dataset and that
// every dataset has a unique name and a path.
func (m *Manifest) Validate() error {
	if len(m.Datasets) == 0 {
		return fmt.Errorf("no datasets listed")
	}
	seen := make(map[string]bool, len(m.Datasets))
	for i, d := range m.Datasets {
		if d.Name == "" {
			return fmt.Errorf("dataset %d: name is required", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("dataset %q: duplicate name", d.Name)
		}
		seen[d.Name] = true
		if d.Path == "" {
			return fmt.Errorf("dataset %q: path is required", d.Name)
		}
	}
	return nil
}

// Resolve returns the file path for d.
func (m *Manifest) Resolve(d Dataset) string {
	if filepath.IsAbs(d.Path) || m.dir == "" {
		return d.Path
	}
	return filepath.Join(m.dir, d.Path)
}

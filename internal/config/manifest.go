package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the packaged metadata shipped next to the shell's resources.
// It is usually a package.json; JSON is a subset of YAML so both forms load.
type Manifest struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Main    string `yaml:"main"`
	Debug   bool   `yaml:"debug"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// LoadManifestOrEmpty treats a missing manifest as an empty one.
func LoadManifestOrEmpty(path string) (*Manifest, error) {
	m, err := LoadManifest(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{}, nil
	}
	return m, err
}

// DebugEnabled reports whether the inspector should open at startup.
func (m *Manifest) DebugEnabled() bool {
	return m != nil && m.Debug
}

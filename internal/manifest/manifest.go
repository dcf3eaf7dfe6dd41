// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Bundled-wheel manifest: the file the runtime installer consults

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/voluma/wheelhouse/internal/wheels"
)

// DefaultFilename is the manifest filename inside the packaging tree
const DefaultFilename = "wheelhouse.yaml"

// FormatVersion is the current manifest schema version
const FormatVersion = 1

// Entry describes one bundled wheel. Paths are relative to the manifest's
// directory so the bundle stays relocatable inside the extension zip.
type Entry struct {
	Path         string `yaml:"path"`
	Distribution string `yaml:"distribution"`
	Version      string `yaml:"version"`
	PythonTag    string `yaml:"python_tag"`
	ABITag       string `yaml:"abi_tag"`
	PlatformTag  string `yaml:"platform_tag"`
	Size         int64  `yaml:"size"`
}

// Manifest lists every wheel bundled with the extension
type Manifest struct {
	Version int     `yaml:"version"`
	Wheels  []Entry `yaml:"wheels"`
}

// Scan builds a manifest from the wheel files in a directory.
// Files that are not parseable wheel names are reported as errors rather
// than silently dropped - a malformed name in the bundle means the runtime
// installer could never match it.
func Scan(dir string) (*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read wheel directory %s: %w", dir, err)
	}

	m := &Manifest{Version: FormatVersion}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".whl") {
			continue
		}

		spec, err := wheels.ParseFilename(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("unrecognized wheel in %s: %w", dir, err)
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}

		m.Wheels = append(m.Wheels, Entry{
			Path:         filepath.Join(filepath.Base(dir), entry.Name()),
			Distribution: spec.Distribution,
			Version:      spec.Version,
			PythonTag:    spec.PythonTag,
			ABITag:       spec.ABITag,
			PlatformTag:  spec.PlatformTag,
			Size:         info.Size(),
		})
	}

	sort.Slice(m.Wheels, func(i, j int) bool {
		return m.Wheels[i].Path < m.Wheels[j].Path
	})

	return m, nil
}

// Save writes the manifest as YAML
func Save(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}

	return nil
}

// Load reads a manifest from a YAML file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if m.Version > FormatVersion {
		return nil, fmt.Errorf("manifest %s has unsupported version %d", path, m.Version)
	}

	return &m, nil
}

// Problem describes one manifest/disk mismatch found by Check
type Problem struct {
	Path   string
	Reason string
}

// Check verifies every manifest entry against the files on disk.
// Entry paths are resolved relative to baseDir.
func Check(m *Manifest, baseDir string) []Problem {
	var problems []Problem

	for _, entry := range m.Wheels {
		path := filepath.Join(baseDir, entry.Path)
		info, err := os.Stat(path)
		if err != nil {
			problems = append(problems, Problem{
				Path:   entry.Path,
				Reason: "missing from disk",
			})
			continue
		}
		if info.Size() != entry.Size {
			problems = append(problems, Problem{
				Path:   entry.Path,
				Reason: fmt.Sprintf("size changed: manifest %d, disk %d", entry.Size, info.Size()),
			})
		}
	}

	return problems
}

// ForPlatform returns the manifest entries matching a platform tag.
// This is the lookup the runtime installer performs on activation.
func (m *Manifest) ForPlatform(platformTag string) []Entry {
	var matched []Entry
	for _, entry := range m.Wheels {
		if entry.PlatformTag == platformTag {
			matched = append(matched, entry)
		}
	}
	return matched
}

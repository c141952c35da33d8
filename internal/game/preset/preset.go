// Package preset loads named board configurations from YAML content files.
package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset is one named board configuration a game can be created from.
type Preset struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	BoxCount    int    `yaml:"box_count" json:"box_count"`
	TaskCount   int    `yaml:"task_count" json:"task_count"`
	Target      int    `yaml:"target" json:"target"`
}

// Validate checks the preset invariants.
//
// Postcondition: Returns nil iff the preset can seed a playable game.
func (p *Preset) Validate() error {
	var errs []string
	if p.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if p.BoxCount < 2 {
		errs = append(errs, fmt.Sprintf("box_count must be >= 2, got %d", p.BoxCount))
	}
	if p.TaskCount < 0 {
		errs = append(errs, fmt.Sprintf("task_count must be >= 0, got %d", p.TaskCount))
	}
	if p.Target < 1 {
		errs = append(errs, fmt.Sprintf("target must be >= 1, got %d", p.Target))
	}
	if len(errs) > 0 {
		return fmt.Errorf("preset %q: %s", p.ID, strings.Join(errs, "; "))
	}
	return nil
}

// yamlBoardFile is the top-level YAML structure for board files.
type yamlBoardFile struct {
	Board Preset `yaml:"board"`
}

// LoadFromBytes parses and validates a preset from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the board schema.
// Postcondition: Returns a validated Preset or a non-nil error.
func LoadFromBytes(data []byte) (*Preset, error) {
	var file yamlBoardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing board YAML: %w", err)
	}
	p := file.Board
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validating board: %w", err)
	}
	return &p, nil
}

// LoadFromFile reads and validates a single board YAML file.
//
// Precondition: path must point to a valid YAML board file.
func LoadFromFile(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading board file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadDir loads all YAML files in a directory as board presets, keyed
// and sorted by ID.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated presets or the first error; IDs
// must be unique across the directory.
func LoadDir(dir string) ([]*Preset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading boards directory %s: %w", dir, err)
	}

	byID := make(map[string]bool)
	var presets []*Preset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		p, err := LoadFromFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if byID[p.ID] {
			return nil, fmt.Errorf("duplicate board preset id %q", p.ID)
		}
		byID[p.ID] = true
		presets = append(presets, p)
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, nil
}

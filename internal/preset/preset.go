// Package preset persists named filter conditions so common extractions
// can be re-run without retyping them.
package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chatsieve/chatsieve/internal/filter"
)

// Preset is one saved condition.
type Preset struct {
	Name        string     `yaml:"name"`
	ChatID      string     `yaml:"chat_id,omitempty"`
	Keywords    []string   `yaml:"keywords,omitempty"`
	SenderIDs   []string   `yaml:"sender_ids,omitempty"`
	After       *time.Time `yaml:"after,omitempty"`
	Before      *time.Time `yaml:"before,omitempty"`
	ContextSize int        `yaml:"context_size,omitempty"`
}

// Condition converts the preset back into a runnable condition.
func (p Preset) Condition() filter.Condition {
	return filter.Condition{
		ChatID:      p.ChatID,
		Keywords:    p.Keywords,
		SenderIDs:   p.SenderIDs,
		After:       p.After,
		Before:      p.Before,
		ContextSize: p.ContextSize,
	}
}

// FromCondition builds a preset from a condition.
func FromCondition(name string, cond filter.Condition) Preset {
	return Preset{
		Name:        name,
		ChatID:      cond.ChatID,
		Keywords:    cond.Keywords,
		SenderIDs:   cond.SenderIDs,
		After:       cond.After,
		Before:      cond.Before,
		ContextSize: cond.ContextSize,
	}
}

// Store reads and writes presets.yaml inside a directory.
type Store struct {
	path string
}

// NewStore points at dir/presets.yaml.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, "presets.yaml")}
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// List returns all presets sorted by name. A missing file is empty.
func (s *Store) List() ([]Preset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	sort.Slice(f.Presets, func(i, j int) bool { return f.Presets[i].Name < f.Presets[j].Name })
	return f.Presets, nil
}

// Get looks a preset up by name.
func (s *Store) Get(name string) (Preset, error) {
	presets, err := s.List()
	if err != nil {
		return Preset{}, err
	}
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("preset %q not found", name)
}

// Put adds or replaces a preset by name.
func (s *Store) Put(p Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset needs a name")
	}
	presets, err := s.List()
	if err != nil {
		return err
	}
	replaced := false
	for i := range presets {
		if presets[i].Name == p.Name {
			presets[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		presets = append(presets, p)
	}
	return s.write(presets)
}

// Delete removes a preset by name.
func (s *Store) Delete(name string) error {
	presets, err := s.List()
	if err != nil {
		return err
	}
	kept := presets[:0]
	for _, p := range presets {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(presets) {
		return fmt.Errorf("preset %q not found", name)
	}
	return s.write(kept)
}

func (s *Store) write(presets []Preset) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(presetFile{Presets: presets})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

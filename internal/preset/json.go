// ABOUTME: JSON file preset backend
// ABOUTME: Keeps presets in memory and rewrites the whole document on save
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/harperreed/dualdeck/internal/settings"
)

type jsonEntry struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
	SavedAt int64  `json:"saved_at,omitempty"`
}

// JSONStore maps preset name to {path, start_ms, end_ms} in one document
type JSONStore struct {
	mu      sync.Mutex
	path    string
	presets map[string]Preset
}

// OpenJSON loads the document at path. A missing file is an empty store.
func OpenJSON(path string) (*JSONStore, error) {
	s := &JSONStore{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rereads the document, picking up external edits
func (s *JSONStore) Reload() error {
	presets := make(map[string]Preset)

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read presets: %w", err)
	case len(data) > 0:
		var doc map[string]jsonEntry
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse presets %s: %w", s.path, err)
		}
		for name, e := range doc {
			p := Preset{
				ID:      e.ID,
				Name:    name,
				Path:    e.Path,
				StartMs: e.StartMs,
				EndMs:   e.EndMs,
			}
			if e.SavedAt > 0 {
				p.SavedAt = time.UnixMilli(e.SavedAt)
			}
			presets[name] = p
		}
	}

	s.mu.Lock()
	s.presets = presets
	s.mu.Unlock()
	return nil
}

// List returns all presets sorted by name
func (s *JSONStore) List() ([]Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Preset, 0, len(s.presets))
	for _, p := range s.presets {
		out = append(out, p)
	}
	sortByName(out)
	return out, nil
}

// Get returns the preset with the given name
func (s *JSONStore) Get(name string) (Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, nil
}

// Save adds or replaces a preset and rewrites the document
func (s *JSONStore) Save(p Preset) error {
	p, err := prepare(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.presets[p.Name]
	s.presets[p.Name] = p
	if err := s.writeLocked(); err != nil {
		if existed {
			s.presets[p.Name] = prev
		} else {
			delete(s.presets, p.Name)
		}
		return err
	}
	return nil
}

// Close is a no-op; every save is already on disk
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) writeLocked() error {
	doc := make(map[string]jsonEntry, len(s.presets))
	for name, p := range s.presets {
		doc[name] = jsonEntry{
			ID:      p.ID,
			Path:    p.Path,
			StartMs: p.StartMs,
			EndMs:   p.EndMs,
			SavedAt: p.SavedAt.UnixMilli(),
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	return settings.WriteFileAtomic(s.path, data)
}

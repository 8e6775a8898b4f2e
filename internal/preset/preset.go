// ABOUTME: Preset model and store contract
// ABOUTME: Named clip ranges persisted by a JSON or SQLite backend picked from the file extension
package preset

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by Get for an unknown name
	ErrNotFound = errors.New("preset not found")

	// ErrEmptyName is returned by Save for a blank name
	ErrEmptyName = errors.New("preset name is empty")
)

// Preset is a named start/end slice of one audio file
type Preset struct {
	ID      string
	Name    string
	Path    string
	StartMs int64
	EndMs   int64
	SavedAt time.Time
}

// Store persists presets keyed by name. Saving an existing name replaces it.
type Store interface {
	List() ([]Preset, error)
	Get(name string) (Preset, error)
	Save(p Preset) error
	Close() error
}

// Reloader is implemented by stores that cache the backing file
type Reloader interface {
	Reload() error
}

// Open picks a backend from the extension: .db and .sqlite use SQLite, anything else JSON
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		return OpenJSON(path)
	}
}

// prepare normalizes a preset before it is written
func prepare(p Preset) (Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, ErrEmptyName
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.SavedAt.IsZero() {
		p.SavedAt = time.Now()
	}
	return p, nil
}

func sortByName(presets []Preset) {
	sort.Slice(presets, func(i, j int) bool {
		return strings.ToLower(presets[i].Name) < strings.ToLower(presets[j].Name)
	})
}

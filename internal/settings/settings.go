// ABOUTME: Persisted output settings
// ABOUTME: Loads and atomically saves device ids, volumes and mute flags as JSON
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultVolume is applied to both channels when nothing is saved
const DefaultVolume = 75

// Settings is the process-wide output configuration
type Settings struct {
	PrimaryDevice   string `json:"primary_device"`
	SecondaryDevice string `json:"secondary_device"`
	PrimaryVolume   int    `json:"primary_volume"`
	SecondaryVolume int    `json:"secondary_volume"`
	PrimaryMuted    bool   `json:"primary_muted"`
	SecondaryMuted  bool   `json:"secondary_muted"`
}

// Defaults returns settings with no devices and default volumes
func Defaults() Settings {
	return Settings{
		PrimaryVolume:   DefaultVolume,
		SecondaryVolume: DefaultVolume,
	}
}

// Store reads and writes Settings at a fixed path
type Store struct {
	path string
}

// NewStore creates a store backed by path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Load reads saved settings. A missing file yields Defaults.
func (s *Store) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("failed to read settings: %w", err)
	}

	st := Defaults()
	if err := json.Unmarshal(data, &st); err != nil {
		return Defaults(), fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}
	st.PrimaryVolume = clampVolume(st.PrimaryVolume)
	st.SecondaryVolume = clampVolume(st.SecondaryVolume)
	return st, nil
}

// Save writes settings through a temp file and rename
func (s *Store) Save(st Settings) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return WriteFileAtomic(s.path, data)
}

// WriteFileAtomic replaces path with data so readers never see a partial file
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

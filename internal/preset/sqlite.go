// ABOUTME: SQLite preset backend
// ABOUTME: Stores presets in a single table using the pure-Go modernc driver
package preset

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS presets (
	name TEXT PRIMARY KEY,
	id TEXT NOT NULL,
	path TEXT NOT NULL,
	start_ms INTEGER NOT NULL,
	end_ms INTEGER NOT NULL,
	saved_at INTEGER NOT NULL
);
`

// SQLiteStore keeps presets in a SQLite database file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps writes serialized and lets an in-memory DSN survive
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// List returns all presets sorted by name
func (s *SQLiteStore) List() ([]Preset, error) {
	rows, err := s.db.Query(`SELECT name, id, path, start_ms, end_ms, saved_at FROM presets`)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}

	sortByName(out)
	return out, nil
}

// Get returns the preset with the given name
func (s *SQLiteStore) Get(name string) (Preset, error) {
	row := s.db.QueryRow(`SELECT name, id, path, start_ms, end_ms, saved_at FROM presets WHERE name = ?`, name)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, err
}

// Save inserts or replaces a preset
func (s *SQLiteStore) Save(p Preset) error {
	p, err := prepare(p)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO presets (name, id, path, start_ms, end_ms, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.ID, p.Path, p.StartMs, p.EndMs, p.SavedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save preset %q: %w", p.Name, err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (Preset, error) {
	var p Preset
	var savedAt int64
	if err := row.Scan(&p.Name, &p.ID, &p.Path, &p.StartMs, &p.EndMs, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan preset: %w", err)
	}
	p.SavedAt = time.UnixMilli(savedAt)
	return p, nil
}

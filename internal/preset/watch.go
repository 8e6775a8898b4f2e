// ABOUTME: Preset file watcher
// ABOUTME: Reloads cached stores and notifies listeners when the backing file changes on disk
package preset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch calls onChange whenever the file at path (or a SQLite sidecar of it) is
// written, created, renamed or removed. The directory is watched so atomic
// replacements are seen. Stores implementing Reloader are reloaded first.
// The watcher stops when ctx is done.
func Watch(ctx context.Context, path string, store Store, logger zerolog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasPrefix(filepath.Clean(event.Name), target) || !event.Op.Has(relevant) {
					continue
				}
				if r, ok := store.(Reloader); ok {
					if err := r.Reload(); err != nil {
						logger.Warn().Err(err).Str("path", path).Msg("preset reload failed")
						continue
					}
				}
				onChange()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Str("path", path).Msg("preset watcher error")
			}
		}
	}()

	return nil
}

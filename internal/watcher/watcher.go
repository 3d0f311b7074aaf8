// Package watcher reloads a file when it changes on disk.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"translatedtext/internal/logger"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches a file for changes
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
	log      *logger.Logger
}

// New creates a new file watcher
func New(path string, onChange func(), log *logger.Logger) *Watcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: defaultDebounce,
		log:      log.With("watcher"),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch calls onChange once per burst of writes to the file.
// It blocks until the context is cancelled or an error occurs.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// Watch the directory so replace-on-save editors are seen too
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := fsw.Add(dir); err != nil {
		return err
	}

	w.log.Info().Str("path", w.path).Msg("Watching for changes")

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				w.log.Info().Str("path", w.path).Msg("File changed")
				w.onChange()
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("Watcher error")

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

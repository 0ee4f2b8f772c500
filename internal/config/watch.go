package config

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/plhk/pterm/internal/logging"
)

// ErrNoConfigPath indicates the store has no file to watch.
var ErrNoConfigPath = errors.New("config path is required")

// debounceWindow coalesces bursts of filesystem events (editors often
// write a file in several operations) into a single reload.
const debounceWindow = 250 * time.Millisecond

// Watch observes the store's config file and invokes onChange after each
// settled burst of modifications. It blocks until ctx is canceled.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	if s.path == "" {
		return ErrNoConfigPath
	}
	if onChange == nil {
		return errors.New("onChange callback is required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that rename-over the
	// file would otherwise detach the watch.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	logger := logging.Component("config-watch")
	logger.Debug().Str("dir", dir).Msg("watching config directory")

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(debounceWindow)
			}
		case <-fire:
			timer = nil
			fire = nil
			logger.Info().Str("path", s.path).Msg("config changed, reloading")
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")
		}
	}
}

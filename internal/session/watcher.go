package session

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the session file for out-of-process changes (another
// frontend signing in or out against the same data directory) and replays
// them through the store. Blocks until ctx is canceled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory rather than the file: atomic rename-into-place
	// replaces the inode, which would silently detach a file watch.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

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
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0:
				s.log.Debug().Str("op", event.Op.String()).Msg("Session file changed externally")
				s.Recover()
			case event.Op&fsnotify.Remove != 0:
				s.log.Debug().Msg("Session file removed externally")
				s.externalSignOut()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("Session file watcher error")
		}
	}
}

// externalSignOut mirrors SignOut for removals already performed by another
// process: it clears memory and notifies without touching the file again.
func (s *Store) externalSignOut() {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return
	}
	s.session = nil
	observers := s.observersLocked()
	s.mu.Unlock()

	notify(observers, nil)
}

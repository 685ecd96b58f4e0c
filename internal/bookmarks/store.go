// Package bookmarks tracks which skills and projects a user has saved.
// Counts from this store feed quota checks: a saved item consumes one slot
// of the tier's ceiling for its resource kind.
package bookmarks

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skillshub/skillshub-go/internal/config"
	entErrors "github.com/skillshub/skillshub-go/internal/errors"
	"github.com/skillshub/skillshub-go/internal/logging"
	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

const (
	bookmarksDirPerm  = 0o700
	bookmarksFilePerm = 0o600
)

// persistedBookmarks is the on-disk shape.
type persistedBookmarks struct {
	Skills   []string `json:"skills"`
	Projects []string `json:"projects"`
}

// Snapshot is an immutable view of the saved items, sorted for stable output.
type Snapshot struct {
	Skills   []string
	Projects []string
}

// Store holds saved skill and project IDs, persisted as JSON under dataDir.
type Store struct {
	mu       sync.RWMutex
	path     string
	skills   map[string]struct{}
	projects map[string]struct{}
	log      zerolog.Logger
}

// NewStore creates a bookmark store persisting under dataDir.
func NewStore(dataDir string) *Store {
	return &Store{
		path:     filepath.Join(dataDir, config.BookmarksStorageKey+".json"),
		skills:   make(map[string]struct{}),
		projects: make(map[string]struct{}),
		log:      logging.WithComponent("bookmarks"),
	}
}

// Load reads the persisted bookmarks. A missing file is an empty store;
// duplicate IDs in the file collapse to one entry. A corrupt file degrades
// to empty rather than failing, matching how an absent file behaves.
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("Failed to read bookmarks, starting empty")
		}
		return
	}

	var persisted persistedBookmarks
	if err := json.Unmarshal(data, &persisted); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("Corrupt bookmarks file, starting empty")
		return
	}

	s.mu.Lock()
	s.skills = toSet(persisted.Skills)
	s.projects = toSet(persisted.Projects)
	count := len(s.skills) + len(s.projects)
	s.mu.Unlock()

	s.log.Debug().Int("count", count).Msg("Loaded bookmarks")
}

// Toggle flips the saved state of an item and returns the new state.
// The caller is expected to gate additions through a quota check first;
// removals are always admitted.
func (s *Store) Toggle(kind entitlement.ResourceKind, id string) (bool, error) {
	s.mu.Lock()
	set := s.setForLocked(kind)
	if set == nil {
		s.mu.Unlock()
		return false, entErrors.ErrInvalidInput
	}

	var saved bool
	if _, ok := set[id]; ok {
		delete(set, id)
	} else {
		set[id] = struct{}{}
		saved = true
	}
	persisted := s.persistedLocked()
	s.mu.Unlock()

	if err := s.persist(persisted); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist bookmarks")
		return saved, entErrors.WrapStorageError("persist_bookmarks", err)
	}
	return saved, nil
}

// IsBookmarked reports whether an item is saved.
func (s *Store) IsBookmarked(kind entitlement.ResourceKind, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.setForLocked(kind)
	if set == nil {
		return false
	}
	_, ok := set[id]
	return ok
}

// Count returns the number of saved items of one kind. Unknown kinds count
// as zero.
func (s *Store) Count(kind entitlement.ResourceKind) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.setForLocked(kind)
	return int64(len(set))
}

// Snapshot returns the saved IDs, sorted.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	persisted := s.persistedLocked()
	return Snapshot{Skills: persisted.Skills, Projects: persisted.Projects}
}

func (s *Store) setForLocked(kind entitlement.ResourceKind) map[string]struct{} {
	switch kind {
	case entitlement.ResourceSkills:
		return s.skills
	case entitlement.ResourceProjects:
		return s.projects
	default:
		return nil
	}
}

func (s *Store) persistedLocked() persistedBookmarks {
	return persistedBookmarks{
		Skills:   sortedKeys(s.skills),
		Projects: sortedKeys(s.projects),
	}
}

func (s *Store) persist(persisted persistedBookmarks) error {
	data, err := json.Marshal(persisted)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), bookmarksDirPerm); err != nil {
		return err
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, bookmarksFilePerm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

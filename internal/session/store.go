package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillshub/skillshub-go/internal/config"
	entErrors "github.com/skillshub/skillshub-go/internal/errors"
	"github.com/skillshub/skillshub-go/internal/logging"
	"github.com/skillshub/skillshub-go/internal/metrics"
)

const (
	sessionDirPerm  = 0o700
	sessionFilePerm = 0o600
)

// Store holds the current session and notifies observers on transitions.
// Observers are notified exactly once per transition, never once per read.
type Store struct {
	mu        sync.RWMutex
	path      string
	session   *Session
	observers map[int]func(*Session)
	nextObsID int
	log       zerolog.Logger

	nowFn func() time.Time
}

// NewStore creates a session store persisting under dataDir.
func NewStore(dataDir string) *Store {
	return &Store{
		path:      filepath.Join(dataDir, config.SessionStorageKey+".json"),
		observers: make(map[int]func(*Session)),
		log:       logging.WithComponent("session"),
		nowFn:     time.Now,
	}
}

// Recover loads a previously persisted session. A recovered session whose
// expiry has already elapsed is discarded and never exposed to consumers.
// Recovery problems degrade to "no session"; they are not surfaced as errors
// because a missing session is always a safe, representable state.
func (s *Store) Recover() {
	recovered := s.readPersisted()

	s.mu.Lock()
	if recovered == nil || sameSession(s.session, recovered) {
		s.mu.Unlock()
		return
	}
	s.session = recovered
	observers := s.observersLocked()
	s.mu.Unlock()

	metrics.RecordSessionTransition("recovered")
	s.log.Info().Str("user_id", recovered.Identity.ID).Msg("Recovered persisted session")
	notify(observers, recovered)
}

// readPersisted loads and validates the session file. Returns nil for any
// condition that should read as "no session".
func (s *Store) readPersisted() *Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("Session recovery failed, treating as signed out")
		}
		return nil
	}

	var persisted persistedSession
	if err := json.Unmarshal(data, &persisted); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("Corrupt session file, treating as signed out")
		return nil
	}
	if strings.TrimSpace(persisted.UserID) == "" || strings.TrimSpace(persisted.Token) == "" {
		s.log.Warn().Str("path", s.path).Msg("Incomplete session file, treating as signed out")
		return nil
	}

	recovered := persisted.toSession()
	if recovered.Expired(s.nowFn()) {
		s.log.Info().Str("user_id", recovered.Identity.ID).Msg("Persisted session expired, discarding")
		metrics.RecordSessionTransition("expired_discarded")
		_ = os.Remove(s.path)
		return nil
	}
	return recovered
}

// SignIn establishes a new session and notifies observers. The in-memory
// session is established even when persistence fails; the storage error is
// returned so callers can surface it.
func (s *Store) SignIn(identity Identity, token string, expiresAt time.Time) error {
	if strings.TrimSpace(identity.ID) == "" || strings.TrimSpace(token) == "" {
		return entErrors.ErrInvalidInput
	}

	next := &Session{Identity: identity, Token: token, ExpiresAt: expiresAt}
	if next.Expired(s.nowFn()) {
		return entErrors.ErrInvalidInput
	}

	s.mu.Lock()
	s.session = next
	observers := s.observersLocked()
	s.mu.Unlock()

	metrics.RecordSessionTransition("sign_in")
	s.log.Info().Str("user_id", identity.ID).Msg("Signed in")
	notify(observers, next)

	if err := s.persist(next); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist session")
		return entErrors.WrapStorageError("persist_session", err)
	}
	return nil
}

// SignOut clears the session synchronously and notifies observers once.
func (s *Store) SignOut() {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return
	}
	userID := s.session.Identity.ID
	s.session = nil
	observers := s.observersLocked()
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Msg("Failed to remove persisted session")
	}

	metrics.RecordSessionTransition("sign_out")
	s.log.Info().Str("user_id", userID).Msg("Signed out")
	notify(observers, nil)
}

// Current returns the active session, or nil when signed out. An expired
// session reads as nil regardless of what is held in memory.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil || s.session.Expired(s.nowFn()) {
		return nil
	}
	return s.session
}

// Identity returns the current identity, or nil when signed out.
func (s *Store) Identity() *Identity {
	current := s.Current()
	if current == nil {
		return nil
	}
	identity := current.Identity
	return &identity
}

// Subscribe registers an observer for session transitions and returns an
// unsubscribe function. Observers are invoked outside the store lock.
func (s *Store) Subscribe(fn func(*Session)) func() {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) observersLocked() []func(*Session) {
	observers := make([]func(*Session), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	return observers
}

func notify(observers []func(*Session), session *Session) {
	for _, fn := range observers {
		fn(session)
	}
}

func (s *Store) persist(session *Session) error {
	data, err := json.Marshal(toPersisted(session))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), sessionDirPerm); err != nil {
		return err
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, sessionFilePerm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

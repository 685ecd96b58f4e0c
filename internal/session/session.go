// Package session holds the current authenticated identity and its token.
// The store is the single source of identity truth for the entitlement core;
// tier resolution is re-triggered by its transitions.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the opaque user handle owned by the session.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// NewIdentity creates an identity with a fresh ID.
func NewIdentity(email string) Identity {
	return Identity{ID: uuid.NewString(), Email: email}
}

// Session is an authenticated session. A session past its expiry must never
// be treated as valid; expiry is checked against the current clock before any
// entitlement decision relies on it.
type Session struct {
	Identity  Identity  `json:"identity"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has expired as of now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !s.ExpiresAt.After(now)
}

// persistedSession is the on-disk form stored under the well-known
// session storage key.
type persistedSession struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

func (p persistedSession) toSession() *Session {
	return &Session{
		Identity:  Identity{ID: p.UserID, Email: p.Email},
		Token:     p.Token,
		ExpiresAt: time.Unix(p.ExpiresAt, 0),
	}
}

func toPersisted(s *Session) persistedSession {
	return persistedSession{
		UserID:    s.Identity.ID,
		Email:     s.Identity.Email,
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt.Unix(),
	}
}

// sameSession reports whether two sessions represent the same transition
// state. Used to suppress duplicate observer notifications.
func sameSession(a, b *Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Identity.ID == b.Identity.ID && a.Token == b.Token
}

package entitlements

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skillshub/skillshub-go/internal/billing"
	"github.com/skillshub/skillshub-go/internal/logging"
	"github.com/skillshub/skillshub-go/internal/metrics"
	"github.com/skillshub/skillshub-go/internal/session"
	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

// SessionSource is the slice of the session store the facade needs.
type SessionSource interface {
	Current() *session.Session
	Subscribe(fn func(*session.Session)) func()
}

// Service recomputes the entitlement snapshot whenever the session or the
// resolved subscription changes, and republishes it to subscribers.
//
// Every subscription fetch is tagged with the generation of the session
// transition that issued it; a response whose generation is no longer current
// is discarded so a late fetch for a previous identity can never overwrite
// the snapshot for the current one.
type Service struct {
	mu          sync.Mutex
	sessions    SessionSource
	billing     billing.Client
	log         zerolog.Logger
	ctx         context.Context
	snapshot    Snapshot
	generation  uint64
	subscribers map[int]func(Snapshot)
	nextSubID   int
	unsubscribe func()
}

// NewService creates the facade over a session source and billing client.
// Call Start to begin tracking session transitions.
func NewService(sessions SessionSource, billingClient billing.Client) *Service {
	return &Service{
		sessions:    sessions,
		billing:     billingClient,
		log:         logging.WithComponent("entitlements"),
		snapshot:    signedOutSnapshot(),
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Start subscribes to session transitions and resolves the current session.
// The context bounds all subscription fetches issued by the service.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.unsubscribe = s.sessions.Subscribe(s.onSessionChange)
	s.onSessionChange(s.sessions.Current())
}

// Close detaches the service from the session store.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Snapshot returns the current entitlement snapshot.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Subscribe registers a snapshot consumer and delivers the current snapshot
// immediately. Returns an unsubscribe function.
func (s *Service) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	current := s.snapshot
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Refresh re-resolves the subscription for the current session. Used to
// retry after a fetch error.
func (s *Service) Refresh() {
	s.onSessionChange(s.sessions.Current())
}

// onSessionChange recomputes the snapshot for a session transition.
// Sign-out resolves synchronously: the snapshot is explorer before this
// returns, without waiting for any in-flight fetch.
func (s *Service) onSessionChange(sess *session.Session) {
	s.mu.Lock()
	s.generation++
	generation := s.generation

	if sess == nil {
		s.snapshot = signedOutSnapshot()
		s.publishLocked()
		return
	}

	identity := sess.Identity
	ctx := s.ctx
	s.snapshot = loadingSnapshot()
	s.publishLocked()

	go s.resolve(ctx, generation, identity)
}

// resolve fetches and applies the subscription record for one generation.
func (s *Service) resolve(ctx context.Context, generation uint64, identity session.Identity) {
	if ctx == nil {
		ctx = context.Background()
	}
	record, err := s.billing.FetchSubscription(ctx, identity.ID)

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		metrics.StaleFetchesDiscardedTotal.Inc()
		s.log.Debug().
			Str("user_id", identity.ID).
			Uint64("generation", generation).
			Msg("Discarding stale subscription fetch")
		return
	}

	if err != nil {
		metrics.SubscriptionFetchErrorsTotal.Inc()
		s.log.Warn().Err(err).Str("user_id", identity.ID).Msg("Subscription fetch failed, falling back to explorer")
		s.snapshot = errorSnapshot(err)
		s.publishLocked()
		return
	}

	tier, outcome := entitlement.MapTierDetail(record)
	metrics.RecordTierResolution(string(tier), string(outcome))
	if outcome == entitlement.OutcomeUnknownPlan {
		s.log.Warn().
			Str("user_id", identity.ID).
			Str("tier_hint", record.TierHint).
			Msg("Unrecognized plan hint, downgrading to explorer")
	}

	s.snapshot = readySnapshot(record, tier)
	s.publishLocked()
}

// publishLocked snapshots the subscriber list, releases the lock, and
// delivers. Callers must hold s.mu; it is released on return.
func (s *Service) publishLocked() {
	subscribers := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	current := s.snapshot
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(current)
	}
}

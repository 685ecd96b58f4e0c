package entitlements

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillshub/skillshub-go/internal/session"
	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

// fakeSessions is a minimal in-memory SessionSource.
type fakeSessions struct {
	mu        sync.Mutex
	current   *session.Session
	observers []func(*session.Session)
}

func (f *fakeSessions) Current() *session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeSessions) Subscribe(fn func(*session.Session)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, fn)
	return func() {}
}

func (f *fakeSessions) set(s *session.Session) {
	f.mu.Lock()
	f.current = s
	observers := append([](func(*session.Session))(nil), f.observers...)
	f.mu.Unlock()
	for _, fn := range observers {
		fn(s)
	}
}

func sessionFor(userID string) *session.Session {
	return &session.Session{
		Identity:  session.Identity{ID: userID},
		Token:     "tok_" + userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// fakeBilling returns canned records per user, optionally holding each fetch
// until released so tests can interleave responses.
type fakeBilling struct {
	mu      sync.Mutex
	records map[string]*entitlement.SubscriptionRecord
	errs    map[string]error
	holds   map[string]chan struct{}
	calls   []string
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{
		records: make(map[string]*entitlement.SubscriptionRecord),
		errs:    make(map[string]error),
		holds:   make(map[string]chan struct{}),
	}
}

func (f *fakeBilling) FetchSubscription(ctx context.Context, userID string) (*entitlement.SubscriptionRecord, error) {
	f.mu.Lock()
	f.calls = append(f.calls, userID)
	hold := f.holds[userID]
	f.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[userID], f.errs[userID]
}

func waitForState(t *testing.T, svc *Service, want State) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := svc.Snapshot(); snap.State == want {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	snap := svc.Snapshot()
	require.Equal(t, want, snap.State, "timed out waiting for state %s", want)
	return snap
}

func TestSignedOutResolvesToExplorer(t *testing.T) {
	sessions := &fakeSessions{}
	svc := NewService(sessions, newFakeBilling())
	svc.Start(context.Background())
	defer svc.Close()

	snap := svc.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, entitlement.TierExplorer, snap.Tier)
	assert.Equal(t, int64(3), snap.Limits.MaxSkills)
	assert.Equal(t, int64(5), snap.Limits.MaxProjects)
}

func TestSignInResolvesTier(t *testing.T) {
	sessions := &fakeSessions{}
	billing := newFakeBilling()
	billing.records["user-1"] = &entitlement.SubscriptionRecord{
		Status: entitlement.StatusActive, TierHint: "builder",
	}

	svc := NewService(sessions, billing)
	svc.Start(context.Background())
	defer svc.Close()

	sessions.set(sessionFor("user-1"))

	snap := waitForState(t, svc, StateReady)
	assert.Equal(t, entitlement.TierBuilder, snap.Tier)
	assert.True(t, snap.HasAccess(entitlement.TierExplorer))
	assert.True(t, snap.HasAccess(entitlement.TierBuilder))
	assert.False(t, snap.HasAccess(entitlement.TierArchitect))
	assert.True(t, snap.CanAccess(entitlement.FeatureAITools))
	assert.False(t, snap.CanAccess(entitlement.FeatureExpertHours))
}

func TestLoadingStateIsDistinctFromExplorer(t *testing.T) {
	sessions := &fakeSessions{}
	billing := newFakeBilling()
	hold := make(chan struct{})
	billing.holds["user-1"] = hold
	billing.records["user-1"] = &entitlement.SubscriptionRecord{
		Status: entitlement.StatusActive, TierHint: "architect",
	}

	svc := NewService(sessions, billing)
	svc.Start(context.Background())
	defer svc.Close()

	sessions.set(sessionFor("user-1"))

	snap := svc.Snapshot()
	assert.Equal(t, StateLoading, snap.State, "resolving must read as loading, not resolved explorer")
	assert.True(t, snap.IsLoading())

	close(hold)
	snap = waitForState(t, svc, StateReady)
	assert.Equal(t, entitlement.TierArchitect, snap.Tier)
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	sessions := &fakeSessions{}
	billing := newFakeBilling()
	holdA := make(chan struct{})
	billing.holds["user-a"] = holdA
	billing.records["user-a"] = &entitlement.SubscriptionRecord{
		Status: entitlement.StatusActive, TierHint: "architect",
	}
	billing.records["user-b"] = &entitlement.SubscriptionRecord{
		Status: entitlement.StatusActive, TierHint: "builder",
	}

	svc := NewService(sessions, billing)
	svc.Start(context.Background())
	defer svc.Close()

	// Sign in as A (fetch hangs), then switch to B before A resolves.
	sessions.set(sessionFor("user-a"))
	sessions.set(sessionFor("user-b"))

	snap := waitForState(t, svc, StateReady)
	require.Equal(t, entitlement.TierBuilder, snap.Tier)

	// A's late response must not overwrite B's snapshot.
	close(holdA)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, entitlement.TierBuilder, svc.Snapshot().Tier)
	assert.Equal(t, StateReady, svc.Snapshot().State)
}

func TestSignOutResetsSynchronously(t *testing.T) {
	sessions := &fakeSessions{}
	billing := newFakeBilling()
	hold := make(chan struct{})
	billing.holds["user-1"] = hold
	billing.records["user-1"] = &entitlement.SubscriptionRecord{
		Status: entitlement.StatusActive, TierHint: "architect",
	}

	svc := NewService(sessions, billing)
	svc.Start(context.Background())
	defer svc.Close()

	sessions.set(sessionFor("user-1"))
	require.True(t, svc.Snapshot().IsLoading())

	// Sign out while the fetch is still in flight: the reset must not wait.
	sessions.set(nil)
	snap := svc.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, entitlement.TierExplorer, snap.Tier)

	// The now-stale fetch resolving later is a no-op.
	close(hold)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, entitlement.TierExplorer, svc.Snapshot().Tier)
}

func TestFetchErrorFailsClosedButObservable(t *testing.T) {
	sessions := &fakeSessions{}
	billing := newFakeBilling()
	billing.errs["user-1"] = fmt.Errorf("billing unreachable")

	svc := NewService(sessions, billing)
	svc.Start(context.Background())
	defer svc.Close()

	sessions.set(sessionFor("user-1"))

	snap := waitForState(t, svc, StateError)
	assert.Equal(t, entitlement.TierExplorer, snap.Tier, "failed check must fall back to explorer")
	assert.Error(t, snap.Err, "error must stay observable for retry")
}

func TestRefreshRetriesAfterError(t *testing.T) {
	sessions := &fakeSessions{}
	billing := newFakeBilling()
	billing.errs["user-1"] = fmt.Errorf("billing unreachable")

	svc := NewService(sessions, billing)
	svc.Start(context.Background())
	defer svc.Close()

	sessions.set(sessionFor("user-1"))
	waitForState(t, svc, StateError)

	billing.mu.Lock()
	delete(billing.errs, "user-1")
	billing.records["user-1"] = &entitlement.SubscriptionRecord{
		Status: entitlement.StatusTrialing, TierHint: "builder",
	}
	billing.mu.Unlock()

	svc.Refresh()

	snap := waitForState(t, svc, StateReady)
	assert.Equal(t, entitlement.TierBuilder, snap.Tier)
}

func TestConfirmedNoSubscriptionIsReadyExplorer(t *testing.T) {
	sessions := &fakeSessions{}
	billing := newFakeBilling() // no record: FetchSubscription returns (nil, nil)

	svc := NewService(sessions, billing)
	svc.Start(context.Background())
	defer svc.Close()

	sessions.set(sessionFor("user-1"))

	snap := waitForState(t, svc, StateReady)
	assert.Equal(t, entitlement.TierExplorer, snap.Tier)
	assert.Nil(t, snap.Record)
	assert.NoError(t, snap.Err)
}

func TestUnknownPlanDowngradesToExplorer(t *testing.T) {
	sessions := &fakeSessions{}
	billing := newFakeBilling()
	billing.records["user-1"] = &entitlement.SubscriptionRecord{
		Status: entitlement.StatusActive, TierHint: "price_enterprise_custom",
	}

	svc := NewService(sessions, billing)
	svc.Start(context.Background())
	defer svc.Close()

	sessions.set(sessionFor("user-1"))

	snap := waitForState(t, svc, StateReady)
	assert.Equal(t, entitlement.TierExplorer, snap.Tier)
}

func TestSubscribeDeliversCurrentAndSubsequentSnapshots(t *testing.T) {
	sessions := &fakeSessions{}
	billing := newFakeBilling()
	billing.records["user-1"] = &entitlement.SubscriptionRecord{
		Status: entitlement.StatusActive, TierHint: "builder",
	}

	svc := NewService(sessions, billing)
	svc.Start(context.Background())
	defer svc.Close()

	var mu sync.Mutex
	var states []State
	unsubscribe := svc.Subscribe(func(snap Snapshot) {
		mu.Lock()
		states = append(states, snap.State)
		mu.Unlock()
	})
	defer unsubscribe()

	sessions.set(sessionFor("user-1"))
	waitForState(t, svc, StateReady)

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(states), 3)
	assert.Equal(t, StateReady, states[0], "initial delivery is the signed-out snapshot")
	assert.Equal(t, StateLoading, states[1])
	assert.Equal(t, StateReady, states[len(states)-1])
}

// Package notifications delivers user-facing entitlement notices (quota
// denials, upgrade prompts) to in-process subscribers such as the UI layer.
package notifications

import (
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/skillshub/skillshub-go/internal/logging"
	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

// Kind classifies a notification.
type Kind string

const (
	KindLimitReached    Kind = "limit_reached"
	KindUpgradePrompt   Kind = "upgrade_prompt"
	KindFeatureRequired Kind = "feature_required"
)

// Notification is a single user-facing notice.
type Notification struct {
	ID        string                   `json:"id"`
	Kind      Kind                     `json:"kind"`
	Message   string                   `json:"message"`
	Resource  entitlement.ResourceKind `json:"resource,omitempty"`
	Current   int64                    `json:"current,omitempty"`
	Limit     int64                    `json:"limit,omitempty"`
	Tier      entitlement.Tier         `json:"tier,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

// NewLimitReached builds the denial notice for a quota rejection.
func NewLimitReached(resource entitlement.ResourceKind, current, limit int64, tier entitlement.Tier) Notification {
	next, upgradeHint := nextTierHint(tier)
	message := fmt.Sprintf("%s limit reached (%d/%d).", resourceLabel(resource), current, limit)
	if upgradeHint {
		message = fmt.Sprintf("%s Upgrade to %s to save more.", message, entitlement.GetTierDisplayName(next))
	}
	return Notification{
		ID:        ulid.Make().String(),
		Kind:      KindLimitReached,
		Message:   message,
		Resource:  resource,
		Current:   current,
		Limit:     limit,
		Tier:      tier,
		Timestamp: time.Now(),
	}
}

func resourceLabel(resource entitlement.ResourceKind) string {
	switch resource {
	case entitlement.ResourceSkills:
		return "Skill"
	case entitlement.ResourceProjects:
		return "Project"
	default:
		return string(resource)
	}
}

func nextTierHint(tier entitlement.Tier) (entitlement.Tier, bool) {
	switch tier {
	case entitlement.TierExplorer:
		return entitlement.TierBuilder, true
	case entitlement.TierBuilder:
		return entitlement.TierArchitect, true
	default:
		return "", false
	}
}

// Dispatcher fans notifications out to subscribers. Delivery is synchronous
// and in subscription order; subscribers must not block.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers map[int]func(Notification)
	nextSubID   int
	log         zerolog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[int]func(Notification)),
		log:         logging.WithComponent("notifications"),
	}
}

// Subscribe registers a delivery callback and returns an unsubscribe function.
func (d *Dispatcher) Subscribe(fn func(Notification)) func() {
	d.mu.Lock()
	id := d.nextSubID
	d.nextSubID++
	d.subscribers[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subscribers, id)
		d.mu.Unlock()
	}
}

// Publish delivers a notification to all current subscribers.
func (d *Dispatcher) Publish(notification Notification) {
	d.mu.RLock()
	subscribers := make([]func(Notification), 0, len(d.subscribers))
	for _, fn := range d.subscribers {
		subscribers = append(subscribers, fn)
	}
	d.mu.RUnlock()

	d.log.Debug().
		Str("id", notification.ID).
		Str("kind", string(notification.Kind)).
		Str("message", notification.Message).
		Msg("Publishing notification")

	for _, fn := range subscribers {
		fn(notification)
	}
}

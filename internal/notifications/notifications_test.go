package notifications

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillshub/skillshub-go/pkg/entitlement"
)

func TestNewLimitReached(t *testing.T) {
	notification := NewLimitReached(entitlement.ResourceProjects, 5, 5, entitlement.TierExplorer)

	assert.Equal(t, KindLimitReached, notification.Kind)
	assert.Equal(t, entitlement.ResourceProjects, notification.Resource)
	assert.Equal(t, int64(5), notification.Current)
	assert.Equal(t, int64(5), notification.Limit)
	assert.NotEmpty(t, notification.ID)
	assert.Contains(t, notification.Message, "Project limit reached (5/5)")
	assert.Contains(t, notification.Message, "Upgrade to Builder")
}

func TestNewLimitReached_BuilderSuggestsArchitect(t *testing.T) {
	notification := NewLimitReached(entitlement.ResourceSkills, 10, 10, entitlement.TierBuilder)
	assert.Contains(t, notification.Message, "Skill limit reached (10/10)")
	assert.Contains(t, notification.Message, "Upgrade to Architect")
}

func TestNewLimitReached_ArchitectHasNoUpgradeHint(t *testing.T) {
	notification := NewLimitReached(entitlement.ResourceSkills, 3, 3, entitlement.TierArchitect)
	assert.False(t, strings.Contains(notification.Message, "Upgrade"), "top tier should not suggest an upgrade")
}

func TestDispatcherFanOut(t *testing.T) {
	dispatcher := NewDispatcher()

	var first, second []Notification
	defer dispatcher.Subscribe(func(n Notification) { first = append(first, n) })()
	defer dispatcher.Subscribe(func(n Notification) { second = append(second, n) })()

	dispatcher.Publish(NewLimitReached(entitlement.ResourceSkills, 3, 3, entitlement.TierExplorer))

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestDispatcherUnsubscribe(t *testing.T) {
	dispatcher := NewDispatcher()

	count := 0
	unsubscribe := dispatcher.Subscribe(func(Notification) { count++ })

	dispatcher.Publish(NewLimitReached(entitlement.ResourceSkills, 3, 3, entitlement.TierExplorer))
	unsubscribe()
	dispatcher.Publish(NewLimitReached(entitlement.ResourceSkills, 3, 3, entitlement.TierExplorer))

	assert.Equal(t, 1, count)
}

func TestNotificationIDsAreUnique(t *testing.T) {
	a := NewLimitReached(entitlement.ResourceSkills, 3, 3, entitlement.TierExplorer)
	b := NewLimitReached(entitlement.ResourceSkills, 3, 3, entitlement.TierExplorer)
	assert.NotEqual(t, a.ID, b.ID)
}

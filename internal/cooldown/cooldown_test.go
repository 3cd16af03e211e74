package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lamp/pkg/lamperr"
)

func TestCooldownLawAfterSuccessfulExecution(t *testing.T) {
	store := New()
	t0 := time.Unix(0, 0)
	clock := t0

	h := NewHandle(store, "foo", "x", 3*time.Second, true, func() time.Time { return clock })
	require.NoError(t, h.CooldownDefault())

	clock = t0.Add(1 * time.Second)
	assert.True(t, h.IsOnCooldown())
	assert.InDelta(t, 2*time.Second, h.RemainingTime(), float64(50*time.Millisecond))

	clock = t0.Add(3001 * time.Millisecond)
	assert.False(t, h.IsOnCooldown())
}

func TestCooldownDefaultRequiresBoundDuration(t *testing.T) {
	store := New()
	h := NewHandle(store, "foo", "x", 0, false, nil)
	err := h.CooldownDefault()
	require.Error(t, err)
	var de *lamperr.DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, lamperr.KindUnboundCooldown, de.Kind)
}

func TestExplicitCooldownDoesNotRequireBinding(t *testing.T) {
	store := New()
	t0 := time.Unix(0, 0)
	h := NewHandle(store, "foo", "x", 0, false, func() time.Time { return t0 })
	h.Cooldown(5 * time.Second)
	assert.True(t, h.IsOnCooldown())
}

func TestRemoveCooldownClearsExpiry(t *testing.T) {
	store := New()
	t0 := time.Unix(0, 0)
	h := NewHandle(store, "foo", "x", 0, false, func() time.Time { return t0 })
	h.Cooldown(5 * time.Second)
	h.RemoveCooldown()
	assert.False(t, h.IsOnCooldown())
	assert.Equal(t, time.Duration(0), h.RemainingTime())
}

func TestCooldownIsKeyedPerActorAndCommand(t *testing.T) {
	store := New()
	t0 := time.Unix(0, 0)
	a := NewHandle(store, "foo", "alice", 0, false, func() time.Time { return t0 })
	a.Cooldown(5 * time.Second)

	b := NewHandle(store, "foo", "bob", 0, false, func() time.Time { return t0 })
	assert.False(t, b.IsOnCooldown(), "cooldowns must not leak across actors")

	other := NewHandle(store, "bar", "alice", 0, false, func() time.Time { return t0 })
	assert.False(t, other.IsOnCooldown(), "cooldowns must not leak across commands")
}

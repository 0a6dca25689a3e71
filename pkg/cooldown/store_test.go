// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvictStale(t *testing.T) {
	manager, clock := newTestManager(t, DefaultConfig())

	run(t, manager, "id")
	require.Equal(t, 1, manager.Len())

	// retention at falloff 1 is 2*ceil(5^1) = 10s. Exactly at the boundary
	// the entry survives; eviction requires strictly older.
	clock.Advance(10 * time.Second)
	manager.EvictStale()
	require.Equal(t, 1, manager.Len())

	clock.Advance(1 * time.Second)
	manager.EvictStale()
	require.Equal(t, 0, manager.Len())

	// an evicted identifier is fresh again.
	outcome, _ := run(t, manager, "id")
	require.Equal(t, Allowed, outcome)
	require.Equal(t, 1.0, manager.states["id"].falloff)
}

func TestHousekeepingBeforeDecision(t *testing.T) {
	manager, clock := newTestManager(t, DefaultConfig())

	run(t, manager, "a")
	run(t, manager, "b")
	require.Equal(t, 2, manager.Len())

	// any decision, even for an unrelated identifier, sweeps stale entries.
	clock.Advance(11 * time.Second)
	run(t, manager, "c")
	assert.Equal(t, 1, manager.Len())
	_, ok := manager.states["c"]
	require.True(t, ok)
}

// The retention window is recomputed from the falloff each scan, so a factor
// that decays after the entry goes quiet shortens its remaining lifetime.
func TestEvictionUsesCurrentFalloff(t *testing.T) {
	manager, clock := newTestManager(t, DefaultConfig())

	run(t, manager, "id")
	manager.states["id"].falloff = 2 // retention 2*ceil(5^2) = 50s

	clock.Advance(30 * time.Second)
	manager.EvictStale()
	require.Equal(t, 1, manager.Len())

	// same quiet time, but with the factor back at 1 the window is 10s.
	manager.states["id"].falloff = 1
	manager.EvictStale()
	require.Equal(t, 0, manager.Len())
}

// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package cooldown

import (
	"time"

	"go.uber.org/zap"
)

// getOrCreateLocked returns the state for id, inserting a fresh entry when
// none exists. created reports whether the entry was just inserted; a fresh
// identifier is always allowed to run. Callers must hold m.mu.
func (m *Manager) getOrCreateLocked(id string, now time.Time) (_ *state, created bool) {
	if st, ok := m.states[id]; ok {
		return st, false
	}
	st := &state{
		lastAction: now,
		falloff:    1,
	}
	m.states[id] = st
	return st, true
}

// EvictStale removes every identifier that has been quiet for longer than
// twice its current required interval. It runs automatically before every
// decision and may additionally be called at any time.
func (m *Manager) EvictStale() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictStaleLocked(m.nowFn())
}

// evictStaleLocked scans all entries and deletes the stale ones. The
// retention window is recomputed from each entry's falloff at scan time, so
// an entry whose falloff decayed since it went quiet is retained for less
// time than it would have been at its peak. Callers must hold m.mu.
func (m *Manager) evictStaleLocked(now time.Time) {
	var removed []string
	for id, st := range m.states {
		retention := retentionWindow(m.config.MinActionInterval, st.falloff)
		if st.lastAction.Before(now.Add(-retention)) {
			delete(m.states, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		mon.Counter("cooldown_evicted").Inc(int64(len(removed)))
		m.log.Debug("evicted stale cooldown state", zap.Strings("ids", removed))
	}
}

// Len returns the number of identifiers currently tracked.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}

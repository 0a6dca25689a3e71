// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package cooldown decides whether an action tied to an identifier should run
// now or be suppressed because it ran too recently. Every identifier starts
// with the base interval; repeated suppressed attempts raise a per-identifier
// falloff exponent that lengthens the required quiet period, and clean runs
// relax it back toward the base. State lives in memory only and is scoped to
// a single Manager instance.
package cooldown

import (
	"sync"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"go.uber.org/zap"
)

var mon = monkit.Package()

// Outcome is the decision made for a single call.
type Outcome int

const (
	// Suppressed means the action did not run because the identifier's
	// required interval has not elapsed yet.
	Suppressed Outcome = iota
	// Allowed means the action ran and the identifier's state was reset.
	Allowed
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o == Allowed {
		return "allowed"
	}
	return "suppressed"
}

// Config contains configurable values for a Manager. Values are read at call
// time and are not validated; MinActionInterval < 1, MaxFalloffFactor < 1, or
// a negative FalloffStep are preconditions on the caller, not checked errors.
type Config struct {
	MinActionInterval int     `help:"base number of seconds that must pass between allowed runs of one identifier" default:"5"`
	MaxFalloffFactor  float64 `help:"upper bound on the falloff exponent applied to the base interval" default:"5"`
	FalloffStep       float64 `help:"amount the falloff exponent moves by on every allowed run (0 freezes it)" default:"0.5"`
}

// DefaultConfig returns the default Manager configuration.
func DefaultConfig() Config {
	return Config{
		MinActionInterval: 5,
		MaxFalloffFactor:  5,
		FalloffStep:       0.5,
	}
}

// state is the cooldown bookkeeping for one identifier.
type state struct {
	// lastAction is when the identifier last ran an allowed action, or the
	// entry's creation time before the first run.
	lastAction time.Time
	// suppressedHits counts suppressed attempts since lastAction. Reset to
	// zero on every allowed run.
	suppressedHits int
	// falloff is the exponent applied to the base interval, always within
	// [1, MaxFalloffFactor].
	falloff float64
}

// Manager tracks cooldown state per identifier and runs or suppresses
// actions. It is safe for use from multiple goroutines; a single mutex
// serializes every check-and-update so that at most one caller per
// identifier observes Allowed within one required interval.
type Manager struct {
	log    *zap.Logger
	config Config

	nowFn func() time.Time

	mu     sync.Mutex
	states map[string]*state
}

// New constructs a Manager with the given configuration. A nil log is
// replaced with a no-op logger.
func New(log *zap.Logger, config Config) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:    log,
		config: config,
		nowFn:  time.Now,
		states: make(map[string]*state),
	}
}

// Run executes action if the identifier's required interval has elapsed since
// its last allowed run, and reports the decision. Suppressed calls only
// increment the identifier's hit counter. An allowed run commits the state
// transition (falloff adjustment, timestamp and hit-counter reset) before
// invoking action, so an action error propagates unmodified to the caller
// without rolling the cooldown state back.
//
// With force set the action runs unconditionally and no cooldown state is
// read or written.
//
// The internal lock is released before action is invoked, so a slow action
// never delays decisions for other identifiers. The small window this opens
// is harmless: the state transition is already committed, so a racing caller
// for the same identifier still observes Suppressed.
func (m *Manager) Run(id string, action func() error, force bool) (Outcome, error) {
	if force {
		mon.Counter("cooldown_decision", monkit.NewSeriesTag("outcome", "forced")).Inc(1)
		return Allowed, action()
	}

	now := m.nowFn()

	m.mu.Lock()
	m.evictStaleLocked(now)

	st, created := m.getOrCreateLocked(id, now)
	interval := requiredInterval(m.config.MinActionInterval, st.falloff)
	if !created && now.Before(st.lastAction.Add(interval)) {
		st.suppressedHits++
		hits := st.suppressedHits
		m.mu.Unlock()

		mon.Counter("cooldown_decision", monkit.NewSeriesTag("outcome", "suppressed")).Inc(1)
		m.log.Debug("action suppressed",
			zap.String("id", id),
			zap.Int("hits", hits),
			zap.Duration("interval", interval))
		return Suppressed, nil
	}

	// Entries that saw suppression since the last run get a longer interval;
	// entries running at their natural cadence relax toward the base.
	if st.suppressedHits > 0 {
		st.falloff += m.config.FalloffStep
	} else {
		st.falloff -= m.config.FalloffStep
	}
	st.falloff = clamp(st.falloff, 1, m.config.MaxFalloffFactor)
	st.lastAction = now
	st.suppressedHits = 0
	falloff := st.falloff
	m.mu.Unlock()

	mon.Counter("cooldown_decision", monkit.NewSeriesTag("outcome", "allowed")).Inc(1)
	m.log.Debug("action allowed",
		zap.String("id", id),
		zap.Float64("falloff", falloff))
	return Allowed, action()
}

// RunForError is like Run but derives the identifier from err's chain of
// causes via ErrorIdentifier, so that structurally identical error chains
// share cooldown state.
func (m *Manager) RunForError(err error, action func() error, force bool) (Outcome, error) {
	return m.Run(ErrorIdentifier(err), action, force)
}

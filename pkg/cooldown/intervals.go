// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package cooldown

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// requiredInterval is how long an identifier with the given falloff must stay
// quiet before its next run is allowed: base^falloff seconds, truncated to a
// whole second.
func requiredInterval(base int, falloff float64) time.Duration {
	return time.Duration(math.Floor(math.Pow(float64(base), falloff))) * time.Second
}

// retentionWindow is how long a quiet entry survives eviction: twice the
// required interval, rounded up to a whole second before doubling.
func retentionWindow(base int, falloff float64) time.Duration {
	return 2 * time.Duration(math.Ceil(math.Pow(float64(base), falloff))) * time.Second
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// FactorInterval pairs a falloff factor with the interval it requires.
type FactorInterval struct {
	Factor   float64
	Interval time.Duration
}

// Intervals enumerates the required interval for every falloff factor the
// configuration can produce, from 1 up to MaxFalloffFactor inclusive in
// FalloffStep increments. A zero FalloffStep yields a single entry, since the
// factor can never move.
func (m *Manager) Intervals() []FactorInterval {
	var table []FactorInterval
	for factor := 1.0; factor <= m.config.MaxFalloffFactor; factor += m.config.FalloffStep {
		table = append(table, FactorInterval{
			Factor:   factor,
			Interval: requiredInterval(m.config.MinActionInterval, factor),
		})
		if m.config.FalloffStep == 0 {
			break
		}
	}
	return table
}

// LogIntervals logs the full falloff-to-interval table, one line per factor
// with the interval decomposed into hours, minutes and seconds. Diagnostic
// only; no state is touched.
func (m *Manager) LogIntervals() {
	for _, fi := range m.Intervals() {
		d := fi.Interval
		m.log.Info("cooldown interval",
			zap.Float64("falloff", fi.Factor),
			zap.Int64("hours", int64(d/time.Hour)),
			zap.Int64("minutes", int64(d%time.Hour/time.Minute)),
			zap.Int64("seconds", int64(d%time.Minute/time.Second)))
	}
}

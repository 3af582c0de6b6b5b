// SPDX-License-Identifier: MIT
// Package: detour/builder
//
// config.go — internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • spacing = 100 m    (one block)
//   • origin  = (0, 0)
//   • rng     = nil      (no randomness unless seeded)
//   • jitter  = 0        (exact planar lengths)
//   • oneWay  = false    (streets are two-way)
//   • idFn    = nil      ("ring-0", "corridor-3", ...)

package builder

import (
	"math/rand"

	"github.com/paulmach/orb"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	// spacing is the block length in meters between neighbouring grid vertices.
	spacing float64
	// origin is the planar coordinate of grid vertex "0,0".
	origin orb.Point
	// rng drives length jitter; nil means no randomness.
	rng *rand.Rand
	// jitter perturbs each length by a factor in [1-jitter, 1+jitter).
	jitter float64
	// oneWay makes grid rows alternate eastbound / westbound, corridors run
	// eastbound and rings run counter-clockwise.
	oneWay bool
	// idFn names vertices of index-based constructors; nil means "<shape>-<i>".
	idFn IDFn
}

const (
	defaultSpacing = 100.0
	defaultJitter  = 0.0
)

// newBuilderConfig constructs a config with deterministic defaults and applies
// all options in order (later overrides earlier).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		spacing: defaultSpacing,
		jitter:  defaultJitter,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// length returns the planar length scaled by the configured jitter.
func (c builderConfig) length(base float64) float64 {
	if c.jitter == 0 || c.rng == nil {
		return base
	}

	return base * (1 + c.jitter*(2*c.rng.Float64()-1))
}

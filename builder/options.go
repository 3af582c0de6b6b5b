// SPDX-License-Identifier: MIT
// Package: detour/builder
//
// options.go — functional options for the builder package.
//
// Contract:
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves never panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math"
	"math/rand"

	"github.com/paulmach/orb"
)

// BuilderOption customizes constructors by mutating a builderConfig before
// construction begins.
type BuilderOption func(*builderConfig)

// WithSpacing sets the grid block length in meters. Panics if m is not a
// positive finite number.
func WithSpacing(m float64) BuilderOption {
	if !(m > 0) || math.IsInf(m, 0) {
		panic("builder: WithSpacing(m<=0)")
	}
	return func(c *builderConfig) {
		c.spacing = m
	}
}

// WithOrigin places grid vertex "0,0" at p.
func WithOrigin(p orb.Point) BuilderOption {
	return func(c *builderConfig) {
		c.origin = p
	}
}

// WithRand provides an explicit RNG for length jitter. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithJitter scales every generated length by a factor drawn from
// [1-f, 1+f). Requires an RNG; panics unless 0 ≤ f < 1.
func WithJitter(f float64) BuilderOption {
	if !(f >= 0 && f < 1) {
		panic("builder: WithJitter(f outside [0,1))")
	}
	return func(c *builderConfig) {
		c.jitter = f
	}
}

// WithOneWayStreets makes grid rows one-way, alternating eastbound (even rows)
// and westbound (odd rows). Columns stay two-way.
func WithOneWayStreets() BuilderOption {
	return func(c *builderConfig) {
		c.oneWay = true
	}
}

// SPDX-License-Identifier: MIT
// Package: detour/builder
//
// errors.go — sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context using %w.
//   • Constructors never panic; validation panics are confined to WithX options.

package builder

import "errors"

// ErrTooFewVertices indicates that a size parameter (rows, cols) is smaller
// than the allowed minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrNeedRandSource indicates that jitter was requested without an RNG.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates a nil constructor or graph.
var ErrConstructFailed = errors.New("builder: construction failed")

// ErrBadNetworkFile indicates a network document that cannot be decoded or
// that references unknown nodes.
var ErrBadNetworkFile = errors.New("builder: invalid network file")

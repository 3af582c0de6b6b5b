// Package rng centralizes deterministic random generation for the samplers.
//
// Goals:
//   - Determinism: same seed ⇒ identical results across runs and platforms.
//   - Explicit handles: every random draw goes through a *rand.Rand passed by the
//     caller; there is no package-level source.
//   - Independent streams: Stream derives per-attempt / per-worker generators so
//     parallel work stays reproducible.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Do not share a *rand.Rand across goroutines.
//   - Use Stream to create independent generators for workers.
package rng

import "math/rand"

// DefaultSeed is the fixed seed used when callers pass seed==0.
const DefaultSeed int64 = 1

// New returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ DefaultSeed; otherwise the provided seed verbatim.
//
// Complexity: O(1).
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed
// using a SplitMix64-style finalizer, so neighbouring stream IDs give
// uncorrelated generators.
//
// Complexity: O(1).
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// Stream returns the generator for stream id under parent.
// Stream(p, i) is a pure function of (p, i).
func Stream(parent int64, stream uint64) *rand.Rand {
	return rand.New(rand.NewSource(DeriveSeed(parent, stream)))
}

// Derive consumes one value from base and returns an independent generator for
// stream. If base==nil, DefaultSeed is used as the parent.
//
// Call during setup, not in hot loops.
func Derive(base *rand.Rand, stream uint64) *rand.Rand {
	parent := DefaultSeed
	if base != nil {
		parent = base.Int63()
	}

	return Stream(parent, stream)
}

// Uniform returns a float64 drawn uniformly from [lo, hi).
func Uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Sample draws k distinct integers uniformly from [0, n) without replacement,
// in draw order. A request larger than the population is clamped to n; k<=0 or
// n<=0 yields an empty slice.
//
// Implementation: partial Fisher–Yates over an index table.
// Complexity: O(n) time, O(n) space.
func Sample(r *rand.Rand, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return []int{}
	}

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + r.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:k:k]
}

// Package prm finds several structurally different routes between two
// intersections by probabilistic-roadmap-style edge sampling.
//
// What
//
//	Every attempt removes a random share of the road segments from a copy of
//	the network (an Overlay, so the canonical network is never touched) while
//	keeping source and target connected, then routes over what is left. Routes
//	that overlap an accepted route too much are discarded.
//
// Termination
//
//	At most MaxAttempts attempts run. Fewer than K routes is a normal partial
//	result (Result.Exhausted), and an unreachable target gives an empty one.
//
// Concurrency
//
//	WithWorkers(n) runs attempts in batches of n goroutines, each with its own
//	overlay and random stream. Acceptance happens on the calling goroutine in
//	attempt order, so the result is the same for every n.
package prm

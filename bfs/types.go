// Package bfs provides tunable options and error definitions
// for breadth-first search over a core.Topology.
package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/detour/core"
)

// Sentinel errors for BFS execution.
var (
	// ErrStartVertexNotFound is returned when the start (or target) ID is absent.
	ErrStartVertexNotFound = errors.New("bfs: start vertex not found")

	// ErrGraphNil is returned if a nil topology is passed.
	ErrGraphNil = errors.New("bfs: topology is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bfs: invalid option supplied")

	// ErrNoPath is returned by Path when the target is not reachable.
	ErrNoPath = errors.New("bfs: target not reachable")
)

// Option configures BFS behavior via functional arguments.
// If an Option is invalid (e.g. negative depth), it will be recorded
// internally and surfaced as ErrOptionViolation when BFS is invoked.
type Option func(*BFSOptions)

// BFSOptions holds parameters and callbacks to customize BFS execution.
type BFSOptions struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// OnVisit is called when visiting a vertex (by dense index). If it returns
	// an error, BFS aborts and propagates that error.
	OnVisit func(u int, depth int) error

	// MaxDepth, if > 0, stops exploring beyond this depth.
	MaxDepth int

	// FilterArc can skip arcs by returning false. Arcs hidden by the topology
	// (Removed) are skipped before FilterArc is consulted.
	FilterArc func(a core.Arc) bool

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns a BFSOptions with sane defaults:
//   - Context.Background()
//   - no depth limit (MaxDepth == 0)
//   - no filtering and a no-op OnVisit hook.
func DefaultOptions() BFSOptions {
	return BFSOptions{
		Ctx:       context.Background(),
		OnVisit:   func(int, int) error { return nil },
		MaxDepth:  0,
		FilterArc: func(core.Arc) bool { return true },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *BFSOptions) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit registers a callback to run on visit; returning an error
// from this callback stops the BFS.
func WithOnVisit(fn func(u int, depth int) error) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth stops the search at the given depth.
//
//	d > 0: limit to depth d
//	d == 0: explicit no depth limit
//	d < 0: invalid option → ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *BFSOptions) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithFilterArc skips arcs when fn returns false.
func WithFilterArc(fn func(a core.Arc) bool) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.FilterArc = fn
		}
	}
}

// WithoutArc hides a single arc index, in addition to any topology removals.
// It composes with a previously registered WithFilterArc.
func WithoutArc(e int) Option {
	return func(o *BFSOptions) {
		prev := o.FilterArc
		o.FilterArc = func(a core.Arc) bool { return a.Index != e && prev(a) }
	}
}

// BFSResult holds the outcome of a BFS traversal over dense vertex indices:
//   - Order: vertices visited, in visit sequence.
//   - Depth: distance in arcs from the start; -1 if not reached.
//   - ParentArc: arc used to reach each vertex; -1 for the start and unreached vertices.
type BFSResult struct {
	Start     int
	Order     []int
	Depth     []int
	ParentArc []int
}

// Reached reports whether vertex u was discovered.
func (r *BFSResult) Reached(u int) bool { return u >= 0 && u < len(r.Depth) && r.Depth[u] >= 0 }

// ArcsTo reconstructs the arc sequence from the start vertex to dest.
func (r *BFSResult) ArcsTo(top core.Topology, dest int) ([]int, error) {
	if !r.Reached(dest) {
		return nil, ErrNoPath
	}
	arcs := make([]int, 0, r.Depth[dest])
	for cur := dest; cur != r.Start; {
		e := r.ParentArc[cur]
		arcs = append(arcs, e)
		cur = top.Arc(e).From
	}
	for i, j := 0, len(arcs)-1; i < j; i, j = i+1, j-1 {
		arcs[i], arcs[j] = arcs[j], arcs[i]
	}

	return arcs, nil
}

// Package dijkstra defines core types and configuration options
// for Dijkstra's shortest-path algorithm on road network topologies.
//
// Options:
//
//	– Weight:           edge attribute to minimize (current length by default).
//	– MaxDistance:      cap on distances to explore; vertices beyond it stay unreached.
//	– InfEdgeThreshold: arcs with weight >= this threshold are treated as impassable.
//
// Errors (sentinel):
//
//	– ErrNilGraph        if the provided topology is nil.
//	– ErrVertexNotFound  if the source or target vertex does not exist.
//	– ErrUnreachable     if the target cannot be reached from the source.
//	– ErrOptionViolation if MaxDistance < 0 or InfEdgeThreshold <= 0.
package dijkstra

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/detour/core"
)

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrNilGraph indicates that a nil topology was passed.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrVertexNotFound indicates that the source or target vertex does not exist.
	ErrVertexNotFound = errors.New("dijkstra: vertex not found in graph")

	// ErrUnreachable indicates that no path leads from the source to the target.
	ErrUnreachable = errors.New("dijkstra: target unreachable from source")

	// ErrOptionViolation indicates an invalid MaxDistance or InfEdgeThreshold.
	ErrOptionViolation = errors.New("dijkstra: invalid option")
)

// Options configures the behavior of the Dijkstra algorithm.
//
// MaxDistance      – vertices whose distance would exceed it are not explored.
//
//	Must be ≥ 0. Default is +Inf (no cap).
//
// InfEdgeThreshold – arcs with weight ≥ this threshold are skipped.
//
//	Must be > 0. Default is +Inf (no obstacles).
type Options struct {
	Weight           core.Weight
	MaxDistance      float64
	InfEdgeThreshold float64

	err error // first invalid option; surfaced by Dijkstra
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// WithWeight selects the edge attribute to minimize.
func WithWeight(w core.Weight) Option {
	return func(o *Options) {
		o.Weight = w
	}
}

// WithMaxDistance sets a maximum distance threshold.
// Negative or NaN values cause ErrOptionViolation.
func WithMaxDistance(max float64) Option {
	return func(o *Options) {
		if max < 0 || math.IsNaN(max) {
			o.fail(fmt.Errorf("%w: MaxDistance=%v", ErrOptionViolation, max))
			return
		}
		o.MaxDistance = max
	}
}

// WithInfEdgeThreshold defines a weight above which arcs are non-traversable.
// Zero, negative or NaN values cause ErrOptionViolation.
func WithInfEdgeThreshold(threshold float64) Option {
	return func(o *Options) {
		if !(threshold > 0) {
			o.fail(fmt.Errorf("%w: InfEdgeThreshold=%v", ErrOptionViolation, threshold))
			return
		}
		o.InfEdgeThreshold = threshold
	}
}

func (o *Options) fail(err error) {
	if o.err == nil {
		o.err = err
	}
}

// DefaultOptions returns Options with no distance cap and no impassable arcs,
// minimizing the current length.
func DefaultOptions() Options {
	return Options{
		Weight:           core.WeightLength,
		MaxDistance:      math.Inf(1),
		InfEdgeThreshold: math.Inf(1),
	}
}

// Result holds single-source distances over a topology.
//
// Dist[v] is +Inf for vertices that were not reached; ParentArc[v] is the arc
// index used to enter v on its shortest path, or -1.
type Result struct {
	Source    int
	Dist      []float64
	ParentArc []int
}

// Reached reports whether vertex index v has a finite distance.
func (r *Result) Reached(v int) bool {
	return v >= 0 && v < len(r.Dist) && !math.IsInf(r.Dist[v], 1)
}

// PathTo reconstructs the vertex IDs from the source to target.
// Returns ErrVertexNotFound for an unknown target and ErrUnreachable when the
// target was not reached.
func (r *Result) PathTo(top core.Topology, target string) ([]string, error) {
	v, ok := top.VertexIndex(target)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, target)
	}
	if !r.Reached(v) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUnreachable, top.VertexID(r.Source), target)
	}

	var rev []string
	for cur := v; ; {
		rev = append(rev, top.VertexID(cur))
		e := r.ParentArc[cur]
		if e < 0 {
			break
		}
		cur = top.Arc(e).From
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}

	return rev, nil
}

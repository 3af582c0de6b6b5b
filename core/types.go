// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Vertex, Edge, Graph declarations, options, sentinel errors and NewGraph.
// Concurrency:
//   - muVert guards the vertex catalog; muEdgeAdj guards edges and both adjacency indexes.
//   - Lock order is always muVert -> muEdgeAdj.

package core

import (
	"errors"
	"sync"

	"github.com/paulmach/orb"
)

// Sentinel errors for road network operations.
var (
	// ErrEmptyVertexID indicates that the provided vertex ID is empty.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge
	// or an ordered vertex pair with no connecting edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrNegativeLength indicates a negative or NaN length, or a negative length delta.
	ErrNegativeLength = errors.New("core: length must be a non-negative number")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a parallel edge was attempted when multi-edges are disabled.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")

	// ErrEmptyGraph indicates a query that needs at least one vertex.
	ErrEmptyGraph = errors.New("core: graph has no vertices")
)

// Weight selects which edge attribute a cost computation reads.
type Weight int

const (
	// WeightLength is the current length in meters, congestion penalties included.
	WeightLength Weight = iota

	// WeightBaseLength is the length recorded when the edge was inserted.
	WeightBaseLength
)

// String returns the attribute name used in logs and rendered properties.
func (w Weight) String() string {
	switch w {
	case WeightLength:
		return "length"
	case WeightBaseLength:
		return "base_length"
	default:
		return "unknown"
	}
}

// Vertex is an intersection of the road network.
//
// Point is a planar coordinate (projected CRS, meters). Metadata is shared on clones.
type Vertex struct {
	ID       string
	Point    orb.Point
	Metadata map[string]interface{}
}

// Edge is a directed road segment From→To.
//
// Edges are handed out by value: a copy never observes later length updates.
type Edge struct {
	// ID uniquely identifies this edge in the Graph ("e1", "e2", ...).
	ID string

	// From is the source vertex ID.
	From string

	// To is the destination vertex ID.
	To string

	// Length is the current traversal cost in meters.
	Length float64

	// BaseLength is Length at insertion time; congestion never changes it.
	BaseLength float64

	// seq is the numeric part of ID; it orders edges by insertion.
	seq uint64
}

// Weight returns the attribute selected by w.
func (e Edge) Weight(w Weight) float64 {
	if w == WeightBaseLength {
		return e.BaseLength
	}

	return e.Length
}

// GraphOption configures a Graph before creation.
type GraphOption func(g *Graph)

// WithMultiEdges permits parallel edges between the same ordered pair.
func WithMultiEdges() GraphOption {
	return func(g *Graph) { g.allowMulti = true }
}

// WithLoops permits self-loops (edges from a vertex to itself).
func WithLoops() GraphOption {
	return func(g *Graph) { g.allowLoops = true }
}

// VertexOption configures a vertex when it is first added.
type VertexOption func(v *Vertex)

// WithPoint sets the planar coordinate of a new vertex.
func WithPoint(p orb.Point) VertexOption {
	return func(v *Vertex) { v.Point = p }
}

// WithMetadata stores a key/value pair on a new vertex.
func WithMetadata(key string, value interface{}) VertexOption {
	return func(v *Vertex) { v.Metadata[key] = value }
}

// Graph is the directed, weighted road multigraph.
//
// out[from][to] lists edge IDs in insertion order; its first element is the primary
// edge of the pair. in[to][from] counts edges arriving at "to" from "from".
type Graph struct {
	muVert    sync.RWMutex // guards vertices
	muEdgeAdj sync.RWMutex // guards edges, out and in

	allowMulti bool
	allowLoops bool

	nextEdgeID uint64 // atomic edge ID generator
	vertices   map[string]*Vertex
	edges      map[string]*Edge

	out map[string]map[string][]string
	in  map[string]map[string]int
}

// NewGraph creates an empty directed Graph. By default parallel edges and
// self-loops are rejected.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		vertices: make(map[string]*Vertex),
		edges:    make(map[string]*Edge),
		out:      make(map[string]map[string][]string),
		in:       make(map[string]map[string]int),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

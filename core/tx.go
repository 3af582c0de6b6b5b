// SPDX-License-Identifier: MIT
//
// File: tx.go
// Role: Exclusive mutation transactions over the road network.
// Concurrency:
//   - Apply holds muVert and muEdgeAdj write locks for the whole callback.
//   - Tx methods never lock; they are valid only inside the Apply callback.

package core

import (
	"fmt"
	"math"
)

// Tx is the single-writer handle passed to Apply callbacks.
//
// A Tx must not escape its callback and must not call back into the Graph's
// locking methods (that would deadlock).
type Tx struct {
	g *Graph
}

// Apply runs fn with exclusive access to g. Readers (including Snapshot) block
// until fn returns, so they observe the edge set either entirely before or
// entirely after the batch. Updates made before fn returns an error are kept.
func (g *Graph) Apply(fn func(tx *Tx) error) error {
	g.muVert.Lock()
	defer g.muVert.Unlock()
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	return fn(&Tx{g: g})
}

// HasVertex reports whether id exists.
func (tx *Tx) HasVertex(id string) bool {
	_, ok := tx.g.vertices[id]

	return ok
}

// Successors returns the distinct successors of id sorted ascending.
func (tx *Tx) Successors(id string) ([]string, error) {
	if !tx.HasVertex(id) {
		return nil, ErrVertexNotFound
	}

	return successors(tx.g, id), nil
}

// Predecessors returns the distinct predecessors of id sorted ascending.
func (tx *Tx) Predecessors(id string) ([]string, error) {
	if !tx.HasVertex(id) {
		return nil, ErrVertexNotFound
	}

	return predecessors(tx.g, id), nil
}

// PrimaryEdge returns a copy of the primary edge from→to.
func (tx *Tx) PrimaryEdge(from, to string) (Edge, error) {
	e, ok := primaryEdge(tx.g, from, to)
	if !ok {
		return Edge{}, ErrEdgeNotFound
	}

	return *e, nil
}

// PrimaryEdges returns a copy of the primary edge of every connected ordered
// pair, in insertion order of those edges.
func (tx *Tx) PrimaryEdges() []Edge {
	out := make([]Edge, 0, len(tx.g.edges))
	for _, e := range sortedEdges(tx.g) {
		if p, _ := primaryEdge(tx.g, e.From, e.To); p == e {
			out = append(out, *e)
		}
	}

	return out
}

// AddLength increases the length of edge eid by delta meters and returns the
// updated copy. Lengths only grow: a negative or NaN delta is rejected.
func (tx *Tx) AddLength(eid string, delta float64) (Edge, error) {
	if delta < 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return Edge{}, fmt.Errorf("%w: delta=%v", ErrNegativeLength, delta)
	}
	e, ok := tx.g.edges[eid]
	if !ok {
		return Edge{}, ErrEdgeNotFound
	}
	e.Length += delta

	return *e, nil
}

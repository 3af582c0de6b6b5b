// File: methods_vertices.go
// Role: Vertex lifecycle & queries, nearest-vertex lookup.
//
// Determinism:
//   - Vertices() returns IDs sorted lexicographically ascending.
//   - Nearest() breaks distance ties by the smaller vertex ID.
//
// Concurrency:
//   - Vertex catalog protected by muVert.
package core

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// AddVertex inserts a vertex if missing (idempotent).
//
// Options are applied only when the vertex is created; re-adding an existing
// vertex is a no-op and leaves its coordinate untouched.
//
// Complexity: O(1) amortized.
func (g *Graph) AddVertex(id string, opts ...VertexOption) error {
	if id == "" {
		return ErrEmptyVertexID
	}

	g.muVert.Lock()
	defer g.muVert.Unlock()

	if _, exists := g.vertices[id]; exists {
		return nil
	}
	v := &Vertex{ID: id, Metadata: make(map[string]interface{})}
	for _, opt := range opts {
		opt(v)
	}
	g.vertices[id] = v

	return nil
}

// HasVertex reports whether the vertex ID exists (empty ID ⇒ false).
// Complexity: O(1).
func (g *Graph) HasVertex(id string) bool {
	if id == "" {
		return false
	}
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	_, ok := g.vertices[id]

	return ok
}

// Vertex returns a copy of the vertex record.
// Metadata is shared with the graph and must be treated as read-only.
func (g *Graph) Vertex(id string) (Vertex, error) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	v, ok := g.vertices[id]
	if !ok {
		return Vertex{}, ErrVertexNotFound
	}

	return *v, nil
}

// Vertices returns all vertex IDs sorted ascending.
// Complexity: O(V log V).
func (g *Graph) Vertices() []string {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return sortedVertexIDs(g)
}

// VertexCount returns the number of vertices.
// Complexity: O(1).
func (g *Graph) VertexCount() int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return len(g.vertices)
}

// Nearest returns the vertex whose coordinate is closest to p (planar distance).
//
// This is a linear scan; road networks loaded by this module are city sized.
// Complexity: O(V log V) because candidates are visited in ID order for determinism.
func (g *Graph) Nearest(p orb.Point) (string, error) {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	if len(g.vertices) == 0 {
		return "", ErrEmptyGraph
	}

	best, bestDist := "", math.Inf(1)
	for _, id := range sortedVertexIDs(g) {
		d := planar.Distance(g.vertices[id].Point, p)
		if d < bestDist {
			best, bestDist = id, d
		}
	}

	return best, nil
}

// sortedVertexIDs must be called with muVert held (read or write).
func sortedVertexIDs(g *Graph) []string {
	ids := make([]string, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

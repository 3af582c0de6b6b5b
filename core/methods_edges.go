// File: methods_edges.go
// Role: Edge lifecycle & queries: AddEdge/RemoveEdge/HasEdge/GetEdge/PrimaryEdge/Edges/EdgeCount,
//       plus nextEdgeID().
// Determinism:
//   - Edges() returns edges in insertion order (numeric part of Edge.ID asc).
//   - nextEdgeID() is monotonic and stable ("e" + decimal).
// Concurrency:
//   - Mutations under muEdgeAdj write lock.
//   - Read queries under muEdgeAdj read lock.

package core

import (
	"math"
	"sort"
	"strconv"
	"sync/atomic"
)

// edgeIDPrefix is the textual prefix of edge identifiers ("e1", "e2", ...).
const edgeIDPrefix = 'e'

// AddEdge creates a directed road segment from→to with the given length in meters.
//
// Steps:
//  1. Validate IDs, length, loops.
//  2. Ensure endpoints via AddVertex (no coordinate is set for implicit vertices).
//  3. Lock muEdgeAdj, check multi-edge constraint.
//  4. Generate eid atomically, store, link adjacency.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string, length float64) (string, error) {
	if from == "" || to == "" {
		return "", ErrEmptyVertexID
	}
	if length < 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return "", ErrNegativeLength
	}
	if from == to && !g.allowLoops {
		return "", ErrLoopNotAllowed
	}

	if err := g.AddVertex(from); err != nil {
		return "", err
	}
	if err := g.AddVertex(to); err != nil {
		return "", err
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	if !g.allowMulti && len(g.out[from][to]) > 0 {
		return "", ErrMultiEdgeNotAllowed
	}

	eid, seq := nextEdgeID(g)
	e := &Edge{ID: eid, From: from, To: to, Length: length, BaseLength: length, seq: seq}
	g.edges[eid] = e
	linkEdge(g, e)

	return eid, nil
}

// RemoveEdge deletes one edge. If it was the primary edge of its pair, the next
// surviving parallel edge becomes primary.
//
// Complexity: O(k) where k is the number of parallel edges of the pair.
func (g *Graph) RemoveEdge(eid string) error {
	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()
	e, ok := g.edges[eid]
	if !ok {
		return ErrEdgeNotFound
	}
	delete(g.edges, eid)
	unlinkEdge(g, e)

	return nil
}

// HasEdge reports whether at least one edge from→to exists.
// Complexity: O(1).
func (g *Graph) HasEdge(from, to string) bool {
	if from == "" || to == "" {
		return false
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.out[from][to]) > 0
}

// GetEdge returns a copy of the edge with the given ID, or ErrEdgeNotFound.
// Complexity: O(1).
func (g *Graph) GetEdge(eid string) (Edge, error) {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	e, ok := g.edges[eid]
	if !ok {
		return Edge{}, ErrEdgeNotFound
	}

	return *e, nil
}

// PrimaryEdge returns a copy of the first surviving edge from→to.
//
// This is the single canonical record per ordered pair that costing and
// congestion address, even when parallel edges exist.
// Complexity: O(1).
func (g *Graph) PrimaryEdge(from, to string) (Edge, error) {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	e, ok := primaryEdge(g, from, to)
	if !ok {
		return Edge{}, ErrEdgeNotFound
	}

	return *e, nil
}

// Edges returns copies of all edges in insertion order.
// Complexity: O(E log E).
func (g *Graph) Edges() []Edge {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	ptrs := sortedEdges(g)
	out := make([]Edge, len(ptrs))
	for i, e := range ptrs {
		out[i] = *e
	}

	return out
}

// EdgeCount returns the total number of edges, parallel edges included.
// Complexity: O(1).
func (g *Graph) EdgeCount() int {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.edges)
}

// sortedEdges must be called with muEdgeAdj held.
func sortedEdges(g *Graph) []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })

	return out
}

// primaryEdge must be called with muEdgeAdj held.
func primaryEdge(g *Graph, from, to string) (*Edge, bool) {
	ids := g.out[from][to]
	if len(ids) == 0 {
		return nil, false
	}

	return g.edges[ids[0]], true
}

// nextEdgeID returns a new unique textual edge ID and its sequence number.
// Avoids fmt.Sprintf; safe for concurrent callers.
func nextEdgeID(g *Graph) (string, uint64) {
	n := atomic.AddUint64(&g.nextEdgeID, 1)
	buf := make([]byte, 0, 1+20)
	buf = append(buf, edgeIDPrefix)
	buf = strconv.AppendUint(buf, n, 10)

	return string(buf), n
}

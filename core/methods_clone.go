// File: methods_clone.go
// Role: Deep copies of the road network.
// Determinism:
//   - Clone carries nextEdgeID so AddEdge on the clone continues the textual sequence.
// Concurrency:
//   - Read locks on the source only.

package core

import "sync/atomic"

// Clone returns a deep copy of the Graph: options, vertices, edges (with their
// current lengths) and adjacency order, so primary edges are preserved.
//
// Vertex Metadata maps are shared, not copied.
// Complexity: O(V + E)
func (g *Graph) Clone() *Graph {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	clone := NewGraph()
	clone.allowMulti = g.allowMulti
	clone.allowLoops = g.allowLoops
	atomic.StoreUint64(&clone.nextEdgeID, atomic.LoadUint64(&g.nextEdgeID))

	for id, v := range g.vertices {
		clone.vertices[id] = &Vertex{ID: v.ID, Point: v.Point, Metadata: v.Metadata}
	}
	for eid, e := range g.edges {
		ne := *e
		clone.edges[eid] = &ne
	}
	for from, toMap := range g.out {
		m := make(map[string][]string, len(toMap))
		for to, ids := range toMap {
			m[to] = append([]string(nil), ids...)
		}
		clone.out[from] = m
	}
	for to, fromMap := range g.in {
		m := make(map[string]int, len(fromMap))
		for from, c := range fromMap {
			m[from] = c
		}
		clone.in[to] = m
	}

	return clone
}

// Package dijkstra is the shortest-path primitive of the router: single-source
// Dijkstra over a core.Topology (a Snapshot of the road network, or an Overlay
// with sampled edges removed).
//
// Overview:
//
//   - Dijkstra returns distances and parent arcs for every reachable vertex.
//   - ShortestPath returns one minimum-weight vertex sequence between two
//     vertices and its total weight, or ErrUnreachable.
//   - WithWeight chooses between the current (congested) length and the
//     length recorded at insertion.
//
// Performance and complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V); the indexed heap holds each vertex at most once.
//
// Determinism:
//
//	Arcs are relaxed in insertion order and ties never replace a parent, so
//	the same topology always yields the same path.
package dijkstra

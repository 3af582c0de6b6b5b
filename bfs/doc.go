// Package bfs provides breadth-first search over a core.Topology (a network
// Snapshot or a thinned Overlay), returning hop distances, parent arcs and
// visit order.
//
// What
//
//   - BFS explores vertices in non-decreasing hop distance from a start vertex.
//   - Path / HasPath answer the connectivity question the alternative-route
//     sampler asks after every tentative edge removal.
//   - Arcs hidden by an Overlay are never followed; WithFilterArc and WithoutArc
//     hide more arcs for a single query without touching the overlay.
//   - OnVisit may abort the walk with an error; MaxDepth limits exploration.
//
// Determinism
//
//	OutArcs lists arcs in edge insertion order and BFS enqueues heads in that
//	order, so the visit sequence and the returned path are reproducible.
//
// Complexity (V = |Vertices|, E = |Arcs|)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
package bfs

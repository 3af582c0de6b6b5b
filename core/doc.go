// Package core provides the road network shared by every routing component:
// a thread-safe, directed, weighted multigraph of intersections and road
// segments, plus the read-only views the search algorithms run on.
//
// The network G = (V, E) supports:
//
//   - Directed road segments with a float64 Length in meters (never negative).
//   - Parallel segments between the same ordered pair (WithMultiEdges); the first
//     surviving one is the pair's primary edge, the record costing and congestion address.
//   - Planar vertex coordinates (orb.Point) and nearest-vertex lookup.
//   - Collision-free atomic Edge.ID generation ("e1", "e2", ...).
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency (muEdgeAdj).
//
// Views:
//
//	Snapshot  – immutable, dense-indexed copy taken under read locks. One snapshot
//	            serves a whole search, so a concurrent writer can never be observed
//	            half-way through.
//	Overlay   – copy-on-write set of removed edges layered over a Snapshot. It replaces
//	            deep-copying the network for every sampling attempt.
//
// Both implement Topology, the surface bfs and dijkstra traverse.
//
// Mutation contract:
//
//	Apply(fn) runs fn with both write locks held. Congestion injection performs all of
//	its edge updates inside a single Apply, so readers observe either the old or the new
//	edge set, never a mix.
//
// Core Methods:
//
//	AddVertex(id, opts...) error                       // O(1), idempotent
//	AddEdge(from, to, length) (edgeID string, err)     // O(1) amortized
//	RemoveEdge(edgeID) error                           // O(deg)
//	HasEdge(from, to) bool                             // O(1)
//	PrimaryEdge(from, to) (Edge, error)                // O(1)
//	Successors(id) / Predecessors(id) ([]string, error) // O(d log d), sorted
//	InDegree(id) / OutDegree(id) (int, error)          // O(d)
//	Nearest(p orb.Point) (string, error)               // O(V)
//	Snapshot() *Snapshot                               // O(V + E)
//	Clone() *Graph                                     // O(V + E)
//
// Errors:
//
//	ErrEmptyVertexID       – zero-length vertex ID
//	ErrVertexNotFound      – missing vertex
//	ErrEdgeNotFound        – missing edge or unconnected ordered pair
//	ErrNegativeLength      – negative/NaN length or length delta
//	ErrLoopNotAllowed      – self-loop when loops disabled
//	ErrMultiEdgeNotAllowed – parallel edge when multi-edges disabled
//	ErrEmptyGraph          – nearest-vertex query on an empty network
package core

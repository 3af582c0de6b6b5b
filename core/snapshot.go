// File: snapshot.go
// Role: Immutable, dense-indexed views of the road network (Snapshot) and the
//       Topology interface traversal algorithms consume.
// Determinism:
//   - Vertex indices follow sorted vertex IDs; arc indices follow edge insertion order.
//   - OutArcs(u) lists arcs in insertion order, so the first arc u→v is the primary edge.
// Concurrency:
//   - Snapshot is built under both read locks and never changes afterwards; it is safe
//     to share across goroutines.

package core

import "github.com/paulmach/orb"

// Arc is a road segment inside a Snapshot, addressed by dense indices.
type Arc struct {
	Index      int     // position in the snapshot's arc table
	ID         string  // Edge.ID in the source graph
	From       int     // vertex index
	To         int     // vertex index
	Length     float64 // meters, at snapshot time
	BaseLength float64
}

// Weight returns the attribute selected by w.
func (a Arc) Weight(w Weight) float64 {
	if w == WeightBaseLength {
		return a.BaseLength
	}

	return a.Length
}

// Topology is the read-only surface bfs and dijkstra traverse.
//
// Removed reports arcs hidden by an overlay; a plain Snapshot hides nothing.
type Topology interface {
	VertexCount() int
	VertexIndex(id string) (int, bool)
	VertexID(i int) string
	EdgeCount() int
	Arc(e int) Arc
	OutArcs(u int) []int
	Removed(e int) bool
}

// Snapshot is a frozen copy of a Graph.
type Snapshot struct {
	ids    []string
	points []orb.Point
	index  map[string]int
	arcs   []Arc
	out    [][]int
}

var _ Topology = (*Snapshot)(nil)

// Snapshot freezes the current network. Later mutations of g (congestion,
// removals) are not visible through the returned value.
//
// Complexity: O(V log V + E log E).
// Concurrency: holds muVert then muEdgeAdj read locks while copying.
func (g *Graph) Snapshot() *Snapshot {
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	ids := sortedVertexIDs(g)
	s := &Snapshot{
		ids:    ids,
		points: make([]orb.Point, len(ids)),
		index:  make(map[string]int, len(ids)),
		arcs:   make([]Arc, 0, len(g.edges)),
		out:    make([][]int, len(ids)),
	}
	for i, id := range ids {
		s.index[id] = i
		s.points[i] = g.vertices[id].Point
	}
	for _, e := range sortedEdges(g) {
		a := Arc{
			Index:      len(s.arcs),
			ID:         e.ID,
			From:       s.index[e.From],
			To:         s.index[e.To],
			Length:     e.Length,
			BaseLength: e.BaseLength,
		}
		s.arcs = append(s.arcs, a)
		s.out[a.From] = append(s.out[a.From], a.Index)
	}

	return s
}

// VertexCount returns the number of vertices.
func (s *Snapshot) VertexCount() int { return len(s.ids) }

// VertexIndex maps a vertex ID to its dense index.
func (s *Snapshot) VertexIndex(id string) (int, bool) {
	i, ok := s.index[id]

	return i, ok
}

// VertexID maps a dense index back to the vertex ID.
func (s *Snapshot) VertexID(i int) string { return s.ids[i] }

// Point returns the planar coordinate of vertex i.
func (s *Snapshot) Point(i int) orb.Point { return s.points[i] }

// EdgeCount returns the number of arcs.
func (s *Snapshot) EdgeCount() int { return len(s.arcs) }

// Arc returns arc e.
func (s *Snapshot) Arc(e int) Arc { return s.arcs[e] }

// OutArcs returns the indices of arcs leaving u. The slice must not be modified.
func (s *Snapshot) OutArcs(u int) []int { return s.out[u] }

// Removed always reports false: a Snapshot hides no arcs.
func (s *Snapshot) Removed(int) bool { return false }

// PrimaryArc returns the first arc u→v.
func (s *Snapshot) PrimaryArc(u, v int) (Arc, bool) {
	for _, e := range s.out[u] {
		if s.arcs[e].To == v {
			return s.arcs[e], true
		}
	}

	return Arc{}, false
}

// PrimaryEdge returns the primary edge from→to as it was when the snapshot was taken.
func (s *Snapshot) PrimaryEdge(from, to string) (Edge, error) {
	u, ok := s.index[from]
	if !ok {
		return Edge{}, ErrEdgeNotFound
	}
	v, ok := s.index[to]
	if !ok {
		return Edge{}, ErrEdgeNotFound
	}
	a, ok := s.PrimaryArc(u, v)
	if !ok {
		return Edge{}, ErrEdgeNotFound
	}

	return Edge{ID: a.ID, From: from, To: to, Length: a.Length, BaseLength: a.BaseLength}, nil
}

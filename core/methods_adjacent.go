// File: methods_adjacent.go
// Role: Neighborhood queries (successors, predecessors, degrees) and adjacency maintenance.
// Determinism:
//   - Successors/Predecessors return unique IDs sorted ascending.
// Concurrency:
//   - Queries hold muVert (existence) then muEdgeAdj (adjacency) read locks.
//   - linkEdge/unlinkEdge must run under the muEdgeAdj write lock.

package core

import "sort"

// Successors returns the distinct vertices reachable from id over one edge.
// Complexity: O(d log d).
func (g *Graph) Successors(id string) ([]string, error) {
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return successors(g, id), nil
}

// Predecessors returns the distinct vertices with an edge into id.
// Complexity: O(d log d).
func (g *Graph) Predecessors(id string) ([]string, error) {
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return predecessors(g, id), nil
}

// InDegree returns the number of edges entering id, parallel edges counted individually.
// Complexity: O(d).
func (g *Graph) InDegree(id string) (int, error) {
	if !g.HasVertex(id) {
		return 0, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	n := 0
	for _, c := range g.in[id] {
		n += c
	}

	return n, nil
}

// OutDegree returns the number of edges leaving id, parallel edges counted individually.
// Complexity: O(d).
func (g *Graph) OutDegree(id string) (int, error) {
	if !g.HasVertex(id) {
		return 0, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	n := 0
	for _, ids := range g.out[id] {
		n += len(ids)
	}

	return n, nil
}

func successors(g *Graph, id string) []string {
	out := make([]string, 0, len(g.out[id]))
	for to, ids := range g.out[id] {
		if len(ids) > 0 {
			out = append(out, to)
		}
	}
	sort.Strings(out)

	return out
}

func predecessors(g *Graph, id string) []string {
	out := make([]string, 0, len(g.in[id]))
	for from, c := range g.in[id] {
		if c > 0 {
			out = append(out, from)
		}
	}
	sort.Strings(out)

	return out
}

// linkEdge appends e to both adjacency indexes.
func linkEdge(g *Graph, e *Edge) {
	if g.out[e.From] == nil {
		g.out[e.From] = make(map[string][]string)
	}
	g.out[e.From][e.To] = append(g.out[e.From][e.To], e.ID)
	if g.in[e.To] == nil {
		g.in[e.To] = make(map[string]int)
	}
	g.in[e.To][e.From]++
}

// unlinkEdge removes e from both adjacency indexes, pruning empty buckets
// so HasEdge and neighbor scans stay exact.
func unlinkEdge(g *Graph, e *Edge) {
	ids := g.out[e.From][e.To]
	for i, id := range ids {
		if id == e.ID {
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(g.out[e.From], e.To)
		if len(g.out[e.From]) == 0 {
			delete(g.out, e.From)
		}
	} else {
		g.out[e.From][e.To] = ids
	}

	if g.in[e.To][e.From]--; g.in[e.To][e.From] <= 0 {
		delete(g.in[e.To], e.From)
		if len(g.in[e.To]) == 0 {
			delete(g.in, e.To)
		}
	}
}

// Package dijkstra implements Dijkstra's shortest-path algorithm on road
// network topologies with non-negative lengths.
//
// Notes on implementation choices:
//
//   - The priority queue is an indexed binary heap (yagh.IntMap) keyed by dense
//     vertex index, so a shorter distance updates the entry in place instead
//     of pushing a duplicate.
//   - Arcs hidden by an overlay are skipped; so is any arc whose weight
//     reaches InfEdgeThreshold.
//   - Distances above MaxDistance are never recorded; ShortestPath stops
//     as soon as the target is settled.
//   - Only strictly shorter distances replace a parent arc, so among equal
//     length routes the one discovered first wins.
package dijkstra

import (
	"fmt"
	"math"

	"github.com/rhartert/yagh"

	"github.com/katalvlaran/detour/core"
)

// Dijkstra computes shortest distances from source to every vertex of top.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V)
func Dijkstra(top core.Topology, source string, opts ...Option) (*Result, error) {
	r, err := newRunner(top, source, opts)
	if err != nil {
		return nil, err
	}
	r.process(-1)

	return r.res, nil
}

// ShortestPath returns the minimum-weight vertex sequence from source to target
// and its total weight. source == target yields a single-vertex path of weight 0.
// Returns ErrUnreachable (wrapped) when no path exists.
func ShortestPath(top core.Topology, source, target string, opts ...Option) ([]string, float64, error) {
	r, err := newRunner(top, source, opts)
	if err != nil {
		return nil, 0, err
	}
	t, ok := top.VertexIndex(target)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrVertexNotFound, target)
	}
	r.process(t)

	path, err := r.res.PathTo(top, target)
	if err != nil {
		return nil, 0, err
	}

	return path, r.res.Dist[t], nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	top  core.Topology
	cfg  Options
	res  *Result
	done []bool
	pq   *yagh.IntMap[float64]
}

func newRunner(top core.Topology, source string, opts []Option) (*runner, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if top == nil {
		return nil, ErrNilGraph
	}
	s, ok := top.VertexIndex(source)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVertexNotFound, source)
	}

	n := top.VertexCount()
	res := &Result{
		Source:    s,
		Dist:      make([]float64, n),
		ParentArc: make([]int, n),
	}
	for v := 0; v < n; v++ {
		res.Dist[v] = math.Inf(1)
		res.ParentArc[v] = -1
	}
	res.Dist[s] = 0

	pq := yagh.New[float64](n)
	pq.Put(s, 0)

	return &runner{top: top, cfg: cfg, res: res, done: make([]bool, n), pq: pq}, nil
}

// process settles vertices in distance order until the heap is empty or stop
// (if ≥ 0) is settled.
func (r *runner) process(stop int) {
	for r.pq.Size() > 0 {
		u := r.pq.Pop().Elem
		r.done[u] = true
		if u == stop {
			return
		}
		r.relax(u)
	}
}

// relax examines each arc leaving u and improves distances to its heads.
func (r *runner) relax(u int) {
	d := r.res.Dist[u]
	for _, e := range r.top.OutArcs(u) {
		if r.top.Removed(e) {
			continue
		}
		a := r.top.Arc(e)
		w := a.Weight(r.cfg.Weight)
		if w >= r.cfg.InfEdgeThreshold {
			continue
		}
		v := a.To
		if r.done[v] {
			continue
		}
		nd := d + w
		if nd > r.cfg.MaxDistance || nd >= r.res.Dist[v] {
			continue
		}
		r.res.Dist[v] = nd
		r.res.ParentArc[v] = e
		r.pq.Put(v, nd)
	}
}

// Package bfs provides breadth-first search over a core.Topology,
// returning hop distances, parent arcs, and visit order, plus the
// connectivity primitive HasPath used by the alternative-route sampler.
package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/detour/core"
)

// errReached stops a search early once the target is dequeued.
var errReached = errors.New("bfs: target reached")

// queueItem pairs a vertex index with its BFS depth.
type queueItem struct {
	u     int
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	top   core.Topology
	opts  BFSOptions
	ctx   context.Context
	queue []queueItem
	res   *BFSResult
}

// BFS runs breadth-first search on top starting from startID,
// applying any number of functional Options.
// Returns ErrGraphNil or ErrStartVertexNotFound for invalid input,
// ErrOptionViolation for bad options, or any user-supplied hook error.
func BFS(top core.Topology, startID string, opts ...Option) (*BFSResult, error) {
	if top == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	start, ok := top.VertexIndex(startID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStartVertexNotFound, startID)
	}

	w := newWalker(top, o, start)
	w.enqueue(start, 0, -1)

	return w.res, w.loop()
}

// Path returns the arc indices of a fewest-hops path from source to target,
// honoring topology removals and filters. ErrNoPath if target is unreachable.
// An empty slice is returned when source == target.
func Path(top core.Topology, source, target string, opts ...Option) ([]int, error) {
	if top == nil {
		return nil, ErrGraphNil
	}
	dst, ok := top.VertexIndex(target)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStartVertexNotFound, target)
	}
	// Stop at the target after any caller hook has seen it.
	stop := func(o *BFSOptions) {
		user := o.OnVisit
		o.OnVisit = func(u, depth int) error {
			if user != nil {
				if err := user(u, depth); err != nil {
					return err
				}
			}
			if u == dst {
				return errReached
			}
			return nil
		}
	}
	all := append(append(make([]Option, 0, len(opts)+1), opts...), stop)
	res, err := BFS(top, source, all...)
	if err != nil && !errors.Is(err, errReached) {
		return nil, err
	}

	return res.ArcsTo(top, dst)
}

// HasPath reports whether target is reachable from source.
func HasPath(top core.Topology, source, target string, opts ...Option) (bool, error) {
	_, err := Path(top, source, target, opts...)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNoPath):
		return false, nil
	default:
		return false, err
	}
}

func newWalker(top core.Topology, o BFSOptions, start int) *walker {
	n := top.VertexCount()
	w := &walker{
		top:   top,
		opts:  o,
		ctx:   o.Ctx,
		queue: make([]queueItem, 0, n),
		res: &BFSResult{
			Start:     start,
			Order:     make([]int, 0, n),
			Depth:     make([]int, n),
			ParentArc: make([]int, n),
		},
	}
	for i := 0; i < n; i++ {
		w.res.Depth[i] = -1
		w.res.ParentArc[i] = -1
	}

	return w
}

// enqueue marks u discovered at depth d via arc and adds it to the queue.
func (w *walker) enqueue(u, d, arc int) {
	w.res.Depth[u] = d
	w.res.ParentArc[u] = arc
	w.queue = append(w.queue, queueItem{u: u, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.u)
		if err := w.opts.OnVisit(item.u, item.depth); err != nil {
			if errors.Is(err, errReached) {
				return err
			}
			return fmt.Errorf("bfs: OnVisit error at %q: %w", w.top.VertexID(item.u), err)
		}
		w.enqueueNeighbors(item)
	}

	return nil
}

// enqueueNeighbors applies removals, filtering and MaxDepth, and enqueues
// each undiscovered head vertex.
func (w *walker) enqueueNeighbors(item queueItem) {
	next := item.depth + 1
	if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
		return
	}
	for _, e := range w.top.OutArcs(item.u) {
		if w.top.Removed(e) {
			continue
		}
		a := w.top.Arc(e)
		if !w.opts.FilterArc(a) {
			continue
		}
		if w.res.Depth[a.To] < 0 {
			w.enqueue(a.To, next, e)
		}
	}
}

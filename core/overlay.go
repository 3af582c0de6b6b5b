// File: overlay.go
// Role: Copy-on-write removal layer over a Snapshot (a "thinned graph").
// Concurrency:
//   - An Overlay is owned by one goroutine; the underlying Snapshot may be shared.

package core

import (
	"sort"

	"github.com/rhartert/sparsesets"
)

// Overlay hides a set of arcs of a shared Snapshot. Creating one costs O(E) for
// the sparse set; Reset and Remove are O(1) amortized, so one overlay can be
// reused across sampling attempts.
type Overlay struct {
	*Snapshot
	removed *sparsesets.Set
}

var _ Topology = (*Overlay)(nil)

// NewOverlay returns an overlay with no arcs removed.
func NewOverlay(s *Snapshot) *Overlay {
	return &Overlay{Snapshot: s, removed: sparsesets.New(s.EdgeCount())}
}

// Remove hides arc e. Out-of-range indices are ignored.
func (o *Overlay) Remove(e int) {
	if e < 0 || e >= o.EdgeCount() || o.removed.Contains(e) {
		return
	}
	o.removed.Insert(e)
}

// Removed reports whether arc e is hidden.
func (o *Overlay) Removed(e int) bool { return o.removed.Contains(e) }

// RemovedEdges returns the hidden arc indices sorted ascending.
func (o *Overlay) RemovedEdges() []int {
	out := append([]int(nil), o.removed.Content()...)
	sort.Ints(out)

	return out
}

// RemovedCount returns the number of hidden arcs.
func (o *Overlay) RemovedCount() int { return len(o.removed.Content()) }

// Reset restores every hidden arc.
func (o *Overlay) Reset() { o.removed.Clear() }

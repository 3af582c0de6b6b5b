// Package route holds the Path type shared by the router and the functions
// that measure paths: total cost over the network and node-set difference
// between two paths.
package route

import (
	"fmt"

	"github.com/katalvlaran/detour/core"
)

// Path is an ordered sequence of vertex IDs. Consecutive vertices are joined
// by an edge in the network the path was computed on. A Path is a walk; it
// may revisit vertices.
type Path []string

// EdgeLookup resolves the primary edge of an ordered vertex pair.
// *core.Graph and *core.Snapshot implement it.
type EdgeLookup interface {
	PrimaryEdge(from, to string) (core.Edge, error)
}

var (
	_ EdgeLookup = (*core.Graph)(nil)
	_ EdgeLookup = (*core.Snapshot)(nil)
)

// CostOption configures Cost.
type CostOption func(*costOptions)

type costOptions struct {
	weight core.Weight
}

// WithWeight selects the edge attribute Cost sums. Default core.WeightLength.
func WithWeight(w core.Weight) CostOption {
	return func(o *costOptions) { o.weight = w }
}

// Cost sums the selected weight of the primary edge of every consecutive pair
// of p. Paths with fewer than two vertices cost 0.
//
// Returns core.ErrEdgeNotFound, wrapped with the offending pair, when a pair
// has no edge in net.
func Cost(net EdgeLookup, p Path, opts ...CostOption) (float64, error) {
	o := costOptions{weight: core.WeightLength}
	for _, opt := range opts {
		opt(&o)
	}

	var total float64
	for i := 1; i < len(p); i++ {
		e, err := net.PrimaryEdge(p[i-1], p[i])
		if err != nil {
			return 0, fmt.Errorf("route: cost %s->%s: %w", p[i-1], p[i], err)
		}
		total += e.Weight(o.weight)
	}

	return total, nil
}

// Difference returns the number of distinct vertices of candidate that do not
// appear in other, divided by len(candidate). An empty candidate yields 0.
func Difference(candidate, other Path) float64 {
	if len(candidate) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(other)+len(candidate))
	for _, v := range other {
		seen[v] = struct{}{}
	}
	var missing int
	for _, v := range candidate {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			missing++
		}
	}

	return float64(missing) / float64(len(candidate))
}

// Equal reports whether a and b visit the same vertices in the same order.
func Equal(a, b Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Kilometers converts meters to kilometers.
func Kilometers(meters float64) float64 { return meters / 1000 }

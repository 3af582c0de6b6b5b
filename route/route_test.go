package route_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/route"
)

func network(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithMultiEdges())
	_, err := g.AddEdge("A", "B", 120)
	require.NoError(t, err)
	_, err = g.AddEdge("A", "B", 10) // parallel, never the primary
	require.NoError(t, err)
	_, err = g.AddEdge("B", "C", 80.5)
	require.NoError(t, err)

	return g
}

func TestCost_UsesPrimaryEdge(t *testing.T) {
	g := network(t)
	p := route.Path{"A", "B", "C"}

	got, err := route.Cost(g, p)
	require.NoError(t, err)
	require.Equal(t, 200.5, got)

	again, err := route.Cost(g, p)
	require.NoError(t, err)
	require.Equal(t, got, again)

	snap, err := route.Cost(g.Snapshot(), p)
	require.NoError(t, err)
	require.Equal(t, got, snap)
}

func TestCost_ShortPaths(t *testing.T) {
	g := network(t)
	for _, p := range []route.Path{nil, {}, {"A"}} {
		c, err := route.Cost(g, p)
		require.NoError(t, err)
		require.Zero(t, c)
	}
}

func TestCost_MissingEdge(t *testing.T) {
	g := network(t)
	_, err := route.Cost(g, route.Path{"A", "B", "A"})
	require.ErrorIs(t, err, core.ErrEdgeNotFound)
	require.Contains(t, err.Error(), "B->A")
}

func TestCost_BaseLengthAfterCongestion(t *testing.T) {
	g := network(t)
	s := g.Snapshot()
	require.NoError(t, g.Apply(func(tx *core.Tx) error {
		_, err := tx.AddLength("e1", 30)
		return err
	}))
	p := route.Path{"A", "B", "C"}

	now, err := route.Cost(g, p)
	require.NoError(t, err)
	require.Equal(t, 230.5, now)

	base, err := route.Cost(g, p, route.WithWeight(core.WeightBaseLength))
	require.NoError(t, err)
	require.Equal(t, 200.5, base)

	before, err := route.Cost(s, p)
	require.NoError(t, err)
	require.Equal(t, 200.5, before, "snapshots keep pre-congestion lengths")
}

func TestDifference(t *testing.T) {
	tests := []struct {
		name        string
		cand, other route.Path
		want        float64
	}{
		{"identical", route.Path{"A", "B", "C"}, route.Path{"A", "B", "C"}, 0},
		{"disjoint interior", route.Path{"A", "x", "y", "F"}, route.Path{"A", "p", "q", "F"}, 0.5},
		{"empty candidate", nil, route.Path{"A"}, 0},
		{"repeat counted once", route.Path{"A", "x", "A", "x"}, route.Path{"A"}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, route.Difference(tt.cand, tt.other), 1e-12)
		})
	}
}

func TestEqualAndKilometers(t *testing.T) {
	require.True(t, route.Equal(route.Path{"A", "B"}, route.Path{"A", "B"}))
	require.False(t, route.Equal(route.Path{"A", "B"}, route.Path{"B", "A"}))
	require.False(t, route.Equal(route.Path{"A"}, route.Path{"A", "B"}))
	require.Equal(t, 1.25, route.Kilometers(1250))
}

package dijkstra_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/dijkstra"
)

// streets builds a directed network where the cheapest A→D route detours via C.
//
//	A→B 4, A→C 1, C→B 1, B→D 1, C→D 5, D→E 2
func streets(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithMultiEdges())
	for _, e := range []struct {
		from, to string
		length   float64
	}{
		{"A", "B", 4}, {"A", "C", 1}, {"C", "B", 1}, {"B", "D", 1}, {"C", "D", 5}, {"D", "E", 2},
	} {
		_, err := g.AddEdge(e.from, e.to, e.length)
		require.NoError(t, err)
	}
	require.NoError(t, g.AddVertex("island"))

	return g
}

func TestShortestPath_Validation(t *testing.T) {
	_, _, err := dijkstra.ShortestPath(nil, "A", "B")
	require.ErrorIs(t, err, dijkstra.ErrNilGraph)

	s := streets(t).Snapshot()
	_, _, err = dijkstra.ShortestPath(s, "Z", "A")
	require.ErrorIs(t, err, dijkstra.ErrVertexNotFound)
	_, _, err = dijkstra.ShortestPath(s, "A", "Z")
	require.ErrorIs(t, err, dijkstra.ErrVertexNotFound)
	_, _, err = dijkstra.ShortestPath(s, "A", "B", dijkstra.WithMaxDistance(-1))
	require.ErrorIs(t, err, dijkstra.ErrOptionViolation)
	_, _, err = dijkstra.ShortestPath(s, "A", "B", dijkstra.WithInfEdgeThreshold(0))
	require.ErrorIs(t, err, dijkstra.ErrOptionViolation)
}

func TestShortestPath_Detour(t *testing.T) {
	s := streets(t).Snapshot()
	path, dist, err := dijkstra.ShortestPath(s, "A", "E")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"A", "C", "B", "D", "E"}, path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 5.0, dist)

	path, dist, err = dijkstra.ShortestPath(s, "A", "A")
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, path)
	require.Zero(t, dist)
}

func TestShortestPath_Unreachable(t *testing.T) {
	s := streets(t).Snapshot()
	_, _, err := dijkstra.ShortestPath(s, "A", "island")
	require.ErrorIs(t, err, dijkstra.ErrUnreachable)

	// Edges are one-way.
	_, _, err = dijkstra.ShortestPath(s, "E", "A")
	require.ErrorIs(t, err, dijkstra.ErrUnreachable)
}

func TestShortestPath_OverlayAndThreshold(t *testing.T) {
	s := streets(t).Snapshot()
	o := core.NewOverlay(s)
	o.Remove(2) // C→B
	path, dist, err := dijkstra.ShortestPath(o, "A", "D")
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "D"}, path)
	require.Equal(t, 5.0, dist)

	path, _, err = dijkstra.ShortestPath(s, "A", "D", dijkstra.WithInfEdgeThreshold(1))
	require.ErrorIs(t, err, dijkstra.ErrUnreachable, "every arc weighs at least 1")
	require.Nil(t, path)
}

func TestShortestPath_WeightSelection(t *testing.T) {
	g := streets(t)
	require.NoError(t, g.Apply(func(tx *core.Tx) error {
		_, err := tx.AddLength("e3", 10) // congest C→B
		return err
	}))
	s := g.Snapshot()

	path, dist, err := dijkstra.ShortestPath(s, "A", "D")
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "D"}, path)
	require.Equal(t, 5.0, dist)

	path, dist, err = dijkstra.ShortestPath(s, "A", "D", dijkstra.WithWeight(core.WeightBaseLength))
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C", "B", "D"}, path)
	require.Equal(t, 3.0, dist)
}

func TestDijkstra_DistancesAndCap(t *testing.T) {
	s := streets(t).Snapshot()
	res, err := dijkstra.Dijkstra(s, "A")
	require.NoError(t, err)

	want := map[string]float64{"A": 0, "B": 2, "C": 1, "D": 3, "E": 5}
	for id, d := range want {
		v, _ := s.VertexIndex(id)
		require.Equal(t, d, res.Dist[v], id)
	}
	island, _ := s.VertexIndex("island")
	require.True(t, math.IsInf(res.Dist[island], 1))
	require.False(t, res.Reached(island))

	res, err = dijkstra.Dijkstra(s, "A", dijkstra.WithMaxDistance(3))
	require.NoError(t, err)
	e, _ := s.VertexIndex("E")
	d, _ := s.VertexIndex("D")
	require.False(t, res.Reached(e))
	require.True(t, res.Reached(d))
	_, err = res.PathTo(s, "E")
	require.ErrorIs(t, err, dijkstra.ErrUnreachable)
}

func TestShortestPath_ParallelEdges(t *testing.T) {
	g := core.NewGraph(core.WithMultiEdges())
	_, _ = g.AddEdge("u", "v", 9)
	_, _ = g.AddEdge("u", "v", 2)
	_, dist, err := dijkstra.ShortestPath(g.Snapshot(), "u", "v")
	require.NoError(t, err)
	require.Equal(t, 2.0, dist, "the cheapest parallel arc is used")
}

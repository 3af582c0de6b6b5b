package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/detour/core"
)

func TestSnapshot_IndexingAndIsolation(t *testing.T) {
	g := diamond(t)
	s := g.Snapshot()

	require.Equal(t, 4, s.VertexCount())
	require.Equal(t, 5, s.EdgeCount())
	a, ok := s.VertexIndex("A")
	require.True(t, ok)
	require.Equal(t, 0, a, "vertex indices follow sorted IDs")
	require.Equal(t, "D", s.VertexID(3))
	_, ok = s.VertexIndex("Z")
	require.False(t, ok)

	// Out arcs of A are A→B (e1) then A→C (e3).
	out := s.OutArcs(a)
	require.Len(t, out, 2)
	require.Equal(t, "e1", s.Arc(out[0]).ID)
	require.Equal(t, "e3", s.Arc(out[1]).ID)
	require.False(t, s.Removed(out[0]))

	// Mutations after the snapshot are invisible.
	require.NoError(t, g.Apply(func(tx *core.Tx) error {
		_, err := tx.AddLength("e1", 10)
		return err
	}))
	_, err := g.AddEdge("B", "C", 1)
	require.NoError(t, err)

	e, err := s.PrimaryEdge("A", "B")
	require.NoError(t, err)
	require.Equal(t, 1.0, e.Length)
	require.Equal(t, 5, s.EdgeCount())
	_, err = s.PrimaryEdge("B", "C")
	require.ErrorIs(t, err, core.ErrEdgeNotFound)
	_, err = s.PrimaryEdge("Z", "C")
	require.ErrorIs(t, err, core.ErrEdgeNotFound)
}

func TestSnapshot_PrimaryArcWithParallels(t *testing.T) {
	g := core.NewGraph(core.WithMultiEdges())
	_, _ = g.AddEdge("u", "v", 7)
	_, _ = g.AddEdge("u", "v", 1)
	s := g.Snapshot()
	u, _ := s.VertexIndex("u")
	v, _ := s.VertexIndex("v")
	arc, ok := s.PrimaryArc(u, v)
	require.True(t, ok)
	require.Equal(t, 7.0, arc.Length)
	_, ok = s.PrimaryArc(v, u)
	require.False(t, ok)
}

func TestOverlay_RemoveAndReset(t *testing.T) {
	s := diamond(t).Snapshot()
	o := core.NewOverlay(s)
	require.Zero(t, o.RemovedCount())

	o.Remove(3)
	o.Remove(1)
	o.Remove(3)  // duplicate
	o.Remove(-1) // out of range
	o.Remove(99)
	require.True(t, o.Removed(1))
	require.True(t, o.Removed(3))
	require.False(t, o.Removed(0))
	require.Equal(t, []int{1, 3}, o.RemovedEdges())
	require.Equal(t, 2, o.RemovedCount())

	// The shared snapshot is untouched.
	require.False(t, s.Removed(1))

	o.Reset()
	require.Zero(t, o.RemovedCount())
	require.False(t, o.Removed(1))
}

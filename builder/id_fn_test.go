package builder_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/detour/builder"
)

// assertPanics fails the test if fn does not panic.
func assertPanics(t *testing.T, fn func(), name string) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s: expected panic, but none occurred", name)
		}
	}()
	fn()
}

func TestIDFns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		fn          builder.IDFn
		input       int
		want        string
		shouldPanic bool
	}{
		{"DefaultIDFn_zero", builder.DefaultIDFn, 0, "0", false},
		{"DefaultIDFn_multi", builder.DefaultIDFn, 123, "123", false},

		{"AvenueIDFn_zero", builder.AvenueIDFn, 0, "A", false},
		{"AvenueIDFn_endSingle", builder.AvenueIDFn, 25, "Z", false},
		{"AvenueIDFn_startDouble", builder.AvenueIDFn, 26, "AA", false},
		{"AvenueIDFn_ZZ", builder.AvenueIDFn, 701, "ZZ", false},
		{"AvenueIDFn_neg", builder.AvenueIDFn, -1, "", true},

		{"PrefixIDFn_exit", builder.PrefixIDFn("exit"), 7, "exit7", false},
		{"PrefixIDFn_neg", builder.PrefixIDFn("exit"), -1, "", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if tc.shouldPanic {
				assertPanics(t, func() { tc.fn(tc.input) }, tc.name)
				return
			}
			if got := tc.fn(tc.input); got != tc.want {
				t.Errorf("%s(%d) = %q; want %q", tc.name, tc.input, got, tc.want)
			}
		})
	}

	assertPanics(t, func() { builder.WithIDScheme(nil) }, "WithIDScheme(nil)")
}

func TestRing(t *testing.T) {
	g, err := builder.BuildNetwork(nil, nil, builder.Ring(8))
	require.NoError(t, err)
	require.Equal(t, 8, g.VertexCount())
	require.Equal(t, 16, g.EdgeCount())
	require.True(t, g.HasEdge("ring-7", "ring-0"))
	require.True(t, g.HasEdge("ring-0", "ring-7"))

	// Chord of a regular octagon with circumference 800.
	radius := 800 / (2 * math.Pi)
	e, err := g.PrimaryEdge("ring-0", "ring-1")
	require.NoError(t, err)
	require.InDelta(t, 2*radius*math.Sin(math.Pi/8), e.Length, 1e-9)

	round, err := builder.BuildNetwork(nil, []builder.BuilderOption{
		builder.WithOneWayStreets(), builder.WithPrefixIDs("rb"),
	}, builder.Ring(4))
	require.NoError(t, err)
	require.Equal(t, 4, round.EdgeCount())
	require.True(t, round.HasEdge("rb3", "rb0"))
	require.False(t, round.HasEdge("rb0", "rb3"))

	_, err = builder.BuildNetwork(nil, nil, builder.Ring(2))
	require.ErrorIs(t, err, builder.ErrTooFewVertices)
}

func TestCorridor_JoinsGrid(t *testing.T) {
	g, err := builder.BuildNetwork(nil, nil, builder.Grid(2, 2))
	require.NoError(t, err)
	require.NoError(t, builder.Apply(g, []builder.BuilderOption{
		builder.WithAvenueIDs(),
		builder.WithOrigin(orb.Point{0, -500}),
		builder.WithSpacing(250),
	}, builder.Corridor(3)))

	require.Equal(t, 7, g.VertexCount())
	e, err := g.PrimaryEdge("B", "C")
	require.NoError(t, err)
	require.Equal(t, 250.0, e.Length)
	require.True(t, g.HasEdge("C", "B"))

	v, err := g.Vertex("C")
	require.NoError(t, err)
	require.Equal(t, 500.0, v.Point[0])

	_, err = builder.BuildNetwork(nil, nil, builder.Corridor(1))
	require.ErrorIs(t, err, builder.ErrTooFewVertices)
}

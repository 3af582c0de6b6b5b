package prm_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/detour/bfs"
	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/prm"
	"github.com/katalvlaran/detour/rng"
	"github.com/katalvlaran/detour/route"
)

// ladder is a 2x3 block: A→B→C→F along the top and A→D→E→F along the bottom,
// unit lengths. Those are the only two A→F routes.
func ladder(t *testing.T) *core.Snapshot {
	t.Helper()
	g := core.NewGraph()
	for _, e := range [][2]string{
		{"A", "B"}, {"B", "C"}, {"C", "F"},
		{"A", "D"}, {"D", "E"}, {"E", "F"},
	} {
		_, err := g.AddEdge(e[0], e[1], 1)
		require.NoError(t, err)
	}

	return g.Snapshot()
}

// grid builds an n×n two-way street grid with unit lengths; vertices are "r,c".
func grid(t *testing.T, n int) *core.Snapshot {
	t.Helper()
	return block(t, n, n)
}

// block builds a rows×cols two-way street grid with unit lengths.
func block(t *testing.T, rows, cols int) *core.Snapshot {
	t.Helper()
	g := core.NewGraph()
	id := func(r, c int) string { return fmt.Sprintf("%d,%d", r, c) }
	two := func(a, b string) {
		_, err := g.AddEdge(a, b, 1)
		require.NoError(t, err)
		_, err = g.AddEdge(b, a, 1)
		require.NoError(t, err)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				two(id(r, c), id(r, c+1))
			}
			if r+1 < rows {
				two(id(r, c), id(r+1, c))
			}
		}
	}

	return g.Snapshot()
}

func TestFindAlternatives_Validation(t *testing.T) {
	s := ladder(t)
	r := rng.New(7)

	_, err := prm.FindAlternatives(nil, "A", "F", r)
	require.ErrorIs(t, err, prm.ErrNilSnapshot)
	_, err = prm.FindAlternatives(s, "A", "A", r)
	require.ErrorIs(t, err, prm.ErrSameEndpoints)
	_, err = prm.FindAlternatives(s, "Z", "F", r)
	require.ErrorIs(t, err, core.ErrVertexNotFound)
	_, err = prm.FindAlternatives(s, "A", "Z", r)
	require.ErrorIs(t, err, core.ErrVertexNotFound)

	for name, opt := range map[string]prm.Option{
		"k":         prm.WithK(0),
		"threshold": prm.WithThreshold(1),
		"negative":  prm.WithThreshold(-0.1),
		"attempts":  prm.WithMaxAttempts(0),
		"fraction":  prm.WithRemovalFraction(1.5),
		"workers":   prm.WithWorkers(0),
	} {
		_, err = prm.FindAlternatives(s, "A", "F", r, opt)
		require.ErrorIs(t, err, prm.ErrOptionViolation, name)
	}
}

// The one-way ladder has six arcs, so the default fraction removes none
// (int(6*0.15) == 0) and every attempt returns the same shortest path. The
// ladder scenarios raise the fraction to make removals happen at all.
func TestFindAlternatives_TwoRouteBlock(t *testing.T) {
	s := ladder(t)
	res, err := prm.FindAlternatives(s, "A", "F", rng.New(42),
		prm.WithK(2), prm.WithRemovalFraction(0.5), prm.WithMaxAttempts(60))
	require.NoError(t, err)
	require.Len(t, res.Paths, 2)
	require.False(t, res.Exhausted)
	require.LessOrEqual(t, res.Attempts, 60)

	got := map[string]bool{}
	for i, p := range res.Paths {
		got[fmt.Sprint(p)] = true
		require.Equal(t, 3.0, res.Lengths[i])
	}
	require.Equal(t, map[string]bool{"[A B C F]": true, "[A D E F]": true}, got)
	require.Greater(t, route.Difference(res.Paths[1], res.Paths[0]), prm.DefaultThreshold)
}

func TestFindAlternatives_PopulationLimited(t *testing.T) {
	s := ladder(t)
	res, err := prm.FindAlternatives(s, "A", "F", rng.New(3),
		prm.WithK(5), prm.WithRemovalFraction(0.5))
	require.NoError(t, err)
	require.LessOrEqual(t, len(res.Paths), 2)
	require.NotEmpty(t, res.Paths, "the first candidate is always accepted")
	require.True(t, res.Exhausted)
	require.Equal(t, prm.DefaultMaxAttempts, res.Attempts)
}

// A two-way 2x3 block with default options: 14 arcs, two removed per attempt.
// Only the top and bottom corner-to-corner routes differ enough from each
// other; the middle zig-zag shares three of four vertices with either.
func TestFindAlternatives_TwoWayBlockDefaults(t *testing.T) {
	s := block(t, 2, 3)
	require.Equal(t, 14, s.EdgeCount())
	top, bottom := "[0,0 0,1 0,2 1,2]", "[0,0 1,0 1,1 1,2]"

	pairs := 0
	for seed := int64(1); seed <= 50; seed++ {
		res, err := prm.FindAlternatives(s, "0,0", "1,2", rng.New(seed))
		require.NoError(t, err, "seed %d", seed)
		require.NotEmpty(t, res.Paths, "seed %d", seed)
		require.LessOrEqual(t, len(res.Paths), 2, "seed %d", seed)
		require.LessOrEqual(t, res.Attempts, prm.DefaultMaxAttempts)
		if len(res.Paths) < 2 {
			require.True(t, res.Exhausted, "seed %d", seed)
			continue
		}
		pairs++
		got := map[string]bool{fmt.Sprint(res.Paths[0]): true, fmt.Sprint(res.Paths[1]): true}
		require.Equal(t, map[string]bool{top: true, bottom: true}, got, "seed %d", seed)
	}
	require.Positive(t, pairs, "some seed finds both block routes")
}

func TestFindAlternatives_Deterministic(t *testing.T) {
	s := grid(t, 6)
	run := func(workers int) *prm.Result {
		res, err := prm.FindAlternatives(s, "0,0", "5,5", rng.New(2024),
			prm.WithK(4), prm.WithMaxAttempts(25), prm.WithWorkers(workers))
		require.NoError(t, err)
		return res
	}

	first := run(1)
	if diff := cmp.Diff(first, run(1)); diff != "" {
		t.Fatalf("same seed, different result (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, run(4)); diff != "" {
		t.Fatalf("worker count changed the result (-1 +4):\n%s", diff)
	}
}

func TestFindAlternatives_DiversityInvariant(t *testing.T) {
	s := grid(t, 7)
	const threshold = 0.25
	for seed := int64(1); seed <= 5; seed++ {
		res, err := prm.FindAlternatives(s, "0,0", "6,6", rng.New(seed),
			prm.WithK(4), prm.WithThreshold(threshold), prm.WithMaxAttempts(30))
		require.NoError(t, err)
		require.LessOrEqual(t, len(res.Paths), 4)
		require.LessOrEqual(t, res.Attempts, 30)
		require.Len(t, res.Lengths, len(res.Paths))

		for i := 1; i < len(res.Paths); i++ {
			for j := 0; j < i; j++ {
				require.Greater(t, route.Difference(res.Paths[i], res.Paths[j]), threshold,
					"seed %d: path %d too close to path %d", seed, i, j)
				require.Greater(t, route.Difference(res.Paths[j], res.Paths[i]), threshold,
					"seed %d: path %d too close to path %d", seed, j, i)
			}
		}
		for i, p := range res.Paths {
			require.Equal(t, "0,0", p[0])
			require.Equal(t, "6,6", p[len(p)-1])
			cost, err := route.Cost(s, p)
			require.NoError(t, err)
			require.Equal(t, cost, res.Lengths[i])
		}
	}
}

func TestFindAlternatives_ThinnedStaysConnected(t *testing.T) {
	s := grid(t, 5)
	var (
		mu      sync.Mutex
		thinned int
		removed int
	)
	_, err := prm.FindAlternatives(s, "0,0", "4,4", rng.New(11),
		prm.WithRemovalFraction(0.6), prm.WithMaxAttempts(12), prm.WithWorkers(3),
		prm.WithOnThinned(func(_ int, o *core.Overlay) {
			ok, err := bfs.HasPath(o, "0,0", "4,4")
			mu.Lock()
			defer mu.Unlock()
			if err != nil || !ok {
				t.Errorf("thinned overlay disconnected: ok=%v err=%v", ok, err)
			}
			thinned++
			removed += o.RemovedCount()
		}))
	require.NoError(t, err)
	require.Positive(t, thinned)
	require.Positive(t, removed)
}

func TestFindAlternatives_Unreachable(t *testing.T) {
	g := core.NewGraph()
	_, _ = g.AddEdge("A", "B", 1)
	_, _ = g.AddEdge("C", "D", 1)
	var outcomes []prm.Outcome
	res, err := prm.FindAlternatives(g.Snapshot(), "A", "D", rng.New(1),
		prm.WithOnAttempt(func(_ int, o prm.Outcome) { outcomes = append(outcomes, o) }))
	require.NoError(t, err)
	require.Empty(t, res.Paths)
	require.True(t, res.Exhausted)
	require.Equal(t, prm.DefaultMaxAttempts, res.Attempts)
	require.Len(t, outcomes, prm.DefaultMaxAttempts)
	for _, o := range outcomes {
		require.Equal(t, prm.OutcomeUnreachable, o)
	}
}

func TestFindAlternatives_TinyGraphNoRemoval(t *testing.T) {
	g := core.NewGraph()
	_, _ = g.AddEdge("A", "B", 5)
	var accepted []int
	res, err := prm.FindAlternatives(g.Snapshot(), "A", "B", nil,
		prm.WithOnAccept(func(i int, _ route.Path, length float64) {
			accepted = append(accepted, i)
			require.Equal(t, 5.0, length)
		}))
	require.NoError(t, err)
	require.Equal(t, []route.Path{{"A", "B"}}, res.Paths)
	require.Equal(t, []int{0}, accepted)
	require.Equal(t, prm.DefaultMaxAttempts, res.Attempts, "duplicates are rejected until attempts run out")
}

func TestFindAlternatives_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := prm.FindAlternatives(ladder(t), "A", "F", rng.New(1), prm.WithContext(ctx))
	require.ErrorIs(t, err, context.Canceled)
}

func TestOutcome_String(t *testing.T) {
	require.Equal(t, "accepted", prm.OutcomeAccepted.String())
	require.Equal(t, "not_diverse", prm.OutcomeNotDiverse.String())
	require.Equal(t, "unreachable", prm.OutcomeUnreachable.String())
	require.Equal(t, "unknown", prm.Outcome(9).String())
}

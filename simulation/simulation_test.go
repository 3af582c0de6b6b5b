package simulation_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/detour/builder"
	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/dijkstra"
	"github.com/katalvlaran/detour/metrics"
	"github.com/katalvlaran/detour/prm"
	"github.com/katalvlaran/detour/render"
	"github.com/katalvlaran/detour/rng"
	"github.com/katalvlaran/detour/route"
	"github.com/katalvlaran/detour/simulation"
)

type recorder struct {
	mu     sync.Mutex
	scenes []render.Scene
	err    error
}

func (r *recorder) Render(_ context.Context, s render.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenes = append(r.scenes, s)

	return r.err
}

func grid(t *testing.T, n int) *core.Graph {
	t.Helper()
	g, err := builder.BuildNetwork(nil, nil, builder.Grid(n, n))
	require.NoError(t, err)

	return g
}

func run(t *testing.T, g *core.Graph, seed int64, opts ...simulation.Option) *simulation.Report {
	t.Helper()
	opts = append([]simulation.Option{simulation.WithPRMOptions(prm.WithMaxAttempts(60))}, opts...)
	rep, err := simulation.Run(context.Background(), g, "0,0", "5,5", rng.New(seed), opts...)
	require.NoError(t, err)

	return rep
}

func TestRun_Stages(t *testing.T) {
	rec := &recorder{}
	rep := run(t, grid(t, 6), 7, simulation.WithRenderer(rec))

	require.NotEqual(t, "", rep.RunID.String())
	require.Equal(t, "0,0", rep.Baseline[0])
	require.Equal(t, "5,5", rep.Baseline[len(rep.Baseline)-1])
	require.Len(t, rep.Baseline, 11)
	require.InDelta(t, 1000, rep.BaselineMeters, 1e-9)

	require.NotEmpty(t, rep.Alternatives)
	require.LessOrEqual(t, len(rep.Alternatives), prm.DefaultK)
	require.Len(t, rep.AlternativeMeters, len(rep.Alternatives))
	for i := range rep.Alternatives {
		for j := 0; j < i; j++ {
			require.Greater(t, route.Difference(rep.Alternatives[i], rep.Alternatives[j]), prm.DefaultThreshold)
			require.Greater(t, route.Difference(rep.Alternatives[j], rep.Alternatives[i]), prm.DefaultThreshold)
		}
	}

	require.NotEmpty(t, rep.Updates)
	require.Greater(t, rep.BaselineCongestedMeters, rep.BaselineMeters)
	require.LessOrEqual(t, rep.ReroutedMeters, rep.BaselineCongestedMeters+1e-9)
	require.Equal(t, !route.Equal(rep.Baseline, rep.Rerouted), rep.Diverged)

	require.Len(t, rec.scenes, 3)
	base, alts, dyn := rec.scenes[0], rec.scenes[1], rec.scenes[2]
	require.True(t, strings.HasPrefix(base.Title, simulation.BaselineTitle+"\nDistance: "), base.Title)
	require.Equal(t, []string{simulation.BaselineColor}, base.Colors)
	require.Equal(t, "Dijkstra's Algorithm - Shortest Path\nDistance: 1.00km", base.Title)

	require.Equal(t, simulation.AlternativesTitle, alts.Title)
	require.True(t, alts.ShowNodes)
	require.Equal(t, "yellow", alts.Colors[0])
	require.Len(t, alts.Routes, len(rep.Alternatives))

	require.True(t, strings.HasPrefix(dyn.Title, simulation.ReroutedTitle+"\nDistance with traffic: "), dyn.Title)
	require.Equal(t, []string{simulation.ReroutedColor}, dyn.Colors)
	require.Equal(t, rep.Rerouted, dyn.Routes[0])
}

func TestRun_Deterministic(t *testing.T) {
	a := run(t, grid(t, 6), 42)
	b := run(t, grid(t, 6), 42)
	if diff := cmp.Diff(a, b, cmpopts.IgnoreFields(simulation.Report{}, "RunID")); diff != "" {
		t.Fatalf("same seed, different reports (-a +b):\n%s", diff)
	}
	require.NotEqual(t, a.RunID, b.RunID)
}

func TestRun_NoRoute(t *testing.T) {
	g := grid(t, 6)
	require.NoError(t, g.AddVertex("island"))
	reg := prometheus.NewRegistry()
	rec := &recorder{}

	_, err := simulation.Run(context.Background(), g, "0,0", "island", rng.New(1),
		simulation.WithRenderer(rec), simulation.WithMetrics(metrics.New(reg)))
	require.ErrorIs(t, err, simulation.ErrNoRoute)
	require.ErrorIs(t, err, dijkstra.ErrUnreachable)
	require.Empty(t, rec.scenes)

	n, err := testutil.GatherAndCount(reg, "detour_simulation_runs_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestRun_UnknownVertex(t *testing.T) {
	_, err := simulation.Run(context.Background(), grid(t, 3), "0,0", "nowhere", rng.New(1))
	require.Error(t, err)
	require.ErrorIs(t, err, dijkstra.ErrVertexNotFound)
	require.False(t, errors.Is(err, simulation.ErrNoRoute))
}

func TestRun_DegradesGracefully(t *testing.T) {
	t.Run("render failure", func(t *testing.T) {
		rec := &recorder{err: errors.New("disk full")}
		rep := run(t, grid(t, 6), 3, simulation.WithRenderer(rec))
		require.Len(t, rec.scenes, 3)
		require.NotEmpty(t, rep.Rerouted)
	})

	t.Run("cancelled sampling", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		rep, err := simulation.Run(ctx, grid(t, 6), "0,0", "5,5", rng.New(3))
		require.NoError(t, err)
		require.Empty(t, rep.Alternatives)
		require.NotEmpty(t, rep.Updates)
		require.NotEmpty(t, rep.Rerouted)
	})
}

func TestRun_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	run(t, grid(t, 6), 11, simulation.WithMetrics(metrics.New(reg)))

	for _, name := range []string{
		"detour_prm_attempts_total",
		"detour_traffic_updates_total",
		"detour_route_km",
		"detour_simulation_runs_total",
	} {
		n, err := testutil.GatherAndCount(reg, name)
		require.NoError(t, err)
		require.Positive(t, n, name)
	}
}

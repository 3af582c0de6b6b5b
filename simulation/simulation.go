// Package simulation sequences one routing scenario over a shared network:
// baseline shortest path, alternative routes, congestion injection around
// the baseline, then a fresh route under the congested lengths. Each stage is
// handed to a render.Renderer.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/dijkstra"
	"github.com/katalvlaran/detour/metrics"
	"github.com/katalvlaran/detour/prm"
	"github.com/katalvlaran/detour/render"
	"github.com/katalvlaran/detour/route"
	"github.com/katalvlaran/detour/traffic"
)

// ErrNoRoute is returned when source and target are not connected; it wraps
// dijkstra.ErrUnreachable.
var ErrNoRoute = errors.New("simulation: no route between source and target")

// Scene titles and colors.
const (
	BaselineTitle     = "Dijkstra's Algorithm - Shortest Path"
	AlternativesTitle = "PRM Alternative Routes\nMultiple paths with varying distances"
	ReroutedTitle     = "Dynamic (Waze-like) Routing"

	BaselineColor = "red"
	ReroutedColor = "blue"
)

// AlternativeColors cycles over alternative routes.
var AlternativeColors = []string{"yellow", "orange", "pink"}

var tracer = otel.Tracer("github.com/katalvlaran/detour/simulation")

// Report summarizes one run.
type Report struct {
	RunID  uuid.UUID `json:"run_id"`
	Source string    `json:"source"`
	Target string    `json:"target"`

	Baseline       route.Path `json:"baseline"`
	BaselineMeters float64    `json:"baseline_meters"`

	Alternatives      []route.Path `json:"alternatives"`
	AlternativeMeters []float64    `json:"alternative_meters"`
	Attempts          int          `json:"attempts"`

	Updates []traffic.Update `json:"updates"`

	// BaselineCongestedMeters is the baseline costed after congestion.
	BaselineCongestedMeters float64    `json:"baseline_congested_meters"`
	Rerouted                route.Path `json:"rerouted"`
	ReroutedMeters          float64    `json:"rerouted_meters"`

	// Diverged reports whether the rerouted path differs from the baseline.
	Diverged bool `json:"diverged"`
}

// Options configures Run.
type Options struct {
	PRM      []prm.Option
	Traffic  []traffic.Option
	Renderer render.Renderer
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Option configures Run.
type Option func(*Options)

// WithPRMOptions forwards options to prm.FindAlternatives.
func WithPRMOptions(opts ...prm.Option) Option {
	return func(o *Options) { o.PRM = append(o.PRM, opts...) }
}

// WithTrafficOptions forwards options to traffic.Inject.
func WithTrafficOptions(opts ...traffic.Option) Option {
	return func(o *Options) { o.Traffic = append(o.Traffic, opts...) }
}

// WithRenderer sets the scene renderer (default render.Nop).
func WithRenderer(r render.Renderer) Option {
	return func(o *Options) {
		if r != nil {
			o.Renderer = r
		}
	}
}

// WithMetrics records the run on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithLogger sets the structured logger; it is forwarded to prm and traffic.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Run executes the scenario on g, mutating its lengths through
// traffic.Inject. Randomness comes only from r.
//
// An unreachable target aborts with ErrNoRoute. A failing alternative search
// or congestion injection is logged and the run continues without it.
func Run(ctx context.Context, g *core.Graph, source, target string, r *rand.Rand, opts ...Option) (rep *Report, err error) {
	cfg := Options{
		Renderer: render.Nop{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rep = &Report{RunID: uuid.New(), Source: source, Target: target}
	log := cfg.Logger.With("run", rep.RunID.String())
	ctx, span := tracer.Start(ctx, "simulation.Run", trace.WithAttributes(
		attribute.String("run_id", rep.RunID.String()),
		attribute.String("source", source),
		attribute.String("target", target),
	))
	start := time.Now()
	defer func() {
		result := "ok"
		switch {
		case errors.Is(err, ErrNoRoute):
			result = "no_route"
		case err != nil:
			result = "error"
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, result)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		cfg.Metrics.Run(result, time.Since(start))
	}()

	if err := baseline(ctx, g, rep, &cfg, log); err != nil {
		return nil, err
	}
	alternatives(ctx, g, rep, r, &cfg, log)
	congest(ctx, g, rep, r, &cfg, log)
	if err := reroute(ctx, g, rep, &cfg, log); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("alternatives", len(rep.Alternatives)),
		attribute.Int("updates", len(rep.Updates)),
		attribute.Bool("diverged", rep.Diverged),
	)

	return rep, nil
}

func shortest(snap *core.Snapshot, source, target string) (route.Path, float64, error) {
	p, _, err := dijkstra.ShortestPath(snap, source, target)
	if errors.Is(err, dijkstra.ErrUnreachable) {
		return nil, 0, fmt.Errorf("%w: %s -> %s: %w", ErrNoRoute, source, target, err)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("simulation: %w", err)
	}
	meters, err := route.Cost(snap, p)
	if err != nil {
		return nil, 0, fmt.Errorf("simulation: %w", err)
	}

	return p, meters, nil
}

func baseline(ctx context.Context, g *core.Graph, rep *Report, cfg *Options, log *slog.Logger) error {
	_, span := tracer.Start(ctx, "simulation.baseline")
	defer span.End()

	snap := g.Snapshot()
	p, meters, err := shortest(snap, rep.Source, rep.Target)
	if err != nil {
		span.RecordError(err)
		return err
	}
	rep.Baseline, rep.BaselineMeters = p, meters
	km := route.Kilometers(meters)
	log.Info("baseline path found", "nodes", len(p), "km", km)
	cfg.Metrics.Route("baseline", km)

	draw(ctx, cfg, log, render.Scene{
		Title:     fmt.Sprintf("%s\nDistance: %.2fkm", BaselineTitle, km),
		Network:   snap,
		Routes:    []route.Path{p},
		Colors:    []string{BaselineColor},
		Distances: []float64{km},
	})

	return nil
}

func alternatives(ctx context.Context, g *core.Graph, rep *Report, r *rand.Rand, cfg *Options, log *slog.Logger) {
	ctx, span := tracer.Start(ctx, "simulation.alternatives")
	defer span.End()

	snap := g.Snapshot()
	opts := []prm.Option{
		prm.WithContext(ctx),
		prm.WithLogger(log),
		prm.WithOnAttempt(func(_ int, o prm.Outcome) { cfg.Metrics.Attempt(o.String()) }),
	}
	res, err := prm.FindAlternatives(snap, rep.Source, rep.Target, r, append(opts, cfg.PRM...)...)
	if err != nil {
		span.RecordError(err)
		log.Warn("alternative search failed", "err", err)
		return
	}
	rep.Alternatives, rep.AlternativeMeters, rep.Attempts = res.Paths, res.Lengths, res.Attempts
	cfg.Metrics.Alternatives(len(res.Paths))
	span.SetAttributes(attribute.Int("paths", len(res.Paths)), attribute.Int("attempts", res.Attempts))
	if res.Exhausted {
		log.Info("alternative search exhausted", "paths", len(res.Paths), "attempts", res.Attempts)
	}
	if len(res.Paths) == 0 {
		return
	}

	km := make([]float64, len(res.Lengths))
	colors := make([]string, len(res.Paths))
	for i := range res.Paths {
		km[i] = route.Kilometers(res.Lengths[i])
		colors[i] = AlternativeColors[i%len(AlternativeColors)]
		cfg.Metrics.Route("alternative", km[i])
	}
	draw(ctx, cfg, log, render.Scene{
		Title:     AlternativesTitle,
		Network:   snap,
		Routes:    res.Paths,
		Colors:    colors,
		Distances: km,
		ShowNodes: true,
	})
}

func congest(ctx context.Context, g *core.Graph, rep *Report, r *rand.Rand, cfg *Options, log *slog.Logger) {
	_, span := tracer.Start(ctx, "simulation.congestion")
	defer span.End()

	opts := append([]traffic.Option{traffic.WithLogger(log)}, cfg.Traffic...)
	updates, err := traffic.Inject(g, rep.Baseline, r, opts...)
	if err != nil {
		span.RecordError(err)
		log.Warn("congestion injection failed", "err", err)
		return
	}
	rep.Updates = updates
	for _, u := range updates {
		cfg.Metrics.Update(u.Kind.String(), u.Penalty)
	}
	span.SetAttributes(attribute.Int("updates", len(updates)))
	log.Info("traffic updated", "updates", len(updates))
}

func reroute(ctx context.Context, g *core.Graph, rep *Report, cfg *Options, log *slog.Logger) error {
	_, span := tracer.Start(ctx, "simulation.reroute")
	defer span.End()

	snap := g.Snapshot()
	if m, err := route.Cost(snap, rep.Baseline); err == nil {
		rep.BaselineCongestedMeters = m
	}
	p, meters, err := shortest(snap, rep.Source, rep.Target)
	if err != nil {
		span.RecordError(err)
		return err
	}
	rep.Rerouted, rep.ReroutedMeters = p, meters
	rep.Diverged = !route.Equal(p, rep.Baseline)
	km := route.Kilometers(meters)
	log.Info("dynamic route found", "nodes", len(p), "km", km, "diverged", rep.Diverged)
	cfg.Metrics.Route("rerouted", km)

	draw(ctx, cfg, log, render.Scene{
		Title:     fmt.Sprintf("%s\nDistance with traffic: %.2fkm", ReroutedTitle, km),
		Network:   snap,
		Routes:    []route.Path{p},
		Colors:    []string{ReroutedColor},
		Distances: []float64{km},
	})

	return nil
}

func draw(ctx context.Context, cfg *Options, log *slog.Logger, s render.Scene) {
	if err := cfg.Renderer.Render(ctx, s); err != nil {
		log.Warn("render failed", "title", render.Slug(s.Title), "err", err)
	}
}

// Package traffic emulates congestion on the canonical road network: heavy
// penalties on the segments leaving busy junctions of a route, and light
// background penalties elsewhere.
//
// Inject mutates the network in place inside a single core.Graph.Apply
// transaction, so concurrent readers see either none or all of the updates.
package traffic

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/rng"
	"github.com/katalvlaran/detour/route"
)

// Sentinel errors for congestion injection.
var (
	// ErrEmptyBaseline is returned when the baseline path has no vertices.
	ErrEmptyBaseline = errors.New("traffic: baseline path is empty")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("traffic: invalid option supplied")
)

// Kind tells which rule produced an Update.
type Kind int

const (
	// KindHotspot marks a penalty on a segment leaving a major intersection.
	KindHotspot Kind = iota

	// KindBackground marks a penalty on a segment away from the baseline.
	KindBackground
)

// String returns "hotspot" or "background".
func (k Kind) String() string {
	if k == KindHotspot {
		return "hotspot"
	}

	return "background"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Update records one length increase applied to the network.
type Update struct {
	EdgeID     string  `json:"edge_id"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	Penalty    float64 `json:"penalty"`    // meters added, > 0
	Multiplier float64 `json:"multiplier"` // Penalty / length before the update
	Kind       Kind    `json:"kind"`
}

// Options tunes the congestion model.
type Options struct {
	// HotspotInDegree: baseline vertices with more distinct predecessors than
	// this are major intersections.
	HotspotInDegree int

	HotspotLo, HotspotHi float64

	// BackgroundCount is the number of off-route segments penalized; clamped
	// to the number of off-route segments with positive length.
	BackgroundCount int

	BackgroundLo, BackgroundHi float64

	Logger *slog.Logger

	err error
}

// Option configures Inject.
type Option func(*Options)

// DefaultOptions: junctions with more than 2 predecessors, hotspot
// multiplier U(3,8), 15 background segments with multiplier U(1.5,3).
func DefaultOptions() Options {
	return Options{
		HotspotInDegree: 2,
		HotspotLo:       3,
		HotspotHi:       8,
		BackgroundCount: 15,
		BackgroundLo:    1.5,
		BackgroundHi:    3,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (o *Options) fail(err error) {
	if o.err == nil {
		o.err = err
	}
}

func checkRange(name string, lo, hi float64) error {
	if !(lo > 0 && hi > lo) {
		return fmt.Errorf("%w: %s range [%v,%v)", ErrOptionViolation, name, lo, hi)
	}

	return nil
}

// WithHotspotInDegree sets the predecessor count a junction must exceed.
func WithHotspotInDegree(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.fail(fmt.Errorf("%w: hotspot in-degree %d", ErrOptionViolation, n))
			return
		}
		o.HotspotInDegree = n
	}
}

// WithHotspotRange sets the hotspot multiplier range [lo, hi).
func WithHotspotRange(lo, hi float64) Option {
	return func(o *Options) {
		if err := checkRange("hotspot", lo, hi); err != nil {
			o.fail(err)
			return
		}
		o.HotspotLo, o.HotspotHi = lo, hi
	}
}

// WithBackgroundCount sets how many off-route segments are penalized.
func WithBackgroundCount(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.fail(fmt.Errorf("%w: background count %d", ErrOptionViolation, n))
			return
		}
		o.BackgroundCount = n
	}
}

// WithBackgroundRange sets the background multiplier range [lo, hi).
func WithBackgroundRange(lo, hi float64) Option {
	return func(o *Options) {
		if err := checkRange("background", lo, hi); err != nil {
			o.fail(err)
			return
		}
		o.BackgroundLo, o.BackgroundHi = lo, hi
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Inject adds congestion to g around baseline and returns the audit log:
// hotspot updates first, then background updates, in generation order.
//
//  1. Major intersections are the distinct baseline vertices, in path order,
//     with more than HotspotInDegree predecessors.
//  2. The primary segment to each successor of a major intersection (sorted
//     by ID) grows by length*U(HotspotLo, HotspotHi).
//  3. min(BackgroundCount, population) primary segments whose start is not on
//     the baseline are drawn without replacement and grow by
//     length*U(BackgroundLo, BackgroundHi).
//
// Zero-length segments get no penalty and no Update. A nil r uses
// rng.DefaultSeed. Unknown baseline vertices fail with core.ErrVertexNotFound
// before anything is changed.
func Inject(g *core.Graph, baseline route.Path, r *rand.Rand, opts ...Option) ([]Update, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if len(baseline) == 0 {
		return nil, ErrEmptyBaseline
	}
	if r == nil {
		r = rng.New(rng.DefaultSeed)
	}

	var updates []Update
	err := g.Apply(func(tx *core.Tx) error {
		onPath := make(map[string]struct{}, len(baseline))
		for _, v := range baseline {
			if !tx.HasVertex(v) {
				return fmt.Errorf("traffic: baseline vertex %q: %w", v, core.ErrVertexNotFound)
			}
			onPath[v] = struct{}{}
		}

		hot, err := hotspots(tx, baseline, &cfg, r)
		if err != nil {
			return err
		}
		bg, err := background(tx, onPath, &cfg, r)
		if err != nil {
			return err
		}
		updates = append(hot, bg...)

		return nil
	})
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debug("traffic injected", "updates", len(updates), "hotspot", countKind(updates, KindHotspot))

	return updates, nil
}

// MajorIntersections returns the distinct baseline vertices, in path order,
// with more than inDegree predecessors.
func MajorIntersections(g *core.Graph, baseline route.Path, inDegree int) ([]string, error) {
	return majors(g, baseline, inDegree)
}

// predecessorLister is satisfied by *core.Graph and *core.Tx.
type predecessorLister interface {
	Predecessors(id string) ([]string, error)
}

func majors(net predecessorLister, baseline route.Path, inDegree int) ([]string, error) {
	seen := make(map[string]struct{}, len(baseline))
	var out []string
	for _, v := range baseline {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		preds, err := net.Predecessors(v)
		if err != nil {
			return nil, fmt.Errorf("traffic: baseline vertex %q: %w", v, err)
		}
		if len(preds) > inDegree {
			out = append(out, v)
		}
	}

	return out, nil
}

func hotspots(tx *core.Tx, baseline route.Path, cfg *Options, r *rand.Rand) ([]Update, error) {
	junctions, err := majors(tx, baseline, cfg.HotspotInDegree)
	if err != nil {
		return nil, err
	}
	var out []Update
	for _, v := range junctions {
		succs, err := tx.Successors(v)
		if err != nil {
			return nil, err
		}
		for _, w := range succs {
			e, err := tx.PrimaryEdge(v, w)
			if err != nil {
				continue
			}
			u, ok, err := penalize(tx, e, rng.Uniform(r, cfg.HotspotLo, cfg.HotspotHi), KindHotspot)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, u)
			}
		}
	}

	return out, nil
}

func background(tx *core.Tx, onPath map[string]struct{}, cfg *Options, r *rand.Rand) ([]Update, error) {
	var pop []core.Edge
	for _, e := range tx.PrimaryEdges() {
		if _, ok := onPath[e.From]; !ok && e.Length > 0 {
			pop = append(pop, e)
		}
	}
	var out []Update
	for _, i := range rng.Sample(r, len(pop), cfg.BackgroundCount) {
		u, ok, err := penalize(tx, pop[i], rng.Uniform(r, cfg.BackgroundLo, cfg.BackgroundHi), KindBackground)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, u)
		}
	}

	return out, nil
}

// penalize grows e by e.Length*m. Zero-length segments are left alone.
func penalize(tx *core.Tx, e core.Edge, m float64, kind Kind) (Update, bool, error) {
	if e.Length <= 0 {
		return Update{}, false, nil
	}
	penalty := e.Length * m
	if _, err := tx.AddLength(e.ID, penalty); err != nil {
		return Update{}, false, fmt.Errorf("traffic: edge %s: %w", e.ID, err)
	}

	return Update{EdgeID: e.ID, From: e.From, To: e.To, Penalty: penalty, Multiplier: m, Kind: kind}, true, nil
}

func countKind(us []Update, k Kind) int {
	var n int
	for _, u := range us {
		if u.Kind == k {
			n++
		}
	}

	return n
}

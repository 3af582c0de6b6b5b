package prm

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rhartert/sparsesets"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/detour/bfs"
	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/dijkstra"
	"github.com/katalvlaran/detour/rng"
	"github.com/katalvlaran/detour/route"
)

// FindAlternatives samples up to K diverse source→target routes on snap.
//
// Each attempt thins the network: it samples int(E*RemovalFraction) arcs and
// removes each one unless that would disconnect source from target, then takes
// the shortest path by length on what is left. A candidate is accepted when,
// against every accepted path, route.Difference exceeds Threshold in both
// directions; accepted paths are never evicted.
//
// Attempt i draws from rng.Stream(p, i) where p is one value drawn from r, so
// the result depends only on r's state, never on Workers. Running out of
// attempts is not an error: Result.Exhausted reports a partial set, which is
// empty when target is unreachable.
func FindAlternatives(snap *core.Snapshot, source, target string, r *rand.Rand, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	src, ok := snap.VertexIndex(source)
	if !ok {
		return nil, fmt.Errorf("prm: source %q: %w", source, core.ErrVertexNotFound)
	}
	dst, ok := snap.VertexIndex(target)
	if !ok {
		return nil, fmt.Errorf("prm: target %q: %w", target, core.ErrVertexNotFound)
	}
	if src == dst {
		return nil, ErrSameEndpoints
	}

	var parent int64 = rng.DefaultSeed
	if r != nil {
		parent = r.Int63()
	}
	f := &finder{
		cfg:     cfg,
		snap:    snap,
		source:  source,
		target:  target,
		src:     src,
		dst:     dst,
		parent:  parent,
		removed: int(float64(snap.EdgeCount()) * cfg.RemovalFraction),
		slots:   make([]*slot, cfg.Workers),
	}
	for i := range f.slots {
		f.slots[i] = &slot{
			overlay: core.NewOverlay(snap),
			witness: sparsesets.New(snap.EdgeCount()),
		}
	}

	return f.run()
}

// finder holds the state shared by all attempts of one call.
type finder struct {
	cfg            Options
	snap           *core.Snapshot
	source, target string
	src, dst       int
	parent         int64
	removed        int
	slots          []*slot

	res Result
}

// slot is the scratch space owned by one worker.
type slot struct {
	overlay *core.Overlay
	witness *sparsesets.Set
}

// candidate is the product of one attempt.
type candidate struct {
	path route.Path // nil when unreachable
}

func (f *finder) run() (*Result, error) {
	log := f.cfg.Logger
	for next := 0; next < f.cfg.MaxAttempts && len(f.res.Paths) < f.cfg.K; {
		if err := f.cfg.Ctx.Err(); err != nil {
			return nil, err
		}
		n := f.cfg.Workers
		if rest := f.cfg.MaxAttempts - next; rest < n {
			n = rest
		}

		cands := make([]candidate, n)
		var g errgroup.Group
		for j := 0; j < n; j++ {
			j := j
			g.Go(func() error {
				c, err := f.attempt(next+j, f.slots[j])
				cands[j] = c
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for j, c := range cands {
			if len(f.res.Paths) >= f.cfg.K {
				break
			}
			f.consider(next+j, c)
		}
		next += n
	}
	f.res.Exhausted = len(f.res.Paths) < f.cfg.K
	log.Debug("prm sampling finished",
		"paths", len(f.res.Paths), "attempts", f.res.Attempts, "exhausted", f.res.Exhausted)

	return &f.res, nil
}

// consider applies the diversity rule to the candidate of attempt i.
func (f *finder) consider(i int, c candidate) {
	f.res.Attempts++
	outcome := OutcomeUnreachable
	if c.path != nil {
		outcome = OutcomeAccepted
		for _, p := range f.res.Paths {
			if route.Difference(c.path, p) <= f.cfg.Threshold || route.Difference(p, c.path) <= f.cfg.Threshold {
				outcome = OutcomeNotDiverse
				break
			}
		}
	}
	if outcome == OutcomeAccepted {
		// Every consecutive pair of c.path exists in the snapshot.
		length, _ := route.Cost(f.snap, c.path)
		f.res.Paths = append(f.res.Paths, c.path)
		f.res.Lengths = append(f.res.Lengths, length)
		f.cfg.Logger.Debug("prm path found",
			"index", len(f.res.Paths), "attempt", i,
			"nodes", len(c.path), "km", route.Kilometers(length))
		if f.cfg.OnAccept != nil {
			f.cfg.OnAccept(i, c.path, length)
		}
	}
	if f.cfg.OnAttempt != nil {
		f.cfg.OnAttempt(i, outcome)
	}
}

// attempt thins the network for attempt i and returns its shortest path.
//
// The walk keeps a witness source→target path. Removing an arc off the witness
// cannot disconnect the endpoints, so only witness arcs need a BFS check; when
// the check finds another path, that path becomes the witness.
func (f *finder) attempt(i int, s *slot) (candidate, error) {
	r := rng.Stream(f.parent, uint64(i))
	o := s.overlay
	o.Reset()

	witness, err := bfs.Path(o, f.source, f.target)
	if errors.Is(err, bfs.ErrNoPath) {
		f.thinned(i, o)
		return candidate{}, nil
	}
	if err != nil {
		return candidate{}, err
	}
	f.setWitness(s, witness)

	for _, e := range rng.Sample(r, f.snap.EdgeCount(), f.removed) {
		if !s.witness.Contains(e) {
			o.Remove(e)
			continue
		}
		alt, err := bfs.Path(o, f.source, f.target, bfs.WithoutArc(e))
		if errors.Is(err, bfs.ErrNoPath) {
			continue
		}
		if err != nil {
			return candidate{}, err
		}
		o.Remove(e)
		f.setWitness(s, alt)
	}
	f.thinned(i, o)

	path, _, err := dijkstra.ShortestPath(o, f.source, f.target)
	if errors.Is(err, dijkstra.ErrUnreachable) {
		return candidate{}, nil
	}
	if err != nil {
		return candidate{}, err
	}

	return candidate{path: path}, nil
}

func (f *finder) setWitness(s *slot, arcs []int) {
	s.witness.Clear()
	for _, e := range arcs {
		s.witness.Insert(e)
	}
}

func (f *finder) thinned(i int, o *core.Overlay) {
	if f.cfg.OnThinned != nil {
		f.cfg.OnThinned(i, o)
	}
}

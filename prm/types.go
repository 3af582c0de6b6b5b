// Package prm defines options, results and errors for the alternative route
// sampler.
package prm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/route"
)

// Sentinel errors for sampling.
var (
	// ErrNilSnapshot is returned if a nil snapshot is passed.
	ErrNilSnapshot = errors.New("prm: snapshot is nil")

	// ErrSameEndpoints is returned when source and target are the same vertex.
	ErrSameEndpoints = errors.New("prm: source and target are identical")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("prm: invalid option supplied")
)

// Defaults.
const (
	DefaultK               = 3
	DefaultThreshold       = 0.3
	DefaultMaxAttempts     = 10
	DefaultRemovalFraction = 0.15
)

// Outcome classifies a finished sampling attempt.
type Outcome int

const (
	// OutcomeAccepted means the candidate joined the result set.
	OutcomeAccepted Outcome = iota

	// OutcomeNotDiverse means the candidate overlapped an accepted path too much.
	OutcomeNotDiverse

	// OutcomeUnreachable means the thinned network had no source→target path.
	OutcomeUnreachable
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeNotDiverse:
		return "not_diverse"
	case OutcomeUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Options holds sampler parameters and hooks.
type Options struct {
	// K is the number of paths requested.
	K int

	// Threshold is the minimum fraction of a candidate's vertices that must be
	// absent from every accepted path. Must lie in [0, 1).
	Threshold float64

	// MaxAttempts bounds the number of sampling attempts.
	MaxAttempts int

	// RemovalFraction is the share of arcs sampled for removal per attempt.
	RemovalFraction float64

	// Workers is the number of attempts run concurrently.
	Workers int

	Ctx    context.Context
	Logger *slog.Logger

	// OnAttempt is called once per counted attempt, in attempt order.
	OnAttempt func(attempt int, outcome Outcome)

	// OnThinned receives the thinned overlay before the shortest-path query.
	// With Workers > 1 it runs on worker goroutines, possibly concurrently,
	// and may also fire for attempts that finish after K paths were accepted.
	// The overlay is reused after the hook returns.
	OnThinned func(attempt int, o *core.Overlay)

	// OnAccept is called for every accepted path with its length in meters.
	OnAccept func(attempt int, p route.Path, length float64)

	err error
}

// Option configures FindAlternatives.
type Option func(*Options)

// DefaultOptions returns the sampler defaults: three paths, threshold 0.3,
// ten attempts, 15% of arcs sampled per attempt, one worker, discarded logs.
func DefaultOptions() Options {
	return Options{
		K:               DefaultK,
		Threshold:       DefaultThreshold,
		MaxAttempts:     DefaultMaxAttempts,
		RemovalFraction: DefaultRemovalFraction,
		Workers:         1,
		Ctx:             context.Background(),
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (o *Options) fail(format string, args ...interface{}) {
	if o.err == nil {
		o.err = fmt.Errorf("%w: "+format, append([]interface{}{ErrOptionViolation}, args...)...)
	}
}

// WithK sets the number of paths requested (k ≥ 1).
func WithK(k int) Option {
	return func(o *Options) {
		if k < 1 {
			o.fail("k must be positive (%d)", k)
			return
		}
		o.K = k
	}
}

// WithThreshold sets the diversity threshold (0 ≤ t < 1).
func WithThreshold(t float64) Option {
	return func(o *Options) {
		if !(t >= 0 && t < 1) {
			o.fail("threshold must lie in [0,1) (%v)", t)
			return
		}
		o.Threshold = t
	}
}

// WithMaxAttempts bounds the number of sampling attempts (n ≥ 1).
func WithMaxAttempts(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.fail("max attempts must be positive (%d)", n)
			return
		}
		o.MaxAttempts = n
	}
}

// WithRemovalFraction sets the share of arcs sampled per attempt (0 ≤ f ≤ 1).
func WithRemovalFraction(f float64) Option {
	return func(o *Options) {
		if !(f >= 0 && f <= 1) {
			o.fail("removal fraction must lie in [0,1] (%v)", f)
			return
		}
		o.RemovalFraction = f
	}
}

// WithWorkers runs up to n attempts concurrently (n ≥ 1). Results do not
// depend on n.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.fail("workers must be positive (%d)", n)
			return
		}
		o.Workers = n
	}
}

// WithContext sets a context checked before every batch of attempts.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
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

// WithOnAttempt registers the per-attempt hook.
func WithOnAttempt(fn func(attempt int, outcome Outcome)) Option {
	return func(o *Options) { o.OnAttempt = fn }
}

// WithOnThinned registers the thinned-overlay hook.
func WithOnThinned(fn func(attempt int, o *core.Overlay)) Option {
	return func(o *Options) { o.OnThinned = fn }
}

// WithOnAccept registers the acceptance hook.
func WithOnAccept(fn func(attempt int, p route.Path, length float64)) Option {
	return func(o *Options) { o.OnAccept = fn }
}

// Result is the alternative set found by one FindAlternatives call.
//
// Paths and Lengths are parallel and insertion ordered. Attempts counts the
// attempts considered; Exhausted is set when fewer than K paths were found.
type Result struct {
	Paths     []route.Path
	Lengths   []float64
	Attempts  int
	Exhausted bool
}

// Package server exposes the routing pipeline over HTTP.
//
//	GET  /healthz            network size
//	GET  /metrics            Prometheus exposition (when a gatherer is set)
//	GET  /v1/route           shortest path, ?source=&target=[&weight=base_length]
//	GET  /v1/alternatives    diverse alternatives, ?source=&target=[&k=]
//	POST /v1/congestion      inject traffic around a baseline
//	POST /v1/simulate        full baseline, alternatives, congestion, reroute run
//
// Congestion and simulate requests mutate the shared network; lengths only
// grow. Every request draws its own RNG from a seeded parent so that a fixed
// request sequence is reproducible.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/dijkstra"
	"github.com/katalvlaran/detour/metrics"
	"github.com/katalvlaran/detour/prm"
	"github.com/katalvlaran/detour/rng"
	"github.com/katalvlaran/detour/route"
	"github.com/katalvlaran/detour/simulation"
	"github.com/katalvlaran/detour/traffic"
)

var tracer = otel.Tracer("github.com/katalvlaran/detour/server")

// Server serves one road network.
type Server struct {
	g        *core.Graph
	mu       sync.Mutex // guards seeds
	seeds    *rand.Rand
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	log      *slog.Logger
	prm      []prm.Option
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records pipeline metrics on m and serves g at /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) { s.metrics, s.gatherer = m, g }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPRMOptions sets default sampler options; ?k= still overrides K.
func WithPRMOptions(opts ...prm.Option) Option {
	return func(s *Server) { s.prm = append(s.prm, opts...) }
}

// New returns a Server over g seeded with seed.
func New(g *core.Graph, seed int64, opts ...Option) *Server {
	s := &Server{
		g:     g,
		seeds: rng.New(seed),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.observe)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/route", s.handleRoute).Methods(http.MethodGet)
	v1.HandleFunc("/alternatives", s.handleAlternatives).Methods(http.MethodGet)
	v1.HandleFunc("/congestion", s.handleCongestion).Methods(http.MethodPost)
	v1.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)

	return r
}

// requestRand returns a request-local RNG derived from the server seed.
func (s *Server) requestRand() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()

	return rng.New(s.seeds.Int63())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				name = tpl
			}
		}
		ctx, span := tracer.Start(r.Context(), r.Method+" "+name, trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", name),
		))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		s.log.Info("request", "method", r.Method, "route", name, "status", rec.status, "elapsed", time.Since(start))
	})
}

// PathJSON is one route in a response.
type PathJSON struct {
	Path   route.Path `json:"path"`
	Meters float64    `json:"meters"`
	Km     float64    `json:"km"`
}

func newPathJSON(p route.Path, meters float64) PathJSON {
	return PathJSON{Path: p, Meters: meters, Km: route.Kilometers(meters)}
}

// AlternativesJSON is the /v1/alternatives response.
type AlternativesJSON struct {
	Paths     []PathJSON `json:"paths"`
	Attempts  int        `json:"attempts"`
	Exhausted bool       `json:"exhausted"`
}

// CongestionRequest is the /v1/congestion body. Without a baseline the
// current shortest path from source to target is used.
type CongestionRequest struct {
	Source   string     `json:"source"`
	Target   string     `json:"target"`
	Baseline route.Path `json:"baseline"`
}

// CongestionJSON is the /v1/congestion response.
type CongestionJSON struct {
	Baseline route.Path       `json:"baseline"`
	Updates  []traffic.Update `json:"updates"`
}

// SimulateRequest is the /v1/simulate body.
type SimulateRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, prm.ErrOptionViolation),
		errors.Is(err, prm.ErrSameEndpoints),
		errors.Is(err, traffic.ErrEmptyBaseline):
		status = http.StatusBadRequest
	case errors.Is(err, dijkstra.ErrVertexNotFound),
		errors.Is(err, core.ErrVertexNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dijkstra.ErrUnreachable),
		errors.Is(err, simulation.ErrNoRoute):
		status = http.StatusUnprocessableEntity
	}
	trace.SpanFromContext(r.Context()).RecordError(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorJSON{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func endpoints(r *http.Request) (string, string, error) {
	q := r.URL.Query()
	source, target := q.Get("source"), q.Get("target")
	if source == "" || target == "" {
		return "", "", errors.Join(errBadRequest, errors.New("source and target are required"))
	}

	return source, target, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"vertices": s.g.VertexCount(),
		"edges":    s.g.EdgeCount(),
	})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	source, target, err := endpoints(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	weight := core.WeightLength
	switch q := r.URL.Query().Get("weight"); q {
	case "", core.WeightLength.String():
	case core.WeightBaseLength.String():
		weight = core.WeightBaseLength
	default:
		s.fail(w, r, errors.Join(errBadRequest, errors.New("weight must be length or base_length")))
		return
	}

	snap := s.g.Snapshot()
	p, meters, err := dijkstra.ShortestPath(snap, source, target, dijkstra.WithWeight(weight))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Route("baseline", route.Kilometers(meters))
	writeJSON(w, http.StatusOK, newPathJSON(p, meters))
}

func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	source, target, err := endpoints(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts := append([]prm.Option{
		prm.WithContext(r.Context()),
		prm.WithLogger(s.log),
		prm.WithOnAttempt(func(_ int, o prm.Outcome) { s.metrics.Attempt(o.String()) }),
	}, s.prm...)
	if k := r.URL.Query().Get("k"); k != "" {
		n, err := strconv.Atoi(k)
		if err != nil {
			s.fail(w, r, errors.Join(errBadRequest, err))
			return
		}
		opts = append(opts, prm.WithK(n))
	}

	res, err := prm.FindAlternatives(s.g.Snapshot(), source, target, s.requestRand(), opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Alternatives(len(res.Paths))
	out := AlternativesJSON{Paths: make([]PathJSON, len(res.Paths)), Attempts: res.Attempts, Exhausted: res.Exhausted}
	for i, p := range res.Paths {
		out.Paths[i] = newPathJSON(p, res.Lengths[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCongestion(w http.ResponseWriter, r *http.Request) {
	var req CongestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, errors.Join(errBadRequest, err))
		return
	}
	if len(req.Baseline) == 0 {
		if req.Source == "" || req.Target == "" {
			s.fail(w, r, errors.Join(errBadRequest, errors.New("baseline or source and target required")))
			return
		}
		p, _, err := dijkstra.ShortestPath(s.g.Snapshot(), req.Source, req.Target)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		req.Baseline = p
	}

	updates, err := traffic.Inject(s.g, req.Baseline, s.requestRand(), traffic.WithLogger(s.log))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	for _, u := range updates {
		s.metrics.Update(u.Kind.String(), u.Penalty)
	}
	writeJSON(w, http.StatusOK, CongestionJSON{Baseline: req.Baseline, Updates: updates})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, errors.Join(errBadRequest, err))
		return
	}
	if req.Source == "" || req.Target == "" {
		s.fail(w, r, errors.Join(errBadRequest, errors.New("source and target are required")))
		return
	}

	rep, err := simulation.Run(r.Context(), s.g, req.Source, req.Target, s.requestRand(),
		simulation.WithLogger(s.log),
		simulation.WithMetrics(s.metrics),
		simulation.WithPRMOptions(s.prm...),
	)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

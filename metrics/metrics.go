// Package metrics exposes Prometheus collectors for route searches,
// congestion injection and whole simulation runs.
//
// Collectors are registered on a caller-supplied registry so tests and
// multiple servers never collide on the default one. A nil *Metrics is valid
// and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector of the router.
type Metrics struct {
	// attempts counts sampling attempts by outcome.
	attempts *prometheus.CounterVec

	// alternatives tracks accepted paths per search.
	alternatives prometheus.Histogram

	// updates counts congestion updates by kind (hotspot, background).
	updates *prometheus.CounterVec

	// penalty tracks added meters per update.
	penalty *prometheus.HistogramVec

	// routeKm tracks route lengths by stage (baseline, alternative, rerouted).
	routeKm *prometheus.HistogramVec

	// runs counts simulation runs by result.
	runs *prometheus.CounterVec

	// duration tracks simulation run latency.
	duration prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "detour_prm_attempts_total",
			Help: "Alternative path sampling attempts by outcome",
		}, []string{"outcome"}),
		alternatives: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "detour_prm_alternatives",
			Help:    "Accepted alternative paths per search",
			Buckets: []float64{0, 1, 2, 3, 5, 8},
		}),
		updates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "detour_traffic_updates_total",
			Help: "Congestion updates applied to the network by kind",
		}, []string{"kind"}),
		penalty: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "detour_traffic_penalty_meters",
			Help:    "Length added per congestion update",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10m to ~5km
		}, []string{"kind"}),
		routeKm: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "detour_route_km",
			Help:    "Route length in kilometers by stage",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250m to 32km
		}, []string{"stage"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "detour_simulation_runs_total",
			Help: "Simulation runs by result",
		}, []string{"result"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "detour_simulation_duration_seconds",
			Help:    "Simulation run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
	}
}

// Attempt records one sampling attempt.
func (m *Metrics) Attempt(outcome string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(outcome).Inc()
}

// Alternatives records the size of one alternative set.
func (m *Metrics) Alternatives(n int) {
	if m == nil {
		return
	}
	m.alternatives.Observe(float64(n))
}

// Update records one congestion update.
func (m *Metrics) Update(kind string, penalty float64) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(kind).Inc()
	m.penalty.WithLabelValues(kind).Observe(penalty)
}

// Route records a route length.
func (m *Metrics) Route(stage string, km float64) {
	if m == nil {
		return
	}
	m.routeKm.WithLabelValues(stage).Observe(km)
}

// Run records a finished simulation run.
func (m *Metrics) Run(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

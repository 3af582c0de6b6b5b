package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/detour/builder"
	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/metrics"
	"github.com/katalvlaran/detour/route"
	"github.com/katalvlaran/detour/server"
)

func newServer(t *testing.T) (*httptest.Server, *core.Graph) {
	t.Helper()
	g, err := builder.BuildNetwork(nil, nil, builder.Grid(4, 4))
	require.NoError(t, err)
	require.NoError(t, g.AddVertex("island"))

	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(server.New(g, 1, server.WithMetrics(metrics.New(reg), reg)).Handler())
	t.Cleanup(srv.Close)

	return srv, g
}

func get(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func post(t *testing.T, url, body string, out interface{}) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)
	var body map[string]interface{}
	require.Equal(t, http.StatusOK, get(t, srv.URL+"/healthz", &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, 17.0, body["vertices"])
	require.Equal(t, 48.0, body["edges"])
}

func TestRoute(t *testing.T) {
	srv, _ := newServer(t)

	var p server.PathJSON
	require.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/route?source=0,0&target=3,3", &p))
	require.Len(t, p.Path, 7)
	require.Equal(t, "0,0", p.Path[0])
	require.InDelta(t, 600, p.Meters, 1e-9)
	require.InDelta(t, 0.6, p.Km, 1e-9)

	for url, status := range map[string]int{
		"/v1/route?source=0,0":                          http.StatusBadRequest,
		"/v1/route?source=0,0&target=3,3&weight=time":   http.StatusBadRequest,
		"/v1/route?source=0,0&target=nowhere":           http.StatusNotFound,
		"/v1/route?source=0,0&target=island":            http.StatusUnprocessableEntity,
		"/v1/alternatives?source=0,0&target=3,3&k=zero": http.StatusBadRequest,
		"/v1/alternatives?source=0,0&target=3,3&k=0":    http.StatusBadRequest,
		"/v1/alternatives?source=0,0&target=0,0":        http.StatusBadRequest,
	} {
		var e map[string]string
		require.Equal(t, status, get(t, srv.URL+url, &e), url)
		require.NotEmpty(t, e["error"], url)
	}

	resp, err := http.Post(srv.URL+"/v1/route?source=0,0&target=3,3", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestAlternatives(t *testing.T) {
	srv, _ := newServer(t)
	var out server.AlternativesJSON
	require.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/alternatives?source=0,0&target=3,3&k=2", &out))
	require.LessOrEqual(t, len(out.Paths), 2)
	require.Positive(t, out.Attempts)
	for _, p := range out.Paths {
		require.Equal(t, "0,0", p.Path[0])
		require.Equal(t, "3,3", p.Path[len(p.Path)-1])
		require.GreaterOrEqual(t, p.Meters, 600.0)
	}
}

func TestCongestion(t *testing.T) {
	srv, g := newServer(t)
	before := g.Snapshot()

	var out struct {
		Baseline []string `json:"baseline"`
		Updates  []struct {
			EdgeID  string  `json:"edge_id"`
			Penalty float64 `json:"penalty"`
			Kind    string  `json:"kind"`
		} `json:"updates"`
	}
	require.Equal(t, http.StatusOK, post(t, srv.URL+"/v1/congestion", `{"source":"0,0","target":"3,3"}`, &out))
	require.Len(t, out.Baseline, 7)
	require.NotEmpty(t, out.Updates)
	kinds := map[string]bool{}
	for _, u := range out.Updates {
		require.Positive(t, u.Penalty)
		kinds[u.Kind] = true
	}
	require.True(t, kinds["hotspot"])

	// The live network changed; base lengths did not.
	var cur, base server.PathJSON
	require.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/route?source=0,0&target=3,3&weight=base_length", &base))
	require.InDelta(t, 600, base.Meters, 1e-9)
	require.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/route?source=0,0&target=3,3", &cur))
	require.GreaterOrEqual(t, cur.Meters, 600.0)
	congested, err := route.Cost(g, out.Baseline)
	require.NoError(t, err)
	require.Greater(t, congested, 600.0)
	require.Equal(t, before.EdgeCount(), g.EdgeCount())

	var e map[string]string
	require.Equal(t, http.StatusBadRequest, post(t, srv.URL+"/v1/congestion", `{}`, &e))
	require.Equal(t, http.StatusBadRequest, post(t, srv.URL+"/v1/congestion", `{`, &e))
}

func TestSimulate(t *testing.T) {
	srv, _ := newServer(t)
	var rep map[string]interface{}
	require.Equal(t, http.StatusOK, post(t, srv.URL+"/v1/simulate", `{"source":"0,0","target":"3,3"}`, &rep))
	require.NotEmpty(t, rep["run_id"])
	require.Len(t, rep["baseline"], 7)
	require.NotEmpty(t, rep["rerouted"])

	var e map[string]string
	require.Equal(t, http.StatusUnprocessableEntity, post(t, srv.URL+"/v1/simulate", `{"source":"0,0","target":"island"}`, &e))
	require.Equal(t, http.StatusBadRequest, post(t, srv.URL+"/v1/simulate", `{"source":"0,0"}`, &e))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newServer(t)
	require.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/route?source=0,0&target=3,3", &server.PathJSON{}))

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "detour_route_km")
}

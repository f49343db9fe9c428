package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/drunkard"
	"github.com/aretw0/drunkard/internal/logging"
	"github.com/aretw0/drunkard/pkg/adapters/memory"
	"github.com/aretw0/drunkard/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (http.Handler, *observability.Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	h := NewHandler(Config{
		Options: []drunkard.Option{drunkard.WithLifecycleHooks(m.Hooks()), drunkard.WithWorkers(2)},
		Logger:  logging.NewNop(),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Limits:  drunkard.Limits{MaxSteps: 1000, MaxTrials: 100, MaxHoles: 50, MaxWork: 100_000},
	})
	return h, m
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, drunkard.Version, resp["version"])
}

func TestSweep(t *testing.T) {
	h, m := newTestHandler(t)

	rr := post(t, h, "/v1/sweep", `{"steps":[0,10],"trials":5,"policies":["cold-biased"],"seed":3}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp SweepResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Sweeps, 1)
	assert.Equal(t, "cold-biased", resp.Sweeps[0].Policy.String())
	require.Len(t, resp.Sweeps[0].Points, 2)
	assert.Equal(t, 0.0, resp.Sweeps[0].Points[0].Summary.Mean)

	// CV at zero steps is undefined and must serialize as null.
	assert.Contains(t, rr.Body.String(), `"cv":null`)

	assert.Equal(t, 10.0, testutil.ToFloat64(m.Trials.WithLabelValues("cold-biased")))
}

func TestSweep_SameSeedSameBody(t *testing.T) {
	h, _ := newTestHandler(t)
	body := `{"steps":[10,100],"trials":20,"seed":99}`

	a := post(t, h, "/v1/sweep", body)
	b := post(t, h, "/v1/sweep", body)
	require.Equal(t, http.StatusOK, a.Code)
	assert.JSONEq(t, a.Body.String(), b.Body.String())
}

func TestLocations(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := post(t, h, "/v1/locations", `{"steps":0,"trials":4,"seed":1}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp LocationsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Batches, 3, "all policies by default")
	for _, b := range resp.Batches {
		require.Len(t, b.Locations, 4)
		for _, l := range b.Locations {
			assert.Zero(t, l.X)
			assert.Zero(t, l.Y)
		}
	}
}

func TestTrace(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := post(t, h, "/v1/trace", `{"steps":50,"policies":["isotropic4","east-west2"],"seed":5,"wormholes":{"holes":20,"x_range":4,"y_range":4}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp TraceResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Traces, 2)
	assert.Equal(t, "isotropic4-1", resp.Traces[0].Walker)
	assert.Equal(t, "east-west2-2", resp.Traces[1].Walker)
	assert.Len(t, resp.Traces[1].Locations, 50)
}

func TestErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"Malformed JSON", "/v1/sweep", `{`, http.StatusBadRequest},
		{"Unknown Field", "/v1/sweep", `{"steps":[1],"trials":1,"bogus":true}`, http.StatusBadRequest},
		{"Unknown Policy", "/v1/locations", `{"steps":1,"trials":1,"policies":["sober"]}`, http.StatusBadRequest},
		{"No Steps", "/v1/sweep", `{"trials":3}`, http.StatusBadRequest},
		{"Negative Steps", "/v1/locations", `{"steps":-1,"trials":3}`, http.StatusBadRequest},
		{"Zero Trials", "/v1/locations", `{"steps":1,"trials":0}`, http.StatusBadRequest},
		{"Negative Wormholes", "/v1/trace", `{"steps":1,"wormholes":{"holes":-1}}`, http.StatusBadRequest},
		{"Too Many Steps", "/v1/trace", `{"steps":5000}`, http.StatusRequestEntityTooLarge},
		{"Too Many Trials", "/v1/sweep", `{"steps":[1],"trials":1000}`, http.StatusRequestEntityTooLarge},
		{"Wormhole Range Overflow", "/v1/trace", `{"steps":1,"seed":3,"wormholes":{"holes":1,"x_range":4611686018427387904,"y_range":1}}`, http.StatusBadRequest},
		{"Anomaly Range Overflow", "/v1/sweep", `{"steps":[1],"trials":1,"anomaly":{"holes":1,"x_range":1,"y_range":4611686018427387904}}`, http.StatusBadRequest},
		{"Too Many Holes", "/v1/locations", `{"steps":1,"trials":1,"anomaly":{"holes":51,"x_range":2,"y_range":2}}`, http.StatusRequestEntityTooLarge},
		{"Work Over Budget", "/v1/sweep", `{"steps":[1000],"trials":100,"policies":["ew","isotropic4"]}`, http.StatusRequestEntityTooLarge},
		{"Step List Over Budget", "/v1/sweep", `{"steps":[900,900,900,900,900,900,900,900,900,900,900,900],"trials":10}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	require.Equal(t, http.StatusOK, post(t, h, "/v1/sweep", `{"steps":[5],"trials":2}`).Code)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "drunkard_trials_total")
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest("OPTIONS", "/v1/sweep", bytes.NewReader(nil))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCache_SeededRequests(t *testing.T) {
	cache := memory.NewCache()
	h := NewHandler(Config{Logger: logging.NewNop(), Cache: cache})

	body := `{"steps":[10],"trials":3,"seed":21}`
	first := post(t, h, "/v1/sweep", body)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := post(t, h, "/v1/sweep", body)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	// Same seed on another route is a different entry.
	loc := post(t, h, "/v1/locations", `{"steps":10,"trials":3,"seed":21}`)
	assert.Equal(t, "MISS", loc.Header().Get("X-Cache"))
	assert.Equal(t, 2, cache.Len())
}

func TestCache_SkipsUnseededAndFailed(t *testing.T) {
	cache := memory.NewCache()
	h := NewHandler(Config{Logger: logging.NewNop(), Cache: cache})

	rr := post(t, h, "/v1/sweep", `{"steps":[10],"trials":3}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("X-Cache"))

	rr = post(t, h, "/v1/sweep", `{"steps":[10],"trials":0,"seed":4}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, cache.Len())
}

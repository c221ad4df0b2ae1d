package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexzheng324-c/pharos/pkg/dataset"
	"github.com/rexzheng324-c/pharos/server/internal/api"
	"github.com/rexzheng324-c/pharos/server/internal/location"
	"github.com/rexzheng324-c/pharos/server/internal/metrics"
	"github.com/rexzheng324-c/pharos/server/internal/storage"
	"github.com/rexzheng324-c/pharos/server/internal/store"
	"github.com/rexzheng324-c/pharos/server/internal/view"
)

// sampleMetrics is a realistic /metrics body from a server that has served
// a few requests.
const sampleMetrics = `
# HELP pharos_dataset_loaded 1 once the dataset has been loaded.
# TYPE pharos_dataset_loaded gauge
pharos_dataset_loaded 1
# HELP pharos_http_requests_total HTTP requests by route and status code.
# TYPE pharos_http_requests_total counter
pharos_http_requests_total{code="200",route="/data/urls"} 40
pharos_http_requests_total{code="502",route="/data/urls"} 2
pharos_http_requests_total{code="200",route="/segments"} 8
pharos_http_requests_total{code="404",route="other"} 1
# HELP pharos_location_resolve_failures_total Remote item locations that could not be resolved.
# TYPE pharos_location_resolve_failures_total counter
pharos_location_resolve_failures_total 2
`

func TestCheck_Parse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			_, _ = w.Write([]byte(`{"status":"ok","mode":"fusion"}`))
		case "/metrics":
			w.Header().Set("Content-Type", "text/plain; version=0.0.4")
			_, _ = w.Write([]byte(sampleMetrics))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	rep, err := Check(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)

	assert.True(t, rep.Ready())
	assert.Equal(t, "fusion", rep.Mode)
	assert.Equal(t, srv.URL, rep.Addr)
	assert.Equal(t, 51.0, rep.Requests)
	assert.Equal(t, 2.0, rep.ServerErrors)
	assert.Equal(t, 2.0, rep.ResolveFailures)
	assert.Equal(t, 42.0, rep.Routes["/data/urls"])
}

func TestCheck_LiveServer(t *testing.T) {
	st := store.New()
	backend, err := storage.NewStatic("https://cdn.example.com/")
	require.NoError(t, err)
	views := view.New(st, location.NewResolver(backend), 2)
	h := api.New(st, views, api.Options{Log: zerolog.Nop(), Metrics: metrics.New(st.Ready)})
	srv := httptest.NewServer(h)
	defer srv.Close()

	rep, err := Check(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.False(t, rep.Ready())
	assert.Equal(t, "loading", rep.Status)

	ds, err := dataset.New(dataset.Plain, nil,
		dataset.NewPlainSegment("train", "", []*dataset.DataItem{dataset.NewRemoteItem("a.jpg")}))
	require.NoError(t, err)
	require.NoError(t, st.Init(ds))

	resp, err := srv.Client().Get(srv.URL + "/data/urls?segmentName=train")
	require.NoError(t, err)
	resp.Body.Close()

	rep, err = Check(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.True(t, rep.Ready())
	assert.Equal(t, "plain", rep.Mode)
	assert.Equal(t, 1.0, rep.Routes["/data/urls"])
	// Both /healthz probes are counted by the time metrics are scraped.
	assert.Equal(t, 2.0, rep.Routes["/healthz"])
}

func TestCheck_BadAddress(t *testing.T) {
	_, err := Check(context.Background(), nil, "not a url")
	assert.Error(t, err)
}

func TestCheck_MetricsMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			_, _ = w.Write([]byte(`{"status":"ok","mode":"plain"}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Check(context.Background(), srv.Client(), srv.URL)
	assert.ErrorContains(t, err, "unexpected status 404")
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, r *Registry) map[string]*dto.MetricFamily {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")

	var parser expfmt.TextParser // zero value validates with model.NameValidationScheme (UTF8Validation) in common v0.63
	mfs, err := parser.TextToMetricFamilies(rr.Body)
	require.NoError(t, err)
	return mfs
}

func labelsOf(m *dto.Metric) map[string]string {
	out := map[string]string{}
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func TestRegistry_Empty(t *testing.T) {
	mfs := scrape(t, New(nil))

	require.Contains(t, mfs, "pharos_dataset_loaded")
	assert.Equal(t, 0.0, mfs["pharos_dataset_loaded"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 0.0, mfs["pharos_location_resolve_failures_total"].GetMetric()[0].GetCounter().GetValue())
	assert.NotContains(t, mfs, "pharos_http_requests_total")
	assert.Contains(t, mfs, "go_goroutines")
}

func TestRegistry_Requests(t *testing.T) {
	r := New(func() bool { return true })
	r.ObserveRequest("/segments", 200, 10*time.Millisecond)
	r.ObserveRequest("/segments", 200, 30*time.Millisecond)
	r.ObserveRequest("/labels", 404, time.Millisecond)
	r.ResolveFailure()

	mfs := scrape(t, r)

	reqs := mfs["pharos_http_requests_total"]
	require.NotNil(t, reqs)
	assert.Equal(t, dto.MetricType_COUNTER, reqs.GetType())

	counts := map[string]float64{}
	for _, m := range reqs.GetMetric() {
		l := labelsOf(m)
		counts[l["route"]+" "+l["code"]] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"/segments 200": 2, "/labels 404": 1}, counts)

	dur := mfs["pharos_http_request_duration_seconds"]
	require.NotNil(t, dur)
	assert.Equal(t, dto.MetricType_HISTOGRAM, dur.GetType())
	var found bool
	for _, m := range dur.GetMetric() {
		if labelsOf(m)["route"] == "/segments" {
			found = true
			assert.Equal(t, uint64(2), m.GetHistogram().GetSampleCount())
			assert.InDelta(t, 0.04, m.GetHistogram().GetSampleSum(), 1e-9)
		}
	}
	assert.True(t, found)

	assert.Equal(t, 1.0, mfs["pharos_location_resolve_failures_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 1.0, mfs["pharos_dataset_loaded"].GetMetric()[0].GetGauge().GetValue())
}

func TestRegistry_Gather(t *testing.T) {
	r := New(nil)
	r.ResolveFailure()
	r.ResolveFailure()

	mfs, err := r.Gather()
	require.NoError(t, err)
	var got float64
	for _, mf := range mfs {
		if mf.GetName() == "pharos_location_resolve_failures_total" {
			got = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, got)
}

func TestRegistry_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	New(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

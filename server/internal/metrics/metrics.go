package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "pharos"

// Registry owns a private prometheus.Registry with the server's collectors.
type Registry struct {
	reg             *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	resolveFailures prometheus.Counter
	handler         http.Handler
}

// New returns a Registry. loaded reports whether the dataset is bound; it
// may be nil.
func New(loaded func() bool) *Registry {
	if loaded == nil {
		loaded = func() bool { return false }
	}

	r := &Registry{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		resolveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_resolve_failures_total",
			Help:      "Remote item locations that could not be resolved.",
		}),
	}
	ready := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_loaded",
		Help:      "1 once the dataset has been loaded.",
	}, func() float64 {
		if loaded() {
			return 1
		}
		return 0
	})

	r.reg.MustRegister(
		r.requests,
		r.duration,
		r.resolveFailures,
		ready,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.handler = promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
	return r
}

// ObserveRequest records one completed request.
func (r *Registry) ObserveRequest(route string, code int, d time.Duration) {
	r.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.duration.WithLabelValues(route).Observe(d.Seconds())
}

// ResolveFailure records one failed remote location resolution.
func (r *Registry) ResolveFailure() {
	r.resolveFailures.Inc()
}

// Gather snapshots all registered families.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	return r.reg.Gather()
}

// ServeHTTP writes the families in the format negotiated from Accept.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.handler.ServeHTTP(w, req)
}

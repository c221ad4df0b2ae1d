package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// DefaultTimeout bounds one Check when the caller's client has no timeout.
const DefaultTimeout = 10 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report is the outcome of one Check. Counter fields hold raw totals since
// the server started.
type Report struct {
	Addr      string
	CheckedAt time.Time

	// Status is "ok" or "loading", as reported by /healthz.
	Status string
	Mode   string

	Requests        float64
	ServerErrors    float64
	ResolveFailures float64

	// Routes holds the request total per route label.
	Routes map[string]float64
}

// Ready reports whether the server has its dataset bound.
func (r *Report) Ready() bool { return r.Status == "ok" }

// Check queries base (e.g. http://127.0.0.1:8080) for health and metrics.
func Check(ctx context.Context, client *http.Client, base string) (*Report, error) {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("probe: address %q: %w", base, err)
	}
	base = strings.TrimRight(base, "/")

	rep := &Report{Addr: base, CheckedAt: time.Now().UTC(), Routes: make(map[string]float64)}

	var health struct {
		Status string `json:"status"`
		Mode   string `json:"mode"`
	}
	// /healthz answers 503 while loading, with the same body.
	body, _, err := get(ctx, client, base+"/healthz", "application/json")
	if err != nil {
		return nil, fmt.Errorf("probe: healthz: %w", err)
	}
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("probe: decode healthz: %w", err)
	}
	rep.Status, rep.Mode = health.Status, health.Mode

	body, code, err := get(ctx, client, base+"/metrics", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	if err != nil {
		return nil, fmt.Errorf("probe: metrics: %w", err)
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("probe: metrics: unexpected status %d", code)
	}
	mfs, err := parseMetrics(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}

	for _, m := range mfs["pharos_http_requests_total"].GetMetric() {
		v := m.GetCounter().GetValue()
		rep.Requests += v
		if strings.HasPrefix(labelValue(m, "code"), "5") {
			rep.ServerErrors += v
		}
		rep.Routes[labelValue(m, "route")] += v
	}
	rep.ResolveFailures = sumFamily(mfs["pharos_location_resolve_failures_total"])
	return rep, nil
}

func get(ctx context.Context, client *http.Client, u, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// parseMetrics decodes a Prometheus text exposition into metric families.
// A partial result with a non-fatal parse warning is still returned.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser // zero value validates with model.NameValidationScheme (UTF8Validation) in common v0.63
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// sumFamily adds up all counter, gauge, or untyped values in a MetricFamily.
// Returns 0 if mf is nil.
func sumFamily(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		}
	}
	return total
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

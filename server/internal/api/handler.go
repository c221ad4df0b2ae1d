package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/rexzheng324-c/pharos/server/internal/location"
	"github.com/rexzheng324-c/pharos/server/internal/metrics"
	"github.com/rexzheng324-c/pharos/server/internal/paging"
	"github.com/rexzheng324-c/pharos/server/internal/store"
	"github.com/rexzheng324-c/pharos/server/internal/view"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options tune the middleware around the routes. The zero value disables
// rate limiting, metrics and the per-request timeout, and logs nowhere.
type Options struct {
	Log            zerolog.Logger
	Metrics        *metrics.Registry
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int
}

// Handler is the HTTP handler for all query endpoints.
type Handler struct {
	store   *store.Store
	views   *view.Builder
	metrics *metrics.Registry
	mux     *http.ServeMux
}

// New creates a Handler reading from st through views, registers all routes
// and wraps them in the request-id, access-log, rate-limit and timeout
// middleware.
func New(st *store.Store, views *view.Builder, opts Options) http.Handler {
	h := &Handler{store: st, views: views, metrics: opts.Metrics, mux: http.NewServeMux()}

	h.mux.HandleFunc("/segments", h.segments)
	h.mux.HandleFunc("/catalogs", h.catalogs)
	h.mux.HandleFunc("/labels", h.labels)
	h.mux.HandleFunc("/sensors", h.sensors)
	h.mux.HandleFunc("/data/urls", h.dataURIs)
	h.mux.HandleFunc("/labelTypes", h.labelTypes)
	h.mux.HandleFunc("/healthz", h.health)
	if opts.Metrics != nil {
		h.mux.Handle("/metrics", opts.Metrics)
	}
	h.mux.HandleFunc("/", h.notFound)

	var next http.Handler = h.mux
	next = withTimeout(next, opts.RequestTimeout)
	next = withRateLimit(next, opts.RateLimit, opts.RateBurst)
	next = hlog.AccessHandler(h.access)(next)
	next = withRequestID(next)
	return hlog.NewHandler(opts.Log)(next)
}

// --- route handlers ---------------------------------------------------------

// segments returns GET /segments.
func (h *Handler) segments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.views.Segments(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, resp)
}

// catalogs returns GET /catalogs.
func (h *Handler) catalogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	resp, err := h.views.Catalog()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, resp)
}

// labels returns GET /labels?segmentName=.
func (h *Handler) labels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.views.Labels(r.Context(), segmentName(r), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, resp)
}

// sensors returns GET /sensors?segmentName=.
func (h *Handler) sensors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	resp, err := h.views.Sensors(segmentName(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, resp)
}

// dataURIs returns GET /data/urls?segmentName=.
func (h *Handler) dataURIs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.views.DataURIs(r.Context(), segmentName(r), q)
	if err != nil {
		if h.metrics != nil && errors.Is(err, location.ErrLocationUnavailable) {
			h.metrics.ResolveFailure()
		}
		h.fail(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, resp)
}

// labelTypes returns GET /labelTypes. It answers before the dataset is loaded.
func (h *Handler) labelTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, view.LabelTypes())
}

// health returns GET /healthz: 200 once the dataset is bound, 503 while loading.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ds, err := h.store.Current()
	if err != nil {
		jsonResp(w, http.StatusServiceUnavailable, HealthResponse{Status: "loading"})
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok", Mode: ds.Mode().String()})
}

func (h *Handler) notFound(w http.ResponseWriter, _ *http.Request) {
	jsonErr(w, http.StatusNotFound, "not found")
}

// --- errors -----------------------------------------------------------------

// fail writes the response for a view error and logs server-side failures.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Int("status", code).Msg("request failed")
	}
	jsonErr(w, code, msg)
}

// statusFor maps a view error to its HTTP status and client message.
func statusFor(err error) (int, string) {
	var nf *view.SegmentNotFoundError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound, fmt.Sprintf("Segment:'%s' does not exist.", nf.Name)
	case errors.Is(err, view.ErrFusionRequired):
		return http.StatusNotFound, "Please give fusion dataset."
	case errors.Is(err, store.ErrUninitialized):
		return http.StatusServiceUnavailable, "dataset not loaded"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, location.ErrLocationUnavailable):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// --- query parsing ----------------------------------------------------------

type queryError string

func (e queryError) Error() string { return string(e) }

// parseQuery reads limit, offset and sortBy. A present but non-integer limit
// or offset is rejected; negative values are clamped to 0.
func parseQuery(r *http.Request) (view.Query, error) {
	values := r.URL.Query()
	q := view.DefaultQuery()

	if values.Has("limit") {
		n, err := strconv.Atoi(values.Get("limit"))
		if err != nil {
			return q, queryError("Limit should be int.")
		}
		q.Limit = max(n, 0)
	}
	if values.Has("offset") {
		n, err := strconv.Atoi(values.Get("offset"))
		if err != nil {
			return q, queryError("Offset should be int.")
		}
		q.Offset = max(n, 0)
	}
	q.Order = paging.ParseOrder(values.Get("sortBy"))
	return q, nil
}

func segmentName(r *http.Request) string {
	return r.URL.Query().Get("segmentName")
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

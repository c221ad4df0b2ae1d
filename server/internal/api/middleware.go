package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// routes are the metric labels for known paths; anything else is "other".
var routes = map[string]bool{
	"/segments":   true,
	"/catalogs":   true,
	"/labels":     true,
	"/sensors":    true,
	"/data/urls":  true,
	"/labelTypes": true,
	"/healthz":    true,
	"/metrics":    true,
}

// withRequestID reuses the caller's X-Request-Id or assigns a new one, echoes
// it on the response and attaches it to the request logger.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		log := zerolog.Ctx(r.Context()).With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context())))
	})
}

// withRateLimit rejects requests beyond limit per second with 429. /healthz
// and /metrics are never limited. limit <= 0 disables it.
func withRateLimit(next http.Handler, limit float64, burst int) http.Handler {
	if limit <= 0 {
		return next
	}
	if burst < 1 {
		burst = max(int(limit), 1)
	}
	lim := rate.NewLimiter(rate.Limit(limit), burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" && r.URL.Path != "/metrics" && !lim.Allow() {
			w.Header().Set("Retry-After", "1")
			jsonErr(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withTimeout bounds the request context. d <= 0 disables it.
func withTimeout(next http.Handler, d time.Duration) http.Handler {
	if d <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// access logs one line per request and feeds the metrics registry.
func (h *Handler) access(r *http.Request, status, size int, d time.Duration) {
	route := r.URL.Path
	if !routes[route] {
		route = "other"
	}
	if h.metrics != nil {
		h.metrics.ObserveRequest(route, status, d)
	}

	ev := hlog.FromRequest(r).Info()
	if status >= http.StatusInternalServerError {
		ev = hlog.FromRequest(r).Warn()
	}
	ev.Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("query", r.URL.RawQuery).
		Int("status", status).
		Int("bytes", size).
		Dur("duration", d).
		Msg("request")
}

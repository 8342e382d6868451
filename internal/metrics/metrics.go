// Package metrics holds the prometheus collectors for homeview, registered
// on a private registry.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evcraddock/homeview/internal/apperr"
)

const namespace = "homeview"

// Metrics is a set of collectors and the registry they live on.
type Metrics struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
	BookingOps   *prometheus.CounterVec
	AuthAttempts *prometheus.CounterVec
	CacheEvents  *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
			[]string{"route", "method", "status"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace, Name: "http_request_duration_seconds",
				Help:    "HTTP request duration seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		BookingOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "booking_operations_total", Help: "Ledger operations by outcome."},
			[]string{"op", "outcome"}, // op: create|cancel|confirm
		),
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "auth_attempts_total", Help: "Session operations by outcome."},
			[]string{"op", "outcome"}, // op: login|register|logout
		),
		CacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "search_cache_events_total", Help: "Search cache hits/misses."},
			[]string{"event"},
		),
	}
	m.reg.MustRegister(m.HTTPRequests, m.HTTPLatency, m.BookingOps, m.AuthAttempts, m.CacheEvents)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, dur time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func (m *Metrics) ObserveBooking(op string, err error) {
	m.BookingOps.WithLabelValues(op, Outcome(err)).Inc()
}

func (m *Metrics) ObserveAuth(op string, err error) {
	m.AuthAttempts.WithLabelValues(op, Outcome(err)).Inc()
}

func (m *Metrics) ObserveCache(event string) {
	m.CacheEvents.WithLabelValues(event).Inc()
}

// Outcome maps an error to a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrConflict):
		return "conflict"
	case errors.Is(err, apperr.ErrAuth):
		return "auth"
	case errors.Is(err, apperr.ErrInvalid):
		return "invalid"
	default:
		return "error"
	}
}

// Middleware records request counts and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, r.Method, status, time.Since(start))
	})
}

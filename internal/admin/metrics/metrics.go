// Package metrics owns the Prometheus registry of the admin API.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quietvector"

type Config struct {
	ServiceName             string
	EnableDefaultCollectors bool
}

type Metrics struct {
	Registry *prometheus.Registry

	reg prometheus.Registerer

	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	restores        *prometheus.CounterVec
	restoreDuration prometheus.Histogram
}

func New(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)

	if cfg.EnableDefaultCollectors {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	m := &Metrics{
		Registry: registry,
		reg:      reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
		restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_restores_total",
			Help:      "Finished snapshot restore jobs by outcome.",
		}, []string{"stage"}),
		restoreDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_restore_duration_seconds",
			Help:      "Time spent transferring a snapshot to Qdrant.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.inFlight, m.restores, m.restoreDuration)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// GaugeFunc registers a gauge sampled from fn at scrape time.
func (m *Metrics) GaugeFunc(name, help string, fn func() float64) {
	m.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

// ObserveRestore records the outcome of one restore job.
func (m *Metrics) ObserveRestore(stage string, elapsed time.Duration) {
	m.restores.WithLabelValues(stage).Inc()
	m.restoreDuration.Observe(elapsed.Seconds())
}

// Middleware counts and times every request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		ww, ok := w.(middleware.WrapResponseWriter)
		if !ok {
			ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		}
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := RouteLabel(r.URL.Path)
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

var apiGroups = map[string]bool{
	"auth": true, "collections": true, "vectors": true, "snapshots": true,
	"stats": true, "ops": true, "security": true,
}

// RouteLabel collapses a request path to a bounded set of labels so path
// parameters and scanners cannot blow up label cardinality.
func RouteLabel(path string) string {
	seg := strings.Split(strings.Trim(path, "/"), "/")
	switch seg[0] {
	case "health", "metrics", "swagger":
		return "/" + seg[0]
	case "api":
		if len(seg) > 1 && apiGroups[seg[1]] {
			return "/api/" + seg[1]
		}
	}
	return "other"
}

package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/toolshed/pkg/domain"
)

// Metrics owns a private Prometheus registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	inFlight     prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace       string
	runtime         bool
	durationBuckets []float64
}

// WithNamespace prefixes every metric name (default "toolshed").
func WithNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) { c.namespace = ns }
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() MetricsOption {
	return func(c *metricsConfig) { c.runtime = true }
}

// WithDurationBuckets overrides the histogram buckets, in seconds.
func WithDurationBuckets(b ...float64) MetricsOption {
	return func(c *metricsConfig) { c.durationBuckets = b }
}

// NewMetrics creates and registers the toolshed collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := metricsConfig{
		namespace:       "toolshed",
		durationBuckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "tool_invocations_total",
				Help:      "Total number of tool invocations by tool and outcome.",
			},
			[]string{"tool", "outcome"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "tool_duration_seconds",
				Help:      "Duration of tool executions.",
				Buckets:   cfg.durationBuckets,
			},
			[]string{"tool"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.namespace,
			Name:      "tool_invocations_in_flight",
			Help:      "Tool invocations currently running.",
		}),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route pattern, method and status code.",
			},
			[]string{"route", "method", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route pattern.",
				Buckets:   cfg.durationBuckets,
			},
			[]string{"route", "method"},
		),
	}
	m.registry.MustRegister(m.toolCalls, m.toolDuration, m.inFlight, m.httpRequests, m.httpDuration)
	if cfg.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Hooks returns lifecycle hooks that record tool invocations.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnToolCall: func(_ context.Context, _ *domain.ToolEvent) {
			m.inFlight.Inc()
		},
		OnToolReturn: func(_ context.Context, e *domain.ToolEvent) {
			m.inFlight.Dec()
			m.toolCalls.WithLabelValues(e.ToolName, Outcome(e)).Inc()
			m.toolDuration.WithLabelValues(e.ToolName).Observe(e.Duration.Seconds())
		},
	}
}

// Outcome labels an event "ok" or by its error kind.
func Outcome(e *domain.ToolEvent) string {
	if !e.IsError {
		return "ok"
	}
	if e.ErrorKind == "" {
		return "error"
	}
	return e.ErrorKind
}

// RouteFunc reports the route pattern of a served request, e.g. "/api/tools/{name}".
// Patterns keep label cardinality bounded.
type RouteFunc func(r *http.Request) string

// Middleware records request counts and latency. route is called after the
// handler returns so routers can expose the matched pattern.
func (m *Metrics) Middleware(route RouteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(sw, r)

			pattern := route(r)
			if pattern == "" {
				pattern = "unmatched"
			}
			m.httpRequests.WithLabelValues(pattern, r.Method, strconv.Itoa(sw.code)).Inc()
			m.httpDuration.WithLabelValues(pattern, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

type statusWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.code, w.wroteHeader = code, true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

package observability

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported on /metrics. All methods
// are safe on a nil receiver so callers never need to check whether metrics
// are enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec

	lessonCache   *prometheus.CounterVec
	activityDelta *prometheus.CounterVec
}

var instance atomic.Pointer[Metrics]

// Current returns the process-wide metrics, or nil when disabled.
func Current() *Metrics {
	return instance.Load()
}

// SetCurrent installs m as the process-wide metrics. Passing nil disables them.
func SetCurrent(m *Metrics) {
	instance.Store(m)
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "infinitetutor_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "infinitetutor_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "infinitetutor_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "infinitetutor_llm_requests_total",
			Help: "LLM requests by provider/kind/status.",
		}, []string{"provider", "kind", "status"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "infinitetutor_llm_request_duration_seconds",
			Help:    "LLM request latency in seconds by provider/kind.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"provider", "kind"}),
		lessonCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "infinitetutor_lesson_cache_total",
			Help: "Generate-lesson requests by cache outcome (hit, miss, shared, waited, uncached).",
		}, []string{"result"}),
		activityDelta: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "infinitetutor_activity_logged_total",
			Help: "Study minutes and lessons logged through /stats.",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.llmRequests,
		m.llmLatency,
		m.lessonCache,
		m.activityDelta,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func (m *Metrics) ObserveLLMRequest(provider, kind, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(provider, kind, status).Inc()
	m.llmLatency.WithLabelValues(provider, kind).Observe(d.Seconds())
}

func (m *Metrics) ObserveLessonCache(result string) {
	if m == nil {
		return
	}
	m.lessonCache.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveActivity(minutes, lessons int) {
	if m == nil {
		return
	}
	if minutes > 0 {
		m.activityDelta.WithLabelValues("minutes").Add(float64(minutes))
	}
	if lessons > 0 {
		m.activityDelta.WithLabelValues("lessons").Add(float64(lessons))
	}
}

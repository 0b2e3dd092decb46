// Package metrics owns the prometheus registry of the server. The recording
// methods are safe on a nil *Metrics so tests can leave it out.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coach"

type Metrics struct {
	registry *prometheus.Registry

	apiRequests   *prometheus.CounterVec
	apiLatency    *prometheus.HistogramVec
	apiInflight   prometheus.Gauge
	assessments   *prometheus.CounterVec
	codeChecks    prometheus.Counter
	codeExhausted prometheus.Counter
	feedFailures  prometheus.Counter
	subscriptions *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_evaluated_total",
			Help:      "Assessments stored, by protocol and body-fat outcome.",
		}, []string{"protocol", "body_fat"}),
		codeChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trainer_code_checks_total",
			Help:      "Candidate trainer codes checked against the store.",
		}),
		codeExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trainer_code_exhausted_total",
			Help:      "Trainer registrations that ran out of code attempts.",
		}),
		feedFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_feed_publish_failures_total",
			Help:      "Live notification publishes that failed.",
		}),
		subscriptions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_subscriptions",
			Help:      "Open live subscriptions by kind.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.assessments, m.codeChecks, m.codeExhausted,
		m.feedFailures, m.subscriptions,
	)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency per matched route. Unmatched paths are
// grouped under "unmatched" to keep label cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		m.apiInflight.Inc()
		defer m.apiInflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.apiRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.apiLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// AssessmentEvaluated counts a stored assessment. outcome is "computed",
// "entered" or "unavailable".
func (m *Metrics) AssessmentEvaluated(protocol, outcome string) {
	if m == nil {
		return
	}
	if protocol == "" {
		protocol = "none"
	}
	m.assessments.WithLabelValues(protocol, outcome).Inc()
}

func (m *Metrics) TrainerCodeChecked() {
	if m == nil {
		return
	}
	m.codeChecks.Inc()
}

func (m *Metrics) TrainerCodeExhausted() {
	if m == nil {
		return
	}
	m.codeExhausted.Inc()
}

func (m *Metrics) FeedPublishFailed() {
	if m == nil {
		return
	}
	m.feedFailures.Inc()
}

// SubscriptionOpened returns the matching release func.
func (m *Metrics) SubscriptionOpened(kind string) func() {
	if m == nil {
		return func() {}
	}
	g := m.subscriptions.WithLabelValues(kind)
	g.Inc()
	return g.Dec
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Best-effort step labels.
const (
	StepDuplicateCheck = "duplicate_check"
	StepNotify         = "notify"
	StepMirror         = "mirror"
)

// Metrics holds the service collectors.
type Metrics struct {
	Registrations      *prometheus.CounterVec
	BestEffortFailures *prometheus.CounterVec
	responseTime       prometheus.Histogram
	httpRequests       *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "registration_requests_total", Help: "registration submissions by outcome"},
			[]string{"outcome"},
		),
		BestEffortFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "registration_best_effort_failures_total", Help: "swallowed failures of non-critical steps"},
			[]string{"step"},
		),
		responseTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "response_time",
				Help:    "http response time.",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10},
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
			[]string{"code", "method"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Registrations, m.BestEffortFailures, m.responseTime, m.httpRequests)
	}
	return m
}

// IncRegistration counts one submission outcome.
func (m *Metrics) IncRegistration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

// IncBestEffortFailure counts one swallowed failure of step.
func (m *Metrics) IncBestEffortFailure(step string) {
	if m == nil {
		return
	}
	m.BestEffortFailures.WithLabelValues(step).Inc()
}

// Collect returns a gin middleware recording status code, method and latency.
func (m *Metrics) Collect() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/metrics" {
			return
		}
		m.httpRequests.WithLabelValues(strconv.Itoa(c.Writer.Status()), c.Request.Method).Inc()
		m.responseTime.Observe(time.Since(start).Seconds())
	}
}

// Handler returns the /metrics handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

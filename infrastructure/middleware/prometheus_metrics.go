// Package middleware provides cross-cutting infrastructure adapters for
// the scoring service.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/talentrank/talentrank/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It exposes LLM request metrics (latency, counts, token
// usage) and scoring pipeline metrics on the /metrics endpoint.
type PrometheusMetrics struct {
	llmRequests    *prometheus.CounterVec
	llmTokens      *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	scoringCounter *prometheus.CounterVec
	scoringLatency *prometheus.HistogramVec
	systemGauges   *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the service metrics in the default
// Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWithRegistry registers the service metrics in the
// given registry. Tests use this to avoid duplicate registration in the
// global registry.
func NewPrometheusMetricsWithRegistry(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		llmRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total LLM requests by provider, model, and outcome.",
			},
			[]string{"provider", "model", "status"},
		),
		llmTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Total tokens consumed across all LLM interactions.",
			},
			[]string{"provider", "model", "token_type"},
		),
		llmLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_latency_seconds",
				Help:    "LLM request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "model", "status"},
		),
		scoringCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_requests_total",
				Help: "Total scoring requests by outcome.",
			},
			[]string{"status"},
		),
		scoringLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scoring_latency_seconds",
				Help:    "End-to-end scoring request latency.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"status"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "talentrank_system_state",
				Help: "Current system state values.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency records execution latency in the matching histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.RecordHistogram(operation, duration.Seconds(), labels)
}

// RecordCounter increments the counter matching the metric name.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "llm_requests_total":
		pm.llmRequests.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Add(value)
	case "llm_tokens_total":
		pm.llmTokens.WithLabelValues(
			labels["provider"], labels["model"], labels["token_type"],
		).Add(value)
	case "scoring_requests_total":
		pm.scoringCounter.WithLabelValues(labels["status"]).Add(value)
	default:
		pm.scoringCounter.WithLabelValues(metric).Add(value)
	}
}

// RecordGauge sets the matching gauge value.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// RecordHistogram records a value in the histogram matching the metric name.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "llm_latency_seconds":
		pm.llmLatency.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Observe(value)
	case "scoring_latency_seconds":
		pm.scoringLatency.WithLabelValues(labels["status"]).Observe(value)
	default:
		pm.scoringLatency.WithLabelValues(labels["status"]).Observe(value)
	}
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

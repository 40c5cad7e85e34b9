// Package metrics provides Prometheus collectors for FCM request traffic.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics counts and times FCM requests by API generation and intent.
// A nil *RequestMetrics is valid and records nothing.
type RequestMetrics struct {
	RequestsTotal   *prometheus.CounterVec   // by api_version, intent, outcome
	RequestDuration *prometheus.HistogramVec // by api_version, intent
}

// NewRequestMetrics creates the collectors and registers them on registerer.
func NewRequestMetrics(registerer prometheus.Registerer) (*RequestMetrics, error) {
	m := &RequestMetrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fcm_requests_total",
				Help: "Total number of FCM requests by API version, intent and outcome",
			},
			[]string{"api_version", "intent", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fcm_request_duration_seconds",
				Help:    "Time taken for one FCM request/response cycle",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 50.0},
			},
			[]string{"api_version", "intent"},
		),
	}
	if err := registerer.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register fcm request metrics: %w", err)
	}
	return m, nil
}

// Describe implements prometheus.Collector.
func (m *RequestMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.RequestsTotal.Describe(ch)
	m.RequestDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *RequestMetrics) Collect(ch chan<- prometheus.Metric) {
	m.RequestsTotal.Collect(ch)
	m.RequestDuration.Collect(ch)
}

// Observe records one completed request.
func (m *RequestMetrics) Observe(apiVersion, intent, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(apiVersion, intent, outcome).Inc()
	m.RequestDuration.WithLabelValues(apiVersion, intent).Observe(elapsed.Seconds())
}

// Package metrics holds the Prometheus collectors exported on /metrics.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nyenyak"

type Metrics struct {
	diagnosesCreated  *prometheus.CounterVec
	diagnosesRejected *prometheus.CounterVec
	classifierLatency *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		diagnosesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnoses_created_total",
			Help:      "Diagnoses stored, by predicted sleep disorder.",
		}, []string{"sleep_disorder"}),
		diagnosesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnoses_rejected_total",
			Help:      "Diagnosis submissions rejected by validation, by error code.",
		}, []string{"code"}),
		classifierLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_request_duration_seconds",
			Help:      "Latency of prediction service calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) ObserveDiagnosis(disorder string) {
	if m == nil {
		return
	}
	m.diagnosesCreated.WithLabelValues(disorder).Inc()
}

func (m *Metrics) ObserveRejected(code string) {
	if m == nil {
		return
	}
	m.diagnosesRejected.WithLabelValues(code).Inc()
}

func (m *Metrics) ObserveClassifier(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.classifierLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/carbonsense/backend/internal/domain"
)

// Metrics holds the estimator's Prometheus collectors
type Metrics struct {
	estimates       *prometheus.CounterVec
	resolutions     *prometheus.CounterVec
	externalLatency *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbonsense",
			Name:      "estimates_total",
			Help:      "Footprint estimates by overall provenance.",
		}, []string{"used"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbonsense",
			Name:      "category_resolutions_total",
			Help:      "Category results by category and provenance.",
		}, []string{"category", "provenance"}),
		externalLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "carbonsense",
			Name:      "external_call_duration_seconds",
			Help:      "Latency of Climatiq calls by category and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"category", "outcome"}),
	}

	reg.MustRegister(m.estimates, m.resolutions, m.externalLatency)
	return m
}

func (m *Metrics) observeEstimate(res domain.EstimationResult) {
	if m == nil {
		return
	}
	m.estimates.WithLabelValues(string(res.Used)).Inc()
	for category, provenance := range res.Sources {
		m.resolutions.WithLabelValues(string(category), string(provenance)).Inc()
	}
}

func (m *Metrics) observeExternalCall(c domain.Category, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.externalLatency.WithLabelValues(string(c), outcome).Observe(time.Since(started).Seconds())
}

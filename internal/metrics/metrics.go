// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the Prometheus collectors for dispatches and
// appended results. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/research-notebook/pkg/types"
)

// Dispatch outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeFailure = "failure"
)

// Metrics groups the collectors registered for one process.
type Metrics struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	appended   *prometheus.CounterVec
	inFlight   prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "research_notebook",
			Name:      "dispatches_total",
			Help:      "Provider dispatches by source and outcome.",
		}, []string{"source", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "research_notebook",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent waiting on a provider.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		appended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "research_notebook",
			Name:      "appended_results_total",
			Help:      "Results appended to the research document.",
		}, []string{"source"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "research_notebook",
			Name:      "dispatches_in_flight",
			Help:      "Submitted queries that have not been appended yet.",
		}),
	}
	reg.MustRegister(m.dispatches, m.duration, m.appended, m.inFlight)
	return m
}

// ObserveDispatch records one finished dispatch.
func (m *Metrics) ObserveDispatch(src types.Source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(string(src), outcome).Inc()
	m.duration.WithLabelValues(string(src)).Observe(d.Seconds())
}

// ObserveAppend records n results appended for src.
func (m *Metrics) ObserveAppend(src types.Source, n int) {
	if m == nil {
		return
	}
	m.appended.WithLabelValues(string(src)).Add(float64(n))
}

// Submitted marks a query as in flight.
func (m *Metrics) Submitted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// Settled marks an in-flight query as appended.
func (m *Metrics) Settled() {
	if m == nil {
		return
	}
	m.inFlight.Dec()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the traversal instruments of an instrumented store.
type Metrics struct {
	Traversals   *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	OpenSessions prometheus.Gauge
	AcquireFails prometheus.Counter
}

// NewMetrics creates the store instruments. Call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		Traversals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "research_index",
				Subsystem: "graph",
				Name:      "traversals_total",
				Help:      "Total number of graph traversals by statement and outcome",
			},
			[]string{"statement", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "research_index",
				Subsystem: "graph",
				Name:      "traversal_duration_seconds",
				Help:      "Graph traversal duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"statement"},
		),
		OpenSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "research_index",
				Subsystem: "graph",
				Name:      "open_sessions",
				Help:      "Number of graph sessions currently held",
			},
		),
		AcquireFails: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "research_index",
				Subsystem: "graph",
				Name:      "acquire_failures_total",
				Help:      "Total number of failed session acquisitions",
			},
		),
	}
}

// Register registers every instrument with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Traversals, m.Duration, m.OpenSessions, m.AcquireFails} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Instrument wraps store so that every acquisition and traversal is
// recorded in m.
func Instrument(store Store, m *Metrics) Store {
	return &instrumentedStore{store: store, metrics: m}
}

type instrumentedStore struct {
	store   Store
	metrics *Metrics
}

func (s *instrumentedStore) Acquire(ctx context.Context) (Session, error) {
	sess, err := s.store.Acquire(ctx)
	if err != nil {
		s.metrics.AcquireFails.Inc()
		return nil, err
	}
	s.metrics.OpenSessions.Inc()
	return &instrumentedSession{session: sess, metrics: s.metrics}, nil
}

func (s *instrumentedStore) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}

// Ping forwards to the wrapped store when it supports reachability checks.
func (s *instrumentedStore) Ping(ctx context.Context) error {
	if p, ok := s.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

type instrumentedSession struct {
	session Session
	metrics *Metrics
}

func (s *instrumentedSession) Execute(ctx context.Context, stmt Statement, params Params) ([]Record, error) {
	start := time.Now()
	records, err := s.session.Execute(ctx, stmt, params)
	s.metrics.Duration.WithLabelValues(stmt.Name).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.Traversals.WithLabelValues(stmt.Name, outcome).Inc()
	return records, err
}

func (s *instrumentedSession) Close(ctx context.Context) error {
	s.metrics.OpenSessions.Dec()
	return s.session.Close(ctx)
}

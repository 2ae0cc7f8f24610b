package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	OutcomeSuccess  = "success"
	OutcomePartial  = "partial"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// RunMetrics captures planning run health. A nil *RunMetrics records nothing.
type RunMetrics struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	ordersPlanned prometheus.Counter
	exceptions    *prometheus.CounterVec
	levels        prometheus.Gauge
}

// NewRunMetrics registers the run collectors on a fresh registry
func NewRunMetrics() *RunMetrics {
	registry := prometheus.NewRegistry()

	m := &RunMetrics{
		registry: registry,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mrp_runs_total",
			Help: "Planning runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mrp_run_duration_seconds",
			Help:    "Wall time of planning runs from collection to finalization.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		}, []string{"mode"}),
		ordersPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mrp_planned_orders_total",
			Help: "Planned orders emitted by finalized runs.",
		}),
		exceptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mrp_exceptions_total",
			Help: "Plan exceptions by kind.",
		}, []string{"kind"}),
		levels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mrp_last_run_levels",
			Help: "Number of product levels in the last run.",
		}),
	}

	registry.MustRegister(m.runs, m.runDuration, m.ordersPlanned, m.exceptions, m.levels)
	return m
}

// Registry exposes the collectors for scraping or pushing
func (m *RunMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *RunMetrics) ObserveRun(mode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(mode, outcome).Inc()
	m.runDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

func (m *RunMetrics) AddOrders(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ordersPlanned.Add(float64(n))
}

func (m *RunMetrics) AddException(kind string) {
	if m == nil {
		return
	}
	m.exceptions.WithLabelValues(kind).Inc()
}

func (m *RunMetrics) SetLevels(n int) {
	if m == nil {
		return
	}
	m.levels.Set(float64(n))
}

// PushgatewayPusher sends run metrics to a Prometheus Pushgateway after batch runs
type PushgatewayPusher struct {
	endpoint string
	job      string
	grouping map[string]string
}

// NewPushgatewayPusher returns a pusher for Prometheus Pushgateway
func NewPushgatewayPusher(endpoint, job string, grouping map[string]string) *PushgatewayPusher {
	return &PushgatewayPusher{
		endpoint: strings.TrimSpace(endpoint),
		job:      strings.TrimSpace(job),
		grouping: grouping,
	}
}

// Push sends the current registry metrics to the Pushgateway
func (p *PushgatewayPusher) Push(ctx context.Context, m *RunMetrics) error {
	if p == nil || m == nil {
		return nil
	}
	if p.endpoint == "" {
		return errors.New("pushgateway endpoint is required")
	}
	if p.job == "" {
		return errors.New("pushgateway job is required")
	}

	pusher := push.New(p.endpoint, p.job).Gatherer(m.registry)
	for key, value := range p.grouping {
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		pusher = pusher.Grouping(key, value)
	}

	return pusher.PushContext(ctx)
}

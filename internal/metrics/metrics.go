// Package metrics holds the Prometheus collectors exported by tixid.
package metrics

import (
	"net/http"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tixid"

// Metrics owns a private registry so several servers can run in one process.
type Metrics struct {
	registry *prometheus.Registry

	issued           *prometheus.CounterVec
	clockRegressions prometheus.Counter
	retries          prometheus.Counter
	duplicates       prometheus.Counter
	allocation       prometheus.Histogram
	storageReads     prometheus.Histogram
	storageCommits   prometheus.Histogram

	// GRPC carries the server interceptors and per-method counters.
	GRPC *grpc_prometheus.ServerMetrics
}

// New builds and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ids_issued_total",
			Help:      "IDs handed out, by kind.",
		}, []string{"kind"}),
		clockRegressions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clock_regressions_total",
			Help:      "Allocations refused because the clock moved backwards.",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Allocation attempts retried after a clock regression.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_issuances_total",
			Help:      "IDs the ledger had already recorded.",
		}),
		allocation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "allocation_seconds",
			Help:      "Time spent allocating one ID, retries included.",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12),
		}),
		storageReads: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "read_seconds",
			Help:      "Pebble point read latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		storageCommits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "commit_seconds",
			Help:      "Pebble batch commit latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		GRPC: grpc_prometheus.NewServerMetrics(),
	}
	m.registry.MustRegister(
		m.issued,
		m.clockRegressions,
		m.retries,
		m.duplicates,
		m.allocation,
		m.storageReads,
		m.storageCommits,
		m.GRPC,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Issued counts one handed-out ID of kind.
func (m *Metrics) Issued(kind string) { m.issued.WithLabelValues(kind).Inc() }

// ClockRegression counts one refused allocation.
func (m *Metrics) ClockRegression() { m.clockRegressions.Inc() }

// Retry counts one retried allocation attempt.
func (m *Metrics) Retry() { m.retries.Inc() }

// Duplicate counts one duplicate reported by the ledger.
func (m *Metrics) Duplicate() { m.duplicates.Inc() }

// ObserveAllocation records the latency of one allocation.
func (m *Metrics) ObserveAllocation(d time.Duration) { m.allocation.Observe(d.Seconds()) }

// ObserveRead implements pebblestore.MetricsHook.
func (m *Metrics) ObserveRead(elapsed time.Duration, _ int) {
	m.storageReads.Observe(elapsed.Seconds())
}

// ObserveBatchCommit implements pebblestore.MetricsHook.
func (m *Metrics) ObserveBatchCommit(elapsed time.Duration, _ int, _ int) {
	m.storageCommits.Observe(elapsed.Seconds())
}

// Package metrics exposes Prometheus instrumentation for the scan engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the scan engine.
type Metrics struct {
	BarsTotal       prometheus.Counter
	InvalidBars     *prometheus.CounterVec // labels: reason
	ComputeDur      prometheus.Histogram
	FeaturesTotal   prometheus.Counter
	GateResults     *prometheus.CounterVec // labels: gate, outcome
	Instances       *prometheus.GaugeVec   // labels: kind
	InstancesTotal  prometheus.Gauge
	SnapshotDur     prometheus.Histogram
	RedisWriteDur   prometheus.Histogram
	RingBufOverflow prometheus.Gauge
	WSReconnects    prometheus.Counter
}

// New registers and returns all scan-engine metrics.
func New() *Metrics {
	m := &Metrics{
		BarsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanengine_bars_total",
			Help: "Total bars accepted by the scan loop",
		}),
		InvalidBars: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanengine_invalid_bars_total",
			Help: "Bars refused by the sanitizer (by reason)",
		}, []string{"reason"}),
		ComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scanengine_compute_duration_seconds",
			Help:    "Indicator + gate compute latency per bar",
			Buckets: []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001},
		}),
		FeaturesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanengine_features_total",
			Help: "Total normalized feature values computed",
		}),
		GateResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanengine_gate_results_total",
			Help: "Filter gate verdicts (by gate and outcome)",
		}, []string{"gate", "outcome"}),
		Instances: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scanengine_indicator_instances",
			Help: "Live indicator instances in the registry (by kind)",
		}, []string{"kind"}),
		InstancesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scanengine_indicator_instances_total",
			Help: "Total live indicator instances in the registry",
		}),
		SnapshotDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scanengine_snapshot_duration_seconds",
			Help:    "Engine snapshot serialization + persistence latency",
			Buckets: prometheus.DefBuckets,
		}),
		RedisWriteDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scanengine_redis_write_duration_seconds",
			Help:    "Redis write latency",
			Buckets: prometheus.DefBuckets,
		}),
		RingBufOverflow: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scanengine_ringbuf_overflow_total",
			Help: "Ring buffer push overflows (dropped bars)",
		}),
		WSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanengine_ws_reconnects_total",
			Help: "Total bar-feed reconnection attempts",
		}),
	}

	prometheus.MustRegister(
		m.BarsTotal,
		m.InvalidBars,
		m.ComputeDur,
		m.FeaturesTotal,
		m.GateResults,
		m.Instances,
		m.InstancesTotal,
		m.SnapshotDur,
		m.RedisWriteDur,
		m.RingBufOverflow,
		m.WSReconnects,
	)

	return m
}

// ObserveGate records one gate verdict.
func (m *Metrics) ObserveGate(gate string, pass bool) {
	outcome := "fail"
	if pass {
		outcome = "pass"
	}
	m.GateResults.WithLabelValues(gate, outcome).Inc()
}

// SetInstanceCounts refreshes the registry-size gauges from a stats map.
func (m *Metrics) SetInstanceCounts(total int, byKind map[string]int) {
	m.InstancesTotal.Set(float64(total))
	for kind, n := range byKind {
		m.Instances.WithLabelValues(kind).Set(float64(n))
	}
}

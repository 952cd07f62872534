package profilesync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK        = "ok"
	outcomeError     = "error"
	outcomeStale     = "stale"
	outcomeSkipped   = "skipped"
	outcomeCancelled = "cancelled"
)

// Metrics is safe to use as a nil pointer.
type Metrics struct {
	loads   *prometheus.CounterVec
	deletes *prometheus.CounterVec
	reports *prometheus.CounterVec
	size    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "profile_sync",
			Name:      "loads_total",
			Help:      "Profile list loads by outcome.",
		}, []string{"outcome"}),
		deletes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "profile_sync",
			Name:      "deletes_total",
			Help:      "Profile deletions by outcome.",
		}, []string{"outcome"}),
		reports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "profile_sync",
			Name:      "errors_total",
			Help:      "Errors reported to the observability sink by kind.",
		}, []string{"kind"}),
		size: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "profile_sync",
			Name:      "profiles",
			Help:      "Profiles in the in-memory list.",
		}),
	}
}

func (m *Metrics) incLoad(outcome string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) incDelete(outcome string) {
	if m == nil {
		return
	}
	m.deletes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) incReport(kind ErrorKind) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) setSize(n int) {
	if m == nil {
		return
	}
	m.size.Set(float64(n))
}

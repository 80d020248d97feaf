package wiring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the outcome of the last assembly.
type Metrics struct {
	unresolved  prometheus.Gauge
	layerErrors *prometheus.GaugeVec
	duration    prometheus.Histogram
}

// NewMetrics creates and registers wiring metrics with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		unresolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gatehouse",
			Subsystem: "wiring",
			Name:      "unresolved_required",
			Help:      "Number of unresolved provider names observed in the last assembly.",
		}),
		layerErrors: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gatehouse",
			Subsystem: "wiring",
			Name:      "errors",
			Help:      "Wiring errors in the last assembly by layer.",
		}, []string{"layer"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gatehouse",
			Subsystem: "wiring",
			Name:      "assembly_duration_seconds",
			Help:      "Time taken to assemble the component graph.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{m.unresolved, m.layerErrors, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(report *Report, layers []Layer, took time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(took.Seconds())
	for _, l := range layers {
		m.layerErrors.WithLabelValues(string(l.Kind)).Set(0)
	}
	if report == nil {
		m.unresolved.Set(0)
		return
	}
	m.unresolved.Set(float64(report.Unresolved()))
	for kind, errs := range report.ByLayer() {
		m.layerErrors.WithLabelValues(string(kind)).Set(float64(len(errs)))
	}
}

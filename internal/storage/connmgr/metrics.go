package connmgr

import "github.com/prometheus/client_golang/prometheus"

// Metrics is shared by every manager; series are labelled by driver.
type Metrics struct {
	state          *prometheus.GaugeVec
	retries        *prometheus.CounterVec
	connectErrors  *prometheus.CounterVec
	probeFailures  *prometheus.CounterVec
	acquireRefused *prometheus.CounterVec
}

// NewMetrics creates and registers connection metrics with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gatehouse",
			Subsystem: "storage",
			Name:      "connection_state",
			Help:      "Connection state by driver (0 disconnected, 1 connecting, 2 connected, 3 degraded).",
		}, []string{"driver"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gatehouse",
			Subsystem: "storage",
			Name:      "retries_scheduled_total",
			Help:      "Reconnect attempts scheduled by driver and kind.",
		}, []string{"driver", "kind"}), // kind: backoff, soft
		connectErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gatehouse",
			Subsystem: "storage",
			Name:      "connect_errors_total",
			Help:      "Failed connection attempts by driver.",
		}, []string{"driver"}),
		probeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gatehouse",
			Subsystem: "storage",
			Name:      "probe_failures_total",
			Help:      "Failed health probes by driver and source.",
		}, []string{"driver", "source"}), // source: heartbeat, acquire
		acquireRefused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gatehouse",
			Subsystem: "storage",
			Name:      "acquire_refused_total",
			Help:      "Acquire calls refused with connection unavailable.",
		}, []string{"driver"}),
	}
	for _, c := range []prometheus.Collector{m.state, m.retries, m.connectErrors, m.probeFailures, m.acquireRefused} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) setState(driver string, s State) {
	if m != nil {
		m.state.WithLabelValues(driver).Set(float64(s))
	}
}

func (m *Metrics) retry(driver string, soft bool) {
	if m == nil {
		return
	}
	kind := "backoff"
	if soft {
		kind = "soft"
	}
	m.retries.WithLabelValues(driver, kind).Inc()
}

func (m *Metrics) connectError(driver string) {
	if m != nil {
		m.connectErrors.WithLabelValues(driver).Inc()
	}
}

func (m *Metrics) probeFailure(driver, source string) {
	if m != nil {
		m.probeFailures.WithLabelValues(driver, source).Inc()
	}
}

func (m *Metrics) refused(driver string) {
	if m != nil {
		m.acquireRefused.WithLabelValues(driver).Inc()
	}
}

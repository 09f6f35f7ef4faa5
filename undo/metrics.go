package undo

import "github.com/prometheus/client_golang/prometheus"

// Journal operations reported by Metrics.
const (
	opRecord = "record"
	opUndo   = "undo"
	opRedo   = "redo"
	opEvict  = "evict"
	opClear  = "clear"
)

// Metrics exposes journal activity as Prometheus collectors.
//
// One Metrics value may be shared by the journals of every open document;
// the byte gauge then reports the size of the journal that changed last.
type Metrics struct {
	groups *prometheus.CounterVec
	bytes  prometheus.Gauge
}

// NewMetrics creates the journal collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		groups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sprite",
			Subsystem: "undo",
			Name:      "groups_total",
			Help:      "Undo groups processed, by operation.",
		}, []string{"op"}),
		bytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sprite",
			Subsystem: "undo",
			Name:      "bytes",
			Help:      "Payload bytes held by the undo journal.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.groups, m.bytes)
	}
	return m
}

// observe counts one operation and publishes the journal size.
// It is a no-op on a nil receiver.
func (m *Metrics) observe(op string, bytes int64) {
	if m == nil {
		return
	}
	if op != opClear {
		m.groups.WithLabelValues(op).Inc()
	}
	m.bytes.Set(float64(bytes))
}

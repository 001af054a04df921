package surface

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the prometheus instruments for the surface hub.
type metrics struct {
	connected    prometheus.Gauge
	received     prometheus.Counter
	decodeErrors prometheus.Counter
	broadcasts   *prometheus.CounterVec
	writeErrors  prometheus.Counter
	droppedSlow  prometheus.Counter
}

// newMetrics registers hub instruments on the given registerer.
// A nil registerer falls back to the default registry.
func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &metrics{
		connected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "activitystream",
			Subsystem: "surface",
			Name:      "connected",
			Help:      "Number of currently connected new-tab surfaces.",
		}),
		received: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "activitystream",
			Subsystem: "surface",
			Name:      "messages_received_total",
			Help:      "Inbound envelopes read from surfaces.",
		}),
		decodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "activitystream",
			Subsystem: "surface",
			Name:      "decode_errors_total",
			Help:      "Inbound envelopes dropped because they could not be decoded.",
		}),
		broadcasts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activitystream",
			Subsystem: "surface",
			Name:      "broadcasts_total",
			Help:      "Outbound actions fanned out to surfaces, by action type.",
		}, []string{"type"}),
		writeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "activitystream",
			Subsystem: "surface",
			Name:      "write_errors_total",
			Help:      "Failed surface writes. Each one drops its surface.",
		}),
		droppedSlow: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "activitystream",
			Subsystem: "surface",
			Name:      "dropped_slow_total",
			Help:      "Surfaces dropped because their send queue filled up.",
		}),
	}
}

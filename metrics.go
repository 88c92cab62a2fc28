package pixelwalker

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pixelwalker/go-sdk/packet"
)

// Metrics collects client activity. A nil *Metrics records nothing.
type Metrics struct {
	packetsIn       *prometheus.CounterVec
	packetsOut      *prometheus.CounterVec
	connectAttempts *prometheus.CounterVec
	handlerErrors   *prometheus.CounterVec
	queueDepth      *prometheus.GaugeVec
}

// NewMetrics creates the client metrics. Call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		packetsIn: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pixelwalker",
				Subsystem: "client",
				Name:      "packets_received_total",
				Help:      "Number of packets received, by kind",
			},
			[]string{"kind"},
		),
		packetsOut: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pixelwalker",
				Subsystem: "client",
				Name:      "packets_sent_total",
				Help:      "Number of packets written to the socket, by kind and path",
			},
			[]string{"kind", "path"},
		),
		connectAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pixelwalker",
				Subsystem: "client",
				Name:      "connect_attempts_total",
				Help:      "Number of socket connection attempts, by result",
			},
			[]string{"result"},
		),
		handlerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pixelwalker",
				Subsystem: "client",
				Name:      "handler_errors_total",
				Help:      "Number of packet handlers that returned an error, by kind",
			},
			[]string{"kind"},
		),
		queueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "pixelwalker",
				Subsystem: "client",
				Name:      "queue_depth",
				Help:      "Number of packets waiting in a rate-limit bucket",
			},
			[]string{"bucket"},
		),
	}
}

// Register adds the metrics to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.packetsIn, m.packetsOut, m.connectAttempts, m.handlerErrors, m.queueDepth} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) received(kind packet.Kind) {
	if m == nil {
		return
	}
	m.packetsIn.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) sent(kind packet.Kind, direct bool) {
	if m == nil {
		return
	}
	path := "queued"
	if direct {
		path = "direct"
	}
	m.packetsOut.WithLabelValues(kind.String(), path).Inc()
}

func (m *Metrics) attempt(result string) {
	if m == nil {
		return
	}
	m.connectAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) handlerError(kind packet.Kind) {
	if m == nil {
		return
	}
	m.handlerErrors.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) depth(d *dispatcher) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues("outer").Set(float64(d.outer.Pending()))
	m.queueDepth.WithLabelValues("chat").Set(float64(d.chat.Pending()))
}

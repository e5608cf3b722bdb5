package transport

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the counters cmd/sipproxy exposes on /metrics, the same
// wiring the teacher's cmd/proxysip/main.go does with promhttp.Handler().
type Metrics struct {
	messagesReceived *prometheus.CounterVec
	parseErrors      *prometheus.CounterVec
}

// NewMetrics registers the transport counters against reg. Pass
// prometheus.DefaultRegisterer for the process-global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sipproxy",
			Subsystem: "transport",
			Name:      "messages_received_total",
			Help:      "Total SIP messages successfully parsed per network.",
		}, []string{"network"}),
		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sipproxy",
			Subsystem: "transport",
			Name:      "parse_errors_total",
			Help:      "Total framed buffers that failed to parse as a SIP message, per network.",
		}, []string{"network"}),
	}
	reg.MustRegister(m.messagesReceived, m.parseErrors)
	return m
}

package interceptors

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector is a MetricsCollector backed by prometheus counters.
type PrometheusCollector struct {
	sends    *prometheus.CounterVec
	receives *prometheus.CounterVec
}

// NewPrometheusCollector creates a collector registered with reg, or with
// the default registerer when reg is nil.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &PrometheusCollector{
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crosswire_channel_sends_total",
			Help: "Messages offered to a channel, by outcome.",
		}, []string{"channel", "type", "outcome"}),
		receives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crosswire_channel_receives_total",
			Help: "Messages received from a channel, by outcome.",
		}, []string{"channel", "type", "outcome"}),
	}
	for _, collector := range []prometheus.Collector{c.sends, c.receives} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordSend implements MetricsCollector
func (c *PrometheusCollector) RecordSend(channelName, messageType string, sent bool, err error) {
	outcome := "sent"
	switch {
	case err != nil:
		outcome = "error"
	case !sent:
		outcome = "declined"
	}
	c.sends.WithLabelValues(channelName, messageType, outcome).Inc()
}

// RecordReceive implements MetricsCollector
func (c *PrometheusCollector) RecordReceive(channelName, messageType string, err error) {
	outcome := "received"
	switch {
	case err != nil:
		outcome = "error"
	case messageType == "":
		outcome = "empty"
	}
	c.receives.WithLabelValues(channelName, messageType, outcome).Inc()
}

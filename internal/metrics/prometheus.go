package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "brand_strategist"

type promMetrics struct {
	requestsReceived prometheus.Counter
	requestsTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

func newPromMetrics(registry *prometheus.Registry) *promMetrics {
	factory := promauto.With(registry)

	return &promMetrics{
		requestsReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_received_total",
			Help:      "Strategy requests received.",
		}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Strategy requests completed, by outcome.",
		}, []string{"outcome"}),
		upstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "call_duration_seconds",
			Help:      "Chat-completion call duration in seconds.",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"status"}),
	}
}

func (p *promMetrics) observe(event MetricEvent) {
	switch event.Type {
	case EventRequestReceived:
		p.requestsReceived.Inc()
	case EventUpstreamCompleted:
		status := "error"
		if event.StatusCode > 0 {
			status = strconv.Itoa(event.StatusCode)
		}
		p.upstreamDuration.WithLabelValues(status).Observe(event.Duration.Seconds())
	case EventRequestCompleted:
		p.requestsTotal.WithLabelValues(string(event.Outcome)).Inc()
	}
}

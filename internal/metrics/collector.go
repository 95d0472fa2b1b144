package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type EventType string

const (
	EventRequestReceived   EventType = "request_received"
	EventUpstreamCompleted EventType = "upstream_completed"
	EventRequestCompleted  EventType = "request_completed"
)

// Outcome classifies how a strategy request ended.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeMethodNotAllowed  Outcome = "method_not_allowed"
	OutcomeMissingCredential Outcome = "missing_credential"
	OutcomeInvalidBody       Outcome = "invalid_body"
	OutcomeUpstreamError     Outcome = "upstream_error"
	OutcomeInvalidContent    Outcome = "invalid_content"
	OutcomeUnexpectedError   Outcome = "unexpected_error"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Outcome    Outcome
	Duration   time.Duration
	StatusCode int
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	prom    *promMetrics
	logger  *slog.Logger
}

// NewCollector creates a collector. When registry is non-nil the collector
// also maintains Prometheus series on it.
func NewCollector(bufferSize int, registry *prometheus.Registry, logger *slog.Logger) *Collector {
	c := &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
	if registry != nil {
		c.prom = newPromMetrics(registry)
	}
	return c
}

// Emit queues event without blocking; events are dropped when the buffer is full.
func (c *Collector) Emit(event MetricEvent) {
	if c == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case c.eventCh <- event:
	default:
		c.logger.Debug("Metrics buffer full, dropping event", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventRequestReceived:
		c.metrics.IncrementRequests()

	case EventUpstreamCompleted:
		c.metrics.RecordUpstream(event.Duration, event.StatusCode)

	case EventRequestCompleted:
		c.metrics.RecordOutcome(event.Outcome)
	}

	if c.prom != nil {
		c.prom.observe(event)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}

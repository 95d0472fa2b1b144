// Package metrics collects request and upstream statistics for the strategy
// endpoint.
//
// Request handling emits MetricEvent values into a buffered channel without
// blocking; a single goroutine started with Start folds them into an
// in-memory Metrics store and, when a registry is supplied, into Prometheus
// series:
//   - requests received and completed, by Outcome
//   - upstream call latency with P50/P95/P99
//   - upstream HTTP status distribution and transport failures
//
// Example usage:
//
//	registry := prometheus.NewRegistry()
//	collector := metrics.NewCollector(1000, registry, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:    metrics.EventRequestCompleted,
//		Outcome: metrics.OutcomeSuccess,
//	})
//
//	snapshot := collector.Snapshot()
//
// Remaining events are drained when the context is cancelled.
package metrics

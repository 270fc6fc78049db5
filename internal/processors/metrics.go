package processors

import (
	"metrics-sink/internal/shared/metrics"
)

const (
	outcomeSuccess         = "success"
	outcomePartial         = "partial"
	outcomeTransport       = "transport"
	outcomeInvalidResponse = "invalid_response"
	outcomeError           = "error"
	outcomePanic           = "panic"
)

var (
	metricFlushesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubProcessor,
			Name:      "flushes_total",
		},
		[]string{metrics.FieldTrigger, metrics.FieldOutcome},
	)

	metricEventsFlushedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubProcessor,
			Name:      "events_flushed_total",
		},
		[]string{metrics.FieldOutcome},
	)

	metricBatchSize = metrics.NewHistogram(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubProcessor,
			Name:      "batch_size",
			Buckets:   metrics.ExponentialBuckets(1, 4, 8),
		},
	)

	metricFlushLatency = metrics.NewHistogram(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubProcessor,
			Name:      "flush_latency_seconds",
			Buckets:   metrics.DefBuckets,
		},
	)

	metricLoopFaultsTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubProcessor,
			Name:      "loop_faults_total",
		},
	)

	metricQueueDepth = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubQueue,
			Name:      "depth",
		},
	)

	metricDeadLetterEventsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubDeadLetter,
			Name:      "events_total",
		},
		[]string{metrics.FieldOutcome},
	)
)

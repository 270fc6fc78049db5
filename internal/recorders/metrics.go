package recorders

import (
	"metrics-sink/internal/shared/metrics"
)

var (
	metricEventsEnqueuedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubQueue,
			Name:      "events_enqueued_total",
		},
		[]string{metrics.FieldEventKind},
	)

	metricEventsDroppedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubQueue,
			Name:      "events_dropped_total",
		},
		[]string{metrics.FieldEventKind},
	)
)

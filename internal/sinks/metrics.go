package sinks

import (
	"errors"

	"metrics-sink/internal/shared/metrics"
)

const (
	outcomePartial         = "partial"
	outcomeTransport       = "transport"
	outcomeInvalidResponse = "invalid_response"
)

var (
	metricBulkRequestsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSink,
			Name:      "bulk_requests_total",
		},
		[]string{metrics.FieldOutcome},
	)

	metricItemsRejectedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSink,
			Name:      "items_rejected_total",
		},
	)

	metricBulkLatency = metrics.NewHistogram(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSink,
			Name:      "bulk_latency_seconds",
			Buckets:   metrics.DefBuckets,
		},
	)
)

func outcomeOf(err error) string {
	if errors.Is(err, ErrTransport) {
		return outcomeTransport
	}
	return outcomeInvalidResponse
}

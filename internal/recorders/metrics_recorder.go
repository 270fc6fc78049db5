package recorders

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"metrics-sink/internal/models"
	"metrics-sink/internal/processors"
	"metrics-sink/internal/queues"
	"metrics-sink/internal/shared/loggers"
)

// MetricsRecorder is the non-blocking front door of the pipeline. Its methods
// return immediately and never report whether the record was stored; a full or
// closed queue only produces a warning log and a dropped counter.
//
//go:generate mockgen -source=metrics_recorder.go -destination=./mocks/metrics_recorder_mock.go -package=mocks
type MetricsRecorder interface {
	AddIntegrationRequest(clientID string, timestamp time.Time, totalItems int, sizeBytes int64,
		processingTimeMs float64, success bool, httpStatus string, userAgent string)
	AddPriceUpdate(clientID string, timestamp time.Time, processingTimeMs float64, totalItems int,
		sizeBytes int64, success bool)
	Submit(event models.Event)
	// Close stops intake and waits for the processor to drain, bounded by ctx.
	Close(ctx context.Context) error
	Stats() Stats
}

type Stats struct {
	Enqueued      uint64 `json:"enqueued"`
	Dropped       uint64 `json:"dropped"`
	QueueDepth    int    `json:"queue_depth"`
	QueueCapacity int    `json:"queue_capacity"`
	State         string `json:"state"`
}

type metricsRecorder struct {
	queue     *queues.BoundedQueue[models.Event]
	processor processors.BatchProcessor

	enqueued atomic.Uint64
	dropped  atomic.Uint64

	closeOnce sync.Once
	closeErr  error

	logger loggers.Logger
}

func NewMetricsRecorder(queue *queues.BoundedQueue[models.Event], processor processors.BatchProcessor, logger loggers.Logger) MetricsRecorder {
	return &metricsRecorder{
		queue:     queue,
		processor: processor,
		logger:    logger,
	}
}

func (r *metricsRecorder) AddIntegrationRequest(clientID string, timestamp time.Time, totalItems int, sizeBytes int64,
	processingTimeMs float64, success bool, httpStatus string, userAgent string) {
	r.Submit(models.NewIntegrationRequest(clientID, timestamp, totalItems, sizeBytes, processingTimeMs, success, httpStatus, userAgent))
}

func (r *metricsRecorder) AddPriceUpdate(clientID string, timestamp time.Time, processingTimeMs float64, totalItems int,
	sizeBytes int64, success bool) {
	r.Submit(models.NewPriceUpdate(clientID, timestamp, processingTimeMs, totalItems, sizeBytes, success))
}

// Submit hands the event to the queue without waiting. The outcome is deliberately
// not returned to the caller.
func (r *metricsRecorder) Submit(event models.Event) {
	if event == nil {
		return
	}

	kind := event.Kind().String()
	if r.queue.TryEnqueue(event) {
		r.enqueued.Add(1)
		metricEventsEnqueuedTotal.WithLabelValues(kind).Inc()
		return
	}

	r.dropped.Add(1)
	metricEventsDroppedTotal.WithLabelValues(kind).Inc()

	msg := "metrics queue is full - dropping metric entry"
	if r.queue.IsClosed() {
		msg = "metrics queue is closed - dropping metric entry"
	}
	r.logger.Warn().
		Str(loggers.FieldEventKind, kind).
		Int(loggers.FieldQueueCap, r.queue.Cap()).
		Msg(msg)
}

func (r *metricsRecorder) Close(ctx context.Context) error {
	r.closeOnce.Do(func() {
		r.logger.Info().Int(loggers.FieldQueueDepth, r.queue.Len()).Msg("closing metrics recorder")
		r.queue.Close()

		if err := r.processor.Wait(ctx); err != nil {
			r.closeErr = err
			r.logger.Error().Err(err).
				Int(loggers.FieldQueueDepth, r.queue.Len()).
				Str(loggers.FieldState, r.processor.State().String()).
				Msg("metrics recorder closed before drain completed, pending records may be lost")
			return
		}
		r.logger.Info().
			Uint64("enqueued", r.enqueued.Load()).
			Uint64("dropped", r.dropped.Load()).
			Msg("metrics recorder closed")
	})
	return r.closeErr
}

func (r *metricsRecorder) Stats() Stats {
	return Stats{
		Enqueued:      r.enqueued.Load(),
		Dropped:       r.dropped.Load(),
		QueueDepth:    r.queue.Len(),
		QueueCapacity: r.queue.Cap(),
		State:         r.processor.State().String(),
	}
}

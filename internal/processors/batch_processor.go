package processors

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"metrics-sink/internal/flushers"
	"metrics-sink/internal/models"
	"metrics-sink/internal/queues"
	"metrics-sink/internal/shared/loggers"
	"metrics-sink/internal/sinks"
	"metrics-sink/internal/stores"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultPollTimeout  = 100 * time.Millisecond
	defaultErrorBackoff = time.Second
	defaultFlushTimeout = 30 * time.Second

	tracerName = "metrics-sink/processors"
)

// Options tunes a BatchProcessor. Zero values fall back to defaults; a negative
// ErrorBackoff means the default, zero disables the pause.
type Options struct {
	Policy       flushers.FlushPolicy
	PollTimeout  time.Duration
	ErrorBackoff time.Duration
	FlushTimeout time.Duration

	// DeadLetters archives undelivered events when set.
	DeadLetters stores.DeadLetterStore
	Tracer      trace.Tracer
}

func (o Options) withDefaults() Options {
	if o.Policy.MaxBatchSize <= 0 {
		o.Policy.MaxBatchSize = 1000
	}
	if o.Policy.MaxFlushInterval <= 0 {
		o.Policy.MaxFlushInterval = 5 * time.Second
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = defaultPollTimeout
	}
	if o.ErrorBackoff < 0 {
		o.ErrorBackoff = defaultErrorBackoff
	}
	if o.FlushTimeout <= 0 {
		o.FlushTimeout = defaultFlushTimeout
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(tracerName)
	}
	return o
}

// BatchProcessor is the single consumer of the event queue and the only writer to the sink.
//
// It runs RUNNING until the queue is closed, then DRAINING until the queue is empty and
// the remainder has been flushed once, then STOPPED. Sink failures and panics never stop
// it; closing the queue is the only way to end it.
//
//go:generate mockgen -source=batch_processor.go -destination=./mocks/batch_processor_mock.go -package=mocks
type BatchProcessor interface {
	Start(ctx context.Context)
	// Wait blocks until STOPPED or until ctx is done.
	Wait(ctx context.Context) error
	State() State
}

type batchProcessor struct {
	queue *queues.BoundedQueue[models.Event]
	sink  sinks.BulkSink
	opts  Options

	state     atomic.Int32
	startOnce sync.Once
	done      chan struct{}

	// buffer and lastFlush are owned by the run goroutine.
	buffer    []models.Event
	lastFlush time.Time

	logger loggers.Logger
}

func NewBatchProcessor(queue *queues.BoundedQueue[models.Event], sink sinks.BulkSink, opts Options, logger loggers.Logger) BatchProcessor {
	return &batchProcessor{
		queue:  queue,
		sink:   sink,
		opts:   opts.withDefaults(),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Start spawns the consumer goroutine. Cancelling ctx does not stop it; ctx only
// supplies values to backend calls.
func (p *batchProcessor) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.setState(StateRunning)
		go p.run(context.WithoutCancel(ctx))
	})
}

func (p *batchProcessor) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *batchProcessor) State() State {
	return State(p.state.Load())
}

func (p *batchProcessor) setState(s State) {
	p.state.Store(int32(s))
	p.logger.Debug().Str(loggers.FieldState, s.String()).Msg("processor state changed")
}

func (p *batchProcessor) run(ctx context.Context) {
	defer close(p.done)

	p.buffer = p.newBuffer()
	p.lastFlush = time.Now()
	p.logger.Info().
		Int(loggers.FieldBatchSize, p.opts.Policy.MaxBatchSize).
		Int(loggers.FieldQueueCap, p.queue.Cap()).
		Str("flush_interval", p.opts.Policy.MaxFlushInterval.String()).
		Msg("batch processor started")

	for !p.queue.IsClosed() {
		p.guard(func() { p.iterate(ctx) })
	}

	p.setState(StateDraining)
	p.drain(ctx)
	p.setState(StateStopped)
	metricQueueDepth.Set(0)
	p.logger.Info().Msg("batch processor stopped")
}

func (p *batchProcessor) iterate(ctx context.Context) {
	if event, ok := p.queue.TryDequeue(p.opts.PollTimeout); ok {
		p.buffer = append(p.buffer, event)
	}
	metricQueueDepth.Set(float64(p.queue.Len()))

	if trigger := p.opts.Policy.Evaluate(len(p.buffer), time.Since(p.lastFlush)); trigger != flushers.TriggerNone {
		p.flush(ctx, trigger)
	}
}

// drain empties the closed queue without waiting and flushes the remainder once.
func (p *batchProcessor) drain(ctx context.Context) {
	p.logger.Info().
		Int(loggers.FieldQueueDepth, p.queue.Len()).
		Int(loggers.FieldBatchSize, len(p.buffer)).
		Msg("draining metrics queue")

	for {
		event, ok := p.queue.TryDequeue(0)
		if !ok {
			break
		}
		p.buffer = append(p.buffer, event)
		if len(p.buffer) >= p.opts.Policy.MaxBatchSize {
			p.guard(func() { p.flush(ctx, flushers.TriggerSize) })
		}
	}

	if len(p.buffer) > 0 {
		p.guard(func() { p.flush(ctx, flushers.TriggerDrain) })
	}

	if remaining := p.queue.Len(); remaining > 0 {
		p.logger.Warn().Int(loggers.FieldQueueDepth, remaining).Msg("discarding records left in queue after drain")
	}
}

// guard runs fn, turning a panic into a logged loop fault followed by the backoff pause.
func (p *batchProcessor) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			metricLoopFaultsTotal.Inc()
			p.logger.Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msgf("batch processor panic recovered: %v", r)
			if p.opts.ErrorBackoff > 0 {
				time.Sleep(p.opts.ErrorBackoff)
			}
		}
	}()
	fn()
}

func (p *batchProcessor) newBuffer() []models.Event {
	return make([]models.Event, 0, p.opts.Policy.MaxBatchSize)
}

// flush hands the buffer to the sink. The buffer is replaced and the timer reset
// whatever the outcome, including a panic.
func (p *batchProcessor) flush(ctx context.Context, trigger flushers.Trigger) {
	batch := p.buffer
	outcome := outcomePanic
	start := time.Now()
	defer func() {
		p.buffer = p.newBuffer()
		p.lastFlush = time.Now()
		metricFlushesTotal.WithLabelValues(string(trigger), outcome).Inc()
		metricEventsFlushedTotal.WithLabelValues(outcome).Add(float64(len(batch)))
		metricFlushLatency.Observe(time.Since(start).Seconds())
	}()
	metricBatchSize.Observe(float64(len(batch)))

	flushCtx, cancel := context.WithTimeout(ctx, p.opts.FlushTimeout)
	defer cancel()

	flushCtx, span := p.opts.Tracer.Start(flushCtx, "bulk.flush", trace.WithAttributes(
		attribute.String("bulk.index", p.sink.Index()),
		attribute.Int("bulk.batch_size", len(batch)),
		attribute.String("bulk.trigger", string(trigger)),
	))
	defer span.End()

	logger := p.logger.With().
		Str(loggers.FieldIndex, p.sink.Index()).
		Int(loggers.FieldBatchSize, len(batch)).
		Str(loggers.FieldFlushTrigger, string(trigger)).
		Logger()

	result, err := p.sink.Submit(flushCtx, batch)
	switch {
	case err != nil:
		outcome = outcomeForError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logger.Error().Err(err).Msg(messageForError(err))
		p.archive(ctx, batch, err.Error())

	case result.HasFailures():
		outcome = outcomePartial
		span.SetAttributes(attribute.Int("bulk.failed_count", result.FailedCount()))
		span.SetStatus(codes.Error, "partial failure")
		logger.Error().
			Int(loggers.FieldFailedCount, result.FailedCount()).
			Str("first_failure", result.Failed[0].String()).
			Msgf("bulk index partial failure: %d failures", result.FailedCount())
		p.archive(ctx, failedEvents(batch, result.Failed), "partial failure")

	default:
		outcome = outcomeSuccess
		span.SetAttributes(attribute.Int("bulk.failed_count", 0))
		logger.Debug().Dur(loggers.FieldDuration, time.Since(start)).Msg("bulk flush completed")
	}
}

// archive writes undelivered events to the dead-letter store, if configured.
func (p *batchProcessor) archive(ctx context.Context, events []models.Event, reason string) {
	if p.opts.DeadLetters == nil || len(events) == 0 {
		return
	}

	archiveCtx, cancel := context.WithTimeout(ctx, p.opts.FlushTimeout)
	defer cancel()

	key, err := p.opts.DeadLetters.Put(archiveCtx, p.sink.Index(), reason, events)
	if err != nil {
		metricDeadLetterEventsTotal.WithLabelValues(outcomeError).Add(float64(len(events)))
		p.logger.Warn().Err(err).Int(loggers.FieldBatchSize, len(events)).Msg("failed to archive undelivered records")
		return
	}
	metricDeadLetterEventsTotal.WithLabelValues(outcomeSuccess).Add(float64(len(events)))
	p.logger.Info().Str(loggers.FieldObjectKey, key).Int(loggers.FieldBatchSize, len(events)).Msg("archived undelivered records")
}

func failedEvents(batch []models.Event, failures []sinks.ItemFailure) []models.Event {
	events := make([]models.Event, 0, len(failures))
	for _, f := range failures {
		if f.Position >= 0 && f.Position < len(batch) {
			events = append(events, batch[f.Position])
		}
	}
	return events
}

func outcomeForError(err error) string {
	switch {
	case errors.Is(err, sinks.ErrTransport):
		return outcomeTransport
	case errors.Is(err, sinks.ErrInvalidResponse):
		return outcomeInvalidResponse
	default:
		return outcomeError
	}
}

func messageForError(err error) string {
	switch {
	case errors.Is(err, sinks.ErrTransport):
		return "bulk flush failed: backend unreachable, batch dropped"
	case errors.Is(err, sinks.ErrInvalidResponse):
		return "bulk flush failed: invalid bulk response, batch dropped"
	default:
		return "failed to process metrics batch"
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"metrics-sink/internal/flushers"
	internalhttp "metrics-sink/internal/http"
	"metrics-sink/internal/models"
	"metrics-sink/internal/processors"
	"metrics-sink/internal/queues"
	"metrics-sink/internal/recorders"
	"metrics-sink/internal/shared/configs"
	"metrics-sink/internal/shared/filestorages"
	"metrics-sink/internal/shared/loggers"
	"metrics-sink/internal/sinks"
	"metrics-sink/internal/stores"
)

const appName = "metrics-sink"

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	queue     *queues.BoundedQueue[models.Event]
	processor processors.BatchProcessor
	recorder  recorders.MetricsRecorder
}

// Option customises App construction.
type Option func(*options)

type options struct {
	logger        *loggers.Logger
	sinkTransport http.RoundTripper
}

// WithLogger replaces the stdout logger built from config.
func WithLogger(logger loggers.Logger) Option {
	return func(o *options) { o.logger = &logger }
}

// WithSinkTransport sets the HTTP transport of the bulk client.
func WithSinkTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.sinkTransport = rt }
}

// New creates and initializes a new App instance.
func New(ctx context.Context, config *configs.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var appLogger loggers.Logger
	if o.logger != nil {
		appLogger = *o.logger
	} else {
		l, err := loggers.New(config.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		appLogger = l
	}
	appLogger = appLogger.With().Str(loggers.FieldApp, appName).Logger()

	// Initialize bulk sink
	sink, err := sinks.NewElasticsearchSink(sinks.ElasticsearchSinkConfig{
		Addresses:        config.Elasticsearch.Addresses(),
		Username:         config.Elasticsearch.Username,
		Password:         config.Elasticsearch.Password,
		Index:            config.Elasticsearch.Index,
		CompressRequests: config.Elasticsearch.CompressRequests,
		Transport:        o.sinkTransport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bulk sink: %w", err)
	}

	// Initialize optional dead-letter archive
	deadLetters, err := newDeadLetterStore(ctx, config.DeadLetter)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dead-letter store: %w", err)
	}

	// Initialize queue and processor
	queue := queues.NewBoundedQueue[models.Event](config.Pipeline.QueueCapacity)
	processorLogger := appLogger.With().Str(loggers.FieldComponent, "processor").Logger()
	processor := processors.NewBatchProcessor(queue, sink, processors.Options{
		Policy:       flushers.NewFlushPolicy(config.Pipeline.MaxBatchSize, config.Pipeline.FlushIntervalDuration()),
		PollTimeout:  config.Pipeline.PollTimeout(),
		ErrorBackoff: config.Pipeline.ErrorBackoff(),
		FlushTimeout: time.Duration(config.Elasticsearch.RequestTimeout) * time.Second,
		DeadLetters:  deadLetters,
	}, processorLogger)

	recorderLogger := appLogger.With().Str(loggers.FieldComponent, "recorder").Logger()
	recorder := recorders.NewMetricsRecorder(queue, processor, recorderLogger)

	// Initialize ops router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(recorder, processor, httpLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:    config,
		appLogger: appLogger,
		server:    server,
		queue:     queue,
		processor: processor,
		recorder:  recorder,
	}, nil
}

func newDeadLetterStore(ctx context.Context, cfg configs.DeadLetterConfig) (stores.DeadLetterStore, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var fileStorage filestorages.FileStorage
	var err error
	switch cfg.Driver {
	case "file":
		fileStorage, err = filestorages.NewLocalFileStorage(cfg.RootDir)
	case "s3":
		fileStorage, err = filestorages.NewS3FileStorage(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
	default:
		err = fmt.Errorf("unknown dead-letter driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return stores.NewDeadLetterStore(fileStorage), nil
}

// Recorder is the entry point producers submit metrics to.
func (app *App) Recorder() recorders.MetricsRecorder {
	return app.recorder
}

// StartPipeline launches the background batch processor.
func (app *App) StartPipeline(ctx context.Context) {
	app.appLogger.Info().
		Str(loggers.FieldIndex, app.config.Elasticsearch.Index).
		Int(loggers.FieldBatchSize, app.config.Pipeline.MaxBatchSize).
		Int(loggers.FieldQueueCap, app.config.Pipeline.QueueCapacity).
		Bool("dead_letter_enabled", app.config.DeadLetter.Enabled).
		Msg("Starting metrics pipeline")
	app.processor.Start(ctx)
}

// Start starts the pipeline and then the ops HTTP server in a blocking manner.
func (app *App) Start() error {
	app.StartPipeline(context.Background())

	app.appLogger.Info().
		Msgf("Starting %s ops server on port %d (log_level=%s)", appName, app.config.Server.Port, app.config.Log.Level)
	return app.server.ListenAndServe()
}

// Shutdown stops the ops server, then closes the recorder and waits for the
// processor to drain, bounded by ctx and pipeline.shutdown_timeout.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server
	app.appLogger.Info().Msg("Shutting down server...")
	serverErr := app.server.Shutdown(ctx)
	if serverErr != nil {
		serverErr = fmt.Errorf("server shutdown failed: %w", serverErr)
	} else {
		app.appLogger.Info().Msg("Server stopped")
	}

	// 2) Close intake and drain the pipeline
	drainCtx, cancel := context.WithTimeout(ctx, app.config.Pipeline.ShutdownTimeoutDuration())
	defer cancel()
	pipelineErr := app.recorder.Close(drainCtx)
	if pipelineErr != nil {
		pipelineErr = fmt.Errorf("pipeline drain incomplete (%d records pending): %w", app.queue.Len(), pipelineErr)
	} else {
		app.appLogger.Info().Msg("Metrics pipeline stopped")
	}

	return errors.Join(serverErr, pipelineErr)
}

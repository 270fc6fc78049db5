package http

import (
	"net/http"

	"metrics-sink/internal/processors"
	"metrics-sink/internal/recorders"
	"metrics-sink/internal/shared/loggers"
	"metrics-sink/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

const (
	pathMetrics = "/metrics"
	pathHealth  = "/healthz"
	pathReady   = "/readyz"
	pathStats   = "/stats"
)

// NewRouter creates the operational router of the metrics pipeline.
func NewRouter(recorder recorders.MetricsRecorder, processor processors.BatchProcessor, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	opsHandler := NewOpsHandler(recorder, processor)

	router.Get(pathHealth, errorHandlingAdapter(AppHttpHandlerFunc(opsHandler.Health)))
	router.Get(pathReady, errorHandlingAdapter(AppHttpHandlerFunc(opsHandler.Ready)))
	router.Get(pathStats, errorHandlingAdapter(AppHttpHandlerFunc(opsHandler.Stats)))
	router.Get(pathMetrics, metrics.PromHTTP.Handler().ServeHTTP)

	return router
}

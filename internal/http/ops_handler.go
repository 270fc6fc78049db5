package http

import (
	"net/http"

	"metrics-sink/internal/processors"
	"metrics-sink/internal/recorders"
	"metrics-sink/internal/shared/svcerrors"
)

type statusResponse struct {
	Status string `json:"status"`
	State  string `json:"state,omitempty"`
}

// OpsHandler serves liveness, readiness and pipeline statistics.
type OpsHandler struct {
	recorder  recorders.MetricsRecorder
	processor processors.BatchProcessor
}

func NewOpsHandler(recorder recorders.MetricsRecorder, processor processors.BatchProcessor) *OpsHandler {
	return &OpsHandler{
		recorder:  recorder,
		processor: processor,
	}
}

// Health handles GET /healthz. The process answering is enough.
func (h *OpsHandler) Health(w http.ResponseWriter, _ *http.Request) error {
	setNoStore(w)
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	return nil
}

// Ready handles GET /readyz: ready only while the processor is RUNNING.
func (h *OpsHandler) Ready(w http.ResponseWriter, _ *http.Request) error {
	setNoStore(w)
	state := h.processor.State()
	if state != processors.StateRunning {
		return svcerrors.NewUnavailableError(ErrCodeNotReady, errMsgNotReady+": "+state.String(), nil)
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ready", State: state.String()})
	return nil
}

// Stats handles GET /stats.
func (h *OpsHandler) Stats(w http.ResponseWriter, _ *http.Request) error {
	setNoStore(w)
	writeJSON(w, http.StatusOK, h.recorder.Stats())
	return nil
}

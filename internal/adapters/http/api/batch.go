// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	jobqueue "github.com/fluense/fluense/internal/adapters/pipeline/queue"
	"github.com/fluense/fluense/internal/domain/report"
)

// batchRequest mirrors the OpenAPI schema for POST /assess/batch.
type batchRequest struct {
	Items []assessRequest `json:"items"`
}

// batchResponse carries the reports in submission order.
type batchResponse struct {
	Results []report.Report `json:"results"`
}

// BatchHandler handles batch assessment requests.
type BatchHandler struct {
	deps Dependencies
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(deps Dependencies) *BatchHandler {
	return &BatchHandler{deps: deps}
}

// HandlePostBatch handles POST /assess/batch requests. A full job queue
// maps to 503 so callers know to retry later; everything in the batch
// either succeeds together or the whole request fails.
func (h *BatchHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_assess_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	for i, item := range req.Items {
		if err := item.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: item %d: %w", op, i, err))
			return
		}
	}

	items := make([]report.Request, len(req.Items))
	for i, item := range req.Items {
		items[i] = item.toRequest()
	}

	reports, err := h.deps.AssessBatch(r.Context(), items)
	if err != nil {
		switch {
		case errors.Is(err, jobqueue.ErrBackpressure):
			writeError(w, http.StatusServiceUnavailable, "backpressure", err)
		case errors.Is(err, report.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "bad_request", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{Results: reports})
}

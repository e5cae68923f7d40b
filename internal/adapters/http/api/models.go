package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/numerox/internal/domain/dedupe"
)

// maxBodyBytes bounds POST /predictions bodies.
const maxBodyBytes = 64 << 20

// IdempotencyKeyHeader makes a retried POST /predictions a no-op. A retry
// that arrives while the first request is still running gets 409 in_flight.
const IdempotencyKeyHeader = "Idempotency-Key"

// insertRequest is the body of POST /predictions/{model}. A null yhat
// entry marks the id as present but missing.
type insertRequest struct {
	IDs  []string `json:"ids"`
	YHat []number `json:"yhat"`
}

type insertResponse struct {
	Model  string `json:"model"`
	Rows   int    `json:"rows"`
	Status string `json:"status"`
}

// ModelsHandler lists, inserts and exports model predictions.
type ModelsHandler struct {
	deps ModelDependencies
	keys dedupe.Deduper
}

// NewModelsHandler creates a new models handler. Idempotency keys are
// remembered by keys.
func NewModelsHandler(deps ModelDependencies, keys dedupe.Deduper) *ModelsHandler {
	return &ModelsHandler{deps: deps, keys: keys}
}

// HandleList handles GET /models.
func (h *ModelsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Models(r.Context()))
}

// HandleInsert handles POST /predictions/{model}.
func (h *ModelsHandler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("model"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing model name", ErrBadRequest))
		return
	}

	var req insertRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	yhat := make([]float64, len(req.YHat))
	for i, v := range req.YHat {
		yhat[i] = float64(v)
	}

	var key string
	if k := r.Header.Get(IdempotencyKeyHeader); k != "" {
		key = name + "\x00" + k
		switch h.keys.Acquire(r.Context(), key) {
		case dedupe.Done:
			writeJSON(w, http.StatusOK, insertResponse{Model: name, Rows: len(req.IDs), Status: "replayed"})
			return
		case dedupe.Pending:
			writeError(w, http.StatusConflict, "in_flight", fmt.Errorf("%w: %s", ErrInFlight, k))
			return
		}
	}

	if err := h.deps.Insert(r.Context(), name, req.IDs, yhat); err != nil {
		if key != "" {
			h.keys.Unrecord(r.Context(), key)
		}
		writeDomainError(w, err)
		return
	}
	if key != "" {
		h.keys.Commit(r.Context(), key)
	}
	writeJSON(w, http.StatusCreated, insertResponse{Model: name, Rows: len(req.IDs), Status: "inserted"})
}

// HandleExport handles GET /predictions/{model} as CSV.
func (h *ModelsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.deps.Export(r.Context(), &buf, r.PathValue("model")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

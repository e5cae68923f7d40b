package api

import (
	"net/http"
)

// PerformanceHandler serves leaderboards and per-model reports.
type PerformanceHandler struct {
	deps PerformanceDependencies
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(deps PerformanceDependencies) *PerformanceHandler {
	return &PerformanceHandler{deps: deps}
}

// HandlePerformance handles GET /performance?sort_by=.
func (h *PerformanceHandler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Performance(r.Context(), r.URL.Query().Get("sort_by"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPerformance(report))
}

// HandlePerEra handles GET /performance/{model}.
func (h *PerformanceHandler) HandlePerEra(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("model")
	rows, err := h.deps.PerEra(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPerEra(name, rows))
}

// HandleSummary handles GET /summary/{model}.
func (h *PerformanceHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Summary(r.Context(), r.PathValue("model"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummary(report))
}

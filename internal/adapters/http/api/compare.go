package api

import (
	"fmt"
	"net/http"
	"strings"
)

// CompareHandler serves cross-model comparisons.
type CompareHandler struct {
	deps CompareDependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps CompareDependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// HandleDominance handles GET /dominance?sort_by=.
func (h *CompareHandler) HandleDominance(w http.ResponseWriter, r *http.Request) {
	rows, err := h.deps.Dominance(r.Context(), r.URL.Query().Get("sort_by"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDominance(rows))
}

// HandleCorrelation handles GET /correlation?model=. Without a model every
// model is reported.
func (h *CompareHandler) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	reports, err := h.deps.Correlation(r.Context(), r.URL.Query().Get("model"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCorrelation(reports))
}

// HandleOriginality handles GET /originality?submitted=a,b.
func (h *CompareHandler) HandleOriginality(w http.ResponseWriter, r *http.Request) {
	submitted := SplitList(r.URL.Query().Get("submitted"))
	if len(submitted) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: submitted must name at least one model", ErrBadRequest))
		return
	}
	rows, err := h.deps.Originality(r.Context(), submitted)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// SplitList splits a comma-separated list of model names, trimming spaces
// and dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Package api serves the prediction service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/numerox/internal/app"
	"github.com/okian/numerox/internal/domain/analytics"
	"github.com/okian/numerox/internal/domain/dedupe"
	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/okian/numerox/internal/domain/scoring"
	"github.com/okian/numerox/internal/domain/types"
)

// ModelInfo mirrors the shape returned by GET /models.
type ModelInfo = types.ModelInfo

// Dependencies required by HTTP handlers.
type Dependencies interface {
	ModelDependencies
	PerformanceDependencies
	CompareDependencies
	StatsProvider
}

// ModelDependencies lists and inserts models.
type ModelDependencies interface {
	Models(ctx context.Context) []ModelInfo
	Insert(ctx context.Context, name string, ids []string, yhat []float64) error
	Export(ctx context.Context, w io.Writer, name string) error
}

// PerformanceDependencies scores models against the dataset.
type PerformanceDependencies interface {
	Performance(ctx context.Context, sortBy string) (*analytics.PerformanceReport, error)
	Summary(ctx context.Context, name string) (*analytics.SummaryReport, error)
	PerEra(ctx context.Context, name string) ([]scoring.EraMetrics, error)
}

// CompareDependencies compares models with each other.
type CompareDependencies interface {
	Dominance(ctx context.Context, sortBy string) ([]analytics.DominanceRow, error)
	Correlation(ctx context.Context, name string) ([]analytics.CorrelationReport, error)
	Originality(ctx context.Context, submitted []string) ([]analytics.OriginalityRow, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	modelsHandler      *ModelsHandler
	performanceHandler *PerformanceHandler
	compareHandler     *CompareHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...dedupe.Option) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		modelsHandler:      NewModelsHandler(deps, dedupe.NewInMemory(opts...)),
		performanceHandler: NewPerformanceHandler(deps),
		compareHandler:     NewCompareHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /models", MetricsMiddleware(s.modelsHandler.HandleList, "models"))
	mux.HandleFunc("POST /predictions/{model}", MetricsMiddleware(s.modelsHandler.HandleInsert, "predictions"))
	mux.HandleFunc("GET /predictions/{model}", MetricsMiddleware(s.modelsHandler.HandleExport, "export"))

	mux.HandleFunc("GET /performance", MetricsMiddleware(s.performanceHandler.HandlePerformance, "performance"))
	mux.HandleFunc("GET /performance/{model}", MetricsMiddleware(s.performanceHandler.HandlePerEra, "performance_era"))
	mux.HandleFunc("GET /summary/{model}", MetricsMiddleware(s.performanceHandler.HandleSummary, "summary"))

	mux.HandleFunc("GET /dominance", MetricsMiddleware(s.compareHandler.HandleDominance, "dominance"))
	mux.HandleFunc("GET /correlation", MetricsMiddleware(s.compareHandler.HandleCorrelation, "correlation"))
	mux.HandleFunc("GET /originality", MetricsMiddleware(s.compareHandler.HandleOriginality, "originality"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps service and domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, analytics.ErrInvalidArgument),
		errors.Is(err, prediction.ErrDimension),
		errors.Is(err, prediction.ErrEmptyName):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, prediction.ErrUnknownModel):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, prediction.ErrDuplicateID):
		return http.StatusConflict, "duplicate_id"
	case errors.Is(err, analytics.ErrInsufficientModels):
		return http.StatusUnprocessableEntity, "insufficient_models"
	case errors.Is(err, service.ErrNoDataset):
		return http.StatusUnprocessableEntity, "no_dataset"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	}
	return http.StatusInternalServerError, "internal_error"
}

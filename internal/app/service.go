// Package service owns the live prediction table and dataset and exposes
// the operations the HTTP API and CLI run against them.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/okian/numerox/internal/adapters/repository"
	"github.com/okian/numerox/internal/domain/analytics"
	"github.com/okian/numerox/internal/domain/model"
	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/okian/numerox/internal/domain/scoring"
	"github.com/okian/numerox/internal/domain/types"
	"github.com/okian/numerox/pkg/logger"
	"github.com/okian/numerox/pkg/metrics"
)

// ModelInfo describes one column of the table.
type ModelInfo = types.ModelInfo

// Service guards a prediction table with a read/write lock. Inserts take
// the write lock; every analytics call reads under the read lock.
type Service struct {
	mu sync.RWMutex

	table *prediction.Table
	data  *model.Dataset

	predictionDir string
	predictionExt string
	dataPath      string

	workers       int
	sortBy        string
	corrThreshold float64
	ksThreshold   float64
	csvDecimals   int
	compress      bool

	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		table:         prediction.New(),
		predictionExt: "pred",
		workers:       runtime.NumCPU(),
		sortBy:        analytics.SortLogLoss,
		corrThreshold: analytics.DefaultCorrThreshold,
		ksThreshold:   analytics.DefaultKSThreshold,
		csvDecimals:   6,
		compress:      true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the configured prediction directory and dataset. Calling it
// again on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting prediction service")

	// Archives merge into a copy so a failed start leaves the table as it was.
	table := s.table
	if s.predictionDir != "" {
		t, err := repository.LoadDir(ctx, s.predictionDir, s.predictionExt)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		table = s.table.Clone()
		for m := range t.Iter() {
			if err := table.Merge(m); err != nil {
				return fmt.Errorf("start: %w", err)
			}
		}
		s.logger.Info(ctx, "loaded prediction archives",
			logger.String("dir", s.predictionDir),
			logger.Strings("models", t.Names()),
		)
	}
	data := s.data
	if s.dataPath != "" {
		d, err := repository.LoadDataset(s.dataPath)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		data = d
		s.logger.Info(ctx, "loaded dataset",
			logger.String("path", s.dataPath),
			logger.Int("rows", d.Len()),
			logger.Int("eras", len(d.Eras())),
		)
	}
	s.table, s.data = table, data

	rows, models := s.table.Shape()
	metrics.UpdateTableShape(rows, models)
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "prediction service started",
		logger.Int("models", models),
		logger.Int("rows", rows),
		logger.Int("workers", s.workers),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "prediction service stopped")
}

// Insert merges the parallel ids and yhat slices into the table as model
// name. A rejected insert leaves the table unchanged.
func (s *Service) Insert(ctx context.Context, name string, ids []string, yhat []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.table.InsertArrays(name, ids, yhat); err != nil {
		metrics.RecordInsertRejected(rejectReason(err))
		s.log().Warn(ctx, "insert rejected", logger.String("model", name), logger.Error(err))
		return err
	}
	rows, models := s.table.Shape()
	metrics.RecordInsert(len(ids))
	metrics.UpdateTableShape(rows, models)
	s.log().Debug(ctx, "inserted predictions",
		logger.String("model", name),
		logger.Int("batch", len(ids)),
		logger.Int("rows", rows),
	)
	return nil
}

// Models lists the table's columns in insertion order.
func (s *Service) Models(_ context.Context) []ModelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.table.Len()
	out := make([]ModelInfo, 0, len(s.table.Names()))
	for _, name := range s.table.Names() {
		missing := s.table.Missing(name)
		out = append(out, ModelInfo{Name: name, Rows: rows - missing, Missing: missing})
	}
	return out
}

// Table returns a copy of the current table.
func (s *Service) Table() *prediction.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// Performance returns the leaderboard sorted by sortBy, or by the
// configured default when sortBy is empty.
func (s *Service) Performance(ctx context.Context, sortBy string) (report *analytics.PerformanceReport, err error) {
	if sortBy == "" {
		sortBy = s.sortBy
	}
	err = s.analyze(ctx, "performance", func(data *model.Dataset) error {
		report, err = analytics.Performance(ctx, data, s.table, sortBy, s.analyticsOptions()...)
		return err
	})
	return report, err
}

// Summary describes model name across eras.
func (s *Service) Summary(ctx context.Context, name string) (report *analytics.SummaryReport, err error) {
	err = s.analyze(ctx, "summary", func(data *model.Dataset) error {
		report, err = analytics.Summary(ctx, data, s.table, name, s.analyticsOptions()...)
		return err
	})
	return report, err
}

// PerEra returns the per-era metrics of model name.
func (s *Service) PerEra(ctx context.Context, name string) (rows []scoring.EraMetrics, err error) {
	err = s.analyze(ctx, "per_era", func(data *model.Dataset) error {
		rows, err = analytics.PerformancePerEra(ctx, data, s.table, name, s.analyticsOptions()...)
		return err
	})
	return rows, err
}

// Dominance compares all models era by era, sorted by the given metric
// (logloss when empty).
func (s *Service) Dominance(ctx context.Context, sortBy string) (rows []analytics.DominanceRow, err error) {
	if sortBy == "" {
		sortBy = scoring.MetricLogLoss
	}
	err = s.analyze(ctx, "dominance", func(data *model.Dataset) error {
		rows, err = analytics.Dominance(ctx, data, s.table, s.analyticsOptions()...)
		if err != nil {
			return err
		}
		return analytics.SortDominance(rows, sortBy)
	})
	return rows, err
}

// Correlation reports peer correlations of model name, or of every model
// when name is empty.
func (s *Service) Correlation(ctx context.Context, name string) (reports []analytics.CorrelationReport, err error) {
	err = s.read(ctx, "correlation", func() error {
		reports, err = analytics.Correlation(s.table, name)
		return err
	})
	return reports, err
}

// Originality checks every unsubmitted model against the submitted ones.
func (s *Service) Originality(ctx context.Context, submitted []string) (rows []analytics.OriginalityRow, err error) {
	err = s.read(ctx, "originality", func() error {
		rows, err = analytics.Originality(s.table, submitted, s.analyticsOptions()...)
		return err
	})
	return rows, err
}

// Export writes model name as CSV to w.
func (s *Service) Export(ctx context.Context, w io.Writer, name string) error {
	return s.read(ctx, "export", func() error {
		return repository.WriteCSV(w, s.table, name, s.csvDecimals)
	})
}

// Save writes the whole table to an archive at path.
func (s *Service) Save(ctx context.Context, path string) error {
	return s.read(ctx, "save", func() error {
		return repository.Save(path, s.table, repository.WithCompression(s.compress))
	})
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, models := s.table.Shape()
	stats := map[string]any{
		"started": s.started,
		"models":  models,
		"rows":    rows,
		"workers": s.workers,
		"sortBy":  s.sortBy,
	}
	if s.data != nil {
		stats["datasetRows"] = s.data.Len()
		stats["eras"] = len(s.data.Eras())
	}
	if s.started {
		stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())
	}
	return stats
}

func (s *Service) analyticsOptions() []analytics.Option {
	return []analytics.Option{
		analytics.WithWorkers(s.workers),
		analytics.WithCorrThreshold(s.corrThreshold),
		analytics.WithKSThreshold(s.ksThreshold),
	}
}

// analyze runs fn against the dataset under the read lock.
func (s *Service) analyze(ctx context.Context, op string, fn func(*model.Dataset) error) error {
	return s.read(ctx, op, func() error {
		if s.data == nil {
			return ErrNoDataset
		}
		return fn(s.data)
	})
}

// read runs fn under the read lock and records its latency.
func (s *Service) read(ctx context.Context, op string, fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	err := fn()
	metrics.RecordAnalytics(op, float64(time.Since(start).Microseconds())/1000, err)
	if err != nil {
		s.log().Debug(ctx, "operation failed", logger.String("operation", op), logger.Error(err))
	}
	return err
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, prediction.ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, prediction.ErrDimension):
		return "dimension"
	case errors.Is(err, prediction.ErrEmptyName):
		return "empty_name"
	}
	return "other"
}

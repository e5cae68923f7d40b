package analytics

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/okian/numerox/internal/domain/model"
	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/okian/numerox/internal/domain/scoring"
)

// Sort keys accepted by SortPerformance.
const (
	SortLogLoss = "logloss"
	SortAUC     = "auc"
	SortAcc     = "acc"
	SortYStd    = "ystd"
	SortSharpe  = "sharpe"
	SortConsis  = "consis"
)

// SortKeys lists every performance sort key.
var SortKeys = []string{SortLogLoss, SortAUC, SortAcc, SortYStd, SortSharpe, SortConsis}

// PerformanceRow is one model's leaderboard entry; metric columns are
// means across eras.
type PerformanceRow struct {
	Model   string  `json:"model"`
	LogLoss float64 `json:"logloss"`
	AUC     float64 `json:"auc"`
	Acc     float64 `json:"acc"`
	YStd    float64 `json:"ystd"`
	Sharpe  float64 `json:"sharpe"`
	Consis  float64 `json:"consis"`
}

// PerformanceReport is a leaderboard of every model in a table.
type PerformanceReport struct {
	SortBy  string           `json:"sort_by"`
	Rows    []PerformanceRow `json:"rows"`
	Regions []string         `json:"regions"`
	Eras    []string         `json:"eras"`
}

// Performance scores every model against data and returns the leaderboard
// sorted by sortBy. An unknown sort key fails with ErrInvalidArgument before
// any scoring happens.
func Performance(ctx context.Context, data *model.Dataset, t *prediction.Table, sortBy string, opts ...Option) (*PerformanceReport, error) {
	if err := validSortKey(sortBy); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	metrics, regions, err := scoring.MetricsPerEra(ctx, data, t, scoring.WithWorkers(o.workers))
	if err != nil {
		return nil, fmt.Errorf("performance: %w", err)
	}

	grouped := groupByModel(metrics)
	report := &PerformanceReport{SortBy: sortBy, Regions: regions, Eras: distinctEras(metrics)}
	for _, name := range t.Names() {
		cols := splitMetrics(grouped[name])
		report.Rows = append(report.Rows, PerformanceRow{
			Model:   name,
			LogLoss: meanOf(cols.logloss),
			AUC:     meanOf(cols.auc),
			Acc:     meanOf(cols.acc),
			YStd:    meanOf(cols.ystd),
			Sharpe:  sharpe(cols.logloss),
			Consis:  consistency(cols.logloss),
		})
	}
	if err := SortPerformance(report.Rows, sortBy); err != nil {
		return nil, err
	}
	return report, nil
}

// SortPerformance orders rows in place: logloss ascending; auc, acc, ystd
// and sharpe descending; consis descending with ties broken by ascending
// logloss. The sort is stable and NaN always sorts last.
func SortPerformance(rows []PerformanceRow, by string) error {
	if err := validSortKey(by); err != nil {
		return err
	}
	key := func(r PerformanceRow) float64 {
		switch by {
		case SortAUC:
			return r.AUC
		case SortAcc:
			return r.Acc
		case SortYStd:
			return r.YStd
		case SortSharpe:
			return r.Sharpe
		case SortConsis:
			return r.Consis
		}
		return r.LogLoss
	}
	desc := by != SortLogLoss
	slices.SortStableFunc(rows, func(a, b PerformanceRow) int {
		c := compareNaNLast(key(a), key(b), desc)
		if c != 0 || by != SortConsis {
			return c
		}
		return compareNaNLast(a.LogLoss, b.LogLoss, false)
	})
	return nil
}

func validSortKey(by string) error {
	if !slices.Contains(SortKeys, by) {
		return fmt.Errorf("%w: sort_by %q not recognized", ErrInvalidArgument, by)
	}
	return nil
}

// compareNaNLast orders a and b ascending (or descending) with NaN after
// every number.
func compareNaNLast(a, b float64, desc bool) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	if desc {
		return cmp.Compare(b, a)
	}
	return cmp.Compare(a, b)
}

func groupByModel(metrics []scoring.EraMetrics) map[string][]scoring.EraMetrics {
	out := make(map[string][]scoring.EraMetrics)
	for _, m := range metrics {
		out[m.Model] = append(out[m.Model], m)
	}
	return out
}

func distinctEras(metrics []scoring.EraMetrics) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range metrics {
		if _, ok := seen[m.Era]; ok {
			continue
		}
		seen[m.Era] = struct{}{}
		out = append(out, m.Era)
	}
	return out
}

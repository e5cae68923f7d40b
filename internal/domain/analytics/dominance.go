package analytics

import (
	"context"
	"fmt"
	"slices"

	"github.com/okian/numerox/internal/domain/model"
	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/okian/numerox/internal/domain/scoring"
)

// DominanceMetrics are the metrics dominance is computed on.
var DominanceMetrics = []string{scoring.MetricLogLoss, scoring.MetricAUC, scoring.MetricAcc}

// DominanceRow holds, per metric, the mean across eras of the fraction of
// rival models a model beat in that era.
type DominanceRow struct {
	Model   string  `json:"model"`
	LogLoss float64 `json:"logloss"`
	AUC     float64 `json:"auc"`
	Acc     float64 `json:"acc"`
}

// Dominance compares every model with every other model era by era. A model
// beats a rival with strictly lower logloss or strictly higher auc/acc; an
// era a model was not scored in counts as no wins for it. Rows follow table
// order. Fewer than two models fail with ErrInsufficientModels.
func Dominance(ctx context.Context, data *model.Dataset, t *prediction.Table, opts ...Option) ([]DominanceRow, error) {
	names := t.Names()
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientModels, len(names))
	}
	o := newOptions(opts)
	metrics, _, err := scoring.MetricsPerEra(ctx, data, t, scoring.WithWorkers(o.workers))
	if err != nil {
		return nil, fmt.Errorf("dominance: %w", err)
	}

	eras := distinctEras(metrics)
	byEra := make(map[string]map[string]scoring.EraMetrics, len(eras))
	for _, m := range metrics {
		if byEra[m.Era] == nil {
			byEra[m.Era] = make(map[string]scoring.EraMetrics)
		}
		byEra[m.Era][m.Model] = m
	}

	rivals := float64(len(names) - 1)
	rows := make([]DominanceRow, len(names))
	for j, name := range names {
		rows[j].Model = name
		for _, metric := range DominanceMetrics {
			fractions := make([]float64, 0, len(eras))
			for _, era := range eras {
				mine, ok := byEra[era][name]
				if !ok {
					fractions = append(fractions, 0)
					continue
				}
				a, _ := mine.Metric(metric)
				beaten := 0
				for _, rival := range names {
					other, ok := byEra[era][rival]
					if rival == name || !ok {
						continue
					}
					b, _ := other.Metric(metric)
					if beats(metric, a, b) {
						beaten++
					}
				}
				fractions = append(fractions, float64(beaten)/rivals)
			}
			rows[j].set(metric, meanOf(fractions))
		}
	}
	return rows, nil
}

// SortDominance orders rows by the given metric, most dominant first.
func SortDominance(rows []DominanceRow, by string) error {
	if !slices.Contains(DominanceMetrics, by) {
		return fmt.Errorf("%w: sort_by %q not recognized", ErrInvalidArgument, by)
	}
	slices.SortStableFunc(rows, func(a, b DominanceRow) int {
		return compareNaNLast(a.get(by), b.get(by), true)
	})
	return nil
}

func beats(metric string, a, b float64) bool {
	if metric == scoring.MetricLogLoss {
		return a < b
	}
	return a > b
}

func (r *DominanceRow) set(metric string, v float64) {
	switch metric {
	case scoring.MetricLogLoss:
		r.LogLoss = v
	case scoring.MetricAUC:
		r.AUC = v
	case scoring.MetricAcc:
		r.Acc = v
	}
}

func (r DominanceRow) get(metric string) float64 {
	switch metric {
	case scoring.MetricAUC:
		return r.AUC
	case scoring.MetricAcc:
		return r.Acc
	}
	return r.LogLoss
}

// Package analytics compares models held in a prediction table: per-model
// summaries, sortable leaderboards, dominance, correlation and originality.
//
// All functions only read the table. Degenerate statistics (a single era,
// zero variance) surface as NaN or ±Inf rather than errors.
package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/okian/numerox/internal/domain/model"
	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/okian/numerox/internal/domain/scoring"
)

// referenceLogLoss is the loss of always predicting 0.5.
const referenceLogLoss = math.Ln2

// Stats holds one value per era metric.
type Stats struct {
	LogLoss float64 `json:"logloss"`
	AUC     float64 `json:"auc"`
	Acc     float64 `json:"acc"`
	YStd    float64 `json:"ystd"`
}

// SummaryReport describes one model's metrics across eras.
type SummaryReport struct {
	Model       string   `json:"model"`
	Regions     []string `json:"regions"`
	Eras        int      `json:"eras"`
	Mean        Stats    `json:"mean"`
	Std         Stats    `json:"std"`
	Min         Stats    `json:"min"`
	Max         Stats    `json:"max"`
	Sharpe      float64  `json:"sharpe"`
	Consistency float64  `json:"consistency"`
}

// Summary scores model name against data and describes the spread of its
// per-era metrics.
func Summary(ctx context.Context, data *model.Dataset, t *prediction.Table, name string, opts ...Option) (*SummaryReport, error) {
	o := newOptions(opts)
	single, err := t.Model(name)
	if err != nil {
		return nil, err
	}
	metrics, regions, err := scoring.MetricsPerEra(ctx, data, single, scoring.WithWorkers(o.workers))
	if err != nil {
		return nil, fmt.Errorf("summary %s: %w", name, err)
	}

	cols := splitMetrics(metrics)
	report := &SummaryReport{
		Model:       name,
		Regions:     regions,
		Eras:        len(metrics),
		Sharpe:      sharpe(cols.logloss),
		Consistency: consistency(cols.logloss),
	}
	report.Mean, report.Std, report.Min, report.Max = cols.describe()
	return report, nil
}

// PerformancePerEra returns the per-era metrics of model name.
func PerformancePerEra(ctx context.Context, data *model.Dataset, t *prediction.Table, name string, opts ...Option) ([]scoring.EraMetrics, error) {
	o := newOptions(opts)
	single, err := t.Model(name)
	if err != nil {
		return nil, err
	}
	metrics, _, err := scoring.MetricsPerEra(ctx, data, single, scoring.WithWorkers(o.workers))
	if err != nil {
		return nil, fmt.Errorf("per era %s: %w", name, err)
	}
	return metrics, nil
}

// metricColumns holds per-era metric values of one model.
type metricColumns struct {
	logloss, auc, acc, ystd []float64
}

func splitMetrics(metrics []scoring.EraMetrics) metricColumns {
	var c metricColumns
	for _, m := range metrics {
		c.logloss = append(c.logloss, m.LogLoss)
		c.auc = append(c.auc, m.AUC)
		c.acc = append(c.acc, m.Acc)
		c.ystd = append(c.ystd, m.YStd)
	}
	return c
}

func (c metricColumns) describe() (mean, std, lo, hi Stats) {
	apply := func(f func([]float64) float64) Stats {
		return Stats{LogLoss: f(c.logloss), AUC: f(c.auc), Acc: f(c.acc), YStd: f(c.ystd)}
	}
	return apply(meanOf), apply(stdOf), apply(minOf), apply(maxOf)
}

func meanOf(x []float64) float64 { return orNaN(stats.Mean(x)) }
func stdOf(x []float64) float64  { return orNaN(stats.StandardDeviationSample(x)) }
func minOf(x []float64) float64  { return orNaN(stats.Min(x)) }
func maxOf(x []float64) float64  { return orNaN(stats.Max(x)) }

// orNaN maps the empty-input error of the stats package to NaN.
func orNaN(v float64, err error) float64 {
	if err != nil {
		return math.NaN()
	}
	return v
}

// sharpe is the mean margin over the reference loss divided by the sample
// standard deviation of the loss.
func sharpe(logloss []float64) float64 {
	margin := make([]float64, len(logloss))
	for i, l := range logloss {
		margin[i] = referenceLogLoss - l
	}
	return meanOf(margin) / stdOf(logloss)
}

// consistency is the fraction of eras that beat the reference loss.
func consistency(logloss []float64) float64 {
	if len(logloss) == 0 {
		return math.NaN()
	}
	wins := 0
	for _, l := range logloss {
		if l < referenceLogLoss {
			wins++
		}
	}
	return float64(wins) / float64(len(logloss))
}

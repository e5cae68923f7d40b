package scoring

import (
	"context"
	"fmt"
	"runtime"

	"github.com/okian/numerox/internal/domain/model"
	"github.com/okian/numerox/internal/domain/prediction"
	"golang.org/x/sync/errgroup"
)

// EraMetrics holds the metrics of one model over the scored rows of one era.
type EraMetrics struct {
	Model   string  `json:"model"`
	Era     string  `json:"era"`
	Region  string  `json:"region"`
	Rows    int     `json:"rows"`
	LogLoss float64 `json:"logloss"`
	AUC     float64 `json:"auc"`
	Acc     float64 `json:"acc"`
	YStd    float64 `json:"ystd"`
}

// Metric returns the named metric; ok is false for an unknown name.
func (m EraMetrics) Metric(name string) (float64, bool) {
	switch name {
	case MetricLogLoss:
		return m.LogLoss, true
	case MetricAUC:
		return m.AUC, true
	case MetricAcc:
		return m.Acc, true
	case MetricYStd:
		return m.YStd, true
	}
	return 0, false
}

type eraRows struct {
	name   string
	region string
	rows   []model.Row
}

// MetricsPerEra scores every model of t against data, era by era. Rows are
// matched by id; rows a model did not predict are skipped, and an era with
// no scored rows is left out for that model. Results are ordered by model
// (table order) then era (dataset order). The second return value lists the
// regions of all scored rows.
func MetricsPerEra(ctx context.Context, data *model.Dataset, t *prediction.Table, opts ...Option) ([]EraMetrics, []string, error) {
	o := options{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}

	eras := groupByEra(data)
	names := t.Names()
	results := make([][]EraMetrics, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("score %s: %w", name, err)
			}
			results[i] = scoreModel(t, name, eras)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var out []EraMetrics
	for _, r := range results {
		out = append(out, r...)
	}
	return out, scoredRegions(data, t), nil
}

func scoreModel(t *prediction.Table, name string, eras []eraRows) []EraMetrics {
	var out []EraMetrics
	for _, era := range eras {
		target := make([]float64, 0, len(era.rows))
		yhat := make([]float64, 0, len(era.rows))
		for _, r := range era.rows {
			v, ok := t.Value(name, r.ID)
			if !ok {
				continue
			}
			target = append(target, r.Target)
			yhat = append(yhat, v)
		}
		if len(yhat) == 0 {
			continue
		}
		out = append(out, EraMetrics{
			Model:   name,
			Era:     era.name,
			Region:  era.region,
			Rows:    len(yhat),
			LogLoss: LogLoss(target, yhat),
			AUC:     AUC(target, yhat),
			Acc:     Accuracy(target, yhat),
			YStd:    YStd(yhat),
		})
	}
	return out
}

func groupByEra(data *model.Dataset) []eraRows {
	if data == nil {
		return nil
	}
	index := make(map[string]int)
	var out []eraRows
	for _, r := range data.Rows {
		i, ok := index[r.Era]
		if !ok {
			i = len(out)
			index[r.Era] = i
			out = append(out, eraRows{name: r.Era, region: r.Region})
		}
		out[i].rows = append(out[i].rows, r)
	}
	return out
}

func scoredRegions(data *model.Dataset, t *prediction.Table) []string {
	if data == nil {
		return nil
	}
	names := t.Names()
	seen := make(map[string]struct{})
	var out []string
	for _, r := range data.Rows {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		for _, name := range names {
			if _, ok := t.Value(name, r.ID); ok {
				seen[r.Region] = struct{}{}
				out = append(out, r.Region)
				break
			}
		}
	}
	return out
}

package api

import (
	"github.com/okian/numerox/internal/domain/analytics"
	"github.com/okian/numerox/internal/domain/scoring"
	"github.com/okian/numerox/internal/domain/types"
)

// Response shapes. Metric values go through types.Number so NaN and Inf
// reach clients as null.

type number = types.Number

type performanceRow struct {
	Model   string `json:"model"`
	LogLoss number `json:"logloss"`
	AUC     number `json:"auc"`
	Acc     number `json:"acc"`
	YStd    number `json:"ystd"`
	Sharpe  number `json:"sharpe"`
	Consis  number `json:"consis"`
}

type performanceResponse struct {
	SortBy  string           `json:"sort_by"`
	Regions []string         `json:"regions"`
	Eras    int              `json:"eras"`
	Rows    []performanceRow `json:"rows"`
}

type eraRow struct {
	Era     string `json:"era"`
	Region  string `json:"region"`
	Rows    int    `json:"rows"`
	LogLoss number `json:"logloss"`
	AUC     number `json:"auc"`
	Acc     number `json:"acc"`
	YStd    number `json:"ystd"`
}

type perEraResponse struct {
	Model string   `json:"model"`
	Eras  []eraRow `json:"eras"`
}

type metricStats struct {
	LogLoss number `json:"logloss"`
	AUC     number `json:"auc"`
	Acc     number `json:"acc"`
	YStd    number `json:"ystd"`
}

type summaryResponse struct {
	Model       string      `json:"model"`
	Regions     []string    `json:"regions"`
	Eras        int         `json:"eras"`
	Mean        metricStats `json:"mean"`
	Std         metricStats `json:"std"`
	Min         metricStats `json:"min"`
	Max         metricStats `json:"max"`
	Sharpe      number      `json:"sharpe"`
	Consistency number      `json:"consis"`
}

type dominanceRow struct {
	Model   string `json:"model"`
	LogLoss number `json:"logloss"`
	AUC     number `json:"auc"`
	Acc     number `json:"acc"`
}

type peer struct {
	Model string `json:"model"`
	Corr  number `json:"corr"`
}

type correlationReport struct {
	Model string `json:"model"`
	Peers []peer `json:"peers"`
}

func toPerformance(r *analytics.PerformanceReport) performanceResponse {
	out := performanceResponse{SortBy: r.SortBy, Regions: r.Regions, Eras: len(r.Eras), Rows: make([]performanceRow, len(r.Rows))}
	for i, row := range r.Rows {
		out.Rows[i] = performanceRow{
			Model:   row.Model,
			LogLoss: number(row.LogLoss),
			AUC:     number(row.AUC),
			Acc:     number(row.Acc),
			YStd:    number(row.YStd),
			Sharpe:  number(row.Sharpe),
			Consis:  number(row.Consis),
		}
	}
	return out
}

func toPerEra(model string, rows []scoring.EraMetrics) perEraResponse {
	out := perEraResponse{Model: model, Eras: make([]eraRow, len(rows))}
	for i, m := range rows {
		out.Eras[i] = eraRow{
			Era:     m.Era,
			Region:  m.Region,
			Rows:    m.Rows,
			LogLoss: number(m.LogLoss),
			AUC:     number(m.AUC),
			Acc:     number(m.Acc),
			YStd:    number(m.YStd),
		}
	}
	return out
}

func toStats(s analytics.Stats) metricStats {
	return metricStats{LogLoss: number(s.LogLoss), AUC: number(s.AUC), Acc: number(s.Acc), YStd: number(s.YStd)}
}

func toSummary(r *analytics.SummaryReport) summaryResponse {
	return summaryResponse{
		Model:       r.Model,
		Regions:     r.Regions,
		Eras:        r.Eras,
		Mean:        toStats(r.Mean),
		Std:         toStats(r.Std),
		Min:         toStats(r.Min),
		Max:         toStats(r.Max),
		Sharpe:      number(r.Sharpe),
		Consistency: number(r.Consistency),
	}
}

func toDominance(rows []analytics.DominanceRow) []dominanceRow {
	out := make([]dominanceRow, len(rows))
	for i, r := range rows {
		out[i] = dominanceRow{Model: r.Model, LogLoss: number(r.LogLoss), AUC: number(r.AUC), Acc: number(r.Acc)}
	}
	return out
}

func toCorrelation(reports []analytics.CorrelationReport) []correlationReport {
	out := make([]correlationReport, len(reports))
	for i, r := range reports {
		peers := make([]peer, len(r.Peers))
		for j, p := range r.Peers {
			peers[j] = peer{Model: p.Model, Corr: number(p.Corr)}
		}
		out[i] = correlationReport{Model: r.Model, Peers: peers}
	}
	return out
}

package analytics

import (
	"fmt"
	"math"
	"slices"

	"github.com/okian/numerox/internal/domain/prediction"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Peer is another model's correlation with the model being reported on.
type Peer struct {
	Model string  `json:"model"`
	Corr  float64 `json:"corr"`
}

// CorrelationReport lists every other model's correlation with Model,
// highest first.
type CorrelationReport struct {
	Model string `json:"model"`
	Peers []Peer `json:"peers"`
}

// CorrelationMatrix returns the model names of t and the correlation of
// their standardized predictions. Rows with a missing value in any model are
// dropped first. A model with constant predictions gets NaN correlations.
func CorrelationMatrix(t *prediction.Table) ([]string, [][]float64) {
	names := t.Names()
	if len(names) == 0 {
		return nil, nil
	}
	out := make([][]float64, len(names))
	for i := range out {
		out[i] = make([]float64, len(names))
	}

	complete := t.CompleteRows()
	if len(complete) == 0 {
		for i := range out {
			for j := range out[i] {
				out[i][j] = math.NaN()
			}
		}
		return names, out
	}

	sub := t.ByIDs(complete)
	z := mat.NewDense(len(complete), len(names), nil)
	for j, name := range names {
		col, err := sub.Column(name)
		if err != nil {
			continue
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		for i, v := range col {
			z.Set(i, j, (v-mean)/std)
		}
	}

	var c mat.SymDense
	c.SymOuterK(1/float64(len(complete)), z.T())
	for i := range names {
		for j := range names {
			out[i][j] = c.At(i, j)
		}
	}
	return names, out
}

// Correlation reports, for model name (every model when name is empty), the
// correlation of each other model sorted from highest to lowest.
func Correlation(t *prediction.Table, name string) ([]CorrelationReport, error) {
	targets := t.Names()
	if name != "" {
		if !t.Contains(name) {
			return nil, fmt.Errorf("%w: %q", prediction.ErrUnknownModel, name)
		}
		targets = []string{name}
	}

	names, corr := CorrelationMatrix(t)
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	out := make([]CorrelationReport, 0, len(targets))
	for _, target := range targets {
		i := index[target]
		report := CorrelationReport{Model: target}
		for j, other := range names {
			if j == i {
				continue
			}
			report.Peers = append(report.Peers, Peer{Model: other, Corr: corr[i][j]})
		}
		slices.SortStableFunc(report.Peers, func(a, b Peer) int {
			return compareNaNLast(a.Corr, b.Corr, true)
		})
		out = append(out, report)
	}
	return out, nil
}

package analytics

import (
	"fmt"
	"slices"

	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/okian/numerox/internal/domain/scoring"
)

// OriginalityRow tells whether an unsubmitted model differs enough from
// every submitted one.
type OriginalityRow struct {
	Model          string `json:"model"`
	LowCorrelation bool   `json:"corr"`
	Distinct       bool   `json:"ks"`
	Original       bool   `json:"original"`
}

// Originality checks each model not in submitted against every submitted
// model. LowCorrelation holds while the Pearson correlation over rows both
// models predicted is at most the correlation threshold; Distinct holds while
// the KS statistic between their predictions exceeds the KS threshold. A NaN
// statistic never fails a check. Rows follow table order.
func Originality(t *prediction.Table, submitted []string, opts ...Option) ([]OriginalityRow, error) {
	o := newOptions(opts)
	for _, s := range submitted {
		if !t.Contains(s) {
			return nil, fmt.Errorf("%w: submitted model %q", prediction.ErrUnknownModel, s)
		}
	}

	var out []OriginalityRow
	for _, name := range t.Names() {
		if slices.Contains(submitted, name) {
			continue
		}
		row := OriginalityRow{Model: name, LowCorrelation: true, Distinct: true}
		mine := presentValues(t, name)
		for _, s := range submitted {
			if !row.LowCorrelation && !row.Distinct {
				break
			}
			x, y := pairedValues(t, name, s)
			if row.LowCorrelation && scoring.Pearson(x, y) > o.corrThreshold {
				row.LowCorrelation = false
			}
			if row.Distinct && scoring.KS(mine, presentValues(t, s)) <= o.ksThreshold {
				row.Distinct = false
			}
		}
		row.Original = row.LowCorrelation && row.Distinct
		out = append(out, row)
	}
	return out, nil
}

// pairedValues returns the predictions of a and b on the rows both scored.
func pairedValues(t *prediction.Table, a, b string) ([]float64, []float64) {
	var x, y []float64
	for _, id := range t.IDs() {
		va, okA := t.Value(a, id)
		vb, okB := t.Value(b, id)
		if okA && okB {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}

// presentValues returns the non-missing predictions of name.
func presentValues(t *prediction.Table, name string) []float64 {
	var out []float64
	for _, id := range t.IDs() {
		if v, ok := t.Value(name, id); ok {
			out = append(out, v)
		}
	}
	return out
}

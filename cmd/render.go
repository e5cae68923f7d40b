package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/numerox/internal/domain/analytics"
	"github.com/okian/numerox/internal/domain/scoring"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
}

func f6(v float64) string { return fmt.Sprintf("%.6f", v) }
func f4(v float64) string { return fmt.Sprintf("%.4f", v) }

func row(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
}

func renderPerformance(out io.Writer, r *analytics.PerformanceReport) error {
	fmt.Fprintf(out, "%d eras, regions %s\n", len(r.Eras), strings.Join(r.Regions, ", "))
	w := newTable(out)
	row(w, "model", "logloss", "auc", "acc", "ystd", "sharpe", "consis")
	for _, p := range r.Rows {
		row(w, p.Model, f6(p.LogLoss), f4(p.AUC), f4(p.Acc), f4(p.YStd), f4(p.Sharpe), f4(p.Consis))
	}
	return w.Flush()
}

func renderSummary(out io.Writer, r *analytics.SummaryReport) error {
	fmt.Fprintf(out, "%s: %d eras, regions %s\n", r.Model, r.Eras, strings.Join(r.Regions, ", "))
	w := newTable(out)
	row(w, "", "logloss", "auc", "acc", "ystd")
	for _, s := range []struct {
		name string
		v    analytics.Stats
	}{{"mean", r.Mean}, {"std", r.Std}, {"min", r.Min}, {"max", r.Max}} {
		row(w, s.name, f6(s.v.LogLoss), f4(s.v.AUC), f4(s.v.Acc), f4(s.v.YStd))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "sharpe %s  consis %s\n", f4(r.Sharpe), f4(r.Consistency))
	return nil
}

func renderEras(out io.Writer, rows []scoring.EraMetrics) error {
	w := newTable(out)
	row(w, "era", "region", "rows", "logloss", "auc", "acc", "ystd")
	for _, m := range rows {
		row(w, m.Era, m.Region, fmt.Sprint(m.Rows), f6(m.LogLoss), f4(m.AUC), f4(m.Acc), f4(m.YStd))
	}
	return w.Flush()
}

func renderDominance(out io.Writer, rows []analytics.DominanceRow) error {
	w := newTable(out)
	row(w, "model", "logloss", "auc", "acc")
	for _, d := range rows {
		row(w, d.Model, f4(d.LogLoss), f4(d.AUC), f4(d.Acc))
	}
	return w.Flush()
}

func renderCorrelation(out io.Writer, reports []analytics.CorrelationReport) error {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, r.Model)
		w := newTable(out)
		for _, p := range r.Peers {
			row(w, "  "+p.Model, f4(p.Corr))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func renderOriginality(out io.Writer, rows []analytics.OriginalityRow) error {
	w := newTable(out)
	row(w, "model", "corr", "ks", "original")
	for _, o := range rows {
		row(w, o.Model, fmt.Sprint(o.LowCorrelation), fmt.Sprint(o.Distinct), fmt.Sprint(o.Original))
	}
	return w.Flush()
}

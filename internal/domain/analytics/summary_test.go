package analytics_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/numerox/internal/domain/analytics"
	"github.com/okian/numerox/internal/domain/prediction"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummary(t *testing.T) {
	Convey("Given a model scored over three eras", t, func() {
		ctx := context.Background()
		data := eraDataset(3)
		tbl := mustTable(map[string]prediction.Batch{
			"m": eraBatch([2]float64{0.8, 0.2}, [2]float64{0.7, 0.4}, [2]float64{0.4, 0.6}),
		}, "m")

		report, err := analytics.Summary(ctx, data, tbl, "m")

		Convey("Then it describes the per-era logloss", func() {
			So(err, ShouldBeNil)
			losses := []float64{
				-math.Log(0.8),
				-(math.Log(0.7) + math.Log(0.6)) / 2,
				-math.Log(0.4),
			}
			mean := (losses[0] + losses[1] + losses[2]) / 3
			var ss float64
			for _, l := range losses {
				ss += (l - mean) * (l - mean)
			}
			std := math.Sqrt(ss / 2)

			So(report.Eras, ShouldEqual, 3)
			So(report.Regions, ShouldResemble, []string{"validation"})
			So(report.Mean.LogLoss, ShouldAlmostEqual, mean, 1e-12)
			So(report.Std.LogLoss, ShouldAlmostEqual, std, 1e-12)
			So(report.Min.LogLoss, ShouldAlmostEqual, losses[0], 1e-12)
			So(report.Max.LogLoss, ShouldAlmostEqual, losses[2], 1e-12)
			So(report.Consistency, ShouldAlmostEqual, 2.0/3.0, 1e-12)
			So(report.Sharpe, ShouldAlmostEqual, (math.Ln2-mean)/std, 1e-9)
		})

		Convey("Then AUC and accuracy follow the era outcomes", func() {
			So(report.Max.AUC, ShouldEqual, 1.0)
			So(report.Min.AUC, ShouldEqual, 0.0)
			So(report.Mean.Acc, ShouldAlmostEqual, 2.0/3.0, 1e-12)
		})
	})

	Convey("Given a model with the same loss in every era", t, func() {
		data := eraDataset(2)
		tbl := mustTable(map[string]prediction.Batch{
			"flat": eraBatch([2]float64{0.6, 0.4}, [2]float64{0.6, 0.4}),
		}, "flat")

		report, err := analytics.Summary(context.Background(), data, tbl, "flat")

		Convey("Then sharpe is not finite instead of an error", func() {
			So(err, ShouldBeNil)
			So(report.Std.LogLoss, ShouldEqual, 0)
			So(math.IsInf(report.Sharpe, 1), ShouldBeTrue)
		})
	})

	Convey("Given a model scored in a single era", t, func() {
		data := eraDataset(1)
		tbl := mustTable(map[string]prediction.Batch{"one": eraBatch([2]float64{0.6, 0.4})}, "one")

		report, err := analytics.Summary(context.Background(), data, tbl, "one")

		Convey("Then the spread statistics are NaN", func() {
			So(err, ShouldBeNil)
			So(math.IsNaN(report.Std.LogLoss), ShouldBeTrue)
			So(math.IsNaN(report.Sharpe), ShouldBeTrue)
		})
	})

	Convey("Given an unknown model", t, func() {
		_, err := analytics.Summary(context.Background(), eraDataset(1), prediction.New(), "ghost")

		Convey("Then it fails with an unknown model error", func() {
			So(errors.Is(err, prediction.ErrUnknownModel), ShouldBeTrue)
		})
	})
}

func TestPerformancePerEra(t *testing.T) {
	Convey("Given a model over two eras", t, func() {
		tbl := mustTable(map[string]prediction.Batch{
			"m": eraBatch([2]float64{0.8, 0.2}, [2]float64{0.3, 0.7}),
		}, "m")

		rows, err := analytics.PerformancePerEra(context.Background(), eraDataset(2), tbl, "m")

		Convey("Then it returns one row per era", func() {
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			So(rows[0].Era, ShouldEqual, "era1")
			So(rows[0].AUC, ShouldEqual, 1.0)
			So(rows[1].AUC, ShouldEqual, 0.0)
		})
	})
}

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

func TestPerformance(t *testing.T) {
	Convey("Given a weak and a strong model", t, func() {
		ctx := context.Background()
		data := eraDataset(2)
		tbl := mustTable(map[string]prediction.Batch{
			"weak":   eraBatch([2]float64{0.6, 0.4}, [2]float64{0.6, 0.4}),
			"strong": eraBatch([2]float64{0.9, 0.1}, [2]float64{0.8, 0.2}),
		}, "weak", "strong")

		Convey("When sorted by logloss", func() {
			report, err := analytics.Performance(ctx, data, tbl, analytics.SortLogLoss)

			Convey("Then the lower loss comes first", func() {
				So(err, ShouldBeNil)
				So(len(report.Rows), ShouldEqual, 2)
				So(report.SortBy, ShouldEqual, analytics.SortLogLoss)
				So(report.Rows[0].Model, ShouldEqual, "strong")
				So(report.Rows[0].LogLoss, ShouldBeLessThan, report.Rows[1].LogLoss)
				So(report.Eras, ShouldResemble, []string{"era1", "era2"})
				So(report.Regions, ShouldResemble, []string{"validation"})
			})

			Convey("Then each row carries mean metrics and consistency", func() {
				weak := report.Rows[1]
				So(weak.LogLoss, ShouldAlmostEqual, -math.Log(0.6), 1e-12)
				So(weak.AUC, ShouldEqual, 1.0)
				So(weak.Acc, ShouldEqual, 1.0)
				So(weak.YStd, ShouldAlmostEqual, 0.1, 1e-12)
				So(weak.Consis, ShouldEqual, 1.0)
			})
		})

		Convey("When sorted by ystd", func() {
			report, err := analytics.Performance(ctx, data, tbl, analytics.SortYStd)

			Convey("Then the wider spread comes first", func() {
				So(err, ShouldBeNil)
				So(report.Rows[0].Model, ShouldEqual, "strong")
			})
		})

		Convey("When the sort key is unknown", func() {
			_, err := analytics.Performance(ctx, data, tbl, "bogus")

			Convey("Then it fails with an invalid argument error", func() {
				So(errors.Is(err, analytics.ErrInvalidArgument), ShouldBeTrue)
			})
		})
	})
}

func TestSortPerformance(t *testing.T) {
	Convey("Given rows with equal consistency", t, func() {
		rows := []analytics.PerformanceRow{
			{Model: "a", LogLoss: 0.69, Consis: 0.5},
			{Model: "b", LogLoss: 0.68, Consis: 0.5},
			{Model: "c", LogLoss: 0.70, Consis: 0.5},
		}

		Convey("When sorted by consis", func() {
			err := analytics.SortPerformance(rows, analytics.SortConsis)

			Convey("Then ties are broken by ascending logloss", func() {
				So(err, ShouldBeNil)
				So(rows[0].Model, ShouldEqual, "b")
				So(rows[1].Model, ShouldEqual, "a")
				So(rows[2].Model, ShouldEqual, "c")
			})
		})
	})

	Convey("Given rows with a NaN sharpe", t, func() {
		rows := []analytics.PerformanceRow{
			{Model: "nan", Sharpe: math.NaN()},
			{Model: "low", Sharpe: 0.1},
			{Model: "high", Sharpe: 2},
		}

		Convey("Then NaN sorts last and the rest descend", func() {
			So(analytics.SortPerformance(rows, analytics.SortSharpe), ShouldBeNil)
			So(rows[0].Model, ShouldEqual, "high")
			So(rows[1].Model, ShouldEqual, "low")
			So(rows[2].Model, ShouldEqual, "nan")
		})
	})

	Convey("Given rows with equal keys", t, func() {
		rows := []analytics.PerformanceRow{
			{Model: "first", AUC: 0.6},
			{Model: "second", AUC: 0.6},
		}

		Convey("Then their order is kept", func() {
			So(analytics.SortPerformance(rows, analytics.SortAUC), ShouldBeNil)
			So(rows[0].Model, ShouldEqual, "first")
		})
	})
}

package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/numerox/internal/domain/analytics"
	"github.com/okian/numerox/internal/domain/prediction"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDominance(t *testing.T) {
	ctx := context.Background()

	Convey("Given three models ranked the same in every era", t, func() {
		data := eraDataset(3)
		tbl := mustTable(map[string]prediction.Batch{
			"best":  eraBatch([2]float64{0.9, 0.1}, [2]float64{0.9, 0.1}, [2]float64{0.9, 0.1}),
			"mid":   eraBatch([2]float64{0.7, 0.3}, [2]float64{0.7, 0.3}, [2]float64{0.7, 0.3}),
			"worst": eraBatch([2]float64{0.6, 0.4}, [2]float64{0.6, 0.4}, [2]float64{0.6, 0.4}),
		}, "mid", "worst", "best")

		rows, err := analytics.Dominance(ctx, data, tbl)

		Convey("Then logloss dominance reflects the ranking", func() {
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 3)
			got := map[string]float64{}
			var sum float64
			for _, r := range rows {
				got[r.Model] = r.LogLoss
				sum += r.LogLoss
			}
			So(got["best"], ShouldEqual, 1.0)
			So(got["mid"], ShouldEqual, 0.5)
			So(got["worst"], ShouldEqual, 0.0)
			So(sum/3, ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("Then tied metrics give nobody a win", func() {
			for _, r := range rows {
				So(r.AUC, ShouldEqual, 0)
				So(r.Acc, ShouldEqual, 0)
			}
		})

		Convey("Then rows follow table order until sorted", func() {
			So(rows[0].Model, ShouldEqual, "mid")
			So(analytics.SortDominance(rows, "logloss"), ShouldBeNil)
			So(rows[0].Model, ShouldEqual, "best")
			So(rows[2].Model, ShouldEqual, "worst")
		})

		Convey("Then sorting by an unknown metric fails", func() {
			err := analytics.SortDominance(rows, "ystd")
			So(errors.Is(err, analytics.ErrInvalidArgument), ShouldBeTrue)
		})
	})

	Convey("Given a model that skipped an era", t, func() {
		data := eraDataset(2)
		partial := eraBatch([2]float64{0.9, 0.1})
		tbl := mustTable(map[string]prediction.Batch{
			"full":    eraBatch([2]float64{0.6, 0.4}, [2]float64{0.6, 0.4}),
			"partial": partial,
		}, "full", "partial")

		rows, err := analytics.Dominance(ctx, data, tbl)

		Convey("Then the skipped era counts as no wins", func() {
			So(err, ShouldBeNil)
			So(rows[1].Model, ShouldEqual, "partial")
			So(rows[1].LogLoss, ShouldEqual, 0.5)
			So(rows[0].LogLoss, ShouldEqual, 0.0)
		})
	})

	Convey("Given a single model", t, func() {
		tbl := mustTable(map[string]prediction.Batch{"solo": eraBatch([2]float64{0.6, 0.4})}, "solo")

		_, err := analytics.Dominance(ctx, eraDataset(1), tbl)

		Convey("Then dominance is refused", func() {
			So(errors.Is(err, analytics.ErrInsufficientModels), ShouldBeTrue)
		})
	})
}

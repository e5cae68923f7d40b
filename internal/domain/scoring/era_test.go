package scoring_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/numerox/internal/domain/model"
	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/okian/numerox/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsPerEra(t *testing.T) {
	Convey("Given two eras and two models", t, func() {
		data := model.NewDataset([]model.Row{
			{ID: "a", Era: "era1", Region: "train", Target: 1},
			{ID: "b", Era: "era1", Region: "train", Target: 0},
			{ID: "c", Era: "era2", Region: "validation", Target: 1},
			{ID: "d", Era: "era2", Region: "validation", Target: 0},
		})
		tbl := prediction.New()
		So(tbl.Insert("good", prediction.Batch{"a": 0.9, "b": 0.1, "c": 0.8, "d": 0.3}), ShouldBeNil)
		So(tbl.Insert("partial", prediction.Batch{"a": 0.5, "b": 0.5}), ShouldBeNil)

		metrics, regions, err := scoring.MetricsPerEra(context.Background(), data, tbl, scoring.WithWorkers(2))

		Convey("Then rows are ordered by model then era", func() {
			So(err, ShouldBeNil)
			So(len(metrics), ShouldEqual, 3)
			So(metrics[0].Model, ShouldEqual, "good")
			So(metrics[0].Era, ShouldEqual, "era1")
			So(metrics[1].Era, ShouldEqual, "era2")
			So(metrics[2].Model, ShouldEqual, "partial")
		})

		Convey("Then an era without predictions is skipped for that model", func() {
			for _, m := range metrics {
				if m.Model == "partial" {
					So(m.Era, ShouldEqual, "era1")
				}
			}
		})

		Convey("Then metrics are computed over the era's rows", func() {
			So(metrics[0].Rows, ShouldEqual, 2)
			So(metrics[0].AUC, ShouldEqual, 1.0)
			So(metrics[0].Acc, ShouldEqual, 1.0)
			So(math.Abs(metrics[2].LogLoss-math.Ln2), ShouldBeLessThan, 1e-12)
			v, ok := metrics[2].Metric(scoring.MetricLogLoss)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, metrics[2].LogLoss)
			_, ok = metrics[2].Metric("sharpe")
			So(ok, ShouldBeFalse)
		})

		Convey("Then regions cover every scored row", func() {
			So(regions, ShouldResemble, []string{"train", "validation"})
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		tbl, err := prediction.FromBatch("m", prediction.Batch{"a": 0.5})
		So(err, ShouldBeNil)
		data := model.NewDataset([]model.Row{{ID: "a", Era: "era1", Region: "train", Target: 1}})

		_, _, err = scoring.MetricsPerEra(ctx, data, tbl)

		Convey("Then scoring stops with the context error", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

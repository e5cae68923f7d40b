package analytics_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/numerox/internal/domain/analytics"
	"github.com/okian/numerox/internal/domain/prediction"
	. "github.com/smartystreets/goconvey/convey"
)

var sixIDs = []string{"i1", "i2", "i3", "i4", "i5", "i6"}

func arrays(names []string, cols map[string][]float64) *prediction.Table {
	t := prediction.New()
	for _, name := range names {
		if err := t.InsertArrays(name, sixIDs, cols[name]); err != nil {
			panic(err)
		}
	}
	return t
}

func TestCorrelation(t *testing.T) {
	Convey("Given a model, a linear copy of it and an unrelated model", t, func() {
		tbl := arrays([]string{"a", "b", "c"}, map[string][]float64{
			"a": {0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
			"b": {0.30, 0.35, 0.40, 0.45, 0.50, 0.55},
			"c": {0.9, 0.1, 0.8, 0.2, 0.7, 0.3},
		})

		Convey("Then the matrix is symmetric with a unit diagonal", func() {
			names, corr := analytics.CorrelationMatrix(tbl)
			So(names, ShouldResemble, []string{"a", "b", "c"})
			for i := range names {
				So(corr[i][i], ShouldAlmostEqual, 1.0, 1e-9)
				for j := range names {
					So(corr[i][j], ShouldAlmostEqual, corr[j][i], 1e-12)
				}
			}
			So(corr[0][1], ShouldAlmostEqual, 1.0, 1e-9)
			So(corr[0][2], ShouldBeLessThan, 0)
		})

		Convey("Then peers are listed from highest to lowest", func() {
			reports, err := analytics.Correlation(tbl, "a")
			So(err, ShouldBeNil)
			So(len(reports), ShouldEqual, 1)
			So(reports[0].Model, ShouldEqual, "a")
			So(len(reports[0].Peers), ShouldEqual, 2)
			So(reports[0].Peers[0].Model, ShouldEqual, "b")
			So(reports[0].Peers[1].Model, ShouldEqual, "c")
		})

		Convey("Then an empty name reports every model", func() {
			reports, err := analytics.Correlation(tbl, "")
			So(err, ShouldBeNil)
			So(len(reports), ShouldEqual, 3)
		})

		Convey("Then an unknown name fails", func() {
			_, err := analytics.Correlation(tbl, "ghost")
			So(errors.Is(err, prediction.ErrUnknownModel), ShouldBeTrue)
		})
	})

	Convey("Given a model with a missing row", t, func() {
		tbl := arrays([]string{"a", "b"}, map[string][]float64{
			"a": {0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
			"b": {0.2, 0.4, 0.6, 0.8, 1.0, math.NaN()},
		})

		Convey("Then the row is dropped before correlating", func() {
			_, corr := analytics.CorrelationMatrix(tbl)
			So(corr[0][1], ShouldAlmostEqual, 1.0, 1e-9)
		})
	})

	Convey("Given models with no complete row", t, func() {
		tbl := prediction.New()
		So(tbl.Insert("a", prediction.Batch{"x": 0.1}), ShouldBeNil)
		So(tbl.Insert("b", prediction.Batch{"y": 0.2}), ShouldBeNil)

		Convey("Then every correlation is NaN", func() {
			_, corr := analytics.CorrelationMatrix(tbl)
			So(math.IsNaN(corr[0][1]), ShouldBeTrue)
			So(math.IsNaN(corr[1][1]), ShouldBeTrue)
		})
	})
}

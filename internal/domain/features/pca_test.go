package features_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/playstyle/internal/domain/features"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPCA(t *testing.T) {
	Convey("Given points on the line y = 2x", t, func() {
		x := [][]float64{{-2, -4}, {-1, -2}, {0, 0}, {1, 2}, {2, 4}}

		Convey("When keeping 90% of the variance", func() {
			p, err := features.FitPCAVariance(x, 0.9)
			So(err, ShouldBeNil)

			Convey("Then one component explains everything", func() {
				So(p.Components(), ShouldEqual, 1)
				So(p.ExplainedVarianceRatio()[0], ShouldAlmostEqual, 1, 1e-9)
			})

			Convey("Then projections preserve distances along the line with a positive orientation", func() {
				proj := p.Transform(x)
				So(proj[2][0], ShouldAlmostEqual, 0, 1e-9)
				So(proj[4][0], ShouldAlmostEqual, 2*math.Sqrt(5), 1e-9)
				So(proj[0][0], ShouldAlmostEqual, -2*math.Sqrt(5), 1e-9)
			})
		})

		Convey("When asking for more components than directions", func() {
			p, err := features.FitPCA(x, 3)
			So(err, ShouldBeNil)

			Convey("Then the missing directions project to zero", func() {
				So(p.Components(), ShouldEqual, 3)
				for _, row := range p.Transform(x) {
					So(row, ShouldHaveLength, 3)
					So(row[2], ShouldEqual, 0)
				}
			})
		})

		Convey("Then refitting gives identical projections", func() {
			a, _ := features.FitPCA(x, 2)
			b, _ := features.FitPCA(x, 2)
			So(a.Transform(x), ShouldResemble, b.Transform(x))
		})
	})

	Convey("Given invalid inputs", t, func() {
		So(errors.Is(fitErr(features.FitPCA([][]float64{{1, 2}}, 1)), features.ErrEmptyMatrix), ShouldBeTrue)
		So(errors.Is(fitErr(features.FitPCA([][]float64{{1}, {2}}, 0)), features.ErrEmptyMatrix), ShouldBeTrue)
		So(errors.Is(fitErr(features.FitPCAVariance([][]float64{{1}, {2}}, 0)), features.ErrInvalidVariance), ShouldBeTrue)
		So(errors.Is(fitErr(features.FitPCAVariance([][]float64{{1}, {2}}, 1.5)), features.ErrInvalidVariance), ShouldBeTrue)
	})
}

func fitErr(_ *features.PCA, err error) error { return err }

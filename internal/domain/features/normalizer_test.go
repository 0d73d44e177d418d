package features_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/playstyle/internal/domain/features"
	"github.com/okian/playstyle/internal/domain/metric"
	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/stat"
)

func sampleTable() *features.Table {
	t := &features.Table{
		Metrics: []string{metric.PossessionPercentage, metric.ProgressivePasses, metric.PPDA, metric.Tackles},
		Rows: [][]float64{
			{58, 40, 7.5, 15},
			{52, 35, 9.1, 17},
			{47, 30, 11.4, 19},
			{44, 28, 12.0, 21},
			{50, 33, 10.2, 16},
			{61, 45, 8.0, 14},
		},
	}
	for i := range t.Rows {
		t.Entities = append(t.Entities, features.Entity{Key: key(int64(i+1), 1)})
	}
	return t
}

func TestInvert(t *testing.T) {
	Convey("Inverting ppda uses the epsilon floor", t, func() {
		So(features.Invert(0, features.DefaultEpsilon), ShouldEqual, 1000)
		So(features.Invert(-2, features.DefaultEpsilon), ShouldEqual, 1000)
		So(features.Invert(4, features.DefaultEpsilon), ShouldEqual, 0.25)
	})
}

func TestNormalizer_Normalize(t *testing.T) {
	ctx := context.Background()

	Convey("Given a feature table", t, func() {
		table := sampleTable()

		Convey("When normalizing without pruning or reduction", func() {
			out, err := features.NewNormalizer().Normalize(ctx, table)
			So(err, ShouldBeNil)

			Convey("Then every column has zero mean and unit population std", func() {
				for j := range out.Features {
					col := make([]float64, len(out.Standardized))
					for i, row := range out.Standardized {
						col[i] = row[j]
					}
					mean, std := stat.PopMeanStdDev(col, nil)
					So(mean, ShouldAlmostEqual, 0, 1e-9)
					So(std, ShouldAlmostEqual, 1, 1e-9)
				}
				So(out.Reduced, ShouldBeFalse)
				So(out.Matrix, ShouldResemble, out.Standardized)
			})

			Convey("Then ppda is inverted so intense pressing scores high", func() {
				So(out.Inverted, ShouldResemble, []string{metric.PPDA})
				j := 2
				So(out.Standardized[0][j], ShouldBeGreaterThan, out.Standardized[3][j])
			})

			Convey("Then the input table is untouched", func() {
				So(table.Rows[0][2], ShouldEqual, 7.5)
			})
		})

		Convey("When pruning correlated features", func() {
			out, err := features.NewNormalizer(
				features.WithRemoveCorrelated(features.DefaultPruneArtifact()),
			).Normalize(ctx, table)
			So(err, ShouldBeNil)

			Convey("Then the artifact features are gone", func() {
				So(out.Pruned, ShouldResemble, []string{metric.ProgressivePasses})
				So(out.Features, ShouldNotContain, metric.ProgressivePasses)
				So(len(out.Standardized[0]), ShouldEqual, 3)
			})
		})

		Convey("When deriving the prune list from the table", func() {
			out, err := features.NewNormalizer(
				features.WithDerivedPruning(features.CorrelationThreshold),
			).Normalize(ctx, redundantTable())
			So(err, ShouldBeNil)

			Convey("Then only the later column of the correlated pair is dropped", func() {
				So(out.Pruned, ShouldResemble, []string{"b"})
				So(out.Features, ShouldResemble, []string{"a", "c"})
			})
		})

		Convey("When reducing with PCA", func() {
			out, err := features.NewNormalizer(features.WithPCA(0.90)).Normalize(ctx, table)
			So(err, ShouldBeNil)

			Convey("Then enough components are kept and the pre-reduction matrix survives", func() {
				So(out.Reduced, ShouldBeTrue)
				So(out.Components, ShouldBeLessThanOrEqualTo, 4)
				var sum float64
				for _, r := range out.ExplainedVariance {
					sum += r
				}
				So(sum, ShouldBeGreaterThan, 0.90)
				So(len(out.Matrix[0]), ShouldEqual, out.Components)
				So(len(out.Standardized[0]), ShouldEqual, 4)
			})

			Convey("Then reduction is deterministic", func() {
				again, err := features.NewNormalizer(features.WithPCA(0.90)).Normalize(ctx, table)
				So(err, ShouldBeNil)
				So(again.Matrix, ShouldResemble, out.Matrix)
			})
		})

		Convey("When an extreme outlier is present", func() {
			rows := make([][]float64, 0, 20)
			for i := 0; i < 19; i++ {
				rows = append(rows, []float64{float64(50 + i%3)})
			}
			rows = append(rows, []float64{500})
			outlier := &features.Table{Metrics: []string{metric.PossessionPercentage}, Rows: rows}
			for i := range rows {
				outlier.Entities = append(outlier.Entities, features.Entity{Key: key(int64(i), 1)})
			}
			out, err := features.NewNormalizer().Normalize(ctx, outlier)
			So(err, ShouldBeNil)

			Convey("Then it is capped at three sample deviations before scaling", func() {
				raw := make([]float64, len(rows))
				for i, r := range rows {
					raw[i] = r[0]
				}
				mean, std := stat.MeanStdDev(raw, nil)
				capped := make([]float64, len(raw))
				for i, v := range raw {
					capped[i] = math.Min(v, mean+3*std)
				}
				cm, cs := stat.PopMeanStdDev(capped, nil)
				So(capped[19], ShouldBeLessThan, 500)
				So(out.Standardized[19][0], ShouldAlmostEqual, (capped[19]-cm)/cs, 1e-9)
				So(out.Standardized[0][0], ShouldAlmostEqual, (capped[0]-cm)/cs, 1e-9)
			})
		})

		Convey("When the table is empty", func() {
			_, err := features.NewNormalizer().Normalize(ctx, &features.Table{})
			So(errors.Is(err, features.ErrEmptyMatrix), ShouldBeTrue)
		})
	})
}

package cluster_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/playstyle/internal/domain/cluster"
	. "github.com/smartystreets/goconvey/convey"
)

// eightByEleven returns four well separated pairs of entities over eleven metrics.
func eightByEleven() [][]float64 {
	centers := [][]float64{
		{2, 2, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 2, 2, 0, 0, 0, 0, 0, 0, -1},
		{0, 0, 0, 0, 2, 2, 0, 0, 0, 0, 1},
		{-2, -2, 0, 0, 0, 0, 2, 2, 2, 0, -1},
	}
	jitter := []float64{0.1, -0.1}
	var x [][]float64
	for _, c := range centers {
		for _, d := range jitter {
			row := make([]float64, len(c))
			for j, v := range c {
				row[j] = v + d*float64(j%3)
			}
			x = append(x, row)
		}
	}
	return x
}

func TestEngine_FindOptimalK(t *testing.T) {
	ctx := context.Background()

	Convey("Given eight entities with eleven metrics", t, func() {
		x := eightByEleven()
		e := cluster.NewEngine()

		Convey("When selecting k over 2..5", func() {
			sel, err := e.FindOptimalK(ctx, x, 2, 5)
			So(err, ShouldBeNil)

			Convey("Then there are four scores and the suggestion is their argmax", func() {
				So(sel.K, ShouldResemble, []int{2, 3, 4, 5})
				So(len(sel.Silhouette), ShouldEqual, 4)
				So(len(sel.Inertia), ShouldEqual, 4)
				best, bestK := -2.0, 0
				for i, s := range sel.Silhouette {
					So(s, ShouldNotBeNil)
					So(*s, ShouldBeBetweenOrEqual, -1, 1)
					if *s > best {
						best, bestK = *s, sel.K[i]
					}
				}
				So(sel.SuggestedK, ShouldEqual, bestK)
				So(sel.SuggestedK, ShouldEqual, 4)
			})

			Convey("Then inertia does not grow with k", func() {
				for i := 1; i < len(sel.Inertia); i++ {
					So(sel.Inertia[i], ShouldBeLessThanOrEqualTo, sel.Inertia[i-1]+1e-9)
				}
			})
		})

		Convey("When the range starts at one", func() {
			sel, err := e.FindOptimalK(ctx, x, 1, 2)
			So(err, ShouldBeNil)

			Convey("Then the k=1 silhouette is absent, not zero", func() {
				So(sel.Silhouette[0], ShouldBeNil)
				So(sel.Silhouette[1], ShouldNotBeNil)
				So(sel.SuggestedK, ShouldEqual, 2)
			})
		})

		Convey("When the range is invalid", func() {
			for _, r := range [][2]int{{0, 3}, {4, 3}, {2, 8}} {
				_, err := e.FindOptimalK(ctx, x, r[0], r[1])
				So(errors.Is(err, cluster.ErrInvalidParameter), ShouldBeTrue)
			}
		})
	})
}

func TestEngine_Fit(t *testing.T) {
	ctx := context.Background()

	Convey("Given eight entities with eleven metrics", t, func() {
		x := eightByEleven()
		e := cluster.NewEngine()

		Convey("When fitting k=4", func() {
			fit, err := e.Fit(ctx, x, 4)
			So(err, ShouldBeNil)

			Convey("Then every entity is in exactly one of four clusters", func() {
				So(len(fit.Labels), ShouldEqual, 8)
				sizes := fit.Sizes()
				So(len(sizes), ShouldEqual, 4)
				total := 0
				for _, s := range sizes {
					So(s, ShouldBeGreaterThan, 0)
					total += s
				}
				So(total, ShouldEqual, 8)
			})

			Convey("Then pairs from the same center share a cluster", func() {
				for i := 0; i < 8; i += 2 {
					So(fit.Labels[i], ShouldEqual, fit.Labels[i+1])
				}
			})

			Convey("Then silhouette and samples are consistent", func() {
				So(fit.Silhouette, ShouldNotBeNil)
				So(*fit.Silhouette, ShouldBeBetweenOrEqual, -1, 1)
				So(len(fit.Samples), ShouldEqual, 8)
				var sum float64
				for _, s := range fit.Samples {
					sum += s
				}
				So(sum/8, ShouldAlmostEqual, *fit.Silhouette, 1e-12)
				So(len(fit.Projection), ShouldEqual, 8)
			})

			Convey("Then refitting with the same seed is bit-identical", func() {
				again, err := cluster.NewEngine().Fit(ctx, x, 4)
				So(err, ShouldBeNil)
				So(cmp.Diff(fit.Labels, again.Labels), ShouldBeEmpty)
				So(cmp.Diff(fit.Centroids, again.Centroids), ShouldBeEmpty)
				So(cmp.Diff(fit.Projection, again.Projection), ShouldBeEmpty)
			})
		})

		Convey("When k is out of range", func() {
			for _, k := range []int{1, 8, 9} {
				_, err := e.Fit(ctx, x, k)
				So(errors.Is(err, cluster.ErrInvalidParameter), ShouldBeTrue)
			}
		})
	})
}

func TestEngine_RepeatedRows(t *testing.T) {
	ctx := context.Background()

	Convey("Given five rows of which four are identical", t, func() {
		x := [][]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {10, 10}}
		e := cluster.NewEngine()

		Convey("When fitting more clusters than distinct rows", func() {
			fit, err := e.Fit(ctx, x, 3)
			So(err, ShouldBeNil)

			Convey("Then no cluster is left empty", func() {
				sizes := fit.Sizes()
				So(sizes, ShouldHaveLength, 3)
				for _, n := range sizes {
					So(n, ShouldBeGreaterThan, 0)
				}
				So(fit.Inertia, ShouldEqual, 0)
			})

			Convey("Then the silhouette is defined", func() {
				So(fit.Silhouette, ShouldNotBeNil)
			})
		})

		Convey("When scanning k over the same rows", func() {
			sel, err := e.FindOptimalK(ctx, x, 2, 4)
			So(err, ShouldBeNil)

			Convey("Then every k has a defined silhouette", func() {
				for _, s := range sel.Silhouette {
					So(s, ShouldNotBeNil)
				}
			})
		})
	})
}

func TestSilhouette(t *testing.T) {
	Convey("Given labels with a singleton cluster", t, func() {
		x := [][]float64{{0}, {0.1}, {5}, {9}}
		samples := cluster.SilhouetteSamples(x, []int{0, 0, 1, 2})

		Convey("Then the singleton scores zero and others stay in range", func() {
			So(samples[2], ShouldEqual, 0)
			So(samples[3], ShouldEqual, 0)
			So(samples[0], ShouldBeBetweenOrEqual, -1, 1)
			So(samples[0], ShouldBeGreaterThan, 0.9)
		})
	})

	Convey("A single label has no silhouette", t, func() {
		So(cluster.Silhouette([][]float64{{0}, {1}, {2}}, []int{0, 0, 0}), ShouldBeNil)
	})
}

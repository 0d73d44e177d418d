package style_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/playstyle/internal/domain/cluster"
	"github.com/okian/playstyle/internal/domain/features"
	"github.com/okian/playstyle/internal/domain/metric"
	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/internal/domain/style"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRadar(t *testing.T) {
	Convey("The radar mapping", t, func() {
		Convey("Saturates outside [-3, 3]", func() {
			So(style.Radar(-3), ShouldEqual, 0)
			So(style.Radar(-7.5), ShouldEqual, 0)
			So(style.Radar(3), ShouldEqual, 100)
			So(style.Radar(12), ShouldEqual, 100)
			So(style.Radar(0), ShouldEqual, 50)
		})

		Convey("Is monotonic", func() {
			prev := style.Radar(-4)
			for z := -4.0; z <= 4; z += 0.25 {
				cur := style.Radar(z)
				So(cur, ShouldBeGreaterThanOrEqualTo, prev)
				prev = cur
			}
		})
	})
}

// fixture builds a three-cluster normalized run over four features with the
// given centroids; every cluster has two members sitting on the centroid.
func fixture(centroids [][]float64) (*features.Normalized, *cluster.Fit) {
	norm := &features.Normalized{
		Features: []string{metric.PossessionPercentage, metric.PPDA, metric.CounterAttacks, metric.CrossesTotal},
	}
	fit := &cluster.Fit{K: len(centroids), Centroids: centroids}
	for c, ctr := range centroids {
		for m := 0; m < 2; m++ {
			norm.Entities = append(norm.Entities, features.Entity{
				Key:      model.TeamManagerKey{TeamID: int64(c*10 + m), ManagerID: 1},
				TeamName: "Team",
			})
			norm.Standardized = append(norm.Standardized, ctr)
			fit.Labels = append(fit.Labels, c)
			fit.Samples = append(fit.Samples, 0.5)
			fit.Projection = append(fit.Projection, [2]float64{float64(c), float64(m)})
		}
	}
	norm.Matrix = norm.Standardized
	return norm, fit
}

func TestInterpreter_Interpret(t *testing.T) {
	ctx := context.Background()

	Convey("Given three fitted clusters", t, func() {
		norm, fit := fixture([][]float64{
			{1.5, 0.2, -1.0, 0},
			{-1.0, -1.1, 1.2, 0},
			{0, 0, 0, 0},
		})
		in := style.NewInterpreter()

		Convey("When interpreting", func() {
			res, err := in.Interpret(ctx, norm, fit)
			So(err, ShouldBeNil)

			Convey("Then clusters are named by their closest signature", func() {
				So(res.Profiles[0].Name, ShouldEqual, "Possesso Dominante")
				So(res.Profiles[0].Archetype, ShouldEqual, "dominant_possession")
				So(res.Profiles[1].Name, ShouldEqual, "Blocco Basso e Ripartenza")
			})

			Convey("Then an unmatched cluster keeps its numeric name and a balanced description", func() {
				So(res.Profiles[2].Name, ShouldEqual, "Cluster 2")
				So(res.Profiles[2].Archetype, ShouldBeEmpty)
				So(res.Profiles[2].Description, ShouldEqual, "Squadre con approccio tattico equilibrato senza caratteristiche predominanti.")
			})

			Convey("Then characteristics follow the threshold and label table", func() {
				chars := res.Profiles[1].Characteristics
				So(len(chars), ShouldEqual, 3)
				So(chars[0].Label, ShouldEqual, "Basso possesso")
				So(chars[1].Label, ShouldEqual, "Pressing basso")
				So(chars[2].Label, ShouldEqual, "Contropiede")
				So(res.Profiles[1].Description, ShouldEqual, "Squadre caratterizzate da: Basso possesso, Pressing basso, Contropiede.")
			})

			Convey("Then every entity is assigned with its sample silhouette", func() {
				So(len(res.Assignments), ShouldEqual, 6)
				So(len(res.Profiles[0].Members), ShouldEqual, 2)
				So(res.Assignments[3].ClusterName, ShouldEqual, "Blocco Basso e Ripartenza")
				So(res.Assignments[3].Silhouette, ShouldEqual, 0.5)
			})

			Convey("Then every tenure carries its cluster context", func() {
				all := res.TeamStyles()
				So(len(all), ShouldEqual, len(res.Assignments))
				for i, ts := range all {
					So(ts.Entity.Key, ShouldResemble, res.Assignments[i].Entity.Key)
					So(ts.Description, ShouldEqual, res.Profiles[ts.ClusterID].Description)
					So(ts.Description, ShouldNotBeEmpty)
					for _, v := range ts.Radar {
						So(v, ShouldBeBetweenOrEqual, 0, 100)
					}
				}
			})

			Convey("Then radar values use the standardized centroid", func() {
				radar, err := res.Radar(0)
				So(err, ShouldBeNil)
				So(radar[metric.PossessionPercentage], ShouldEqual, 75)
				_, err = res.Radar(7)
				So(errors.Is(err, style.ErrUnknownCluster), ShouldBeTrue)
			})

			Convey("Then team style lookup resolves known tenures only", func() {
				ts, err := res.TeamStyle(model.TeamManagerKey{TeamID: 10, ManagerID: 1})
				So(err, ShouldBeNil)
				So(ts.ClusterID, ShouldEqual, 1)
				So(ts.Projection, ShouldResemble, [2]float64{1, 0})
				So(ts.Description, ShouldEqual, res.Profiles[1].Description)
				radar, _ := res.Radar(1)
				So(ts.Radar, ShouldResemble, radar)
				So(len(ts.Radar), ShouldEqual, len(res.Features))
				_, err = res.TeamStyle(model.TeamManagerKey{TeamID: 99, ManagerID: 1})
				So(errors.Is(err, style.ErrNotClassified), ShouldBeTrue)
			})
		})

		Convey("When no signature is close enough", func() {
			res, err := style.NewInterpreter(style.WithTolerance(0.999)).Interpret(ctx, norm, fit)
			So(err, ShouldBeNil)

			Convey("Then clusters with characteristics fall back to their id", func() {
				So(res.Profiles[0].Name, ShouldEqual, "Cluster 0")
				So(res.Profiles[1].Name, ShouldEqual, "Cluster 1")
			})
		})

		Convey("When two clusters prefer the same archetype", func() {
			norm, fit := fixture([][]float64{
				{1.5, 0, -1.0, 0},
				{1.5, 0, -0.3, 0},
			})
			res, err := in.Interpret(ctx, norm, fit)
			So(err, ShouldBeNil)

			Convey("Then only the closer one gets it", func() {
				So(res.Profiles[0].Name, ShouldEqual, "Possesso Dominante")
				So(res.Profiles[1].Name, ShouldNotEqual, "Possesso Dominante")
			})
		})

		Convey("When the fit was computed in a reduced space", func() {
			norm.Reduced = true
			fit.Centroids = [][]float64{{9}, {9}, {9}}
			res, err := in.Interpret(ctx, norm, fit)
			So(err, ShouldBeNil)

			Convey("Then centroids come from the pre-reduction rows", func() {
				So(res.Profiles[0].Centroid, ShouldResemble, []float64{1.5, 0.2, -1.0, 0})
			})
		})
	})
}

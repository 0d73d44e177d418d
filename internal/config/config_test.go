package config_test

import (
	"errors"
	"testing"

	"github.com/okian/playstyle/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should carry the historical analysis defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.ClusterK, convey.ShouldEqual, 4)
			convey.So(cfg.Seed, convey.ShouldEqual, 42)
			convey.So(cfg.NInit, convey.ShouldEqual, 10)
			convey.So(cfg.PCAVariance, convey.ShouldEqual, 0.90)
			convey.So(cfg.MinMinutes, convey.ShouldEqual, 270)
			convey.So(cfg.MinObservations, convey.ShouldEqual, 3)
			convey.So(cfg.TopN, convey.ShouldEqual, 3)
			convey.So(cfg.Epsilon, convey.ShouldEqual, 1e-3)
			convey.So(cfg.CorrelatedFeatures, convey.ShouldResemble, []string{
				"progressive_passes", "fast_attacks", "touches_in_box", "interceptions",
			})
			convey.So(cfg.DeriveCorrelated, convey.ShouldBeFalse)
			convey.So(cfg.CorrelationThreshold, convey.ShouldEqual, 0.7)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with out-of-range values", t, func() {
		cases := map[string]func(c *config.Config){
			"cluster_k":        func(c *config.Config) { c.ClusterK = 1 },
			"k_min/k_max":      func(c *config.Config) { c.KMin, c.KMax = 5, 3 },
			"pca_variance":     func(c *config.Config) { c.PCAVariance = 1.5 },
			"epsilon":          func(c *config.Config) { c.Epsilon = 0 },
			"data_source":      func(c *config.Config) { c.DataSource = "postgres" },
			"csv_dir":          func(c *config.Config) { c.DataSource = config.DataSourceCSV },
			"top_n":            func(c *config.Config) { c.TopN = 0 },
			"n_init":           func(c *config.Config) { c.NInit = 0 },
			"addr":             func(c *config.Config) { c.Addr = "" },
			"min_minutes":      func(c *config.Config) { c.MinMinutes = -1 },
			"min_observations": func(c *config.Config) { c.MinObservations = 0 },
			"correlation_threshold": func(c *config.Config) {
				c.DeriveCorrelated, c.CorrelationThreshold = true, 1
			},
		}
		for key, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, key)

			var fe *config.FieldError
			convey.So(errors.As(err, &fe), convey.ShouldBeTrue)
			convey.So(fe.Key, convey.ShouldEqual, key)
			convey.So(fe.Reason, convey.ShouldNotBeEmpty)
		}
	})
}

package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/okian/playstyle/internal/adapters/repository"
	service "github.com/okian/playstyle/internal/app"
	"github.com/okian/playstyle/internal/config"
	"github.com/okian/playstyle/internal/seed"
	"github.com/okian/playstyle/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a seeded SQLite database", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "playstyle.db")

		d, err := seed.Generate(ctx, seed.DefaultConfig())
		So(err, ShouldBeNil)
		store, err := repository.OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		So(seed.Write(ctx, store, d), ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		cfg := config.New()
		cfg.DatabasePath = path

		Convey("The service opens it from configuration and serves styles", func() {
			svc := service.New(service.WithConfig(cfg), service.WithLogger(logger.NewNop()))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			styles, err := svc.Styles(ctx)
			So(err, ShouldBeNil)
			So(styles, ShouldHaveLength, 20)
		})

		Convey("Results match an in-memory run of the same data", func() {
			fromDB := service.New(service.WithConfig(cfg), service.WithLogger(logger.NewNop()))
			So(fromDB.Start(ctx), ShouldBeNil)
			defer fromDB.Stop()
			inMem := started(t, d)
			defer inMem.Stop()

			a, err := fromDB.Styles(ctx)
			So(err, ShouldBeNil)
			b, err := inMem.Styles(ctx)
			So(err, ShouldBeNil)
			So(a, ShouldResemble, b)
		})

		Convey("A CSV export of the season can be served instead", func() {
			csvDir := filepath.Join(dir, "csv")
			So(seed.WriteCSV(csvDir, d), ShouldBeNil)
			csvCfg := config.New()
			csvCfg.DataSource = config.DataSourceCSV
			csvCfg.CSVDir = csvDir

			svc := service.New(service.WithConfig(csvCfg), service.WithLogger(logger.NewNop()))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			So(svc.GetStats().Entities, ShouldEqual, 20)
		})
	})
}

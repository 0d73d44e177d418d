package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/playstyle/internal/adapters/repository"
	"github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	convey.Convey("Given the seed command", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		var stderr bytes.Buffer

		convey.Convey("When writing a sqlite dataset", func() {
			db := filepath.Join(dir, "seed.db")
			err := run(ctx, []string{"-db", db, "-teams-per-style", "3", "-caretaker-step", "0"}, &stderr)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the database holds every tenure", func() {
				st, err := repository.OpenSQLite(ctx, db)
				convey.So(err, convey.ShouldBeNil)
				defer func() { _ = st.Close() }()

				tenures, err := st.Tenures(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(tenures, convey.ShouldHaveLength, 12)
			})

			convey.Convey("Then a second run refuses to append", func() {
				err := run(ctx, []string{"-db", db}, &stderr)
				convey.So(errors.Is(err, errFileExists), convey.ShouldBeTrue)
			})

			convey.Convey("Then -force replaces the database", func() {
				err := run(ctx, []string{"-db", db, "-force", "-teams-per-style", "2", "-caretaker-step", "0"}, &stderr)
				convey.So(err, convey.ShouldBeNil)

				st, err := repository.OpenSQLite(ctx, db)
				convey.So(err, convey.ShouldBeNil)
				defer func() { _ = st.Close() }()
				tenures, err := st.Tenures(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(tenures, convey.ShouldHaveLength, 8)
			})
		})

		convey.Convey("When writing csv files", func() {
			out := filepath.Join(dir, "csv")
			err := run(ctx, []string{"-format", "csv", "-csv-dir", out}, &stderr)
			convey.So(err, convey.ShouldBeNil)

			_, statErr := os.Stat(filepath.Join(out, repository.FileTeamMetrics))
			convey.So(statErr, convey.ShouldBeNil)

			st, err := repository.OpenCSV(ctx, out)
			convey.So(err, convey.ShouldBeNil)
			tenures, _ := st.Tenures(ctx)
			convey.So(tenures, convey.ShouldHaveLength, 22)
		})

		convey.Convey("When the format is unknown", func() {
			err := run(ctx, []string{"-format", "parquet"}, &stderr)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the generator settings are invalid", func() {
			err := run(ctx, []string{"-teams-per-style", "0", "-db", filepath.Join(dir, "x.db")}, &stderr)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When help is requested", func() {
			err := run(ctx, []string{"-h"}, &stderr)
			convey.So(errors.Is(err, flag.ErrHelp), convey.ShouldBeTrue)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "-teams-per-style")
		})
	})
}

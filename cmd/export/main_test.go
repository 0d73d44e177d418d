package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/playstyle/internal/adapters/export"
	"github.com/okian/playstyle/internal/seed"
	"github.com/smartystreets/goconvey/convey"
)

func seededCSV(t *testing.T) string {
	t.Helper()
	d, err := seed.Generate(context.Background(), seed.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := seed.WriteCSV(dir, d); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRun(t *testing.T) {
	t.Setenv("PLAYSTYLE_DATA_SOURCE", "csv")
	t.Setenv("PLAYSTYLE_CSV_DIR", seededCSV(t))

	convey.Convey("Given a seeded csv data source", t, func() {
		ctx := context.Background()
		var stdout, stderr bytes.Buffer

		convey.Convey("When exporting to stdout", func() {
			err := run(ctx, []string{"-out", "-"}, &stdout, &stderr)
			convey.So(err, convey.ShouldBeNil)

			rows, err := csv.NewReader(&stdout).ReadAll()
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then every classified tenure has a row", func() {
				convey.So(rows, convey.ShouldHaveLength, 21)
				convey.So(rows[0], convey.ShouldResemble, export.Header)
			})
		})

		convey.Convey("When exporting to a file", func() {
			path := filepath.Join(t.TempDir(), "styles.csv")
			err := run(ctx, []string{"-out", path}, &stdout, &stderr)
			convey.So(err, convey.ShouldBeNil)

			data, err := os.ReadFile(path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldStartWith, "team_id,manager_id")
			convey.So(stdout.Len(), convey.ShouldEqual, 0)
		})
	})
}

package export_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/playstyle/internal/adapters/export"
	"github.com/okian/playstyle/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func styles() []types.TeamStyle {
	return []types.TeamStyle{
		{TeamID: 1, ManagerID: 2, TeamName: "Milan, AC", ManagerName: "Mihajlović", MatchesCount: 31,
			ClusterID: 0, ClusterName: "Possesso Dominante", PCA1: 1.5, PCA2: -0.25, Silhouette: 0.61},
		{TeamID: 3, ManagerID: 4, TeamName: "Empoli", ManagerName: "Sarri", MatchesCount: 38,
			ClusterID: 2, ClusterName: "Cluster 2", PCA1: -2, PCA2: 0.125, Silhouette: -0.05},
	}
}

func TestWriteStyles(t *testing.T) {
	Convey("Given two classified tenures", t, func() {
		var buf bytes.Buffer
		So(export.WriteStyles(&buf, styles()), ShouldBeNil)

		records, err := csv.NewReader(&buf).ReadAll()
		So(err, ShouldBeNil)

		Convey("The header comes first and each tenure has a row", func() {
			So(records, ShouldHaveLength, 3)
			So(records[0], ShouldResemble, export.Header)
		})

		Convey("Fields are quoted and formatted", func() {
			So(records[1], ShouldResemble, []string{
				"1", "2", "Milan, AC", "Mihajlović", "31", "0", "Possesso Dominante",
				"1.500000", "-0.250000", "0.610000",
			})
			So(records[2][6], ShouldEqual, "Cluster 2")
			So(records[2][9], ShouldEqual, "-0.050000")
		})
	})

	Convey("Given no tenures only the header is written", t, func() {
		var buf bytes.Buffer
		So(export.WriteStyles(&buf, nil), ShouldBeNil)
		records, err := csv.NewReader(&buf).ReadAll()
		So(err, ShouldBeNil)
		So(records, ShouldHaveLength, 1)
	})
}

func TestWriteStylesFile(t *testing.T) {
	Convey("Writing to a file produces the same bytes", t, func() {
		path := filepath.Join(t.TempDir(), "playing_styles.csv")
		So(export.WriteStylesFile(path, styles()), ShouldBeNil)

		got, err := os.ReadFile(path)
		So(err, ShouldBeNil)
		var want bytes.Buffer
		So(export.WriteStyles(&want, styles()), ShouldBeNil)
		So(string(got), ShouldEqual, want.String())
	})

	Convey("An unwritable path fails", t, func() {
		err := export.WriteStylesFile(filepath.Join(t.TempDir(), "missing", "x.csv"), styles())
		So(err, ShouldNotBeNil)
	})
}

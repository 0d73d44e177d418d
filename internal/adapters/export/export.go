// Package export writes playing style classifications as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/okian/playstyle/internal/domain/types"
)

// Header is the column order of a styles export.
var Header = []string{
	"team_id", "manager_id", "team_name", "manager_name", "matches_count",
	"cluster_id", "cluster_name", "pca_1", "pca_2", "silhouette_score",
}

// WriteStyles writes one row per tenure in the given order.
func WriteStyles(w io.Writer, styles []types.TeamStyle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range styles {
		row := []string{
			strconv.FormatInt(s.TeamID, 10),
			strconv.FormatInt(s.ManagerID, 10),
			s.TeamName,
			s.ManagerName,
			strconv.Itoa(s.MatchesCount),
			strconv.Itoa(s.ClusterID),
			s.ClusterName,
			formatFloat(s.PCA1),
			formatFloat(s.PCA2),
			formatFloat(s.Silhouette),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %d/%d: %w", s.TeamID, s.ManagerID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStylesFile creates path and writes styles into it.
func WriteStylesFile(path string, styles []types.TeamStyle) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteStyles(f, styles)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

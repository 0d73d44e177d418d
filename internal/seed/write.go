package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/playstyle/internal/adapters/repository"
)

// Write loads d into a metric table store.
func Write(ctx context.Context, w repository.Writer, d *Dataset) error {
	if err := w.SaveTenures(ctx, d.Tenures); err != nil {
		return fmt.Errorf("save tenures: %w", err)
	}
	if err := w.SaveTeamObservations(ctx, d.Team); err != nil {
		return fmt.Errorf("save team metrics: %w", err)
	}
	if err := w.SavePlayerObservations(ctx, d.Players); err != nil {
		return fmt.Errorf("save player metrics: %w", err)
	}
	if err := w.SaveAppearances(ctx, d.Appearances); err != nil {
		return fmt.Errorf("save player minutes: %w", err)
	}
	return nil
}

// WriteCSV writes d as the CSV files read by repository.OpenCSV.
func WriteCSV(dir string, d *Dataset) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tenures := [][]string{{"team_id", "manager_id", "team_name", "manager_name", "matches_count"}}
	for _, t := range d.Tenures {
		tenures = append(tenures, []string{i64(t.Key.TeamID), i64(t.Key.ManagerID), t.TeamName, t.ManagerName, strconv.Itoa(t.MatchesCount)})
	}
	team := [][]string{{"team_id", "manager_id", "metric_name", "metric_value_p90"}}
	for _, o := range d.Team {
		team = append(team, []string{i64(o.Key.TeamID), i64(o.Key.ManagerID), o.Metric, f64(o.Value)})
	}
	players := [][]string{{"player_id", "player_name", "team_id", "manager_id", "metric_name", "metric_value_p90", "total_minutes"}}
	for _, o := range d.Players {
		players = append(players, []string{
			i64(o.PlayerID), o.PlayerName, i64(o.Key.TeamID), i64(o.Key.ManagerID),
			o.Metric, f64(o.Value), strconv.Itoa(o.TotalMinutes),
		})
	}
	apps := [][]string{{"player_id", "match_id", "position", "minutes_played"}}
	for _, a := range d.Appearances {
		apps = append(apps, []string{i64(a.PlayerID), i64(a.MatchID), a.Position, strconv.Itoa(a.Minutes)})
	}

	for name, rows := range map[string][][]string{
		repository.FileTenures:       tenures,
		repository.FileTeamMetrics:   team,
		repository.FilePlayerMetrics: players,
		repository.FileAppearances:   apps,
	} {
		if err := writeFile(filepath.Join(dir, name), rows); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func i64(v int64) string   { return strconv.FormatInt(v, 10) }
func f64(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

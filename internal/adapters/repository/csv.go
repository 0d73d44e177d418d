package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/pkg/logger"
)

// File names read by the CSV store.
const (
	FileTenures       = "team_manager_combinations.csv"
	FileTeamMetrics   = "team_metrics.csv"
	FilePlayerMetrics = "player_metrics.csv"
	FileAppearances   = "player_minutes.csv"
	FileTeams         = "teams.csv"
	FileManagers      = "managers.csv"
)

// CSVStore serves metric tables exported as CSV. Files are parsed once on
// open; player files are optional.
type CSVStore struct {
	tenures     []model.Tenure
	team        []model.Observation
	player      []model.PlayerObservation
	appearances []model.Appearance
}

// OpenCSV reads every table from dir.
func OpenCSV(ctx context.Context, dir string, opts ...Option) (*CSVStore, error) {
	return OpenCSVFS(ctx, os.DirFS(dir), opts...)
}

// OpenCSVFS reads every table from fsys.
func OpenCSVFS(ctx context.Context, fsys fs.FS, opts ...Option) (*CSVStore, error) {
	o := newOptions(opts)
	s := &CSVStore{}

	var err error
	if s.tenures, err = loadTenures(fsys); err != nil {
		return nil, err
	}
	if err := readTable(fsys, FileTeamMetrics, true, func(r record) error {
		v, ok, err := r.value("metric_value_p90")
		if err != nil || !ok {
			return err
		}
		obs := model.Observation{Value: v}
		if obs.Key, err = r.key(); err != nil {
			return err
		}
		if obs.Metric, err = r.str("metric_name"); err != nil {
			return err
		}
		s.team = append(s.team, obs)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := readTable(fsys, FilePlayerMetrics, false, func(r record) error {
		v, ok, err := r.value("metric_value_p90")
		if err != nil || !ok {
			return err
		}
		obs := model.PlayerObservation{Value: v, PlayerName: r.opt("player_name")}
		if obs.PlayerID, err = r.int64("player_id"); err != nil {
			return err
		}
		if obs.Key, err = r.key(); err != nil {
			return err
		}
		if obs.Metric, err = r.str("metric_name"); err != nil {
			return err
		}
		if r.has("total_minutes") {
			m, err := r.int64("total_minutes")
			if err != nil {
				return err
			}
			obs.TotalMinutes = int(m)
		}
		s.player = append(s.player, obs)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := readTable(fsys, FileAppearances, false, func(r record) error {
		a := model.Appearance{Position: r.opt("position")}
		var err error
		if a.PlayerID, err = r.int64("player_id"); err != nil {
			return err
		}
		if r.has("match_id") {
			if a.MatchID, err = r.int64("match_id"); err != nil {
				return err
			}
		}
		m, err := r.int64("minutes_played")
		if err != nil {
			return err
		}
		a.Minutes = int(m)
		s.appearances = append(s.appearances, a)
		return nil
	}); err != nil {
		return nil, err
	}

	o.log.Info(ctx, "csv tables loaded",
		logger.Int("tenures", len(s.tenures)),
		logger.Int("team_rows", len(s.team)),
		logger.Int("player_rows", len(s.player)),
		logger.Int("appearances", len(s.appearances)))
	return s, nil
}

// loadTenures reads combinations, numbering legacy files without a
// manager_id column from 1, and fills names from teams.csv and managers.csv
// when the combination file does not carry them.
func loadTenures(fsys fs.FS) ([]model.Tenure, error) {
	teams := map[int64]string{}
	if err := readTable(fsys, FileTeams, false, func(r record) error {
		id, err := r.int64("team_id")
		if err != nil {
			return err
		}
		teams[id] = r.opt("team_name")
		return nil
	}); err != nil {
		return nil, err
	}
	managers := map[int64]string{}
	if err := readTable(fsys, FileManagers, false, func(r record) error {
		id, err := r.int64("manager_id")
		if err != nil {
			return err
		}
		managers[id] = r.opt("manager_name")
		return nil
	}); err != nil {
		return nil, err
	}

	var out []model.Tenure
	err := readTable(fsys, FileTenures, true, func(r record) error {
		var t model.Tenure
		var err error
		if t.Key.TeamID, err = r.int64("team_id"); err != nil {
			return err
		}
		if r.has("manager_id") {
			if t.Key.ManagerID, err = r.int64("manager_id"); err != nil {
				return err
			}
		} else {
			t.Key.ManagerID = int64(r.index + 1)
		}
		if r.has("matches_count") {
			n, err := r.int64("matches_count")
			if err != nil {
				return err
			}
			t.MatchesCount = int(n)
		}
		t.TeamName = r.opt("team_name")
		if t.TeamName == "" {
			t.TeamName = teams[t.Key.TeamID]
		}
		t.ManagerName = r.opt("manager_name")
		if t.ManagerName == "" {
			t.ManagerName = managers[t.Key.ManagerID]
		}
		out = append(out, t)
		return nil
	})
	return out, err
}

// record is one CSV row addressed by header name.
type record struct {
	file   string
	index  int
	cols   map[string]int
	fields []string
}

func (r record) has(col string) bool {
	_, ok := r.cols[col]
	return ok
}

func (r record) opt(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) str(col string) (string, error) {
	if !r.has(col) {
		return "", fmt.Errorf("%s: %q: %w", r.file, col, ErrMissingColumn)
	}
	return r.opt(col), nil
}

// int64 accepts float-formatted integers such as "12.0".
func (r record) int64(col string) (int64, error) {
	s, err := r.str(col)
	if err != nil {
		return 0, err
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s line %d: invalid %s %q", r.file, r.index+2, col, s)
	}
	return int64(f), nil
}

// value reports ok=false for empty or NaN cells. Infinite values are rejected.
func (r record) value(col string) (float64, bool, error) {
	s, err := r.str(col)
	if err != nil {
		return 0, false, err
	}
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s line %d: invalid %s %q", r.file, r.index+2, col, s)
	}
	if math.IsNaN(f) {
		return 0, false, nil
	}
	if math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("%s line %d: non-finite %s %q", r.file, r.index+2, col, s)
	}
	return f, true, nil
}

// readTable streams name through fn. A missing optional file is skipped.
func readTable(fsys fs.FS, name string, required bool, fn func(record) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read %s header: %w", name, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	for i := 0; ; i++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := fn(record{file: name, index: i, cols: cols, fields: fields}); err != nil {
			return err
		}
	}
}

// Tenures returns every combination in file order.
func (s *CSVStore) Tenures(context.Context) ([]model.Tenure, error) {
	return append([]model.Tenure(nil), s.tenures...), nil
}

// Tenure returns the combination key or ErrNotFound.
func (s *CSVStore) Tenure(_ context.Context, key model.TeamManagerKey) (model.Tenure, error) {
	for _, t := range s.tenures {
		if t.Key == key {
			return t, nil
		}
	}
	return model.Tenure{}, fmt.Errorf("tenure %s: %w", key, ErrNotFound)
}

// TeamObservations returns team metrics in file order.
func (s *CSVStore) TeamObservations(context.Context) ([]model.Observation, error) {
	return append([]model.Observation(nil), s.team...), nil
}

// PlayerObservations returns player metrics in file order.
func (s *CSVStore) PlayerObservations(context.Context) ([]model.PlayerObservation, error) {
	return append([]model.PlayerObservation(nil), s.player...), nil
}

// Appearances returns per-match minutes in file order.
func (s *CSVStore) Appearances(context.Context) ([]model.Appearance, error) {
	return append([]model.Appearance(nil), s.appearances...), nil
}

// Close is a no-op.
func (s *CSVStore) Close() error { return nil }

// key reads team_id and manager_id.
func (r record) key() (model.TeamManagerKey, error) {
	var k model.TeamManagerKey
	var err error
	if k.TeamID, err = r.int64("team_id"); err != nil {
		return k, err
	}
	k.ManagerID, err = r.int64("manager_id")
	return k, err
}

package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/pkg/logger"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
}

// SQLiteStore reads and writes metric tables in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

// OpenSQLite opens path and, unless disabled, applies pending migrations.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	o := newOptions(opts)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection keeps the pragmas and in-memory databases consistent.
	db.SetMaxOpenConns(1)
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, log: o.log}
	if o.migrate {
		if err := s.MigrateUp(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// MigrateUp applies every pending embedded migration.
func (s *SQLiteStore) MigrateUp() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	// m is not closed: closing it would close the shared *sql.DB.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the applied schema version.
func (s *SQLiteStore) MigrateVersion() (uint, bool, error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, false, err
	}
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func (s *SQLiteStore) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{log: s.log}
	return m, nil
}

// migrateLogger implements migrate.Logger.
type migrateLogger struct {
	log logger.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Debug(context.Background(), fmt.Sprintf("[migrate] "+format, v...))
}

func (l *migrateLogger) Verbose() bool { return false }

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Tenures returns every combination in insertion order.
func (s *SQLiteStore) Tenures(ctx context.Context) ([]model.Tenure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, manager_id, team_name, manager_name, matches_count
		FROM team_manager_combinations ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query tenures: %w", err)
	}
	defer rows.Close()

	var out []model.Tenure
	for rows.Next() {
		t, err := scanTenure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Tenure returns the combination key or ErrNotFound.
func (s *SQLiteStore) Tenure(ctx context.Context, key model.TeamManagerKey) (model.Tenure, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT team_id, manager_id, team_name, manager_name, matches_count
		FROM team_manager_combinations WHERE team_id = ? AND manager_id = ?`,
		key.TeamID, key.ManagerID)
	t, err := scanTenure(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Tenure{}, fmt.Errorf("tenure %s: %w", key, ErrNotFound)
	}
	return t, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTenure(r scanner) (model.Tenure, error) {
	var t model.Tenure
	var team, manager sql.NullString
	if err := r.Scan(&t.Key.TeamID, &t.Key.ManagerID, &team, &manager, &t.MatchesCount); err != nil {
		return model.Tenure{}, err
	}
	t.TeamName, t.ManagerName = team.String, manager.String
	return t, nil
}

// TeamObservations skips rows with a NULL value so they are imputed downstream.
func (s *SQLiteStore) TeamObservations(ctx context.Context) ([]model.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, manager_id, metric_name, metric_value_p90
		FROM team_metrics WHERE metric_value_p90 IS NOT NULL ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query team metrics: %w", err)
	}
	defer rows.Close()

	var out []model.Observation
	for rows.Next() {
		var o model.Observation
		if err := rows.Scan(&o.Key.TeamID, &o.Key.ManagerID, &o.Metric, &o.Value); err != nil {
			return nil, fmt.Errorf("scan team metric: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// PlayerObservations returns player metrics in insertion order.
func (s *SQLiteStore) PlayerObservations(ctx context.Context) ([]model.PlayerObservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, player_name, team_id, manager_id, metric_name, metric_value_p90, total_minutes
		FROM player_metrics WHERE metric_value_p90 IS NOT NULL ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query player metrics: %w", err)
	}
	defer rows.Close()

	var out []model.PlayerObservation
	for rows.Next() {
		var o model.PlayerObservation
		var name sql.NullString
		if err := rows.Scan(&o.PlayerID, &name, &o.Key.TeamID, &o.Key.ManagerID, &o.Metric, &o.Value, &o.TotalMinutes); err != nil {
			return nil, fmt.Errorf("scan player metric: %w", err)
		}
		o.PlayerName = name.String
		out = append(out, o)
	}
	return out, rows.Err()
}

// Appearances returns per-match positions and minutes.
func (s *SQLiteStore) Appearances(ctx context.Context) ([]model.Appearance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, match_id, position, minutes_played
		FROM player_minutes ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query player minutes: %w", err)
	}
	defer rows.Close()

	var out []model.Appearance
	for rows.Next() {
		var a model.Appearance
		var pos sql.NullString
		if err := rows.Scan(&a.PlayerID, &a.MatchID, &pos, &a.Minutes); err != nil {
			return nil, fmt.Errorf("scan player minutes: %w", err)
		}
		a.Position = pos.String
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveTenures upserts combinations.
func (s *SQLiteStore) SaveTenures(ctx context.Context, rows []model.Tenure) error {
	return s.insert(ctx, `INSERT OR REPLACE INTO team_manager_combinations
		(team_id, manager_id, team_name, manager_name, matches_count) VALUES (?, ?, ?, ?, ?)`,
		len(rows), func(i int) []interface{} {
			t := rows[i]
			return []interface{}{t.Key.TeamID, t.Key.ManagerID, t.TeamName, t.ManagerName, t.MatchesCount}
		})
}

// SaveTeamObservations appends team metric rows.
func (s *SQLiteStore) SaveTeamObservations(ctx context.Context, rows []model.Observation) error {
	return s.insert(ctx, `INSERT INTO team_metrics
		(team_id, manager_id, metric_name, metric_value_p90) VALUES (?, ?, ?, ?)`,
		len(rows), func(i int) []interface{} {
			o := rows[i]
			return []interface{}{o.Key.TeamID, o.Key.ManagerID, o.Metric, o.Value}
		})
}

// SavePlayerObservations appends player metric rows.
func (s *SQLiteStore) SavePlayerObservations(ctx context.Context, rows []model.PlayerObservation) error {
	return s.insert(ctx, `INSERT INTO player_metrics
		(player_id, player_name, team_id, manager_id, metric_name, metric_value_p90, total_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		len(rows), func(i int) []interface{} {
			o := rows[i]
			return []interface{}{o.PlayerID, o.PlayerName, o.Key.TeamID, o.Key.ManagerID, o.Metric, o.Value, o.TotalMinutes}
		})
}

// SaveAppearances appends per-match minutes.
func (s *SQLiteStore) SaveAppearances(ctx context.Context, rows []model.Appearance) error {
	return s.insert(ctx, `INSERT INTO player_minutes
		(player_id, match_id, position, minutes_played) VALUES (?, ?, ?, ?)`,
		len(rows), func(i int) []interface{} {
			a := rows[i]
			return []interface{}{a.PlayerID, a.MatchID, a.Position, a.Minutes}
		})
}

// insert runs one prepared statement per row inside a transaction.
func (s *SQLiteStore) insert(ctx context.Context, query string, n int, args func(int) []interface{}) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/okian/playstyle/internal/config"
	"github.com/okian/playstyle/pkg/logger"
)

// Open returns the store selected by cfg. A SQLite database that fails to
// open falls back to cfg.CSVDir when one is configured.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (Store, error) {
	o := newOptions(opts)
	opts = append(opts, WithMigrate(cfg.MigrateOnStart))

	switch cfg.DataSource {
	case config.DataSourceCSV:
		return OpenCSV(ctx, cfg.CSVDir, opts...)
	case config.DataSourceSQLite:
		s, err := OpenSQLite(ctx, cfg.DatabasePath, opts...)
		if err == nil {
			return s, nil
		}
		if cfg.CSVDir == "" {
			return nil, err
		}
		o.log.Warn(ctx, "sqlite unavailable, falling back to csv",
			logger.String("database_path", cfg.DatabasePath),
			logger.String("csv_dir", cfg.CSVDir),
			logger.Error(err))
		return OpenCSV(ctx, cfg.CSVDir, opts...)
	default:
		return nil, fmt.Errorf("%q: %w", cfg.DataSource, ErrUnknownBackend)
	}
}

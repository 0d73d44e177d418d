// Package repository provides the metric tables consumed by the analysis
// pipelines, backed by SQLite or a directory of CSV files.
package repository

import (
	"context"

	"github.com/okian/playstyle/internal/domain/model"
)

// Store provides read access to the metric tables. Rows are returned in
// insertion order, which the feature builder relies on for first-value
// tie-breaks.
type Store interface {
	// Tenures returns every team+manager combination.
	Tenures(ctx context.Context) ([]model.Tenure, error)
	// Tenure returns one combination or ErrNotFound.
	Tenure(ctx context.Context, key model.TeamManagerKey) (model.Tenure, error)
	// TeamObservations returns per-90 team metrics.
	TeamObservations(ctx context.Context) ([]model.Observation, error)
	// PlayerObservations returns per-90 player metrics per tenure.
	PlayerObservations(ctx context.Context) ([]model.PlayerObservation, error)
	// Appearances returns per-match positions and minutes.
	Appearances(ctx context.Context) ([]model.Appearance, error)

	Close() error
}

// Writer loads metric tables. It is used by the seeding tool.
type Writer interface {
	Store
	SaveTenures(ctx context.Context, rows []model.Tenure) error
	SaveTeamObservations(ctx context.Context, rows []model.Observation) error
	SavePlayerObservations(ctx context.Context, rows []model.PlayerObservation) error
	SaveAppearances(ctx context.Context, rows []model.Appearance) error
}

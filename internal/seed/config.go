// Package seed generates a deterministic synthetic season: team tenures with
// latent playing styles and squads with positions, minutes and per-90 metrics.
package seed

import (
	"errors"
	"fmt"
)

// Default generator configuration constants.
const (
	DefaultSeed          = 42
	DefaultTeamsPerStyle = 5
	DefaultMatches       = 38
	DefaultNoise         = 0.35
	DefaultCaretakerStep = 7
	caretakerMatches     = 3
)

// ErrInvalidConfig is returned for out-of-range generator settings.
var ErrInvalidConfig = errors.New("invalid seed config")

// Config holds the generator settings.
type Config struct {
	Seed          int64   // Drives every random draw
	TeamsPerStyle int     // Tenures generated per latent style
	Matches       int     // League matches per tenure
	Noise         float64 // Team metric noise in standard deviations
	// CaretakerStep adds a short caretaker tenure after every n-th team;
	// zero disables caretakers.
	CaretakerStep int
}

// DefaultConfig returns the settings used by cmd/seed.
func DefaultConfig() Config {
	return Config{
		Seed:          DefaultSeed,
		TeamsPerStyle: DefaultTeamsPerStyle,
		Matches:       DefaultMatches,
		Noise:         DefaultNoise,
		CaretakerStep: DefaultCaretakerStep,
	}
}

func (c Config) validate() error {
	switch {
	case c.TeamsPerStyle < 1:
		return fmt.Errorf("teams per style %d: %w", c.TeamsPerStyle, ErrInvalidConfig)
	case c.TeamsPerStyle*len(latentStyles) > len(teamNames):
		return fmt.Errorf("teams per style %d exceeds %d team names: %w",
			c.TeamsPerStyle, len(teamNames), ErrInvalidConfig)
	case c.Matches < 1:
		return fmt.Errorf("matches %d: %w", c.Matches, ErrInvalidConfig)
	case c.Noise < 0:
		return fmt.Errorf("noise %f: %w", c.Noise, ErrInvalidConfig)
	case c.CaretakerStep < 0:
		return fmt.Errorf("caretaker step %d: %w", c.CaretakerStep, ErrInvalidConfig)
	}
	return nil
}

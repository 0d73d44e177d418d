package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/okian/playstyle/internal/domain/metric"
	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/internal/domain/player"
	"github.com/okian/playstyle/internal/domain/roles"
	"github.com/okian/playstyle/pkg/logger"
)

// Ranges for generated player minutes.
const (
	starterPlayRate = 0.85
	benchPlayRate   = 0.3
	starterMinMins  = 60
	benchMinMins    = 10
	benchMaxMins    = 30
	fullMatch       = 90
	playerSpread    = 0.3
	managerIDBase   = 100
	caretakerIDBase = 200
	playerIDBase    = 1000
)

// Dataset is one generated season.
type Dataset struct {
	Tenures     []model.Tenure
	Team        []model.Observation
	Players     []model.PlayerObservation
	Appearances []model.Appearance
	// Styles maps each full-season tenure to its latent style index.
	Styles map[model.TeamManagerKey]int
}

// Generate builds a season from cfg. The same config always yields the same
// dataset.
func Generate(ctx context.Context, cfg Config) (*Dataset, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible synthetic data
	d := &Dataset{Styles: make(map[model.TeamManagerKey]int)}

	teams := cfg.TeamsPerStyle * len(latentStyles)
	for i := 0; i < teams; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled: %w", err)
		}
		styleIdx := i % len(latentStyles)
		teamID := int64(i + 1)
		t := model.Tenure{
			Key:          model.TeamManagerKey{TeamID: teamID, ManagerID: int64(managerIDBase + i)},
			TeamName:     teamNames[i],
			ManagerName:  fmt.Sprintf("Allenatore %s", surnames[i%len(surnames)]),
			MatchesCount: cfg.Matches,
		}
		d.Tenures = append(d.Tenures, t)
		d.Styles[t.Key] = styleIdx
		d.Team = append(d.Team, teamRows(rng, t.Key, latentStyles[styleIdx], cfg.Noise)...)
		d.addSquad(rng, i, t.Key, cfg.Matches)

		if cfg.CaretakerStep > 0 && (i+1)%cfg.CaretakerStep == 0 {
			ct := model.Tenure{
				Key:          model.TeamManagerKey{TeamID: teamID, ManagerID: int64(caretakerIDBase + i)},
				TeamName:     teamNames[i],
				ManagerName:  "Traghettatore",
				MatchesCount: caretakerMatches,
			}
			d.Tenures = append(d.Tenures, ct)
			d.Team = append(d.Team, teamRows(rng, ct.Key, nil, cfg.Noise)...)
		}
	}

	logger.GetOrNop().Info(ctx, "generated synthetic season",
		logger.Int("tenures", len(d.Tenures)),
		logger.Int("team_rows", len(d.Team)),
		logger.Int("player_rows", len(d.Players)),
		logger.Int("appearances", len(d.Appearances)))
	return d, nil
}

func teamRows(rng *rand.Rand, key model.TeamManagerKey, offsets map[string]float64, noise float64) []model.Observation {
	names := metric.ClusterMetrics()
	out := make([]model.Observation, 0, len(names))
	for _, name := range names {
		m := teamBase[name]
		z := offsets[name] + noise*rng.NormFloat64()
		out = append(out, model.Observation{Key: key, Metric: name, Value: positive(m.mean + m.std*z)})
	}
	return out
}

// addSquad generates appearances and per-90 metrics for every squad slot.
func (d *Dataset) addSquad(rng *rand.Rand, team int, key model.TeamManagerKey, matches int) {
	allow := player.DefaultAllowlists()
	for slot, pos := range squad {
		id := int64(playerIDBase + team*len(squad) + slot)
		name := fmt.Sprintf("%s %d", surnames[(team+slot)%len(surnames)], id)

		total := 0
		for m := 0; m < matches; m++ {
			mins := minutes(rng, slot < starters)
			if mins == 0 {
				continue
			}
			total += mins
			d.Appearances = append(d.Appearances, model.Appearance{
				PlayerID: id,
				MatchID:  int64(team*matches + m + 1),
				Position: pos,
				Minutes:  mins,
			})
		}
		if total == 0 {
			continue
		}

		role, _ := roles.ForPosition(pos)
		for _, metricName := range metricsFor(allow[role]) {
			base, ok := playerBase[metricName]
			if !ok {
				base = 1
			}
			d.Players = append(d.Players, model.PlayerObservation{
				PlayerID:     id,
				PlayerName:   name,
				Key:          key,
				Metric:       metricName,
				Value:        positive(base * (1 + playerSpread*rng.NormFloat64())),
				TotalMinutes: total,
			})
		}
	}
}

func minutes(rng *rand.Rand, starter bool) int {
	if starter {
		if rng.Float64() >= starterPlayRate {
			return 0
		}
		if rng.Float64() < 0.5 {
			return fullMatch
		}
		return starterMinMins + rng.Intn(fullMatch-starterMinMins+1)
	}
	if rng.Float64() >= benchPlayRate {
		return 0
	}
	return benchMinMins + rng.Intn(benchMaxMins-benchMinMins+1)
}

// metricsFor returns the union of an allowlist, strengths first.
func metricsFor(a player.Allowlist) []string {
	seen := make(map[string]bool, len(a.Strengths)+len(a.Weaknesses))
	var out []string
	for _, list := range [][]string{a.Strengths, a.Weaknesses} {
		for _, m := range list {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

func positive(v float64) float64 {
	return math.Round(math.Max(v, 0.01)*1000) / 1000
}

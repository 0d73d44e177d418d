package seed

import "github.com/okian/playstyle/internal/domain/metric"

type moments struct{ mean, std float64 }

// teamBase holds league-wide per-90 distributions of the cluster metrics.
var teamBase = map[string]moments{
	metric.PossessionPercentage: {50, 6},
	metric.ProgressivePasses:    {35, 6},
	metric.DribblesTotal:        {9, 2},
	metric.PPDA:                 {11, 2.5},
	metric.PressingHigh:         {20, 4},
	metric.Counterpressing:      {15, 3},
	metric.CounterAttacks:       {3, 1},
	metric.BuildupSequences:     {12, 3},
	metric.FastAttacks:          {4, 1},
	metric.XGTotal:              {1.3, 0.3},
	metric.CrossesTotal:         {16, 3},
	metric.TouchesInBox:         {22, 4},
	metric.Tackles:              {17, 2.5},
	metric.Interceptions:        {12, 2},
	metric.AerialDuelsDefensive: {14, 3},
}

// latentStyles shift team metrics in standard deviations of raw values, so a
// pressing side has a negative ppda offset.
var latentStyles = []map[string]float64{
	{
		metric.PossessionPercentage: 1.5,
		metric.ProgressivePasses:    1.5,
		metric.BuildupSequences:     1.5,
		metric.DribblesTotal:        0.8,
		metric.TouchesInBox:         0.5,
		metric.CounterAttacks:       -1.2,
		metric.FastAttacks:          -0.5,
	},
	{
		metric.PPDA:            -1.5,
		metric.PressingHigh:    1.5,
		metric.Counterpressing: 1.5,
		metric.FastAttacks:     0.8,
		metric.Tackles:         0.8,
		metric.Interceptions:   0.5,
	},
	{
		metric.PossessionPercentage: -1.5,
		metric.PPDA:                 1.5,
		metric.BuildupSequences:     -1.5,
		metric.ProgressivePasses:    -1.0,
		metric.CounterAttacks:       1.5,
		metric.FastAttacks:          0.8,
		metric.AerialDuelsDefensive: 1.2,
	},
	{
		metric.CrossesTotal:   1.5,
		metric.TouchesInBox:   1.5,
		metric.XGTotal:        0.8,
		metric.DribblesTotal:  0.8,
		metric.PressingHigh:   -0.8,
		metric.CounterAttacks: 0.5,
	},
}

// playerBase is the per-90 mean of player metrics; unlisted metrics use 1.
var playerBase = map[string]float64{
	metric.PassesTotal:          45,
	metric.PassesShort:          22,
	metric.PassesMedium:         16,
	metric.PassesLong:           5,
	metric.ProgressivePasses:    4,
	metric.ProgressiveCarries:   3,
	metric.Clearances:           3.5,
	metric.Blocks:               0.8,
	metric.Interceptions:        1.4,
	metric.Tackles:              1.8,
	metric.AerialDuelsOpenPlay:  2.5,
	metric.AerialDuelsSetPieces: 1.2,
	metric.GroundDuelsDefensive: 3,
	metric.BallRecoveries:       5,
	metric.CrossesTotal:         2.2,
	metric.DribblesTotal:        1.6,
	metric.KeyPasses:            1.1,
	metric.ThroughBalls:         0.3,
	metric.XATotal:              0.12,
	metric.ShotsTotal:           1.8,
	metric.ShotsOnTarget:        0.7,
	metric.XGTotal:              0.2,
	metric.GoalsScored:          0.18,
	metric.BigChances:           0.4,
	metric.GoalConversionRate:   0.11,
	metric.TouchesInBox:         2.5,
}

// squad lists the position of each squad slot; the first eleven start.
var squad = []string{
	"Goalkeeper",
	"Right Back",
	"Right Center Back",
	"Left Center Back",
	"Left Back",
	"Center Defensive Midfield",
	"Right Center Midfield",
	"Left Center Midfield",
	"Right Wing",
	"Left Wing",
	"Center Forward",

	"Goalkeeper",
	"Center Back",
	"Left Wing Back",
	"Center Midfield",
	"Center Attacking Midfield",
	"Right Midfield",
	"Right Center Forward",
}

const starters = 11

var teamNames = []string{
	"Juventus", "Napoli", "Roma", "Inter", "Fiorentina",
	"Sassuolo", "Milan", "Lazio", "Chievo", "Empoli",
	"Genoa", "Torino", "Atalanta", "Bologna", "Sampdoria",
	"Palermo", "Udinese", "Carpi", "Frosinone", "Verona",
}

var surnames = []string{
	"Rossi", "Bianchi", "Romano", "Colombo", "Ricci", "Marino", "Greco",
	"Bruno", "Gallo", "Conti", "De Luca", "Mancini", "Costa", "Giordano",
	"Rizzo", "Lombardi", "Moretti", "Barbieri", "Fontana", "Santoro",
}

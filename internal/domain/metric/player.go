package metric

// Player metric names compared within role groups.
const (
	ShotsTotal           = "shots_total"
	ShotsOnTarget        = "shots_on_target"
	GoalsScored          = "goals_scored"
	GoalConversionRate   = "goal_conversion_rate"
	BigChances           = "big_chances"
	Clearances           = "clearances"
	Blocks               = "blocks"
	AerialDuelsOpenPlay  = "aerial_duels_open_play"
	AerialDuelsSetPieces = "aerial_duels_set_pieces"
	GroundDuelsDefensive = "ground_duels_defensive"
	PassesTotal          = "passes_total"
	PassesShort          = "passes_short"
	PassesMedium         = "passes_medium"
	PassesLong           = "passes_long"
	ProgressiveCarries   = "progressive_carries"
	KeyPasses            = "key_passes"
	ThroughBalls         = "through_balls"
	XATotal              = "xa_total"
	BallRecoveries       = "ball_recoveries"
	SwitchesOfPlay       = "switches_of_play"
)

var playerLocalized = map[string]string{
	ShotsTotal:           "Tiri",
	ShotsOnTarget:        "Tiri in Porta",
	XGTotal:              "xG",
	GoalsScored:          "Gol",
	GoalConversionRate:   "Conversione Tiri",
	BigChances:           "Grandi Occasioni",
	TouchesInBox:         "Tocchi in Area",
	Tackles:              "Contrasti",
	Interceptions:        "Intercetti",
	Clearances:           "Respinte",
	Blocks:               "Blocchi",
	AerialDuelsOpenPlay:  "Duelli Aerei",
	AerialDuelsSetPieces: "Duelli Aerei (Palle Inattive)",
	GroundDuelsDefensive: "Duelli a Terra (Dif.)",
	PassesTotal:          "Passaggi",
	PassesShort:          "Passaggi Corti",
	PassesMedium:         "Passaggi Medi",
	PassesLong:           "Passaggi Lunghi",
	ProgressivePasses:    "Passaggi Progressivi",
	ProgressiveCarries:   "Conduzioni Progressive",
	CrossesTotal:         "Cross",
	DribblesTotal:        "Dribbling",
	KeyPasses:            "Passaggi Chiave",
	ThroughBalls:         "Filtranti",
	XATotal:              "xA",
	BallRecoveries:       "Recuperi",
	SwitchesOfPlay:       "Cambi Gioco",
}

// PlayerLocalized returns the localized display name of a player metric,
// falling back to the metric name itself.
func PlayerLocalized(name string) string {
	if s, ok := playerLocalized[name]; ok {
		return s
	}
	return name
}

// Package metric holds the fixed, versioned metric vocabulary shared by the
// style clustering and player comparison sides.
package metric

// VocabularyVersion identifies the cluster metric set below. Changing the
// list, its order, or the prune artifact requires a new version.
const VocabularyVersion = "v1-2015-16"

// Team style metric names.
const (
	PossessionPercentage = "possession_percentage"
	ProgressivePasses    = "progressive_passes"
	DribblesTotal        = "dribbles_total"
	PPDA                 = "ppda"
	PressingHigh         = "pressing_high"
	Counterpressing      = "counterpressing"
	CounterAttacks       = "counter_attacks"
	BuildupSequences     = "buildup_sequences"
	FastAttacks          = "fast_attacks"
	XGTotal              = "xg_total"
	CrossesTotal         = "crosses_total"
	TouchesInBox         = "touches_in_box"
	Tackles              = "tackles"
	Interceptions        = "interceptions"
	AerialDuelsDefensive = "aerial_duels_defensive"
)

// Category groups cluster metrics for presentation.
type Category string

// Metric categories.
const (
	CategoryPossession  Category = "possession"
	CategoryPressing    Category = "pressing"
	CategoryTransitions Category = "transitions"
	CategoryAttacking   Category = "attacking"
	CategoryDefending   Category = "defending"
)

// Definition describes one vocabulary entry.
type Definition struct {
	Name          string
	Display       string
	Localized     string
	Category      Category
	LowerIsBetter bool
}

// clusterVocabulary is ordered; feature columns follow this order.
var clusterVocabulary = []Definition{
	{PossessionPercentage, "Possession", "Possesso palla", CategoryPossession, false},
	{ProgressivePasses, "Progressive passes", "Passaggi progressivi", CategoryPossession, false},
	{DribblesTotal, "Dribbles", "Dribbling", CategoryPossession, false},
	{PPDA, "Pressing intensity", "Intensità pressing", CategoryPressing, true},
	{PressingHigh, "High pressing", "Pressing alto", CategoryPressing, false},
	{Counterpressing, "Counter-pressing", "Contro-pressing", CategoryPressing, false},
	{CounterAttacks, "Counter attacks", "Contropiedi", CategoryTransitions, false},
	{BuildupSequences, "Build-up from the back", "Costruzione dal basso", CategoryTransitions, false},
	{FastAttacks, "Fast attacks", "Attacchi rapidi", CategoryTransitions, false},
	{XGTotal, "Expected goals", "Expected Goals", CategoryAttacking, false},
	{CrossesTotal, "Crosses", "Cross", CategoryAttacking, false},
	{TouchesInBox, "Touches in box", "Tocchi in area", CategoryAttacking, false},
	{Tackles, "Tackles", "Contrasti", CategoryDefending, false},
	{Interceptions, "Interceptions", "Intercettazioni", CategoryDefending, false},
	{AerialDuelsDefensive, "Defensive aerial duels", "Duelli aerei difensivi", CategoryDefending, false},
}

var clusterIndex = func() map[string]int {
	idx := make(map[string]int, len(clusterVocabulary))
	for i, d := range clusterVocabulary {
		idx[d.Name] = i
	}
	return idx
}()

// ClusterMetrics returns the ordered cluster metric names.
func ClusterMetrics() []string {
	out := make([]string, len(clusterVocabulary))
	for i, d := range clusterVocabulary {
		out[i] = d.Name
	}
	return out
}

// IsClusterMetric reports whether name belongs to the cluster vocabulary.
func IsClusterMetric(name string) bool {
	_, ok := clusterIndex[name]
	return ok
}

// Lookup returns the cluster metric definition for name.
func Lookup(name string) (Definition, bool) {
	i, ok := clusterIndex[name]
	if !ok {
		return Definition{}, false
	}
	return clusterVocabulary[i], true
}

// Order returns the vocabulary position of name, or -1.
func Order(name string) int {
	if i, ok := clusterIndex[name]; ok {
		return i
	}
	return -1
}

// LowerIsBetter reports whether a lower raw value of name is tactically better.
func LowerIsBetter(name string) bool {
	if d, ok := Lookup(name); ok {
		return d.LowerIsBetter
	}
	_, ok := lowerIsBetterExtra[name]
	return ok
}

// lowerIsBetterExtra lists ranking metrics outside the cluster vocabulary
// where a lower value ranks better.
var lowerIsBetterExtra = map[string]struct{}{
	"big_chances_against":     {},
	"xga_total":               {},
	"shots_against":           {},
	"shots_on_target_against": {},
	"goals_conceded":          {},
	"fouls_committed":         {},
	"yellow_cards":            {},
	"red_cards":               {},
	"turnovers_per_touch":     {},
}

// ByCategory returns cluster metric names grouped by category, in vocabulary order.
func ByCategory() map[Category][]string {
	out := make(map[Category][]string)
	for _, d := range clusterVocabulary {
		out[d.Category] = append(out[d.Category], d.Name)
	}
	return out
}

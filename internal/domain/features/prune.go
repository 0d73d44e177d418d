package features

import (
	"math"

	"github.com/okian/playstyle/internal/domain/metric"
	"gonum.org/v1/gonum/stat"
)

// CorrelationThreshold is the |r| above which two features are considered redundant.
const CorrelationThreshold = 0.7

// PruneArtifact is a versioned list of features to drop before clustering.
type PruneArtifact struct {
	Version  string
	Features []string
}

// DefaultPruneArtifact is the list derived offline for the v1-2015-16 vocabulary.
// Each entry correlates above the threshold with a kept counterpart:
// progressive_passes with possession_percentage, fast_attacks with
// counter_attacks, touches_in_box with xg_total, interceptions with tackles.
func DefaultPruneArtifact() PruneArtifact {
	return PruneArtifact{
		Version: metric.VocabularyVersion,
		Features: []string{
			metric.ProgressivePasses,
			metric.FastAttacks,
			metric.TouchesInBox,
			metric.Interceptions,
		},
	}
}

// CorrelatedPair records one pair found while deriving a prune list.
type CorrelatedPair struct {
	Kept    string
	Dropped string
	R       float64
}

// DerivePruneArtifact recomputes the prune list from the table's correlation
// matrix. Columns are visited in table order; for every pair above threshold
// the later column is dropped unless one side is already dropped.
func DerivePruneArtifact(t *Table, threshold float64) (PruneArtifact, []CorrelatedPair) {
	if threshold <= 0 {
		threshold = CorrelationThreshold
	}
	out := PruneArtifact{Version: "derived"}
	if t == nil || t.Len() < 3 {
		return out, nil
	}

	cols := make([][]float64, len(t.Metrics))
	for j, m := range t.Metrics {
		cols[j], _ = t.Column(m)
	}

	dropped := make(map[int]bool)
	var pairs []CorrelatedPair
	for i := range cols {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(cols); j++ {
			if dropped[j] {
				continue
			}
			r := stat.Correlation(cols[i], cols[j], nil)
			if math.IsNaN(r) || math.Abs(r) <= threshold {
				continue
			}
			dropped[j] = true
			out.Features = append(out.Features, t.Metrics[j])
			pairs = append(pairs, CorrelatedPair{Kept: t.Metrics[i], Dropped: t.Metrics[j], R: r})
		}
	}
	return out, pairs
}

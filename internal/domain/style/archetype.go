package style

import (
	"math"
	"sort"

	"github.com/okian/playstyle/internal/domain/metric"
)

// Direction is the sign of a standardized centroid value.
type Direction int

// Directions.
const (
	Low  Direction = -1
	High Direction = 1
)

// characteristicLabels names the defining (metric, direction) pairs.
// Pairs without a label are never reported as characteristics.
var characteristicLabels = map[string]map[Direction]string{
	metric.PossessionPercentage: {High: "Alto possesso", Low: "Basso possesso"},
	metric.ProgressivePasses:    {High: "Gioco verticale"},
	metric.PPDA:                 {High: "Pressing intenso", Low: "Pressing basso"},
	metric.PressingHigh:         {High: "Pressing alto"},
	metric.Counterpressing:      {High: "Contro-pressing"},
	metric.CounterAttacks:       {High: "Contropiede"},
	metric.BuildupSequences:     {High: "Costruzione elaborata", Low: "Gioco diretto"},
	metric.FastAttacks:          {High: "Attacco rapido"},
	metric.CrossesTotal:         {High: "Gioco sulle fasce"},
	metric.TouchesInBox:         {High: "Penetrazione centrale"},
	metric.Tackles:              {High: "Difesa aggressiva"},
	metric.AerialDuelsDefensive: {High: "Forza aerea"},
}

// CharacteristicLabel returns the label for a metric moving in direction d.
func CharacteristicLabel(name string, d Direction) (string, bool) {
	l, ok := characteristicLabels[name][d]
	return l, ok
}

// Archetype is a canonical playing style defined by the expected direction
// of its defining metrics on the standardized scale.
type Archetype struct {
	Key       string
	Name      string
	Signature map[string]float64
}

// DefaultArchetypes returns the canonical archetypes of the 2015-16 fit.
func DefaultArchetypes() []Archetype {
	return []Archetype{
		{
			Key:  "dominant_possession",
			Name: "Possesso Dominante",
			Signature: map[string]float64{
				metric.PossessionPercentage: 1,
				metric.ProgressivePasses:    1,
				metric.BuildupSequences:     1,
				metric.DribblesTotal:        0.5,
				metric.CounterAttacks:       -1,
			},
		},
		{
			Key:  "pressing_verticality",
			Name: "Pressing e Verticalità",
			Signature: map[string]float64{
				metric.PPDA:            1,
				metric.PressingHigh:    1,
				metric.Counterpressing: 1,
				metric.FastAttacks:     0.5,
				metric.Tackles:         0.5,
			},
		},
		{
			Key:  "low_block_counter",
			Name: "Blocco Basso e Ripartenza",
			Signature: map[string]float64{
				metric.PossessionPercentage: -1,
				metric.PPDA:                 -1,
				metric.BuildupSequences:     -1,
				metric.CounterAttacks:       1,
				metric.AerialDuelsDefensive: 1,
			},
		},
		{
			Key:  "width_runs",
			Name: "Ampiezza e Inserimenti",
			Signature: map[string]float64{
				metric.CrossesTotal:   1,
				metric.TouchesInBox:   1,
				metric.XGTotal:        0.5,
				metric.DribblesTotal:  0.5,
				metric.PressingHigh:   -0.5,
				metric.CounterAttacks: 0.5,
			},
		},
	}
}

// similarity is the cosine similarity between a centroid and a signature
// over the features present in both. It is 0 when either side is null.
func similarity(features []string, centroid []float64, signature map[string]float64) float64 {
	var dot, nc, ns float64
	for j, f := range features {
		w, ok := signature[f]
		if !ok {
			continue
		}
		dot += centroid[j] * w
		ns += w * w
	}
	for _, v := range centroid {
		nc += v * v
	}
	if nc == 0 || ns == 0 {
		return 0
	}
	return dot / (math.Sqrt(nc) * math.Sqrt(ns))
}

// match is one cluster to archetype pairing.
type match struct {
	cluster    int
	archetype  int
	similarity float64
}

// matchArchetypes assigns archetypes to centroids one-to-one, greedily by
// decreasing similarity. Pairs below tolerance are never used. Ties resolve
// by cluster id, then archetype order.
func matchArchetypes(features []string, centroids [][]float64, archetypes []Archetype, tolerance float64) map[int]match {
	var pairs []match
	for c, ctr := range centroids {
		for a, arch := range archetypes {
			s := similarity(features, ctr, arch.Signature)
			if s >= tolerance {
				pairs = append(pairs, match{cluster: c, archetype: a, similarity: s})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].similarity != pairs[j].similarity {
			return pairs[i].similarity > pairs[j].similarity
		}
		if pairs[i].cluster != pairs[j].cluster {
			return pairs[i].cluster < pairs[j].cluster
		}
		return pairs[i].archetype < pairs[j].archetype
	})

	out := make(map[int]match, len(centroids))
	taken := make(map[int]bool, len(archetypes))
	for _, p := range pairs {
		if _, done := out[p.cluster]; done || taken[p.archetype] {
			continue
		}
		out[p.cluster] = p
		taken[p.archetype] = true
	}
	return out
}

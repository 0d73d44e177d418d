package features

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/playstyle/internal/domain/metric"
	"github.com/okian/playstyle/pkg/logger"
	"gonum.org/v1/gonum/stat"
)

// Default normalizer configuration constants.
const (
	DefaultEpsilon     = 1e-3
	DefaultPCAVariance = 0.90
	DefaultSeed        = 42
	defaultClipSigma   = 3.0
)

// Normalized is the output of the normalization stage. Matrix feeds the
// clustering; Standardized is kept for centroid interpretation and equals
// Matrix when no reduction was applied.
type Normalized struct {
	Entities []Entity
	// Features are the surviving metrics, aligned with Standardized columns.
	Features []string
	Pruned   []string
	Inverted []string

	Standardized [][]float64
	Matrix       [][]float64

	Reduced           bool
	Components        int
	ExplainedVariance []float64
	Seed              int64
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithRemoveCorrelated drops the features listed in artifact.
func WithRemoveCorrelated(artifact PruneArtifact) NormalizerOption {
	return func(n *Normalizer) {
		n.prune = true
		n.artifact = artifact
	}
}

// WithDerivedPruning drops features correlated above threshold in the table
// being normalized, replacing any static artifact.
func WithDerivedPruning(threshold float64) NormalizerOption {
	return func(n *Normalizer) {
		n.prune = true
		n.derive = true
		n.threshold = threshold
	}
}

// WithPCA enables variance-retaining reduction.
func WithPCA(variance float64) NormalizerOption {
	return func(n *Normalizer) {
		n.usePCA = true
		if variance > 0 && variance <= 1 {
			n.variance = variance
		}
	}
}

// WithEpsilon sets the floor used when inverting lower-is-better metrics.
func WithEpsilon(eps float64) NormalizerOption {
	return func(n *Normalizer) {
		if eps > 0 {
			n.eps = eps
		}
	}
}

// WithSeed records the seed used by randomized reduction.
func WithSeed(seed int64) NormalizerOption {
	return func(n *Normalizer) { n.seed = seed }
}

// WithNormalizerLogger sets the logger.
func WithNormalizerLogger(l logger.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if l != nil {
			n.log = l
		}
	}
}

// Normalizer prunes, inverts, clips, standardizes and optionally reduces a Table.
type Normalizer struct {
	prune     bool
	derive    bool
	threshold float64
	artifact  PruneArtifact
	usePCA    bool
	variance  float64
	eps       float64
	sigma     float64
	seed      int64
	log       logger.Logger
}

// NewNormalizer creates a Normalizer. Without options it neither prunes nor reduces.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		artifact: DefaultPruneArtifact(),
		variance: DefaultPCAVariance,
		eps:      DefaultEpsilon,
		sigma:    defaultClipSigma,
		seed:     DefaultSeed,
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Invert maps a lower-is-better value onto a higher-is-better scale.
func Invert(v, eps float64) float64 {
	return 1 / math.Max(v, eps)
}

// Normalize returns a new Normalized; t is not modified.
func (n *Normalizer) Normalize(ctx context.Context, t *Table) (*Normalized, error) {
	if t == nil || t.Len() == 0 || len(t.Metrics) == 0 {
		return nil, fmt.Errorf("normalize: %w", ErrEmptyMatrix)
	}

	artifact := n.artifact
	if n.derive {
		var pairs []CorrelatedPair
		artifact, pairs = DerivePruneArtifact(t, n.threshold)
		for _, p := range pairs {
			n.log.Debug(ctx, "correlated feature dropped",
				logger.String("kept", p.Kept),
				logger.String("dropped", p.Dropped),
				logger.Float64("r", p.R),
			)
		}
	}
	drop := make(map[string]bool)
	if n.prune {
		for _, f := range artifact.Features {
			drop[f] = true
		}
	}

	out := &Normalized{
		Entities: append([]Entity(nil), t.Entities...),
		Seed:     n.seed,
	}
	var keep []int
	for j, m := range t.Metrics {
		if drop[m] {
			out.Pruned = append(out.Pruned, m)
			continue
		}
		keep = append(keep, j)
		out.Features = append(out.Features, m)
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("normalize: every feature pruned: %w", ErrEmptyMatrix)
	}

	rows := len(t.Rows)
	cols := make([][]float64, len(keep))
	for c, j := range keep {
		col := make([]float64, rows)
		for i := range t.Rows {
			col[i] = t.Rows[i][j]
		}
		if metric.LowerIsBetter(t.Metrics[j]) {
			for i, v := range col {
				col[i] = Invert(v, n.eps)
			}
			out.Inverted = append(out.Inverted, t.Metrics[j])
		}
		clip(col, n.sigma)
		standardize(col)
		cols[c] = col
	}

	out.Standardized = make([][]float64, rows)
	for i := range out.Standardized {
		row := make([]float64, len(cols))
		for c := range cols {
			row[c] = cols[c][i]
		}
		out.Standardized[i] = row
	}
	out.Matrix = out.Standardized
	out.Components = len(out.Features)

	if n.usePCA {
		pca, err := FitPCAVariance(out.Standardized, n.variance)
		if err != nil {
			return nil, fmt.Errorf("normalize: %w", err)
		}
		out.Matrix = pca.Transform(out.Standardized)
		out.Reduced = true
		out.Components = pca.Components()
		out.ExplainedVariance = pca.ExplainedVarianceRatio()
	}

	n.log.Debug(ctx, "features normalized",
		logger.Int("features", len(out.Features)),
		logger.Int("pruned", len(out.Pruned)),
		logger.Bool("reduced", out.Reduced),
		logger.Int("components", out.Components),
	)
	return out, nil
}

// clip winsorizes col to mean ± sigma sample standard deviations.
func clip(col []float64, sigma float64) {
	if len(col) < 2 {
		return
	}
	mean, std := stat.MeanStdDev(col, nil)
	lo, hi := mean-sigma*std, mean+sigma*std
	for i, v := range col {
		col[i] = math.Min(math.Max(v, lo), hi)
	}
}

// standardize scales col to zero mean and unit population variance. A
// constant column becomes all zeros.
func standardize(col []float64) {
	mean, std := stat.PopMeanStdDev(col, nil)
	if std == 0 {
		std = 1
	}
	for i, v := range col {
		col[i] = (v - mean) / std
	}
}

// Package cluster partitions normalized feature matrices with seeded k-means
// and scores the partitions with the silhouette coefficient.
package cluster

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/okian/playstyle/internal/domain/features"
	"github.com/okian/playstyle/pkg/logger"
)

// Default clustering configuration constants.
const (
	DefaultSeed    = 42
	DefaultNInit   = 10
	DefaultMaxIter = 300
	DefaultTol     = 1e-4
	DefaultKMin    = 2
	DefaultKMax    = 8
	projectionDims = 2
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSeed sets the seed for k-means initialisation.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithNInit sets the number of restarts.
func WithNInit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.nInit = n
		}
	}
}

// WithMaxIter bounds Lloyd iterations per restart.
func WithMaxIter(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIter = n
		}
	}
}

// WithTolerance sets the convergence tolerance relative to the mean feature variance.
func WithTolerance(tol float64) Option {
	return func(e *Engine) {
		if tol >= 0 {
			e.tol = tol
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine fits k-means partitions. Every call builds its own random source
// from the seed, so calls are independent and reproducible.
type Engine struct {
	seed    int64
	nInit   int
	maxIter int
	tol     float64
	log     logger.Logger
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		seed:    DefaultSeed,
		nInit:   DefaultNInit,
		maxIter: DefaultMaxIter,
		tol:     DefaultTol,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Selection is the advisory model-selection report. Silhouette entries are
// nil where the score is undefined.
type Selection struct {
	K          []int      `json:"k_values"`
	Inertia    []float64  `json:"inertia"`
	Silhouette []*float64 `json:"silhouette"`
	SuggestedK int        `json:"suggested_k,omitempty"`
}

// FindOptimalK fits every k in [kMin, kMax] and suggests the k with the
// highest silhouette. The suggestion is advisory.
func (e *Engine) FindOptimalK(ctx context.Context, x [][]float64, kMin, kMax int) (*Selection, error) {
	n := len(x)
	if kMin < 1 || kMin > kMax || kMax > n-1 {
		return nil, fmt.Errorf("find optimal k: range [%d, %d] with %d entities: %w", kMin, kMax, n, ErrInvalidParameter)
	}
	if err := checkMatrix(x); err != nil {
		return nil, err
	}

	sel := &Selection{}
	var best float64
	for k := kMin; k <= kMax; k++ {
		res := kmeans(x, k, e.nInit, e.maxIter, e.tol, e.rng())
		sil := Silhouette(x, res.labels)
		sel.K = append(sel.K, k)
		sel.Inertia = append(sel.Inertia, res.inertia)
		sel.Silhouette = append(sel.Silhouette, sil)
		if sil != nil && (sel.SuggestedK == 0 || *sil > best) {
			best, sel.SuggestedK = *sil, k
		}
	}

	e.log.Debug(ctx, "model selection finished",
		logger.Int("k_min", kMin),
		logger.Int("k_max", kMax),
		logger.Int("suggested_k", sel.SuggestedK),
	)
	return sel, nil
}

// Fit is one fitted partition.
type Fit struct {
	K          int
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
	// Silhouette is the mean of Samples, nil when undefined.
	Silhouette *float64
	Samples    []float64
	// Projection holds the first two principal directions of the fitted
	// matrix, for plotting only.
	Projection [][2]float64
}

// Sizes returns the member count of every cluster.
func (f *Fit) Sizes() []int {
	sizes := make([]int, f.K)
	for _, l := range f.Labels {
		sizes[l]++
	}
	return sizes
}

// Fit partitions x into k clusters. k must be in [2, n-1].
func (e *Engine) Fit(ctx context.Context, x [][]float64, k int) (*Fit, error) {
	n := len(x)
	if k < 2 || k > n-1 {
		return nil, fmt.Errorf("fit k=%d with %d entities: %w", k, n, ErrInvalidParameter)
	}
	if err := checkMatrix(x); err != nil {
		return nil, err
	}

	res := kmeans(x, k, e.nInit, e.maxIter, e.tol, e.rng())
	samples := SilhouetteSamples(x, res.labels)
	sil := Silhouette(x, res.labels)

	pca, err := features.FitPCA(x, projectionDims)
	if err != nil {
		return nil, fmt.Errorf("fit projection: %w", err)
	}
	coords := pca.Transform(x)
	proj := make([][2]float64, n)
	for i, c := range coords {
		proj[i] = [2]float64{c[0], c[1]}
	}

	fields := []logger.Field{
		logger.Int("k", k),
		logger.Int("entities", n),
		logger.Int("iterations", res.iterations),
		logger.Float64("inertia", res.inertia),
	}
	if sil != nil {
		fields = append(fields, logger.Float64("silhouette", *sil))
	}
	e.log.Debug(ctx, "clustering fitted", fields...)
	return &Fit{
		K:          k,
		Labels:     res.labels,
		Centroids:  res.centroids,
		Inertia:    res.inertia,
		Iterations: res.iterations,
		Silhouette: sil,
		Samples:    samples,
		Projection: proj,
	}, nil
}

//nolint:gosec // deterministic seed for reproducible clustering
func (e *Engine) rng() *rand.Rand {
	return rand.New(rand.NewSource(e.seed))
}

func checkMatrix(x [][]float64) error {
	if len(x) == 0 || len(x[0]) == 0 {
		return fmt.Errorf("cluster: empty matrix: %w", ErrInvalidParameter)
	}
	p := len(x[0])
	for i, row := range x {
		if len(row) != p {
			return fmt.Errorf("cluster: row %d has %d columns, want %d: %w", i, len(row), p, ErrInvalidParameter)
		}
	}
	return nil
}

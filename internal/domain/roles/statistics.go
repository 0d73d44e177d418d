package roles

import (
	"context"
	"math"
	"sort"

	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/pkg/logger"
	"gonum.org/v1/gonum/stat"
)

// Default statistics configuration constants.
const (
	DefaultMinObservations = 3
	DefaultEpsilon         = 1e-3
)

// Statistic is the distribution of one metric within one role.
type Statistic struct {
	Role   Role    `json:"role"`
	Metric string  `json:"metric"`
	Mean   float64 `json:"mean"`
	// Std is the population standard deviation floored at epsilon.
	Std float64 `json:"std"`
	N   int     `json:"n"`
}

// Statistics holds every usable (role, metric) pair of one player pool.
type Statistics struct {
	Fingerprint uint64
	byRole      map[Role]map[string]Statistic
}

// Lookup returns the statistic of (role, metric).
func (s *Statistics) Lookup(r Role, metric string) (Statistic, bool) {
	st, ok := s.byRole[r][metric]
	return st, ok
}

// HasRole reports whether any statistic exists for r.
func (s *Statistics) HasRole(r Role) bool {
	return len(s.byRole[r]) > 0
}

// Role returns the statistics of r sorted by metric name.
func (s *Statistics) Role(r Role) []Statistic {
	out := make([]Statistic, 0, len(s.byRole[r]))
	for _, st := range s.byRole[r] {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metric < out[j].Metric })
	return out
}

// Pairs returns the number of usable (role, metric) pairs.
func (s *Statistics) Pairs() int {
	n := 0
	for _, m := range s.byRole {
		n += len(m)
	}
	return n
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMinObservations sets the sample size a pair needs to be usable.
func WithMinObservations(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.minObs = n
		}
	}
}

// WithEpsilon sets the standard deviation floor.
func WithEpsilon(eps float64) EngineOption {
	return func(e *Engine) {
		if eps > 0 {
			e.eps = eps
		}
	}
}

// WithEngineLogger sets the logger.
func WithEngineLogger(l logger.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// Engine computes role statistics.
type Engine struct {
	minObs int
	eps    float64
	log    logger.Logger
}

// NewEngine creates an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{minObs: DefaultMinObservations, eps: DefaultEpsilon, log: logger.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute aggregates every observation of every admitted player by role and
// metric. Pairs with fewer than the minimum observations are omitted.
func (e *Engine) Compute(ctx context.Context, admitted map[int64]Admission, obs []model.PlayerObservation) *Statistics {
	values := make(map[Role]map[string][]float64)
	for _, o := range obs {
		adm, ok := admitted[o.PlayerID]
		if !ok {
			continue
		}
		byMetric, ok := values[adm.Role]
		if !ok {
			byMetric = make(map[string][]float64)
			values[adm.Role] = byMetric
		}
		byMetric[o.Metric] = append(byMetric[o.Metric], o.Value)
	}

	out := &Statistics{
		Fingerprint: Fingerprint(admitted, obs),
		byRole:      make(map[Role]map[string]Statistic, len(values)),
	}
	skipped := 0
	for r, byMetric := range values {
		for m, vs := range byMetric {
			if len(vs) < e.minObs {
				skipped++
				continue
			}
			mean, std := stat.PopMeanStdDev(vs, nil)
			if out.byRole[r] == nil {
				out.byRole[r] = make(map[string]Statistic)
			}
			out.byRole[r][m] = Statistic{Role: r, Metric: m, Mean: mean, Std: math.Max(std, e.eps), N: len(vs)}
		}
	}

	e.log.Debug(ctx, "role statistics computed",
		logger.Int("roles", len(out.byRole)),
		logger.Int("pairs", out.Pairs()),
		logger.Int("insufficient", skipped),
	)
	return out
}

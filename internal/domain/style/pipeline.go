package style

import (
	"context"
	"fmt"

	"github.com/okian/playstyle/internal/domain/cluster"
	"github.com/okian/playstyle/internal/domain/features"
	"github.com/okian/playstyle/internal/domain/model"
)

// Stage is a pipeline state.
type Stage int

// Pipeline stages in order.
const (
	StageRaw Stage = iota
	StageFeatureBuilt
	StageNormalized
	StageFitted
	StageInterpreted
)

func (s Stage) String() string {
	switch s {
	case StageRaw:
		return "raw"
	case StageFeatureBuilt:
		return "feature_built"
	case StageNormalized:
		return "normalized"
	case StageFitted:
		return "fitted"
	case StageInterpreted:
		return "interpreted"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Pipeline sequences build, normalize, fit and interpret. Each step keeps the
// previous step's output and discards everything downstream of it, so a
// re-run never mixes results from different inputs. A Pipeline is not safe
// for concurrent use.
type Pipeline struct {
	builder     *features.Builder
	normalizer  *features.Normalizer
	engine      *cluster.Engine
	interpreter *Interpreter

	stage  Stage
	table  *features.Table
	norm   *features.Normalized
	fit    *cluster.Fit
	result *Interpretation
}

// NewPipeline wires the four stages together.
func NewPipeline(b *features.Builder, n *features.Normalizer, e *cluster.Engine, in *Interpreter) *Pipeline {
	return &Pipeline{builder: b, normalizer: n, engine: e, interpreter: in}
}

// Stage returns the current state.
func (p *Pipeline) Stage() Stage { return p.stage }

// Build is allowed from any state and starts a fresh run.
func (p *Pipeline) Build(ctx context.Context, obs []model.Observation, tenures []model.Tenure) (*features.Table, error) {
	p.reset(StageRaw)
	t, err := p.builder.Build(ctx, obs, tenures)
	if err != nil {
		return nil, err
	}
	p.table, p.stage = t, StageFeatureBuilt
	return t, nil
}

// Normalize requires a built table.
func (p *Pipeline) Normalize(ctx context.Context) (*features.Normalized, error) {
	if err := p.require("normalize", StageFeatureBuilt); err != nil {
		return nil, err
	}
	p.reset(StageFeatureBuilt)
	n, err := p.normalizer.Normalize(ctx, p.table)
	if err != nil {
		return nil, err
	}
	p.norm, p.stage = n, StageNormalized
	return n, nil
}

// SelectK runs the advisory model selection; it does not change the state.
func (p *Pipeline) SelectK(ctx context.Context, kMin, kMax int) (*cluster.Selection, error) {
	if err := p.require("select k", StageNormalized); err != nil {
		return nil, err
	}
	return p.engine.FindOptimalK(ctx, p.norm.Matrix, kMin, kMax)
}

// Fit requires normalized features. Refitting discards the interpretation.
func (p *Pipeline) Fit(ctx context.Context, k int) (*cluster.Fit, error) {
	if err := p.require("fit", StageNormalized); err != nil {
		return nil, err
	}
	p.reset(StageNormalized)
	f, err := p.engine.Fit(ctx, p.norm.Matrix, k)
	if err != nil {
		return nil, err
	}
	p.fit, p.stage = f, StageFitted
	return f, nil
}

// Interpret requires a fit that has not been interpreted yet.
func (p *Pipeline) Interpret(ctx context.Context) (*Interpretation, error) {
	if p.stage != StageFitted {
		return nil, fmt.Errorf("interpret in stage %s: %w", p.stage, ErrStageOrder)
	}
	r, err := p.interpreter.Interpret(ctx, p.norm, p.fit)
	if err != nil {
		return nil, err
	}
	p.result, p.stage = r, StageInterpreted
	return r, nil
}

// Normalized returns the normalized features of the current run, if any.
func (p *Pipeline) Normalized() *features.Normalized { return p.norm }

// Run executes every stage for k.
func (p *Pipeline) Run(ctx context.Context, obs []model.Observation, tenures []model.Tenure, k int) (*Interpretation, error) {
	if _, err := p.Build(ctx, obs, tenures); err != nil {
		return nil, err
	}
	if _, err := p.Normalize(ctx); err != nil {
		return nil, err
	}
	if _, err := p.Fit(ctx, k); err != nil {
		return nil, err
	}
	return p.Interpret(ctx)
}

func (p *Pipeline) require(op string, atLeast Stage) error {
	if p.stage < atLeast {
		return fmt.Errorf("%s in stage %s: %w", op, p.stage, ErrStageOrder)
	}
	return nil
}

// reset drops every output produced after stage s.
func (p *Pipeline) reset(s Stage) {
	if s < StageFeatureBuilt {
		p.table = nil
	}
	if s < StageNormalized {
		p.norm = nil
	}
	if s < StageFitted {
		p.fit = nil
	}
	p.result = nil
	p.stage = s
}

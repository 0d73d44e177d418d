// Package service runs the playing style and player analysis pipelines over
// the metric tables and serves the latest results to the HTTP API.
package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/playstyle/internal/adapters/poolcache"
	"github.com/okian/playstyle/internal/adapters/repository"
	"github.com/okian/playstyle/internal/config"
	"github.com/okian/playstyle/internal/domain/cluster"
	"github.com/okian/playstyle/internal/domain/features"
	"github.com/okian/playstyle/internal/domain/metric"
	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/internal/domain/player"
	"github.com/okian/playstyle/internal/domain/roles"
	"github.com/okian/playstyle/internal/domain/style"
	"github.com/okian/playstyle/internal/domain/types"
	"github.com/okian/playstyle/pkg/logger"
	"github.com/okian/playstyle/pkg/metrics"
)

// Service owns the metric store and the snapshot of the latest analysis run.
type Service struct {
	mu sync.RWMutex

	cfg       *config.Config
	store     repository.Store
	ownsStore bool
	cache     poolcache.Cache

	// State
	started bool
	snap    *snapshot

	logger logger.Logger
}

// snapshot is the immutable result of one analysis run.
type snapshot struct {
	runID      string
	computedAt time.Time

	norm   *features.Normalized
	result *style.Interpretation
	engine *cluster.Engine

	admitted    map[int64]roles.Admission
	stats       *roles.Statistics
	poolFP      uint64
	analyzer    *player.Analyzer
	tenureOf    map[int64]model.TeamManagerKey
	teamPlayers map[model.TeamManagerKey][]int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the configuration. Defaults to config.New().
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithStore injects a metric store; the service will not close it.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithPoolCache replaces the role statistics cache.
func WithPoolCache(c poolcache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Nothing is loaded until Start.
func New(opts ...Option) *Service {
	s := &Service{cfg: config.New()}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = poolcache.New(
			poolcache.WithMaxSize(s.cfg.PoolCacheSize),
			poolcache.WithObserver(cacheMetrics{}),
		)
	}
	return s
}

// Start validates the configuration, opens the store when none was injected
// and runs the first analysis.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.GetOrNop()
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	s.logger.Info(ctx, "starting playstyle service...")
	if s.store == nil {
		st, err := repository.Open(ctx, s.cfg, repository.WithLogger(s.logger.Named("repository")))
		if err != nil {
			return fmt.Errorf("open metric store: %w", err)
		}
		s.store, s.ownsStore = st, true
	}

	snap, err := s.analyze(ctx, s.store)
	if err != nil {
		if s.ownsStore {
			_ = s.store.Close()
			s.store, s.ownsStore = nil, false
		}
		return err
	}
	s.snap = snap
	s.started = true
	s.logger.Info(ctx, "playstyle service started", logger.String("run_id", snap.runID))
	return nil
}

// Stop releases the store if the service opened it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.ownsStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing metric store", logger.Error(err))
		}
		s.store, s.ownsStore = nil, false
	}
	s.started = false
	s.logger.Info(context.Background(), "playstyle service stopped")
}

// Refresh reloads the metric tables and replaces the served snapshot. The
// previous snapshot keeps serving if the run fails.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.RLock()
	st, started := s.store, s.started
	s.mu.RUnlock()
	if !started {
		return ErrNotReady
	}

	snap, err := s.analyze(ctx, st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

// analyze runs both pipelines from scratch.
func (s *Service) analyze(ctx context.Context, st repository.Store) (*snapshot, error) {
	runID := uuid.NewString()
	log := s.logger
	began := time.Now()

	tenures, err := st.Tenures(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tenures: %w", err)
	}
	teamObs, err := st.TeamObservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load team metrics: %w", err)
	}
	playerObs, err := st.PlayerObservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load player metrics: %w", err)
	}
	apps, err := st.Appearances(ctx)
	if err != nil {
		return nil, fmt.Errorf("load player minutes: %w", err)
	}

	pipe, engine := s.newPipeline()
	table, err := timed(ctx, log, "build", func() (*features.Table, error) {
		return pipe.Build(ctx, teamObs, tenures)
	})
	if err != nil {
		return nil, err
	}
	norm, err := timed(ctx, log, "normalize", func() (*features.Normalized, error) {
		return pipe.Normalize(ctx)
	})
	if err != nil {
		return nil, err
	}
	k := s.cfg.ClusterK
	if most := table.Len() - 1; k > most {
		log.Warn(ctx, "too few entities for configured k",
			logger.Int("cluster_k", k), logger.Int("entities", table.Len()), logger.Int("using", most))
		k = most
	}
	if _, err := timed(ctx, log, "fit", func() (*cluster.Fit, error) {
		return pipe.Fit(ctx, k)
	}); err != nil {
		return nil, err
	}
	result, err := timed(ctx, log, "interpret", func() (*style.Interpretation, error) {
		return pipe.Interpret(ctx)
	})
	if err != nil {
		return nil, err
	}
	metrics.UpdateFit(len(result.Assignments), len(result.Profiles), result.Silhouette)

	classifier := roles.NewClassifier(
		roles.WithMinMinutes(s.cfg.MinMinutes),
		roles.WithClassifierLogger(log.Named("roles")),
	)
	admitted, _ := timed(ctx, log, "classify", func() (map[int64]roles.Admission, error) {
		return classifier.Classify(ctx, apps), nil
	})
	fp := roles.Fingerprint(admitted, playerObs)
	statsEngine := roles.NewEngine(
		roles.WithMinObservations(s.cfg.MinObservations),
		roles.WithEpsilon(s.cfg.Epsilon),
		roles.WithEngineLogger(log.Named("roles")),
	)
	stats, _ := timed(ctx, log, "role_statistics", func() (*roles.Statistics, error) {
		rs, hit := s.cache.GetOrCompute(ctx, fp, func() *roles.Statistics {
			return statsEngine.Compute(ctx, admitted, playerObs)
		})
		log.Debug(ctx, "role statistics resolved", logger.Bool("cache_hit", hit))
		return rs, nil
	})

	counts := roles.CountByRole(admitted)
	for _, r := range roles.All() {
		metrics.UpdatePlayersAdmitted(r.Name(), counts[r])
	}
	metrics.UpdateRoleStatPairs(stats.Pairs())

	analyzer := player.NewAnalyzer(admitted, stats, playerObs,
		player.WithThreshold(s.cfg.ZThreshold),
		player.WithTopN(s.cfg.TopN),
		player.WithEpsilon(s.cfg.Epsilon),
		player.WithMinMinutes(s.cfg.MinMinutes),
		player.WithLogger(log.Named("player")),
	)
	tenureOf, teamPlayers := indexPlayers(playerObs)

	fields := []logger.Field{
		logger.String("run_id", runID),
		logger.Int("entities", len(result.Assignments)),
		logger.Int("clusters", len(result.Profiles)),
		logger.Bool("pca", norm.Reduced),
		logger.Int("players_admitted", len(admitted)),
		logger.Int("role_stat_pairs", stats.Pairs()),
		logger.Duration("elapsed", time.Since(began)),
	}
	if result.Silhouette != nil {
		fields = append(fields, logger.Float64("silhouette", *result.Silhouette))
	}
	log.Info(ctx, "analysis run complete", fields...)

	return &snapshot{
		runID:       runID,
		computedAt:  time.Now().UTC(),
		norm:        norm,
		result:      result,
		engine:      engine,
		admitted:    admitted,
		stats:       stats,
		poolFP:      fp,
		analyzer:    analyzer,
		tenureOf:    tenureOf,
		teamPlayers: teamPlayers,
	}, nil
}

// newPipeline wires the clustering stages from the configuration.
func (s *Service) newPipeline() (*style.Pipeline, *cluster.Engine) {
	log, cfg := s.logger, s.cfg

	builder := features.NewBuilder(
		features.WithMinMatches(cfg.MinMatches),
		features.WithBuilderLogger(log.Named("features")),
	)
	nopts := []features.NormalizerOption{
		features.WithEpsilon(cfg.Epsilon),
		features.WithSeed(cfg.Seed),
		features.WithNormalizerLogger(log.Named("features")),
	}
	switch {
	case cfg.DeriveCorrelated:
		nopts = append(nopts, features.WithDerivedPruning(cfg.CorrelationThreshold))
	case cfg.RemoveCorrelated:
		nopts = append(nopts, features.WithRemoveCorrelated(features.PruneArtifact{
			Version:  metric.VocabularyVersion,
			Features: cfg.CorrelatedFeatures,
		}))
	}
	if cfg.UsePCA {
		nopts = append(nopts, features.WithPCA(cfg.PCAVariance))
	}
	engine := cluster.NewEngine(
		cluster.WithSeed(cfg.Seed),
		cluster.WithNInit(cfg.NInit),
		cluster.WithMaxIter(cfg.MaxIter),
		cluster.WithTolerance(cfg.Tolerance),
		cluster.WithLogger(log.Named("cluster")),
	)
	interpreter := style.NewInterpreter(
		style.WithThreshold(cfg.CharacteristicThreshold),
		style.WithTolerance(cfg.SignatureTolerance),
		style.WithInterpreterLogger(log.Named("style")),
	)
	return style.NewPipeline(builder, features.NewNormalizer(nopts...), engine, interpreter), engine
}

// indexPlayers maps each player to the tenure where they logged the most
// minutes, and each tenure to its players in id order.
func indexPlayers(obs []model.PlayerObservation) (map[int64]model.TeamManagerKey, map[model.TeamManagerKey][]int64) {
	best := make(map[int64]int)
	tenureOf := make(map[int64]model.TeamManagerKey)
	seen := make(map[model.TeamManagerKey]map[int64]bool)
	for _, o := range obs {
		if m, ok := best[o.PlayerID]; !ok || o.TotalMinutes > m {
			best[o.PlayerID] = o.TotalMinutes
			tenureOf[o.PlayerID] = o.Key
		}
		if seen[o.Key] == nil {
			seen[o.Key] = make(map[int64]bool)
		}
		seen[o.Key][o.PlayerID] = true
	}
	teamPlayers := make(map[model.TeamManagerKey][]int64, len(seen))
	for key, ids := range seen {
		list := make([]int64, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		teamPlayers[key] = list
	}
	return tenureOf, teamPlayers
}

// timed runs one pipeline stage and records its outcome and duration.
func timed[T any](ctx context.Context, log logger.Logger, stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	elapsed := time.Since(start)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		metrics.RecordErrorByComponent(stage, "stage_failed")
		log.Error(ctx, "stage failed", logger.String("stage", stage), logger.Error(err))
	}
	metrics.RecordStage(stage, outcome, elapsed)
	log.Debug(ctx, "stage finished",
		logger.String("stage", stage),
		logger.String("outcome", outcome),
		logger.Duration("elapsed", elapsed),
	)
	return v, err
}

func (s *Service) current() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotReady
	}
	return s.snap, nil
}

// Styles returns the classification of every clustered tenure.
func (s *Service) Styles(_ context.Context) ([]types.TeamStyle, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	styles := snap.result.TeamStyles()
	out := make([]types.TeamStyle, len(styles))
	for i := range styles {
		out[i] = types.NewTeamStyle(&styles[i])
	}
	return out, nil
}

// TeamStyle returns the classification of one tenure with its cluster context.
func (s *Service) TeamStyle(_ context.Context, key model.TeamManagerKey) (types.TeamStyle, error) {
	snap, err := s.current()
	if err != nil {
		return types.TeamStyle{}, err
	}
	ts, err := snap.result.TeamStyle(key)
	if err != nil {
		return types.TeamStyle{}, err
	}
	return types.NewTeamStyle(ts), nil
}

// Clusters returns every cluster profile in id order.
func (s *Service) Clusters(_ context.Context) ([]types.Cluster, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	out := make([]types.Cluster, len(snap.result.Profiles))
	for i, p := range snap.result.Profiles {
		out[i] = types.NewCluster(p, snap.result.Features)
	}
	return out, nil
}

// Radar returns the radar chart of cluster id.
func (s *Service) Radar(_ context.Context, id int) (types.Radar, error) {
	snap, err := s.current()
	if err != nil {
		return types.Radar{}, err
	}
	p, err := snap.result.Profile(id)
	if err != nil {
		return types.Radar{}, err
	}
	return types.NewRadar(*p, snap.result.Features), nil
}

// ModelSelection scores k in [kMin, kMax] on the served features. Zero bounds
// fall back to the configured range.
func (s *Service) ModelSelection(ctx context.Context, kMin, kMax int) (types.ModelSelection, error) {
	snap, err := s.current()
	if err != nil {
		return types.ModelSelection{}, err
	}
	if kMin == 0 {
		kMin = s.cfg.KMin
	}
	if kMax == 0 {
		kMax = s.cfg.KMax
		if most := len(snap.norm.Matrix) - 1; kMax > most {
			kMax = most
		}
	}
	sel, err := timed(ctx, s.logger, "select_k", func() (*cluster.Selection, error) {
		return snap.engine.FindOptimalK(ctx, snap.norm.Matrix, kMin, kMax)
	})
	if err != nil {
		return types.ModelSelection{}, err
	}
	return types.NewModelSelection(sel), nil
}

// Player analyses a player within a tenure. A nil key selects the tenure in
// which the player logged the most minutes.
func (s *Service) Player(ctx context.Context, playerID int64, key *model.TeamManagerKey) (types.PlayerReport, error) {
	snap, err := s.current()
	if err != nil {
		return types.PlayerReport{}, err
	}
	var k model.TeamManagerKey
	if key != nil {
		k = *key
	} else {
		var ok bool
		if k, ok = snap.tenureOf[playerID]; !ok {
			metrics.RecordPlayerReport(metrics.OutcomeError)
			return types.PlayerReport{}, fmt.Errorf("player %d: %w", playerID, ErrMissingTenure)
		}
	}

	r, err := snap.analyzer.Analyze(ctx, playerID, k)
	if err != nil {
		metrics.RecordPlayerReport(metrics.OutcomeError)
		return types.PlayerReport{}, err
	}
	metrics.RecordPlayerReport(metrics.OutcomeOK)
	return types.NewPlayerReport(r), nil
}

// TeamPlayers analyses players of one tenure, skipping those that cannot be
// analysed. Empty ids select every player with metrics in the tenure.
func (s *Service) TeamPlayers(ctx context.Context, key model.TeamManagerKey, ids []int64) ([]types.PlayerReport, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		ids = snap.teamPlayers[key]
	}
	reports := snap.analyzer.AnalyzeTeam(ctx, key, ids)
	out := make([]types.PlayerReport, len(reports))
	for i, r := range reports {
		out[i] = types.NewPlayerReport(r)
	}
	return out, nil
}

// GetStats summarises the served snapshot.
func (s *Service) GetStats() types.Stats {
	out := types.Stats{Vocabulary: metric.VocabularyVersion}
	snap, err := s.current()
	if err != nil {
		return out
	}
	out.RunID = snap.runID
	out.ComputedAt = snap.computedAt.Format(time.RFC3339)
	out.Entities = len(snap.result.Assignments)
	out.Features = snap.result.Features
	out.Reduced = snap.norm.Reduced
	out.Components = snap.norm.Components
	out.Clusters = len(snap.result.Profiles)
	if sil := snap.result.Silhouette; sil != nil {
		v := *sil
		out.Silhouette = &v
	}
	out.PlayersAdmitted = make(map[string]int)
	for r, n := range roles.CountByRole(snap.admitted) {
		out.PlayersAdmitted[string(r)] = n
	}
	out.RoleStatPairs = snap.stats.Pairs()
	out.PoolFingerprint = strconv.FormatUint(snap.poolFP, 16)
	return out
}

// Started reports whether a snapshot is being served.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// CacheSize returns the number of cached role statistics.
func (s *Service) CacheSize() int64 {
	return s.cache.Size()
}

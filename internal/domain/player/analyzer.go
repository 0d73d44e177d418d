// Package player compares players against the statistics of their role group
// and extracts their most distinctive strengths and weaknesses.
package player

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/okian/playstyle/internal/domain/metric"
	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/internal/domain/roles"
	"github.com/okian/playstyle/pkg/logger"
)

// Default analyzer configuration constants.
const (
	DefaultThreshold = 0.5
	DefaultTopN      = 3
)

// ZScore is one metric of a player against the role distribution.
type ZScore struct {
	Metric    string  `json:"metric"`
	Localized string  `json:"localized_name"`
	Value     float64 `json:"player_value"`
	Mean      float64 `json:"role_mean"`
	Std       float64 `json:"role_std"`
	Z         float64 `json:"z_score"`
	N         int     `json:"n_players_in_role"`
}

// Finding is a strength or weakness.
type Finding struct {
	Metric    string   `json:"metric"`
	Localized string   `json:"localized_name"`
	Z         float64  `json:"z_score"`
	Value     float64  `json:"player_value"`
	Mean      float64  `json:"role_mean"`
	Severity  Severity `json:"severity"`
}

// Report is the analysis of one player within one tenure.
type Report struct {
	PlayerID   int64                `json:"player_id"`
	PlayerName string               `json:"player_name"`
	Key        model.TeamManagerKey `json:"tenure"`
	Position   string               `json:"position"`
	Role       roles.Role           `json:"role"`
	RoleName   string               `json:"role_name"`
	Minutes    int                  `json:"minutes_played"`
	Strengths  []Finding            `json:"strengths"`
	Weaknesses []Finding            `json:"weaknesses"`
	ZScores    map[string]ZScore    `json:"z_scores"`
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithThreshold sets the |z| a metric must exceed to be reported.
func WithThreshold(t float64) Option {
	return func(a *Analyzer) {
		if t >= 0 {
			a.threshold = t
		}
	}
}

// WithTopN caps strengths and weaknesses.
func WithTopN(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.topN = n
		}
	}
}

// WithEpsilon floors the role standard deviation.
func WithEpsilon(eps float64) Option {
	return func(a *Analyzer) {
		if eps > 0 {
			a.eps = eps
		}
	}
}

// WithMinMinutes sets the minutes a player needs within the analysed tenure.
func WithMinMinutes(n int) Option {
	return func(a *Analyzer) {
		if n >= 0 {
			a.minMinutes = n
		}
	}
}

// WithAllowlists replaces the per-role allowlists.
func WithAllowlists(m map[roles.Role]Allowlist) Option {
	return func(a *Analyzer) {
		if m != nil {
			a.allow = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// Analyzer produces player reports against one pool's role statistics.
// It only reads its inputs and is safe for concurrent use.
type Analyzer struct {
	admitted map[int64]roles.Admission
	stats    *roles.Statistics
	rows     map[int64]map[model.TeamManagerKey][]model.PlayerObservation

	threshold  float64
	topN       int
	eps        float64
	minMinutes int
	allow      map[roles.Role]Allowlist
	log        logger.Logger
}

// NewAnalyzer indexes obs by player and tenure.
func NewAnalyzer(admitted map[int64]roles.Admission, stats *roles.Statistics, obs []model.PlayerObservation, opts ...Option) *Analyzer {
	a := &Analyzer{
		admitted:   admitted,
		stats:      stats,
		rows:       make(map[int64]map[model.TeamManagerKey][]model.PlayerObservation),
		threshold:  DefaultThreshold,
		topN:       DefaultTopN,
		eps:        roles.DefaultEpsilon,
		minMinutes: roles.DefaultMinMinutes,
		allow:      DefaultAllowlists(),
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	for _, o := range obs {
		byKey, ok := a.rows[o.PlayerID]
		if !ok {
			byKey = make(map[model.TeamManagerKey][]model.PlayerObservation)
			a.rows[o.PlayerID] = byKey
		}
		byKey[o.Key] = append(byKey[o.Key], o)
	}
	return a
}

// Z returns the standardized distance of value from mean, with std floored at eps.
func Z(value, mean, std, eps float64) float64 {
	return (value - mean) / math.Max(std, eps)
}

// Analyze reports player playerID within tenure key.
func (a *Analyzer) Analyze(ctx context.Context, playerID int64, key model.TeamManagerKey) (*Report, error) {
	adm, ok := a.admitted[playerID]
	if !ok {
		return nil, fmt.Errorf("analyze player %d: %w", playerID, roles.ErrNotAdmitted)
	}
	if !a.stats.HasRole(adm.Role) {
		return nil, fmt.Errorf("analyze player %d role %s: %w", playerID, adm.Role, ErrNoRoleStatistics)
	}
	rows := a.rows[playerID][key]
	if len(rows) == 0 {
		return nil, fmt.Errorf("analyze player %d in %s: %w", playerID, key, ErrDataNotAvailable)
	}

	minutes := rows[0].TotalMinutes
	if minutes == 0 {
		minutes = adm.Minutes
	}
	if minutes < a.minMinutes {
		return nil, fmt.Errorf("analyze player %d in %s: %d minutes: %w", playerID, key, minutes, roles.ErrNotAdmitted)
	}

	rep := &Report{
		PlayerID:   playerID,
		PlayerName: rows[0].PlayerName,
		Key:        key,
		Position:   adm.Position,
		Role:       adm.Role,
		RoleName:   adm.Role.Localized(),
		Minutes:    minutes,
		Strengths:  []Finding{},
		Weaknesses: []Finding{},
		ZScores:    make(map[string]ZScore, len(rows)),
	}
	for _, o := range rows {
		if _, dup := rep.ZScores[o.Metric]; dup {
			continue
		}
		st, ok := a.stats.Lookup(adm.Role, o.Metric)
		if !ok {
			continue
		}
		rep.ZScores[o.Metric] = ZScore{
			Metric:    o.Metric,
			Localized: metric.PlayerLocalized(o.Metric),
			Value:     o.Value,
			Mean:      st.Mean,
			Std:       st.Std,
			Z:         Z(o.Value, st.Mean, st.Std, a.eps),
			N:         st.N,
		}
	}

	allow := a.allow[adm.Role]
	rep.Strengths = a.pick(rep.ZScores, allow.Strengths, func(z float64) bool { return z > a.threshold }, StrengthSeverity)
	rep.Weaknesses = a.pick(rep.ZScores, allow.Weaknesses, func(z float64) bool { return z < -a.threshold }, WeaknessSeverity)

	a.log.Debug(ctx, "player analyzed",
		logger.Any("player_id", playerID),
		logger.String("role", string(adm.Role)),
		logger.Int("z_scores", len(rep.ZScores)),
		logger.Int("strengths", len(rep.Strengths)),
		logger.Int("weaknesses", len(rep.Weaknesses)),
	)
	return rep, nil
}

// pick keeps allowlisted metrics passing keep, ordered by |z| descending
// with allowlist order breaking ties, truncated to topN.
func (a *Analyzer) pick(zs map[string]ZScore, allow []string, keep func(float64) bool, grade func(float64) Severity) []Finding {
	out := []Finding{}
	for _, m := range allow {
		z, ok := zs[m]
		if !ok || !keep(z.Z) {
			continue
		}
		out = append(out, Finding{
			Metric:    m,
			Localized: z.Localized,
			Z:         z.Z,
			Value:     z.Value,
			Mean:      z.Mean,
			Severity:  grade(z.Z),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return math.Abs(out[i].Z) > math.Abs(out[j].Z) })
	if len(out) > a.topN {
		out = out[:a.topN]
	}
	return out
}

// AnalyzeTeam reports every listed player within tenure key, in input order.
// Players that cannot be analysed are skipped.
func (a *Analyzer) AnalyzeTeam(ctx context.Context, key model.TeamManagerKey, playerIDs []int64) []*Report {
	out := make([]*Report, 0, len(playerIDs))
	for _, id := range playerIDs {
		rep, err := a.Analyze(ctx, id, key)
		if err != nil {
			a.log.Debug(ctx, "player skipped", logger.Any("player_id", id), logger.Error(err))
			continue
		}
		out = append(out, rep)
	}
	return out
}

// Admission returns the role admission of playerID.
func (a *Analyzer) Admission(playerID int64) (roles.Admission, bool) {
	adm, ok := a.admitted[playerID]
	return adm, ok
}

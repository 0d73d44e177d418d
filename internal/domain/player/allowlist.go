package player

import (
	"github.com/okian/playstyle/internal/domain/metric"
	"github.com/okian/playstyle/internal/domain/roles"
)

// Allowlist holds the metrics that may be reported for a role, in priority order.
type Allowlist struct {
	Strengths  []string
	Weaknesses []string
}

// DefaultAllowlists returns the per-role metric allowlists.
func DefaultAllowlists() map[roles.Role]Allowlist {
	return map[roles.Role]Allowlist{
		roles.GK: {
			Strengths:  []string{metric.PassesTotal, metric.PassesShort, metric.PassesLong},
			Weaknesses: []string{metric.PassesTotal, metric.PassesShort, metric.PassesLong},
		},
		roles.CB: {
			Strengths: []string{
				metric.Clearances, metric.Blocks, metric.Interceptions, metric.Tackles,
				metric.AerialDuelsOpenPlay, metric.AerialDuelsSetPieces,
				metric.PassesTotal, metric.PassesLong, metric.ProgressivePasses,
			},
			Weaknesses: []string{
				metric.Clearances, metric.Interceptions, metric.Tackles,
				metric.AerialDuelsOpenPlay, metric.PassesTotal,
			},
		},
		roles.FB: {
			Strengths: []string{
				metric.CrossesTotal, metric.ProgressivePasses, metric.ProgressiveCarries,
				metric.DribblesTotal, metric.KeyPasses, metric.Tackles, metric.Interceptions,
				metric.PassesTotal,
			},
			Weaknesses: []string{
				metric.CrossesTotal, metric.ProgressivePasses, metric.Tackles,
				metric.PassesTotal, metric.DribblesTotal,
			},
		},
		roles.DM: {
			Strengths: []string{
				metric.Tackles, metric.Interceptions, metric.BallRecoveries,
				metric.PassesTotal, metric.PassesMedium, metric.ProgressivePasses,
				metric.GroundDuelsDefensive,
			},
			Weaknesses: []string{
				metric.Tackles, metric.Interceptions, metric.BallRecoveries,
				metric.PassesTotal, metric.ProgressivePasses,
			},
		},
		roles.CM: {
			Strengths: []string{
				metric.PassesTotal, metric.PassesMedium, metric.ProgressivePasses,
				metric.ProgressiveCarries, metric.KeyPasses, metric.ThroughBalls,
				metric.XATotal, metric.Tackles, metric.Interceptions, metric.BallRecoveries,
			},
			Weaknesses: []string{
				metric.PassesTotal, metric.ProgressivePasses, metric.KeyPasses,
				metric.XATotal, metric.BallRecoveries,
			},
		},
		roles.AM: {
			Strengths: []string{
				metric.KeyPasses, metric.ThroughBalls, metric.XATotal,
				metric.DribblesTotal, metric.ProgressiveCarries,
				metric.ShotsTotal, metric.ShotsOnTarget, metric.XGTotal,
				metric.GoalsScored,
			},
			Weaknesses: []string{
				metric.KeyPasses, metric.XATotal, metric.DribblesTotal,
				metric.ShotsTotal, metric.XGTotal,
			},
		},
		roles.W: {
			Strengths: []string{
				metric.CrossesTotal, metric.DribblesTotal, metric.ProgressiveCarries,
				metric.KeyPasses, metric.ShotsTotal, metric.XGTotal, metric.GoalsScored,
				metric.XATotal,
			},
			Weaknesses: []string{
				metric.CrossesTotal, metric.DribblesTotal, metric.KeyPasses,
				metric.ShotsTotal, metric.XGTotal,
			},
		},
		roles.FW: {
			Strengths: []string{
				metric.ShotsTotal, metric.ShotsOnTarget, metric.XGTotal, metric.GoalsScored,
				metric.BigChances, metric.GoalConversionRate, metric.TouchesInBox,
				metric.AerialDuelsOpenPlay,
			},
			Weaknesses: []string{
				metric.ShotsTotal, metric.XGTotal, metric.GoalsScored,
				metric.BigChances, metric.TouchesInBox,
			},
		},
	}
}

// Package types contains the JSON contracts served to presentation code.
package types

import (
	"github.com/okian/playstyle/internal/domain/cluster"
	"github.com/okian/playstyle/internal/domain/metric"
	"github.com/okian/playstyle/internal/domain/player"
	"github.com/okian/playstyle/internal/domain/style"
)

// Characteristic is a defining metric of a cluster.
type Characteristic struct {
	Metric    string  `json:"metric"`
	Label     string  `json:"label"`
	Direction string  `json:"direction"`
	Value     float64 `json:"value"`
}

// TeamStyle is the classification of one team+manager tenure.
type TeamStyle struct {
	TeamID          int64              `json:"team_id"`
	ManagerID       int64              `json:"manager_id"`
	TeamName        string             `json:"team_name"`
	ManagerName     string             `json:"manager_name"`
	MatchesCount    int                `json:"matches_count"`
	ClusterID       int                `json:"cluster_id"`
	ClusterName     string             `json:"cluster_name"`
	Description     string             `json:"description"`
	Characteristics []Characteristic   `json:"characteristics"`
	PCA1            float64            `json:"pca_1"`
	PCA2            float64            `json:"pca_2"`
	Silhouette      float64            `json:"silhouette_score"`
	Radar           map[string]float64 `json:"radar"`
}

// Member is a tenure inside a cluster.
type Member struct {
	TeamID      int64  `json:"team_id"`
	ManagerID   int64  `json:"manager_id"`
	TeamName    string `json:"team_name"`
	ManagerName string `json:"manager_name"`
}

// Cluster is one cluster profile.
type Cluster struct {
	ID              int                `json:"cluster_id"`
	Name            string             `json:"name"`
	Archetype       string             `json:"archetype,omitempty"`
	Similarity      float64            `json:"archetype_similarity,omitempty"`
	Description     string             `json:"description"`
	Size            int                `json:"n_teams"`
	Members         []Member           `json:"teams"`
	Characteristics []Characteristic   `json:"characteristics"`
	Centroid        map[string]float64 `json:"centroid"`
}

// RadarPoint is one radar axis.
type RadarPoint struct {
	Metric   string  `json:"metric"`
	Label    string  `json:"label"`
	Category string  `json:"category,omitempty"`
	Value    float64 `json:"value"`
	Raw      float64 `json:"standardized"`
	Inverted bool    `json:"inverted,omitempty"`
}

// Radar is the radar chart of one cluster, in feature order.
type Radar struct {
	ClusterID int          `json:"cluster_id"`
	Name      string       `json:"name"`
	Points    []RadarPoint `json:"points"`
}

// ModelSelection is the advisory k report.
type ModelSelection struct {
	KValues    []int      `json:"k_values"`
	Inertia    []float64  `json:"inertia"`
	Silhouette []*float64 `json:"silhouette"`
	SuggestedK *int       `json:"suggested_k"`
}

// Stats summarises the currently served snapshot.
type Stats struct {
	RunID      string   `json:"run_id"`
	ComputedAt string   `json:"computed_at"`
	Vocabulary string   `json:"vocabulary_version"`
	Entities   int      `json:"entities"`
	Features   []string `json:"features"`
	Reduced    bool     `json:"pca_used"`
	Components int      `json:"components"`
	Clusters   int      `json:"clusters"`
	// Silhouette is null when the fit has no defined score.
	Silhouette      *float64       `json:"silhouette_score"`
	PlayersAdmitted map[string]int `json:"players_admitted"`
	RoleStatPairs   int            `json:"role_stat_pairs"`
	PoolFingerprint string         `json:"pool_fingerprint"`
}

// NewTeamStyle converts a classification.
func NewTeamStyle(ts *style.TeamStyle) TeamStyle {
	out := FromAssignment(ts.Assignment)
	out.Description = ts.Description
	out.Characteristics = NewCharacteristics(ts.Characteristics)
	out.Radar = make(map[string]float64, len(ts.Radar))
	for m, v := range ts.Radar {
		out.Radar[m] = v
	}
	return out
}

// FromAssignment converts an assignment without cluster context.
func FromAssignment(a style.Assignment) TeamStyle {
	return TeamStyle{
		TeamID:       a.Entity.Key.TeamID,
		ManagerID:    a.Entity.Key.ManagerID,
		TeamName:     a.Entity.TeamName,
		ManagerName:  a.Entity.ManagerName,
		MatchesCount: a.Entity.MatchesCount,
		ClusterID:    a.ClusterID,
		ClusterName:  a.ClusterName,
		PCA1:         a.Projection[0],
		PCA2:         a.Projection[1],
		Silhouette:   a.Silhouette,
	}
}

// NewCharacteristics converts characteristics.
func NewCharacteristics(in []style.Characteristic) []Characteristic {
	out := make([]Characteristic, len(in))
	for i, c := range in {
		dir := "high"
		if c.Direction == style.Low {
			dir = "low"
		}
		out[i] = Characteristic{Metric: c.Metric, Label: c.Label, Direction: dir, Value: c.Value}
	}
	return out
}

// NewCluster converts a profile; features align with its centroid.
func NewCluster(p style.Profile, features []string) Cluster {
	out := Cluster{
		ID:              p.ID,
		Name:            p.Name,
		Archetype:       p.Archetype,
		Similarity:      p.Similarity,
		Description:     p.Description,
		Size:            len(p.Members),
		Members:         make([]Member, len(p.Members)),
		Characteristics: NewCharacteristics(p.Characteristics),
		Centroid:        make(map[string]float64, len(features)),
	}
	for i, m := range p.Members {
		out.Members[i] = Member{
			TeamID:      m.Key.TeamID,
			ManagerID:   m.Key.ManagerID,
			TeamName:    m.TeamName,
			ManagerName: m.ManagerName,
		}
	}
	for j, f := range features {
		out.Centroid[f] = p.Centroid[j]
	}
	return out
}

// NewRadar converts a profile into radar axes in feature order.
func NewRadar(p style.Profile, features []string) Radar {
	out := Radar{ClusterID: p.ID, Name: p.Name, Points: make([]RadarPoint, len(features))}
	for j, f := range features {
		pt := RadarPoint{Metric: f, Label: f, Value: style.Radar(p.Centroid[j]), Raw: p.Centroid[j]}
		if d, ok := metric.Lookup(f); ok {
			pt.Label = d.Localized
			pt.Category = string(d.Category)
			pt.Inverted = d.LowerIsBetter
		}
		out.Points[j] = pt
	}
	return out
}

// NewModelSelection converts a selection; a zero suggestion becomes null.
func NewModelSelection(s *cluster.Selection) ModelSelection {
	out := ModelSelection{KValues: s.K, Inertia: s.Inertia, Silhouette: s.Silhouette}
	if s.SuggestedK > 0 {
		k := s.SuggestedK
		out.SuggestedK = &k
	}
	return out
}

// PlayerReport is the served player analysis.
type PlayerReport struct {
	*player.Report
	TeamID    int64 `json:"team_id"`
	ManagerID int64 `json:"manager_id"`
}

// NewPlayerReport wraps a report.
func NewPlayerReport(r *player.Report) PlayerReport {
	return PlayerReport{Report: r, TeamID: r.Key.TeamID, ManagerID: r.Key.ManagerID}
}

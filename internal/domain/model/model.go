// Package model contains domain models passed between layers.
package model

import "fmt"

// TeamManagerKey identifies one managerial tenure at a team: the entity
// clustered on the style side.
type TeamManagerKey struct {
	TeamID    int64 `json:"team_id"`
	ManagerID int64 `json:"manager_id"`
}

// String renders the key as "team/manager".
func (k TeamManagerKey) String() string {
	return fmt.Sprintf("%d/%d", k.TeamID, k.ManagerID)
}

// Less orders keys by team then manager.
func (k TeamManagerKey) Less(o TeamManagerKey) bool {
	if k.TeamID != o.TeamID {
		return k.TeamID < o.TeamID
	}
	return k.ManagerID < o.ManagerID
}

// Observation is one row of the team metric table: a per-90 value of a
// named metric for one tenure.
type Observation struct {
	Key    TeamManagerKey
	Metric string
	Value  float64 // per-90 normalised; NaN when missing at the source
}

// Tenure is the entity metadata side table for team+manager pairs.
type Tenure struct {
	Key          TeamManagerKey
	TeamName     string
	ManagerName  string
	MatchesCount int
}

// Appearance is one per-match position record for a player.
type Appearance struct {
	PlayerID int64
	MatchID  int64
	Position string
	Minutes  int
}

// PlayerObservation is one per-90 player metric for one tenure.
type PlayerObservation struct {
	PlayerID     int64
	PlayerName   string
	Key          TeamManagerKey
	Metric       string
	Value        float64
	TotalMinutes int
}

// Package roles groups players by positional role and computes per-role
// metric statistics over the admitted player pool.
package roles

// Role is a coarse positional group used as the comparison population.
type Role string

// Role groups.
const (
	GK Role = "GK"
	CB Role = "CB"
	FB Role = "FB"
	DM Role = "DM"
	CM Role = "CM"
	AM Role = "AM"
	W  Role = "W"
	FW Role = "FW"
)

// All lists every role group in pitch order.
func All() []Role {
	return []Role{GK, CB, FB, DM, CM, AM, W, FW}
}

var roleNames = map[Role][2]string{
	GK: {"Goalkeeper", "Portiere"},
	CB: {"Center Back", "Difensore Centrale"},
	FB: {"Full Back", "Terzino"},
	DM: {"Defensive Midfielder", "Mediano"},
	CM: {"Central Midfielder", "Centrocampista"},
	AM: {"Attacking Midfielder", "Trequartista"},
	W:  {"Winger", "Ala"},
	FW: {"Forward", "Attaccante"},
}

// Name returns the English role name.
func (r Role) Name() string { return roleNames[r][0] }

// Localized returns the Italian role name.
func (r Role) Localized() string { return roleNames[r][1] }

// Valid reports whether r is a known role group.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// positions maps event-data position labels to role groups. Wing backs count
// as full backs and wide midfielders as attacking midfielders.
var positions = map[string]Role{
	"Goalkeeper": GK,

	"Center Back":       CB,
	"Left Center Back":  CB,
	"Right Center Back": CB,

	"Left Back":       FB,
	"Right Back":      FB,
	"Left Wing Back":  FB,
	"Right Wing Back": FB,

	"Center Defensive Midfield": DM,
	"Left Defensive Midfield":   DM,
	"Right Defensive Midfield":  DM,

	"Center Midfield":       CM,
	"Left Center Midfield":  CM,
	"Right Center Midfield": CM,

	"Center Attacking Midfield": AM,
	"Left Attacking Midfield":   AM,
	"Right Attacking Midfield":  AM,
	"Left Midfield":             AM,
	"Right Midfield":            AM,

	"Left Wing":  W,
	"Right Wing": W,

	"Center Forward":       FW,
	"Left Center Forward":  FW,
	"Right Center Forward": FW,
}

// ForPosition returns the role group of a position label.
func ForPosition(position string) (Role, bool) {
	r, ok := positions[position]
	return r, ok
}

// Positions returns every mapped position label of role r.
func Positions(r Role) []string {
	var out []string
	for p, role := range positions {
		if role == r {
			out = append(out, p)
		}
	}
	return out
}

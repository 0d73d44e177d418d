package roles

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/pkg/logger"
)

// DefaultMinMinutes is three full matches.
const DefaultMinMinutes = 270

// Admission is a player's role assignment for one analysis run.
type Admission struct {
	PlayerID int64  `json:"player_id"`
	Position string `json:"position"`
	Role     Role   `json:"role"`
	// Minutes sums every mapped position.
	Minutes int `json:"minutes"`
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithMinMinutes sets the admission threshold.
func WithMinMinutes(n int) ClassifierOption {
	return func(c *Classifier) {
		if n >= 0 {
			c.minMinutes = n
		}
	}
}

// WithClassifierLogger sets the logger.
func WithClassifierLogger(l logger.Logger) ClassifierOption {
	return func(c *Classifier) {
		if l != nil {
			c.log = l
		}
	}
}

// Classifier assigns players to role groups by minutes played.
type Classifier struct {
	minMinutes int
	log        logger.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{minMinutes: DefaultMinMinutes, log: logger.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MinMinutes returns the admission threshold.
func (c *Classifier) MinMinutes() int { return c.minMinutes }

// Admit classifies one player from their appearances. Unmapped labels are
// ignored; the position with the most minutes wins, ties going to the
// alphabetically first label.
func (c *Classifier) Admit(playerID int64, apps []model.Appearance) (Admission, error) {
	minutes := make(map[string]int)
	total := 0
	for _, a := range apps {
		if a.PlayerID != playerID {
			continue
		}
		if _, ok := positions[a.Position]; !ok {
			continue
		}
		minutes[a.Position] += a.Minutes
		total += a.Minutes
	}
	if len(minutes) == 0 {
		return Admission{}, fmt.Errorf("player %d: no mapped position: %w", playerID, ErrNotAdmitted)
	}
	if total < c.minMinutes {
		return Admission{}, fmt.Errorf("player %d: %d minutes below %d: %w", playerID, total, c.minMinutes, ErrNotAdmitted)
	}

	labels := make([]string, 0, len(minutes))
	for p := range minutes {
		labels = append(labels, p)
	}
	sort.Strings(labels)
	primary := labels[0]
	for _, p := range labels[1:] {
		if minutes[p] > minutes[primary] {
			primary = p
		}
	}
	return Admission{PlayerID: playerID, Position: primary, Role: positions[primary], Minutes: total}, nil
}

// Classify admits every player present in apps. Players that fail admission
// are left out.
func (c *Classifier) Classify(ctx context.Context, apps []model.Appearance) map[int64]Admission {
	byPlayer := make(map[int64][]model.Appearance)
	for _, a := range apps {
		byPlayer[a.PlayerID] = append(byPlayer[a.PlayerID], a)
	}
	out := make(map[int64]Admission, len(byPlayer))
	for id, list := range byPlayer {
		adm, err := c.Admit(id, list)
		if err != nil {
			continue
		}
		out[id] = adm
	}
	c.log.Debug(ctx, "players classified",
		logger.Int("players", len(byPlayer)),
		logger.Int("admitted", len(out)),
	)
	return out
}

// CountByRole returns the number of admitted players per role.
func CountByRole(admitted map[int64]Admission) map[Role]int {
	out := make(map[Role]int)
	for _, a := range admitted {
		out[a.Role]++
	}
	return out
}

// Package style names and describes fitted clusters and sequences the
// clustering pipeline.
package style

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/okian/playstyle/internal/domain/cluster"
	"github.com/okian/playstyle/internal/domain/features"
	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/pkg/logger"
)

// Default interpreter configuration constants.
const (
	DefaultThreshold  = 0.5
	DefaultTolerance  = 0.3
	maxDescribed      = 3
	balancedText      = "Squadre con approccio tattico equilibrato senza caratteristiche predominanti."
	describedTemplate = "Squadre caratterizzate da: %s."
)

// Characteristic is a metric whose centroid value crosses the threshold.
type Characteristic struct {
	Metric    string    `json:"metric"`
	Direction Direction `json:"direction"`
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
}

// Profile describes one cluster in original metric units.
type Profile struct {
	ID              int
	Name            string
	Archetype       string
	Similarity      float64
	Description     string
	Members         []features.Entity
	Characteristics []Characteristic
	// Centroid is aligned with Interpretation.Features.
	Centroid []float64
}

// Assignment is the classification of one entity.
type Assignment struct {
	Entity      features.Entity
	ClusterID   int
	ClusterName string
	Projection  [2]float64
	Silhouette  float64
}

// Interpretation is the named result of one fitted run.
type Interpretation struct {
	Features    []string
	Profiles    []Profile
	Assignments []Assignment
	// Silhouette is the mean coefficient of the fit, nil when undefined.
	Silhouette *float64
}

// Profile returns the profile of cluster id.
func (r *Interpretation) Profile(id int) (*Profile, error) {
	if id < 0 || id >= len(r.Profiles) {
		return nil, fmt.Errorf("cluster %d: %w", id, ErrUnknownCluster)
	}
	return &r.Profiles[id], nil
}

// Radar returns the 0-100 radar value of every surviving metric for cluster id.
func (r *Interpretation) Radar(id int) (map[string]float64, error) {
	p, err := r.Profile(id)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(r.Features))
	for j, f := range r.Features {
		out[f] = Radar(p.Centroid[j])
	}
	return out, nil
}

// TeamStyle is the classification of one tenure with its cluster context.
// Radar maps every surviving metric to the 0-100 value of the cluster centroid.
type TeamStyle struct {
	Assignment
	Description     string
	Characteristics []Characteristic
	Radar           map[string]float64
}

// TeamStyle returns the style of key, or ErrNotClassified.
func (r *Interpretation) TeamStyle(key model.TeamManagerKey) (*TeamStyle, error) {
	for _, a := range r.Assignments {
		if a.Entity.Key == key {
			return r.teamStyle(a), nil
		}
	}
	return nil, fmt.Errorf("team %s: %w", key, ErrNotClassified)
}

// TeamStyles returns the style of every assigned tenure in assignment order.
func (r *Interpretation) TeamStyles() []TeamStyle {
	out := make([]TeamStyle, len(r.Assignments))
	for i, a := range r.Assignments {
		out[i] = *r.teamStyle(a)
	}
	return out
}

func (r *Interpretation) teamStyle(a Assignment) *TeamStyle {
	p := r.Profiles[a.ClusterID]
	radar := make(map[string]float64, len(r.Features))
	for j, f := range r.Features {
		radar[f] = Radar(p.Centroid[j])
	}
	return &TeamStyle{
		Assignment:      a,
		Description:     p.Description,
		Characteristics: p.Characteristics,
		Radar:           radar,
	}
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithThreshold sets the |centroid| above which a metric is a characteristic.
func WithThreshold(t float64) InterpreterOption {
	return func(in *Interpreter) {
		if t > 0 {
			in.threshold = t
		}
	}
}

// WithTolerance sets the minimum cosine similarity for an archetype name.
func WithTolerance(t float64) InterpreterOption {
	return func(in *Interpreter) { in.tolerance = t }
}

// WithArchetypes replaces the canonical archetypes.
func WithArchetypes(a []Archetype) InterpreterOption {
	return func(in *Interpreter) { in.archetypes = a }
}

// WithInterpreterLogger sets the logger.
func WithInterpreterLogger(l logger.Logger) InterpreterOption {
	return func(in *Interpreter) {
		if l != nil {
			in.log = l
		}
	}
}

// Interpreter turns a fit into named, described cluster profiles.
type Interpreter struct {
	threshold  float64
	tolerance  float64
	archetypes []Archetype
	log        logger.Logger
}

// NewInterpreter creates an Interpreter with the default archetypes.
func NewInterpreter(opts ...InterpreterOption) *Interpreter {
	in := &Interpreter{
		threshold:  DefaultThreshold,
		tolerance:  DefaultTolerance,
		archetypes: DefaultArchetypes(),
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Interpret builds profiles and assignments. When the fit ran in a reduced
// space, centroids are recomputed from the standardized pre-reduction rows.
func (in *Interpreter) Interpret(ctx context.Context, norm *features.Normalized, fit *cluster.Fit) (*Interpretation, error) {
	if len(fit.Labels) != len(norm.Entities) {
		return nil, fmt.Errorf("interpret: %d labels for %d entities: %w", len(fit.Labels), len(norm.Entities), cluster.ErrInvalidParameter)
	}

	centroids := fit.Centroids
	if norm.Reduced {
		centroids = memberMeans(norm.Standardized, fit.Labels, fit.K)
	}
	matched := matchArchetypes(norm.Features, centroids, in.archetypes, in.tolerance)

	res := &Interpretation{
		Features:    append([]string(nil), norm.Features...),
		Profiles:    make([]Profile, fit.K),
		Assignments: make([]Assignment, len(norm.Entities)),
		Silhouette:  fit.Silhouette,
	}
	for c := 0; c < fit.K; c++ {
		chars := in.characteristics(norm.Features, centroids[c])
		p := Profile{
			ID:              c,
			Description:     describe(chars),
			Characteristics: chars,
			Centroid:        append([]float64(nil), centroids[c]...),
		}
		if m, ok := matched[c]; ok {
			p.Name = in.archetypes[m.archetype].Name
			p.Archetype = in.archetypes[m.archetype].Key
			p.Similarity = m.similarity
		} else {
			p.Name = fmt.Sprintf("Cluster %d", c)
		}
		res.Profiles[c] = p
	}

	for i, e := range norm.Entities {
		c := fit.Labels[i]
		res.Profiles[c].Members = append(res.Profiles[c].Members, e)
		a := Assignment{
			Entity:      e,
			ClusterID:   c,
			ClusterName: res.Profiles[c].Name,
			Projection:  fit.Projection[i],
		}
		if fit.Samples != nil {
			a.Silhouette = fit.Samples[i]
		}
		res.Assignments[i] = a
	}

	for _, p := range res.Profiles {
		in.log.Debug(ctx, "cluster interpreted",
			logger.Int("cluster", p.ID),
			logger.String("name", p.Name),
			logger.Int("members", len(p.Members)),
			logger.Int("characteristics", len(p.Characteristics)),
		)
	}
	return res, nil
}

func (in *Interpreter) characteristics(names []string, centroid []float64) []Characteristic {
	var out []Characteristic
	for j, f := range names {
		v := centroid[j]
		if math.Abs(v) <= in.threshold {
			continue
		}
		d := High
		if v < 0 {
			d = Low
		}
		label, ok := CharacteristicLabel(f, d)
		if !ok {
			continue
		}
		out = append(out, Characteristic{Metric: f, Direction: d, Label: label, Value: v})
	}
	return out
}

func describe(chars []Characteristic) string {
	if len(chars) == 0 {
		return balancedText
	}
	n := min(len(chars), maxDescribed)
	labels := make([]string, n)
	for i := range labels {
		labels[i] = chars[i].Label
	}
	return fmt.Sprintf(describedTemplate, strings.Join(labels, ", "))
}

func memberMeans(x [][]float64, labels []int, k int) [][]float64 {
	p := 0
	if len(x) > 0 {
		p = len(x[0])
	}
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, p)
	}
	for i, row := range x {
		l := labels[i]
		counts[l]++
		for j, v := range row {
			sums[l][j] += v
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
	}
	return sums
}

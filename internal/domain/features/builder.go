// Package features turns long-format team metric rows into standardized
// feature matrices ready for clustering.
package features

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/okian/playstyle/internal/domain/metric"
	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/pkg/logger"
	"gonum.org/v1/gonum/stat"
)

// Default builder configuration constants.
const (
	defaultMinMatches = 5
	unknownLabel      = "Unknown"
)

// Entity is one team+manager tenure admitted into a run.
type Entity struct {
	Key          model.TeamManagerKey `json:"key"`
	TeamName     string               `json:"team_name"`
	ManagerName  string               `json:"manager_name"`
	MatchesCount int                  `json:"matches_count"`
}

// Table is the wide feature table: one row per entity, one column per metric.
// Rows are aligned with Entities and columns with Metrics.
type Table struct {
	Entities []Entity
	Metrics  []string
	Rows     [][]float64
	// Imputed counts cells filled with the column mean.
	Imputed int
}

// Len returns the number of entities.
func (t *Table) Len() int { return len(t.Entities) }

// Column returns a copy of the named metric column.
func (t *Table) Column(name string) ([]float64, bool) {
	for j, m := range t.Metrics {
		if m != name {
			continue
		}
		col := make([]float64, len(t.Rows))
		for i, row := range t.Rows {
			col[i] = row[j]
		}
		return col, true
	}
	return nil, false
}

// Index returns the row of key, or -1.
func (t *Table) Index(key model.TeamManagerKey) int {
	for i, e := range t.Entities {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithMetrics overrides the metric vocabulary. Order is preserved.
func WithMetrics(names []string) BuilderOption {
	return func(b *Builder) {
		if len(names) > 0 {
			b.metrics = append([]string(nil), names...)
		}
	}
}

// WithMinMatches sets the minimum matches for a tenure to be admitted.
func WithMinMatches(n int) BuilderOption {
	return func(b *Builder) {
		if n >= 0 {
			b.minMatches = n
		}
	}
}

// WithBuilderLogger sets the logger.
func WithBuilderLogger(l logger.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// Builder pivots metric observations into a Table.
type Builder struct {
	metrics    []string
	minMatches int
	log        logger.Logger
}

// NewBuilder creates a Builder over the cluster vocabulary.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		metrics:    metric.ClusterMetrics(),
		minMatches: defaultMinMatches,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build filters observations to the vocabulary and to tenures with enough
// matches, pivots them taking the first finite value seen per (entity, metric),
// and fills gaps with the column mean over the admitted entities. NaN and
// infinite values count as missing. Entities come
// back sorted by key.
func (b *Builder) Build(ctx context.Context, obs []model.Observation, tenures []model.Tenure) (*Table, error) {
	valid := make(map[model.TeamManagerKey]model.Tenure, len(tenures))
	for _, t := range tenures {
		if t.MatchesCount < b.minMatches {
			continue
		}
		if _, seen := valid[t.Key]; !seen {
			valid[t.Key] = t
		}
	}

	col := make(map[string]int, len(b.metrics))
	for j, m := range b.metrics {
		col[m] = j
	}

	cells := make(map[model.TeamManagerKey]map[int]float64)
	for _, o := range obs {
		j, ok := col[o.Metric]
		if !ok {
			continue
		}
		if _, ok := valid[o.Key]; !ok {
			continue
		}
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			continue
		}
		row, ok := cells[o.Key]
		if !ok {
			row = make(map[int]float64, len(b.metrics))
			cells[o.Key] = row
		}
		if _, dup := row[j]; !dup {
			row[j] = o.Value
		}
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("build features (min_matches=%d): %w", b.minMatches, ErrDataNotAvailable)
	}

	keys := make([]model.TeamManagerKey, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	// Metrics with no value for any admitted entity have no mean to impute.
	present := make([]bool, len(b.metrics))
	for _, row := range cells {
		for j := range row {
			present[j] = true
		}
	}
	var metrics []string
	var cols []int
	for j, m := range b.metrics {
		if present[j] {
			metrics = append(metrics, m)
			cols = append(cols, j)
		}
	}

	table := &Table{
		Entities: make([]Entity, len(keys)),
		Metrics:  metrics,
		Rows:     make([][]float64, len(keys)),
	}
	for i, k := range keys {
		t := valid[k]
		table.Entities[i] = Entity{
			Key:          k,
			TeamName:     orUnknown(t.TeamName),
			ManagerName:  orUnknown(t.ManagerName),
			MatchesCount: t.MatchesCount,
		}
		table.Rows[i] = make([]float64, len(cols))
	}

	for c, j := range cols {
		var seen []float64
		for _, k := range keys {
			if v, ok := cells[k][j]; ok {
				seen = append(seen, v)
			}
		}
		mean := stat.Mean(seen, nil)
		for i, k := range keys {
			v, ok := cells[k][j]
			if !ok {
				v = mean
				table.Imputed++
			}
			table.Rows[i][c] = v
		}
	}

	b.log.Debug(ctx, "features built",
		logger.Int("entities", table.Len()),
		logger.Int("metrics", len(metrics)),
		logger.Int("imputed", table.Imputed),
	)
	return table, nil
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}

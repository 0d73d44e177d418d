// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Defaults live in New; Load layers a YAML file and env vars on top.
//   - Every randomized step reads its seed from Config, never from package state.
//   - Validation errors are *FieldError values naming the offending key; they
//     match ErrInvalidConfig.
package config

// Data source names accepted by DataSource.
const (
	DataSourceSQLite = "sqlite"
	DataSourceCSV    = "csv"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataSource selects the metric table backend: sqlite or csv.
	DataSource string `koanf:"data_source"`
	// DatabasePath is the SQLite file holding metric tables.
	DatabasePath string `koanf:"database_path"`
	// CSVDir holds team_metrics.csv and friends; also the sqlite fallback.
	CSVDir string `koanf:"csv_dir"`
	// MigrateOnStart applies embedded schema migrations when opening SQLite.
	MigrateOnStart bool `koanf:"migrate_on_start"`

	// MinMatches admits a team+manager tenure into clustering.
	MinMatches int `koanf:"min_matches"`
	// ClusterK is the fixed k used by the served fit.
	ClusterK int `koanf:"cluster_k"`
	// KMin and KMax bound the advisory model selection.
	KMin int `koanf:"k_min"`
	KMax int `koanf:"k_max"`
	// Seed drives k-means initialisation and any randomized reduction.
	Seed int64 `koanf:"seed"`
	// NInit is the number of k-means restarts; the lowest inertia wins.
	NInit int `koanf:"n_init"`
	// MaxIter bounds Lloyd iterations per restart.
	MaxIter int `koanf:"max_iter"`
	// Tolerance is the relative centroid shift that stops Lloyd iterations.
	Tolerance float64 `koanf:"tolerance"`
	// RemoveCorrelated drops the CorrelatedFeatures before clustering.
	RemoveCorrelated bool `koanf:"remove_correlated"`
	// CorrelatedFeatures is the versioned prune artifact.
	CorrelatedFeatures []string `koanf:"correlated_features"`
	// DeriveCorrelated recomputes the prune list from the loaded season
	// instead of CorrelatedFeatures. It implies pruning.
	DeriveCorrelated bool `koanf:"derive_correlated"`
	// CorrelationThreshold is the |r| above which DeriveCorrelated drops a feature.
	CorrelationThreshold float64 `koanf:"correlation_threshold"`
	// UsePCA reduces dimensionality before clustering.
	UsePCA bool `koanf:"use_pca"`
	// PCAVariance is the explained variance fraction retained by PCA.
	PCAVariance float64 `koanf:"pca_variance"`
	// CharacteristicThreshold is the |standardized centroid| above which a metric defines a cluster.
	CharacteristicThreshold float64 `koanf:"characteristic_threshold"`
	// SignatureTolerance is the minimum cosine similarity to name a cluster after an archetype.
	SignatureTolerance float64 `koanf:"signature_tolerance"`

	// MinMinutes admits a player into role statistics.
	MinMinutes int `koanf:"min_minutes"`
	// MinObservations is the sample size needed for a (role, metric) statistic.
	MinObservations int `koanf:"min_observations"`
	// ZThreshold is the |z| a metric must exceed to be a strength or weakness.
	ZThreshold float64 `koanf:"z_threshold"`
	// TopN caps strengths and weaknesses per player.
	TopN int `koanf:"top_n"`
	// Epsilon floors standard deviations and inverted denominators.
	Epsilon float64 `koanf:"epsilon"`
	// PoolCacheSize bounds cached role statistics, keyed by pool fingerprint.
	PoolCacheSize int `koanf:"pool_cache_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		DataSource:     DataSourceSQLite,
		DatabasePath:   "playstyle.db",
		CSVDir:         "",
		MigrateOnStart: true,

		MinMatches:       5,
		ClusterK:         4,
		KMin:             2,
		KMax:             8,
		Seed:             42,
		NInit:            10,
		MaxIter:          300,
		Tolerance:        1e-4,
		RemoveCorrelated: false,
		CorrelatedFeatures: []string{
			"progressive_passes",
			"fast_attacks",
			"touches_in_box",
			"interceptions",
		},
		DeriveCorrelated:        false,
		CorrelationThreshold:    0.7,
		UsePCA:                  true,
		PCAVariance:             0.90,
		CharacteristicThreshold: 0.5,
		SignatureTolerance:      0.3,

		MinMinutes:      270,
		MinObservations: 3,
		ZThreshold:      0.5,
		TopN:            3,
		Epsilon:         1e-3,
		PoolCacheSize:   16,
	}
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr", "must not be empty")
	case c.DataSource != DataSourceSQLite && c.DataSource != DataSourceCSV:
		return invalid("data_source", "must be sqlite or csv")
	case c.DataSource == DataSourceCSV && c.CSVDir == "":
		return invalid("csv_dir", "required when data_source is csv")
	case c.MinMatches < 0:
		return invalid("min_matches", "must not be negative")
	case c.ClusterK < 2:
		return invalid("cluster_k", "must be at least 2")
	case c.KMin < 1 || c.KMax < c.KMin:
		return invalid("k_min/k_max", "need 1 <= k_min <= k_max")
	case c.NInit < 1:
		return invalid("n_init", "must be at least 1")
	case c.MaxIter < 1:
		return invalid("max_iter", "must be at least 1")
	case c.Tolerance < 0:
		return invalid("tolerance", "must not be negative")
	case c.CorrelationThreshold <= 0 || c.CorrelationThreshold >= 1:
		return invalid("correlation_threshold", "must be in (0, 1)")
	case c.PCAVariance <= 0 || c.PCAVariance > 1:
		return invalid("pca_variance", "must be in (0, 1]")
	case c.CharacteristicThreshold < 0:
		return invalid("characteristic_threshold", "must not be negative")
	case c.SignatureTolerance < -1 || c.SignatureTolerance > 1:
		return invalid("signature_tolerance", "must be in [-1, 1]")
	case c.MinMinutes < 0:
		return invalid("min_minutes", "must not be negative")
	case c.MinObservations < 1:
		return invalid("min_observations", "must be at least 1")
	case c.ZThreshold < 0:
		return invalid("z_threshold", "must not be negative")
	case c.TopN < 1:
		return invalid("top_n", "must be at least 1")
	case c.Epsilon <= 0:
		return invalid("epsilon", "must be positive")
	}
	return nil
}

func invalid(key, reason string) error {
	return &FieldError{Key: key, Reason: reason}
}

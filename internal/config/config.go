// Package config centralizes all application configuration into typed structs.
//
// Go Learning Note — Configuration Management:
// Defaults live in NewDefaultConfig as plain struct literals. Load layers a
// YAML file and MAPCLUSTER_* environment variables on top of them with
// "github.com/spf13/viper", then validates the result. Code that only needs
// defaults (tests, library users) never touches viper at all.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfiguration is returned for values the clustering engine
// cannot work with. The previous valid value is always kept.
var ErrInvalidConfiguration = errors.New("config: invalid configuration")

// EnvPrefix is prepended to every environment override, e.g.
// MAPCLUSTER_CLUSTERING_CELL_SIZE.
const EnvPrefix = "MAPCLUSTER"

// Config is the top-level configuration container.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Clustering ClusteringConfig `mapstructure:"clustering"`
	Animation  AnimationConfig  `mapstructure:"animation"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Map        MapConfig        `mapstructure:"map"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// ClusteringConfig is the runtime-mutable clustering configuration.
type ClusteringConfig struct {
	// MarginFactor grows the visible region on every side before clustering.
	// 0.5 means half the visible span is added on each side.
	MarginFactor float64 `mapstructure:"margin_factor" json:"margin_factor"`
	// CellSize is the grid cell edge in screen points.
	CellSize              float64 `mapstructure:"cell_size" json:"cell_size"`
	ReuseExistingClusters bool    `mapstructure:"reuse_existing_clusters" json:"reuse_existing_clusters"`
	// DebuggingEnabled draws the grid. It never changes clustering results.
	DebuggingEnabled bool `mapstructure:"debugging_enabled" json:"debugging_enabled"`
	// Clusterer names the representative strategy: center_of_mass,
	// first_member or densest_subcluster.
	Clusterer string `mapstructure:"clusterer" json:"clusterer"`
}

// AnimationConfig controls the default fade animator.
type AnimationConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Duration time.Duration `mapstructure:"duration"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MapConfig is the initial viewport of the simulated map served by
// cmd/server.
type MapConfig struct {
	CenterLatitude  float64 `mapstructure:"center_latitude"`
	CenterLongitude float64 `mapstructure:"center_longitude"`
	LatitudeDelta   float64 `mapstructure:"latitude_delta"`
	LongitudeDelta  float64 `mapstructure:"longitude_delta"`
	PointsPerDegree float64 `mapstructure:"points_per_degree"`
}

// NewDefaultConfig returns a Config populated with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Clustering: ClusteringConfig{
			MarginFactor:          0.5,
			CellSize:              60,
			ReuseExistingClusters: true,
			DebuggingEnabled:      false,
			Clusterer:             "center_of_mass",
		},
		Animation: AnimationConfig{
			Enabled:  true,
			Duration: 200 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Map: MapConfig{
			CenterLatitude:  37.7749,
			CenterLongitude: -122.4194,
			LatitudeDelta:   0.2,
			LongitudeDelta:  0.2,
			PointsPerDegree: 2000,
		},
	}
}

// Load reads configuration from path (YAML) and MAPCLUSTER_* environment
// variables, on top of NewDefaultConfig. An empty path looks for an optional
// mapcluster.yaml in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, NewDefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName("mapcluster")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: reading mapcluster.yaml: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides are picked up by
// Unmarshal even when no config file mentions them.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	v.SetDefault("clustering.margin_factor", d.Clustering.MarginFactor)
	v.SetDefault("clustering.cell_size", d.Clustering.CellSize)
	v.SetDefault("clustering.reuse_existing_clusters", d.Clustering.ReuseExistingClusters)
	v.SetDefault("clustering.debugging_enabled", d.Clustering.DebuggingEnabled)
	v.SetDefault("clustering.clusterer", d.Clustering.Clusterer)

	v.SetDefault("animation.enabled", d.Animation.Enabled)
	v.SetDefault("animation.duration", d.Animation.Duration)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("map.center_latitude", d.Map.CenterLatitude)
	v.SetDefault("map.center_longitude", d.Map.CenterLongitude)
	v.SetDefault("map.latitude_delta", d.Map.LatitudeDelta)
	v.SetDefault("map.longitude_delta", d.Map.LongitudeDelta)
	v.SetDefault("map.points_per_degree", d.Map.PointsPerDegree)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Clustering.Validate(); err != nil {
		return err
	}
	if c.Animation.Duration < 0 {
		return fmt.Errorf("%w: animation duration %v is negative", ErrInvalidConfiguration, c.Animation.Duration)
	}
	if !(c.Map.PointsPerDegree > 0) {
		return fmt.Errorf("%w: map points per degree must be positive", ErrInvalidConfiguration)
	}
	return nil
}

// Validate checks the margin factor and cell size.
func (c ClusteringConfig) Validate() error {
	if err := ValidateMarginFactor(c.MarginFactor); err != nil {
		return err
	}
	return ValidateCellSize(c.CellSize)
}

// ValidateMarginFactor rejects negative and non-finite factors.
func ValidateMarginFactor(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fmt.Errorf("%w: margin factor %v must be a finite value >= 0", ErrInvalidConfiguration, f)
	}
	return nil
}

// ValidateCellSize rejects non-positive and non-finite sizes.
func ValidateCellSize(s float64) error {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return fmt.Errorf("%w: cell size %v must be a finite value > 0", ErrInvalidConfiguration, s)
	}
	return nil
}

// Package config loads service settings from YAML, falling back to defaults
// that run the demo against a local Neo4j.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/coverage"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/graphdb"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/hexgrid"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/routing"
)

// Config is the root of the service configuration
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Planner PlannerConfig  `yaml:"planner"`
	Grid    GridConfig     `yaml:"grid"`
	Routing RoutingConfig  `yaml:"routing"`
	Neo4j   graphdb.Config `yaml:"neo4j"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// PlannerConfig holds coverage planner settings
type PlannerConfig struct {
	SpacingM     float64 `yaml:"spacing_m"`
	AngleSamples int     `yaml:"angle_samples"`
	Workers      int     `yaml:"workers"`
}

// GridConfig holds hex map generation settings. A zero seed draws a fresh
// priority layout on every seeding run.
type GridConfig struct {
	MapRadius int     `yaml:"map_radius"`
	Clusters  int     `yaml:"clusters"`
	HexSize   float64 `yaml:"hex_size"`
	Seed      int64   `yaml:"seed"`
	UAVs      int     `yaml:"uavs"`
}

// RoutingConfig holds tour heuristic settings
type RoutingConfig struct {
	PriorityWeight float64 `yaml:"priority_weight"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Planner: PlannerConfig{
			SpacingM:     coverage.DefaultSpacingM,
			AngleSamples: coverage.DefaultAngleSamples,
		},
		Grid: GridConfig{
			MapRadius: hexgrid.DefaultMapRadius,
			Clusters:  hexgrid.DefaultClusters,
			HexSize:   hexgrid.DefaultHexSize,
			UAVs:      3,
		},
		Routing: RoutingConfig{
			PriorityWeight: routing.DefaultPriorityWeight,
		},
		Neo4j: graphdb.DefaultConfig(),
	}
}

// Load reads a YAML file over the defaults, so a partial file only needs the
// keys it wants to change
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// PlannerSettings converts the planner section to the planner's own config type
func (c Config) PlannerSettings() coverage.Config {
	return coverage.Config{
		SpacingM:     c.Planner.SpacingM,
		AngleSamples: c.Planner.AngleSamples,
		Workers:      c.Planner.Workers,
	}
}

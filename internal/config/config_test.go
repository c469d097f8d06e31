package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/coverage"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 20.0, cfg.Planner.SpacingM)
	assert.Equal(t, 36, cfg.Planner.AngleSamples)
	assert.Equal(t, 4, cfg.Grid.MapRadius)
	assert.Equal(t, 3, cfg.Grid.Clusters)
	assert.Equal(t, 3, cfg.Grid.UAVs)
	assert.Equal(t, 0.6, cfg.Routing.PriorityWeight)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.NoError(t, cfg.Neo4j.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
planner:
  spacing_m: 5.0
neo4j:
  password: secret
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.Planner.SpacingM)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	// Untouched keys keep their defaults.
	assert.Equal(t, 36, cfg.Planner.AngleSamples)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "neo4j", cfg.Neo4j.Username)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planner: [not a map"), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestPlannerSettings(t *testing.T) {
	cfg := Default()
	cfg.Planner.SpacingM = 12.5
	cfg.Planner.Workers = 4

	settings := cfg.PlannerSettings()

	assert.Equal(t, coverage.Config{SpacingM: 12.5, AngleSamples: 36, Workers: 4}, settings)
}

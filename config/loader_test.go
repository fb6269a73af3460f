package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
feeds:
  - name: metro
    path: /data/metro
    prefix: METRO
    mode: rail
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Feeds, 1)
	assert.Equal(t, "METRO", cfg.Feeds[0].Prefix)

	assert.Equal(t, 400.0, cfg.Graph.WalkRadiusM)
	assert.Equal(t, 1.4, cfg.Graph.WalkSpeedMS)
	assert.Equal(t, 40.0, cfg.Graph.CruiseSpeedKMH["rail"])
	assert.Equal(t, 30.0, cfg.Graph.CruiseSpeedKMH["bus"])
	assert.Equal(t, 1.0, cfg.Graph.EmissionFactors["rail"])
	assert.Equal(t, 20.0, cfg.Graph.EmissionFactors["bus"])
	assert.Equal(t, 600.0, cfg.Graph.NearestRadiusM)
	assert.Equal(t, 8, cfg.Graph.NearestK)

	assert.Equal(t, 50, cfg.Search.PopSize)
	assert.Equal(t, 30, cfg.Search.Generations)
	assert.Equal(t, 0.6, cfg.Search.CxPb)
	assert.Equal(t, 0.3, cfg.Search.MutPb)
	assert.Equal(t, "maximize", cfg.Search.WalkPolicy)
	require.NotNil(t, cfg.Search.MaxTransfers)
	assert.Equal(t, -1, *cfg.Search.MaxTransfers)
	assert.Equal(t, 21, cfg.Search.LambdaSteps)
	assert.Equal(t, 100, cfg.Search.RandomWalkSteps)

	assert.Nil(t, cfg.Barrier)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
feeds:
  - name: metro
    path: /data/metro
    prefix: METRO
    mode: rail
  - name: city-bus
    path: /data/bus
    prefix: BUS
    mode: bus
graph:
  walkRadiusM: 500
  walkSpeedMS: 1.2
search:
  popSize: 40
  generations: 10
  walkPolicy: minimize
  includeFare: true
  maxTransfers: 2
barrier:
  name: river
  bbox: [8.99, 44.99, 9.01, 45.01]
  divideLat: 45.0
  crossings:
    - id: bridge
      lat: 45.0
      lon: 9.0
      snapRadiusM: 300
  rules:
    bridge: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Feeds, 2)
	assert.Equal(t, "bus", cfg.Feeds[1].Mode)
	assert.Equal(t, 500.0, cfg.Graph.WalkRadiusM)
	assert.Equal(t, 1.2, cfg.Graph.WalkSpeedMS)
	assert.Equal(t, 40, cfg.Search.PopSize)
	assert.Equal(t, "minimize", cfg.Search.WalkPolicy)
	assert.True(t, cfg.Search.IncludeFare)
	require.NotNil(t, cfg.Search.MaxTransfers)
	assert.Equal(t, 2, *cfg.Search.MaxTransfers)

	require.NotNil(t, cfg.Barrier)
	assert.Equal(t, "river", cfg.Barrier.Name)
	assert.Equal(t, 45.0, cfg.Barrier.DivideLat)
	require.Len(t, cfg.Barrier.Crossings, 1)
	assert.Equal(t, 300.0, cfg.Barrier.Crossings[0].SnapRadiusM)
	assert.True(t, cfg.Barrier.Rules["bridge"])
}

func TestLoadRejectsBadConfig(t *testing.T) {
	// unknown mode
	path := writeConfig(t, `
feeds:
  - name: tram
    path: /data/tram
    prefix: TRAM
    mode: tram
`)
	_, err := Load(path)
	assert.Error(t, err)

	// no feeds at all
	path = writeConfig(t, "graph:\n  walkRadiusM: 400\n")
	_, err = Load(path)
	assert.Error(t, err)

	// unparsable yaml
	path = writeConfig(t, "feeds: [")
	_, err = Load(path)
	assert.Error(t, err)

	// missing file
	_, err = Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/aretw0/drunkard/pkg/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.Trials)
	assert.Equal(t, []int{10, 100, 1000, 10000, 100000}, cfg.Steps)
	assert.Equal(t, domain.AllPolicies(), cfg.Policies)
	assert.Equal(t, &field.WormholeConfig{Holes: 500, XRange: 200, YRange: 200}, cfg.Trace.Wormholes)
	assert.Nil(t, cfg.Anomaly)
}

func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "experiment.yaml", `
trials: 250
steps: [5, 50]
policies: [usual, EW]
seed: 42
anomaly:
  holes: 10
  x_range: 5
  y_range: 5
trace:
  wormholes: null
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Trials)
	assert.Equal(t, []int{5, 50}, cfg.Steps, "lists replace, never merge")
	assert.Equal(t, []domain.Policy{domain.Isotropic4, domain.EastWest2}, cfg.Policies)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, &field.WormholeConfig{Holes: 10, XRange: 5, YRange: 5}, cfg.Anomaly)
	assert.Nil(t, cfg.Trace.Wormholes)

	// Untouched keys keep their defaults.
	assert.Equal(t, ScatterConfig{Steps: 100, Trials: 200}, cfg.Scatter)
	assert.Equal(t, 1000, cfg.Trace.Steps)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "experiment.json", `{"trials": 3, "steps": [1, 2], "policies": ["cold-biased"], "workers": 4}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Trials)
	assert.Equal(t, []int{1, 2}, cfg.Steps)
	assert.Equal(t, []domain.Policy{domain.ColdBiased}, cfg.Policies)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
	}{
		{name: "Unknown policy", file: "a.yaml", content: "policies: [sober]", target: ErrInvalidConfig},
		{name: "Unknown key", file: "b.yaml", content: "trails: 10", target: ErrInvalidConfig},
		{name: "Zero trials", file: "c.yaml", content: "trials: 0", target: domain.ErrInvalidTrials},
		{name: "Negative steps", file: "d.yaml", content: "steps: [10, -1]", target: domain.ErrInvalidSteps},
		{name: "Empty policies", file: "e.yaml", content: "policies: []", target: ErrInvalidConfig},
		{name: "Bad wormholes", file: "f.yaml", content: "anomaly: {holes: -2}", target: domain.ErrInvalidWormholes},
		{name: "Wormhole range overflow", file: "g.yaml", content: "trace: {steps: 1, wormholes: {holes: 1, x_range: 4611686018427387904, y_range: 1}}", target: domain.ErrInvalidWormholes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "broken.json", "{"))
	assert.Error(t, err)
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Seed = 7
	cfg.Policies = []domain.Policy{domain.ColdBiased}

	var buf bytes.Buffer
	require.NoError(t, cfg.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "- cold-biased")

	loaded, err := Load(writeFile(t, "round.yaml", buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

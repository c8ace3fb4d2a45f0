package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/ptg-engine/internal/cost"
	"github.com/cxd309/ptg-engine/internal/kinematics"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Sampling.NSamples)
	assert.Equal(t, kinematics.State3{10, 4, 2}, cfg.Sampling.SigmaS)
	assert.Equal(t, kinematics.State3{1, 1, 1}, cfg.Sampling.SigmaD)
	assert.Len(t, cfg.Weights, 10)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
sampling:
  n_samples: 50
  sigma_s: [5, 2, 1]
  seed: [9, 10]
limits:
  speed_limit: 22.2
  scale_by_sigma: true
`))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Sampling.NSamples)
	assert.Equal(t, kinematics.State3{5, 2, 1}, cfg.Sampling.SigmaS)
	assert.Equal(t, kinematics.State3{1, 1, 1}, cfg.Sampling.SigmaD)
	assert.Equal(t, [2]uint64{9, 10}, cfg.Sampling.Seed)
	assert.Equal(t, 0.5, cfg.Sampling.TimeStep)
	assert.Equal(t, 22.2, cfg.Limits.SpeedLimit)
	assert.Equal(t, 10.0, cfg.Limits.MaxJerk)
	assert.True(t, cfg.Limits.ScaleBySigma)
	assert.Len(t, cfg.Weights, 10)
	assert.NotNil(t, cfg.Evaluator())
}

func TestParseReplacesWeights(t *testing.T) {
	cfg, err := Parse([]byte(`
weights:
  time_diff: 2
  s_diff: 1.5
`))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{cost.NameTimeDiff: 2, cost.NameSDiff: 1.5}, cfg.Weights)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative samples", "sampling:\n  n_samples: -1\n", "n_samples"},
		{"zero workers", "sampling:\n  workers: 0\n", "workers"},
		{"missing time step", "sampling:\n  time_step: 0\n", "time_step"},
		{"unknown weight", "weights:\n  comfort: 1\n", `unknown cost term "comfort"`},
		{"negative weight", "weights:\n  buffer: -2\n", "weights.buffer"},
		{"bad yaml", "sampling: [", "parse planner config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sampling:\n  workers: 4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Sampling.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read planner config")
}

func TestSampleConfigMatchesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "planner.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

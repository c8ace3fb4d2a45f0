// Package config loads the planner configuration: goal sampling, cost limits
// and cost weights.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cxd309/ptg-engine/internal/cost"
	"github.com/cxd309/ptg-engine/internal/kinematics"
)

// ─── Sections ───────────────────────────────────────────────────────────

// SamplingConfig controls how candidate goals are generated around the nominal goal.
type SamplingConfig struct {
	NSamples   int               `yaml:"n_samples"`   // perturbed goals per candidate duration
	SigmaS     kinematics.State3 `yaml:"sigma_s"`     // s, ṡ, s̈ standard deviations
	SigmaD     kinematics.State3 `yaml:"sigma_d"`     // d, ḋ, d̈ standard deviations
	TimeWindow int               `yaml:"time_window"` // candidate durations T ± k·TimeStep for k ≤ TimeWindow
	TimeStep   float64           `yaml:"time_step"`   // seconds
	Seed       [2]uint64         `yaml:"seed"`
	Workers    int               `yaml:"workers"` // concurrent candidate scorers
}

// LimitsConfig holds the physical limits used by the comfort and safety cost terms.
type LimitsConfig struct {
	MaxAccel           float64 `yaml:"max_accel"`
	MaxJerk            float64 `yaml:"max_jerk"`
	ExpectedAccPerSec  float64 `yaml:"expected_acc_in_one_sec"`
	ExpectedJerkPerSec float64 `yaml:"expected_jerk_in_one_sec"`
	SpeedLimit         float64 `yaml:"speed_limit"`
	VehicleRadius      float64 `yaml:"vehicle_radius"`
	SampleCount        int     `yaml:"sample_count"`
	// ScaleBySigma divides s / d deviations by the sampling spreads before
	// saturating them.
	ScaleBySigma bool `yaml:"scale_by_sigma"`
}

// Config is the top-level structure of the planner YAML file.
type Config struct {
	Sampling SamplingConfig     `yaml:"sampling"`
	Limits   LimitsConfig       `yaml:"limits"`
	Weights  map[string]float64 `yaml:"weights"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sampling: SamplingConfig{
			NSamples:   10,
			SigmaS:     kinematics.State3{10, 4, 2},
			SigmaD:     kinematics.State3{1, 1, 1},
			TimeWindow: 4,
			TimeStep:   0.5,
			Seed:       [2]uint64{1, 2},
			Workers:    1,
		},
		Limits: LimitsConfig{
			MaxAccel:           10,
			MaxJerk:            10,
			ExpectedAccPerSec:  1,
			ExpectedJerkPerSec: 2,
			SpeedLimit:         30,
			VehicleRadius:      1.5,
			SampleCount:        cost.DefaultSampleCount,
		},
		Weights: map[string]float64{
			cost.NameTimeDiff:   1,
			cost.NameSDiff:      1,
			cost.NameDDiff:      1,
			cost.NameEfficiency: 1,
			cost.NameBuffer:     1,
			cost.NameSpeedLimit: 1,
			cost.NameMaxAccel:   1,
			cost.NameMaxJerk:    1,
			cost.NameTotalAccel: 1,
			cost.NameTotalJerk:  1,
		},
	}
}

// ─── Loaders ────────────────────────────────────────────────────────────

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values; a weights section replaces the default weights.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read planner config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	var weights struct {
		Weights map[string]float64 `yaml:"weights"`
	}
	if err := yaml.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("parse planner config: %w", err)
	}
	if weights.Weights != nil {
		cfg.Weights = nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse planner config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and that every weight names a known cost term.
func (c *Config) Validate() error {
	s := c.Sampling
	if s.NSamples < 0 {
		return fmt.Errorf("sampling.n_samples must be >= 0, got %d", s.NSamples)
	}
	if s.TimeWindow < 0 {
		return fmt.Errorf("sampling.time_window must be >= 0, got %d", s.TimeWindow)
	}
	if s.TimeWindow > 0 && s.TimeStep <= 0 {
		return fmt.Errorf("sampling.time_step must be > 0 when time_window is set, got %g", s.TimeStep)
	}
	if s.Workers < 1 {
		return fmt.Errorf("sampling.workers must be >= 1, got %d", s.Workers)
	}
	if c.Limits.SampleCount < 1 {
		return fmt.Errorf("limits.sample_count must be >= 1, got %d", c.Limits.SampleCount)
	}

	known := cost.NewEvaluator(cost.Limits{}, kinematics.State3{}, kinematics.State3{}).Funcs()
	for name, w := range c.Weights {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("weights: unknown cost term %q", name)
		}
		if w < 0 {
			return fmt.Errorf("weights.%s must be >= 0, got %g", name, w)
		}
	}
	return nil
}

// CostLimits converts the limits section for the cost evaluator.
func (c *Config) CostLimits() cost.Limits {
	return cost.Limits{
		MaxAccel:           c.Limits.MaxAccel,
		MaxJerk:            c.Limits.MaxJerk,
		ExpectedAccPerSec:  c.Limits.ExpectedAccPerSec,
		ExpectedJerkPerSec: c.Limits.ExpectedJerkPerSec,
		SpeedLimit:         c.Limits.SpeedLimit,
		VehicleRadius:      c.Limits.VehicleRadius,
		SampleCount:        c.Limits.SampleCount,
	}
}

// Evaluator builds the cost evaluator described by the configuration.
func (c *Config) Evaluator() *cost.Evaluator {
	if c.Limits.ScaleBySigma {
		return cost.NewEvaluator(c.CostLimits(), c.Sampling.SigmaS, c.Sampling.SigmaD)
	}
	return cost.NewEvaluator(c.CostLimits(), kinematics.State3{}, kinematics.State3{})
}

// Package engine implements one planning cycle of the polynomial trajectory generator.
//
// A cycle has three passes:
//
//  1. Sampling pass - the nominal goal (target vehicle's predicted state at T plus
//     the requested offset) is copied to every candidate duration around T and
//     each copy is perturbed with Gaussian noise.
//
//  2. Synthesis pass - every candidate goal is connected to the start state with a
//     quintic polynomial per axis.
//
//  3. Scoring pass - every trajectory is scored by the weighted cost terms and the
//     cheapest one is selected. Candidates that fail synthesis or scoring are
//     excluded rather than given a default cost.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cxd309/ptg-engine/internal/config"
	"github.com/cxd309/ptg-engine/internal/cost"
	"github.com/cxd309/ptg-engine/internal/kinematics"
	"github.com/cxd309/ptg-engine/internal/trajectory"
	"github.com/cxd309/ptg-engine/internal/vehicle"
)

// ErrNoViableCandidate is returned when every candidate was excluded.
var ErrNoViableCandidate = errors.New("no viable candidate trajectory")

// Planner generates, scores and selects candidate trajectories.
// It owns the seeded random source, so successive plans continue one sequence.
// A Planner is not safe for concurrent use.
type Planner struct {
	cfg     *config.Config
	sampler *trajectory.Sampler
	funcs   map[string]cost.Func
	terms   []string // weighted term names, sorted
	logger  *zap.Logger
}

// NewPlanner constructs a Planner from cfg. A nil logger disables logging.
func NewPlanner(cfg *config.Config, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	src := rand.NewPCG(cfg.Sampling.Seed[0], cfg.Sampling.Seed[1])
	return &Planner{
		cfg:     cfg,
		sampler: trajectory.NewSampler(cfg.Sampling.SigmaS, cfg.Sampling.SigmaD, src),
		funcs:   cfg.Evaluator().Funcs(),
		terms:   slices.Sorted(maps.Keys(cfg.Weights)),
		logger:  logger,
	}
}

// NominalGoal returns the target vehicle's predicted state at T offset by delta.
func NominalGoal(predictions vehicle.Predictions, target vehicle.VehicleID, delta kinematics.State6, T float64) (trajectory.Goal, error) {
	state, err := predictions.StateAt(target, T)
	if err != nil {
		return trajectory.Goal{}, fmt.Errorf("nominal goal: %w", err)
	}
	return trajectory.NewGoal(state.Add(delta), T), nil
}

// Plan runs one planning cycle.
func (p *Planner) Plan(input PlanningInput) (PlanResult, error) {
	T := input.Meta.Duration
	predictions, err := vehicle.NewPredictions(input.Predictions)
	if err != nil {
		return PlanResult{}, fmt.Errorf("predictions: %w", err)
	}
	nominal, err := NominalGoal(predictions, input.TargetVehicle, input.Delta, T)
	if err != nil {
		return PlanResult{}, err
	}
	if err := nominal.Validate(); err != nil {
		return PlanResult{}, fmt.Errorf("requested duration: %w", err)
	}

	// Pass 1: sampling.
	cands := p.candidates(nominal)
	p.logger.Debug("sampled candidate goals",
		zap.String("plan_id", input.Meta.PlanID),
		zap.Int("candidates", len(cands)))

	// Passes 2 and 3: synthesis and scoring, one candidate per task.
	var g errgroup.Group
	g.SetLimit(p.cfg.Sampling.Workers)
	for i := range cands {
		g.Go(func() error {
			p.score(&cands[i], input, predictions)
			return nil
		})
	}
	_ = g.Wait()

	logs := make([]CandidateLog, len(cands))
	for i, c := range cands {
		logs[i] = c.log()
		if c.err != nil {
			p.logger.Warn("candidate excluded",
				zap.String("plan_id", input.Meta.PlanID),
				zap.Int("index", c.index),
				zap.Error(c.err))
		}
	}

	best, err := selectBest(cands)
	if err != nil {
		return PlanResult{}, fmt.Errorf("plan %q: %w", input.Meta.PlanID, err)
	}
	p.logger.Info("selected trajectory",
		zap.String("plan_id", input.Meta.PlanID),
		zap.Int("index", best.index),
		zap.Float64("duration", best.goal.T),
		zap.Float64("total_cost", best.total))

	return PlanResult{
		Meta:        input.Meta,
		NominalGoal: nominal,
		Best:        best.log(),
		Candidates:  logs,
	}, nil
}

// candidates returns, for every duration in the configured window around the
// nominal T, the nominal goal at that duration followed by its perturbations.
// Durations that are not positive are skipped.
func (p *Planner) candidates(nominal trajectory.Goal) []candidate {
	s := p.cfg.Sampling
	var out []candidate
	for k := -s.TimeWindow; k <= s.TimeWindow; k++ {
		g := nominal
		g.T = nominal.T + float64(k)*s.TimeStep
		if g.Validate() != nil {
			continue
		}
		out = append(out, candidate{index: len(out), nominal: true, goal: g})
		for _, pg := range p.sampler.Sample(g, s.NSamples) {
			out = append(out, candidate{index: len(out), goal: pg})
		}
	}
	return out
}

// score synthesizes c's trajectory and evaluates every weighted cost term.
func (p *Planner) score(c *candidate, input PlanningInput, predictions vehicle.Predictions) {
	tr, err := trajectory.SynthesizeGoal(input.StartS, input.StartD, c.goal)
	if err != nil {
		c.err = err
		return
	}
	c.traj = tr
	c.costs = make(map[string]float64, len(p.terms))
	for _, name := range p.terms {
		v, err := p.funcs[name](tr, input.TargetVehicle, input.Delta, input.Meta.Duration, predictions)
		if err != nil {
			c.err = fmt.Errorf("cost %s: %w", name, err)
			c.costs = nil
			return
		}
		c.costs[name] = v
		c.total += p.cfg.Weights[name] * v
	}
}

// selectBest returns the cheapest scored candidate. Ties go to the shorter duration,
// then to the earlier candidate.
func selectBest(cands []candidate) (candidate, error) {
	viable := lo.Filter(cands, func(c candidate, _ int) bool { return c.err == nil })
	if len(viable) == 0 {
		return candidate{}, ErrNoViableCandidate
	}
	return lo.MinBy(viable, func(a, b candidate) bool {
		if a.total != b.total {
			return a.total < b.total
		}
		if a.goal.T != b.goal.T {
			return a.goal.T < b.goal.T
		}
		return a.index < b.index
	}), nil
}

// RunJSON is the primary entry point for the CLI and WASM targets.
// It accepts a JSON-encoded PlanningInput, runs one planning cycle with cfg, and
// returns a JSON-encoded PlanResult.
func RunJSON(jsonInput string, cfg *config.Config, logger *zap.Logger) (string, error) {
	var input PlanningInput
	if err := json.Unmarshal([]byte(jsonInput), &input); err != nil {
		return "", fmt.Errorf("invalid input JSON: %w", err)
	}

	result, err := NewPlanner(cfg, logger).Plan(input)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}

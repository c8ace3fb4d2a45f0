package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/ptg-engine/internal/config"
	"github.com/cxd309/ptg-engine/internal/cost"
	"github.com/cxd309/ptg-engine/internal/kinematics"
	"github.com/cxd309/ptg-engine/internal/trajectory"
	"github.com/cxd309/ptg-engine/internal/vehicle"
)

// followInput asks to be 10 m behind and 4 m beside vehicle "12" in 5 s.
// Vehicle "12" is predicted at (100, 10, 0, 0, 0, 0) at t = 5.
func followInput() PlanningInput {
	return PlanningInput{
		Meta:          PlanMeta{PlanID: "follow", Duration: 5},
		StartS:        kinematics.State3{40, 10, 0},
		StartD:        kinematics.State3{4, 0, 0},
		TargetVehicle: "12",
		Delta:         kinematics.State6{-10, 0, 0, 4, 0, 0},
		Predictions: []vehicle.Vehicle{
			{ID: "12", Model: kinematics.ConstantAcceleration{Start: kinematics.State6{50, 10, 0, 0, 0, 0}}},
		},
	}
}

func TestNominalGoal(t *testing.T) {
	in := followInput()
	preds, err := vehicle.NewPredictions(in.Predictions)
	require.NoError(t, err)

	goal, err := NominalGoal(preds, "12", in.Delta, 5)
	require.NoError(t, err)
	assert.Equal(t, trajectory.Goal{S: kinematics.State3{90, 10, 0}, D: kinematics.State3{4, 0, 0}, T: 5}, goal)

	_, err = NominalGoal(preds, "99", in.Delta, 5)
	assert.ErrorIs(t, err, vehicle.ErrUnknownVehicle)
}

func TestPlanNominalOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Sampling.NSamples = 0
	cfg.Sampling.TimeWindow = 0

	res, err := NewPlanner(cfg, nil).Plan(followInput())
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)

	best := res.Best
	assert.True(t, best.Nominal)
	assert.Empty(t, best.Error)
	require.NotNil(t, best.Trajectory)
	final := best.Trajectory.Final()
	assert.InDeltaSlice(t, []float64{90, 10, 0, 4, 0, 0}, final[:], 1e-9)

	assert.InDelta(t, 0, best.Costs[cost.NameTimeDiff], 1e-12)
	assert.InDelta(t, 0, best.Costs[cost.NameSDiff], 1e-9)
	assert.InDelta(t, 0, best.Costs[cost.NameDDiff], 1e-9)
	assert.Len(t, best.Costs, len(cfg.Weights))
}

func TestPlanCandidateCount(t *testing.T) {
	cfg := config.Default()

	res, err := NewPlanner(cfg, nil).Plan(followInput())
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 9*(cfg.Sampling.NSamples+1))

	// around T = 1 the durations -1, -0.5 and 0 are skipped
	in := followInput()
	in.Meta.Duration = 1
	res, err = NewPlanner(cfg, nil).Plan(in)
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 6*(cfg.Sampling.NSamples+1))
	for _, c := range res.Candidates {
		assert.Greater(t, c.Goal.T, 0.0)
	}
}

func TestPlanPrefersRequestedDuration(t *testing.T) {
	cfg := config.Default()
	cfg.Weights = map[string]float64{cost.NameTimeDiff: 1}

	res, err := NewPlanner(cfg, nil).Plan(followInput())
	require.NoError(t, err)

	// every candidate at T = 5 costs zero; the tie goes to the first of them
	assert.Equal(t, 5.0, res.Best.Goal.T)
	assert.True(t, res.Best.Nominal)
	assert.Equal(t, 4*(cfg.Sampling.NSamples+1), res.Best.Index)
	assert.Equal(t, 0.0, res.Best.Total)
}

func TestPlanDeterministicForSeed(t *testing.T) {
	cfg := config.Default()
	a, err := NewPlanner(cfg, nil).Plan(followInput())
	require.NoError(t, err)
	b, err := NewPlanner(cfg, nil).Plan(followInput())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	parallel := config.Default()
	parallel.Sampling.Workers = 4
	c, err := NewPlanner(parallel, nil).Plan(followInput())
	require.NoError(t, err)
	assert.Equal(t, a, c)

	reseeded := config.Default()
	reseeded.Sampling.Seed = [2]uint64{99, 100}
	d, err := NewPlanner(reseeded, nil).Plan(followInput())
	require.NoError(t, err)
	assert.NotEqual(t, a.Candidates[1].Goal, d.Candidates[1].Goal)
}

func TestPlanErrors(t *testing.T) {
	t.Run("unknown target", func(t *testing.T) {
		in := followInput()
		in.TargetVehicle = "99"
		_, err := NewPlanner(config.Default(), nil).Plan(in)
		assert.ErrorIs(t, err, vehicle.ErrUnknownVehicle)
	})

	t.Run("zero duration", func(t *testing.T) {
		in := followInput()
		in.Meta.Duration = 0
		_, err := NewPlanner(config.Default(), nil).Plan(in)
		assert.ErrorIs(t, err, trajectory.ErrSingularSystem)
	})

	t.Run("duplicate vehicle", func(t *testing.T) {
		in := followInput()
		in.Predictions = append(in.Predictions, in.Predictions[0])
		_, err := NewPlanner(config.Default(), nil).Plan(in)
		assert.ErrorContains(t, err, "already exists")
	})
}

func TestScoreExcludesSingularCandidate(t *testing.T) {
	p := NewPlanner(config.Default(), nil)
	in := followInput()
	preds, err := vehicle.NewPredictions(in.Predictions)
	require.NoError(t, err)

	c := candidate{goal: trajectory.Goal{S: kinematics.State3{90, 10, 0}, T: 0}}
	p.score(&c, in, preds)
	assert.ErrorIs(t, c.err, trajectory.ErrSingularSystem)
	assert.Nil(t, c.costs)

	l := c.log()
	assert.NotEmpty(t, l.Error)
	assert.Nil(t, l.Trajectory)
}

func TestSelectBest(t *testing.T) {
	goal := func(T float64) trajectory.Goal { return trajectory.Goal{T: T} }

	t.Run("lowest total", func(t *testing.T) {
		best, err := selectBest([]candidate{
			{index: 0, goal: goal(5), total: 2},
			{index: 1, goal: goal(5), total: 1},
			{index: 2, goal: goal(5), total: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, best.index)
	})

	t.Run("tie goes to shorter duration", func(t *testing.T) {
		best, err := selectBest([]candidate{
			{index: 0, goal: goal(5), total: 1},
			{index: 1, goal: goal(4.5), total: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, best.index)
	})

	t.Run("then to first encountered", func(t *testing.T) {
		best, err := selectBest([]candidate{
			{index: 0, goal: goal(5), err: trajectory.ErrSingularSystem},
			{index: 1, goal: goal(5), total: 1},
			{index: 2, goal: goal(5), total: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, best.index)
	})

	t.Run("nothing viable", func(t *testing.T) {
		_, err := selectBest([]candidate{{err: trajectory.ErrSingularSystem}})
		assert.ErrorIs(t, err, ErrNoViableCandidate)
		_, err = selectBest(nil)
		assert.ErrorIs(t, err, ErrNoViableCandidate)
	})
}

func TestRunJSON(t *testing.T) {
	input := `{
		"plan_meta": {"plan_id": "p1", "duration": 5},
		"start_s": [40, 10, 0],
		"start_d": [4, 0, 0],
		"target_vehicle": "12",
		"delta": [-10, 0, 0, 4, 0, 0],
		"predictions": [
			{"vehicle_id": "12", "prediction": {"model": "constant", "start_state": [50, 10, 0, 0, 0, 0]}},
			{"vehicle_id": "7", "prediction": {"model": "polynomial", "s": [0, 20, 0, 0, 0, 0], "d": [8, 0, 0, 0, 0, 0]}}
		]
	}`

	out, err := RunJSON(input, config.Default(), nil)
	require.NoError(t, err)

	var res PlanResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "p1", res.Meta.PlanID)
	assert.Equal(t, kinematics.State3{90, 10, 0}, res.NominalGoal.S)
	assert.Len(t, res.Candidates, 99)
	require.NotNil(t, res.Best.Trajectory)
	assert.Empty(t, res.Best.Error)
	assert.Equal(t, res.Best, res.Candidates[res.Best.Index])

	_, err = RunJSON("{", config.Default(), nil)
	assert.ErrorContains(t, err, "invalid input JSON")
}

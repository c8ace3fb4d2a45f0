package engine

import (
	"github.com/cxd309/ptg-engine/internal/kinematics"
	"github.com/cxd309/ptg-engine/internal/trajectory"
	"github.com/cxd309/ptg-engine/internal/vehicle"
)

// PlanMeta holds the identity and timing parameters for a planning cycle.
type PlanMeta struct {
	PlanID   string  `json:"plan_id"`
	Duration float64 `json:"duration"` // requested maneuver duration T, seconds
}

// PlanningInput is the JSON-serialisable input to the planner.
type PlanningInput struct {
	Meta          PlanMeta          `json:"plan_meta"`
	StartS        kinematics.State3 `json:"start_s"`
	StartD        kinematics.State3 `json:"start_d"`
	TargetVehicle vehicle.VehicleID `json:"target_vehicle"`
	// Delta is the offset from the target's predicted state that defines the goal,
	// e.g. [-10, 0, 0, 4, 0, 0] is "10 m behind and 4 m to the side".
	Delta       kinematics.State6 `json:"delta"`
	Predictions []vehicle.Vehicle `json:"predictions"`
}

// CandidateLog records how a single candidate goal was synthesized and scored.
type CandidateLog struct {
	Index      int                    `json:"index"`
	Nominal    bool                   `json:"nominal"` // unperturbed goal at this duration
	Goal       trajectory.Goal        `json:"goal"`
	Trajectory *trajectory.Trajectory `json:"trajectory,omitempty"`
	Costs      map[string]float64     `json:"costs,omitempty"`
	Total      float64                `json:"total"`
	Error      string                 `json:"error,omitempty"` // set when the candidate was excluded
}

// PlanResult is the complete output of a planning cycle.
type PlanResult struct {
	Meta        PlanMeta        `json:"plan_meta"`
	NominalGoal trajectory.Goal `json:"nominal_goal"`
	Best        CandidateLog    `json:"best"`
	Candidates  []CandidateLog  `json:"candidates"`
}

// candidate is a goal travelling through synthesis and scoring.
type candidate struct {
	index   int
	nominal bool
	goal    trajectory.Goal
	traj    trajectory.Trajectory
	costs   map[string]float64
	total   float64
	err     error
}

func (c candidate) log() CandidateLog {
	l := CandidateLog{Index: c.index, Nominal: c.nominal, Goal: c.goal}
	if c.err != nil {
		l.Error = c.err.Error()
		return l
	}
	tr := c.traj
	l.Trajectory = &tr
	l.Costs = c.costs
	l.Total = c.total
	return l
}

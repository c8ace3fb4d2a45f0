// Package cost scores synthesized trajectories against a positioning goal
// relative to a target vehicle, and against kinematic comfort and safety limits.
//
// Every term is a pure function returning a non-negative bounded value built on
// Saturate, so terms in different physical units stay commensurable when summed
// with fixed weights.
package cost

import (
	"math"

	"github.com/cxd309/ptg-engine/internal/kinematics"
	"github.com/cxd309/ptg-engine/internal/trajectory"
	"github.com/cxd309/ptg-engine/internal/vehicle"
)

// Func is the common signature of every cost term.
//
// delta is the offset from the target vehicle's predicted state that defines the
// goal, and T is the duration requested for the maneuver.
type Func func(tr trajectory.Trajectory, target vehicle.VehicleID, delta kinematics.State6, T float64, predictions vehicle.Predictions) (float64, error)

// Saturate maps a deviation onto [0, 1): 2/(1+e^-|x|) - 1.
// It is zero at zero and strictly increasing in |x|.
func Saturate(x float64) float64 {
	return 2/(1+math.Exp(-math.Abs(x))) - 1
}

// TimeDiff penalizes trajectories whose duration differs from the requested T.
// Bounded by 1.
func TimeDiff(tr trajectory.Trajectory, _ vehicle.VehicleID, _ kinematics.State6, T float64, _ vehicle.Predictions) (float64, error) {
	return Saturate(tr.T - T), nil
}

// SDiff penalizes trajectories whose final s, ṡ and s̈ differ from the target
// vehicle's predicted state plus delta. Bounded by 3.
func SDiff(tr trajectory.Trajectory, target vehicle.VehicleID, delta kinematics.State6, T float64, predictions vehicle.Predictions) (float64, error) {
	return axisDiff(tr, tr.S, kinematics.State6.S, kinematics.State3{1, 1, 1}, target, delta, predictions)
}

// DDiff is SDiff for the lateral axis. Bounded by 3.
func DDiff(tr trajectory.Trajectory, target vehicle.VehicleID, delta kinematics.State6, T float64, predictions vehicle.Predictions) (float64, error) {
	return axisDiff(tr, tr.D, kinematics.State6.D, kinematics.State3{1, 1, 1}, target, delta, predictions)
}

// axisDiff compares the state p reaches at tr.T with the goal derived from the
// target's prediction. Each deviation is divided by its scale before saturation;
// a non-positive scale means no scaling.
func axisDiff(tr trajectory.Trajectory, p kinematics.Polynomial, axis func(kinematics.State6) kinematics.State3,
	scale kinematics.State3, target vehicle.VehicleID, delta kinematics.State6, predictions vehicle.Predictions) (float64, error) {
	predicted, err := predictions.StateAt(target, tr.T)
	if err != nil {
		return 0, err
	}
	goal := axis(predicted.Add(delta))
	diff := p.StateAt(tr.T).Sub(goal)

	total := 0.0
	for i, dx := range diff {
		if scale[i] > 0 {
			dx /= scale[i]
		}
		total += Saturate(dx)
	}
	return total, nil
}

// Package trajectory synthesizes quintic (jerk-minimizing) Frenet trajectories
// between a start state and a set of goal states, and samples those goal states
// around a nominal goal.
package trajectory

import (
	"errors"
	"fmt"
	"math"

	"github.com/cxd309/ptg-engine/internal/kinematics"
)

// MinDuration is the shortest maneuver duration (seconds) for which the
// boundary-value system is considered solvable.
const MinDuration = 1e-9

// ErrSingularSystem is returned when the boundary-value system has no unique
// solution, which happens whenever the requested duration is not positive.
var ErrSingularSystem = errors.New("singular boundary-value system")

// Goal is a target state on both axes, T seconds from now.
type Goal struct {
	S kinematics.State3 `json:"s"`
	D kinematics.State3 `json:"d"`
	T float64           `json:"t"` // seconds
}

// NewGoal builds a Goal from a full Frenet state.
func NewGoal(state kinematics.State6, t float64) Goal {
	return Goal{S: state.S(), D: state.D(), T: t}
}

// Validate reports whether the goal duration can be solved for.
func (g Goal) Validate() error {
	return checkDuration(g.T)
}

// Trajectory pairs the longitudinal and lateral polynomials solved for one goal.
type Trajectory struct {
	S kinematics.Polynomial `json:"s_coeffs"`
	D kinematics.Polynomial `json:"d_coeffs"`
	T float64               `json:"t"` // seconds
}

// StateAt returns the full Frenet state of the trajectory at time t.
func (tr Trajectory) StateAt(t float64) kinematics.State6 {
	return kinematics.JoinState(tr.S.StateAt(t), tr.D.StateAt(t))
}

// Final returns the state reached at the end of the trajectory.
func (tr Trajectory) Final() kinematics.State6 {
	return tr.StateAt(tr.T)
}

func checkDuration(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) || t <= MinDuration {
		return fmt.Errorf("duration %g s: %w", t, ErrSingularSystem)
	}
	return nil
}

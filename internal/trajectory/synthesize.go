package trajectory

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cxd309/ptg-engine/internal/kinematics"
)

// SolveAxis returns the quintic polynomial whose position, velocity and
// acceleration equal start at t = 0 and end at t = T.
//
// The first three coefficients follow directly from start. The remaining three
// solve
//
//	| T³   T⁴    T⁵   | |c3|   | end.pos - (c0 + c1·T + c2·T²) |
//	| 3T²  4T³   5T⁴  | |c4| = | end.vel - (c1 + 2·c2·T)       |
//	| 6T   12T²  20T³ | |c5|   | end.acc - 2·c2                 |
//
// by LU factorisation.
//
// Example: SolveAxis({0, 10, 0}, {10, 10, 0}, 1) = {0, 10, 0, 0, 0, 0}.
func SolveAxis(start, end kinematics.State3, T float64) (kinematics.Polynomial, error) {
	if err := checkDuration(T); err != nil {
		return kinematics.Polynomial{}, err
	}

	c0 := start.Pos()
	c1 := start.Vel()
	c2 := start.Acc() / 2

	t2 := T * T
	t3 := t2 * T
	t4 := t3 * T
	t5 := t4 * T

	a := mat.NewDense(3, 3, []float64{
		t3, t4, t5,
		3 * t2, 4 * t3, 5 * t4,
		6 * T, 12 * t2, 20 * t3,
	})
	b := mat.NewVecDense(3, []float64{
		end.Pos() - (c0 + c1*T + c2*t2),
		end.Vel() - (c1 + 2*c2*T),
		end.Acc() - 2*c2,
	})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return kinematics.Polynomial{}, fmt.Errorf("duration %g s: %v: %w", T, err, ErrSingularSystem)
	}

	p := kinematics.Polynomial{c0, c1, c2, x.AtVec(0), x.AtVec(1), x.AtVec(2)}
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return kinematics.Polynomial{}, fmt.Errorf("duration %g s: non-finite coefficient: %w", T, ErrSingularSystem)
		}
	}
	return p, nil
}

// SynthesizeGoal solves both axes for a single goal, using the goal's T for each.
func SynthesizeGoal(startS, startD kinematics.State3, goal Goal) (Trajectory, error) {
	s, err := SolveAxis(startS, goal.S, goal.T)
	if err != nil {
		return Trajectory{}, fmt.Errorf("s axis: %w", err)
	}
	d, err := SolveAxis(startD, goal.D, goal.T)
	if err != nil {
		return Trajectory{}, fmt.Errorf("d axis: %w", err)
	}
	return Trajectory{S: s, D: d, T: goal.T}, nil
}

// Synthesize returns one trajectory per goal, in goal order. The first goal that
// cannot be solved aborts the batch.
func Synthesize(startS, startD kinematics.State3, goals []Goal) ([]Trajectory, error) {
	out := make([]Trajectory, 0, len(goals))
	for i, g := range goals {
		tr, err := SynthesizeGoal(startS, startD, g)
		if err != nil {
			return nil, fmt.Errorf("goal %d: %w", i, err)
		}
		out = append(out, tr)
	}
	return out, nil
}

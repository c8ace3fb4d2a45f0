package kinematics

// State3 is the kinematic state along a single axis: position (m),
// velocity (m/s) and acceleration (m/s²).
type State3 [3]float64

func (x State3) Pos() float64 { return x[0] }
func (x State3) Vel() float64 { return x[1] }
func (x State3) Acc() float64 { return x[2] }

// Sub returns the component-wise difference x - o.
func (x State3) Sub(o State3) State3 {
	return State3{x[0] - o[0], x[1] - o[1], x[2] - o[2]}
}

// State6 is a full Frenet state: s, ṡ, s̈ followed by d, ḋ, d̈.
type State6 [6]float64

// JoinState packs longitudinal and lateral states into a State6.
func JoinState(s, d State3) State6 {
	return State6{s[0], s[1], s[2], d[0], d[1], d[2]}
}

// S returns the longitudinal part of the state.
func (x State6) S() State3 { return State3{x[0], x[1], x[2]} }

// D returns the lateral part of the state.
func (x State6) D() State3 { return State3{x[3], x[4], x[5]} }

// Add returns the component-wise sum x + o, used to apply a positioning offset
// to a predicted state.
func (x State6) Add(o State6) State6 {
	var out State6
	for i := range x {
		out[i] = x[i] + o[i]
	}
	return out
}

package kinematics

// ConstantModelName is the JSON discriminator string for the Constant model.
const ConstantModelName = "constant"

// ConstantAcceleration implements MotionModel by extrapolating a start state
// with its acceleration held fixed on both axes.
// This is the default and simplest prediction model.
//
// JSON discriminator: "model": "constant"
type ConstantAcceleration struct {
	Start State6 `json:"start_state"` // s, ṡ, s̈, d, ḋ, d̈ at t = 0
}

func (c ConstantAcceleration) StateAt(t float64) State6 {
	return JoinState(extrapolate(c.Start.S(), t), extrapolate(c.Start.D(), t))
}

func extrapolate(x State3, t float64) State3 {
	return State3{
		x.Pos() + x.Vel()*t + 0.5*x.Acc()*t*t,
		x.Vel() + x.Acc()*t,
		x.Acc(),
	}
}

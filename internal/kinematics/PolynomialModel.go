package kinematics

// PolynomialModelName is the JSON discriminator string for the Polynomial model.
const PolynomialModelName = "polynomial"

// PolynomialModel implements MotionModel from explicit per-axis polynomials, for
// example a trajectory another agent has already committed to.
//
// JSON discriminator: "model": "polynomial"
type PolynomialModel struct {
	S Polynomial `json:"s"`
	D Polynomial `json:"d"`
}

func (p PolynomialModel) StateAt(t float64) State6 {
	return JoinState(p.S.StateAt(t), p.D.StateAt(t))
}

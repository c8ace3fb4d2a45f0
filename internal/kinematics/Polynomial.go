package kinematics

// PolynomialDegree is the degree of the trajectory polynomials.
const PolynomialDegree = 5

// Polynomial holds the coefficients c0..c5 of
// p(t) = c0 + c1·t + c2·t² + c3·t³ + c4·t⁴ + c5·t⁵.
type Polynomial [PolynomialDegree + 1]float64

// Eval evaluates the polynomial at t using Horner's scheme.
func (p Polynomial) Eval(t float64) float64 {
	v := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		v = v*t + p[i]
	}
	return v
}

// Derivative returns dp/dt. The leading coefficient of the result is zero.
func (p Polynomial) Derivative() Polynomial {
	var d Polynomial
	for i := 1; i < len(p); i++ {
		d[i-1] = float64(i) * p[i]
	}
	return d
}

// StateAt returns position, velocity and acceleration at t.
func (p Polynomial) StateAt(t float64) State3 {
	v := p.Derivative()
	a := v.Derivative()
	return State3{p.Eval(t), v.Eval(t), a.Eval(t)}
}

// JerkAt returns the third derivative at t.
func (p Polynomial) JerkAt(t float64) float64 {
	return p.Derivative().Derivative().Derivative().Eval(t)
}

package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolynomialStateAt(t *testing.T) {
	// p(t) = 1 + 2t + 3t² + 4t³ + 5t⁴ + 6t⁵
	p := Polynomial{1, 2, 3, 4, 5, 6}

	assert.Equal(t, State3{1, 2, 6}, p.StateAt(0))

	got := p.StateAt(2)
	assert.InDelta(t, 1+2*2+3*4+4*8+5*16+6*32, got.Pos(), 1e-9)
	assert.InDelta(t, 2+6*2+12*4+20*8+30*16, got.Vel(), 1e-9)
	assert.InDelta(t, 6+24*2+60*4+120*8, got.Acc(), 1e-9)
	assert.InDelta(t, 24+120*2+360*4, p.JerkAt(2), 1e-9)
}

func TestPolynomialDerivativeDropsDegree(t *testing.T) {
	p := Polynomial{0, 0, 0, 0, 0, 1}
	d := p.Derivative()
	assert.Equal(t, Polynomial{0, 0, 0, 0, 5, 0}, d)
	assert.Equal(t, Polynomial{}, Polynomial{7}.Derivative())
}

func TestState6Helpers(t *testing.T) {
	x := JoinState(State3{100, 10, 0}, State3{0, 0, 0})
	delta := State6{-10, 0, 0, 4, 0, 0}

	goal := x.Add(delta)
	assert.Equal(t, State6{90, 10, 0, 4, 0, 0}, goal)
	assert.Equal(t, State3{90, 10, 0}, goal.S())
	assert.Equal(t, State3{4, 0, 0}, goal.D())
	assert.Equal(t, State3{-1, 2, 0}, State3{1, 3, 2}.Sub(State3{2, 1, 2}))
}

func TestConstantAccelerationStateAt(t *testing.T) {
	tests := []struct {
		name  string
		start State6
		t     float64
		want  State6
	}{
		{"at rest", State6{5, 0, 0, 2, 0, 0}, 3, State6{5, 0, 0, 2, 0, 0}},
		{"cruising", State6{100, 10, 0, 0, 0, 0}, 5, State6{150, 10, 0, 0, 0, 0}},
		{"accelerating", State6{0, 10, 2, 0, 1, -1}, 2, State6{24, 14, 2, 0, -1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConstantAcceleration{Start: tt.start}.StateAt(tt.t)
			assert.InDeltaSlice(t, tt.want[:], got[:], 1e-9)
		})
	}
}

func TestPolynomialModelStateAt(t *testing.T) {
	m := PolynomialModel{S: Polynomial{0, 10}, D: Polynomial{4}}
	got := m.StateAt(5)
	assert.InDeltaSlice(t, []float64{50, 10, 0, 4, 0, 0}, got[:], 1e-9)
}

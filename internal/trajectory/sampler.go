package trajectory

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cxd309/ptg-engine/internal/kinematics"
)

// Sampler perturbs nominal goals with per-component Gaussian noise.
// It draws from a single caller-owned source, so a Sampler must not be shared
// between goroutines unless the source is.
type Sampler struct {
	sigmaS kinematics.State3
	sigmaD kinematics.State3
	src    rand.Source
}

// NewSampler returns a Sampler using the given standard deviations for the
// s and d components. A spread of zero or less leaves that component unperturbed.
func NewSampler(sigmaS, sigmaD kinematics.State3, src rand.Source) *Sampler {
	return &Sampler{sigmaS: sigmaS, sigmaD: sigmaD, src: src}
}

// Perturb returns a copy of goal with every state component resampled from a
// normal distribution centred on its nominal value. T is not perturbed.
func (s *Sampler) Perturb(goal Goal) Goal {
	return Goal{
		S: s.perturbState(goal.S, s.sigmaS),
		D: s.perturbState(goal.D, s.sigmaD),
		T: goal.T,
	}
}

// Sample returns count perturbations of goal. The nominal goal itself is not included.
func (s *Sampler) Sample(goal Goal, count int) []Goal {
	if count <= 0 {
		return []Goal{}
	}
	goals := make([]Goal, count)
	for i := range goals {
		goals[i] = s.Perturb(goal)
	}
	return goals
}

func (s *Sampler) perturbState(x, sigma kinematics.State3) kinematics.State3 {
	var out kinematics.State3
	for i := range x {
		if sigma[i] <= 0 {
			out[i] = x[i]
			continue
		}
		out[i] = distuv.Normal{Mu: x[i], Sigma: sigma[i], Src: s.src}.Rand()
	}
	return out
}

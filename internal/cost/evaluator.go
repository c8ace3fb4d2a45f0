package cost

import (
	"math"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/cxd309/ptg-engine/internal/kinematics"
	"github.com/cxd309/ptg-engine/internal/trajectory"
	"github.com/cxd309/ptg-engine/internal/vehicle"
)

// Names of the registered cost terms.
const (
	NameTimeDiff   = "time_diff"
	NameSDiff      = "s_diff"
	NameDDiff      = "d_diff"
	NameEfficiency = "efficiency"
	NameBuffer     = "buffer"
	NameSpeedLimit = "speed_limit"
	NameMaxAccel   = "max_accel"
	NameMaxJerk    = "max_jerk"
	NameTotalAccel = "total_accel"
	NameTotalJerk  = "total_jerk"
)

// Limits are the physical thresholds the comfort and safety terms compare against.
type Limits struct {
	MaxAccel           float64 // m/s²
	MaxJerk            float64 // m/s³
	ExpectedAccPerSec  float64 // accumulated |acceleration| per second considered normal
	ExpectedJerkPerSec float64 // accumulated |jerk| per second considered normal
	SpeedLimit         float64 // m/s
	VehicleRadius      float64 // m, vehicles are modelled as circles
	SampleCount        int     // intervals per trajectory for peak, integral and proximity terms
}

// DefaultSampleCount is used when Limits.SampleCount is not positive.
const DefaultSampleCount = 100

// Evaluator binds the limit-dependent terms and the deviation scales used by
// the s / d terms.
type Evaluator struct {
	limits Limits
	scaleS kinematics.State3
	scaleD kinematics.State3
}

// NewEvaluator returns an Evaluator. scaleS and scaleD divide the s / d
// deviations before saturation; pass the perturbation spreads to measure
// deviations in standard deviations, or zeros for raw units.
func NewEvaluator(limits Limits, scaleS, scaleD kinematics.State3) *Evaluator {
	if limits.SampleCount <= 0 {
		limits.SampleCount = DefaultSampleCount
	}
	return &Evaluator{limits: limits, scaleS: scaleS, scaleD: scaleD}
}

// Funcs returns every cost term keyed by name.
func (e *Evaluator) Funcs() map[string]Func {
	return map[string]Func{
		NameTimeDiff:   TimeDiff,
		NameSDiff:      e.SDiff,
		NameDDiff:      e.DDiff,
		NameEfficiency: e.Efficiency,
		NameBuffer:     e.Buffer,
		NameSpeedLimit: e.SpeedLimit,
		NameMaxAccel:   e.MaxAccel,
		NameMaxJerk:    e.MaxJerk,
		NameTotalAccel: e.TotalAccel,
		NameTotalJerk:  e.TotalJerk,
	}
}

// Names returns the registered term names in sorted order.
func (e *Evaluator) Names() []string {
	names := lo.Keys(e.Funcs())
	slices.Sort(names)
	return names
}

// SDiff is the package-level SDiff with the evaluator's s scales applied.
func (e *Evaluator) SDiff(tr trajectory.Trajectory, target vehicle.VehicleID, delta kinematics.State6, _ float64, predictions vehicle.Predictions) (float64, error) {
	return axisDiff(tr, tr.S, kinematics.State6.S, e.scaleS, target, delta, predictions)
}

// DDiff is the package-level DDiff with the evaluator's d scales applied.
func (e *Evaluator) DDiff(tr trajectory.Trajectory, target vehicle.VehicleID, delta kinematics.State6, _ float64, predictions vehicle.Predictions) (float64, error) {
	return axisDiff(tr, tr.D, kinematics.State6.D, e.scaleD, target, delta, predictions)
}

// Efficiency penalizes an average longitudinal speed below the target vehicle's
// predicted speed at the end of the trajectory.
func (e *Evaluator) Efficiency(tr trajectory.Trajectory, target vehicle.VehicleID, _ kinematics.State6, _ float64, predictions vehicle.Predictions) (float64, error) {
	predicted, err := predictions.StateAt(target, tr.T)
	if err != nil {
		return 0, err
	}
	targetV := predicted.S().Vel()
	if targetV <= 0 {
		return 0, nil
	}
	avgV := (tr.S.Eval(tr.T) - tr.S.Eval(0)) / tr.T
	return Saturate(math.Max(0, targetV-avgV) / targetV), nil
}

// Buffer penalizes getting close to any predicted vehicle. It reaches 1 when
// the trajectory passes through a vehicle's centre.
func (e *Evaluator) Buffer(tr trajectory.Trajectory, _ vehicle.VehicleID, _ kinematics.State6, _ float64, predictions vehicle.Predictions) (float64, error) {
	nearest := e.nearestApproach(tr, predictions)
	if math.IsInf(nearest, 1) {
		return 0, nil
	}
	if nearest <= 0 {
		return 1, nil
	}
	return Saturate(2 * e.limits.VehicleRadius / nearest), nil
}

// SpeedLimit penalizes the amount by which peak speed exceeds the limit.
func (e *Evaluator) SpeedLimit(tr trajectory.Trajectory, _ vehicle.VehicleID, _ kinematics.State6, _ float64, _ vehicle.Predictions) (float64, error) {
	peak := floats.Max(e.sample(tr, speedAt))
	return Saturate(math.Max(0, peak-e.limits.SpeedLimit)), nil
}

// MaxAccel penalizes the amount by which peak acceleration magnitude exceeds the limit.
func (e *Evaluator) MaxAccel(tr trajectory.Trajectory, _ vehicle.VehicleID, _ kinematics.State6, _ float64, _ vehicle.Predictions) (float64, error) {
	peak := floats.Max(e.sample(tr, accelAt))
	return Saturate(math.Max(0, peak-e.limits.MaxAccel)), nil
}

// MaxJerk penalizes the amount by which peak jerk magnitude exceeds the limit.
func (e *Evaluator) MaxJerk(tr trajectory.Trajectory, _ vehicle.VehicleID, _ kinematics.State6, _ float64, _ vehicle.Predictions) (float64, error) {
	peak := floats.Max(e.sample(tr, jerkAt))
	return Saturate(math.Max(0, peak-e.limits.MaxJerk)), nil
}

// TotalAccel penalizes accumulated acceleration per second relative to the expected rate.
func (e *Evaluator) TotalAccel(tr trajectory.Trajectory, _ vehicle.VehicleID, _ kinematics.State6, _ float64, _ vehicle.Predictions) (float64, error) {
	return e.perSecond(tr, accelAt, e.limits.ExpectedAccPerSec), nil
}

// TotalJerk penalizes accumulated jerk per second relative to the expected rate.
func (e *Evaluator) TotalJerk(tr trajectory.Trajectory, _ vehicle.VehicleID, _ kinematics.State6, _ float64, _ vehicle.Predictions) (float64, error) {
	return e.perSecond(tr, jerkAt, e.limits.ExpectedJerkPerSec), nil
}

func (e *Evaluator) perSecond(tr trajectory.Trajectory, f func(trajectory.Trajectory, float64) float64, expected float64) float64 {
	xs := e.sample(tr, f)
	dt := tr.T / float64(len(xs)-1)
	total := floats.Sum(xs) * dt
	if expected <= 0 {
		return Saturate(total / tr.T)
	}
	return Saturate(total / tr.T / expected)
}

// sample evaluates f at SampleCount+1 evenly spaced times over [0, T].
func (e *Evaluator) sample(tr trajectory.Trajectory, f func(trajectory.Trajectory, float64) float64) []float64 {
	n := e.limits.SampleCount
	xs := make([]float64, n+1)
	for i := range xs {
		xs[i] = f(tr, tr.T*float64(i)/float64(n))
	}
	return xs
}

// nearestApproach returns the closest distance between the trajectory and any
// predicted vehicle, or +Inf when there are none.
func (e *Evaluator) nearestApproach(tr trajectory.Trajectory, predictions vehicle.Predictions) float64 {
	nearest := math.Inf(1)
	for _, v := range predictions {
		dists := e.sample(tr, func(tr trajectory.Trajectory, t float64) float64 {
			other := v.StateAt(t)
			return math.Hypot(tr.S.Eval(t)-other[0], tr.D.Eval(t)-other[3])
		})
		nearest = math.Min(nearest, floats.Min(dists))
	}
	return nearest
}

func speedAt(tr trajectory.Trajectory, t float64) float64 {
	x := tr.StateAt(t)
	return math.Hypot(x[1], x[4])
}

func accelAt(tr trajectory.Trajectory, t float64) float64 {
	x := tr.StateAt(t)
	return math.Hypot(x[2], x[5])
}

func jerkAt(tr trajectory.Trajectory, t float64) float64 {
	return math.Hypot(tr.S.JerkAt(t), tr.D.JerkAt(t))
}

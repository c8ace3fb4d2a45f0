// Package kinematics defines the Frenet-frame state types shared by the planner,
// the quintic Polynomial used to describe motion along one axis, and the
// MotionModel interface through which other vehicles' future states are predicted.
//
// Adding a new prediction model requires only implementing MotionModel and
// registering it in the JSON discriminator in the vehicle package; the planner
// itself never needs to change.
package kinematics

// MotionModel is the prediction contract every vehicle model must satisfy.
// Positions are in metres, velocities in m/s, accelerations in m/s² and time in
// seconds measured from the start of the current planning cycle.
type MotionModel interface {
	// StateAt returns the predicted (s, ṡ, s̈, d, ḋ, d̈) state t seconds from now.
	StateAt(t float64) State6
}

// Package vehicle defines the other road users seen by the planner and the
// Predictions collection the cost functions query.
package vehicle

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cxd309/ptg-engine/internal/kinematics"
)

// VehicleID is a unique string identifier for a vehicle.
type VehicleID = string

// ErrUnknownVehicle is returned when a vehicle is looked up that has no prediction.
var ErrUnknownVehicle = errors.New("unknown vehicle")

// Vehicle is another road user together with its predicted motion.
// The prediction is encapsulated by the Model field; adding a new model only
// requires implementing kinematics.MotionModel and registering it in
// UnmarshalJSON below. No planner code changes are needed.
type Vehicle struct {
	ID    VehicleID              `json:"vehicle_id"`
	Model kinematics.MotionModel `json:"-"` // set by UnmarshalJSON
}

// StateAt returns the vehicle's predicted state t seconds from now.
func (v Vehicle) StateAt(t float64) kinematics.State6 {
	return v.Model.StateAt(t)
}

// modelDisc is the minimum JSON structure needed to read the model discriminator.
type modelDisc struct {
	Model string `json:"model"`
}

// vehicleJSON is the raw JSON shape of a Vehicle, before the prediction model is resolved.
type vehicleJSON struct {
	ID         VehicleID       `json:"vehicle_id"`
	Prediction json.RawMessage `json:"prediction"`
}

// UnmarshalJSON implements json.Unmarshaler for Vehicle.
// The "prediction" field must contain a "model" discriminator key that selects
// the concrete implementation; the rest of the prediction object is forwarded to
// that implementation's own unmarshaler.
//
// Supported models:
//   - "constant": constant-acceleration extrapolation of start_state.
//   - "polynomial": explicit s / d coefficient vectors.
func (v *Vehicle) UnmarshalJSON(data []byte) error {
	var aux vehicleJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.ID = aux.ID

	if len(aux.Prediction) == 0 {
		return fmt.Errorf("vehicle %q: missing \"prediction\" field", v.ID)
	}

	var disc modelDisc
	if err := json.Unmarshal(aux.Prediction, &disc); err != nil {
		return fmt.Errorf("vehicle %q: reading prediction model discriminator: %w", v.ID, err)
	}

	switch disc.Model {
	case kinematics.ConstantModelName:
		var m kinematics.ConstantAcceleration
		if err := json.Unmarshal(aux.Prediction, &m); err != nil {
			return fmt.Errorf("vehicle %q: parsing constant prediction: %w", v.ID, err)
		}
		v.Model = m
	case kinematics.PolynomialModelName:
		var m kinematics.PolynomialModel
		if err := json.Unmarshal(aux.Prediction, &m); err != nil {
			return fmt.Errorf("vehicle %q: parsing polynomial prediction: %w", v.ID, err)
		}
		v.Model = m
	default:
		return fmt.Errorf("vehicle %q: unknown prediction model %q", v.ID, disc.Model)
	}
	return nil
}

// MarshalJSON implements json.Marshaler for Vehicle, writing the model discriminator
// alongside the model's own fields.
func (v Vehicle) MarshalJSON() ([]byte, error) {
	var name string
	switch v.Model.(type) {
	case kinematics.ConstantAcceleration:
		name = kinematics.ConstantModelName
	case kinematics.PolynomialModel:
		name = kinematics.PolynomialModelName
	default:
		return nil, fmt.Errorf("vehicle %q: unsupported prediction model %T", v.ID, v.Model)
	}
	body, err := json.Marshal(v.Model)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["model"], _ = json.Marshal(name)
	pred, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return json.Marshal(vehicleJSON{ID: v.ID, Prediction: pred})
}

// Predictions maps vehicle IDs to their predicted motion for one planning cycle.
type Predictions map[VehicleID]Vehicle

// NewPredictions indexes vehicles by ID. Returns an error on duplicate IDs.
func NewPredictions(vehicles []Vehicle) (Predictions, error) {
	p := make(Predictions, len(vehicles))
	for _, v := range vehicles {
		if _, exists := p[v.ID]; exists {
			return nil, fmt.Errorf("vehicle %q already exists", v.ID)
		}
		if v.Model == nil {
			return nil, fmt.Errorf("vehicle %q: no prediction model", v.ID)
		}
		p[v.ID] = v
	}
	return p, nil
}

// Lookup returns the vehicle with the given ID.
func (p Predictions) Lookup(id VehicleID) (Vehicle, error) {
	v, ok := p[id]
	if !ok {
		return Vehicle{}, fmt.Errorf("vehicle %q: %w", id, ErrUnknownVehicle)
	}
	return v, nil
}

// StateAt returns the predicted state of vehicle id at time t.
func (p Predictions) StateAt(id VehicleID, t float64) (kinematics.State6, error) {
	v, err := p.Lookup(id)
	if err != nil {
		return kinematics.State6{}, err
	}
	return v.StateAt(t), nil
}

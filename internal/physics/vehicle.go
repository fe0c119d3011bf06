package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/desertbus/internal/dynamo"
)

// SteeringMode selects how steer input feeds the heading.
type SteeringMode int

const (
	// SteeringAccumulate adds each tick's steer to the heading; it persists until countered.
	SteeringAccumulate SteeringMode = iota
	// SteeringAbsolute sets the heading from the current tick's steer only.
	SteeringAbsolute
)

func (m SteeringMode) String() string {
	if m == SteeringAbsolute {
		return "absolute"
	}
	return "accumulate"
}

// ParseSteeringMode accepts "accumulate" (or empty) and "absolute".
func ParseSteeringMode(s string) (SteeringMode, error) {
	switch s {
	case "", "accumulate":
		return SteeringAccumulate, nil
	case "absolute":
		return SteeringAbsolute, nil
	}
	return SteeringAccumulate, fmt.Errorf("%w: steering mode %q", dynamo.ErrParameterBounds, s)
}

// MaxHeading bounds the heading so the vehicle never drives backwards.
const MaxHeading = math.Pi / 2

// Params are the vehicle constants. Speeds are in distance units per tick.
type Params struct {
	AngleDelta       float64
	AngleLean        float64
	SpeedDelta       float64
	SpeedMax         float64
	SpeedOverreach   float64
	SpeedDrag        float64
	SpeedDragOffroad float64
	RoadWidth        int
	VehicleWidth     int
	TripLength       float64
	Steering         SteeringMode
}

// DefaultParams returns the stock Desert Bus constants.
func DefaultParams() Params {
	return Params{
		AngleDelta:       math.Pi / 2000,
		AngleLean:        math.Pi / 20000,
		SpeedDelta:       0.01,
		SpeedMax:         2,
		SpeedOverreach:   0.2,
		SpeedDrag:        0.005,
		SpeedDragOffroad: 0.05,
		RoadWidth:        20,
		VehicleWidth:     2,
		TripLength:       1152000,
		Steering:         SteeringAccumulate,
	}
}

// Validate reports the first out-of-range constant, wrapping ErrParameterBounds.
func (p Params) Validate() error {
	switch {
	case p.SpeedMax <= 0:
		return fmt.Errorf("%w: speed_max must be positive, got %f", dynamo.ErrParameterBounds, p.SpeedMax)
	case p.SpeedDelta <= 0:
		return fmt.Errorf("%w: speed_delta must be positive, got %f", dynamo.ErrParameterBounds, p.SpeedDelta)
	case p.SpeedOverreach < 0:
		return fmt.Errorf("%w: speed_overreach must not be negative", dynamo.ErrParameterBounds)
	case p.SpeedDrag < 0 || p.SpeedDragOffroad < 0:
		return fmt.Errorf("%w: drag must not be negative", dynamo.ErrParameterBounds)
	case p.RoadWidth <= 0 || p.RoadWidth%2 != 0:
		return fmt.Errorf("%w: road_width must be a positive even number, got %d", dynamo.ErrParameterBounds, p.RoadWidth)
	case p.VehicleWidth <= 0 || p.VehicleWidth > p.RoadWidth:
		return fmt.Errorf("%w: vehicle width %d does not fit road width %d", dynamo.ErrParameterBounds, p.VehicleWidth, p.RoadWidth)
	case p.TripLength <= 0:
		return fmt.Errorf("%w: trip_length must be positive", dynamo.ErrParameterBounds)
	}
	return nil
}

// Vehicle is the pure tick transition for one vehicle configuration.
type Vehicle struct {
	p Params
}

// NewVehicle returns a vehicle with the given constants. Call Validate first.
func NewVehicle(p Params) *Vehicle {
	return &Vehicle{p: p}
}

func (v *Vehicle) Params() Params { return v.p }

// Step evaluates one tick. On a crash the input state is returned unchanged.
func (v *Vehicle) Step(s dynamo.State, in dynamo.Intent) (dynamo.State, dynamo.Outcome) {
	in = in.Clamp()
	next := s

	switch v.p.Steering {
	case SteeringAbsolute:
		next.Heading = float64(in.Steer) * v.p.AngleDelta
	default:
		next.Heading += float64(in.Steer) * v.p.AngleDelta
	}

	next.Speed += float64(in.Throttle) * v.p.SpeedDelta
	next.Speed = clamp(next.Speed, 0, v.p.SpeedMax+v.p.SpeedOverreach)

	if v.OnRoad(s.Lateral) {
		next.Speed = math.Max(0, next.Speed-v.p.SpeedDrag)
	} else {
		next.Speed -= v.p.SpeedDragOffroad
		if next.Speed < 0 {
			return s, dynamo.Crashed
		}
	}

	next.Heading = clamp(next.Heading+v.p.AngleLean, -MaxHeading, MaxHeading)

	eff := v.EffectiveSpeed(next.Speed)
	sin, cos := math.Sincos(next.Heading)
	next.Lateral += sin * eff
	next.Distance += cos * eff

	if next.Distance >= v.p.TripLength {
		return next, dynamo.Finished
	}
	return next, dynamo.Continue
}

// OnRoad reports whether the glyph spanning [lateral, lateral+width-1]
// lies inside the drawn road interior (-RoadWidth/2, RoadWidth/2].
func (v *Vehicle) OnRoad(lateral float64) bool {
	half := float64(v.p.RoadWidth / 2)
	left := lateral
	right := lateral + float64(v.p.VehicleWidth) - 1
	return left >= -half+1 && right <= half
}

// RightmostOnRoad is the largest lateral position still classified on-road.
func (v *Vehicle) RightmostOnRoad() float64 {
	return float64(v.p.RoadWidth/2 - v.p.VehicleWidth + 1)
}

// LeftmostOnRoad is the smallest lateral position still classified on-road.
func (v *Vehicle) LeftmostOnRoad() float64 {
	return float64(-v.p.RoadWidth/2 + 1)
}

// EffectiveSpeed caps the internal speed at SpeedMax; overreach never adds velocity.
func (v *Vehicle) EffectiveSpeed(speed float64) float64 {
	return math.Min(speed, v.p.SpeedMax)
}

func (v *Vehicle) GetParams() map[string]float64 {
	return map[string]float64{
		"angle_delta":        v.p.AngleDelta,
		"angle_lean":         v.p.AngleLean,
		"speed_delta":        v.p.SpeedDelta,
		"speed_max":          v.p.SpeedMax,
		"speed_overreach":    v.p.SpeedOverreach,
		"speed_drag":         v.p.SpeedDrag,
		"speed_drag_offroad": v.p.SpeedDragOffroad,
		"trip_length":        v.p.TripLength,
	}
}

func (v *Vehicle) SetParam(name string, value float64) error {
	switch name {
	case "angle_delta":
		v.p.AngleDelta = value
	case "angle_lean":
		v.p.AngleLean = value
	case "speed_delta":
		v.p.SpeedDelta = value
	case "speed_max":
		v.p.SpeedMax = value
	case "speed_overreach":
		v.p.SpeedOverreach = value
	case "speed_drag":
		v.p.SpeedDrag = value
	case "speed_drag_offroad":
		v.p.SpeedDragOffroad = value
	case "trip_length":
		v.p.TripLength = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

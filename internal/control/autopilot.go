package control

import (
	"fmt"
	"math"

	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/physics"
)

type AutopilotGains struct {
	Kp, Ki, Kd float64
	// Cruise is the fraction of SpeedMax below which the autopilot accelerates.
	Cruise float64
}

// Autopilot turns lateral error into a desired heading and steers toward it.
type Autopilot struct {
	params  physics.Params
	lane    *PID
	cruise  float64
	tick    int
	pending []dynamo.Signal
}

func NewAutopilot(p physics.Params, g AutopilotGains) *Autopilot {
	// midpoint of the legal left-edge positions
	veh := physics.NewVehicle(p)
	target := (veh.LeftmostOnRoad() + veh.RightmostOnRoad()) / 2
	return &Autopilot{
		params: p,
		lane:   NewPID(g.Kp, g.Ki, g.Kd, target),
		cruise: g.Cruise,
	}
}

// Sync queues this tick's signals from the current state.
func (a *Autopilot) Sync(s dynamo.State) {
	a.pending = a.pending[:0]

	want := clampHeading(a.lane.Compute(s.Lateral, float64(a.tick)))
	a.tick++

	// predicted heading if we leave the wheel alone this tick
	coast := s.Heading + a.params.AngleLean
	if a.params.Steering == physics.SteeringAbsolute {
		coast = a.params.AngleLean
	}
	deadband := a.params.AngleDelta / 2
	switch {
	case want-coast > deadband:
		a.pending = append(a.pending, dynamo.SignalRight)
	case coast-want > deadband:
		a.pending = append(a.pending, dynamo.SignalLeft)
	}

	if s.Speed < a.cruise*a.params.SpeedMax {
		a.pending = append(a.pending, dynamo.SignalUp)
	}
}

func (a *Autopilot) Poll() (dynamo.Signal, bool) {
	if len(a.pending) == 0 {
		return 0, false
	}
	sig := a.pending[0]
	a.pending = a.pending[1:]
	return sig, true
}

// Reset forgets controller history, e.g. after a crash.
func (a *Autopilot) Reset() {
	a.lane.Reset()
	a.tick = 0
	a.pending = a.pending[:0]
}

func (a *Autopilot) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":     a.lane.Kp,
		"ki":     a.lane.Ki,
		"kd":     a.lane.Kd,
		"target": a.lane.Target,
		"cruise": a.cruise,
	}
}

func (a *Autopilot) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		a.lane.Kp = value
	case "ki":
		a.lane.Ki = value
	case "kd":
		a.lane.Kd = value
	case "target":
		a.lane.Target = value
	case "cruise":
		a.cruise = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

func clampHeading(h float64) float64 {
	return math.Max(-physics.MaxHeading/2, math.Min(physics.MaxHeading/2, h))
}

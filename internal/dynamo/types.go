package dynamo

import (
	"fmt"
	"math"
)

// State is the single mutable simulation entity of an attempt.
type State struct {
	Speed    float64 // scalar magnitude, never negative
	Heading  float64 // radians from straight ahead
	Lateral  float64 // signed offset from the road centerline
	Distance float64 // trip progress, non-decreasing
}

func (s State) IsValid() bool {
	for _, v := range []float64{s.Speed, s.Heading, s.Lateral, s.Distance} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Speed >= 0
}

func (s State) String() string {
	return fmt.Sprintf("speed=%.3f heading=%.4f lateral=%.3f distance=%.1f",
		s.Speed, s.Heading, s.Lateral, s.Distance)
}

// Signal is one discrete event delivered by an input source.
type Signal int

const (
	SignalQuit Signal = iota
	SignalLeft
	SignalRight
	SignalUp
	SignalDown
)

func (s Signal) String() string {
	switch s {
	case SignalQuit:
		return "quit"
	case SignalLeft:
		return "left"
	case SignalRight:
		return "right"
	case SignalUp:
		return "up"
	case SignalDown:
		return "down"
	}
	return fmt.Sprintf("signal(%d)", int(s))
}

// Intent is the per-tick control snapshot. Steer -1 is left, Throttle -1 is brake.
type Intent struct {
	Steer    int
	Throttle int
}

// Apply overwrites the axis the signal belongs to. Quit leaves the intent alone.
func (in Intent) Apply(sig Signal) Intent {
	switch sig {
	case SignalLeft:
		in.Steer = -1
	case SignalRight:
		in.Steer = 1
	case SignalUp:
		in.Throttle = 1
	case SignalDown:
		in.Throttle = -1
	}
	return in
}

func (in Intent) Validate() error {
	if in.Steer < -1 || in.Steer > 1 || in.Throttle < -1 || in.Throttle > 1 {
		return fmt.Errorf("%w: steer=%d throttle=%d", ErrInvalidIntent, in.Steer, in.Throttle)
	}
	return nil
}

// Clamp folds any hand-built intent back into {-1, 0, 1} per axis.
func (in Intent) Clamp() Intent {
	return Intent{Steer: sign(in.Steer), Throttle: sign(in.Throttle)}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Outcome is the result of a single physics tick.
type Outcome int

const (
	Continue Outcome = iota
	Crashed
	Finished
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Crashed:
		return "crashed"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Phase is the session-level state machine. Driving is initial; Crashed
// returns to Driving after the pause; Finished and Quit end the session.
type Phase int

const (
	PhaseDriving Phase = iota
	PhaseCrashed
	PhaseFinished
	PhaseQuit
)

func (p Phase) String() string {
	switch p {
	case PhaseDriving:
		return "driving"
	case PhaseCrashed:
		return "crashed"
	case PhaseFinished:
		return "finished"
	case PhaseQuit:
		return "quit"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseQuit
}

// Stats are the session counters. They survive crashes, not process restarts.
type Stats struct {
	Trips   int
	Crashes int
}

// System advances a state by one tick.
type System interface {
	Step(s State, in Intent) (State, Outcome)
}

type Metric interface {
	Name() string
	Observe(s State, in Intent)
	Value() float64
	Reset()
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

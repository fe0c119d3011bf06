package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/desertbus/internal/config"
	"github.com/san-kum/desertbus/internal/control"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/game"
	"github.com/san-kum/desertbus/internal/metrics"
	"github.com/san-kum/desertbus/internal/physics"
)

// Trace is the tick-by-tick record of a headless drive.
type Trace struct {
	States  []dynamo.State
	Intents []dynamo.Intent
	Outcome dynamo.Outcome
	Crashes int
	Ticks   int
	Quit    bool
	Metrics map[string]float64
}

func (t *Trace) Final() dynamo.State {
	return t.States[len(t.States)-1]
}

// Series extracts one state field per recorded state.
func (t *Trace) Series(field func(dynamo.State) float64) []float64 {
	out := make([]float64, len(t.States))
	for i, s := range t.States {
		out[i] = field(s)
	}
	return out
}

// Run drives veh from rest for at most maxTicks without a screen or pacing.
func Run(ctx context.Context, veh *physics.Vehicle, src game.InputSource, maxTicks int, ms []dynamo.Metric) (*Trace, error) {
	return RunFrom(ctx, veh, src, dynamo.State{}, maxTicks, ms)
}

// RunFrom is Run with a chosen first state. Crashes restart from rest,
// the same as in the game, but without the pause.
func RunFrom(ctx context.Context, veh *physics.Vehicle, src game.InputSource, s0 dynamo.State, maxTicks int, ms []dynamo.Metric) (*Trace, error) {
	if maxTicks <= 0 {
		return nil, fmt.Errorf("max ticks must be positive, got %d", maxTicks)
	}

	tr := &Trace{
		States:  make([]dynamo.State, 0, maxTicks+1),
		Intents: make([]dynamo.Intent, 0, maxTicks),
	}
	metrics.ResetAll(ms)

	s := s0
	tr.States = append(tr.States, s)

	for tr.Ticks < maxTicks {
		select {
		case <-ctx.Done():
			return tr, ctx.Err()
		default:
		}

		if sa, ok := src.(game.StateAware); ok {
			sa.Sync(s)
		}
		in, quit := drain(src)
		if quit {
			tr.Quit = true
			break
		}

		next, outcome := veh.Step(s, in)
		tr.Ticks++
		if !next.IsValid() {
			return tr, &dynamo.TickError{Tick: tr.Ticks, State: next, Wrapped: dynamo.ErrParameterBounds}
		}
		for _, m := range ms {
			m.Observe(next, in)
		}

		switch outcome {
		case dynamo.Crashed:
			tr.Crashes++
			next = dynamo.State{}
			if r, ok := src.(game.Resetter); ok {
				r.Reset()
			}
		case dynamo.Finished:
			tr.Outcome = dynamo.Finished
		}

		s = next
		tr.States = append(tr.States, s)
		tr.Intents = append(tr.Intents, in)
		if tr.Outcome == dynamo.Finished {
			break
		}
	}

	tr.Metrics = metrics.Snapshot(ms)
	return tr, nil
}

func drain(src game.InputSource) (dynamo.Intent, bool) {
	var in dynamo.Intent
	for sig, ok := src.Poll(); ok; sig, ok = src.Poll() {
		if sig == dynamo.SignalQuit {
			return in, true
		}
		in = in.Apply(sig)
	}
	return in, false
}

// RunScenario drives a scenario with the physics of cfg, its params
// overridden by the scenario's.
func RunScenario(ctx context.Context, sc *Scenario, cfg *config.Config) (*Trace, error) {
	veh := physics.NewVehicle(cfg.PhysicsParams())
	for name, v := range sc.Params {
		if err := veh.SetParam(name, v); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}
	if err := veh.Params().Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	var src game.InputSource = sc.Script()
	if sc.Autopilot {
		src = control.NewAutopilot(veh.Params(), Gains(cfg))
	}
	return Run(ctx, veh, src, sc.Ticks(), metrics.Default(veh.OnRoad))
}

// Gains maps the autopilot config section onto controller gains.
func Gains(cfg *config.Config) control.AutopilotGains {
	return control.AutopilotGains{
		Kp:     cfg.Autopilot.Kp,
		Ki:     cfg.Autopilot.Ki,
		Kd:     cfg.Autopilot.Kd,
		Cruise: cfg.Autopilot.Cruise,
	}
}

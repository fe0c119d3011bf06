package automation

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/desertbus/internal/analysis"
	"github.com/san-kum/desertbus/internal/control"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/metrics"
	"github.com/san-kum/desertbus/internal/physics"
)

// ParameterSweep varies one vehicle or autopilot parameter across a range
type ParameterSweep struct {
	Param    string
	Min      float64
	Max      float64
	Steps    int
	MaxTicks int
}

// SweepResult holds one autopilot drive of a sweep
type SweepResult struct {
	Value    float64
	Outcome  dynamo.Outcome
	Crashes  int
	Ticks    int
	Distance float64
	// WeavePeriod is the dominant lateral oscillation period in ticks, 0 if none.
	WeavePeriod float64
	Metrics     map[string]float64
}

// RunSweep executes a parameter sweep, one fresh vehicle and autopilot per value
func RunSweep(ctx context.Context, base physics.Params, gains control.AutopilotGains, sweep ParameterSweep) ([]SweepResult, error) {
	if sweep.Steps < 1 {
		return nil, fmt.Errorf("sweep steps must be positive, got %d", sweep.Steps)
	}

	step := 0.0
	if sweep.Steps > 1 {
		step = (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
	}

	results := make([]SweepResult, 0, sweep.Steps)
	for i := 0; i < sweep.Steps; i++ {
		val := sweep.Min + float64(i)*step

		veh, ap, err := sweepPair(base, gains, sweep.Param, val)
		if err != nil {
			return nil, err
		}

		tr, err := Run(ctx, veh, ap, sweep.MaxTicks, metrics.Default(veh.OnRoad))
		if err != nil {
			return nil, err
		}

		weave, _ := analysis.DominantPeriod(tr.Series(lateral))
		results = append(results, SweepResult{
			Value:       val,
			Outcome:     tr.Outcome,
			Crashes:     tr.Crashes,
			Ticks:       tr.Ticks,
			Distance:    tr.Final().Distance,
			WeavePeriod: weave,
			Metrics:     tr.Metrics,
		})
	}
	return results, nil
}

func lateral(s dynamo.State) float64 { return s.Lateral }

// sweepPair applies val to the vehicle when it knows the name, and
// otherwise to the autopilot. The autopilot is always built from the
// vehicle's final params.
func sweepPair(base physics.Params, gains control.AutopilotGains, name string, val float64) (*physics.Vehicle, *control.Autopilot, error) {
	veh := physics.NewVehicle(base)
	err := veh.SetParam(name, val)
	if err == nil {
		return veh, control.NewAutopilot(veh.Params(), gains), nil
	}
	if !errors.Is(err, dynamo.ErrUnknownParam) {
		return nil, nil, err
	}

	ap := control.NewAutopilot(veh.Params(), gains)
	if err := ap.SetParam(name, val); err != nil {
		return nil, nil, fmt.Errorf("sweep %s: %w", name, err)
	}
	return veh, ap, nil
}

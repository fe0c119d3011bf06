package automation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/san-kum/desertbus/internal/control"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/metrics"
	"github.com/san-kum/desertbus/internal/physics"
	"golang.org/x/sync/errgroup"
)

// MonteCarloConfig defines Monte Carlo trial parameters
type MonteCarloConfig struct {
	Trials       int
	Perturbation float64 // max initial heading offset, radians
	MaxTicks     int
	Seed         int64
	Workers      int
}

// MonteCarloResult holds one autopilot trial
type MonteCarloResult struct {
	TrialID     int
	InitHeading float64
	Outcome     dynamo.Outcome
	Crashes     int
	Ticks       int
	Distance    float64
	MaxDrift    float64
}

// RunMonteCarlo runs trials in parallel with randomly perturbed initial headings.
// Perturbations are drawn up front, so results depend only on the seed.
func RunMonteCarlo(ctx context.Context, base physics.Params, gains control.AutopilotGains, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0))
	headings := make([]float64, cfg.Trials)
	for i := range headings {
		headings[i] = (rng.Float64() - 0.5) * 2 * cfg.Perturbation
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]MonteCarloResult, cfg.Trials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for trial := 0; trial < cfg.Trials; trial++ {
		g.Go(func() error {
			veh := physics.NewVehicle(base)
			ap := control.NewAutopilot(base, gains)
			drift := metrics.NewMaxDrift()

			s0 := dynamo.State{Heading: headings[trial]}
			tr, err := RunFrom(ctx, veh, ap, s0, cfg.MaxTicks, []dynamo.Metric{drift})
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}

			results[trial] = MonteCarloResult{
				TrialID:     trial,
				InitHeading: headings[trial],
				Outcome:     tr.Outcome,
				Crashes:     tr.Crashes,
				Ticks:       tr.Ticks,
				Distance:    tr.Final().Distance,
				MaxDrift:    drift.Value(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloStats counts trials that arrived and trials that crashed at least once
func MonteCarloStats(results []MonteCarloResult) (finished, crashed int) {
	for _, r := range results {
		if r.Outcome == dynamo.Finished {
			finished++
		}
		if r.Crashes > 0 {
			crashed++
		}
	}
	return
}

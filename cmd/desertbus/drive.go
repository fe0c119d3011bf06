package main

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/desertbus/internal/config"
	"github.com/san-kum/desertbus/internal/control"
	"github.com/san-kum/desertbus/internal/game"
	"github.com/san-kum/desertbus/internal/logging"
	"github.com/san-kum/desertbus/internal/metrics"
	"github.com/san-kum/desertbus/internal/physics"
	"github.com/san-kum/desertbus/internal/term"
	"github.com/san-kum/desertbus/internal/viz"
	"github.com/spf13/cobra"
)

// plot samples per second of driving
const recordEvery = 20

func runDrive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	th := viz.GetTheme(cfg.Theme)
	started := time.Now()

	if !noIntro {
		ok, err := viz.RunIntro(th, viz.IntroInfo{
			Preset:    preset,
			Seed:      cfg.Seed,
			Autopilot: autopilot,
			Miles:     cfg.Physics.TripLength * cfg.MilesPerUnit(),
		})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	log, closer, err := logging.Setup(cfg.Log.Dir, cfg.Log.Level, started)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := interruptContext(cmd)
	defer stop()

	t, err := term.Open(th, cfg.Glyph)
	if err != nil {
		return err
	}

	loop, rec := newDriveLoop(cfg, t, started)
	loop.SetLogger(log)
	res, runErr := loop.Run(ctx)
	t.Close()

	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("drive: %w", runErr)
	}

	fmt.Println(viz.Summary(th, viz.SessionSummary{
		Phase:     res.Phase,
		Stats:     res.Stats,
		Ticks:     res.Ticks,
		Miles:     res.Last.Distance * cfg.MilesPerUnit(),
		TripMiles: cfg.Physics.TripLength * cfg.MilesPerUnit(),
		Metrics:   res.Metrics,
		Speed:     tail(rec.Speed, 60),
		Lateral:   tail(rec.Lateral, 60),
	}))
	return nil
}

func newDriveLoop(cfg *config.Config, t *term.Terminal, started time.Time) (*game.Loop, *game.Recorder) {
	params := cfg.PhysicsParams()
	veh := physics.NewVehicle(params)
	sess := game.NewSession(cfg.Seed, cfg.Background, started)

	var input game.InputSource = t
	if autopilot {
		input = &overridable{
			keys: t,
			auto: control.NewAutopilot(params, control.AutopilotGains{
				Kp:     cfg.Autopilot.Kp,
				Ki:     cfg.Autopilot.Ki,
				Kd:     cfg.Autopilot.Kd,
				Cruise: cfg.Autopilot.Cruise,
			}),
		}
	}

	loop := game.NewLoop(sess, veh, input, t, game.OptionsFromConfig(cfg))
	for _, m := range metrics.Default(veh.OnRoad) {
		loop.AddMetric(m)
	}
	rec := game.NewRecorder(recordEvery)
	loop.AddObserver(rec)
	return loop, rec
}

func tail(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

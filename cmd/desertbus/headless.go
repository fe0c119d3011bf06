package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/desertbus/internal/analysis"
	"github.com/san-kum/desertbus/internal/automation"
	"github.com/san-kum/desertbus/internal/config"
	"github.com/san-kum/desertbus/internal/control"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/export"
	"github.com/san-kum/desertbus/internal/game"
	"github.com/san-kum/desertbus/internal/metrics"
	"github.com/san-kum/desertbus/internal/physics"
	"github.com/san-kum/desertbus/internal/terrain"
	"github.com/san-kum/desertbus/internal/viz"
	"github.com/spf13/cobra"
)

func runSim(cmd *cobra.Command, args []string) error {
	ctx, stop := interruptContext(cmd)
	defer stop()

	var (
		tr  *automation.Trace
		cfg *config.Config
		err error
	)

	if len(args) == 1 {
		sc, err := automation.LoadScenario(args[0])
		if err != nil {
			return fmt.Errorf("failed to load scenario: %w", err)
		}
		if sc.Preset != "" && !cmd.Flags().Changed("preset") {
			preset = sc.Preset
		}
		if cfg, err = loadConfig(cmd); err != nil {
			return err
		}
		if sc.MaxTicks == 0 && cmd.Flags().Changed("ticks") {
			sc.MaxTicks = simTicks
		}
		fmt.Printf("scenario %s: %s\n", sc.Name, sc.Description)
		if tr, err = automation.RunScenario(ctx, sc, cfg); err != nil {
			return err
		}
	} else {
		if cfg, err = loadConfig(cmd); err != nil {
			return err
		}
		params := cfg.PhysicsParams()
		veh := physics.NewVehicle(params)
		var src game.InputSource = control.None{}
		if simAutopilot {
			src = control.NewAutopilot(params, automation.Gains(cfg))
		}
		if tr, err = automation.Run(ctx, veh, src, simTicks, metrics.Default(veh.OnRoad)); err != nil {
			return err
		}
	}

	final := tr.Final()
	fmt.Printf("outcome   %s after %d ticks\n", tr.Outcome, tr.Ticks)
	fmt.Printf("crashes   %d\n", tr.Crashes)
	fmt.Printf("odometer  %.2fmi\n", final.Distance*cfg.MilesPerUnit())
	fmt.Printf("final     %s\n", final)
	if period, ok := analysis.DominantPeriod(tr.Series(func(s dynamo.State) float64 { return s.Lateral })); ok {
		fmt.Printf("weave     every %.0f ticks\n", period)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range sortedKeys(tr.Metrics) {
		fmt.Fprintf(w, "%s\t%.4f\n", name, tr.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if err := writeTrace(tr, cfg); err != nil {
		return err
	}

	if plot {
		fmt.Println()
		fmt.Println(viz.Plot(downsample(tr.Series(func(s dynamo.State) float64 { return s.Speed }), 60), "speed"))
		fmt.Println()
		fmt.Println(viz.Plot(downsample(tr.Series(func(s dynamo.State) float64 { return s.Lateral }), 60), "lateral"))
	}
	return nil
}

func writeTrace(tr *automation.Trace, cfg *config.Config) error {
	if csvOut != "" {
		f, err := os.Create(csvOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCSV(f, tr.States, tr.Intents); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if svgOut != "" {
		th := viz.GetTheme(cfg.Theme)
		svg := export.RouteSVG(tr.States, cfg.Physics.RoadWidth, 240, 800, string(th.Road), string(th.Vehicle))
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext(cmd)
	defer stop()

	res, err := automation.RunSweep(ctx, cfg.PhysicsParams(), automation.Gains(cfg), automation.ParameterSweep{
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		Steps:    sweepSteps,
		MaxTicks: sweepTicks,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tOUTCOME\tCRASHES\tTICKS\tMILES\tMAX DRIFT\tWEAVE\n", sweepParam)
	for _, r := range res {
		fmt.Fprintf(w, "%.6g\t%s\t%d\t%d\t%.2f\t%.2f\t%.0f\n",
			r.Value, r.Outcome, r.Crashes, r.Ticks,
			r.Distance*cfg.MilesPerUnit(), r.Metrics["max_drift"], r.WeavePeriod)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext(cmd)
	defer stop()

	res, err := automation.RunMonteCarlo(ctx, cfg.PhysicsParams(), automation.Gains(cfg), automation.MonteCarloConfig{
		Trials:       trials,
		Perturbation: perturb,
		MaxTicks:     mcTicks,
		Seed:         cfg.Seed,
		Workers:      workers,
	})
	if err != nil {
		return err
	}

	finished, crashed := automation.MonteCarloStats(res)
	drift := make([]float64, len(res))
	for i, r := range res {
		drift[i] = r.MaxDrift
	}
	fmt.Printf("trials    %d (seed %d)\n", len(res), cfg.Seed)
	fmt.Printf("arrived   %d\n", finished)
	fmt.Printf("crashed   %d\n", crashed)
	fmt.Println()
	fmt.Println(viz.Plot(drift, "max drift per trial"))
	return nil
}

func runTerrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	gen := terrain.New(cfg.Seed, cfg.Background)
	for r := 0; r < rows; r++ {
		fmt.Println(string(gen.Row(terrain.ScrollIndex(r, distance), cols)))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTEERING\tROAD\tTRIP (MI)\tCRASH DELAY")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%.0fs\n",
			name, c.Physics.Steering, c.Physics.RoadWidth,
			c.Physics.TripLength*c.MilesPerUnit(), c.CrashDelay)
	}
	return w.Flush()
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

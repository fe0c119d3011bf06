package main

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/desertbus/internal/config"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	seed       int64
	theme      string
	autopilot  bool
	noIntro    bool
	logDir     string
	logLevel   string

	simTicks     int
	simAutopilot bool
	plot         bool
	csvOut       string
	svgOut       string
	sweepTicks   int
	mcTicks      int

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	trials  int
	perturb float64
	workers int

	rows     int
	cols     int
	distance float64
)

// main registers the commands and runs the drive when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "desertbus",
		Short: "drive a bus across the desert, in real time",
		RunE:  runDrive,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", config.DefaultPreset, "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "terrain and trial seed")
	addDriveFlags(rootCmd)

	driveCmd := &cobra.Command{
		Use:   "drive",
		Short: "play (the default)",
		RunE:  runDrive,
	}
	addDriveFlags(driveCmd)

	simCmd := &cobra.Command{
		Use:   "sim [scenario.yaml]",
		Short: "headless drive, scripted or autopilot",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSim,
	}
	simCmd.Flags().IntVar(&simTicks, "ticks", 2000, "max ticks (scenario max_ticks wins when set)")
	simCmd.Flags().BoolVar(&simAutopilot, "autopilot", true, "drive with the autopilot when no scenario is given")
	simCmd.Flags().BoolVar(&plot, "plot", false, "plot speed and lateral offset")
	simCmd.Flags().StringVar(&csvOut, "csv", "", "write the trace as csv")
	simCmd.Flags().StringVar(&svgOut, "svg", "", "write the driven route as svg")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "autopilot drives across a parameter range",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "angle_lean", "vehicle or autopilot parameter")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.001, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepTicks, "ticks", 5000, "max ticks per drive")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "autopilot trials from perturbed headings",
		RunE:  runMonteCarlo,
	}
	mcCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	mcCmd.Flags().Float64Var(&perturb, "perturb", 0.05, "max initial heading offset (rad)")
	mcCmd.Flags().IntVar(&mcTicks, "ticks", 5000, "max ticks per trial")
	mcCmd.Flags().IntVar(&workers, "workers", 0, "parallel trials (0 = one per CPU)")

	terrainCmd := &cobra.Command{
		Use:   "terrain",
		Short: "print the terrain for a seed",
		RunE:  runTerrain,
	}
	terrainCmd.Flags().IntVar(&rows, "rows", 20, "rows")
	terrainCmd.Flags().IntVar(&cols, "cols", 60, "columns")
	terrainCmd.Flags().Float64Var(&distance, "distance", 0, "trip distance to view from")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective config as yaml",
		RunE:  dumpConfig,
	}

	rootCmd.AddCommand(driveCmd, simCmd, sweepCmd, mcCmd, terrainCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addDriveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme (desert, night, retro)")
	cmd.Flags().BoolVar(&autopilot, "autopilot", false, "let the autopilot drive")
	cmd.Flags().BoolVar(&noIntro, "no-intro", false, "skip the intro screen")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "write a session log under this directory")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
}

// loadConfig layers preset, config file, environment, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	base := config.GetPreset(preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset %q (have %v)", preset, config.ListPresets())
	}

	cfg, err := config.Load(configFile, base)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Lookup("log-dir") != nil && flags.Changed("log-dir") {
		cfg.Log.Dir = logDir
	}
	if flags.Lookup("log-level") != nil && flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

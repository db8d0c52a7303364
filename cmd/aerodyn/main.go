package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/aerodyn/internal/config"
	"github.com/san-kum/aerodyn/internal/logging"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	logLevel  string
	logFile   string
	logStderr bool

	preset      string
	configFile  string
	dt          float64
	duration    float64
	altitude    float64
	speed       float64
	heading     float64
	turbulence  float64
	start       string
	stopOnCrash bool
	metricsAddr string
	metricNames []string
	jsonOut     bool
	noSave      bool
	limit       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "aerodyn",
		Short:        "rigid-body flight dynamics from aircraft geometry",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".aerodyn", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default <data>/logs/aerodyn.log)")
	rootCmd.PersistentFlags().BoolVar(&logStderr, "verbose", false, "also log to stderr")

	solveCmd := &cobra.Command{
		Use:   "solve [aircraft]",
		Short: "trim an aircraft and print the solver report",
		Args:  cobra.ExactArgs(1),
		RunE:  solveAircraft,
	}

	runCmd := &cobra.Command{
		Use:   "run [aircraft]",
		Short: "fly an aircraft",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Float64Var(&altitude, "altitude", 0, "start altitude")
	runCmd.Flags().Float64Var(&speed, "speed", 0, "start speed")
	runCmd.Flags().Float64Var(&heading, "heading", 0, "start heading in degrees")
	runCmd.Flags().Float64Var(&turbulence, "turbulence", 0, "turbulence magnitude from 0 to 1")
	runCmd.Flags().StringVar(&start, "start", config.StartCruise, "start condition (cruise, approach, ground, catapult)")
	runCmd.Flags().BoolVar(&stopOnCrash, "stop-on-crash", false, "stop the run on a crash")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	runCmd.Flags().StringSliceVar(&metricNames, "metric", nil, "metrics to compute (default all)")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "write the run as JSON to stdout")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	batchCmd := &cobra.Command{
		Use:   "batch [aircraft]",
		Short: "fly every preset of an aircraft concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&limit, "jobs", 0, "maximum concurrent runs (0 for no limit)")

	aircraftCmd := &cobra.Command{
		Use:   "aircraft",
		Short: "list available aircraft",
		RunE:  listAircraft,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [aircraft]",
		Short: "list available presets for an aircraft",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	controlsCmd := &cobra.Command{
		Use:   "controls [aircraft]",
		Short: "list the pilot inputs of an aircraft and their trim settings",
		Args:  cobra.ExactArgs(1),
		RunE:  listControls,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(solveCmd, runCmd, batchCmd, newTuneCmd(), aircraftCmd, presetsCmd, controlsCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger applies the command line overrides to the configured log
// settings.
func newLogger(lc config.LogConfig) (*logging.Logger, error) {
	opts := logging.Options{
		Level:      lc.Level,
		File:       lc.File,
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		Stderr:     lc.Stderr || logStderr,
	}
	if logLevel != "" {
		opts.Level = logLevel
	}
	if logFile != "" {
		opts.File = logFile
	}
	if opts.File == "" {
		opts.File = filepath.Join(dataDir, "logs", "aerodyn.log")
	}
	l, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

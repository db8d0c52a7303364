package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/san-kum/aerodyn/internal/config"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/experiment"
	"github.com/san-kum/aerodyn/internal/sim"
	"github.com/san-kum/aerodyn/internal/store"
	"github.com/san-kum/aerodyn/internal/telemetry"
	"github.com/spf13/cobra"
)

// runConfig resolves the run configuration: a preset, then a config file
// over it, then any flags given explicitly.
func runConfig(cmd *cobra.Command, aircraft string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Aircraft = aircraft

	if preset != "" {
		cfg = config.GetPreset(aircraft, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(aircraft))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		loaded.Aircraft = aircraft
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("altitude") {
		cfg.Init.Altitude = altitude
	}
	if flags.Changed("speed") {
		cfg.Init.Speed = speed
	}
	if flags.Changed("heading") {
		cfg.Init.Heading = heading
	}
	if flags.Changed("turbulence") {
		cfg.Turbulence.Magnitude = turbulence
	}
	if flags.Changed("start") {
		cfg.Start = start
	}
	if flags.Changed("stop-on-crash") {
		cfg.StopOnCrash = stopOnCrash
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := runConfig(cmd, args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), logger.Logger, metricNames); err != nil {
		return err
	}

	rec := telemetry.NewRecorder()
	reporters := telemetry.Multi{rec}
	if cfg.MetricsAddr != "" {
		prom, err := telemetry.NewPrometheus(nil)
		if err != nil {
			return err
		}
		reporters = append(reporters, prom)
		exp.Simulator().AddObserver(sim.ObserverFunc(func(*sim.Frame) { prom.Step() }))

		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "addr", cfg.MetricsAddr, "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info("serving metrics", "addr", cfg.MetricsAddr)
	}
	exp.Simulator().SetReporter(reporters)

	if !jsonOut {
		fmt.Fprintf(os.Stderr, "flying %s from %s...\n", cfg.Aircraft, cfg.Start)
	}
	began := time.Now()
	result, runErr := exp.Run(ctx)
	elapsed := time.Since(began)
	if result == nil {
		return runErr
	}

	meta := store.RunMetadata{
		Aircraft: cfg.Aircraft,
		Preset:   preset,
		Start:    cfg.Start,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
	}
	if err := exp.TrimErr(); err != nil {
		meta.TrimError = err.Error()
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}

	runID := ""
	if !noSave {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		if runID, err = st.Save(meta, result); err != nil {
			return err
		}
	}

	if jsonOut {
		if err := store.ExportJSON(os.Stdout, meta, result); err != nil {
			return err
		}
	} else {
		fmt.Println(runSummary(cfg, result, rec, runID, elapsed, exp.TrimErr(), runErr))
	}

	// a crash the run was asked to stop on is an outcome, not a failure
	if errors.Is(runErr, dynamo.ErrCrashed) {
		return nil
	}
	return runErr
}

func runSummary(cfg *config.Config, res *sim.Result, rec *telemetry.Recorder, runID string, elapsed time.Duration, trimErr, runErr error) string {
	p := newPanel(fmt.Sprintf("%s / %s", cfg.Aircraft, cfg.Start))
	if runID != "" {
		p.add("run id", "%s", runID)
	}
	p.add("steps", "%d in %v", res.StepsTaken, elapsed.Round(time.Millisecond))

	f := res.Final()
	p.add("time", "%.2f s", f.Time)
	p.add("position", "%.0f, %.0f, %.0f m", f.State.Pos[0], f.State.Pos[1], f.State.Pos[2])
	p.add("airspeed", "%.1f m/s", f.Airspeed)
	p.add("agl", "%.1f m", f.AGL)
	p.add("pitch / bank", "%.1f / %.1f deg", deg(f.Pitch()), deg(f.Bank()))
	p.add("heading", "%.1f deg", deg(f.Heading()))
	if v, ok := rec.Get("fuel.total"); ok {
		p.add("fuel", "%.1f kg", v)
	}

	switch {
	case res.Crashed:
		p.addStyled("outcome", badStyle, "crashed")
	case runErr != nil:
		p.addStyled("outcome", badStyle, "%v", runErr)
	default:
		p.addStyled("outcome", okStyle, "ok")
	}
	if trimErr != nil {
		p.addStyled("trim", warnStyle, "%v", trimErr)
	}

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		p.add(name, "%.6g", res.Metrics[name])
	}
	return p.String()
}

func runBatch(cmd *cobra.Command, args []string) error {
	aircraft := args[0]
	presets := config.ListPresets(aircraft)
	if len(presets) == 0 {
		return fmt.Errorf("no presets for aircraft: %s", aircraft)
	}
	logger, err := newLogger(config.DefaultConfig().Log)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := experiment.NewRegistry()
	exps := make(map[string]*experiment.Experiment, len(presets))
	for _, name := range presets {
		e := experiment.New(config.GetPreset(aircraft, name))
		if err := e.Setup(reg, logger.With("preset", name), nil); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		exps[name] = e
	}

	began := time.Now()
	results, runErr := experiment.RunAll(ctx, exps, limit)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTEPS\tCRASHED\tMIN AGL\tPEAK G\tFUEL\tSTABILITY")
	for _, name := range presets {
		r, ok := results[name]
		if !ok {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t-\n", name)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%.1f\t%.2f\t%.2f\t%.2f\n",
			name,
			r.StepsTaken,
			r.Crashed,
			r.Metrics["min_agl"],
			r.Metrics["peak_load_factor"],
			r.Metrics["fuel_burned"],
			r.Metrics["stability"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d runs in %v\n", len(presets), time.Since(began).Round(time.Millisecond))
	return runErr
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }

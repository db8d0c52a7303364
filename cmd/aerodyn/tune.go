package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/aerodyn/internal/config"
	"github.com/san-kum/aerodyn/internal/experiment"
	"github.com/san-kum/aerodyn/internal/optim"
	"github.com/spf13/cobra"
)

var (
	kpValues   []float64
	kiValues   []float64
	kdValues   []float64
	objective  string
	tunePreset string
)

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune [aircraft]",
		Short: "grid search the autopilot gains of a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneAutopilot,
	}
	cmd.Flags().StringVar(&tunePreset, "preset", "cruise", "preset to fly")
	cmd.Flags().Float64SliceVar(&kpValues, "kp", []float64{0.01, 0.02, 0.04}, "proportional gains")
	cmd.Flags().Float64SliceVar(&kiValues, "ki", []float64{0, config.DefaultKi}, "integral gains")
	cmd.Flags().Float64SliceVar(&kdValues, "kd", []float64{0, config.DefaultKd}, "derivative gains")
	cmd.Flags().StringVar(&objective, "objective", "rotation_rate", "metric to minimize")
	cmd.Flags().IntVar(&limit, "jobs", 0, "maximum concurrent runs (0 for no limit)")
	return cmd
}

func tuneAutopilot(cmd *cobra.Command, args []string) error {
	aircraft := args[0]
	base := config.GetPreset(aircraft, tunePreset)
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", tunePreset, config.ListPresets(aircraft))
	}
	logger, err := newLogger(base.Log)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := experiment.NewRegistry()
	build := func(p map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		cfg.Autopilot.Enabled = true
		cfg.Autopilot.Kp, cfg.Autopilot.Ki, cfg.Autopilot.Kd = p["kp"], p["ki"], p["kd"]
		e := experiment.New(cfg)
		if err := e.Setup(reg, logger.With("gains", p), []string{objective}); err != nil {
			return nil, err
		}
		return e, nil
	}

	g := optim.NewGridSearch([]string{"kp", "ki", "kd"}, [][]float64{kpValues, kiValues, kdValues})
	g.SetLimit(limit)
	best, val, err := g.Search(ctx, build, objective)
	if err != nil {
		return err
	}

	p := newPanel(fmt.Sprintf("autopilot gains: %s / %s", aircraft, tunePreset))
	p.add("points", "%d", len(g.Points()))
	p.add("kp", "%g", best["kp"])
	p.add("ki", "%g", best["ki"])
	p.add("kd", "%g", best["kd"])
	p.addStyled(objective, okStyle, "%.6g", val)
	fmt.Println(p)
	return nil
}

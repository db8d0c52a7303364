package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/san-kum/aerodyn/internal/aircraft"
	"github.com/san-kum/aerodyn/internal/config"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/store"
	"github.com/san-kum/aerodyn/internal/telemetry"
	"github.com/spf13/cobra"
)

func solveAircraft(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(config.DefaultConfig().Log)
	if err != nil {
		return err
	}
	defer logger.Close()

	a, err := aircraft.NewRegistry().Load(args[0], logger.Logger)
	if a == nil {
		return err
	}

	rec := telemetry.NewRecorder()
	a.Report(rec)

	p := newPanel("solution: " + args[0])
	for _, s := range rec.Prefix("solve.") {
		p.add(s.Name[len("solve."):], "%.6g", s.Value)
	}
	p.add("cruise aoa", "%.2f deg", deg(a.CruiseAoA()))
	p.add("tail incidence", "%.2f deg", deg(a.TailIncidence()))
	p.add("empty weight", "%.0f kg", a.EmptyWeight())
	p.add("cruise weight", "%.0f kg", a.CruiseWeight())
	p.add("approach weight", "%.0f kg", a.ApproachWeight())
	p.add("total mass", "%.0f kg", a.Model().Body().TotalMass())
	if mac, ok := rec.Get("cg.mac"); ok {
		p.add("cg", "%.1f%% mac", 100*mac)
	}
	if lo, hi := a.CGHardLimits(); lo <= hi {
		p.add("cg limits", "%.2f .. %.2f m", lo, hi)
	}

	if errors.Is(err, dynamo.ErrTrimFailed) {
		p.addStyled("status", badStyle, "%s", a.FailureMsg())
	} else {
		p.addStyled("status", okStyle, "trimmed in %d iterations", a.SolutionIterations())
	}
	fmt.Println(p)
	return err
}

func listAircraft(cmd *cobra.Command, args []string) error {
	reg := aircraft.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRESETS\tDESCRIPTION")
	for _, name := range reg.List() {
		desc, _ := reg.Describe(name)
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(config.ListPresets(name)), desc)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for aircraft: %s\n", args[0])
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTART\tGROUND\tDURATION")
	for _, name := range presets {
		p := config.GetPreset(args[0], name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\n", name, p.Start, p.Ground.Kind, p.Duration)
	}
	return w.Flush()
}

func listControls(cmd *cobra.Command, args []string) error {
	a, err := aircraft.NewRegistry().Load(args[0], nil)
	if a == nil {
		return err
	}
	cruise := a.ReferenceInputs(false)
	approach := a.ReferenceInputs(true)

	inputs := a.ControlMap().Inputs()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INPUT\tCRUISE\tAPPROACH")
	for _, in := range inputs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", in, setting(cruise, in), setting(approach, in))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// trim inputs that no mapping consumes point at a catalog mistake
	for in := range approach {
		if !slices.Contains(inputs, in) {
			fmt.Println(warnStyle.Render("unmapped trim input: " + in))
		}
	}
	return nil
}

func setting(m map[string]float64, input string) string {
	v, ok := m[input]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAIRCRAFT\tSTART\tTIME\tDURATION\tDT\tCRASHED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%v\n",
			run.ID,
			run.Aircraft,
			run.Start,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Crashed,
		)
	}

	return w.Flush()
}

package sim

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/san-kum/aerodyn/internal/airplane"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/logging"
	"github.com/san-kum/aerodyn/internal/physics"
)

// Simulator flies a compiled airplane through a run.
type Simulator struct {
	plane     *airplane.Airplane
	deck      *physics.Deck
	autopilot *Autopilot
	reporter  dynamo.Reporter
	log       *slog.Logger
	metrics   []Metric
	observers []Observer
}

func New(plane *airplane.Airplane) *Simulator {
	return &Simulator{
		plane:    plane,
		reporter: dynamo.NopReporter,
		log:      logging.Discard(),
	}
}

func (s *Simulator) AddMetric(m Metric)            { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)        { s.observers = append(s.observers, o) }
func (s *Simulator) SetReporter(r dynamo.Reporter) { s.reporter = r }
func (s *Simulator) SetLogger(l *slog.Logger)      { s.log = l }
func (s *Simulator) SetAutopilot(a *Autopilot)     { s.autopilot = a }
func (s *Simulator) Airplane() *airplane.Airplane  { return s.plane }

// SetDeck makes the simulator move d along with the run. The deck must
// also be the model's ground to have any effect on contact.
func (s *Simulator) SetDeck(d *physics.Deck) { s.deck = d }

// Run flies from x0 for the configured duration. Cancelling ctx stops
// the run between steps. The partial result is returned alongside any
// error.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if !s.plane.Compiled() {
		return nil, dynamo.ErrNotCompiled
	}

	m := s.plane.Model()
	m.SetCrashed(false)
	m.SetStandardAtmosphere(x0.Pos[2])
	m.SetState(x0)
	m.UpdateGround(&x0)
	m.NewState(&x0)

	cm := s.plane.ControlMap()
	for name, v := range cfg.Inputs {
		cm.SetInput(name, v)
	}
	cm.ApplyControls(0)

	events := slices.Clone(cfg.Schedule)
	slices.SortStableFunc(events, func(a, b Event) int { return cmp.Compare(a.Time, b.Time) })
	next := 0

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	recordEvery := max(cfg.RecordEvery, 1)
	reportEvery := max(cfg.ReportEvery, 1)
	result := &Result{
		Frames:  make([]Frame, 0, steps/recordEvery+2),
		Metrics: make(map[string]float64),
	}

	for _, mt := range s.metrics {
		mt.Reset()
	}
	if s.autopilot != nil {
		s.autopilot.Reset()
	}

	dt := cfg.Dt
	f := s.frame(0, 0)
	s.observe(&f)
	result.Frames = append(result.Frames, f)

	s.log.Info("run started", "steps", steps, "dt", dt, "altitude", x0.Pos[2], "speed", x0.V.Len())

	var runErr error
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
			break
		}

		t := float64(i) * dt
		for next < len(events) && events[next].Time <= t+dt/2 {
			cm.SetInput(events[next].Input, events[next].Value)
			s.log.Debug("input", "t", t, "name", events[next].Input, "value", events[next].Value)
			next++
		}
		st := m.State()
		if s.autopilot != nil {
			cm.SetInput(s.autopilot.Input, s.autopilot.Update(&st, dt))
		}
		if s.deck != nil {
			s.deck.Advance(dt)
		}
		m.SetStandardAtmosphere(st.Pos[2])

		if err := s.plane.Iterate(dt); err != nil {
			runErr = &dynamo.SimulationError{Step: i, Time: t, State: st, Wrapped: err}
			break
		}
		result.StepsTaken++

		f := s.frame(i+1, float64(i+1)*dt)
		if !f.State.IsValid() {
			runErr = &dynamo.SimulationError{Step: i, Time: f.Time, State: f.State, Wrapped: dynamo.ErrInvalidState}
			break
		}
		s.observe(&f)
		record := (i+1)%recordEvery == 0 || i == steps-1
		if record {
			result.Frames = append(result.Frames, f)
		}
		if (i+1)%reportEvery == 0 {
			s.report(f.Time)
		}

		if f.Crashed {
			result.Crashed = true
			if cfg.StopOnCrash {
				if !record {
					result.Frames = append(result.Frames, f)
				}
				runErr = &dynamo.SimulationError{Step: i, Time: f.Time, State: f.State, Wrapped: dynamo.ErrCrashed}
				break
			}
		}
	}

	for _, mt := range s.metrics {
		result.Metrics[mt.Name()] = mt.Value()
	}
	if runErr != nil {
		s.log.Warn("run stopped", "steps", result.StepsTaken, "err", runErr)
	} else {
		s.log.Info("run finished", "steps", result.StepsTaken, "crashed", result.Crashed)
	}
	return result, runErr
}

func (s *Simulator) frame(step int, t float64) Frame {
	m := s.plane.Model()
	st := m.State()
	return Frame{
		Step:       step,
		Time:       t,
		State:      st,
		AGL:        m.AGL(),
		Airspeed:   st.V.Sub(m.Wind()).Len(),
		Mass:       m.Body().TotalMass(),
		PilotAccel: s.plane.PilotAccel(),
		Fuel:       s.plane.TotalFuel(),
		FuelBurned: s.plane.FuelBurned(),
		Crashed:    m.Crashed(),
	}
}

func (s *Simulator) observe(f *Frame) {
	for _, mt := range s.metrics {
		mt.Observe(f)
	}
	for _, o := range s.observers {
		o.OnStep(f)
	}
}

func (s *Simulator) report(t float64) {
	s.reporter.Report("sim.time", t)
	s.plane.Report(s.reporter)
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/airplane"
	"github.com/san-kum/aerodyn/internal/config"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/logging"
	"github.com/san-kum/aerodyn/internal/physics"
	"github.com/san-kum/aerodyn/internal/sim"
)

// approachHeight is the height above the ground an approach starts from
// when the configuration gives none.
const approachHeight = 60.0

// Experiment is one configured run: an aircraft, its surroundings and a
// start condition.
type Experiment struct {
	cfg       *config.Config
	plane     *airplane.Airplane
	deck      *physics.Deck
	simulator *sim.Simulator
	init      dynamo.State
	simCfg    sim.Config
	trimErr   error
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup loads the aircraft and builds the simulator. A trim failure is
// not fatal; it is kept in TrimErr and the run flies the compiled
// airplane as it stands.
func (e *Experiment) Setup(reg *Registry, log *slog.Logger, metricNames []string) error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if log == nil {
		log = logging.Discard()
	}
	ms, err := reg.GetMetrics(metricNames)
	if err != nil {
		return err
	}

	plane, err := reg.GetAircraft(e.cfg.Aircraft, log)
	if err != nil && !errors.Is(err, dynamo.ErrTrimFailed) {
		return err
	}
	if err != nil {
		log.Warn("flying untrimmed airplane", "aircraft", e.cfg.Aircraft, "err", err)
		e.trimErr = err
	}
	e.plane = plane

	m := plane.Model()
	g := e.cfg.Ground
	switch g.Kind {
	case config.GroundDeck:
		e.deck = physics.NewDeck(mgl64.Vec3{0, 0, g.Elevation}, mgl64.Vec3{g.DeckSpeed, 0, 0})
		m.SetGround(e.deck)
	default:
		m.SetGround(physics.NewFlatGround(g.Elevation))
	}
	m.SetWind(mgl64.Vec3{e.cfg.Wind.X, e.cfg.Wind.Y, e.cfg.Wind.Z})
	if tc := e.cfg.Turbulence; tc.Magnitude > 0 {
		turb, err := physics.NewTurbulence(physics.DefaultTurbulenceGens, tc.Seed)
		if err != nil {
			return err
		}
		turb.SetMagnitude(tc.Magnitude)
		turb.Rate = tc.Rate
		m.SetTurbulence(turb)
	}

	e.init = e.startState()
	e.simCfg = e.runConfig()

	e.simulator = sim.New(plane)
	e.simulator.SetLogger(log.With("aircraft", e.cfg.Aircraft, "start", e.cfg.Start))
	if e.deck != nil {
		e.simulator.SetDeck(e.deck)
	}
	if ap := e.cfg.Autopilot; ap.Enabled {
		e.simulator.SetAutopilot(sim.NewAutopilot(ap.Input, ap.VerticalSpeed, ap.Kp, ap.Ki, ap.Kd))
	}
	for _, mt := range ms {
		e.simulator.AddMetric(mt)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.init, e.simCfg)
}

// Job wraps the experiment for sim.RunBatch.
func (e *Experiment) Job(name string) sim.Job {
	return sim.Job{Name: name, Sim: e.simulator, Init: e.init, Config: e.simCfg}
}

func (e *Experiment) Simulator() *sim.Simulator    { return e.simulator }
func (e *Experiment) Airplane() *airplane.Airplane { return e.plane }
func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) InitialState() dynamo.State   { return e.init }
func (e *Experiment) RunConfig() sim.Config        { return e.simCfg }
func (e *Experiment) TrimErr() error               { return e.trimErr }

// startState places the airplane for the configured start. Cruise
// altitude is absolute; approach and ground starts are relative to the
// ground elevation.
func (e *Experiment) startState() dynamo.State {
	c := e.cfg
	elev := c.Ground.Elevation
	switch c.Start {
	case config.StartCruise:
		s := e.plane.ReferenceState(false)
		if c.Init.Altitude > 0 {
			s.Pos[2] = c.Init.Altitude
		}
		return headed(withSpeed(s, c.Init.Speed), c.Init.Heading)

	case config.StartApproach:
		s := withSpeed(e.plane.ReferenceState(true), c.Init.Speed)
		h := c.Init.Altitude
		if h == 0 {
			h = approachHeight
		}
		s.Pos[2] = elev + h
		if e.deck != nil {
			// line the glide path up with the wire
			wire := e.deck.Origin.Add(e.deck.WireEnds[0])
			if slope := -s.V[2] / math.Hypot(s.V[0], s.V[1]); slope > 0 {
				s.Pos[0] = wire[0] - h/slope
			}
			return s
		}
		return headed(s, c.Init.Heading)

	case config.StartCatapult:
		s := dynamo.NewState()
		s.V = e.deck.Vel
		if bar := e.plane.Model().Launchbar(); bar != nil {
			cat, _, _ := e.deck.Catapult(e.deck.Origin)
			s.Pos = cat.Start.Sub(bar.DeployedTip())
			return s
		}
		s.Pos = mgl64.Vec3{e.deck.Origin[0], 0, elev - e.lowestGear()}
		return s

	default:
		s := dynamo.NewState()
		s.Pos = mgl64.Vec3{0, 0, elev - e.lowestGear()}
		if e.deck != nil {
			s.Pos[0] = e.deck.Origin[0]
			s.V = e.deck.Vel
		}
		s = headed(s, c.Init.Heading)
		if c.Init.Speed > 0 {
			s.V = s.V.Add(s.LocalToGlobal(mgl64.Vec3{c.Init.Speed, 0, 0}))
		}
		return s
	}
}

// lowestGear is the body z of the lowest extended gear tip.
func (e *Experiment) lowestGear() float64 {
	low := 0.0
	for i := 0; i < e.plane.NumGears(); i++ {
		low = math.Min(low, e.plane.Gear(i).Pos[2])
	}
	return low
}

// runConfig collects the reference inputs of the start condition under
// the configured controls.
func (e *Experiment) runConfig() sim.Config {
	c := e.cfg
	inputs := e.plane.ReferenceInputs(c.Start != config.StartCruise)
	maps.Copy(inputs, c.Controls)

	schedule := make([]sim.Event, len(c.Schedule))
	for i, ev := range c.Schedule {
		schedule[i] = sim.Event{Time: ev.Time, Input: ev.Input, Value: ev.Value}
	}
	return sim.Config{
		Dt:          c.Dt,
		Duration:    c.Duration,
		Inputs:      inputs,
		Schedule:    schedule,
		StopOnCrash: c.StopOnCrash,
		RecordEvery: max(1, int(math.Round(0.1/c.Dt))),
		ReportEvery: 1,
	}
}

// withSpeed rescales the velocity to speed, keeping its direction. Zero
// keeps the velocity.
func withSpeed(s dynamo.State, speed float64) dynamo.State {
	if v := s.V.Len(); speed > 0 && v > 0 {
		s.V = s.V.Mul(speed / v)
	}
	return s
}

// headed turns the state about the vertical by deg degrees.
func headed(s dynamo.State, deg float64) dynamo.State {
	if deg == 0 {
		return s
	}
	rz := mgl64.Rotate3DZ(mgl64.DegToRad(deg))
	s.Orient = s.Orient.Mul3(rz.Transpose())
	s.V = rz.Mul3x1(s.V)
	return s
}

// RunAll runs the experiments concurrently, at most limit at a time.
func RunAll(ctx context.Context, exps map[string]*Experiment, limit int) (map[string]*sim.Result, error) {
	names := make([]string, 0, len(exps))
	jobs := make([]sim.Job, 0, len(exps))
	for name, e := range exps {
		if e.simulator == nil {
			return nil, fmt.Errorf("experiment %s not setup", name)
		}
		names = append(names, name)
		jobs = append(jobs, e.Job(name))
	}
	results, err := sim.RunBatch(ctx, jobs, limit)
	out := make(map[string]*sim.Result, len(names))
	for i, name := range names {
		if results[i] != nil {
			out[name] = results[i]
		}
	}
	return out, err
}

package airplane

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/aero"
	"github.com/san-kum/aerodyn/internal/contact"
	"github.com/san-kum/aerodyn/internal/control"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/logging"
	"github.com/san-kum/aerodyn/internal/model"
	"github.com/san-kum/aerodyn/internal/physics"
	"github.com/san-kum/aerodyn/internal/thrust"
)

// Fuselage is a tapered body of revolution from Back to Front. Taper is
// the end width as a fraction of Width; Mid is where along the length
// (0 at the back) the full width is reached.
type Fuselage struct {
	Front, Back mgl64.Vec3
	Width       float64
	Taper       float64
	Mid         float64
	Cx, Cy, Cz  float64
	IDrag       float64

	surfs []*aero.Surface
}

type tank struct {
	pos     mgl64.Vec3
	cap     float64
	fill    float64
	density float64
	handle  physics.MassHandle
}

type thrusterRec struct {
	t    thrust.Thruster
	mass float64
	cg   mgl64.Vec3
}

type gearRec struct {
	g    *contact.Gear
	surf *aero.Surface
	wgt  float64
}

type weightRec struct {
	handle physics.MassHandle
	surf   *aero.Surface
}

type solveWeight struct {
	approach bool
	idx      int
	wgt      float64
}

type controlSetting struct {
	input string
	val   float64
}

// flightConfig is one of the two reference conditions the solver trims
// for.
type flightConfig struct {
	approach bool
	speed    float64
	altitude float64
	aoa      float64
	fuel     float64
	glide    float64
	weight   float64
	state    dynamo.State
	controls []controlSetting
}

// Airplane assembles an airframe from its geometry, solves it for trim
// and then flies it. The geometry setters are only meaningful before
// Compile.
type Airplane struct {
	model    *model.Model
	controls *control.ControlMap
	log      *slog.Logger

	wing, tail *aero.Wing
	vstabs     []*aero.Wing
	fuselages  []*Fuselage
	tanks      []*tank
	thrusters  []*thrusterRec
	gears      []*gearRec
	weights    []*weightRec
	contacts   []mgl64.Vec3

	solveWeights []solveWeight

	emptyWeight float64
	ballast     float64

	cruise, approach flightConfig
	elevator         *controlSetting

	cgDesiredMin, cgDesiredMax   float64
	cgDesiredFront, cgDesiredAft float64
	cgMin, cgMax                 float64

	dragFactor    float64
	liftRatio     float64
	tailIncidence float64
	iterations    int
	failure       string
	compiled      bool

	fuelBurned float64
}

func New() *Airplane {
	a := &Airplane{
		model:        model.NewModel(),
		controls:     control.NewControlMap(),
		log:          logging.Discard(),
		dragFactor:   1,
		liftRatio:    1,
		cgDesiredMin: 0.25,
		cgDesiredMax: 0.25,
	}
	a.cruise.state = dynamo.NewState()
	a.approach.state = dynamo.NewState()
	a.approach.approach = true
	return a
}

// SetLogger routes solver progress to l.
func (a *Airplane) SetLogger(l *slog.Logger) {
	if l != nil {
		a.log = l
	}
}

func (a *Airplane) Model() *model.Model               { return a.model }
func (a *Airplane) ControlMap() *control.ControlMap   { return a.controls }
func (a *Airplane) Wing() *aero.Wing                  { return a.wing }
func (a *Airplane) Tail() *aero.Wing                  { return a.tail }
func (a *Airplane) SetWing(w *aero.Wing)              { a.wing = w }
func (a *Airplane) SetTail(w *aero.Wing)              { a.tail = w }
func (a *Airplane) AddVStab(w *aero.Wing)             { a.vstabs = append(a.vstabs, w) }
func (a *Airplane) NumVStabs() int                    { return len(a.vstabs) }
func (a *Airplane) VStab(i int) *aero.Wing            { return a.vstabs[i] }
func (a *Airplane) SetEmptyWeight(w float64)          { a.emptyWeight = w }
func (a *Airplane) EmptyWeight() float64              { return a.emptyWeight }
func (a *Airplane) SetHook(h *contact.Hook)           { a.model.SetHook(h) }
func (a *Airplane) SetLaunchbar(l *contact.Launchbar) { a.model.SetLaunchbar(l) }
func (a *Airplane) Compiled() bool                    { return a.compiled }

func (a *Airplane) SolutionIterations() int  { return a.iterations }
func (a *Airplane) FailureMsg() string       { return a.failure }
func (a *Airplane) DragCoefficient() float64 { return a.dragFactor }
func (a *Airplane) LiftRatio() float64       { return a.liftRatio }
func (a *Airplane) CruiseAoA() float64       { return a.cruise.aoa }
func (a *Airplane) TailIncidence() float64   { return a.tailIncidence }
func (a *Airplane) CruiseWeight() float64    { return a.cruise.weight }
func (a *Airplane) ApproachWeight() float64  { return a.approach.weight }
func (a *Airplane) FuelBurned() float64      { return a.fuelBurned }

// ApproachElevator is the elevator input the solver found for the
// approach, or zero without an elevator control.
func (a *Airplane) ApproachElevator() float64 {
	if a.elevator == nil {
		return 0
	}
	return a.elevator.val
}

// AddFuselage adds a fuselage. cx scales the drag along the body axis and
// is tuned by the solver; cy and cz scale the fixed side and vertical
// drag.
func (a *Airplane) AddFuselage(front, back mgl64.Vec3, width, taper, mid, cx, cy, cz, idrag float64) *Fuselage {
	f := &Fuselage{
		Front: front, Back: back,
		Width: width, Taper: taper, Mid: mid,
		Cx: cx, Cy: cy, Cz: cz, IDrag: idrag,
	}
	a.fuselages = append(a.fuselages, f)
	return f
}

// AddTank adds a full tank holding cap kg of fuel of the given density
// (kg/m^3) and returns its index.
func (a *Airplane) AddTank(pos mgl64.Vec3, cap, density float64) int {
	a.tanks = append(a.tanks, &tank{pos: pos, cap: cap, fill: cap, density: density, handle: -1})
	return len(a.tanks) - 1
}

func (a *Airplane) NumTanks() int { return len(a.tanks) }

func (a *Airplane) TankCapacity(i int) float64 { return a.tanks[i].cap }
func (a *Airplane) TankFill(i int) float64     { return a.tanks[i].fill }

// TankVolume is the fuel volume in cubic metres.
func (a *Airplane) TankVolume(i int) float64 {
	t := a.tanks[i]
	if t.density <= 0 {
		return 0
	}
	return t.fill / t.density
}

// SetTankFill sets the fuel mass in one tank, clamped to its capacity.
func (a *Airplane) SetTankFill(i int, kg float64) {
	t := a.tanks[i]
	t.fill = dynamo.Clamp(kg, 0, t.cap)
	a.applyTankMass(t)
}

func (a *Airplane) applyTankMass(t *tank) {
	if t.handle >= 0 {
		_ = a.model.Body().SetMass(t.handle, t.fill)
	}
}

// SetFuelFraction fills every tank to frac of its capacity.
func (a *Airplane) SetFuelFraction(frac float64) {
	for _, t := range a.tanks {
		t.fill = frac * t.cap
		a.applyTankMass(t)
	}
}

// TotalFuel is the fuel mass on board.
func (a *Airplane) TotalFuel() float64 {
	sum := 0.0
	for _, t := range a.tanks {
		sum += t.fill
	}
	return sum
}

// AddGear adds a landing gear and returns its index. The solver sets the
// spring and damping, so those fields are multipliers until Compile.
func (a *Airplane) AddGear(g *contact.Gear) int {
	a.gears = append(a.gears, &gearRec{g: g})
	return len(a.gears) - 1
}

func (a *Airplane) NumGears() int                  { return len(a.gears) }
func (a *Airplane) Gear(i int) *contact.Gear       { return a.gears[i].g }
func (a *Airplane) NumThrusters() int              { return len(a.thrusters) }
func (a *Airplane) Thruster(i int) thrust.Thruster { return a.thrusters[i].t }

// AddThruster adds an engine of the given installed mass at cg and
// returns its index.
func (a *Airplane) AddThruster(t thrust.Thruster, mass float64, cg mgl64.Vec3) int {
	a.thrusters = append(a.thrusters, &thrusterRec{t: t, mass: mass, cg: cg})
	return len(a.thrusters) - 1
}

// AddBallast adds fixed mass that redistributes the empty weight rather
// than adding to it.
func (a *Airplane) AddBallast(pos mgl64.Vec3, mass float64) {
	a.model.Body().AddMass(mass, pos, true)
	a.ballast += mass
}

// AddWeight adds a runtime adjustable mass such as cargo or an external
// store. size is the edge of a cube with the same drag. It starts empty.
func (a *Airplane) AddWeight(pos mgl64.Vec3, size float64) int {
	s := aero.NewSurface()
	s.SetPosition(pos)
	s.SetTotalDrag(size * size)
	a.model.AddSurface(s)
	h := a.model.Body().AddMass(0, pos, false)
	a.weights = append(a.weights, &weightRec{handle: h, surf: s})
	a.SetWeight(len(a.weights)-1, 0)
	return len(a.weights) - 1
}

// SetWeight sets the mass of an adjustable weight. A mass of exactly zero
// also removes its drag, which models a dropped store.
func (a *Airplane) SetWeight(i int, mass float64) {
	w := a.weights[i]
	_ = a.model.Body().SetMass(w.handle, mass)
	d := 1.0
	if mass == 0 {
		d = 0
	}
	w.surf.SetXDrag(d)
	w.surf.SetYDrag(d)
	w.surf.SetZDrag(d)
}

func (a *Airplane) NumWeights() int { return len(a.weights) }

// AddSolutionWeight loads weight idx with wgt kg while the solver runs
// the cruise (approach false) or approach condition.
func (a *Airplane) AddSolutionWeight(approach bool, idx int, wgt float64) {
	a.solveWeights = append(a.solveWeights, solveWeight{approach: approach, idx: idx, wgt: wgt})
}

// SetCruise sets the cruise condition: speed in m/s, altitude in m, fuel
// as a fraction of capacity and the glide angle in radians.
func (a *Airplane) SetCruise(speed, altitude, fuel, glide float64) {
	a.cruise.speed = speed
	a.cruise.altitude = altitude
	a.cruise.fuel = fuel
	a.cruise.glide = glide
	a.cruise.aoa = 0
	a.tailIncidence = 0
}

// SetApproach sets the approach condition. Unlike cruise the AoA is
// given rather than solved for.
func (a *Airplane) SetApproach(speed, altitude, aoa, fuel, glide float64) {
	a.approach.speed = speed
	a.approach.altitude = altitude
	a.approach.aoa = aoa
	a.approach.fuel = fuel
	a.approach.glide = glide
	a.approach.state.SetupOrientationFromAoA(aoa)
}

func (a *Airplane) AddCruiseControl(input string, val float64) {
	a.cruise.controls = append(a.cruise.controls, controlSetting{input, val})
}

func (a *Airplane) AddApproachControl(input string, val float64) {
	a.approach.controls = append(a.approach.controls, controlSetting{input, val})
}

// SetElevatorControl names the input the solver may move to trim the
// approach pitching moment.
func (a *Airplane) SetElevatorControl(input string) {
	a.elevator = &controlSetting{input: input}
}

// SetCGDesired sets the intended CG range as fractions of the MAC behind
// its leading edge.
func (a *Airplane) SetCGDesired(lo, hi float64) {
	a.cgDesiredMin, a.cgDesiredMax = lo, hi
}

// CGDesired is the intended CG range in body x, front first. It is known
// once the wing is compiled.
func (a *Airplane) CGDesired() (front, aft float64) { return a.cgDesiredFront, a.cgDesiredAft }

// CGHardLimits is the x range spanned by the gear.
func (a *Airplane) CGHardLimits() (lo, hi float64) { return a.cgMin, a.cgMax }

// CGMAC is the CG position behind the MAC leading edge as a fraction of
// the MAC.
func (a *Airplane) CGMAC() float64 {
	if a.wing == nil {
		return 0
	}
	return (a.wing.MACx() - a.model.Body().CG()[0]) / a.wing.MAC()
}

// Iterate advances the simulation by dt: controls move toward their
// inputs, the gear drag follows extension, the model steps and the
// engines burn fuel.
func (a *Airplane) Iterate(dt float64) error {
	if !a.compiled {
		return dynamo.ErrNotCompiled
	}
	a.controls.ApplyControls(dt)
	a.updateGearState()
	a.model.Integrator().SetInterval(dt)
	if err := a.model.Iterate(); err != nil {
		return err
	}
	a.consumeFuel(dt)
	return nil
}

// updateGearState scales the gear drag with extension.
func (a *Airplane) updateGearState() {
	for _, gr := range a.gears {
		if gr.surf == nil {
			continue
		}
		ext := gr.g.Extension
		gr.surf.SetXDrag(ext)
		gr.surf.SetYDrag(ext)
		gr.surf.SetZDrag(ext)
	}
}

// consumeFuel draws the engines' fuel flow evenly from the tanks in
// proportion to their contents. Engines starve once every tank is dry.
// Airframes without tanks fly on unlimited fuel.
func (a *Airplane) consumeFuel(dt float64) {
	if len(a.tanks) == 0 {
		return
	}
	flow := 0.0
	for _, tr := range a.thrusters {
		flow += tr.t.FuelFlow()
	}
	total := a.TotalFuel()
	burn := math.Min(flow*dt, total)
	if total > 0 && burn > 0 {
		keep := 1 - burn/total
		for _, t := range a.tanks {
			t.fill *= keep
			a.applyTankMass(t)
		}
		a.fuelBurned += burn
	}
	available := a.TotalFuel() > 0
	for _, tr := range a.thrusters {
		tr.t.SetFuel(available)
	}
}

// PilotAccel is the specific force felt at the pilot's seat in m/s^2,
// with x forward, y right and z down; level unaccelerated flight reads
// (0, 0, -g).
func (a *Airplane) PilotAccel() mgl64.Vec3 {
	s := a.model.State()
	gravity := a.model.Earth().Up(s.Pos).Mul(-physics.Gravity)
	f := s.GlobalToLocal(s.Acc.Sub(gravity))
	return mgl64.Vec3{f[0], -f[1], -f[2]}
}

// liftingSurfaces lists the wing, tail and vertical stabilizers that are
// present.
func (a *Airplane) liftingSurfaces() []*aero.Wing {
	ws := make([]*aero.Wing, 0, 2+len(a.vstabs))
	if a.wing != nil {
		ws = append(ws, a.wing)
	}
	if a.tail != nil {
		ws = append(ws, a.tail)
	}
	return append(ws, a.vstabs...)
}

func (a *Airplane) config(approach bool) *flightConfig {
	if approach {
		return &a.approach
	}
	return &a.cruise
}

// ReferenceState is the trimmed state of the cruise or approach
// condition, at its altitude and on its glide path.
func (a *Airplane) ReferenceState(approach bool) dynamo.State {
	cfg := a.config(approach)
	s := cfg.state
	if !approach {
		s.SetupOrientationFromAoA(cfg.aoa)
	}
	s.SetupSpeedAndPosition(cfg.speed, cfg.glide, cfg.altitude)
	return s
}

// ReferenceInputs lists the control inputs of a reference condition,
// including the solved elevator on approach.
func (a *Airplane) ReferenceInputs(approach bool) map[string]float64 {
	cfg := a.config(approach)
	in := make(map[string]float64, len(cfg.controls)+1)
	for _, c := range cfg.controls {
		in[c.input] = c.val
	}
	if approach && a.elevator != nil {
		in[a.elevator.input] = a.elevator.val
	}
	return in
}

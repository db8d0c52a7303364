package model

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/aero"
	"github.com/san-kum/aerodyn/internal/contact"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/integrators"
	"github.com/san-kum/aerodyn/internal/physics"
	"github.com/san-kum/aerodyn/internal/thrust"
)

// CrashTolerance is how far below the ground a contact point may sink,
// as integration slop, before the model counts it as a crash.
const CrashTolerance = 1.0

// Model is the force environment of one airframe. It owns the rigid
// body, the integrator and every force producing part, and implements
// dynamo.Environment for the integrator.
type Model struct {
	body  *physics.RigidBody
	integ *integrators.RK4

	surfaces  []*aero.Surface
	gears     []*contact.Gear
	thrusters []thrust.Thruster
	hook      *contact.Hook
	launchbar *contact.Launchbar

	ground  physics.Ground
	carrier physics.Carrier
	earth   physics.Frame

	wind mgl64.Vec3
	turb *physics.Turbulence
	air  physics.Air

	geRef  mgl64.Vec3
	geSpan float64
	geMul  float64

	globalGround dynamo.Plane

	// thruster torque and rotor momentum, fixed for one iteration
	torque, gyro mgl64.Vec3

	agl     float64
	crashed bool
}

func NewModel() *Model {
	m := &Model{
		body:         physics.NewRigidBody(),
		earth:        physics.FlatEarth{},
		air:          physics.StandardAtmosphere(0),
		globalGround: dynamo.Plane{Normal: mgl64.Vec3{0, 0, 1}, D: -100e3},
	}
	m.integ = integrators.NewRK4(m.body, m)
	return m
}

func (m *Model) Body() *physics.RigidBody          { return m.body }
func (m *Model) Integrator() *integrators.RK4      { return m.integ }
func (m *Model) State() dynamo.State               { return m.integ.State() }
func (m *Model) SetState(s dynamo.State)           { m.integ.SetState(s) }
func (m *Model) AGL() float64                      { return m.agl }
func (m *Model) Crashed() bool                     { return m.crashed }
func (m *Model) SetCrashed(c bool)                 { m.crashed = c }
func (m *Model) Air() physics.Air                  { return m.air }
func (m *Model) SetAir(air physics.Air)            { m.air = air }
func (m *Model) SetStandardAtmosphere(alt float64) { m.air = physics.StandardAtmosphere(alt) }
func (m *Model) Wind() mgl64.Vec3                  { return m.wind }
func (m *Model) SetWind(w mgl64.Vec3)              { m.wind = w }

// SetTurbulence adds gusts from t to the wind; nil turns them off.
func (m *Model) SetTurbulence(t *physics.Turbulence) { m.turb = t }
func (m *Model) Turbulence() *physics.Turbulence     { return m.turb }
func (m *Model) SetEarth(f physics.Frame)            { m.earth = f }
func (m *Model) Earth() physics.Frame                { return m.earth }

// AddSurface takes ownership of s and returns its index.
func (m *Model) AddSurface(s *aero.Surface) int {
	m.surfaces = append(m.surfaces, s)
	return len(m.surfaces) - 1
}

func (m *Model) AddGear(g *contact.Gear) int {
	m.gears = append(m.gears, g)
	return len(m.gears) - 1
}

func (m *Model) AddThruster(t thrust.Thruster) int {
	m.thrusters = append(m.thrusters, t)
	return len(m.thrusters) - 1
}

func (m *Model) NumSurfaces() int                  { return len(m.surfaces) }
func (m *Model) Surface(i int) *aero.Surface       { return m.surfaces[i] }
func (m *Model) NumGears() int                     { return len(m.gears) }
func (m *Model) Gear(i int) *contact.Gear          { return m.gears[i] }
func (m *Model) NumThrusters() int                 { return len(m.thrusters) }
func (m *Model) Thruster(i int) thrust.Thruster    { return m.thrusters[i] }
func (m *Model) SetHook(h *contact.Hook)           { m.hook = h }
func (m *Model) Hook() *contact.Hook               { return m.hook }
func (m *Model) SetLaunchbar(l *contact.Launchbar) { m.launchbar = l }
func (m *Model) Launchbar() *contact.Launchbar     { return m.launchbar }

// SetGround installs the terrain. A ground that also implements
// physics.Carrier enables the hook and launchbar.
func (m *Model) SetGround(g physics.Ground) {
	m.ground = g
	m.carrier, _ = g.(physics.Carrier)
}

func (m *Model) Ground() physics.Ground { return m.ground }

// SetGroundEffect enables extra lift when the reference point is within
// span of the ground; mul is the gain at zero height.
func (m *Model) SetGroundEffect(ref mgl64.Vec3, span, mul float64) {
	m.geRef, m.geSpan, m.geMul = ref, span, mul
}

// Thrust is the sum of all thruster thrust in body axes.
func (m *Model) Thrust() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, t := range m.thrusters {
		sum = sum.Add(t.Thrust())
	}
	return sum
}

// localWind is the air velocity relative to the body point pos, in body
// axes.
func (m *Model) localWind(s *dynamo.State, pos mgl64.Vec3) mgl64.Vec3 {
	wind := m.wind
	if m.turb != nil {
		gpos := s.PosLocalToGlobal(pos)
		alt := math.Abs(m.globalGround.Height(s.Pos))
		wind = wind.Add(m.turb.At(gpos, alt, m.earth.Up(gpos)))
	}
	lwind := s.GlobalToLocal(wind)
	lrot := s.GlobalToLocal(s.Rot)
	lv := s.GlobalToLocal(s.V)
	return lwind.Sub(m.body.PointVelocity(pos, lrot)).Sub(lv)
}

// InitIteration runs the thrusters and wheels for one interval and caches
// the thruster torque and gyroscopic momentum, which stay fixed across
// the integrator's sub-stages.
func (m *Model) InitIteration() {
	s := m.integ.State()
	dt := m.integ.Interval()
	m.torque, m.gyro = mgl64.Vec3{}, mgl64.Vec3{}
	for _, t := range m.thrusters {
		t.SetWind(m.localWind(&s, t.Position()))
		t.SetAir(m.air)
		t.Integrate(dt)
		m.torque = m.torque.Add(t.Torque())
		m.gyro = m.gyro.Add(t.Gyro())
	}
	if m.turb != nil {
		m.turb.Advance(dt, m.wind)
	}
	for _, g := range m.gears {
		g.Integrate(dt)
	}
}

// contactPoint is where the strut currently touches, or its extended tip
// when it is in the air.
func contactPoint(g *contact.Gear) mgl64.Vec3 {
	return g.Pos.Add(g.Compression.Mul(g.CompressFraction()))
}

// UpdateGround samples the ground under the body, every gear contact
// point and the hook tip. The samples hold until the next call.
func (m *Model) UpdateGround(s *dynamo.State) {
	if m.ground == nil {
		return
	}
	m.globalGround = m.ground.GroundPlane(s.Pos).Plane
	for _, g := range m.gears {
		g.SetGround(m.ground.GroundPlane(s.PosLocalToGlobal(contactPoint(g))))
	}
	if m.hook != nil {
		m.hook.SetGround(m.ground.GroundPlane(s.PosLocalToGlobal(m.hook.TipPosition())))
	}
}

// Iterate advances the model by one integrator interval.
func (m *Model) Iterate() error {
	s := m.integ.State()
	m.UpdateGround(&s)
	m.InitIteration()
	if err := m.body.Recalc(); err != nil {
		return fmt.Errorf("model iterate: %w", err)
	}
	m.integ.Step()
	return nil
}

// CalcForces accumulates every force on the body for the trial state s.
func (m *Model) CalcForces(s *dynamo.State) {
	m.body.SetGyro(m.gyro)
	m.body.AddTorque(m.torque)
	for _, t := range m.thrusters {
		m.body.AddForceAt(t.Position(), t.Thrust())
	}

	ground := s.PlaneGlobalToLocal(m.globalGround)

	up := m.earth.Up(s.Pos)
	m.body.AddForce(s.GlobalToLocal(up.Mul(-physics.Gravity * m.body.TotalMass())))

	mach := m.air.Mach(m.wind.Sub(s.V).Len())
	var faero mgl64.Vec3
	for _, sf := range m.surfaces {
		pos := sf.Position()
		force, torque := sf.CalcForce(m.localWind(s, pos), m.air.Density, mach)
		faero = faero.Add(force)
		m.body.AddForceAt(pos, force)
		m.body.AddTorque(torque)
	}

	// ground effect scales up the lift linearly as the reference point
	// comes down through the span
	if m.geSpan != 0 && m.geMul != 0 {
		dist := ground.Height(m.geRef)
		if dist > 0 && dist < m.geSpan {
			fz := faero.Dot(ground.Normal) * (m.geSpan - dist) / m.geSpan * m.geMul
			m.body.AddForce(ground.Normal.Mul(fz))
		}
	}

	lrot := s.GlobalToLocal(s.Rot)
	lv := s.GlobalToLocal(s.V)
	for _, g := range m.gears {
		g.CalcForce(m.body, s, lv, lrot)
		m.body.AddForceAt(g.ContactPosition(), g.Force())
	}
	if m.hook != nil {
		m.hook.CalcForce(m.body, s, lv, lrot, m.carrier)
		m.body.AddForceAt(m.hook.TipPosition(), m.hook.Force())
	}
	if m.launchbar != nil {
		m.launchbar.CalcForce(m.body, s, lv, lrot, m.carrier)
		m.body.AddForceAt(m.launchbar.Tip(), m.launchbar.Force())
	}
}

// NewState records the height of the lowest solid contact point and
// flags a crash once it is further below the ground than the tolerance.
func (m *Model) NewState(s *dynamo.State) {
	low := 1e8
	for _, g := range m.gears {
		if g.OnWater {
			continue
		}
		ground := s.PlaneGlobalToLocal(g.Ground().Plane)
		low = min(low, ground.Height(contactPoint(g)))
	}
	m.agl = low
	if m.agl < -CrashTolerance {
		m.crashed = true
	}

	if m.hook != nil {
		m.hook.Update(m.body, s, m.carrier)
	}
	if m.launchbar != nil {
		m.launchbar.Update(s, m.carrier)
	}
}

// Report publishes the per-step telemetry of the model.
func (m *Model) Report(r dynamo.Reporter) {
	crashed := 0.0
	if m.crashed {
		crashed = 1
	}
	r.Report("agl", m.agl)
	r.Report("crashed", crashed)
	for i, g := range m.gears {
		p := fmt.Sprintf("gear.%d.", i)
		r.Report(p+"compression", g.CompressFraction())
		r.Report(p+"compression-m", g.CompressDistance())
		r.Report(p+"wow", g.WeightOnWheels())
		r.Report(p+"extension", g.Extension)
		r.Report(p+"rollspeed", g.RollSpeed())
		r.Report(p+"caster-angle", g.CasterAngle())
	}
	for i, t := range m.thrusters {
		p := fmt.Sprintf("engine.%d.", i)
		running := 0.0
		if t.Running() {
			running = 1
		}
		r.Report(p+"thrust", t.Thrust().Len())
		r.Report(p+"fuel-flow", t.FuelFlow())
		r.Report(p+"rpm", t.RPM())
		r.Report(p+"running", running)
	}
	if m.hook != nil {
		caught := 0.0
		if m.hook.Caught() {
			caught = 1
		}
		r.Report("hook.angle", m.hook.Angle())
		r.Report("hook.caught", caught)
	}
	if m.launchbar != nil {
		r.Report("launchbar.angle", m.launchbar.Angle())
		r.Report("launchbar.state", float64(m.launchbar.State()))
	}
}

var _ dynamo.Environment = (*Model)(nil)

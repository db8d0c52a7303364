package thrust

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
)

type Kind int

const (
	KindPropEngine Kind = iota
	KindJet
	KindSimpleJet
)

func (k Kind) String() string {
	switch k {
	case KindPropEngine:
		return "prop"
	case KindJet:
		return "jet"
	case KindSimpleJet:
		return "simple-jet"
	}
	return "unknown"
}

// Thruster is the capability every engine exposes to the model. The set
// of implementations is closed: *PropEngine, *Jet and *SimpleJet.
//
// Outputs are in body axes and refer to the state of the last Integrate
// or Stabilize call.
type Thruster interface {
	Kind() Kind

	Position() mgl64.Vec3
	SetPosition(pos mgl64.Vec3)
	Direction() mgl64.Vec3
	SetDirection(dir mgl64.Vec3)

	// SetWind takes the air velocity at the thruster relative to the
	// airframe, in body axes.
	SetWind(wind mgl64.Vec3)
	SetAir(air physics.Air)
	SetFuel(available bool)

	SetThrottle(v float64)
	SetMixture(v float64)
	SetReheat(v float64)
	SetVector(v float64)

	// Piston and propeller inputs; engines without them ignore these.
	SetStarter(on bool)
	SetMagnetos(m int)
	SetBoost(v float64)
	SetCondLever(v float64)
	SetAdvance(v float64)
	SetPropPitch(v float64)
	SetFeather(on bool)

	Integrate(dt float64)
	// Stabilize jumps straight to the equilibrium for the current inputs.
	Stabilize()

	Thrust() mgl64.Vec3
	Torque() mgl64.Vec3
	Gyro() mgl64.Vec3
	FuelFlow() float64
	RPM() float64
	Running() bool

	sealed()
}

// base carries the inputs and outputs shared by every thruster.
type base struct {
	pos, dir mgl64.Vec3
	wind     mgl64.Vec3
	air      physics.Air
	fuel     bool

	throttle float64
	mixture  float64

	thrust, torque, gyro mgl64.Vec3
	fuelFlow             float64
}

func newBase() base {
	return base{
		dir:     mgl64.Vec3{1, 0, 0},
		air:     physics.StandardAtmosphere(0),
		fuel:    true,
		mixture: 1,
	}
}

func (b *base) Position() mgl64.Vec3        { return b.pos }
func (b *base) SetPosition(pos mgl64.Vec3)  { b.pos = pos }
func (b *base) Direction() mgl64.Vec3       { return b.dir }
func (b *base) SetDirection(dir mgl64.Vec3) { b.dir = dynamo.Unit(dir) }
func (b *base) SetWind(wind mgl64.Vec3)     { b.wind = wind }
func (b *base) SetAir(air physics.Air)      { b.air = air }
func (b *base) SetFuel(available bool)      { b.fuel = available }
func (b *base) SetThrottle(v float64)       { b.throttle = dynamo.Clamp(v, 0, 1) }
func (b *base) SetMixture(v float64)        { b.mixture = dynamo.Clamp(v, 0, 1) }
func (b *base) SetReheat(float64)           {}
func (b *base) SetVector(float64)           {}
func (b *base) SetStarter(bool)             {}
func (b *base) SetMagnetos(int)             {}
func (b *base) SetBoost(float64)            {}
func (b *base) SetCondLever(float64)        {}
func (b *base) SetAdvance(float64)          {}
func (b *base) SetPropPitch(float64)        {}
func (b *base) SetFeather(bool)             {}
func (b *base) Thrust() mgl64.Vec3          { return b.thrust }
func (b *base) Torque() mgl64.Vec3          { return b.torque }
func (b *base) Gyro() mgl64.Vec3            { return b.gyro }
func (b *base) FuelFlow() float64           { return b.fuelFlow }
func (b *base) sealed()                     {}

// airspeed is the speed of the air through the thrust axis; flow from
// behind counts as zero.
func (b *base) airspeed() float64 {
	return max(0, -b.wind.Dot(b.dir))
}

// tsfcToSI converts a thrust specific fuel consumption in lb/(lbf*h) to
// kg/(N*s).
const tsfcToSI = 1 / (physics.Gravity * 3600)

var (
	_ Thruster = (*PropEngine)(nil)
	_ Thruster = (*Jet)(nil)
	_ Thruster = (*SimpleJet)(nil)
)

package thrust

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
)

const (
	// design efficiency of the propeller at its cruise point
	propEfficiency = 0.85
	// advance ratio of zero thrust relative to the pitch
	zeroThrustRatio = 1.5
	// blade profile drag as a share of the torque coefficient
	profileTorque = 0.15
	featherTorque = 0.05

	// default brake specific fuel consumption, 0.45 lb/(hp*h) in kg/J
	defaultBSFC = 7.6e-8
)

// PistonEngine is a constant-power piston engine whose output falls off
// with air density.
type PistonEngine struct {
	Power       float64 // rated sea level power, W
	Omega       float64 // rated speed, rad/s
	BSFC        float64 // kg/J
	MinThrottle float64
	TurboMul    float64 // pressure ratio restored at full boost

	magnetos int
	starter  bool
	boost    float64
	cond     float64

	running bool
	torque  float64
	power   float64
}

func NewPistonEngine(power, omega float64) *PistonEngine {
	return &PistonEngine{
		Power:       power,
		Omega:       omega,
		BSFC:        defaultBSFC,
		MinThrottle: 0.1,
		TurboMul:    1,
		magnetos:    3,
		cond:        1,
	}
}

func (e *PistonEngine) Running() bool   { return e.running }
func (e *PistonEngine) Cranking() bool  { return e.starter }
func (e *PistonEngine) Torque() float64 { return e.torque }

func (e *PistonEngine) ratedTorque() float64 { return e.Power / e.Omega }

// lapse is the fraction of rated power available at this air density,
// after any boost.
func (e *PistonEngine) lapse(air physics.Air) float64 {
	// Gagg-Ferrar
	r := math.Max(0, 1.132*air.DensityRatio()-0.132)
	if e.TurboMul > 1 {
		r = math.Min(1, r*(1+e.boost*(e.TurboMul-1)))
	}
	return r
}

// mixtureEfficiency peaks at a slightly rich setting and reaches zero
// when the mixture is cut.
func mixtureEfficiency(m float64) float64 {
	d := m - 0.8
	return dynamo.Clamp(1-2.5*d*d, 0, 1)
}

func (e *PistonEngine) magnetoFactor() float64 {
	switch e.magnetos {
	case 0:
		return 0
	case 3:
		return 1
	}
	return 0.97
}

// calc updates the running flag and the shaft torque at omega.
func (e *PistonEngine) calc(air physics.Air, throttle, mixture, omega float64, fuel bool) {
	mix := mixtureEfficiency(mixture)
	spark := e.magnetoFactor()
	canRun := fuel && mix > 0 && spark > 0 && e.cond > 0.01
	switch {
	case !canRun:
		e.running = false
	case !e.running && omega > 0.1*e.Omega:
		e.running = true
	}

	q0 := e.ratedTorque()
	e.power = 0
	if e.running {
		thr := e.MinThrottle + throttle*(1-e.MinThrottle)
		e.power = e.Power * e.lapse(air) * thr * mix * spark
		e.torque = e.power / math.Max(omega, 0.3*e.Omega)
		return
	}
	e.torque = -0.1 * q0 * omega / e.Omega
	if e.starter {
		e.torque += 0.2 * q0
	}
}

func (e *PistonEngine) fuelFlow() float64 { return e.BSFC * e.power }

// Propeller models thrust and absorbed torque from the advance ratio,
// scaled to match the power and speed of its cruise design point.
type Propeller struct {
	Radius     float64
	FineStop   float64
	CoarseStop float64

	lambda0 float64
	f0, g0  float64

	pitch     float64
	feathered bool
}

// NewPropeller sizes a propeller that absorbs power at omega while
// moving at speed through air of density rho.
func NewPropeller(radius, speed, omega, rho, power float64) *Propeller {
	p := &Propeller{Radius: radius, FineStop: 0.25, CoarseStop: 4, pitch: 1}
	p.lambda0 = speed / (omega * radius)
	v2 := speed*speed + omega*omega*radius*radius
	tc0 := 1 - 1/zeroThrustRatio
	p.f0 = 2 * propEfficiency * power / (rho * speed * v2 * tc0)
	p.g0 = 2 * (power / omega) / (rho * v2 * (tc0 + profileTorque))
	return p
}

func (p *Propeller) Pitch() float64 { return p.pitch }

func (p *Propeller) SetPitch(pitch float64) {
	p.pitch = dynamo.Clamp(pitch, p.FineStop, p.CoarseStop)
}

func (p *Propeller) calc(rho, v, omega float64) (thrust, torque float64) {
	if omega <= 0 {
		return 0, 0
	}
	tip := omega * p.Radius
	q := 0.5 * rho * (v*v + tip*tip)
	if p.feathered {
		return 0, 0.5 * rho * tip * tip * p.g0 * featherTorque
	}
	lambda := v / tip
	tc := 1 - lambda/(zeroThrustRatio*p.lambda0*p.pitch)
	return q * p.f0 * tc, q * p.g0 * (tc + profileTorque)
}

// PropEngine couples a PistonEngine to a Propeller through a rotor with
// inertia Moment.
type PropEngine struct {
	base
	Prop   *Propeller
	Engine *PistonEngine
	Moment float64

	variable           bool
	minOmega, maxOmega float64
	advance            float64
	contra             bool

	omega float64
}

func NewPropEngine(prop *Propeller, eng *PistonEngine, moment float64) *PropEngine {
	if moment <= 0 {
		moment = 1
	}
	return &PropEngine{base: newBase(), Prop: prop, Engine: eng, Moment: moment}
}

func (p *PropEngine) Kind() Kind         { return KindPropEngine }
func (p *PropEngine) Omega() float64     { return p.omega }
func (p *PropEngine) RPM() float64       { return p.omega * 60 / (2 * math.Pi) }
func (p *PropEngine) Running() bool      { return p.Engine.running }
func (p *PropEngine) SetOmega(w float64) { p.omega = math.Max(0, w) }

// SetVariableProp turns on the constant-speed governor between the given
// speeds; the advance input selects the target.
func (p *PropEngine) SetVariableProp(minOmega, maxOmega float64) {
	p.variable = true
	p.minOmega, p.maxOmega = minOmega, maxOmega
}

// SetContraPair marks counter-rotating propellers whose torque and
// gyroscopic moments cancel.
func (p *PropEngine) SetContraPair(on bool) { p.contra = on }

func (p *PropEngine) SetMagnetos(m int)      { p.Engine.magnetos = dynamo.Clamp(m, 0, 3) }
func (p *PropEngine) SetStarter(on bool)     { p.Engine.starter = on }
func (p *PropEngine) SetBoost(v float64)     { p.Engine.boost = dynamo.Clamp(v, 0, 1) }
func (p *PropEngine) SetCondLever(v float64) { p.Engine.cond = dynamo.Clamp(v, 0, 1) }
func (p *PropEngine) SetAdvance(v float64)   { p.advance = dynamo.Clamp(v, 0, 1) }
func (p *PropEngine) SetFeather(on bool)     { p.Prop.feathered = on }

// SetPropPitch moves a manually controlled propeller between its stops.
// It is ignored while the governor is active.
func (p *PropEngine) SetPropPitch(v float64) {
	if p.variable {
		return
	}
	v = dynamo.Clamp(v, 0, 1)
	p.Prop.SetPitch(p.Prop.FineStop + v*(p.Prop.CoarseStop-p.Prop.FineStop))
}

func (p *PropEngine) targetOmega() float64 {
	return p.minOmega + p.advance*(p.maxOmega-p.minOmega)
}

func (p *PropEngine) torques(omega float64) (engine, prop, thrust float64) {
	p.Engine.calc(p.air, p.throttle, p.mixture, omega, p.fuel)
	thrust, prop = p.Prop.calc(p.air.Density, p.airspeed(), omega)
	return p.Engine.torque, prop, thrust
}

func (p *PropEngine) Integrate(dt float64) {
	qe, qp, t := p.torques(p.omega)
	p.setOutputs(t, qe)

	p.omega = math.Max(0, p.omega+dt*(qe-qp)/p.Moment)

	if p.variable && p.Engine.running && !p.Prop.feathered {
		// overspeed coarsens the pitch to absorb more torque
		err := (p.omega - p.targetOmega()) / p.targetOmega()
		p.Prop.SetPitch(p.Prop.pitch * (1 + 2*err*dt))
	}
}

// Stabilize starts the engine and finds the rotor speed where engine and
// propeller torque balance. A governed propeller instead holds its target
// speed and solves for the pitch.
func (p *PropEngine) Stabilize() {
	e := p.Engine
	e.running = p.fuel && mixtureEfficiency(p.mixture) > 0 && e.magnetoFactor() > 0 && e.cond > 0.01
	if !e.running {
		p.omega = 0
		p.setOutputs(0, 0)
		return
	}

	if p.variable && !p.Prop.feathered {
		w := p.targetOmega()
		lo, hi := p.Prop.FineStop, p.Prop.CoarseStop
		for range 60 {
			p.Prop.pitch = (lo + hi) / 2
			if qe, qp, _ := p.torques(w); qe > qp {
				lo = p.Prop.pitch
			} else {
				hi = p.Prop.pitch
			}
		}
		p.omega = w
	} else {
		lo, hi := 0.01*e.Omega, 5*e.Omega
		for range 60 {
			w := (lo + hi) / 2
			if qe, qp, _ := p.torques(w); qe > qp {
				lo = w
			} else {
				hi = w
			}
		}
		p.omega = (lo + hi) / 2
	}
	qe, _, t := p.torques(p.omega)
	p.setOutputs(t, qe)
}

func (p *PropEngine) setOutputs(thrust, engineTorque float64) {
	p.thrust = p.dir.Mul(thrust)
	p.fuelFlow = p.Engine.fuelFlow()
	if p.contra {
		p.torque, p.gyro = mgl64.Vec3{}, mgl64.Vec3{}
		return
	}
	// the airframe feels the reaction to the shaft torque
	p.torque = p.dir.Mul(-engineTorque)
	p.gyro = p.dir.Mul(p.Moment * p.omega)
}

package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

// DefaultInterval is the step length used until SetInterval is called.
const DefaultInterval = 1.0 / 30.0

// Body is the part of a rigid body the integrator drives: forces are
// cleared before each stage and accelerations read back in body axes.
type Body interface {
	Reset()
	SetSpin(spin mgl64.Vec3)
	Accel() mgl64.Vec3
	AngularAccel() mgl64.Vec3
	CG() mgl64.Vec3
}

type derivative struct {
	vel, rot, acc, racc mgl64.Vec3
}

func (d derivative) addScaled(o derivative, w float64) derivative {
	return derivative{
		vel:  d.vel.Add(o.vel.Mul(w)),
		rot:  d.rot.Add(o.rot.Mul(w)),
		acc:  d.acc.Add(o.acc.Mul(w)),
		racc: d.racc.Add(o.racc.Mul(w)),
	}
}

var (
	rk4Frac   = [4]float64{0, 0.5, 0.5, 1}
	rk4Weight = [4]float64{1.0 / 6, 2.0 / 6, 2.0 / 6, 1.0 / 6}
)

// RK4 advances a rigid body's State by fixed steps with the classical
// fourth-order Runge-Kutta scheme.
type RK4 struct {
	dt    float64
	body  Body
	env   dynamo.Environment
	state dynamo.State
}

func NewRK4(body Body, env dynamo.Environment) *RK4 {
	return &RK4{
		dt:    DefaultInterval,
		body:  body,
		env:   env,
		state: dynamo.NewState(),
	}
}

func (r *RK4) SetInterval(dt float64) { r.dt = dt }
func (r *RK4) Interval() float64      { return r.dt }

func (r *RK4) SetState(s dynamo.State) { r.state = s }
func (r *RK4) State() dynamo.State     { return r.state }

// extrapolate moves base forward by dt along d. Position tracks the body
// origin while velocity is the CG velocity, so the origin is shifted by
// however much the rotation moved the CG.
func (r *RK4) extrapolate(base *dynamo.State, d derivative, dt float64) dynamo.State {
	s := *base
	s.Orient = dynamo.Orthonormalize(base.Orient.Mul3(dynamo.RotMatrix(d.rot, dt)))

	cg := r.body.CG()
	oldCG := base.LocalToGlobal(cg)
	newCG := s.LocalToGlobal(cg)
	s.Pos = base.Pos.Add(d.vel.Mul(dt)).Add(oldCG).Sub(newCG)

	s.V = base.V.Add(d.acc.Mul(dt))
	s.Rot = base.Rot.Add(d.racc.Mul(dt))
	return s
}

// Step advances the state by one interval and hands the committed state
// to the environment.
func (r *RK4) Step() {
	orig := r.state
	prev := derivative{vel: orig.V, rot: orig.Rot}
	var sum derivative

	for k := range rk4Frac {
		trial := r.extrapolate(&orig, prev, rk4Frac[k]*r.dt)

		r.body.Reset()
		r.body.SetSpin(trial.GlobalToLocal(trial.Rot))
		r.env.CalcForces(&trial)

		d := derivative{
			vel:  trial.V,
			rot:  trial.Rot,
			acc:  trial.LocalToGlobal(r.body.Accel()),
			racc: trial.LocalToGlobal(r.body.AngularAccel()),
		}
		sum = sum.addScaled(d, rk4Weight[k])
		prev = d
	}

	next := r.extrapolate(&orig, sum, r.dt)
	next.Acc = sum.acc
	next.RAcc = sum.racc
	r.state = next
	r.env.NewState(&r.state)
}

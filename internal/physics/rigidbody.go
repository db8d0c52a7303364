package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

type MassHandle int

type massPoint struct {
	mass     float64
	pos      mgl64.Vec3
	isStatic bool
}

// moments are the zeroth, first and second mass moments about the body
// origin.
type moments struct {
	mass   float64
	first  mgl64.Vec3
	second mgl64.Mat3
}

func (m *moments) add(mass float64, pos mgl64.Vec3) {
	m.mass += mass
	m.first = m.first.Add(pos.Mul(mass))
	m.second = m.second.Add(dynamo.Outer(pos, pos).Mul(mass))
}

// RigidBody owns a set of point masses and answers acceleration queries
// for the forces accumulated on it. Recalc must run after any mass change
// and before the next force query.
type RigidBody struct {
	masses []massPoint

	static      moments
	staticDirty bool

	totalMass float64
	cg        mgl64.Vec3
	tI        mgl64.Mat3
	invI      mgl64.Mat3

	force  mgl64.Vec3
	torque mgl64.Vec3
	gyro   mgl64.Vec3
	spin   mgl64.Vec3
}

func NewRigidBody() *RigidBody {
	return &RigidBody{staticDirty: true}
}

func (b *RigidBody) AddMass(mass float64, pos mgl64.Vec3, isStatic bool) MassHandle {
	b.masses = append(b.masses, massPoint{mass: mass, pos: pos, isStatic: isStatic})
	if isStatic {
		b.staticDirty = true
	}
	return MassHandle(len(b.masses) - 1)
}

func (b *RigidBody) point(h MassHandle) (*massPoint, error) {
	if h < 0 || int(h) >= len(b.masses) {
		return nil, fmt.Errorf("mass %d: %w", h, dynamo.ErrUnknownHandle)
	}
	return &b.masses[h], nil
}

func (b *RigidBody) SetMass(h MassHandle, mass float64) error {
	p, err := b.point(h)
	if err != nil {
		return err
	}
	p.mass = mass
	if p.isStatic {
		b.staticDirty = true
	}
	return nil
}

func (b *RigidBody) SetMassPosition(h MassHandle, pos mgl64.Vec3) error {
	p, err := b.point(h)
	if err != nil {
		return err
	}
	p.pos = pos
	if p.isStatic {
		b.staticDirty = true
	}
	return nil
}

func (b *RigidBody) Mass(h MassHandle) float64 {
	p, err := b.point(h)
	if err != nil {
		return 0
	}
	return p.mass
}

func (b *RigidBody) MassPosition(h MassHandle) mgl64.Vec3 {
	p, err := b.point(h)
	if err != nil {
		return mgl64.Vec3{}
	}
	return p.pos
}

func (b *RigidBody) NumMasses() int { return len(b.masses) }

// Recalc rebuilds total mass, CG and the inertia tensor about the CG.
// Static masses are folded into a cached aggregate that is only rebuilt
// when one of them changes.
func (b *RigidBody) Recalc() error {
	if b.staticDirty {
		b.static = moments{}
		for _, m := range b.masses {
			if m.isStatic {
				b.static.add(m.mass, m.pos)
			}
		}
		b.staticDirty = false
	}

	total := b.static
	for _, m := range b.masses {
		if !m.isStatic {
			total.add(m.mass, m.pos)
		}
	}

	b.totalMass = total.mass
	if total.mass <= 0 {
		b.cg = mgl64.Vec3{}
		b.tI = mgl64.Mat3{}
		b.invI = mgl64.Mat3{}
		return dynamo.ErrNoMass
	}
	b.cg = total.first.Mul(1 / total.mass)

	// I = sum m(|r|^2 E - r r^T), shifted from the origin to the CG
	origin := mgl64.Ident3().Mul(total.second.Trace()).Sub(total.second)
	shift := mgl64.Ident3().Mul(b.cg.Dot(b.cg)).Sub(dynamo.Outer(b.cg, b.cg)).Mul(total.mass)
	b.tI = origin.Sub(shift)

	inv, err := dynamo.Invert(b.tI)
	b.invI = inv
	if err != nil {
		return fmt.Errorf("inertia tensor: %w", err)
	}
	return nil
}

func (b *RigidBody) Reset() {
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

func (b *RigidBody) AddForce(f mgl64.Vec3) {
	b.force = b.force.Add(f)
}

// AddForceAt applies f at pos, adding the resulting torque about the CG.
func (b *RigidBody) AddForceAt(pos, f mgl64.Vec3) {
	b.force = b.force.Add(f)
	b.torque = b.torque.Add(pos.Sub(b.cg).Cross(f))
}

func (b *RigidBody) AddTorque(t mgl64.Vec3) {
	b.torque = b.torque.Add(t)
}

// SetGyro sets the angular momentum of internally spinning parts.
func (b *RigidBody) SetGyro(g mgl64.Vec3) { b.gyro = g }

// SetSpin sets the body rotation rate in body axes.
func (b *RigidBody) SetSpin(s mgl64.Vec3) { b.spin = s }

func (b *RigidBody) TotalMass() float64         { return b.totalMass }
func (b *RigidBody) CG() mgl64.Vec3             { return b.cg }
func (b *RigidBody) InertiaMatrix() mgl64.Mat3  { return b.tI }
func (b *RigidBody) InverseInertia() mgl64.Mat3 { return b.invI }
func (b *RigidBody) Force() mgl64.Vec3          { return b.force }
func (b *RigidBody) Torque() mgl64.Vec3         { return b.torque }
func (b *RigidBody) Spin() mgl64.Vec3           { return b.spin }
func (b *RigidBody) Gyro() mgl64.Vec3           { return b.gyro }

func (b *RigidBody) Accel() mgl64.Vec3 {
	if b.totalMass <= 0 {
		return mgl64.Vec3{}
	}
	return b.force.Mul(1 / b.totalMass)
}

// AccelAt is the acceleration of a body-fixed point, including the
// centripetal term from the body spin.
func (b *RigidBody) AccelAt(pos mgl64.Vec3) mgl64.Vec3 {
	r := pos.Sub(b.cg)
	return b.Accel().Add(b.spin.Cross(b.spin.Cross(r)))
}

// AngularAccel solves Euler's equation
// I*alpha = tau - spin x (I*spin) - spin x gyro.
func (b *RigidBody) AngularAccel() mgl64.Vec3 {
	tau := b.torque.Sub(b.spin.Cross(b.gyro))
	tau = tau.Sub(b.spin.Cross(b.tI.Mul3x1(b.spin)))
	return b.invI.Mul3x1(tau)
}

// PointVelocity is the velocity of pos relative to the CG for body rate
// rot.
func (b *RigidBody) PointVelocity(pos, rot mgl64.Vec3) mgl64.Vec3 {
	return rot.Cross(pos.Sub(b.cg))
}

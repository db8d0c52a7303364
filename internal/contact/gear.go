package contact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
)

// Body is what the contact models need from the rigid body.
type Body interface {
	PointVelocity(pos, rot mgl64.Vec3) mgl64.Vec3
	TotalMass() float64
}

const (
	stopSpeed      = 0.1
	stopSpeedFluid = 0.01
	casterMinSpeed = 0.05
)

// Gear is a damped spring along a fixed compression axis with wheel
// friction at the contact patch. Pos is the fully extended tip in body
// axes; Compression points from the tip to the fully compressed tip.
type Gear struct {
	Pos         mgl64.Vec3
	Compression mgl64.Vec3

	Spring          float64
	Damping         float64
	StaticFriction  float64
	DynamicFriction float64
	InitialLoad     float64

	Brake     float64
	Rotation  float64
	Extension float64
	Castering bool

	// ReduceFrictionByExtension scales friction down while the strut is
	// extended; 1 removes all friction at full extension.
	ReduceFrictionByExtension float64

	OnWater bool
	OnSolid bool

	// ContactPoint marks structural contact points that are not real
	// gear: they get no drag surface and take no part in gear solving.
	ContactPoint       bool
	IgnoreWhileSolving bool

	ground physics.GroundSample

	force, contact mgl64.Vec3
	frac           float64
	compressDist   float64
	wow            float64
	rollSpeed      float64
	casterAngle    float64
}

func NewGear() *Gear {
	return &Gear{
		Spring:          1,
		Damping:         1,
		StaticFriction:  0.8,
		DynamicFriction: 0.7,
		Extension:       1,
		OnSolid:         true,
		ground: physics.GroundSample{
			Plane:    dynamo.Plane{Normal: mgl64.Vec3{0, 0, 1}, D: -1e3},
			Material: physics.Concrete,
		},
	}
}

// SetGround stores the most recent ground sample under the gear.
func (g *Gear) SetGround(s physics.GroundSample) { g.ground = s }
func (g *Gear) Ground() physics.GroundSample     { return g.ground }

func (g *Gear) Force() mgl64.Vec3           { return g.force }
func (g *Gear) ContactPosition() mgl64.Vec3 { return g.contact }
func (g *Gear) CompressFraction() float64   { return g.frac }
func (g *Gear) CompressDistance() float64   { return g.compressDist }
func (g *Gear) WeightOnWheels() float64     { return g.wow }
func (g *Gear) RollSpeed() float64          { return g.rollSpeed }
func (g *Gear) CasterAngle() float64        { return g.casterAngle }

// Integrate spins the wheel down, faster with the brake applied.
func (g *Gear) Integrate(dt float64) {
	if g.rollSpeed > 0 {
		g.rollSpeed -= 13*dt + 1300*g.Brake*dt
		if g.rollSpeed < 0 {
			g.rollSpeed = 0
		}
	}
}

func (g *Gear) clear() {
	g.force = mgl64.Vec3{}
	g.contact = mgl64.Vec3{}
	g.wow = 0
	g.frac = 0
}

// CalcForce computes the contact force in body axes. v and rot are the
// body velocity and rotation rate in body axes.
func (g *Gear) CalcForce(body Body, s *dynamo.State, v, rot mgl64.Vec3) {
	g.clear()
	if g.Extension < 1 {
		return
	}
	solid := g.ground.Material.Solid
	if !(g.OnWater && !solid) && !(g.OnSolid && solid) {
		g.compressDist = 0
		g.rollSpeed = 0
		g.casterAngle = 0
		return
	}

	ground := s.PlaneGlobalToLocal(g.ground.Plane)
	n := ground.Normal
	gvel := s.GlobalToLocal(g.ground.Vel)

	// a is the tip height above ground: no force unless it is below
	a := ground.Height(g.Pos)
	g.compressDist = -a
	if a > 0 {
		g.compressDist = 0
		g.casterAngle = 0
		return
	}

	b := ground.Height(g.Pos.Add(g.Compression))
	if b < 0 {
		g.frac = 1
	} else {
		g.frac = a / (a - b)
	}
	g.contact = g.Pos.Add(g.Compression.Mul(g.frac))

	clen := g.Compression.Len()
	cmpr := g.Compression.Mul(1 / clen)

	cv := body.PointVelocity(g.contact, rot).Add(v).Sub(gvel)

	// blend the initial load in smoothly over the first 20% of travel
	load := g.frac + g.InitialLoad
	if g.frac <= 0.2 && g.InitialLoad != 0 {
		load *= 75*g.frac*g.frac - 250*g.frac*g.frac*g.frac
	}
	fmag := load * clen * g.Spring

	// damp only the velocity into the ground, projected on the strut
	dv := cmpr.Dot(n) * n.Dot(cv)
	damp := dynamo.Clamp(g.Damping*dv, -fmag, fmag)

	// only the ground-normal part of the strut force is applied
	g.wow = (fmag - damp) * cmpr.Dot(n)
	g.force = n.Mul(g.wow)

	skid := dynamo.Unit(n.Cross(mgl64.Vec3{1, 0, 0}))
	steer := skid.Cross(n)
	if g.Rotation != 0 {
		sin, cos := math.Sincos(g.Rotation)
		steer = rotateZ(steer, sin, cos)
		skid = rotateZ(skid, sin, cos)
	}

	vsteer := cv.Dot(steer)
	vskid := cv.Dot(skid)
	wgt := g.force.Dot(n)

	if g.Castering {
		g.rollSpeed = math.Hypot(vsteer, vskid)
		// a stopped wheel keeps its angle
		if g.rollSpeed > casterMinSpeed {
			g.casterAngle = math.Atan2(vskid, vsteer)
		}
		return
	}
	g.rollSpeed = vsteer
	g.casterAngle = g.Rotation

	var fsteer, fskid float64
	mat := g.ground.Material
	if solid {
		fsteer = (g.Brake*mat.FrictionFactor + (1-g.Brake)*mat.RollingFriction) * g.friction(wgt, vsteer)
		fskid = g.friction(wgt, vskid) * mat.FrictionFactor
	} else {
		// floats drag far more sideways than along the hull
		fsteer = g.fluidFriction(wgt, vsteer) * mat.FrictionFactor
		fskid = 10 * g.fluidFriction(wgt, vskid) * mat.FrictionFactor
	}
	if vsteer > 0 {
		fsteer = -fsteer
	}
	if vskid > 0 {
		fskid = -fskid
	}

	factor := dynamo.Clamp((1-g.frac)*(1-g.ReduceFrictionByExtension)+g.frac, 0, 1)
	g.force = g.force.Add(steer.Mul(fsteer * factor)).Add(skid.Mul(fskid * factor))
}

func rotateZ(v mgl64.Vec3, sin, cos float64) mgl64.Vec3 {
	return mgl64.Vec3{cos*v[0] + sin*v[1], -sin*v[0] + cos*v[1], v[2]}
}

// friction ramps linearly up to the static coefficient below the stop
// speed and is the dynamic coefficient above it.
func (g *Gear) friction(wgt, v float64) float64 {
	v = math.Abs(v)
	if v < stopSpeed {
		return v / stopSpeed * wgt * g.StaticFriction
	}
	return wgt * g.DynamicFriction
}

func (g *Gear) fluidFriction(wgt, v float64) float64 {
	v = math.Abs(v)
	if v < stopSpeedFluid {
		return v / stopSpeedFluid * wgt * g.StaticFriction
	}
	return wgt * g.DynamicFriction * v * v * 0.01
}

package contact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
)

type LaunchbarState int

const (
	Unmounted LaunchbarState = iota
	Arrested
	Launch
	Completed
)

func (s LaunchbarState) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case Arrested:
		return "arrested"
	case Launch:
		return "launch"
	case Completed:
		return "completed"
	}
	return "unknown"
}

const (
	mountDistance = 0.5
	// holdback stiffness as an acceleration per metre of stretch
	holdbackStiffness = 50.0
)

// Launchbar is a nose-gear catapult bar hinged at Pos with a holdback
// behind it. Angles are measured downward from the forward body axis
// for the bar and from the aft axis for the holdback.
type Launchbar struct {
	Pos            mgl64.Vec3
	Length         float64
	HoldbackPos    mgl64.Vec3
	HoldbackLength float64
	UpAngle        float64
	DownAngle      float64
	Extension      float64
	Acceleration   float64

	launchCmd bool
	state     LaunchbarState
	angle     float64
	force     mgl64.Vec3
}

func NewLaunchbar() *Launchbar {
	return &Launchbar{Length: 1, HoldbackLength: 1, Acceleration: 25}
}

func (l *Launchbar) State() LaunchbarState { return l.state }
func (l *Launchbar) Force() mgl64.Vec3     { return l.force }
func (l *Launchbar) Angle() float64        { return l.angle }

// SetLaunchCmd requests the launch; it only takes effect while arrested.
func (l *Launchbar) SetLaunchCmd(on bool) { l.launchCmd = on }

func (l *Launchbar) Tip() mgl64.Vec3 {
	sin, cos := math.Sincos(l.angle)
	return l.Pos.Add(mgl64.Vec3{cos, 0, -sin}.Mul(l.Length))
}

// DeployedTip is the bar tip at full extension, in body axes.
func (l *Launchbar) DeployedTip() mgl64.Vec3 {
	sin, cos := math.Sincos(l.DownAngle)
	return l.Pos.Add(mgl64.Vec3{cos, 0, -sin}.Mul(l.Length))
}

func (l *Launchbar) HoldbackTip() mgl64.Vec3 {
	sin, cos := math.Sincos(l.angle)
	return l.HoldbackPos.Add(mgl64.Vec3{-cos, 0, -sin}.Mul(l.HoldbackLength))
}

func catapultAxis(c physics.Catapult) mgl64.Vec3 {
	return dynamo.Unit(c.End.Sub(c.Start))
}

// Update advances the state machine once per committed state. The
// catapult is looked up on the carrier every time, so the shuttle moves
// with the deck.
func (l *Launchbar) Update(s *dynamo.State, carrier physics.Carrier) {
	ext := dynamo.Clamp(l.Extension, 0, 1)
	l.angle = l.UpAngle + ext*(l.DownAngle-l.UpAngle)

	if ext < 1 {
		l.state = Unmounted
		l.launchCmd = false
		return
	}
	if carrier == nil {
		return
	}
	tip := s.PosLocalToGlobal(l.Tip())

	cat, dist, ok := carrier.Catapult(tip)
	if !ok {
		return
	}

	switch l.state {
	case Unmounted:
		if dist <= mountDistance {
			l.state = Arrested
		}
	case Arrested:
		if l.launchCmd {
			l.state = Launch
		}
	case Launch:
		if tip.Sub(cat.End).Dot(catapultAxis(cat)) > 0 {
			l.state = Completed
		}
	}
}

// CalcForce holds the bar on the shuttle while arrested and drives it
// down the catapult during the launch.
func (l *Launchbar) CalcForce(body Body, s *dynamo.State, v, rot mgl64.Vec3, carrier physics.Carrier) {
	l.force = mgl64.Vec3{}
	if carrier == nil || (l.state != Arrested && l.state != Launch) {
		return
	}
	tip := s.PosLocalToGlobal(l.Tip())
	cat, _, ok := carrier.Catapult(tip)
	if !ok {
		return
	}
	mass := body.TotalMass()

	switch l.state {
	case Arrested:
		// the shuttle sits at the catapult start and moves with the deck
		vel := s.LocalToGlobal(body.PointVelocity(l.Tip(), rot).Add(v)).Sub(cat.Vel)
		k := holdbackStiffness * mass
		c := 2 * math.Sqrt(k*mass)
		f := cat.Start.Sub(tip).Mul(k).Sub(vel.Mul(c))
		l.force = s.GlobalToLocal(f)
	case Launch:
		l.force = s.GlobalToLocal(catapultAxis(cat).Mul(mass * l.Acceleration))
	}
}

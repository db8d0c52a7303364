package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the kinematic state of a body. Pos is the body origin in the
// global frame; V is the velocity of the center of gravity. Orient maps
// global vectors into body axes (its rows are the body axes).
type State struct {
	Pos    mgl64.Vec3
	Orient mgl64.Mat3
	V      mgl64.Vec3
	Rot    mgl64.Vec3
	Acc    mgl64.Vec3
	RAcc   mgl64.Vec3
}

func NewState() State {
	return State{Orient: mgl64.Ident3()}
}

func (s *State) GlobalToLocal(v mgl64.Vec3) mgl64.Vec3 {
	return s.Orient.Mul3x1(v)
}

func (s *State) LocalToGlobal(v mgl64.Vec3) mgl64.Vec3 {
	return s.Orient.Transpose().Mul3x1(v)
}

func (s *State) PosLocalToGlobal(p mgl64.Vec3) mgl64.Vec3 {
	return s.Pos.Add(s.LocalToGlobal(p))
}

func (s *State) PosGlobalToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return s.GlobalToLocal(p.Sub(s.Pos))
}

// PlaneGlobalToLocal expresses a global plane in body axes relative to the
// body origin.
func (s *State) PlaneGlobalToLocal(p Plane) Plane {
	return Plane{
		Normal: s.GlobalToLocal(p.Normal),
		D:      p.D - p.Normal.Dot(s.Pos),
	}
}

// SetupOrientationFromAoA pitches the body nose-up by aoa about the global
// y axis. The solver frame is x forward, y left, z up.
func (s *State) SetupOrientationFromAoA(aoa float64) {
	sin, cos := math.Sincos(aoa)
	s.Orient = mgl64.Mat3FromRows(
		mgl64.Vec3{cos, 0, sin},
		mgl64.Vec3{0, 1, 0},
		mgl64.Vec3{-sin, 0, cos},
	)
}

// SetupSpeedAndPosition puts the body at the given altitude moving forward
// at speed and descending along glideAngle. Rates are cleared.
func (s *State) SetupSpeedAndPosition(speed, glideAngle, altitude float64) {
	sin, cos := math.Sincos(glideAngle)
	s.V = mgl64.Vec3{speed * cos, 0, -speed * sin}
	s.Pos = mgl64.Vec3{0, 0, altitude}
	s.Rot = mgl64.Vec3{}
	s.Acc = mgl64.Vec3{}
	s.RAcc = mgl64.Vec3{}
}

func (s *State) IsValid() bool {
	for _, v := range []mgl64.Vec3{s.Pos, s.V, s.Rot, s.Acc, s.RAcc} {
		for _, c := range v {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	for _, c := range s.Orient {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Plane is a ground plane with an upward unit normal. Points p with
// Normal.Dot(p) == D lie on it.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// Height is the signed distance of p above the plane.
func (p Plane) Height(pos mgl64.Vec3) float64 {
	return p.Normal.Dot(pos) - p.D
}

// Environment supplies forces to an integrator. CalcForces is called once
// per sub-stage with a trial state and must accumulate into the body;
// NewState is called once with the committed state.
type Environment interface {
	CalcForces(s *State)
	NewState(s *State)
}

// Reporter receives named scalar telemetry.
type Reporter interface {
	Report(name string, value float64)
}

type ReporterFunc func(name string, value float64)

func (f ReporterFunc) Report(name string, value float64) { f(name, value) }

type nopReporter struct{}

func (nopReporter) Report(string, float64) {}

// NopReporter discards everything.
var NopReporter Reporter = nopReporter{}

// Configurable exposes tunable scalars by name.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

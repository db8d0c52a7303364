package thrust

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

// Jet is a turbojet or turbofan with optional reheat and thrust
// vectoring. Thrust follows the low pressure spool speed (N1), which lags
// the throttle by the spool time.
type Jet struct {
	base
	MaxThrust    float64 // dry sea level thrust, N
	ReheatThrust float64 // extra sea level thrust at full reheat, N
	TSFC         float64 // lb/(lbf*h)
	ATSFC        float64 // lb/(lbf*h) for the reheat part
	N1Idle       float64 // percent
	N1Max        float64 // percent
	SpoolTime    float64 // seconds from idle to max
	VectorAngle  float64 // maximum nozzle deflection, rad

	reheat float64
	vector float64
	n1     float64
}

func NewJet(maxThrust float64) *Jet {
	return &Jet{
		base:      newBase(),
		MaxThrust: maxThrust,
		TSFC:      0.8,
		ATSFC:     2,
		N1Idle:    55,
		N1Max:     102,
		SpoolTime: 4,
		n1:        55,
	}
}

func (j *Jet) Kind() Kind             { return KindJet }
func (j *Jet) SetReheat(v float64)    { j.reheat = dynamo.Clamp(v, 0, 1) }
func (j *Jet) SetVector(v float64)    { j.vector = dynamo.Clamp(v, -1, 1) }
func (j *Jet) N1() float64            { return j.n1 }
func (j *Jet) Running() bool          { return j.fuel }
func (j *Jet) RPM() float64           { return j.n1 }
func (j *Jet) targetN1() float64      { return j.N1Idle + j.throttle*(j.N1Max-j.N1Idle) }
func (j *Jet) spoolFraction() float64 { return (j.n1 - j.N1Idle) / (j.N1Max - j.N1Idle) }

func (j *Jet) Integrate(dt float64) {
	target := j.targetN1()
	if !j.fuel {
		target = 0
	}
	if j.SpoolTime <= 0 {
		j.n1 = target
	} else {
		step := dt * (j.N1Max - j.N1Idle) / j.SpoolTime
		j.n1 += dynamo.Clamp(target-j.n1, -step, step)
	}
	j.update()
}

func (j *Jet) Stabilize() {
	j.n1 = j.targetN1()
	if !j.fuel {
		j.n1 = 0
	}
	j.update()
}

func (j *Jet) update() {
	sigma := j.air.DensityRatio()
	dry := j.MaxThrust * dynamo.Clamp(j.spoolFraction(), 0, 1) * sigma
	wet := 0.0
	if j.fuel {
		wet = j.ReheatThrust * j.reheat * sigma
	}

	dir := j.dir
	if j.VectorAngle != 0 && j.vector != 0 {
		// positive deflection tilts the thrust line down
		dir = mgl64.Rotate3DY(j.vector * j.VectorAngle).Mul3x1(dir)
	}
	j.thrust = dir.Mul(dry + wet)
	j.fuelFlow = (j.TSFC*dry + j.ATSFC*wet) * tsfcToSI
}

// SimpleJet is a thrust source with no engine dynamics.
type SimpleJet struct {
	base
	MaxThrust float64
	TSFC      float64
}

func NewSimpleJet(maxThrust float64) *SimpleJet {
	return &SimpleJet{base: newBase(), MaxThrust: maxThrust, TSFC: 0.8}
}

func (s *SimpleJet) Kind() Kind        { return KindSimpleJet }
func (s *SimpleJet) RPM() float64      { return 0 }
func (s *SimpleJet) Running() bool     { return s.fuel }
func (s *SimpleJet) Integrate(float64) { s.Stabilize() }

func (s *SimpleJet) Stabilize() {
	f := 0.0
	if s.fuel {
		f = s.throttle * s.MaxThrust * s.air.DensityRatio()
	}
	s.thrust = s.dir.Mul(f)
	s.fuelFlow = s.TSFC * math.Abs(f) * tsfcToSI
}

package aero

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

// Stall quadrants, indexed by (backward<<1)|(flow toward -z).
const (
	StallForward = iota
	StallForwardNegative
	StallBackward
	StallBackwardNegative
)

const (
	DefaultCriticalMach = 0.7

	flapMomentArm  = 0.1667
	waveDragFactor = 20.0
)

// Surface is one aerodynamic panel. Its force scales with the dynamic
// pressure times TotalDrag; the per-axis coefficients shape how much of
// the normalized wind becomes force along each surface axis.
type Surface struct {
	pos    mgl64.Vec3
	orient mgl64.Mat3
	chord  float64

	c0         float64
	cx, cy, cz float64
	cz0        float64

	peaks  [2]float64
	stalls [4]float64
	widths [4]float64

	incidence float64
	twist     float64

	slatAlpha, slatDrag float64
	flapLift, flapDrag  float64
	flapEffectiveness   float64
	spoilerLift         float64
	spoilerDrag         float64
	inducedDrag         float64
	criticalMach        float64

	slatPos, flapPos float64
	spoilerPos       float64
}

func NewSurface() *Surface {
	return &Surface{
		orient:            mgl64.Ident3(),
		c0:                1,
		cx:                1,
		cy:                1,
		cz:                1,
		peaks:             [2]float64{1, 1},
		slatDrag:          1,
		flapLift:          1,
		flapDrag:          1,
		flapEffectiveness: 1,
		spoilerLift:       1,
		spoilerDrag:       1,
		inducedDrag:       1,
		criticalMach:      DefaultCriticalMach,
	}
}

func (s *Surface) SetPosition(p mgl64.Vec3)    { s.pos = p }
func (s *Surface) Position() mgl64.Vec3        { return s.pos }
func (s *Surface) SetOrientation(o mgl64.Mat3) { s.orient = o }
func (s *Surface) Orientation() mgl64.Mat3     { return s.orient }
func (s *Surface) SetChord(c float64)          { s.chord = c }
func (s *Surface) Chord() float64              { return s.chord }

// SetTotalDrag sets the reference coefficient, in effect an area.
func (s *Surface) SetTotalDrag(c0 float64) { s.c0 = c0 }
func (s *Surface) TotalDrag() float64      { return s.c0 }

func (s *Surface) SetXDrag(cx float64) { s.cx = cx }
func (s *Surface) SetYDrag(cy float64) { s.cy = cy }
func (s *Surface) SetZDrag(cz float64) { s.cz = cz }
func (s *Surface) XDrag() float64      { return s.cx }
func (s *Surface) YDrag() float64      { return s.cy }
func (s *Surface) ZDrag() float64      { return s.cz }

// SetBaseZDrag sets the zero-alpha lift offset produced by camber.
func (s *Surface) SetBaseZDrag(cz0 float64) { s.cz0 = cz0 }

// SetStallPeak sets the peak lift multiplier for forward (0) or
// backward (1) flow.
func (s *Surface) SetStallPeak(i int, peak float64) { s.peaks[i] = peak }
func (s *Surface) SetStall(i int, alpha float64)    { s.stalls[i] = alpha }
func (s *Surface) SetStallWidth(i int, w float64)   { s.widths[i] = w }
func (s *Surface) Stall(i int) float64              { return s.stalls[i] }
func (s *Surface) StallWidth(i int) float64         { return s.widths[i] }

// SetIncidence sets the incidence angle; positive raises the leading
// edge.
func (s *Surface) SetIncidence(a float64) { s.incidence = a }
func (s *Surface) Incidence() float64     { return s.incidence }
func (s *Surface) SetTwist(a float64)     { s.twist = a }
func (s *Surface) Twist() float64         { return s.twist }

func (s *Surface) SetSlatParams(alpha, drag float64) {
	s.slatAlpha = alpha
	s.slatDrag = drag
}

func (s *Surface) SetFlapParams(lift, drag float64) {
	s.flapLift = lift
	s.flapDrag = drag
}

func (s *Surface) SetSpoilerParams(lift, drag float64) {
	s.spoilerLift = lift
	s.spoilerDrag = drag
}

func (s *Surface) SetFlapPos(p float64)           { s.flapPos = p }
func (s *Surface) FlapPos() float64               { return s.flapPos }
func (s *Surface) SetFlapEffectiveness(e float64) { s.flapEffectiveness = e }
func (s *Surface) FlapEffectiveness() float64     { return s.flapEffectiveness }
func (s *Surface) SetSlatPos(p float64)           { s.slatPos = p }
func (s *Surface) SlatPos() float64               { return s.slatPos }
func (s *Surface) SetSpoilerPos(p float64)        { s.spoilerPos = p }
func (s *Surface) SpoilerPos() float64            { return s.spoilerPos }
func (s *Surface) SetInducedDrag(k float64)       { s.inducedDrag = k }
func (s *Surface) SetCriticalMach(m float64)      { s.criticalMach = m }

// CalcForce returns the aerodynamic force and torque in body axes for the
// given local wind (air velocity relative to the surface, body axes),
// air density and freestream Mach number.
func (s *Surface) CalcForce(wind mgl64.Vec3, rho, mach float64) (force, torque mgl64.Vec3) {
	if s.c0 == 0 || (s.cx == 0 && s.cy == 0 && s.cz == 0) {
		return
	}
	vel := wind.Len()
	if vel == 0 {
		return
	}

	// normalized wind in surface axes, then rotated by incidence and
	// twist under a small-angle approximation
	lwind := s.orient.Mul3x1(wind.Mul(1 / vel))
	inc := s.incidence + s.twist
	lwind[2] -= inc * lwind[0]
	out := lwind

	stallMul := s.stallFunc(out)
	stallMul *= 1 + s.spoilerPos*(s.spoilerLift-1)
	stallLift := (stallMul - 1) * s.cz * out[2]
	flapLift := s.flapLiftFunc(out[2])

	out[2] = s.cz*out[2] + s.cz*s.cz0 + stallLift + flapLift
	out[0] *= s.cx
	out[1] *= s.cy

	out[2] *= Compressibility(mach)
	if mach > s.criticalMach {
		out[0] += lwind[0] * WaveDrag(mach, s.criticalMach)
	}

	// induced drag acts along the wind
	out = out.Add(lwind.Mul(s.inducedDrag * out[2] * lwind[2]))

	out[2] += inc * out[0]
	out = s.orient.Transpose().Mul3x1(out)

	scale := 0.5 * rho * vel * vel * s.c0
	scale *= 1 + math.Abs(s.flapPos)*(s.flapDrag-1)
	scale *= 1 + s.slatPos*(s.slatDrag-1)
	scale *= 1 + s.spoilerPos*(s.spoilerDrag-1)

	force = out.Mul(scale)
	// trailing edge down pitches the nose down, which is +y here
	ltorque := mgl64.Vec3{0, flapMomentArm * s.chord * s.flapPos * s.flapEffectiveness * scale, 0}
	torque = s.orient.Transpose().Mul3x1(ltorque)
	return force, torque
}

// stallFunc returns the lift multiplier for a normalized wind in surface
// axes: the pre-stall gain below the stall angle, blending to one across
// the stall width, one beyond.
func (s *Surface) stallFunc(v mgl64.Vec3) float64 {
	if v[0] == 0 {
		return 1
	}
	alpha := math.Abs(v[2] / v[0])

	i := 0
	if v[0] > 0 {
		i |= 2
	}
	if v[2] < 0 {
		i |= 1
	}
	fwdBak := i >> 1

	stall := s.stalls[i]
	if stall == 0 {
		return 1
	}
	if i == StallForward {
		stall += s.slatPos * s.slatAlpha
	}
	width := s.widths[i]
	if alpha > stall+width {
		return 1
	}

	// the gain is set by the positive-AoA stall of the same direction
	ref := s.stalls[i&2]
	if ref == 0 {
		return 1
	}
	scale := 0.5 * s.peaks[fwdBak] / ref
	if alpha <= stall {
		return scale
	}
	frac := dynamo.Smoothstep((alpha - stall) / width)
	return scale*(1-frac) + frac
}

// flapLiftFunc is the extra lift of a deployed flap, fading out past the
// forward stall.
func (s *Surface) flapLiftFunc(alpha float64) float64 {
	if s.stalls[0] == 0 {
		return 0
	}
	lift := s.cz * s.flapPos * (s.flapLift - 1) * s.peaks[0] * s.flapEffectiveness
	alpha = math.Abs(alpha)
	stall := s.stalls[0]
	switch {
	case alpha <= stall:
		return lift
	case alpha > stall+s.widths[0]:
		return 0
	}
	frac := dynamo.Smoothstep((alpha - stall) / s.widths[0])
	return lift * (1 - frac)
}

// Compressibility is the lift correction factor for Mach m: Prandtl-Glauert
// below 0.8, a fitted quadratic through the transonic band and a linear
// supersonic falloff.
func Compressibility(m float64) float64 {
	m = math.Abs(m)
	switch {
	case m < 0.8:
		return 1 / math.Sqrt(1-m*m)
	case m <= 1.2:
		d := m - 1
		return -5.3217*d*d - 0.39767*d + 1.8
	}
	return math.Max(0.5, 1.5076-(m-1.2))
}

// WaveDrag is the added drag coefficient beyond the critical Mach.
func WaveDrag(m, critical float64) float64 {
	if m <= critical {
		return 0
	}
	d := m - critical
	return waveDragFactor * d * d * d * d
}

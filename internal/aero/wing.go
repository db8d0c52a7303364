package aero

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

// ControlSpan places a control surface along a wing, as fractions of
// the half span from root (0) to tip (1). For slats Lift is the stall
// angle gained at full deflection.
type ControlSpan struct {
	Start, End float64
	Lift, Drag float64
}

func (c ControlSpan) covers(x float64) bool {
	return c.Start < x && x < c.End
}

type segment struct {
	surf   *Surface
	weight float64
	right  bool
}

// Wing is a lifting surface described by planform geometry. Compile
// slices it into Surfaces; after that only the runtime setters apply.
type Wing struct {
	Base       mgl64.Vec3
	Length     float64
	Chord      float64
	Taper      float64
	Sweep      float64
	Dihedral   float64
	Twist      float64
	Camber     float64
	Stall      float64
	StallWidth float64
	StallPeak  float64
	Mirror     bool

	InducedDrag float64

	Flap0, Flap1 ControlSpan
	Spoiler      ControlSpan
	Slat         ControlSpan

	incidence float64
	dragScale float64
	liftRatio float64

	segs          []segment
	flap0, flap1  []int
	slat, spoiler []int
}

func NewWing() *Wing {
	return &Wing{
		Taper:       1,
		InducedDrag: 1,
		dragScale:   1,
		liftRatio:   1,
	}
}

func (w *Wing) Compiled() bool { return len(w.segs) > 0 }

// Compile builds the surfaces. It is a no-op on a compiled wing.
func (w *Wing) Compile() error {
	if w.Compiled() {
		return nil
	}
	if w.Length <= 0 || w.Chord <= 0 {
		return fmt.Errorf("wing length %v chord %v: %w", w.Length, w.Chord, dynamo.ErrInvalidGeometry)
	}

	bounds := []float64{
		w.Flap0.Start, w.Flap0.End,
		w.Flap1.Start, w.Flap1.End,
		w.Spoiler.Start, w.Spoiler.End,
		w.Slat.Start, w.Slat.End,
		0, 1,
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	// nominal segment length: the mean chord as a fraction of the span
	segLen := w.Chord * 0.5 * (w.Taper + 1) / w.Length

	left := w.leftAxis()
	root := w.Base
	tip := w.Base.Add(left.Mul(w.Length))

	// y is the left vector and z is perpendicular to it and body x, so
	// flow along surface x is zero AoA
	x := mgl64.Vec3{1, 0, 0}
	y := left
	z := dynamo.Unit(x.Cross(y))
	x = y.Cross(z)
	orient := mgl64.Mat3FromRows(x, y, z)
	rightOrient := mgl64.Mat3FromRows(
		mgl64.Vec3{x[0], -x[1], x[2]},
		mgl64.Vec3{-y[0], y[1], -y[2]},
		mgl64.Vec3{z[0], -z[1], z[2]},
	)

	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		mid := (start + end) / 2

		nSegs := int(math.Ceil((end - start) / segLen))
		if w.Twist != 0 && nSegs < 8 {
			nSegs = 8
		}
		segWid := w.Length * (end - start) / float64(nSegs)

		for j := 0; j < nSegs; j++ {
			frac := start + (float64(j)+0.5)*(end-start)/float64(nSegs)
			pos := root.Add(tip.Sub(root).Mul(frac))
			chord := w.Chord * (1 - (1-w.Taper)*frac)

			w.addSegment(pos, orient, chord, chord*segWid, frac, mid, false)
			if w.Mirror {
				pos[1] = -pos[1]
				w.addSegment(pos, rightOrient, chord, chord*segWid, frac, mid, true)
			}
		}
	}

	w.SetIncidence(w.incidence)
	return nil
}

func (w *Wing) addSegment(pos mgl64.Vec3, orient mgl64.Mat3, chord, weight, frac, mid float64, right bool) {
	s := NewSurface()
	s.SetPosition(pos)
	s.SetOrientation(orient)
	s.SetChord(chord)
	s.SetTotalDrag(weight * w.dragScale)
	s.SetZDrag(w.liftRatio)
	s.SetTwist(w.Twist * frac)

	// camber is a fraction of the stall peak
	s.SetBaseZDrag(w.Camber * w.StallPeak)

	stall := w.Stall - w.StallWidth/4
	s.SetStall(StallForward, stall)
	s.SetStallWidth(StallForward, w.StallWidth)
	s.SetStallPeak(0, w.StallPeak)

	// negative AoA stall comes earlier and sharper on a cambered airfoil
	if w.Camber > 0 {
		s.SetStall(StallForwardNegative, stall*0.8)
		s.SetStallWidth(StallForwardNegative, w.StallWidth*0.5)
	} else {
		s.SetStall(StallForwardNegative, stall)
		s.SetStallWidth(StallForwardNegative, w.StallWidth)
	}

	// reverse flow stalls at about 13 degrees, sharply
	s.SetStallPeak(1, 1)
	for i := StallBackward; i <= StallBackwardNegative; i++ {
		s.SetStall(i, 0.2267)
		s.SetStallWidth(i, 0.01)
	}

	idx := len(w.segs)
	// flap1 wins where both flaps overlap
	if w.Flap0.covers(mid) {
		s.SetFlapParams(w.Flap0.Lift, w.Flap0.Drag)
		w.flap0 = append(w.flap0, idx)
	}
	if w.Flap1.covers(mid) {
		s.SetFlapParams(w.Flap1.Lift, w.Flap1.Drag)
		w.flap1 = append(w.flap1, idx)
	}
	if w.Slat.covers(mid) {
		s.SetSlatParams(w.Slat.Lift, w.Slat.Drag)
		w.slat = append(w.slat, idx)
	}
	if w.Spoiler.covers(mid) {
		s.SetSpoilerParams(w.Spoiler.Lift, w.Spoiler.Drag)
		w.spoiler = append(w.spoiler, idx)
	}
	s.SetInducedDrag(w.InducedDrag)

	w.segs = append(w.segs, segment{surf: s, weight: weight, right: right})
}

func (w *Wing) leftAxis() mgl64.Vec3 {
	return dynamo.Unit(mgl64.Vec3{-math.Tan(w.Sweep), math.Cos(w.Dihedral), math.Sin(w.Dihedral)})
}

func (w *Wing) NumSurfaces() int            { return len(w.segs) }
func (w *Wing) Surface(i int) *Surface      { return w.segs[i].surf }
func (w *Wing) SurfaceWeight(i int) float64 { return w.segs[i].weight }
func (w *Wing) DragScale() float64          { return w.dragScale }
func (w *Wing) LiftRatio() float64          { return w.liftRatio }
func (w *Wing) Incidence() float64          { return w.incidence }

func (w *Wing) SetDragScale(scale float64) {
	w.dragScale = scale
	for _, seg := range w.segs {
		seg.surf.SetTotalDrag(scale * seg.weight)
	}
}

func (w *Wing) SetLiftRatio(ratio float64) {
	w.liftRatio = ratio
	for _, seg := range w.segs {
		seg.surf.SetZDrag(ratio)
	}
}

func (w *Wing) SetIncidence(inc float64) {
	w.incidence = inc
	for _, seg := range w.segs {
		seg.surf.SetIncidence(inc)
	}
}

func (w *Wing) each(idx []int, lval, rval float64, set func(*Surface, float64)) {
	for _, i := range idx {
		v := lval
		if w.segs[i].right {
			v = rval
		}
		set(w.segs[i].surf, v)
	}
}

func (w *Wing) SetFlap0(lval, rval float64) {
	w.each(w.flap0, dynamo.Clamp(lval, -1, 1), dynamo.Clamp(rval, -1, 1), (*Surface).SetFlapPos)
}

func (w *Wing) SetFlap1(lval, rval float64) {
	w.each(w.flap1, dynamo.Clamp(lval, -1, 1), dynamo.Clamp(rval, -1, 1), (*Surface).SetFlapPos)
}

func (w *Wing) SetFlap0Effectiveness(v float64) {
	v = dynamo.Clamp(v, 1, 10)
	w.each(w.flap0, v, v, (*Surface).SetFlapEffectiveness)
}

func (w *Wing) SetFlap1Effectiveness(v float64) {
	v = dynamo.Clamp(v, 1, 10)
	w.each(w.flap1, v, v, (*Surface).SetFlapEffectiveness)
}

func (w *Wing) SetSpoiler(lval, rval float64) {
	w.each(w.spoiler, dynamo.Clamp(lval, 0, 1), dynamo.Clamp(rval, 0, 1), (*Surface).SetSpoilerPos)
}

func (w *Wing) SetSlat(v float64) {
	v = dynamo.Clamp(v, 0, 1)
	w.each(w.slat, v, v, (*Surface).SetSlatPos)
}

// Tip is the left wing tip in body coordinates.
func (w *Wing) Tip() mgl64.Vec3 {
	return w.Base.Add(w.leftAxis().Mul(w.Length))
}

// Span is the projected tip-to-tip span; a single unmirrored panel
// reports its own projected length.
func (w *Wing) Span() float64 {
	s := w.Length * math.Cos(w.Sweep) * math.Cos(w.Dihedral)
	if w.Mirror {
		return 2 * s
	}
	return s
}

// Area sums the planform area of the compiled surfaces.
func (w *Wing) Area() float64 {
	a := 0.0
	for _, seg := range w.segs {
		a += seg.weight
	}
	return a
}

// MAC is the mean aerodynamic chord of a linearly tapered panel.
func (w *Wing) MAC() float64 {
	t := w.Taper
	return 2.0 / 3.0 * w.Chord * (1 + t + t*t) / (1 + t)
}

// MACx is the body x coordinate of the leading quarter chord of the MAC.
func (w *Wing) MACx() float64 {
	t := w.Taper
	y := w.Length / 3 * (1 + 2*t) / (1 + t)
	return w.Base[0] - y*math.Tan(w.Sweep)
}

// GroundEffect returns the reference point and the height scale within
// which ground effect acts.
func (w *Wing) GroundEffect() (mgl64.Vec3, float64) {
	span := w.Length * math.Cos(w.Sweep) * math.Cos(w.Dihedral)
	return w.Base, 2 * (span + math.Abs(w.Base[2]))
}

package airplane

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/aero"
	"github.com/san-kum/aerodyn/internal/contact"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
)

const (
	groundEffectGain = 0.15

	// contact points compress 20 cm and hold ten times the weight there
	contactTravel = 0.2
	contactLoad   = 10.0

	// gear are weighted by distance from the CG plus this buffer so a
	// strut right under the CG cannot take all the load
	gearWeightBuffer = 0.5
)

// ErrZeroFuselage is returned for a fuselage whose ends coincide.
var ErrZeroFuselage = errors.New("zero length fuselage")

// Compile turns the geometry into surfaces, masses and gear, then solves
// for trim. A trim failure is kept as FailureMsg and also returned
// wrapped in dynamo.ErrTrimFailed.
func (a *Airplane) Compile() error {
	if a.compiled {
		return nil
	}
	body := a.model.Body()
	firstMass := body.NumMasses()

	// first pass in unitless weights, rescaled to the empty weight below
	aeroWgt := 0.0
	if a.wing != nil {
		w, err := a.compileWing(a.wing)
		if err != nil {
			return fmt.Errorf("compile wing: %w", err)
		}
		aeroWgt += w
		a.cgDesiredFront = a.wing.MACx() - a.wing.MAC()*a.cgDesiredMin
		a.cgDesiredAft = a.wing.MACx() - a.wing.MAC()*a.cgDesiredMax
	}
	if a.tail != nil {
		w, err := a.compileWing(a.tail)
		if err != nil {
			return fmt.Errorf("compile tail: %w", err)
		}
		aeroWgt += w
	}
	for i, v := range a.vstabs {
		w, err := a.compileWing(v)
		if err != nil {
			return fmt.Errorf("compile vstab %d: %w", i, err)
		}
		aeroWgt += w
	}
	for _, f := range a.fuselages {
		w, err := a.compileFuselage(f)
		if err != nil {
			if errors.Is(err, ErrZeroFuselage) {
				a.failure = msgZeroFuselage
			}
			return fmt.Errorf("compile fuselage: %w: %w", err, dynamo.ErrInvalidGeometry)
		}
		aeroWgt += w
	}
	if aeroWgt <= 0 {
		return fmt.Errorf("airframe has no aerodynamic surfaces: %w", dynamo.ErrInvalidGeometry)
	}

	nonAeroWgt := a.ballast
	for _, tr := range a.thrusters {
		nonAeroWgt += tr.mass
	}
	scale := (a.emptyWeight - nonAeroWgt) / aeroWgt
	if scale <= 0 {
		return fmt.Errorf("empty weight %v does not cover ballast and engines %v: %w",
			a.emptyWeight, nonAeroWgt, dynamo.ErrInvalidGeometry)
	}
	for i := firstMass; i < body.NumMasses(); i++ {
		h := physics.MassHandle(i)
		if err := body.SetMass(h, body.Mass(h)*scale); err != nil {
			return fmt.Errorf("rescale mass %d: %w", i, err)
		}
	}

	for _, tr := range a.thrusters {
		body.AddMass(tr.mass, tr.cg, true)
	}

	totalFuel := 0.0
	for _, t := range a.tanks {
		t.handle = body.AddMass(0, t.pos, false)
		totalFuel += t.cap
	}
	a.cruise.weight = a.emptyWeight + totalFuel*a.cruise.fuel
	a.approach.weight = a.emptyWeight + totalFuel*a.approach.fuel

	if err := body.Recalc(); err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	for _, gr := range a.gears {
		a.compileGear(gr)
	}
	for _, tr := range a.thrusters {
		a.model.AddThruster(tr.t)
	}

	if a.wing != nil {
		ref, span := a.wing.GroundEffect()
		a.model.SetGroundEffect(ref, span, groundEffectGain)
	}

	a.solveGear()
	a.calculateCGHardLimits()

	if a.wing != nil && a.tail != nil {
		a.solve()
	} else {
		a.applyDefaultFactors()
	}

	// after solveGear, which must not see these
	a.compileContactPoints()

	a.controls.Reset()
	a.controls.ApplyControls(0)
	a.compiled = true

	if a.failure != "" {
		a.log.Warn("trim failed", "reason", a.failure, "iterations", a.iterations)
		return fmt.Errorf("%s: %w", a.failure, dynamo.ErrTrimFailed)
	}
	a.log.Info("trim solved",
		"iterations", a.iterations,
		"drag", a.dragFactor,
		"lift", a.liftRatio,
		"aoa", a.cruise.aoa,
		"tail", a.tailIncidence,
	)
	return nil
}

// compileWing adds the wing's surfaces and their masses, which go as
// area^1.5, and marks the tips as contact points.
func (a *Airplane) compileWing(w *aero.Wing) (float64, error) {
	if err := w.Compile(); err != nil {
		return 0, err
	}
	tip := w.Tip()
	a.contacts = append(a.contacts, tip)
	if w.Mirror {
		a.contacts = append(a.contacts, mgl64.Vec3{tip[0], -tip[1], tip[2]})
	}

	wgt := 0.0
	for i := 0; i < w.NumSurfaces(); i++ {
		s := w.Surface(i)
		a.model.AddSurface(s)
		mass := math.Pow(w.SurfaceWeight(i), 1.5)
		a.model.Body().AddMass(mass, s.Position(), true)
		wgt += mass
	}
	return wgt, nil
}

// compileFuselage slices the fuselage into segments about as long as it
// is wide, each a surface with a mass that follows its tapered area.
func (a *Airplane) compileFuselage(f *Fuselage) (float64, error) {
	a.contacts = append(a.contacts, f.Front, f.Back)

	fwd := f.Front.Sub(f.Back)
	length := fwd.Len()
	if length == 0 {
		return 0, ErrZeroFuselage
	}
	if f.Width <= 0 {
		return 0, fmt.Errorf("fuselage width %v", f.Width)
	}
	segs := int(math.Ceil(length / f.Width))
	segWgt := length * f.Width / float64(segs)

	// x along the fuselage, z perpendicular to it and body y
	x := fwd.Normalize()
	y := mgl64.Vec3{0, 1, 0}
	z := dynamo.Unit(x.Cross(y))
	y = z.Cross(x)
	orient := mgl64.Mat3FromRows(x, y, z)

	wgt := 0.0
	for j := 0; j < segs; j++ {
		frac := (float64(j) + 0.5) / float64(segs)
		var scale float64
		if frac < f.Mid {
			scale = f.Taper + (1-f.Taper)*frac/f.Mid
		} else {
			scale = 1 - (1-f.Taper)*(frac-f.Mid)/(1-f.Mid)
		}
		pos := f.Back.Add(fwd.Mul(frac))

		mass := math.Pow(scale*segWgt, 1.5)
		a.model.Body().AddMass(mass, pos, true)
		wgt += mass

		// side drag is fixed; only the axial part is left to the solver
		const sideDrag = 0.5
		s := aero.NewSurface()
		s.SetPosition(pos)
		s.SetOrientation(orient)
		s.SetXDrag(f.Cx)
		s.SetYDrag(sideDrag * f.Cy)
		s.SetZDrag(sideDrag * f.Cz)
		s.SetTotalDrag(scale * segWgt)
		s.SetInducedDrag(f.IDrag)
		a.model.AddSurface(s)
		f.surfs = append(f.surfs, s)
	}
	return wgt, nil
}

// compileGear gives the gear a drag surface half way down the strut, as
// draggy as a square three times the compression long.
func (a *Airplane) compileGear(gr *gearRec) {
	g := gr.g
	length := 3 * g.Compression.Len()
	s := aero.NewSurface()
	s.SetPosition(g.Pos.Add(g.Compression.Mul(0.5)))
	s.SetTotalDrag(length * length)
	gr.surf = s
	a.model.AddGear(g)
	a.model.AddSurface(s)
}

// solveGear sizes the springs so that at full compression the gear
// absorb a descent at twice the approach sink rate of a three degree
// glide slope, each gear taking a share by its closeness to the CG.
func (a *Airplane) solveGear() {
	if len(a.gears) == 0 {
		return
	}
	cg := a.model.Body().CG()
	total := 0.0
	for _, gr := range a.gears {
		d := cg.Sub(gr.g.Pos)
		gr.wgt = 1 / (gearWeightBuffer + math.Hypot(d[0], d[1]))
		if !gr.g.IgnoreWhileSolving {
			total += gr.wgt
		}
	}
	if total == 0 {
		return
	}
	for _, gr := range a.gears {
		gr.wgt /= total
	}

	descent := 2 * a.approach.speed / 19.1
	energy := 0.5 * a.approach.weight * descent * descent

	for _, gr := range a.gears {
		g := gr.g
		e := energy * gr.wgt
		length := g.Compression.Len() * (1 + 2*g.InitialLoad)
		if length == 0 {
			continue
		}
		k := 2 * e / (length * length)
		g.Spring *= k
		g.Damping *= 2 * math.Sqrt(k*a.approach.weight*gr.wgt)
	}
}

func (a *Airplane) calculateCGHardLimits() {
	a.cgMin, a.cgMax = 1e6, -1e6
	for _, gr := range a.gears {
		x := gr.g.Pos[0]
		a.cgMin = math.Min(a.cgMin, x)
		a.cgMax = math.Max(a.cgMax, x)
	}
}

// compileContactPoints turns wing tips and fuselage ends into stiff
// pseudo gear so that scraping them is felt and detected.
func (a *Airplane) compileContactPoints() {
	mass := a.model.Body().TotalMass()
	spring := (1 / contactTravel) * physics.Gravity * contactLoad * mass
	damp := 2 * math.Sqrt(spring*mass)

	for _, p := range a.contacts {
		g := contact.NewGear()
		g.Pos = p
		g.Compression = mgl64.Vec3{0, 0, contactTravel}
		g.Spring = spring
		g.Damping = damp
		g.Brake = 1
		g.StaticFriction = 0.6
		g.DynamicFriction = 0.5
		g.ContactPoint = true
		a.model.AddGear(g)
	}
}

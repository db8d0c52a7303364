package aircraft

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/aero"
	"github.com/san-kum/aerodyn/internal/airplane"
	"github.com/san-kum/aerodyn/internal/contact"
	"github.com/san-kum/aerodyn/internal/control"
	"github.com/san-kum/aerodyn/internal/thrust"
)

// Input names shared by the catalog airframes.
const (
	InputThrottle  = "throttle"
	InputMixture   = "mixture"
	InputMagnetos  = "magnetos"
	InputStarter   = "starter"
	InputReheat    = "reheat"
	InputAileron   = "aileron"
	InputElevator  = "elevator"
	InputRudder    = "rudder"
	InputFlaps     = "flaps"
	InputSlats     = "slats"
	InputSpoilers  = "spoilers"
	InputBrake     = "brake"
	InputGear      = "gear"
	InputHook      = "hook"
	InputLaunchbar = "launchbar"
	InputLaunch    = "launch"
)

const (
	fuelDensity = 720.0
	jetFuel     = 800.0
	kt          = 0.514444
)

// mapper collects control mappings and keeps the first error. After an
// error it hands out detached mappings so range calls can be chained.
type mapper struct {
	a   *airplane.Airplane
	err error
}

func (m *mapper) add(input, object string, ctype control.Type, opts control.Option) *control.Mapping {
	if m.err != nil {
		return &control.Mapping{}
	}
	mp, err := m.a.MapControl(input, object, ctype, opts)
	if err != nil {
		m.err = fmt.Errorf("map %s to %s %v: %w", input, object, ctype, err)
		return &control.Mapping{}
	}
	return mp
}

// transition sets the full travel time of an output.
func (m *mapper) transition(object string, ctype control.Type, seconds float64) {
	if m.err != nil {
		return
	}
	if err := m.a.ControlMap().SetTransitionTime(object, ctype, seconds); err != nil {
		m.err = err
	}
}

func surface(base mgl64.Vec3, length, chord float64) *aero.Wing {
	w := aero.NewWing()
	w.Base = base
	w.Length = length
	w.Chord = chord
	w.Stall = 0.26
	w.StallWidth = 0.07
	w.StallPeak = 1.5
	return w
}

func fin(base mgl64.Vec3, length, chord, sweep float64) *aero.Wing {
	w := surface(base, length, chord)
	w.Dihedral = math.Pi / 2
	w.Sweep = sweep
	w.Flap0 = aero.ControlSpan{Start: 0, End: 1, Lift: 1.4, Drag: 1.1}
	return w
}

func strut(pos, compression mgl64.Vec3) *contact.Gear {
	g := contact.NewGear()
	g.Pos = pos
	g.Compression = compression
	return g
}

// Glider is the reference sailplane: a 5 m wing at the origin and a
// 1.5 m tail 4 m behind it, on a fixed main wheel and tail skid.
func Glider() (*airplane.Airplane, error) {
	a := airplane.New()

	wing := surface(mgl64.Vec3{}, 2.5, 1)
	wing.Mirror = true
	wing.Flap0 = aero.ControlSpan{Start: 0.6, End: 0.95, Lift: 1.3, Drag: 1.1}
	wing.Spoiler = aero.ControlSpan{Start: 0.2, End: 0.5, Lift: 0.7, Drag: 2}
	a.SetWing(wing)

	tail := surface(mgl64.Vec3{-4, 0, 0}, 0.75, 0.5)
	tail.Mirror = true
	tail.Flap0 = aero.ControlSpan{Start: 0, End: 1, Lift: 1.5, Drag: 1.1}
	a.SetTail(tail)

	a.AddVStab(fin(mgl64.Vec3{-4.1, 0, 0}, 0.6, 0.5, 0.3))

	a.AddGear(strut(mgl64.Vec3{0.1, 0, -0.6}, mgl64.Vec3{0, 0, 0.15}))
	skid := strut(mgl64.Vec3{-4, 0, -0.2}, mgl64.Vec3{0, 0, 0.1})
	skid.StaticFriction = 0.6
	skid.DynamicFriction = 0.5
	a.AddGear(skid)

	a.SetEmptyWeight(500)
	a.SetCruise(30, 0, 0, 0.1)
	a.SetApproach(20, 0, 0.1, 0, 0.1)

	m := &mapper{a: a}
	m.add(InputAileron, airplane.ObjWing, control.Flap0, control.Split)
	m.add(InputElevator, airplane.ObjTail, control.Flap0, 0)
	m.add(InputRudder, "vstab:0", control.Flap0, control.Invert)
	m.add(InputSpoilers, airplane.ObjWing, control.Spoiler, 0)
	m.add(InputBrake, "gear:0", control.Brake, 0)
	m.transition(airplane.ObjWing, control.Spoiler, 2)
	return a, m.err
}

// Trainer is a four-seat high-wing monoplane with a fixed pitch
// propeller and fixed gear with a steerable nose wheel.
func Trainer() (*airplane.Airplane, error) {
	a := airplane.New()

	wing := surface(mgl64.Vec3{0, 0, 1.1}, 5.5, 1.6)
	wing.Mirror = true
	wing.Taper = 0.7
	wing.Dihedral = 0.026
	wing.Camber = 0.05
	wing.Stall = 0.28
	wing.Flap0 = aero.ControlSpan{Start: 0, End: 0.55, Lift: 1.6, Drag: 1.5}
	wing.Flap1 = aero.ControlSpan{Start: 0.55, End: 0.95, Lift: 1.3, Drag: 1.1}
	a.SetWing(wing)

	tail := surface(mgl64.Vec3{-4.8, 0, 0.6}, 1.7, 1)
	tail.Mirror = true
	tail.Taper = 0.7
	tail.Stall = 0.28
	tail.Flap0 = aero.ControlSpan{Start: 0, End: 1, Lift: 1.6, Drag: 1.1}
	a.SetTail(tail)

	a.AddVStab(fin(mgl64.Vec3{-4.9, 0, 0.6}, 1.4, 1.1, 0.4))
	a.AddFuselage(mgl64.Vec3{2.5, 0, 0.3}, mgl64.Vec3{-5, 0, 0.3}, 1.1, 0.3, 0.4, 1, 1, 1, 1)

	prop := thrust.NewPropeller(0.95, 110*kt, 2400*2*math.Pi/60, 1.0, 0.75*119e3)
	engine := thrust.NewPistonEngine(119e3, 2700*2*math.Pi/60)
	pe := thrust.NewPropEngine(prop, engine, 2.5)
	pe.SetPosition(mgl64.Vec3{2.4, 0, 0.3})
	pe.SetDirection(mgl64.Vec3{1, 0, 0})
	a.AddThruster(pe, 150, mgl64.Vec3{1.8, 0, 0.3})

	a.AddTank(mgl64.Vec3{0, 1.5, 1.1}, 80, fuelDensity)
	a.AddTank(mgl64.Vec3{0, -1.5, 1.1}, 80, fuelDensity)

	nose := strut(mgl64.Vec3{1.8, 0, -0.8}, mgl64.Vec3{0, 0, 0.25})
	nose.Spring = 0.8
	a.AddGear(nose)
	a.AddGear(strut(mgl64.Vec3{-0.2, 1.2, -0.8}, mgl64.Vec3{0, 0, 0.2}))
	a.AddGear(strut(mgl64.Vec3{-0.2, -1.2, -0.8}, mgl64.Vec3{0, 0, 0.2}))

	a.SetEmptyWeight(770)
	a.SetCGDesired(0.15, 0.35)
	a.SetCruise(110*kt, 2000, 0.5, 0)
	a.AddCruiseControl(InputThrottle, 0.75)
	a.AddCruiseControl(InputMixture, 1)
	a.AddCruiseControl(InputMagnetos, 3)
	a.SetApproach(60*kt, 0, 0.07, 0.2, 0.05)
	a.AddApproachControl(InputThrottle, 0.3)
	a.AddApproachControl(InputMixture, 1)
	a.AddApproachControl(InputMagnetos, 3)
	a.AddApproachControl(InputFlaps, 0.5)
	a.SetElevatorControl(InputElevator)

	m := &mapper{a: a}
	m.add(InputThrottle, "thruster:0", control.Throttle, 0)
	m.add(InputMixture, "thruster:0", control.Mixture, 0)
	m.add(InputMagnetos, "thruster:0", control.Magnetos, 0)
	m.add(InputStarter, "thruster:0", control.Starter, 0)
	m.add(InputFlaps, airplane.ObjWing, control.Flap0, 0)
	m.add(InputAileron, airplane.ObjWing, control.Flap1, control.Split)
	m.add(InputElevator, airplane.ObjTail, control.Flap0, 0)
	m.add(InputRudder, "vstab:0", control.Flap0, control.Invert)
	m.add(InputRudder, "gear:0", control.Steer, 0).SetRange(-1, 1, -0.35, 0.35)
	m.add(InputBrake, "gear:1", control.Brake, 0)
	m.add(InputBrake, "gear:2", control.Brake, 0)
	m.transition(airplane.ObjWing, control.Flap0, 6)
	return a, m.err
}

// Jet is a two-engine swept-wing fighter trainer.
func Jet() (*airplane.Airplane, error) {
	a := airplane.New()
	if err := buildJet(a); err != nil {
		return nil, err
	}
	return a, nil
}

func buildJet(a *airplane.Airplane) error {
	wing := surface(mgl64.Vec3{0.5, 0, 0}, 4.8, 3.5)
	wing.Mirror = true
	wing.Taper = 0.3
	wing.Sweep = 0.6
	wing.Dihedral = -0.02
	wing.Stall = 0.3
	wing.StallWidth = 0.08
	wing.Flap0 = aero.ControlSpan{Start: 0, End: 0.4, Lift: 1.4, Drag: 1.5}
	wing.Flap1 = aero.ControlSpan{Start: 0.6, End: 0.95, Lift: 1.2, Drag: 1.1}
	wing.Slat = aero.ControlSpan{Start: 0, End: 0.9, Lift: 0.1, Drag: 1.05}
	wing.Spoiler = aero.ControlSpan{Start: 0.15, End: 0.55, Lift: 0.6, Drag: 2.5}
	a.SetWing(wing)

	tail := surface(mgl64.Vec3{-6, 0, 0}, 2.3, 2)
	tail.Mirror = true
	tail.Taper = 0.3
	tail.Sweep = 0.6
	tail.Stall = 0.3
	tail.Flap0 = aero.ControlSpan{Start: 0, End: 1, Lift: 1.5, Drag: 1.1}
	a.SetTail(tail)

	// canted twin fins
	left := fin(mgl64.Vec3{-6, 1, 0.5}, 2.2, 2, 0.7)
	left.Dihedral = 1.3
	right := fin(mgl64.Vec3{-6, -1, 0.5}, 2.2, 2, 0.7)
	right.Dihedral = math.Pi - 1.3
	a.AddVStab(left)
	a.AddVStab(right)

	a.AddFuselage(mgl64.Vec3{7, 0, 0}, mgl64.Vec3{-8, 0, 0}, 2, 0.4, 0.5, 1, 1, 1, 1)

	for _, y := range []float64{0.6, -0.6} {
		j := thrust.NewJet(50e3)
		j.ReheatThrust = 30e3
		j.SetPosition(mgl64.Vec3{-7.5, y, 0})
		j.SetDirection(mgl64.Vec3{1, 0, 0})
		a.AddThruster(j, 1000, mgl64.Vec3{-5, y, 0})
	}

	a.AddTank(mgl64.Vec3{0, 0, 0}, 3000, jetFuel)
	a.AddTank(mgl64.Vec3{-1, 2, 0}, 1000, jetFuel)
	a.AddTank(mgl64.Vec3{-1, -2, 0}, 1000, jetFuel)

	a.AddGear(strut(mgl64.Vec3{5, 0, -1.5}, mgl64.Vec3{0, 0, 0.4}))
	a.AddGear(strut(mgl64.Vec3{-1.5, 1.6, -1.5}, mgl64.Vec3{0, 0, 0.35}))
	a.AddGear(strut(mgl64.Vec3{-1.5, -1.6, -1.5}, mgl64.Vec3{0, 0, 0.35}))

	a.SetEmptyWeight(12000)
	a.SetCruise(240, 9000, 0.5, 0)
	a.AddCruiseControl(InputThrottle, 0.8)
	a.SetApproach(140*kt, 0, 0.14, 0.2, 0.05)
	a.AddApproachControl(InputThrottle, 0.5)
	a.AddApproachControl(InputFlaps, 1)
	a.AddApproachControl(InputSlats, 1)
	a.AddApproachControl(InputGear, 1)
	a.SetElevatorControl(InputElevator)

	m := &mapper{a: a}
	for i := range 2 {
		obj := fmt.Sprintf("thruster:%d", i)
		m.add(InputThrottle, obj, control.Throttle, 0)
		m.add(InputReheat, obj, control.Reheat, 0)
	}
	m.add(InputFlaps, airplane.ObjWing, control.Flap0, 0)
	m.add(InputAileron, airplane.ObjWing, control.Flap1, control.Split)
	m.add(InputSlats, airplane.ObjWing, control.Slat, 0)
	m.add(InputSpoilers, airplane.ObjWing, control.Spoiler, 0)
	m.add(InputElevator, airplane.ObjTail, control.Flap0, 0)
	m.add(InputRudder, "vstab:0", control.Flap0, control.Invert)
	m.add(InputRudder, "vstab:1", control.Flap0, control.Invert)
	m.add(InputRudder, "gear:0", control.Steer, 0).SetRange(-1, 1, -0.5, 0.5)
	m.add(InputBrake, "gear:1", control.Brake, 0)
	m.add(InputBrake, "gear:2", control.Brake, 0)
	for i := range 3 {
		obj := fmt.Sprintf("gear:%d", i)
		m.add(InputGear, obj, control.Extend, 0)
		m.transition(obj, control.Extend, 8)
	}
	m.transition(airplane.ObjWing, control.Flap0, 10)
	m.transition(airplane.ObjWing, control.Slat, 3)
	return m.err
}

// Carrier is the jet with an arrestor hook and a nose gear launchbar.
func Carrier() (*airplane.Airplane, error) {
	a := airplane.New()

	hook := contact.NewHook()
	hook.Pos = mgl64.Vec3{-6.5, 0, -0.6}
	hook.Length = 1.6
	hook.UpAngle = -0.1
	hook.DownAngle = 0.7
	a.SetHook(hook)

	bar := contact.NewLaunchbar()
	bar.Pos = mgl64.Vec3{5, 0, -1.1}
	bar.Length = 0.8
	bar.HoldbackPos = mgl64.Vec3{4.8, 0, -1.1}
	bar.HoldbackLength = 0.6
	bar.UpAngle = -0.4
	bar.DownAngle = 0.5
	bar.Acceleration = 30
	a.SetLaunchbar(bar)

	if err := buildJet(a); err != nil {
		return nil, err
	}

	m := &mapper{a: a}
	m.add(InputHook, airplane.ObjHook, control.HExtend, 0)
	m.add(InputLaunchbar, airplane.ObjLaunchbar, control.LExtend, 0)
	m.add(InputLaunch, airplane.ObjLaunchbar, control.LAccel, 0)
	if m.err != nil {
		return nil, m.err
	}
	return a, nil
}

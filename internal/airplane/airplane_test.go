package airplane

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/aero"
	"github.com/san-kum/aerodyn/internal/contact"
	"github.com/san-kum/aerodyn/internal/control"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
	"github.com/san-kum/aerodyn/internal/thrust"
)

func testWing(base mgl64.Vec3, length, chord float64) *aero.Wing {
	w := aero.NewWing()
	w.Base = base
	w.Length = length
	w.Chord = chord
	w.Stall = 0.26
	w.StallWidth = 0.07
	w.StallPeak = 1.5
	w.Mirror = true
	return w
}

// testGlider is a 5 m span wing with a 1.5 m span tail 4 m behind it.
func testGlider() *Airplane {
	a := New()
	a.SetWing(testWing(mgl64.Vec3{}, 2.5, 1))
	a.SetTail(testWing(mgl64.Vec3{-4, 0, 0}, 0.75, 0.5))
	a.SetEmptyWeight(500)
	a.SetCruise(30, 0, 0, 0.1)
	a.SetApproach(20, 0, 0.1, 0, 0.1)
	return a
}

// testPod is a bare fuselage, which skips the trim solver.
func testPod() *Airplane {
	a := New()
	a.AddFuselage(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{-3, 0, 0}, 1, 0.5, 0.5, 1, 1, 1, 1)
	a.SetEmptyWeight(800)
	a.SetApproach(25, 0, 0.1, 0.5, 0.05)
	return a
}

func TestGliderSolves(t *testing.T) {
	a := testGlider()
	if err := a.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if a.FailureMsg() != "" {
		t.Errorf("failure: got %q, want none", a.FailureMsg())
	}
	if n := a.SolutionIterations(); n <= 0 || n >= maxIterations {
		t.Errorf("iterations: got %v, want in (0, %v)", n, maxIterations)
	}
	if aoa := a.CruiseAoA(); math.Abs(aoa) >= 0.174 {
		t.Errorf("cruise aoa: got %v, want within 0.174", aoa)
	}
	if a.DragCoefficient() <= 0 || a.LiftRatio() <= 0 {
		t.Errorf("factors: got drag %v lift %v, want > 0", a.DragCoefficient(), a.LiftRatio())
	}
	if inc := a.TailIncidence(); inc >= 0 {
		t.Errorf("tail incidence: got %v, want < 0 for a CG behind the wing", inc)
	}

	// the solution holds the cruise condition in equilibrium
	if err := a.runConfig(&a.cruise); err != nil {
		t.Fatalf("run cruise: %v", err)
	}
	acc := a.globalAccel(&a.cruise)
	if math.Abs(acc[0]) > 0.05 || math.Abs(acc[2]) > 0.05 {
		t.Errorf("cruise residual acceleration: got %v", acc)
	}
	if p := a.globalAngularAccel(&a.cruise)[1]; math.Abs(p) > 0.05 {
		t.Errorf("cruise residual pitch acceleration: got %v", p)
	}
}

func TestInvertedThrustFails(t *testing.T) {
	a := testGlider()
	jet := thrust.NewSimpleJet(5000)
	jet.SetDirection(mgl64.Vec3{-1, 0, 0})
	a.AddThruster(jet, 50, mgl64.Vec3{})
	if _, err := a.MapControl("throttle", "thruster:0", control.Throttle, 0); err != nil {
		t.Fatalf("map throttle: %v", err)
	}
	a.AddCruiseControl("throttle", 1)

	err := a.Compile()
	if !errors.Is(err, dynamo.ErrTrimFailed) {
		t.Fatalf("compile: got %v, want ErrTrimFailed", err)
	}
	if got := a.FailureMsg(); got != msgDragNonPositive {
		t.Errorf("failure: got %q, want %q", got, msgDragNonPositive)
	}
	if got := a.SolutionIterations(); got != 1 {
		t.Errorf("iterations: got %v, want 1", got)
	}
}

func TestZeroLengthFuselage(t *testing.T) {
	a := New()
	a.AddFuselage(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}, 1, 1, 0.5, 1, 1, 1, 1)
	a.SetEmptyWeight(100)
	err := a.Compile()
	if !errors.Is(err, dynamo.ErrInvalidGeometry) || !errors.Is(err, ErrZeroFuselage) {
		t.Errorf("compile: got %v, want zero fuselage geometry error", err)
	}
	if got := a.FailureMsg(); got != msgZeroFuselage {
		t.Errorf("failure: got %q, want %q", got, msgZeroFuselage)
	}
}

func TestMasslessSolveFails(t *testing.T) {
	a := testGlider()
	if err := a.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	body := a.Model().Body()
	for h := 0; h < body.NumMasses(); h++ {
		if err := body.SetMass(physics.MassHandle(h), 0); err != nil {
			t.Fatalf("clear mass %d: %v", h, err)
		}
	}

	a.solve()
	if got, want := a.FailureMsg(), "mass properties: "+dynamo.ErrNoMass.Error(); got != want {
		t.Errorf("failure: got %q, want %q", got, want)
	}
	if got := a.SolutionIterations(); got != 1 {
		t.Errorf("iterations: got %v, want 1", got)
	}
}

func TestDefaultFactorsWithoutTail(t *testing.T) {
	a := testPod()
	if err := a.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := a.DragCoefficient(); math.Abs(got-defaultDragFactor) > 1e-12 {
		t.Errorf("drag: got %v, want %v", got, defaultDragFactor)
	}
	if got := a.LiftRatio(); math.Abs(got-defaultLiftFactor) > 1e-9 {
		t.Errorf("lift: got %v, want %v", got, defaultLiftFactor)
	}
	if got := a.SolutionIterations(); got != 0 {
		t.Errorf("iterations: got %v, want 0", got)
	}
}

func TestMassRescaledToEmptyWeight(t *testing.T) {
	a := testPod()
	a.AddBallast(mgl64.Vec3{2, 0, 0}, 100)
	a.AddThruster(thrust.NewSimpleJet(1000), 150, mgl64.Vec3{-2, 0, 0})
	a.AddTank(mgl64.Vec3{}, 200, 800)
	if err := a.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	body := a.Model().Body()
	if got := body.TotalMass(); math.Abs(got-800) > 1e-9 {
		t.Errorf("empty mass: got %v, want 800", got)
	}
	a.SetFuelFraction(0.5)
	if err := body.Recalc(); err != nil {
		t.Fatalf("recalc: %v", err)
	}
	if got := body.TotalMass(); math.Abs(got-900) > 1e-9 {
		t.Errorf("half fuel mass: got %v, want 900", got)
	}
	if got := a.ApproachWeight(); math.Abs(got-900) > 1e-9 {
		t.Errorf("approach weight: got %v, want 900", got)
	}
}

func TestSolveGear(t *testing.T) {
	a := testPod()
	for _, y := range []float64{1, -1} {
		g := contact.NewGear()
		g.Pos = mgl64.Vec3{0.5, y, -1}
		g.Compression = mgl64.Vec3{0, 0, 0.3}
		a.AddGear(g)
	}
	if err := a.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}

	descent := 2 * 25 / 19.1
	energy := 0.5 * 800 * descent * descent * 0.5
	k := 2 * energy / (0.3 * 0.3)
	for i := 0; i < a.NumGears(); i++ {
		g := a.Gear(i)
		if math.Abs(g.Spring-k) > 1e-6*k {
			t.Errorf("gear %d spring: got %v, want %v", i, g.Spring, k)
		}
		if want := 2 * math.Sqrt(k*800*0.5); math.Abs(g.Damping-want) > 1e-6*want {
			t.Errorf("gear %d damping: got %v, want %v", i, g.Damping, want)
		}
	}
	if lo, hi := a.CGHardLimits(); lo != 0.5 || hi != 0.5 {
		t.Errorf("cg limits: got [%v, %v], want [0.5, 0.5]", lo, hi)
	}

	// two struts plus the fuselage ends as contact points
	m := a.Model()
	if got := m.NumGears(); got != 4 {
		t.Fatalf("model gear: got %v, want 4", got)
	}
	for i := 2; i < 4; i++ {
		g := m.Gear(i)
		if !g.ContactPoint || g.Brake != 1 || g.Compression != (mgl64.Vec3{0, 0, contactTravel}) {
			t.Errorf("contact point %d: got %+v", i, g)
		}
		if want := physics.Gravity * contactLoad * 800 / contactTravel; math.Abs(g.Spring-want) > 1e-6 {
			t.Errorf("contact spring: got %v, want %v", g.Spring, want)
		}
	}
}

func TestGearDragFollowsExtension(t *testing.T) {
	a := testPod()
	g := contact.NewGear()
	g.Pos = mgl64.Vec3{0, 0, -1}
	g.Compression = mgl64.Vec3{0, 0, 0.4}
	a.AddGear(g)
	if _, err := a.MapControl("gear", "gear:0", control.Extend, 0); err != nil {
		t.Fatalf("map: %v", err)
	}
	if err := a.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	surf := a.gears[0].surf
	if want := 1.2 * 1.2 * a.DragCoefficient(); math.Abs(surf.TotalDrag()-want) > 1e-12 {
		t.Errorf("gear drag: got %v, want %v", surf.TotalDrag(), want)
	}

	a.ControlMap().SetInput("gear", 0.25)
	a.Model().SetState(dynamo.NewState())
	if err := a.Iterate(1.0 / 30); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if surf.XDrag() != 0.25 || surf.ZDrag() != 0.25 {
		t.Errorf("gear surface: got x %v z %v, want 0.25", surf.XDrag(), surf.ZDrag())
	}
}

func TestWeightsAndStores(t *testing.T) {
	a := testPod()
	i := a.AddWeight(mgl64.Vec3{0, 2, -0.5}, 0.5)
	w := a.weights[i]
	if w.surf.XDrag() != 0 || w.surf.TotalDrag() != 0.25 {
		t.Errorf("empty store: got xdrag %v total %v", w.surf.XDrag(), w.surf.TotalDrag())
	}
	a.SetWeight(i, 200)
	if got := a.Model().Body().Mass(w.handle); got != 200 {
		t.Errorf("store mass: got %v, want 200", got)
	}
	if w.surf.XDrag() != 1 || w.surf.YDrag() != 1 || w.surf.ZDrag() != 1 {
		t.Error("loaded store has no drag")
	}
	a.SetWeight(i, 0)
	if w.surf.YDrag() != 0 {
		t.Error("dropped store still has drag")
	}
}

func TestFuelConsumption(t *testing.T) {
	a := testPod()
	jet := thrust.NewSimpleJet(10000)
	jet.SetThrottle(1)
	a.AddThruster(jet, 100, mgl64.Vec3{-2, 0, 0})
	a.AddTank(mgl64.Vec3{}, 300, 800)
	if err := a.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	a.SetFuelFraction(1)
	a.Model().SetState(dynamo.NewState())

	dt := 1.0 / 30
	for i := 0; i < 30; i++ {
		if err := a.Iterate(dt); err != nil {
			t.Fatalf("iterate: %v", err)
		}
	}
	flow := 0.8 * 10000 / (physics.Gravity * 3600)
	if got := a.FuelBurned(); math.Abs(got-flow) > 1e-9 {
		t.Errorf("burned: got %v, want %v", got, flow)
	}
	if got := a.TotalFuel(); math.Abs(got-(300-flow)) > 1e-9 {
		t.Errorf("remaining: got %v, want %v", got, 300-flow)
	}
}

func TestFuelStarvation(t *testing.T) {
	a := testPod()
	jet := thrust.NewSimpleJet(10000)
	jet.SetThrottle(1)
	a.AddThruster(jet, 100, mgl64.Vec3{-2, 0, 0})
	a.AddTank(mgl64.Vec3{}, 300, 800)
	if err := a.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	a.SetTankFill(0, 0.05)
	a.Model().SetState(dynamo.NewState())
	// about seven steps of full throttle flow
	for i := 0; i < 10; i++ {
		if err := a.Iterate(1.0 / 30); err != nil {
			t.Fatalf("iterate: %v", err)
		}
	}
	if a.TotalFuel() != 0 {
		t.Errorf("fuel: got %v, want 0", a.TotalFuel())
	}
	if got := a.Thruster(0).Thrust(); got != (mgl64.Vec3{}) {
		t.Errorf("starved thrust: got %v, want zero", got)
	}
	if got := a.FuelBurned(); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("burned: got %v, want 0.05", got)
	}
}

func TestIterateBeforeCompile(t *testing.T) {
	if err := testPod().Iterate(0.1); !errors.Is(err, dynamo.ErrNotCompiled) {
		t.Errorf("iterate: got %v, want ErrNotCompiled", err)
	}
}

func TestPilotAccel(t *testing.T) {
	a := testPod()
	if err := a.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	s := dynamo.NewState()
	a.Model().SetState(s)
	if got, want := a.PilotAccel(), (mgl64.Vec3{0, 0, -physics.Gravity}); !dynamo.VecNear(got, want, 1e-12) {
		t.Errorf("level: got %v, want %v", got, want)
	}

	// pulling up at 1 g doubles the load
	s.Acc = mgl64.Vec3{0, 0, physics.Gravity}
	a.Model().SetState(s)
	if got, want := a.PilotAccel(), (mgl64.Vec3{0, 0, -2 * physics.Gravity}); !dynamo.VecNear(got, want, 1e-12) {
		t.Errorf("pull up: got %v, want %v", got, want)
	}
}

func TestReferenceState(t *testing.T) {
	a := testGlider()
	a.AddCruiseControl("throttle", 0.7)
	a.SetCruise(30, 1500, 0, 0)
	s := a.ReferenceState(false)
	if got := s.Pos[2]; got != 1500 {
		t.Errorf("cruise altitude: got %v, want 1500", got)
	}
	if got := s.V.Len(); math.Abs(got-30) > 1e-9 {
		t.Errorf("cruise speed: got %v, want 30", got)
	}
	if got := a.ReferenceInputs(false)["throttle"]; got != 0.7 {
		t.Errorf("cruise throttle: got %v, want 0.7", got)
	}
	if got := a.ReferenceState(true).Pos[2]; got != 0 {
		t.Errorf("approach altitude: got %v, want 0", got)
	}
	if _, ok := a.ReferenceInputs(true)["throttle"]; ok {
		t.Error("approach inherited the cruise throttle")
	}
}

func TestTargets(t *testing.T) {
	a := testPod()
	g := contact.NewGear()
	g.Pos = mgl64.Vec3{0, 0, -1}
	g.Compression = mgl64.Vec3{0, 0, 0.3}
	a.AddGear(g)
	a.AddThruster(thrust.NewJet(1000), 10, mgl64.Vec3{})

	tests := []struct {
		object string
		ctype  control.Type
		ok     bool
	}{
		{"gear:0", control.Brake, true},
		{"gear:0", control.Steer, true},
		{"gear:1", control.Brake, false},
		{"gear:x", control.Brake, false},
		{"thruster:0", control.Reheat, true},
		{"thruster:0", control.Magnetos, true},
		{"thruster:0", control.Brake, false},
		{"wing", control.Flap0, false},
		{"hook", control.HExtend, false},
		{"rotor", control.Throttle, false},
	}
	for _, tt := range tests {
		_, err := a.Target(tt.object, tt.ctype)
		if (err == nil) != tt.ok {
			t.Errorf("%s/%v: got err %v, want ok %v", tt.object, tt.ctype, err, tt.ok)
		}
		if err != nil && !errors.Is(err, dynamo.ErrUnknownHandle) {
			t.Errorf("%s/%v: got %v, want ErrUnknownHandle", tt.object, tt.ctype, err)
		}
	}

	if _, err := a.MapControl("brake", "gear:0", control.Brake, 0); err != nil {
		t.Fatalf("map: %v", err)
	}
	a.ControlMap().SetInput("brake", 1)
	a.ControlMap().ApplyControls(0)
	if g.Brake != 1 {
		t.Errorf("brake: got %v, want 1", g.Brake)
	}
}

func TestReport(t *testing.T) {
	a := testGlider()
	if err := a.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := map[string]float64{}
	a.Report(dynamo.ReporterFunc(func(name string, v float64) { got[name] = v }))
	if got["solve.iterations"] != float64(a.SolutionIterations()) {
		t.Errorf("solve.iterations: got %v, want %v", got["solve.iterations"], a.SolutionIterations())
	}
	for _, name := range []string{"solve.drag-coefficient", "solve.cruise-aoa", "cg.mac", "agl", "accel.pilot-z"} {
		if _, ok := got[name]; !ok {
			t.Errorf("report: missing %q", name)
		}
	}
}

func BenchmarkCompileGlider(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = testGlider().Compile()
	}
}

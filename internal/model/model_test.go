package model

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/aero"
	"github.com/san-kum/aerodyn/internal/contact"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
	"github.com/san-kum/aerodyn/internal/thrust"
)

const testMass = 600.0

// newTestModel returns a model whose mass is spread symmetrically around
// the origin so the CG sits there and the inertia is invertible.
func newTestModel(t testing.TB) *Model {
	t.Helper()
	m := NewModel()
	for _, p := range []mgl64.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}} {
		m.Body().AddMass(testMass/6, p, true)
	}
	if err := m.Body().Recalc(); err != nil {
		t.Fatalf("recalc: %v", err)
	}
	return m
}

func stateAt(z float64) dynamo.State {
	s := dynamo.NewState()
	s.Pos = mgl64.Vec3{0, 0, z}
	return s
}

func liftingSurface() *aero.Surface {
	s := aero.NewSurface()
	s.SetChord(1)
	s.SetTotalDrag(4)
	s.SetXDrag(0.02)
	s.SetZDrag(1.3)
	s.SetStall(aero.StallForward, 0.25)
	s.SetStallWidth(aero.StallForward, 0.06)
	s.SetStall(aero.StallForwardNegative, 0.2)
	s.SetStallWidth(aero.StallForwardNegative, 0.03)
	s.SetStallPeak(0, 1.5)
	return s
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	if got := m.Integrator().Interval(); math.Abs(got-1.0/30) > 1e-15 {
		t.Errorf("interval: got %v, want 1/30", got)
	}
	if got := m.globalGround.D; got != -100e3 {
		t.Errorf("default ground: got %v, want -100000", got)
	}
	if m.Crashed() {
		t.Error("new model is crashed")
	}
}

func TestFreeFall(t *testing.T) {
	m := newTestModel(t)
	m.SetState(stateAt(1000))
	if err := m.Iterate(); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	dt := m.Integrator().Interval()
	s := m.State()
	if want := (mgl64.Vec3{0, 0, -physics.Gravity * dt}); !dynamo.VecNear(s.V, want, 1e-9) {
		t.Errorf("velocity: got %v, want %v", s.V, want)
	}
	if want := 1000 - 0.5*physics.Gravity*dt*dt; math.Abs(s.Pos[2]-want) > 1e-9 {
		t.Errorf("altitude: got %v, want %v", s.Pos[2], want)
	}
	if want := (mgl64.Vec3{0, 0, -physics.Gravity}); !dynamo.VecNear(s.Acc, want, 1e-9) {
		t.Errorf("acceleration: got %v, want %v", s.Acc, want)
	}
}

func TestAGLAndCrash(t *testing.T) {
	tests := []struct {
		name    string
		z       float64
		onWater bool
		wantAGL float64
		crashed bool
	}{
		{"airborne", 2, false, 1, false},
		{"sunk", -1, false, -1.5, true},
		{"floats skipped", -1, true, 1e8, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.SetGround(physics.NewFlatGround(0))
			g := contact.NewGear()
			g.Pos = mgl64.Vec3{0, 0, -1}
			g.Compression = mgl64.Vec3{0, 0, 0.5}
			g.OnWater = tt.onWater
			g.OnSolid = !tt.onWater
			m.AddGear(g)
			m.SetState(stateAt(tt.z))
			if err := m.Iterate(); err != nil {
				t.Fatalf("iterate: %v", err)
			}
			if got := m.AGL(); math.Abs(got-tt.wantAGL) > 0.01 {
				t.Errorf("agl: got %v, want %v", got, tt.wantAGL)
			}
			if m.Crashed() != tt.crashed {
				t.Errorf("crashed: got %v, want %v", m.Crashed(), tt.crashed)
			}
		})
	}
}

func TestGroundEffect(t *testing.T) {
	const span = 10.0
	force := func(z float64, ge bool) mgl64.Vec3 {
		m := newTestModel(t)
		m.SetGround(physics.NewFlatGround(0))
		m.AddSurface(liftingSurface())
		if ge {
			m.SetGroundEffect(mgl64.Vec3{}, span, 0.15)
		}
		s := stateAt(z)
		s.V = mgl64.Vec3{30, 0, -3}
		m.UpdateGround(&s)
		m.Body().Reset()
		m.CalcForces(&s)
		return m.Body().Force()
	}

	plain := force(2, false)
	boosted := force(2, true)
	lift := plain[2] + testMass*physics.Gravity
	if lift <= 0 {
		t.Fatalf("surface lift: got %v, want > 0", lift)
	}
	want := lift * (span - 2) / span * 0.15
	if got := boosted[2] - plain[2]; math.Abs(got-want) > 1e-9*lift {
		t.Errorf("ground effect: got %v, want %v", got, want)
	}
	if high, highGE := force(20, false), force(20, true); !dynamo.VecNear(high, highGE, 1e-12) {
		t.Errorf("above span: got %v, want %v", highGE, high)
	}
}

func TestTurbulentWind(t *testing.T) {
	m := newTestModel(t)
	m.SetGround(physics.NewFlatGround(0))
	m.SetWind(mgl64.Vec3{5, 0, 0})
	s := stateAt(500)
	m.UpdateGround(&s)
	pos := mgl64.Vec3{2, 1, 0}
	calm := m.localWind(&s, pos)

	turb, err := physics.NewTurbulence(7, 1)
	if err != nil {
		t.Fatalf("turbulence: %v", err)
	}
	m.SetTurbulence(turb)
	gust := turb.At(s.PosLocalToGlobal(pos), 500, mgl64.Vec3{0, 0, 1})
	if gust.Len() == 0 {
		t.Fatal("no gust at the sample point")
	}
	got := m.localWind(&s, pos)
	if want := calm.Add(gust); !dynamo.VecNear(got, want, 1e-12) {
		t.Errorf("gusty wind: got %v, want %v", got, want)
	}

	m.Body().Reset()
	m.CalcForces(&s)
	if again := m.localWind(&s, pos); again != got {
		t.Errorf("force pass moved the field: got %v, want %v", again, got)
	}

	turb.SetMagnitude(0)
	if got := m.localWind(&s, pos); !dynamo.VecNear(got, calm, 1e-12) {
		t.Errorf("calm wind: got %v, want %v", got, calm)
	}
}

func TestThrusterTorqueAndGyro(t *testing.T) {
	m := newTestModel(t)
	prop := thrust.NewPropeller(1, 50, 250, physics.SeaLevelDensity, 100e3)
	p := thrust.NewPropEngine(prop, thrust.NewPistonEngine(100e3, 250), 2)
	p.SetThrottle(1)
	p.SetMixture(0.8)
	p.SetWind(mgl64.Vec3{-50, 0, 0})
	p.Stabilize()
	m.AddThruster(p)

	s := stateAt(1000)
	s.V = mgl64.Vec3{50, 0, 0}
	m.SetState(s)
	m.InitIteration()
	m.Body().Reset()
	m.CalcForces(&s)

	if got := m.Body().Gyro(); !dynamo.VecNear(got, p.Gyro(), 1e-12) || got[0] <= 0 {
		t.Errorf("gyro: got %v, want %v", got, p.Gyro())
	}
	if got := m.Body().Torque(); !dynamo.VecNear(got, p.Torque(), 1e-9) {
		t.Errorf("torque: got %v, want %v", got, p.Torque())
	}
	if got := m.Thrust(); !dynamo.VecNear(got, p.Thrust(), 1e-12) {
		t.Errorf("thrust: got %v, want %v", got, p.Thrust())
	}
}

func TestReport(t *testing.T) {
	m := newTestModel(t)
	m.AddGear(contact.NewGear())
	m.AddThruster(thrust.NewSimpleJet(1000))
	got := map[string]float64{}
	m.Report(dynamo.ReporterFunc(func(name string, v float64) { got[name] = v }))
	for _, name := range []string{"agl", "crashed", "gear.0.compression", "gear.0.wow", "engine.0.thrust", "engine.0.fuel-flow"} {
		if _, ok := got[name]; !ok {
			t.Errorf("report: missing %q", name)
		}
	}
}

func BenchmarkIterate(b *testing.B) {
	m := newTestModel(b)
	m.SetGround(physics.NewFlatGround(0))
	for i := 0; i < 4; i++ {
		m.AddSurface(liftingSurface())
	}
	g := contact.NewGear()
	g.Pos = mgl64.Vec3{0, 0, -1}
	g.Compression = mgl64.Vec3{0, 0, 0.5}
	m.AddGear(g)
	s := stateAt(500)
	s.V = mgl64.Vec3{40, 0, 0}
	m.SetState(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Iterate()
	}
}

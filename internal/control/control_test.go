package control

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/aerodyn/internal/dynamo"
)

type sink struct{ left, right float64 }

func (s *sink) target(name string) Target {
	return Target{Name: name, Set: func(l, r float64) { s.left, s.right = l, r }}
}

func TestTypeNames(t *testing.T) {
	for _, ct := range Types() {
		got, err := ParseType(ct.String())
		if err != nil {
			t.Fatalf("parse %v: %v", ct, err)
		}
		if got != ct {
			t.Errorf("parse %v: got %v", ct, got)
		}
	}
	if got, _ := ParseType(" flap0effectiveness "); got != Flap0Effectiveness {
		t.Errorf("case-insensitive parse: got %v, want FLAP0EFFECTIVENESS", got)
	}
	if _, err := ParseType("ELEVATOR"); !errors.Is(err, dynamo.ErrUnknownHandle) {
		t.Errorf("unknown type: got %v, want ErrUnknownHandle", err)
	}
}

func TestDefaultRanges(t *testing.T) {
	tests := []struct {
		ctype  Type
		lo, hi float64
	}{
		{Throttle, 0, 1},
		{Flap0, -1, 1},
		{Steer, -1, 1},
		{Incidence, -1, 1},
		{Vector, -1, 1},
		{Flap1Effectiveness, 1, 10},
		{Magnetos, 0, 3},
		{Brake, 0, 1},
	}
	for _, tt := range tests {
		lo, hi := tt.ctype.DefaultRange()
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("%v range: got [%v,%v], want [%v,%v]", tt.ctype, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestEndpointsMapExactly(t *testing.T) {
	for _, ct := range Types() {
		lo, hi := ct.DefaultRange()
		ranges := [][4]float64{
			{lo, hi, lo, hi},
			{-3, 7, 0.1, 0.7},
			{0, 1, 0.3, -0.45},
			{1, 0, 2.5, 10},
		}
		for i, r := range ranges {
			var s sink
			cm := NewControlMap()
			m := cm.AddMapping("in", ct, s.target("obj"), 0)
			if i > 0 {
				m.SetRange(r[0], r[1], r[2], r[3])
			}
			for side := 0; side < 2; side++ {
				cm.SetInput("in", r[side])
				cm.ApplyControls(0)
				if s.left != r[2+side] || s.right != r[2+side] {
					t.Errorf("%v %v: input %v gave (%v,%v), want %v", ct, r, r[side], s.left, s.right, r[2+side])
				}
			}
		}
	}
}

func TestInputClamping(t *testing.T) {
	var s sink
	cm := NewControlMap()
	cm.AddMapping("throttle", Throttle, s.target("engine"), 0)
	cm.SetInput("throttle", 4)
	cm.ApplyControls(0)
	if s.left != 1 {
		t.Errorf("over range: got %v, want 1", s.left)
	}
	cm.SetInput("throttle", -2)
	cm.ApplyControls(0)
	if s.left != 0 {
		t.Errorf("under range: got %v, want 0", s.left)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		opts        Option
		in          float64
		left, right float64
	}{
		{0, 0.5, 0.5, 0.5},
		{Split, 0.5, 0.5, -0.5},
		{Invert, 0.5, -0.5, -0.5},
		{Square, -0.5, -0.25, -0.25},
		{Square | Invert, -0.5, 0.25, 0.25},
		{Split | Square, 0.4, 0.16, -0.16},
	}
	for _, tt := range tests {
		t.Run(tt.opts.String(), func(t *testing.T) {
			var s sink
			cm := NewControlMap()
			cm.AddMapping("aileron", Flap0, s.target("wing"), tt.opts)
			cm.SetInput("aileron", tt.in)
			cm.ApplyControls(0)
			if math.Abs(s.left-tt.left) > 1e-12 || math.Abs(s.right-tt.right) > 1e-12 {
				t.Errorf("got (%v,%v), want (%v,%v)", s.left, s.right, tt.left, tt.right)
			}
		})
	}
}

func TestSumsInputsPerOutput(t *testing.T) {
	var s sink
	cm := NewControlMap()
	cm.AddMapping("elevator", Flap0, s.target("hstab"), 0)
	cm.AddMapping("trim", Flap0, s.target("hstab"), 0).SetRange(-1, 1, -0.2, 0.2)
	cm.SetInput("elevator", 0.5)
	cm.SetInput("trim", 1)
	cm.ApplyControls(0)
	if math.Abs(s.left-0.7) > 1e-12 {
		t.Errorf("summed output: got %v, want 0.7", s.left)
	}
	if l, _, ok := cm.Output("hstab", Flap0); !ok || l != s.left {
		t.Errorf("Output: got %v %v, want %v", l, ok, s.left)
	}
	if got := cm.Inputs(); len(got) != 2 || got[0] != "elevator" || got[1] != "trim" {
		t.Errorf("inputs: got %v", got)
	}
}

func TestTransitionTimeLimitsTravel(t *testing.T) {
	var s sink
	cm := NewControlMap()
	cm.AddMapping("flaps", Flap0, s.target("wing"), 0)
	if err := cm.SetTransitionTime("wing", Flap0, 4); err != nil {
		t.Fatal(err)
	}
	if err := cm.SetTransitionTime("tail", Flap0, 4); !errors.Is(err, dynamo.ErrUnknownHandle) {
		t.Errorf("unknown output: got %v, want ErrUnknownHandle", err)
	}

	cm.SetInput("flaps", 1)
	const dt = 0.5
	// full range of FLAP0 is 2, so 4 s gives 0.25 per half second
	prev := 0.0
	for i := 1; i <= 4; i++ {
		cm.ApplyControls(dt)
		if step := s.left - prev; step > 0.25+1e-12 {
			t.Errorf("step %d moved %v, want at most 0.25", i, step)
		}
		if want := 0.25 * float64(i); math.Abs(s.left-want) > 1e-12 {
			t.Errorf("step %d: got %v, want %v", i, s.left, want)
		}
		prev = s.left
	}
	cm.ApplyControls(dt)
	if s.left != 1 {
		t.Errorf("settled: got %v, want 1", s.left)
	}
}

func TestReset(t *testing.T) {
	var s sink
	cm := NewControlMap()
	cm.AddMapping("throttle", Throttle, s.target("engine"), 0)
	cm.SetInput("throttle", 0.8)
	cm.Reset()
	cm.ApplyControls(0)
	if s.left != 0 {
		t.Errorf("after reset: got %v, want 0", s.left)
	}
	cm.SetInput("unmapped", 1)
}

func TestPIDHold(t *testing.T) {
	pid := NewPID(0.5, 0.1, 0, 100)
	if u := pid.Update(90, 0.1); math.Abs(u-1) > 1e-12 {
		t.Errorf("saturated first output: got %v, want 1", u)
	}
	if u := pid.Update(99.5, 0.1); u <= 0 || u >= 1 {
		t.Errorf("below target: got %v, want in (0,1)", u)
	}
	if u := pid.Update(130, 0.1); u != -1 {
		t.Errorf("far above target: got %v, want -1", u)
	}

	if err := pid.SetParam("Target", 50); err != nil {
		t.Fatal(err)
	}
	if pid.GetParams()["Target"] != 50 {
		t.Errorf("target param: got %v, want 50", pid.GetParams()["Target"])
	}
	if err := pid.SetParam("Kx", 1); !errors.Is(err, dynamo.ErrUnknownHandle) {
		t.Errorf("unknown param: got %v, want ErrUnknownHandle", err)
	}
	pid.Reset()
	if u := pid.Update(50, 0.1); u != 0 {
		t.Errorf("at target after reset: got %v, want 0", u)
	}
}

func BenchmarkApplyControls(b *testing.B) {
	cm := NewControlMap()
	var s sink
	for _, ct := range Types() {
		cm.AddMapping("in", ct, s.target(ct.String()), Split|Square)
	}
	cm.SetInput("in", 0.3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cm.ApplyControls(1.0 / 30)
	}
}

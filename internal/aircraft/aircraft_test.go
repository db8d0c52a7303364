package aircraft

import (
	"errors"
	"slices"
	"testing"

	"github.com/san-kum/aerodyn/internal/dynamo"
)

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	want := []string{"carrier", "glider", "jet", "trainer"}
	if got := r.List(); !slices.Equal(got, want) {
		t.Errorf("list: got %v, want %v", got, want)
	}
	for _, name := range want {
		if d, ok := r.Describe(name); !ok || d == "" {
			t.Errorf("%s: missing description", name)
		}
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("zeppelin"); err == nil {
		t.Error("expected error for unknown aircraft")
	}
	if _, err := r.Load("zeppelin", nil); err == nil {
		t.Error("expected error loading unknown aircraft")
	}
}

func TestCatalogStructure(t *testing.T) {
	tests := []struct {
		name      string
		thrusters int
		gears     int
		vstabs    int
		tanks     int
		hook      bool
		inputs    []string
	}{
		{"glider", 0, 2, 1, 0, false, []string{InputAileron, InputElevator, InputRudder, InputSpoilers}},
		{"trainer", 1, 3, 1, 2, false, []string{InputThrottle, InputMixture, InputMagnetos, InputFlaps}},
		{"jet", 2, 3, 2, 3, false, []string{InputThrottle, InputReheat, InputSlats, InputGear}},
		{"carrier", 2, 3, 2, 3, true, []string{InputHook, InputLaunchbar, InputLaunch}},
	}
	r := NewRegistry()
	for _, tt := range tests {
		a, err := r.Get(tt.name)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got := a.NumThrusters(); got != tt.thrusters {
			t.Errorf("%s thrusters: got %v, want %v", tt.name, got, tt.thrusters)
		}
		if got := a.NumGears(); got != tt.gears {
			t.Errorf("%s gears: got %v, want %v", tt.name, got, tt.gears)
		}
		if got := a.NumVStabs(); got != tt.vstabs {
			t.Errorf("%s vstabs: got %v, want %v", tt.name, got, tt.vstabs)
		}
		if got := a.NumTanks(); got != tt.tanks {
			t.Errorf("%s tanks: got %v, want %v", tt.name, got, tt.tanks)
		}
		if got := a.Model().Hook() != nil; got != tt.hook {
			t.Errorf("%s hook: got %v, want %v", tt.name, got, tt.hook)
		}
		inputs := a.ControlMap().Inputs()
		for _, in := range tt.inputs {
			if !slices.Contains(inputs, in) {
				t.Errorf("%s: input %q not mapped, have %v", tt.name, in, inputs)
			}
		}
	}
}

// Every catalog entry must at least assemble and compile; the solver is
// allowed to report a trim failure.
func TestCatalogCompiles(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.List() {
		a, err := r.Load(name, nil)
		if err != nil && !errors.Is(err, dynamo.ErrTrimFailed) {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if a == nil || !a.Compiled() {
			t.Errorf("%s: not compiled", name)
			continue
		}
		if a.Model().Body().TotalMass() <= 0 {
			t.Errorf("%s: no mass", name)
		}
	}
}

func BenchmarkLoadGlider(b *testing.B) {
	r := NewRegistry()
	for i := 0; i < b.N; i++ {
		if _, err := r.Load("glider", nil); err != nil && !errors.Is(err, dynamo.ErrTrimFailed) {
			b.Fatal(err)
		}
	}
}

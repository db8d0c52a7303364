package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

func TestStandardAtmosphere(t *testing.T) {
	tests := []struct {
		alt           float64
		temp, density float64
		tol           float64
	}{
		{0, 288.15, 1.225, 1e-3},
		{1000, 281.65, 1.1117, 1e-3},
		{5000, 255.65, 0.7364, 1e-3},
		{11000, 216.65, 0.3639, 1e-3},
		{15000, 216.65, 0.1935, 1e-3},
	}
	for _, tt := range tests {
		a := StandardAtmosphere(tt.alt)
		if math.Abs(a.Temperature-tt.temp) > 0.01 {
			t.Errorf("T(%v): got %v, want %v", tt.alt, a.Temperature, tt.temp)
		}
		if math.Abs(a.Density-tt.density) > tt.tol {
			t.Errorf("rho(%v): got %v, want %v", tt.alt, a.Density, tt.density)
		}
	}
}

func TestSpeedOfSound(t *testing.T) {
	a := StandardAtmosphere(0)
	if got := a.SpeedOfSound(); math.Abs(got-340.3) > 0.1 {
		t.Errorf("sea level speed of sound: got %v, want 340.3", got)
	}
	if got := a.Mach(a.SpeedOfSound()); math.Abs(got-1) > 1e-12 {
		t.Errorf("mach: got %v, want 1", got)
	}
}

func TestFlatGround(t *testing.T) {
	g := NewFlatGround(12)
	s := g.GroundPlane(mgl64.Vec3{100, -40, 50})
	if h := s.Plane.Height(mgl64.Vec3{0, 0, 50}); h != 38 {
		t.Errorf("height: got %v, want 38", h)
	}
	if !s.Material.Solid {
		t.Error("flat ground should be solid")
	}
}

func TestDeckWire(t *testing.T) {
	d := NewDeck(mgl64.Vec3{0, 0, 20}, mgl64.Vec3{10, 0, 0})
	if _, ok := d.Wire(); ok {
		t.Fatal("wire latched before any sweep")
	}
	// hook dragged aft to fore across the wire at x=-100, just below deck
	sweep := [4]mgl64.Vec3{
		{-102, 0, 21},
		{-102, 0, 19.9},
		{-98, 0, 19.9},
		{-98, 0, 21},
	}
	if !d.CaughtWire(sweep) {
		t.Fatal("sweep across the wire not caught")
	}
	if _, ok := d.Wire(); !ok {
		t.Error("wire not latched")
	}
	if d.CaughtWire(sweep) {
		t.Error("wire caught twice")
	}
	d.ReleaseWire()
	if _, ok := d.Wire(); ok {
		t.Error("wire still latched after release")
	}
}

func TestDeckOffFootprintIsWater(t *testing.T) {
	d := NewDeck(mgl64.Vec3{0, 0, 20}, mgl64.Vec3{})
	s := d.GroundPlane(mgl64.Vec3{500, 0, 30})
	if s.Material.Solid {
		t.Error("off deck should be water")
	}
	if h := s.Plane.Height(mgl64.Vec3{500, 0, 30}); h != 30 {
		t.Errorf("height over sea: got %v, want 30", h)
	}
}

func TestGeocentricUp(t *testing.T) {
	up := Geocentric{}.Up(mgl64.Vec3{wgs84A, 0, 0})
	if !dynamo.VecNear(up, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("equator up: got %v, want [1 0 0]", up)
	}
}

package physics

import "github.com/go-gl/mathgl/mgl64"

// Frame answers which way is up at a global position.
type Frame interface {
	Up(pos mgl64.Vec3) mgl64.Vec3
}

// FlatEarth is a local tangent frame with z up everywhere.
type FlatEarth struct{}

func (FlatEarth) Up(mgl64.Vec3) mgl64.Vec3 { return mgl64.Vec3{0, 0, 1} }

const (
	wgs84A  = 6378137.0
	wgs84E2 = 6.69437999014e-3
)

// Geocentric treats global positions as earth-centered cartesian
// coordinates and returns the WGS84 ellipsoid normal.
type Geocentric struct{}

func (Geocentric) Up(pos mgl64.Vec3) mgl64.Vec3 {
	// The ellipsoid normal at pos is the gradient of x^2/a^2+y^2/a^2+z^2/b^2.
	b2 := wgs84A * wgs84A * (1 - wgs84E2)
	n := mgl64.Vec3{pos[0] / (wgs84A * wgs84A), pos[1] / (wgs84A * wgs84A), pos[2] / b2}
	if n.Len() == 0 {
		return mgl64.Vec3{0, 0, 1}
	}
	return n.Normalize()
}

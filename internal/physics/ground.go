package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

// Material describes the surface under a contact point.
type Material struct {
	FrictionFactor  float64
	RollingFriction float64
	Solid           bool
}

// Concrete is a dry paved surface.
var Concrete = Material{FrictionFactor: 1, RollingFriction: 0.02, Solid: true}

// Water is a fluid surface with no rolling friction.
var Water = Material{FrictionFactor: 1, RollingFriction: 0, Solid: false}

// GroundSample is the ground under a point: its plane in global
// coordinates, the velocity of the surface and its material.
type GroundSample struct {
	Plane    dynamo.Plane
	Vel      mgl64.Vec3
	Material Material
}

// Ground answers terrain queries. Samples are the most recent value for
// the queried point, never interpolated across an integration step.
type Ground interface {
	GroundPlane(pos mgl64.Vec3) GroundSample
}

// Wire is an arrestor wire given by its two end points.
type Wire struct {
	Ends [2]mgl64.Vec3
}

// Catapult is a launch track running from Start to End.
type Catapult struct {
	Start, End mgl64.Vec3
	Vel        mgl64.Vec3
}

// Carrier is a Ground that also offers carrier deck equipment.
type Carrier interface {
	Ground
	// CaughtWire reports whether the quadrilateral swept by a hook tip
	// (old and new positions of tip and mount) crosses a wire, and latches
	// that wire if so.
	CaughtWire(sweep [4]mgl64.Vec3) bool
	Wire() (Wire, bool)
	ReleaseWire()
	Catapult(pos mgl64.Vec3) (Catapult, float64, bool)
}

// FlatGround is an infinite horizontal plane at Elevation.
type FlatGround struct {
	Elevation float64
	Material  Material
}

func NewFlatGround(elevation float64) *FlatGround {
	return &FlatGround{Elevation: elevation, Material: Concrete}
}

func (g *FlatGround) GroundPlane(mgl64.Vec3) GroundSample {
	return GroundSample{
		Plane:    dynamo.Plane{Normal: mgl64.Vec3{0, 0, 1}, D: g.Elevation},
		Material: g.Material,
	}
}

// Deck is a moving flat carrier deck with a single arrestor wire and a
// single catapult, all given in deck coordinates relative to Origin.
// Off the deck footprint it returns the sea surface.
type Deck struct {
	Origin    mgl64.Vec3
	Vel       mgl64.Vec3
	Length    float64
	Width     float64
	SeaLevel  float64
	WireEnds  [2]mgl64.Vec3
	CatStart  mgl64.Vec3
	CatEnd    mgl64.Vec3
	wireTaken bool
}

// NewDeck returns a deck 20 m above the sea with the wire across the
// stern and the catapult along the bow.
func NewDeck(origin, vel mgl64.Vec3) *Deck {
	return &Deck{
		Origin:   origin,
		Vel:      vel,
		Length:   300,
		Width:    70,
		SeaLevel: origin[2] - 20,
		WireEnds: [2]mgl64.Vec3{{-100, -15, 0.15}, {-100, 15, 0.15}},
		CatStart: mgl64.Vec3{40, 0, 0},
		CatEnd:   mgl64.Vec3{120, 0, 0},
	}
}

func (d *Deck) onDeck(pos mgl64.Vec3) bool {
	rel := pos.Sub(d.Origin)
	return math.Abs(rel[0]) <= d.Length/2 && math.Abs(rel[1]) <= d.Width/2
}

func (d *Deck) GroundPlane(pos mgl64.Vec3) GroundSample {
	up := mgl64.Vec3{0, 0, 1}
	if !d.onDeck(pos) {
		return GroundSample{Plane: dynamo.Plane{Normal: up, D: d.SeaLevel}, Material: Water}
	}
	return GroundSample{
		Plane:    dynamo.Plane{Normal: up, D: d.Origin[2]},
		Vel:      d.Vel,
		Material: Concrete,
	}
}

// Advance moves the deck along its velocity.
func (d *Deck) Advance(dt float64) {
	d.Origin = d.Origin.Add(d.Vel.Mul(dt))
}

func (d *Deck) wire() Wire {
	return Wire{Ends: [2]mgl64.Vec3{d.Origin.Add(d.WireEnds[0]), d.Origin.Add(d.WireEnds[1])}}
}

func (d *Deck) CaughtWire(sweep [4]mgl64.Vec3) bool {
	if d.wireTaken {
		return false
	}
	w := d.wire()
	// The hook sweeps the quad (mount0, tip0, tip1, mount1); split it in
	// two triangles and test the wire segment against each.
	if segmentHitsTriangle(w.Ends[0], w.Ends[1], sweep[0], sweep[1], sweep[2]) ||
		segmentHitsTriangle(w.Ends[0], w.Ends[1], sweep[0], sweep[2], sweep[3]) {
		d.wireTaken = true
		return true
	}
	return false
}

func (d *Deck) Wire() (Wire, bool) {
	if !d.wireTaken {
		return Wire{}, false
	}
	return d.wire(), true
}

func (d *Deck) ReleaseWire() { d.wireTaken = false }

// Catapult returns the catapult, the distance of pos from its start
// shuttle, and whether the catapult exists.
func (d *Deck) Catapult(pos mgl64.Vec3) (Catapult, float64, bool) {
	c := Catapult{Start: d.Origin.Add(d.CatStart), End: d.Origin.Add(d.CatEnd), Vel: d.Vel}
	return c, pos.Sub(c.Start).Len(), true
}

// segmentHitsTriangle is the Moller-Trumbore test restricted to the
// segment p0-p1.
func segmentHitsTriangle(p0, p1, a, b, c mgl64.Vec3) bool {
	const eps = 1e-12
	dir := p1.Sub(p0)
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	h := dir.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < eps {
		return false
	}
	inv := 1 / det
	s := p0.Sub(a)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return false
	}
	q := s.Cross(e1)
	v := inv * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return false
	}
	t := inv * e2.Dot(q)
	return t >= 0 && t <= 1
}

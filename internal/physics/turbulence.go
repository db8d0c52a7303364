package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

const (
	// MaxTurbulence is the peak gust speed at full magnitude, in m/s.
	MaxTurbulence = 20.0

	// DefaultTurbulenceGens gives a field that repeats every 512 m.
	DefaultTurbulenceGens = 10

	// time axis scroll in metres per second per unit Rate
	turbBaseRate = 2.0
	// octaves summed into the field
	turbOctaves = 7
	// gusts weaken below turbLayer and lose their vertical part below
	// turbVerticalLayer
	turbLayer         = 300.0
	turbVerticalLayer = 100.0
)

// Turbulence is a precomputed field of gust velocities that tiles the
// horizontal plane. The field drifts with the mean wind and scrolls
// along a time axis at Rate; sampling it has no side effects.
type Turbulence struct {
	// Rate scales how fast the field changes in place, in Hz.
	Rate float64

	gens  int
	size  int
	mag   float64
	field [][3]float32

	timeOff float64
	drift   mgl64.Vec3
}

// NewTurbulence builds a field of 2^(gens-1) cells on a side from seed.
func NewTurbulence(gens int, seed uint32) (*Turbulence, error) {
	if gens < turbOctaves || gens > 16 {
		return nil, fmt.Errorf("turbulence generations %d not in [%d, 16]: %w", gens, turbOctaves, dynamo.ErrParameterBounds)
	}
	t := &Turbulence{Rate: 1, gens: gens, size: 1 << (gens - 1), mag: 1}
	n := t.size
	t.field = make([][3]float32, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			var v mgl64.Vec3
			for c := range v {
				v[c] = t.noise(seed+uint32(c), float64(x)+0.5, float64(y)+0.5)
			}
			v = v.Mul(cubeNorm(v))
			t.field[y*n+x] = [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
		}
	}
	return t, nil
}

// Size is the field's repeat distance in metres.
func (t *Turbulence) Size() int { return t.size }

// SetMagnitude sets the strength from 0 (calm) to 1 (severe). The gust
// speed grows with the square of the magnitude.
func (t *Turbulence) SetMagnitude(m float64) {
	m = dynamo.Clamp(m, 0, 1)
	t.mag = m * m
}

// Advance moves the field along with the wind and along its time axis.
func (t *Turbulence) Advance(dt float64, wind mgl64.Vec3) {
	t.timeOff += turbBaseRate * dt * t.Rate
	t.drift = t.drift.Add(wind.Mul(dt))
}

// At is the gust velocity at the global position pos, alt metres above
// the ground, with up the local vertical.
func (t *Turbulence) At(pos mgl64.Vec3, alt float64, up mgl64.Vec3) mgl64.Vec3 {
	p := pos.Sub(t.drift)
	n := float64(t.size)
	a := p[0] + p[2]
	b := p[1] + t.timeOff
	a -= n * math.Floor(a/n)
	b -= n * math.Floor(b/n)
	fa, fb := math.Floor(a), math.Floor(b)
	x, y := int(fa)&(t.size-1), int(fb)&(t.size-1)
	fa, fb = a-fa, b-fb

	c00, c10 := t.cell(x, y), t.cell(x+1, y)
	c01, c11 := t.cell(x, y+1), t.cell(x+1, y+1)
	lo := c00.Mul(1 - fa).Add(c10.Mul(fa))
	hi := c01.Mul(1 - fa).Add(c11.Mul(fa))
	out := lo.Mul(1 - fb).Add(hi.Mul(fb)).Mul(t.mag * MaxTurbulence)

	if alt < turbLayer {
		scale := 0.5 + 0.5*alt/turbLayer
		if alt < turbVerticalLayer {
			vert := out.Dot(up)
			out = out.Add(up.Mul(vert * (alt/turbVerticalLayer/scale - 1)))
		}
		out = out.Mul(scale)
	}
	return out
}

func (t *Turbulence) cell(x, y int) mgl64.Vec3 {
	c := t.field[(y%t.size)*t.size+x%t.size]
	return mgl64.Vec3{float64(c[0]), float64(c[1]), float64(c[2])}
}

// noise sums smoothed lattice noise over the octaves at cell
// coordinates a, b.
func (t *Turbulence) noise(seed uint32, a, b float64) float64 {
	n := float64(t.size)
	a, b = a/n, b/n
	a -= math.Floor(a)
	b -= math.Floor(b)
	x := uint32(a * (1 << 32))
	y := uint32(b * (1 << 32))

	amp, total := 0.5, 0.0
	for g := t.gens - turbOctaves; g < t.gens; g++ {
		xl, yl := x>>(32-g), y>>(32-g)
		xf, yf := smoothstep(unitFrac(x<<g)), smoothstep(unitFrac(y<<g))
		p0 := lattice(seed, xl, yl)*(1-yf) + lattice(seed, xl, yl+1)*yf
		p1 := lattice(seed, xl+1, yl)*(1-yf) + lattice(seed, xl+1, yl+1)*yf
		total += amp * (p0*(1-xf) + p1*xf)
		amp *= 0.5
	}
	return total
}

func unitFrac(u uint32) float64 { return float64(u) / math.MaxUint32 }

func smoothstep(f float64) float64 { return f * f * (3 - 2*f) }

// lattice is a value in [-1, 1] fixed for each lattice point.
func lattice(seed, x, y uint32) float64 {
	h := mix32(seed*0x9e3779b9 ^ mix32(x*0x85ebca6b^mix32(y)))
	return 2*unitFrac(h) - 1
}

// mix32 is the murmur3 finalizer.
func mix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// cubeNorm rescales a vector with components in the unit cube so its
// length is that of its largest component, keeping corner vectors from
// dominating.
func cubeNorm(v mgl64.Vec3) float64 {
	l := v.Len()
	if l == 0 {
		return 0
	}
	return math.Max(math.Abs(v[0]), math.Max(math.Abs(v[1]), math.Abs(v[2]))) / l
}

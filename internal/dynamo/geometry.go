package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

func Clamp[T Number](x, low, high T) T {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

func Lerp[T constraints.Float](x, a, b T) T {
	return (1-x)*a + x*b
}

// Smoothstep is the cubic 3f^2 - 2f^3 on [0,1].
func Smoothstep[T constraints.Float](f T) T {
	return f * f * (3 - 2*f)
}

// Unit returns v normalized, or the zero vector if v has no length.
func Unit(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Outer returns a*b^T.
func Outer(a, b mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3FromCols(a.Mul(b[0]), a.Mul(b[1]), a.Mul(b[2]))
}

// Orthonormalize re-orthonormalizes the rows of an orientation matrix.
// The x row keeps its direction, z is made perpendicular to it and y is
// rebuilt as z cross x.
func Orthonormalize(m mgl64.Mat3) mgl64.Mat3 {
	x, _, z := m.Rows()
	x = Unit(x)
	z = Unit(z.Sub(x.Mul(x.Dot(z))))
	y := z.Cross(x)
	return mgl64.Mat3FromRows(x, y, z)
}

// RotMatrix returns the rotation produced by angular velocity rot (global
// axes) over dt, transposed so that orient.Mul3(RotMatrix(rot, dt)) is
// the rotated orientation.
func RotMatrix(rot mgl64.Vec3, dt float64) mgl64.Mat3 {
	mag := rot.Len()
	if mag == 0 || dt == 0 {
		return mgl64.Ident3()
	}
	r := mgl64.QuatRotate(mag*dt, rot.Mul(1/mag)).Mat4().Mat3()
	return r.Transpose()
}

// Invert returns the inverse of m, or ErrSingularMatrix when m is
// numerically singular.
func Invert(m mgl64.Mat3) (mgl64.Mat3, error) {
	scale := 0.0
	for _, c := range m {
		scale = math.Max(scale, math.Abs(c))
	}
	det := m.Det()
	if scale == 0 || math.Abs(det) <= 1e-12*scale*scale*scale {
		return mgl64.Mat3{}, ErrSingularMatrix
	}
	return m.Inv(), nil
}

// IsSymmetric reports whether m equals its transpose within eps.
func IsSymmetric(m mgl64.Mat3, eps float64) bool {
	return MatNear(m, m.Transpose(), eps)
}

// VecNear reports whether every component of a and b differs by at most
// tol.
func VecNear(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func MatNear(a, b mgl64.Mat3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

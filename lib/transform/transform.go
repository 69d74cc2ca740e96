/*package transform builds and applies the 2D homogeneous transformations
supported for phase space records: translations, rotations about the z axis,
and reflections across lines through the origin.

Matrices are 3x3 and act on column vectors (x, y, 1). Positions are
transformed by the full matrix. Direction cosines are transformed by the
upper-left 2x2 block only: a direction is a vector, not a point, so it must
never pick up the translation column.
*/
package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

// Identity returns the 3x3 identity matrix.
func Identity() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

// Translation returns a matrix that shifts positions by (dx, dy) cm.
// Directions are left alone.
func Translation(dx, dy float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, dx,
		0, 1, dy,
		0, 0, 1,
	})
}

// Rotation returns a matrix that rotates by theta radians counter-clockwise
// around the z axis.
func Rotation(theta float64) *mat.Dense {
	s, c := math.Sincos(theta)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// Reflection returns a matrix that reflects across the line through the
// origin with direction (x, y). (x, y) doesn't need to be normalized, but it
// can't be the zero vector.
func Reflection(x, y float64) (*mat.Dense, error) {
	norm := math.Hypot(x, y)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, egsphsp.ValidationErrorf("can't reflect across the "+
			"direction (%g, %g): it needs to be a finite, non-zero vector",
			x, y)
	}
	ux, uy := x/norm, y/norm
	return mat.NewDense(3, 3, []float64{
		ux*ux - uy*uy, 2 * ux * uy, 0,
		2 * ux * uy, uy*uy - ux*ux, 0,
		0, 0, 1,
	}), nil
}

// Compose returns the matrix that applies ms in order: ms[0] first. A
// single matrix is copied as is.
func Compose(ms ...mat.Matrix) *mat.Dense {
	if len(ms) == 1 {
		return mat.DenseCopyOf(ms[0])
	}
	out := Identity()
	for _, m := range ms {
		next := &mat.Dense{}
		next.Mul(m, out)
		out = next
	}
	return out
}

// Apply transforms a single record. The third direction cosine keeps its
// sign; if rounding pushes the transformed (U, V) outside the unit circle,
// it is rescaled onto it so W stays well defined.
//
// Terms with a zero coefficient are skipped rather than added, so the
// identity parts of a matrix leave values bit-for-bit unchanged, including
// signed zeros and non-finite values. Directions are only touched when the
// 2x2 block isn't the identity.
func Apply(r egsphsp.Record, m mat.Matrix) egsphsp.Record {
	x, y := float64(r.X), float64(r.Y)
	r.X = float32(affine(m.At(0, 0), x, m.At(0, 1), y, m.At(0, 2)))
	r.Y = float32(affine(m.At(1, 0), x, m.At(1, 1), y, m.At(1, 2)))

	if isIdentity2D(m) {
		return r
	}
	u, v := float64(r.U), float64(r.V)
	u, v = affine(m.At(0, 0), u, m.At(0, 1), v, 0),
		affine(m.At(1, 0), u, m.At(1, 1), v, 0)
	if n2 := u*u + v*v; n2 > 1 {
		n := math.Sqrt(n2)
		u, v = u/n, v/n
	}
	r.U, r.V = float32(u), float32(v)

	return r
}

// affine returns a*x + b*y + c, leaving out every term whose coefficient is
// zero.
func affine(a, x, b, y, c float64) float64 {
	sum, started := 0.0, false
	add := func(term float64) {
		if started {
			sum += term
		} else {
			sum, started = term, true
		}
	}
	if a != 0 {
		add(a * x)
	}
	if b != 0 {
		add(b * y)
	}
	if c != 0 {
		add(c)
	}
	return sum
}

func isIdentity2D(m mat.Matrix) bool {
	return m.At(0, 0) == 1 && m.At(0, 1) == 0 &&
		m.At(1, 0) == 0 && m.At(1, 1) == 1
}

// IsAffine2D returns an error unless m is a 3x3 matrix whose last row is
// (0, 0, 1).
func IsAffine2D(m mat.Matrix) error {
	rows, cols := m.Dims()
	if rows != 3 || cols != 3 {
		return egsphsp.ValidationErrorf("transformation matrices must be "+
			"3x3, but this one is %dx%d", rows, cols)
	}
	if m.At(2, 0) != 0 || m.At(2, 1) != 0 || m.At(2, 2) != 1 {
		return egsphsp.ValidationErrorf("the last row of a 2D homogeneous "+
			"matrix must be (0, 0, 1), not (%g, %g, %g)",
			m.At(2, 0), m.At(2, 1), m.At(2, 2))
	}
	return nil
}

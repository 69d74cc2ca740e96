/*package eq is a simple package for telling whether values are identical.
Floating point values are compared by bit pattern rather than with ==, so
NaN equals NaN (if the payloads match) and -0 does not equal +0. This is
what "equal" means for phase space files: two files are equal if they
decode to the same bits.
*/
package eq

import (
	"math"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

// Float32 returns true if x and y have the same bit pattern.
func Float32(x, y float32) bool {
	return math.Float32bits(x) == math.Float32bits(y)
}

// Float64 returns true if x and y have the same bit pattern.
func Float64(x, y float64) bool {
	return math.Float64bits(x) == math.Float64bits(y)
}

// Value returns true if x and y have the same type and value. Floats are
// compared with Float32/Float64, everything else with ==. Values of
// uncomparable types are never equal.
func Value(x, y interface{}) bool {
	switch xx := x.(type) {
	case float32:
		yy, ok := y.(float32)
		return ok && Float32(xx, yy)
	case float64:
		yy, ok := y.(float64)
		return ok && Float64(xx, yy)
	case egsphsp.Record:
		yy, ok := y.(egsphsp.Record)
		return ok && Record(&xx, &yy)
	case egsphsp.Header:
		yy, ok := y.(egsphsp.Header)
		return ok && Header(&xx, &yy)
	}
	defer func() { recover() }()
	return x == y
}

// Header returns true if two headers are bit-for-bit identical.
func Header(x, y *egsphsp.Header) bool {
	return x.Mode == y.Mode &&
		x.TotalParticles == y.TotalParticles &&
		x.TotalPhotons == y.TotalPhotons &&
		Float32(x.MaxEnergy, y.MaxEnergy) &&
		Float32(x.MinEnergy, y.MinEnergy) &&
		Float32(x.TotalParticlesInSource, y.TotalParticlesInSource)
}

// Record returns true if two records are bit-for-bit identical.
func Record(x, y *egsphsp.Record) bool {
	return x.Latch == y.Latch &&
		Float32(x.Energy, y.Energy) && x.Charged == y.Charged &&
		Float32(x.X, y.X) && Float32(x.Y, y.Y) &&
		Float32(x.U, y.U) && Float32(x.V, y.V) &&
		x.ZNegative == y.ZNegative &&
		Float32(x.Weight, y.Weight) && x.NewHistory == y.NewHistory &&
		Float32(x.ZLast, y.ZLast)
}

package egsphsp

import (
	"math"
)

// Latch bits. Only the direction bit is interpreted by the codec; the rest
// are carried through untouched, including bits this package doesn't know
// about.
const (
	// LatchProduced is set for particles created by bremsstrahlung or
	// annihilation.
	LatchProduced uint32 = 1 << 0
	// LatchRegions holds one bit per geometric region the particle has
	// passed through.
	LatchRegions uint32 = 0x00fffffe
	// LatchCreationRegion holds the region number the particle was created
	// in.
	LatchCreationRegion uint32 = 0x1f << 24
	// LatchCharge is the engine's own two-bit charge tag. It is preserved,
	// but the sign of the energy field is what this package trusts.
	LatchCharge uint32 = 0x3 << 29
	// LatchZNegative is the spare bit that stores the sign of the third
	// direction cosine.
	LatchZNegative uint32 = 1 << 31

	signBit uint32 = 1 << 31
)

// Record is a single decoded particle. The signs stored in the energy and
// weight fields on disk are split out into booleans, so Energy and Weight
// are always magnitudes.
type Record struct {
	// Latch is the raw latch with the LatchZNegative bit cleared.
	Latch uint32
	// Energy is the total energy in MeV.
	Energy float32
	// Charged is true for electrons and positrons and false for photons.
	Charged bool
	// X and Y are the position on the scoring plane in cm.
	X, Y float32
	// U and V are the x and y direction cosines.
	U, V float32
	// ZNegative is true if the particle moves in the -z direction.
	ZNegative bool
	// Weight is the statistical weight.
	Weight float32
	// NewHistory marks the first record scored from a new primary history.
	NewHistory bool
	// ZLast is the z coordinate of the last interaction. Only MODE2 files
	// store it; it is zero otherwise.
	ZLast float32
}

// W returns the z direction cosine, reconstructed from U and V. Rounding can
// push U^2 + V^2 slightly above one, in which case W is zero.
func (r *Record) W() float32 {
	u, v := float64(r.U), float64(r.V)
	rad := 1 - u*u - v*v
	if rad < 0 {
		rad = 0
	}
	w := float32(math.Sqrt(rad))
	if r.ZNegative {
		return -w
	}
	return w
}

// R returns the distance from the z axis in cm.
func (r *Record) R() float64 {
	x, y := float64(r.X), float64(r.Y)
	return math.Sqrt(x*x + y*y)
}

// Produced reports whether the particle was created by bremsstrahlung or
// annihilation.
func (r *Record) Produced() bool { return r.Latch&LatchProduced != 0 }

// Photon reports whether the record is an uncharged particle.
func (r *Record) Photon() bool { return !r.Charged }

// EncodeTo writes the record to b, which must be at least
// mode.RecordLength() bytes long. Sign bits are rebuilt from the boolean
// fields, so stray sign bits in Energy or Weight are ignored.
func (r *Record) EncodeTo(b []byte, mode Mode) {
	latch := r.Latch &^ LatchZNegative
	if r.ZNegative {
		latch |= LatchZNegative
	}
	order.PutUint32(b[0:4], latch)
	order.PutUint32(b[4:8], signed(r.Energy, r.Charged))
	order.PutUint32(b[8:12], math.Float32bits(r.X))
	order.PutUint32(b[12:16], math.Float32bits(r.Y))
	order.PutUint32(b[16:20], math.Float32bits(r.U))
	order.PutUint32(b[20:24], math.Float32bits(r.V))
	order.PutUint32(b[24:28], signed(r.Weight, r.NewHistory))
	if mode.HasZLast() {
		order.PutUint32(b[28:32], math.Float32bits(r.ZLast))
	}
}

// Encode returns the on-disk representation of the record.
func (r *Record) Encode(mode Mode) []byte {
	b := make([]byte, mode.RecordLength())
	r.EncodeTo(b, mode)
	return b
}

// DecodeRecord decodes a single record. It only fails if b has the wrong
// length: any bit pattern of the right size is a valid record.
func DecodeRecord(b []byte, mode Mode) (Record, error) {
	if len(b) != mode.RecordLength() {
		return Record{}, FormatErrorf("a %s record is %d bytes long, but "+
			"%d bytes were given", mode, mode.RecordLength(), len(b))
	}
	r := Record{}
	r.decode(b, mode)
	return r, nil
}

// decode assumes len(b) has already been checked.
func (r *Record) decode(b []byte, mode Mode) {
	latch := order.Uint32(b[0:4])
	r.Latch = latch &^ LatchZNegative
	r.ZNegative = latch&LatchZNegative != 0
	r.Energy, r.Charged = unsigned(order.Uint32(b[4:8]))
	r.X = math.Float32frombits(order.Uint32(b[8:12]))
	r.Y = math.Float32frombits(order.Uint32(b[12:16]))
	r.U = math.Float32frombits(order.Uint32(b[16:20]))
	r.V = math.Float32frombits(order.Uint32(b[20:24]))
	r.Weight, r.NewHistory = unsigned(order.Uint32(b[24:28]))
	if mode.HasZLast() {
		r.ZLast = math.Float32frombits(order.Uint32(b[28:32]))
	} else {
		r.ZLast = 0
	}
}

// signed returns the bits of |x| with the sign bit set iff neg. This works
// on raw bits so that -0 and NaN payloads survive.
func signed(x float32, neg bool) uint32 {
	bits := math.Float32bits(x) &^ signBit
	if neg {
		bits |= signBit
	}
	return bits
}

// unsigned splits raw float bits into a magnitude and a sign.
func unsigned(bits uint32) (float32, bool) {
	return math.Float32frombits(bits &^ signBit), bits&signBit != 0
}

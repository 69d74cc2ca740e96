/*package egsphsp reads and writes EGSnrc phase space files ("egsphsp"
files). A phase space file is a fixed-width header followed by a contiguous
array of fixed-width particle records. The record layout is selected by the
mode tag in the header: MODE0 records are 28 bytes long and MODE2 records
carry one extra float, the z coordinate of the last interaction.

All values are little-endian. The header occupies exactly one record slot
and is zero-padded up to the record length, so the size of a valid file is
always (1 + N) * RecordLength().
*/
package egsphsp

import (
	"encoding/binary"
	"math"
)

// Mode selects the record layout of a file.
type Mode uint8

const (
	// Mode0 records have no ZLast field.
	Mode0 Mode = iota
	// Mode2 records end with the ZLast field.
	Mode2
)

const (
	// HeaderLength is the number of significant bytes in a header. The rest
	// of the first record slot is padding.
	HeaderLength = 25
	mode0Length  = 28
	mode2Length  = 32
	modeTagLen   = 5
)

var order = binary.LittleEndian

// ParseMode converts a mode tag ("MODE0" or "MODE2") to a Mode.
func ParseMode(tag string) (Mode, error) {
	switch tag {
	case "MODE0":
		return Mode0, nil
	case "MODE2":
		return Mode2, nil
	}
	return Mode0, FormatErrorf("the mode tag %q is not recognized. "+
		"Only MODE0 and MODE2 phase space files are supported", tag)
}

func (m Mode) String() string {
	if m == Mode2 {
		return "MODE2"
	}
	return "MODE0"
}

// RecordLength is the size in bytes of one record (and of the padded
// header).
func (m Mode) RecordLength() int {
	if m == Mode2 {
		return mode2Length
	}
	return mode0Length
}

// HasZLast reports whether records in this mode carry the ZLast field.
func (m Mode) HasZLast() bool { return m == Mode2 }

// Header holds the aggregate statistics stored at the start of a file.
type Header struct {
	Mode Mode
	// TotalParticles is the number of records in the file.
	TotalParticles int32
	// TotalPhotons is the number of uncharged records.
	TotalPhotons int32
	// MaxEnergy and MinEnergy bound the total energy of every record, in
	// MeV.
	MaxEnergy, MinEnergy float32
	// TotalParticlesInSource is the (fractional) number of primary source
	// particles that were simulated to produce the file.
	TotalParticlesInSource float32
}

// Electrons returns the number of charged records.
func (hd *Header) Electrons() int32 {
	return hd.TotalParticles - hd.TotalPhotons
}

// FileSize returns the size in bytes a file with this header must have.
func (hd *Header) FileSize() int64 {
	n := int64(hd.Mode.RecordLength())
	return n + n*int64(hd.TotalParticles)
}

// Encode converts the header to its padded on-disk representation.
func (hd *Header) Encode() []byte {
	b := make([]byte, hd.Mode.RecordLength())
	copy(b[0:modeTagLen], hd.Mode.String())
	order.PutUint32(b[5:9], uint32(hd.TotalParticles))
	order.PutUint32(b[9:13], uint32(hd.TotalPhotons))
	order.PutUint32(b[13:17], math.Float32bits(hd.MaxEnergy))
	order.PutUint32(b[17:21], math.Float32bits(hd.MinEnergy))
	order.PutUint32(b[21:25], math.Float32bits(hd.TotalParticlesInSource))
	return b
}

// EncodePadded is Encode with the padding after the first HeaderLength
// bytes taken from pad instead of zeroed. Extra bytes of pad are ignored.
func (hd *Header) EncodePadded(pad []byte) []byte {
	b := hd.Encode()
	copy(b[HeaderLength:], pad)
	return b
}

// DecodeHeader decodes a header. b may either be exactly HeaderLength bytes
// or a full padded record slot for the mode named in its first five bytes.
// The padding is not inspected; Reader.Padding keeps it.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < modeTagLen {
		return Header{}, FormatErrorf("a header needs at least %d bytes "+
			"for its mode tag, but only %d were given", modeTagLen, len(b))
	}

	mode, err := ParseMode(string(b[:modeTagLen]))
	if err != nil {
		return Header{}, err
	}

	if len(b) != HeaderLength && len(b) != mode.RecordLength() {
		return Header{}, FormatErrorf("a %s header is %d bytes long "+
			"(%d without padding), but %d bytes were given",
			mode, mode.RecordLength(), HeaderLength, len(b))
	}

	return Header{
		Mode:                   mode,
		TotalParticles:         int32(order.Uint32(b[5:9])),
		TotalPhotons:           int32(order.Uint32(b[9:13])),
		MaxEnergy:              math.Float32frombits(order.Uint32(b[13:17])),
		MinEnergy:              math.Float32frombits(order.Uint32(b[17:21])),
		TotalParticlesInSource: math.Float32frombits(order.Uint32(b[21:25])),
	}, nil
}

// Validate checks the header's internal invariants. It does not know the
// size of the file; see CheckSize for that.
func (hd *Header) Validate() error {
	switch {
	case hd.TotalParticles < 0:
		return ValidationErrorf("the header claims %d particles, but "+
			"particle counts can't be negative", hd.TotalParticles)
	case hd.TotalPhotons < 0:
		return ValidationErrorf("the header claims %d photons, but "+
			"photon counts can't be negative", hd.TotalPhotons)
	case hd.TotalPhotons > hd.TotalParticles:
		return ValidationErrorf("the header claims %d photons, which is "+
			"more than its %d total particles", hd.TotalPhotons,
			hd.TotalParticles)
	case hd.TotalParticles > 0 && !(hd.MaxEnergy >= hd.MinEnergy):
		return ValidationErrorf("the header's maximum energy, %g MeV, is "+
			"below its minimum energy, %g MeV", hd.MaxEnergy, hd.MinEnergy)
	}
	return nil
}

// CheckSize returns an error if a file of the given size can't hold
// exactly the records the header claims.
func (hd *Header) CheckSize(size int64) error {
	if size == hd.FileSize() {
		return nil
	}
	n := int64(hd.Mode.RecordLength())
	return ValidationErrorf("the header claims %d %s records, which "+
		"means the file should be %d bytes long, but it is %d bytes long "+
		"(room for %.2f records). The file is probably truncated or isn't "+
		"a phase space file", hd.TotalParticles, hd.Mode, hd.FileSize(),
		size, float64(size-n)/float64(n))
}

// Merge folds another header's statistics into hd, as if the records of
// both files were concatenated. Energy extrema of files without records
// are ignored, since their values are placeholders.
func (hd *Header) Merge(other *Header) {
	switch {
	case other.TotalParticles == 0:
	case hd.TotalParticles == 0:
		hd.MaxEnergy, hd.MinEnergy = other.MaxEnergy, other.MinEnergy
	default:
		if other.MaxEnergy > hd.MaxEnergy {
			hd.MaxEnergy = other.MaxEnergy
		}
		if other.MinEnergy < hd.MinEnergy {
			hd.MinEnergy = other.MinEnergy
		}
	}
	hd.TotalParticles += other.TotalParticles
	hd.TotalPhotons += other.TotalPhotons
	hd.TotalParticlesInSource += other.TotalParticlesInSource
}

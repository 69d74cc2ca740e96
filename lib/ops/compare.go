package ops

import (
	"fmt"
	"io"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
	"github.com/phil-mansfield/beamdpr/lib/eq"
)

// Difference describes the first difference found between two files. The
// zero value means the files are equal.
type Difference struct {
	// Field is the name of the header or record field that differs, or
	// "records" if the files have different numbers of records.
	Field string
	// Index is the index of the differing record, or -1 for header
	// differences.
	Index int
	// A and B are the differing values, formatted for printing.
	A, B string
}

// Equal reports whether no difference was found.
func (d Difference) Equal() bool { return d.Field == "" }

func (d Difference) String() string {
	switch {
	case d.Equal():
		return "files are equal"
	case d.Index < 0:
		return fmt.Sprintf("header field %s differs: %s != %s", d.Field, d.A, d.B)
	default:
		return fmt.Sprintf("record %d field %s differs: %s != %s",
			d.Index, d.Field, d.A, d.B)
	}
}

// Compare compares two phase space files. Headers are compared first, field
// by field, and then records are compared in order. The first difference
// is returned. Floating point fields are compared by bit pattern, so there
// is no tolerance, and NaN equals NaN if the payloads match.
func (e *Engine) Compare(pathA, pathB string) (Difference, error) {
	ra, err := egsphsp.Open(pathA)
	if err != nil {
		return Difference{}, err
	}
	defer ra.Close()

	rb, err := egsphsp.Open(pathB)
	if err != nil {
		return Difference{}, err
	}
	defer rb.Close()

	d, err := CompareReaders(ra, rb)
	if err != nil {
		return d, err
	}
	if d.Equal() {
		e.Log.WithField("first", pathA).WithField("second", pathB).
			Debug("Files are equal.")
	}
	return d, nil
}

// CompareReaders compares two open files. See Compare.
func CompareReaders(ra, rb *egsphsp.Reader) (Difference, error) {
	if d := compareHeaders(&ra.Header, &rb.Header); !d.Equal() {
		return d, nil
	}

	for i := 0; ; i++ {
		a, errA := ra.Next()
		b, errB := rb.Next()
		switch {
		case errA == io.EOF && errB == io.EOF:
			return Difference{}, nil
		case errA != nil && errA != io.EOF:
			return Difference{}, errA
		case errB != nil && errB != io.EOF:
			return Difference{}, errB
		case errA == io.EOF || errB == io.EOF:
			// Only reachable if the readers' headers lie about their
			// lengths, which NewReader without a size allows.
			return Difference{"records", i, fmt.Sprint(errA == nil),
				fmt.Sprint(errB == nil)}, nil
		}
		if d := compareRecords(&a, &b); !d.Equal() {
			d.Index = i
			return d, nil
		}
	}
}

// field is one named, comparable value.
type field struct {
	name string
	a, b interface{}
}

func firstDifference(fields []field, index int) Difference {
	for _, f := range fields {
		if !eq.Value(f.a, f.b) {
			return Difference{f.name, index, fmt.Sprint(f.a), fmt.Sprint(f.b)}
		}
	}
	return Difference{}
}

func compareHeaders(a, b *egsphsp.Header) Difference {
	d := firstDifference([]field{
		{"mode", a.Mode, b.Mode},
		{"total_particles", a.TotalParticles, b.TotalParticles},
		{"total_photons", a.TotalPhotons, b.TotalPhotons},
		{"max_energy", a.MaxEnergy, b.MaxEnergy},
		{"min_energy", a.MinEnergy, b.MinEnergy},
		{"total_particles_in_source", a.TotalParticlesInSource,
			b.TotalParticlesInSource},
	}, -1)
	if d.Field == "total_particles" {
		d.Field = "records"
	}
	return d
}

func compareRecords(a, b *egsphsp.Record) Difference {
	return firstDifference([]field{
		{"latch", a.Latch, b.Latch},
		{"energy", a.Energy, b.Energy},
		{"charged", a.Charged, b.Charged},
		{"x", a.X, b.X},
		{"y", a.Y, b.Y},
		{"x_cos", a.U, b.U},
		{"y_cos", a.V, b.V},
		{"z_negative", a.ZNegative, b.ZNegative},
		{"weight", a.Weight, b.Weight},
		{"new_history", a.NewHistory, b.NewHistory},
		{"zlast", a.ZLast, b.ZLast},
	}, 0)
}

package egsphsp

import (
	"bufio"
	"io"
)

// Sink is anything a Writer can write to. The header is written once at
// creation and rewritten in place by Finalize, hence io.WriterAt.
type Sink interface {
	io.Writer
	io.WriterAt
}

// Writer appends records to a phase space file. The pattern is: create a
// Writer with a provisional header, Write every record, call Finalize with
// the final header, and then Commit. If anything goes wrong along the way,
// call Discard instead; it is safe to defer Discard since it does nothing
// after a successful Commit.
type Writer struct {
	Mode  Mode
	path  string
	file  *File // nil for in-memory sinks
	sink  Sink
	wr    *bufio.Writer
	buf   []byte
	tally Header
	pad   []byte
	done  bool
}

// NewWriter writes a provisional header to sink and returns a Writer that
// appends records after it.
func NewWriter(sink Sink, hd Header) (*Writer, error) {
	wr := &Writer{
		Mode: hd.Mode, sink: sink,
		wr:    bufio.NewWriterSize(sink, 1<<16),
		buf:   make([]byte, hd.Mode.RecordLength()),
		tally: Header{Mode: hd.Mode},
	}
	if _, err := wr.wr.Write(hd.Encode()); err != nil {
		return nil, &Error{Kind: ErrIO, Err: err}
	}
	return wr, nil
}

// Create creates (or truncates) the file at path and writes records
// directly to it.
func Create(path string, hd Header) (*Writer, error) {
	f, err := CreateFile(path)
	if err != nil {
		return nil, err
	}
	return newFileWriter(f, hd)
}

// CreateAtomic writes to a temporary file in the same directory as path.
// path is only replaced when Commit succeeds, so an interrupted or failed
// operation never leaves a half-written file behind, even when path is one
// of the operation's inputs.
func CreateAtomic(path string, hd Header) (*Writer, error) {
	f, err := CreateTemp(path)
	if err != nil {
		return nil, err
	}
	return newFileWriter(f, hd)
}

func newFileWriter(f *File, hd Header) (*Writer, error) {
	wr, err := NewWriter(f, hd)
	if err != nil {
		f.Discard()
		return nil, WithPath(err, "create", f.Path())
	}
	wr.path, wr.file = f.Path(), f
	return wr, nil
}

// Path returns the final destination of the Writer.
func (wr *Writer) Path() string { return wr.path }

// Written returns the number of records written so far.
func (wr *Writer) Written() int32 { return wr.tally.TotalParticles }

// Tally returns a header describing the records written so far: counts,
// photons and energy extrema. TotalParticlesInSource is left at zero since
// it can't be derived from records.
func (wr *Writer) Tally() Header { return wr.tally }

// Write appends a record.
func (wr *Writer) Write(r Record) error {
	if wr.done {
		return ValidationErrorf("Write called after Commit or Discard")
	}
	if !wr.Mode.HasZLast() && r.ZLast != 0 {
		return ValidationErrorf("a record with ZLast = %g can't be "+
			"stored in a %s file without losing it", r.ZLast, wr.Mode)
	}

	r.EncodeTo(wr.buf, wr.Mode)
	if _, err := wr.wr.Write(wr.buf); err != nil {
		return IOError("write", wr.path, err)
	}

	wr.count(&r)
	return nil
}

func (wr *Writer) count(r *Record) {
	t := &wr.tally
	if t.TotalParticles == 0 {
		t.MaxEnergy, t.MinEnergy = r.Energy, r.Energy
	} else if r.Energy > t.MaxEnergy {
		t.MaxEnergy = r.Energy
	} else if r.Energy < t.MinEnergy {
		t.MinEnergy = r.Energy
	}
	t.TotalParticles++
	if r.Photon() {
		t.TotalPhotons++
	}
}

// SetPadding sets the bytes Finalize stores after the header, for copies
// that need to reproduce a file exactly. By default they're zero.
func (wr *Writer) SetPadding(pad []byte) {
	wr.pad = append(wr.pad[:0], pad...)
}

// Finalize flushes all buffered records and rewrites the header with its
// final values. hd must describe exactly the records that were written.
func (wr *Writer) Finalize(hd Header) error {
	if hd.Mode != wr.Mode {
		return ValidationErrorf("the final header has mode %s, but the "+
			"file was created with mode %s", hd.Mode, wr.Mode)
	} else if hd.TotalParticles != wr.tally.TotalParticles {
		return ValidationErrorf("the final header claims %d particles, "+
			"but %d records were written", hd.TotalParticles,
			wr.tally.TotalParticles)
	}
	if err := hd.Validate(); err != nil {
		return err
	}

	if err := wr.wr.Flush(); err != nil {
		return IOError("flush", wr.path, err)
	}
	if _, err := wr.sink.WriteAt(hd.EncodePadded(wr.pad), 0); err != nil {
		return IOError("write header", wr.path, err)
	}
	return nil
}

// Commit syncs and closes the file and, for atomic writers, renames the
// temporary file over the destination. Finalize must be called first.
func (wr *Writer) Commit() error {
	if wr.done {
		return ValidationErrorf("Commit called after Commit or Discard")
	}
	wr.done = true
	if wr.file == nil {
		return nil
	}
	return wr.file.Commit()
}

// Discard abandons the output. Temporary files are removed; files made by
// Create are removed too, since their contents are incomplete. Calling
// Discard after Commit does nothing.
func (wr *Writer) Discard() {
	if wr.done {
		return
	}
	wr.done = true
	if wr.file != nil {
		wr.file.Discard()
	}
}

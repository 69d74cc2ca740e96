package egsphsp

import (
	"bytes"
	"io"
)

// FakeFile is an in-memory Sink. It lets operations and tests build phase
// space files without touching the disk.
type FakeFile struct {
	b []byte
}

var _ Sink = &FakeFile{}

// NewFakeFile returns the encoded bytes of a file with the given header and
// records, as a FakeFile. The header is written verbatim, so it can be
// deliberately inconsistent with the records.
func NewFakeFile(hd Header, records []Record) *FakeFile {
	f := &FakeFile{b: hd.Encode()}
	buf := make([]byte, hd.Mode.RecordLength())
	for i := range records {
		records[i].EncodeTo(buf, hd.Mode)
		f.b = append(f.b, buf...)
	}
	return f
}

func (f *FakeFile) Write(p []byte) (int, error) {
	f.b = append(f.b, p...)
	return len(p), nil
}

func (f *FakeFile) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(f.b) {
		f.b = append(f.b, make([]byte, end-len(f.b))...)
	}
	copy(f.b[off:], p)
	return len(p), nil
}

// Bytes returns the file's contents. It aliases the FakeFile's memory.
func (f *FakeFile) Bytes() []byte { return f.b }

// Size returns the length of the file in bytes.
func (f *FakeFile) Size() int64 { return int64(len(f.b)) }

// Reader returns a fresh io.Reader over the file's contents.
func (f *FakeFile) Reader() io.Reader { return bytes.NewReader(f.b) }

// Open returns a Reader over the file, checking the size invariant.
func (f *FakeFile) Open() (*Reader, error) {
	return NewReader(f.Reader(), f.Size())
}

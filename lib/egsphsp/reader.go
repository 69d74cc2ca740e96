package egsphsp

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
)

// Reader is a forward-only cursor over the records of a phase space file.
// The header is read and validated when the Reader is created. Reader is
// not safe for concurrent use.
type Reader struct {
	Header
	path   string
	rd     *bufio.Reader
	closer io.Closer
	buf    []byte
	pad    []byte
	read   int32
}

// Open opens a phase space file for reading. The header is validated
// against the size of the file before any record is touched.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, IOError("open", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, IOError("stat", path, err)
	} else if info.IsDir() {
		f.Close()
		return nil, IOError("open", path, errors.New("is a directory"))
	}

	rd, err := NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, WithPath(err, "open", path)
	}
	rd.path, rd.closer = path, f
	return rd, nil
}

// ReadHeader opens a file, validates and returns its header, and closes it
// again.
func ReadHeader(path string) (Header, error) {
	rd, err := Open(path)
	if err != nil {
		return Header{}, err
	}
	defer rd.Close()
	return rd.Header, nil
}

// NewReader reads a header from r and returns a Reader positioned at the
// first record. size is the total number of bytes r will produce; if it is
// negative the size invariant isn't checked.
func NewReader(r io.Reader, size int64) (*Reader, error) {
	rd := &Reader{rd: bufio.NewReaderSize(r, 1<<16)}

	tag := make([]byte, modeTagLen)
	if _, err := io.ReadFull(rd.rd, tag); err != nil {
		return nil, readError(err, "the header")
	}
	mode, err := ParseMode(string(tag))
	if err != nil {
		return nil, err
	}

	rd.buf = make([]byte, mode.RecordLength())
	copy(rd.buf, tag)
	if _, err := io.ReadFull(rd.rd, rd.buf[modeTagLen:]); err != nil {
		return nil, readError(err, "the header")
	}

	if rd.Header, err = DecodeHeader(rd.buf); err != nil {
		return nil, err
	}
	rd.pad = append([]byte{}, rd.buf[HeaderLength:]...)
	if err = rd.Header.Validate(); err != nil {
		return nil, err
	}
	if size >= 0 {
		if err = rd.Header.CheckSize(size); err != nil {
			return nil, err
		}
	}

	return rd, nil
}

// Path returns the name of the file being read, if there is one.
func (rd *Reader) Path() string { return rd.path }

// Padding returns the bytes between the end of the header and the first
// record. Writers zero them, but files from other tools may not.
func (rd *Reader) Padding() []byte { return rd.pad }

// Remaining returns the number of records that haven't been read yet.
func (rd *Reader) Remaining() int32 { return rd.TotalParticles - rd.read }

// Next decodes the next record. After the last record it returns io.EOF.
// Running out of bytes before the header's record count is reached is a
// format error.
func (rd *Reader) Next() (Record, error) {
	if rd.read >= rd.TotalParticles {
		return Record{}, io.EOF
	}
	if _, err := io.ReadFull(rd.rd, rd.buf); err != nil {
		return Record{}, WithPath(
			readError(err, "record "+strconv.Itoa(int(rd.read))), "read", rd.path,
		)
	}
	rd.read++

	r := Record{}
	r.decode(rd.buf, rd.Mode)
	return r, nil
}

// ReadAll reads every remaining record into memory.
func (rd *Reader) ReadAll() ([]Record, error) {
	out := make([]Record, 0, rd.Remaining())
	for {
		r, err := rd.Next()
		if err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
}

// Close closes the underlying file, if the Reader owns one.
func (rd *Reader) Close() error {
	if rd.closer == nil {
		return nil
	}
	err := rd.closer.Close()
	rd.closer = nil
	if err != nil {
		return IOError("close", rd.path, err)
	}
	return nil
}

func readError(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return FormatErrorf("the stream ended in the middle of %s", what)
	}
	return &Error{Kind: ErrIO, Err: err}
}

package compress

import (
	"bufio"
	"io"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

// Writer packs records into an io.Writer. The pattern is that you create a
// Writer with the header of the file being packed, Write exactly
// TotalParticles records, and then call Close, which flushes the final block.
// Close does not close the underlying io.Writer.
type Writer struct {
	egsphsp.Header
	level   int
	wr      *bufio.Writer
	buf     Buffer
	rec     []byte
	pending int   // records in the current block
	written int32 // records written in total
	closed  bool
}

// NewWriter writes the packed file preamble to w and returns a Writer for
// hd's records.
func NewWriter(w io.Writer, hd egsphsp.Header, level int) (*Writer, error) {
	return NewPaddedWriter(w, hd, nil, level)
}

// NewPaddedWriter is NewWriter for a header whose padding bytes should be
// stored as well, so unpacking reproduces the original file exactly.
func NewPaddedWriter(
	w io.Writer, hd egsphsp.Header, pad []byte, level int,
) (*Writer, error) {
	if err := CheckLevel(level); err != nil {
		return nil, err
	} else if err := hd.Validate(); err != nil {
		return nil, err
	}

	wr := &Writer{
		Header: hd, level: level, wr: bufio.NewWriter(w),
		rec: make([]byte, hd.Mode.RecordLength()),
	}

	pre := make([]byte, 8)
	order.PutUint32(pre[0:4], MagicNumber)
	order.PutUint32(pre[4:8], Version)
	if _, err := wr.wr.Write(pre); err != nil {
		return nil, &egsphsp.Error{Kind: egsphsp.ErrIO, Err: err}
	}
	if _, err := wr.wr.Write(hd.EncodePadded(pad)); err != nil {
		return nil, &egsphsp.Error{Kind: egsphsp.ErrIO, Err: err}
	}
	return wr, nil
}

// Write appends a record to the current block, compressing the block once
// it's full.
func (wr *Writer) Write(r egsphsp.Record) error {
	if wr.closed {
		return egsphsp.ValidationErrorf("Write called after Close")
	} else if wr.written >= wr.TotalParticles {
		return egsphsp.ValidationErrorf("the header declares %d particles, "+
			"but more were written", wr.TotalParticles)
	} else if !wr.Mode.HasZLast() && r.ZLast != 0 {
		return egsphsp.ValidationErrorf("a record with ZLast = %g can't be "+
			"stored in a %s file without losing it", r.ZLast, wr.Mode)
	}

	r.EncodeTo(wr.rec, wr.Mode)
	wr.buf.raw = append(wr.buf.raw, wr.rec...)
	wr.pending++
	wr.written++

	if wr.pending == BlockRecords {
		return wr.flushBlock()
	}
	return nil
}

func (wr *Writer) flushBlock() error {
	if wr.pending == 0 {
		return nil
	}

	data, err := wr.buf.compressBlock(len(wr.rec), wr.level)
	if err != nil {
		return &egsphsp.Error{Kind: egsphsp.ErrIO, Msg: "compress", Err: err}
	}

	hd := make([]byte, 12)
	order.PutUint32(hd[0:4], uint32(wr.pending))
	order.PutUint64(hd[4:12], uint64(len(data)))
	if _, err := wr.wr.Write(hd); err != nil {
		return &egsphsp.Error{Kind: egsphsp.ErrIO, Err: err}
	}
	if _, err := wr.wr.Write(data); err != nil {
		return &egsphsp.Error{Kind: egsphsp.ErrIO, Err: err}
	}

	wr.pending = 0
	wr.buf.raw = wr.buf.raw[:0]
	return nil
}

// Close flushes the last block. It's an error to close a Writer before all
// the records promised by its header have been written.
func (wr *Writer) Close() error {
	if wr.closed {
		return nil
	}
	wr.closed = true

	if wr.written != wr.TotalParticles {
		return egsphsp.ValidationErrorf("the header declares %d particles, "+
			"but only %d were written", wr.TotalParticles, wr.written)
	}
	if err := wr.flushBlock(); err != nil {
		return err
	}
	if err := wr.wr.Flush(); err != nil {
		return &egsphsp.Error{Kind: egsphsp.ErrIO, Err: err}
	}
	return nil
}

// Reader unpacks records from a packed stream.
type Reader struct {
	egsphsp.Header
	pad  []byte
	rd   *bufio.Reader
	buf  Buffer
	next int   // index of the next record within buf.raw
	n    int   // records in buf.raw
	read int32 // records returned so far
}

// NewReader reads and checks the packed file preamble from r.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{rd: bufio.NewReader(r)}

	pre := make([]byte, 8+egsphsp.HeaderLength)
	if _, err := io.ReadFull(rd.rd, pre); err != nil {
		return nil, readError(err, "preamble")
	}

	switch magic := order.Uint32(pre[0:4]); magic {
	case MagicNumber:
	case ReverseMagicNumber:
		return nil, egsphsp.FormatErrorf("packed file has flipped " +
			"endianness")
	default:
		return nil, egsphsp.FormatErrorf("not a packed phase space file "+
			"(magic number 0x%08x)", magic)
	}
	if version := order.Uint32(pre[4:8]); version != Version {
		return nil, egsphsp.FormatErrorf("packed file has version %d, but "+
			"only version %d is supported", version, Version)
	}

	mode, err := egsphsp.ParseMode(string(pre[8:13]))
	if err != nil {
		return nil, err
	}
	hdBytes := make([]byte, mode.RecordLength())
	copy(hdBytes, pre[8:])
	if _, err := io.ReadFull(rd.rd, hdBytes[egsphsp.HeaderLength:]); err != nil {
		return nil, readError(err, "header")
	}
	if rd.Header, err = egsphsp.DecodeHeader(hdBytes); err != nil {
		return nil, err
	}
	rd.pad = hdBytes[egsphsp.HeaderLength:]
	return rd, nil
}

// Padding returns the header padding stored by the packer.
func (rd *Reader) Padding() []byte { return rd.pad }

// Remaining returns the number of records that haven't been read yet.
func (rd *Reader) Remaining() int32 { return rd.TotalParticles - rd.read }

// Next returns the next record, or io.EOF once every record declared by the
// header has been read.
func (rd *Reader) Next() (egsphsp.Record, error) {
	if rd.read >= rd.TotalParticles {
		return egsphsp.Record{}, io.EOF
	}
	if rd.next == rd.n {
		if err := rd.readBlock(); err != nil {
			return egsphsp.Record{}, err
		}
	}

	width := rd.Mode.RecordLength()
	b := rd.buf.raw[rd.next*width : (rd.next+1)*width]
	r, err := egsphsp.DecodeRecord(b, rd.Mode)
	if err != nil {
		return egsphsp.Record{}, err
	}
	rd.next++
	rd.read++
	return r, nil
}

func (rd *Reader) readBlock() error {
	hd := make([]byte, 12)
	if _, err := io.ReadFull(rd.rd, hd); err != nil {
		return readError(err, "block header")
	}
	n := int(order.Uint32(hd[0:4]))
	size := order.Uint64(hd[4:12])

	if n == 0 || n > BlockRecords || int32(n) > rd.Remaining() {
		return egsphsp.FormatErrorf("packed block claims %d records, but "+
			"%d remain", n, rd.Remaining())
	}
	width := rd.Mode.RecordLength()
	if bound := uint64(2*n*width + 1<<10); size > bound {
		return egsphsp.FormatErrorf("packed block of %d records claims an "+
			"implausible %d compressed bytes", n, size)
	}

	rd.buf.zstd = resizeBytes(rd.buf.zstd, int(size))
	if _, err := io.ReadFull(rd.rd, rd.buf.zstd); err != nil {
		return readError(err, "block")
	}
	if err := rd.buf.decompressBlock(width, n); err != nil {
		return err
	}
	rd.next, rd.n = 0, n
	return nil
}

func readError(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return egsphsp.FormatErrorf("packed file ends inside its %s", what)
	}
	return &egsphsp.Error{Kind: egsphsp.ErrIO, Err: err}
}

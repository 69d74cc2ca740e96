/*package compress stores phase space files in a compact packed format.

Records are split into blocks. Each block is transposed into column order, so
that byte i of every record sits next to byte i of every other record, and
then compressed with zstd. Phase space records are dominated by float32s
whose high bytes (sign, exponent, leading mantissa bits) repeat from record to
record, so the column ordering lets most of the block collapse to almost
nothing. The transformation is lossless: unpacking a packed file returns the
original bytes exactly.

A packed file is laid out as

    uint32 magic | uint32 version | phase space header record |
    blocks: uint32 records | uint64 compressed bytes | compressed data

with all values little-endian.
*/
package compress

import (
	"encoding/binary"
	"fmt"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

const (
	// MagicNumber is an arbitrary number at the start of all packed files
	// which helps identify when the code is run on something else by
	// accident.
	MagicNumber = 0xbeadf00d
	// ReverseMagicNumber is the magic number if read with flipped endianness.
	ReverseMagicNumber = 0x0df0adbe
	Version            = 1

	// BlockRecords is the number of records compressed together.
	BlockRecords = 1 << 16

	MinLevel     = 1
	MaxLevel     = 22
	DefaultLevel = 3
)

var order = binary.LittleEndian

// CheckLevel returns an error if level isn't a valid zstd compression level.
func CheckLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return egsphsp.ValidationErrorf("compression level %d is outside "+
			"the range [%d, %d]", level, MinLevel, MaxLevel)
	}
	return nil
}

// Buffer holds the scratch arrays used while compressing and decompressing
// blocks so they aren't reallocated for every block.
type Buffer struct {
	raw, cols, zstd []byte
}

// resizeBytes returns a version of b with length n, reusing its storage when
// it's large enough.
func resizeBytes(b []byte, n int) []byte {
	if cap(b) >= n {
		return b[:n]
	}
	b = b[:cap(b)]
	return append(b, make([]byte, n-len(b))...)
}

// transpose writes the width-byte rows of src to dst in column order.
func transpose(src, dst []byte, width int) {
	if len(src) != len(dst) || len(src)%width != 0 {
		panic(fmt.Sprintf("Internal error: can't transpose %d bytes into "+
			"%d bytes with rows of width %d.", len(src), len(dst), width))
	}

	n := len(src) / width
	for i := 0; i < n; i++ {
		row := src[i*width : (i+1)*width]
		for j := range row {
			dst[j*n+i] = row[j]
		}
	}
}

// untranspose inverts transpose.
func untranspose(src, dst []byte, width int) {
	if len(src) != len(dst) || len(src)%width != 0 {
		panic(fmt.Sprintf("Internal error: can't untranspose %d bytes into "+
			"%d bytes with rows of width %d.", len(src), len(dst), width))
	}

	n := len(src) / width
	for i := 0; i < n; i++ {
		row := dst[i*width : (i+1)*width]
		for j := range row {
			row[j] = src[j*n+i]
		}
	}
}

// compressBlock compresses the rows in buf.raw and returns the compressed
// bytes, which alias buf.zstd.
func (buf *Buffer) compressBlock(width, level int) ([]byte, error) {
	buf.cols = resizeBytes(buf.cols, len(buf.raw))
	transpose(buf.raw, buf.cols, width)

	var err error
	buf.zstd, err = zstd.CompressLevel(buf.zstd[:cap(buf.zstd)], buf.cols,
		level)
	return buf.zstd, err
}

// decompressBlock decompresses buf.zstd into n rows of buf.raw.
func (buf *Buffer) decompressBlock(width, n int) error {
	var err error
	buf.cols, err = zstd.Decompress(buf.cols[:cap(buf.cols)], buf.zstd)
	if err != nil {
		return egsphsp.FormatErrorf("corrupt compressed block: %s", err)
	} else if len(buf.cols) != width*n {
		return egsphsp.FormatErrorf("compressed block should hold %d "+
			"records (%d bytes), but decompressed to %d bytes", n, width*n,
			len(buf.cols))
	}

	buf.raw = resizeBytes(buf.raw, len(buf.cols))
	untranspose(buf.cols, buf.raw, width)
	return nil
}

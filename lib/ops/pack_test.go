package ops

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/beamdpr/lib/compress"
	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

func TestPackUnpack(t *testing.T) {
	tests := []struct {
		n     int
		mode  egsphsp.Mode
		level int
	}{
		{0, egsphsp.Mode0, compress.DefaultLevel},
		{1, egsphsp.Mode2, compress.MinLevel},
		{100, egsphsp.Mode0, compress.DefaultLevel},
		{compress.BlockRecords, egsphsp.Mode2, compress.DefaultLevel},
		{compress.BlockRecords + 17, egsphsp.Mode0, 9},
	}

	e := New(nil)
	for i := range tests {
		dir := t.TempDir()
		records := makeRecords(tests[i].n, tests[i].mode, 0)
		in := writeFile(t, dir, "in.egsphsp1",
			makeHeader(tests[i].mode, records, 3), records)
		packed := filepath.Join(dir, "in.egsphsp1.zst")
		out := filepath.Join(dir, "out.egsphsp1")

		require.NoError(t, e.Pack(in, packed, tests[i].level), "%d)", i)
		require.NoError(t, e.Unpack(packed, out), "%d)", i)
		assert.Equal(t, readBytes(t, in), readBytes(t, out), "%d)", i)
		assertOnly(t, dir, "in.egsphsp1", "in.egsphsp1.zst", "out.egsphsp1")

		if tests[i].n >= 100 {
			assert.Less(t, len(readBytes(t, packed)), len(readBytes(t, in)),
				"%d) packing shrinks regular data", i)
		}
	}
}

func TestPackKeepsHeaderPadding(t *testing.T) {
	for _, mode := range []egsphsp.Mode{egsphsp.Mode0, egsphsp.Mode2} {
		dir := t.TempDir()
		records := makeRecords(5, mode, 0)
		in := writeFile(t, dir, "in.egsphsp1",
			makeHeader(mode, records, 5), records)

		b := readBytes(t, in)
		b[egsphsp.HeaderLength+1] = 0xab
		b[mode.RecordLength()-2] = 0xcd
		require.NoError(t, os.WriteFile(in, b, 0644))

		packed := filepath.Join(dir, "in.egsphsp1.zst")
		out := filepath.Join(dir, "out.egsphsp1")
		e := New(nil)
		require.NoError(t, e.Pack(in, packed, compress.DefaultLevel), "%s", mode)
		require.NoError(t, e.Unpack(packed, out), "%s", mode)
		assert.Equal(t, b, readBytes(t, out), "%s", mode)
	}
}

func TestPackErrors(t *testing.T) {
	dir := t.TempDir()
	records := makeRecords(10, egsphsp.Mode0, 0)
	in := writeFile(t, dir, "in.egsphsp1",
		makeHeader(egsphsp.Mode0, records, 10), records)
	packed := filepath.Join(dir, "packed")
	e := New(nil)

	for _, level := range []int{0, -1, compress.MaxLevel + 1} {
		err := e.Pack(in, packed, level)
		assert.True(t, errors.Is(err, egsphsp.ErrValidation), "level %d", level)
	}

	bad := writeFile(t, dir, "bad.egsphsp1",
		makeHeader(egsphsp.Mode0, records, 10), records[:9])
	err := e.Pack(bad, packed, compress.DefaultLevel)
	assert.True(t, errors.Is(err, egsphsp.ErrValidation), "got %v", err)
	assertOnly(t, dir, "in.egsphsp1", "bad.egsphsp1")
}

func TestUnpackErrors(t *testing.T) {
	dir := t.TempDir()
	records := makeRecords(10, egsphsp.Mode0, 0)
	in := writeFile(t, dir, "in.egsphsp1",
		makeHeader(egsphsp.Mode0, records, 10), records)
	packed := filepath.Join(dir, "packed")
	out := filepath.Join(dir, "out.egsphsp1")
	e := New(nil)
	require.NoError(t, e.Pack(in, packed, compress.DefaultLevel))
	good := readBytes(t, packed)

	tests := []struct {
		name string
		b    []byte
	}{
		{"not packed", readBytes(t, in)},
		{"empty", []byte{}},
		{"truncated", good[:len(good)-3]},
		{"preamble only", good[:8+egsphsp.Mode0.RecordLength()]},
	}

	for _, test := range tests {
		require.NoError(t, os.WriteFile(packed, test.b, 0644))
		err := e.Unpack(packed, out)
		assert.True(t, errors.Is(err, egsphsp.ErrFormat), "%s: got %v",
			test.name, err)
		_, err = os.Stat(out)
		assert.True(t, os.IsNotExist(err), "%s: output was written", test.name)
	}

	err := e.Unpack(filepath.Join(dir, "missing"), out)
	assert.True(t, errors.Is(err, egsphsp.ErrIO), "got %v", err)
}

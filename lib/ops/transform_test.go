package ops

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
	"github.com/phil-mansfield/beamdpr/lib/transform"
)

func TestTranslate(t *testing.T) {
	dir := t.TempDir()
	records := makeRecords(20, egsphsp.Mode2, 0)
	hd := makeHeader(egsphsp.Mode2, records, 20)
	in := writeFile(t, dir, "in.egsphsp1", hd, records)
	out := filepath.Join(dir, "out.egsphsp1")
	e := New(nil)

	require.NoError(t, e.Translate(in, out, 1.5, -2))
	got, moved := readFile(t, out)
	assert.Equal(t, hd, got)
	for i := range records {
		want := records[i]
		want.X += 1.5
		want.Y -= 2
		assert.Equal(t, want, moved[i], "record %d", i)
	}

	// Translating back in place restores the original bytes.
	require.NoError(t, e.Translate(out, out, -1.5, 2))
	assert.Equal(t, readBytes(t, in), readBytes(t, out))
	assertOnly(t, dir, "in.egsphsp1", "out.egsphsp1")
}

func TestRotateReflect(t *testing.T) {
	dir := t.TempDir()
	records := []egsphsp.Record{
		{Energy: 1, X: 3, Y: -4, U: 0.6, V: 0.3, Weight: 1},
		{Energy: 2, X: -1, Y: 0, U: 0, V: 1, Weight: 1, ZNegative: true},
	}
	hd := makeHeader(egsphsp.Mode0, records, 2)
	path := writeFile(t, dir, "beam.egsphsp1", hd, records)
	e := New(nil)

	require.NoError(t, e.Rotate(path, path, math.Pi/2))
	_, got := readFile(t, path)
	want := [][4]float32{{4, 3, -0.3, 0.6}, {0, -1, -1, 0}}
	for i := range want {
		assert.InDeltaSlice(t, want[i][:],
			[]float32{got[i].X, got[i].Y, got[i].U, got[i].V}, 1e-6,
			"rotated record %d", i)
	}
	assert.True(t, got[1].ZNegative)

	// Reflecting across the x axis twice is the identity.
	before := readBytes(t, path)
	require.NoError(t, e.Reflect(path, path, 1, 0))
	_, got = readFile(t, path)
	assert.InDelta(t, -3, got[0].Y, 1e-6)
	assert.InDelta(t, -0.6, got[0].V, 1e-6)
	require.NoError(t, e.Reflect(path, path, 2, 0))
	assert.Equal(t, before, readBytes(t, path))
}

func TestTransformErrors(t *testing.T) {
	dir := t.TempDir()
	records := makeRecords(3, egsphsp.Mode0, 0)
	path := writeFile(t, dir, "beam.egsphsp1",
		makeHeader(egsphsp.Mode0, records, 3), records)
	before := readBytes(t, path)
	e := New(nil)

	err := e.Reflect(path, path, 0, 0)
	assert.True(t, errors.Is(err, egsphsp.ErrValidation), "got %v", err)

	skew := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 1, 0, 1})
	err = e.Transform(path, path, skew)
	assert.True(t, errors.Is(err, egsphsp.ErrValidation), "got %v", err)

	err = e.Transform(path, path)
	assert.True(t, errors.Is(err, egsphsp.ErrValidation), "got %v", err)

	err = e.Transform(path, path, transform.Rotation(1), skew)
	assert.True(t, errors.Is(err, egsphsp.ErrValidation), "got %v", err)

	err = e.Rotate(filepath.Join(dir, "missing.egsphsp1"), path, 1)
	assert.True(t, errors.Is(err, egsphsp.ErrIO), "got %v", err)

	assert.Equal(t, before, readBytes(t, path))
	assertOnly(t, dir, "beam.egsphsp1")
}

func TestZeroTransformsKeepBytes(t *testing.T) {
	dir := t.TempDir()
	negZero := float32(math.Copysign(0, -1))
	records := []egsphsp.Record{
		{Energy: 1, X: negZero, Y: 2, U: negZero, V: 0.5, Weight: 1},
		{Energy: 2, X: 1, Y: negZero, U: 0.6, V: negZero, Weight: 1},
	}
	hd := makeHeader(egsphsp.Mode0, records, 2)
	in := writeFile(t, dir, "in.egsphsp1", hd, records)
	out := filepath.Join(dir, "out.egsphsp1")
	e := New(nil)

	tests := []struct {
		name string
		run  func() error
	}{
		{"translate", func() error { return e.Translate(in, out, 0, 0) }},
		{"rotate", func() error { return e.Rotate(in, out, 0) }},
	}

	for _, test := range tests {
		require.NoError(t, test.run(), test.name)
		d, err := e.Compare(in, out)
		require.NoError(t, err, test.name)
		assert.True(t, d.Equal(), "%s: %s", test.name, d)
		assert.Equal(t, readBytes(t, in), readBytes(t, out), test.name)
	}
}

func TestTransformChain(t *testing.T) {
	dir := t.TempDir()
	records := []egsphsp.Record{
		{Energy: 1, X: 3, Y: -4, U: 0.6, V: 0.3, Weight: 1},
	}
	hd := makeHeader(egsphsp.Mode0, records, 1)
	in := writeFile(t, dir, "in.egsphsp1", hd, records)
	out := filepath.Join(dir, "out.egsphsp1")
	e := New(nil)

	// Translate, then rotate by 90 degrees.
	require.NoError(t, e.Transform(in, out,
		transform.Translation(1, 0), transform.Rotation(math.Pi/2)))
	_, got := readFile(t, out)
	assert.InDeltaSlice(t, []float32{4, 4, -0.3, 0.6},
		[]float32{got[0].X, got[0].Y, got[0].U, got[0].V}, 1e-6)
}

package ops

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

// threeFiles writes three compatible files with distinct records and
// returns their paths, headers, and records.
func threeFiles(
	t *testing.T, dir string, mode egsphsp.Mode,
) ([]string, []egsphsp.Header, [][]egsphsp.Record) {
	sizes := []int{5, 0, 8}
	sources := []float32{50, 3, 80}
	paths := make([]string, len(sizes))
	hds := make([]egsphsp.Header, len(sizes))
	records := make([][]egsphsp.Record, len(sizes))
	for i := range sizes {
		records[i] = makeRecords(sizes[i], mode, float32(100*i))
		hds[i] = makeHeader(mode, records[i], sources[i])
		paths[i] = writeFile(t, dir, string(rune('a'+i))+".egsphsp1",
			hds[i], records[i])
	}
	return paths, hds, records
}

func TestCombine(t *testing.T) {
	for _, mode := range []egsphsp.Mode{egsphsp.Mode0, egsphsp.Mode2} {
		dir := t.TempDir()
		paths, hds, records := threeFiles(t, dir, mode)

		out := filepath.Join(dir, "out.egsphsp1")
		require.NoError(t, New(nil).Combine(paths, out, false))

		want := egsphsp.Header{Mode: mode}
		all := []egsphsp.Record{}
		for i := range hds {
			want.Merge(&hds[i])
			all = append(all, records[i]...)
		}
		assert.Equal(t, egsphsp.Header{
			Mode: mode, TotalParticles: 13, TotalPhotons: 8,
			MaxEnergy: 207.5, MinEnergy: 0.5, TotalParticlesInSource: 133,
		}, want, "%s", mode)

		assert.Equal(t, egsphsp.NewFakeFile(want, all).Bytes(),
			readBytes(t, out), "%s", mode)
		for i := range paths {
			_, err := os.Stat(paths[i])
			assert.NoError(t, err, "inputs are kept")
		}
	}
}

func TestCombineAssociative(t *testing.T) {
	dir := t.TempDir()
	paths, _, _ := threeFiles(t, dir, egsphsp.Mode2)
	e := New(nil)

	flat := filepath.Join(dir, "flat.egsphsp1")
	require.NoError(t, e.Combine(paths, flat, false))

	left := filepath.Join(dir, "left.egsphsp1")
	require.NoError(t, e.Combine(paths[:2], left, false))
	nested := filepath.Join(dir, "nested.egsphsp1")
	require.NoError(t, e.Combine([]string{left, paths[2]}, nested, false))

	assert.Equal(t, readBytes(t, flat), readBytes(t, nested))
}

func TestCombineDelete(t *testing.T) {
	dir := t.TempDir()
	paths, _, _ := threeFiles(t, dir, egsphsp.Mode0)
	e := New(nil)

	out := filepath.Join(dir, "out.egsphsp1")
	require.NoError(t, e.Combine(paths, out, true))
	assertOnly(t, dir, "out.egsphsp1")

	hd, records := readFile(t, out)
	assert.Equal(t, int32(13), hd.TotalParticles)
	assert.Len(t, records, 13)
}

func TestCombineDeleteRepeatedInputs(t *testing.T) {
	dir := t.TempDir()
	paths, _, _ := threeFiles(t, dir, egsphsp.Mode0)
	e := New(nil)

	// The same file, named three different ways.
	again := dir + string(filepath.Separator) + "." +
		string(filepath.Separator) + filepath.Base(paths[2])
	inputs := []string{paths[0], paths[2], paths[0], again}

	out := filepath.Join(dir, "out.egsphsp1")
	require.NoError(t, e.Combine(inputs, out, true))
	assertOnly(t, dir, "out.egsphsp1")

	hd, _ := readFile(t, out)
	assert.Equal(t, int32(5+8+5+8), hd.TotalParticles)
}

func TestUniqueFiles(t *testing.T) {
	dir := t.TempDir()
	paths, _, _ := threeFiles(t, dir, egsphsp.Mode0)
	missing := filepath.Join(dir, "missing.egsphsp1")

	got := uniqueFiles([]string{paths[1], paths[0], paths[1], missing,
		filepath.Join(dir, ".", filepath.Base(paths[0])), missing})
	assert.Equal(t, []string{paths[1], paths[0], missing, missing}, got)
}

func TestCombineIntoInput(t *testing.T) {
	dir := t.TempDir()
	paths, hds, records := threeFiles(t, dir, egsphsp.Mode0)
	e := New(nil)

	// The output is also the first input, so it must survive deletion.
	require.NoError(t, e.Combine(paths, paths[0], true))
	assertOnly(t, dir, "a.egsphsp1")

	want := egsphsp.Header{Mode: egsphsp.Mode0}
	all := []egsphsp.Record{}
	for i := range hds {
		want.Merge(&hds[i])
		all = append(all, records[i]...)
	}
	assert.Equal(t, egsphsp.NewFakeFile(want, all).Bytes(),
		readBytes(t, paths[0]))
}

func TestCombineErrors(t *testing.T) {
	dir := t.TempDir()
	a := makeRecords(3, egsphsp.Mode0, 0)
	b := makeRecords(3, egsphsp.Mode2, 0)
	pathA := writeFile(t, dir, "a.egsphsp1", makeHeader(egsphsp.Mode0, a, 3), a)
	pathB := writeFile(t, dir, "b.egsphsp1", makeHeader(egsphsp.Mode2, b, 3), b)
	out := filepath.Join(dir, "out.egsphsp1")
	e := New(nil)

	err := e.Combine([]string{pathA, pathB}, out, true)
	assert.True(t, errors.Is(err, egsphsp.ErrIncompatibleFormat), "got %v", err)
	assertOnly(t, dir, "a.egsphsp1", "b.egsphsp1")

	// A header that lies about its record count is caught by the size check.
	bad := writeFile(t, dir, "bad.egsphsp1",
		makeHeader(egsphsp.Mode0, a, 3), a[:2])
	err = e.Combine([]string{pathA, bad}, out, true)
	assert.True(t, errors.Is(err, egsphsp.ErrValidation), "got %v", err)
	assertOnly(t, dir, "a.egsphsp1", "b.egsphsp1", "bad.egsphsp1")
}

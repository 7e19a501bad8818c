package gt3

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kjoti/gt3/codec"
	"github.com/kjoti/gt3/format"
	"github.com/kjoti/gt3/header"
	"github.com/kjoti/gt3/record"
	"github.com/stretchr/testify/require"
)

const (
	fixtureNx   = 3
	fixtureNy   = 2
	fixtureNz   = 1
	fixtureMiss = -999.0
)

func writeFixture(t *testing.T, path string, chunks int, offset float64) {
	t.Helper()
	require := require.New(t)

	f, err := os.Create(path)
	require.NoError(err)
	defer f.Close()

	tag := format.NewTag(format.UR4, 0)

	for c := 0; c < chunks; c++ {
		h := header.New()
		require.NoError(h.SetString("DSET", "TESTSET"))
		require.NoError(h.SetString("ITEM", "FOO"))
		require.NoError(h.SetString("TITLE", "test variable"))
		require.NoError(h.SetString("UNIT", "K"))
		require.NoError(h.SetString("DATE", "20260101 000000"))
		require.NoError(h.SetString("DFMT", tag.String()))
		require.NoError(h.SetString("AITM1", "NUMBER3"))
		require.NoError(h.SetInt("ASTR1", 1))
		require.NoError(h.SetInt("AEND1", fixtureNx))
		require.NoError(h.SetString("AITM2", "NUMBER2"))
		require.NoError(h.SetInt("ASTR2", 1))
		require.NoError(h.SetInt("AEND2", fixtureNy))
		require.NoError(h.SetInt("ASTR3", 1))
		require.NoError(h.SetInt("AEND3", fixtureNz))
		require.NoError(h.SetFloat("MISS", fixtureMiss))

		require.NoError(record.WriteBytes(f, h.Bytes()))

		data := make([]float64, fixtureNx*fixtureNy*fixtureNz)
		for i := range data {
			data[i] = offset + float64(c*100+i)
		}
		require.NoError(codec.Encode(f, tag, codec.Grid{
			Nx: fixtureNx, Ny: fixtureNy, Nz: fixtureNz, Data: data, Miss: fixtureMiss,
		}))
	}
}

func TestOpenAndGrid(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "t.gt3")
	writeFixture(t, path, 1, 0)

	r, err := Open(path)
	require.NoError(err)
	defer r.Close()

	g, err := r.Grid()
	require.NoError(err)

	require.Equal("TESTSET", g.Dset)
	require.Equal("FOO", g.Item)
	require.Equal("test variable", g.Title)
	require.Equal("K", g.Unit)
	require.Equal(fixtureMiss, g.Miss)
	require.Equal(fixtureNx, g.Nx)
	require.Equal(fixtureNy, g.Ny)
	require.Equal(fixtureNz, g.Nz)
	require.Equal([]float64{0, 1, 2}, g.Lon.Values)
	require.Equal([]float64{0, 1}, g.Lat.Values)
	require.Empty(g.Lev.Values)
	require.Equal(float64(0), g.Value(0, 0, 0))
	require.Equal(float64(5), g.Value(2, 1, 0))
}

func TestOpenWithoutAxisResolutionLeavesAxesZeroValued(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "t.gt3")
	writeFixture(t, path, 1, 0)

	r, err := Open(path, WithoutAxisResolution())
	require.NoError(err)
	defer r.Close()

	g, err := r.Grid()
	require.NoError(err)

	require.Empty(g.Lon.Values)
	require.Empty(g.Lat.Values)
	require.Equal(float64(5), g.Value(2, 1, 0))
}

func TestReaderNextAdvancesChunks(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "t.gt3")
	writeFixture(t, path, 2, 0)

	r, err := Open(path)
	require.NoError(err)
	defer r.Close()

	g1, err := r.Grid()
	require.NoError(err)
	require.Equal(float64(0), g1.Value(0, 0, 0))

	require.NoError(r.Next())

	g2, err := r.Grid()
	require.NoError(err)
	require.Equal(float64(100), g2.Value(0, 0, 0))

	n, err := r.NumChunks()
	require.NoError(err)
	require.Equal(2, n)
}

func TestOpenCatalogGrid(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.gt3")
	pathB := filepath.Join(dir, "b.gt3")
	writeFixture(t, pathA, 2, 0)
	writeFixture(t, pathB, 1, 1000)

	cat, err := OpenCatalog([]string{pathA, pathB})
	require.NoError(err)
	defer cat.Close()

	require.Equal(3, cat.NumChunks())

	g, err := cat.Grid(2)
	require.NoError(err)
	require.Equal(float64(1000), g.Value(0, 0, 0))

	g, err = cat.Grid(0)
	require.NoError(err)
	require.Equal(float64(0), g.Value(0, 0, 0))
}

func TestOpenCatalogConcurrent(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.gt3")
	pathB := filepath.Join(dir, "b.gt3")
	writeFixture(t, pathA, 2, 0)
	writeFixture(t, pathB, 3, 1000)

	cat, err := OpenCatalogConcurrent(context.Background(), []string{pathA, pathB})
	require.NoError(err)
	defer cat.Close()

	require.Equal(5, cat.NumChunks())
}

func TestResolveAxisAndWeight(t *testing.T) {
	require := require.New(t)

	a, err := ResolveAxis("GLON4")
	require.NoError(err)
	require.Len(a.Values, 5)
	require.True(a.Cyclic)

	w, err := ResolveWeight("GLON4")
	require.NoError(err)

	var sum float64
	for _, v := range w {
		sum += v
	}
	require.InDelta(360.0, sum, 1e-9)
}

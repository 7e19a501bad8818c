package chunkfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kjoti/gt3/codec"
	"github.com/kjoti/gt3/format"
	"github.com/kjoti/gt3/header"
	"github.com/kjoti/gt3/record"
	"github.com/stretchr/testify/require"
)

// writeChunk appends one chunk (header + body) to w for the given format
// tag, dims, and data.
func writeChunk(t *testing.T, w *os.File, tag format.Tag, nx, ny, nz int, miss float64, data []float64) {
	t.Helper()
	require := require.New(t)

	h := header.New()
	require.NoError(h.SetString("DFMT", tag.String()))
	require.NoError(h.SetInt("ASTR1", 1))
	require.NoError(h.SetInt("AEND1", nx))
	require.NoError(h.SetInt("ASTR2", 1))
	require.NoError(h.SetInt("AEND2", ny))
	require.NoError(h.SetInt("ASTR3", 1))
	require.NoError(h.SetInt("AEND3", nz))
	require.NoError(h.SetFloat("MISS", miss))

	require.NoError(record.WriteBytes(w, h.Bytes()))

	g := codec.Grid{Nx: nx, Ny: ny, Nz: nz, Data: data, Miss: miss}
	require.NoError(codec.Encode(w, tag, g))
}

func makeContainer(t *testing.T, chunks int, tag format.Tag, nx, ny, nz int, miss float64) string {
	t.Helper()
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.gt3")

	f, err := os.Create(path)
	require.NoError(err)
	defer f.Close()

	n := nx * ny * nz
	for c := 0; c < chunks; c++ {
		data := make([]float64, n)
		for i := range data {
			data[i] = float64(c*1000 + i)
		}
		writeChunk(t, f, tag, nx, ny, nz, miss, data)
	}

	return path
}

func TestOpenReadsFirstHeader(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 3, format.NewTag(format.UR4, 0), 4, 3, 2, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	nx, ny, nz := cf.Dims()
	require.Equal(4, nx)
	require.Equal(3, ny)
	require.Equal(2, nz)
	require.Equal(format.UR4, cf.Format().Family())
	require.Equal(0, cf.Curr())
	require.False(cf.Eof())
}

func TestOpenReadsURC1FormattedFile(t *testing.T) {
	require := require.New(t)

	// URC1's DFMT spelling on disk is the bare string "URC" (format.Tag's
	// String/Parse asymmetry), so this exercises the navigator's header ->
	// format.Parse path for exactly that case.
	path := makeContainer(t, 1, format.NewTag(format.URC1, 0), 4, 3, 2, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	require.Equal(format.URC1, cf.Format().Family())

	v, err := GetVarbuf(cf)
	require.NoError(err)
	plane, err := v.Plane(0)
	require.NoError(err)
	require.Len(plane, 12)
}

func TestNextWalksEveryChunk(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 3, format.NewTag(format.UR8, 0), 2, 2, 1, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	count := 0
	for !cf.Eof() {
		require.NoError(cf.Next())
		count++
	}
	require.Equal(3, count)
}

func TestCountChunks(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 5, format.NewTag(format.UR4, 0), 2, 2, 1, -999.0)

	n, err := CountChunks(path)
	require.NoError(err)
	require.Equal(5, n)
}

func TestSeekForwardAndBackward(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 5, format.NewTag(format.UR4, 0), 2, 2, 1, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	require.NoError(cf.Seek(3, SeekStart))
	require.Equal(3, cf.Curr())

	require.NoError(cf.Seek(-2, SeekCurrent))
	require.Equal(1, cf.Curr())

	require.NoError(cf.Seek(0, SeekEnd))
	require.Equal(5, cf.Curr())
	require.True(cf.Eof())
}

func TestSeekOutOfRangeFails(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 2, format.NewTag(format.UR4, 0), 2, 2, 1, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	require.Error(cf.Seek(-1, SeekStart))
	require.Error(cf.Seek(99, SeekStart))
}

func TestOpenHistoryRequiresUniformSize(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 4, format.NewTag(format.UR4, 0), 2, 2, 1, -999.0)

	cf, err := OpenHistory(path)
	require.NoError(err)
	defer cf.Close()
	require.True(cf.IsHistFile())

	require.NoError(cf.Seek(3, SeekStart))
	require.Equal(3, cf.Curr())
}

func TestSkipZSeeksWithinChunk(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 1, format.NewTag(format.UR4, 0), 2, 2, 3, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	require.NoError(cf.SkipZ(2))
	require.NoError(cf.SkipZ(0))
}

func TestMaskedFormatWalksVariableChunkSize(t *testing.T) {
	require := require.New(t)

	tag := format.NewTag(format.MR4, 0)
	dir := t.TempDir()
	path := filepath.Join(dir, "masked.gt3")

	f, err := os.Create(path)
	require.NoError(err)

	nx, ny, nz := 3, 3, 2
	n := nx * ny * nz
	miss := -999.0

	data1 := make([]float64, n)
	for i := range data1 {
		data1[i] = float64(i)
	}
	data1[0] = miss // a sparser first chunk

	data2 := make([]float64, n)
	for i := range data2 {
		data2[i] = float64(i) + 0.5
	}
	data2[0], data2[1], data2[2] = miss, miss, miss // a sparser second chunk

	writeChunk(t, f, tag, nx, ny, nz, miss, data1)
	writeChunk(t, f, tag, nx, ny, nz, miss, data2)
	require.NoError(f.Close())

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	require.NoError(cf.Next())
	require.Equal(1, cf.Curr())
	require.NoError(cf.Next())
	require.Equal(2, cf.Curr())
	require.True(cf.Eof())
}

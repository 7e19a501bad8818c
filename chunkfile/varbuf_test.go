package chunkfile

import (
	"testing"

	"github.com/kjoti/gt3/format"
	"github.com/stretchr/testify/require"
)

func TestGetVarbufDecodesCurrentChunk(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 2, format.NewTag(format.UR4, 0), 4, 3, 2, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	v, err := GetVarbuf(cf)
	require.NoError(err)

	nx, ny, nz := v.Dims()
	require.Equal(4, nx)
	require.Equal(3, ny)
	require.Equal(2, nz)
	require.Equal(-999.0, v.Miss())

	val, err := v.Value(0, 0, 0)
	require.NoError(err)
	require.Equal(0.0, val)

	val, err = v.Value(1, 0, 0)
	require.NoError(err)
	require.Equal(1.0, val)
}

func TestVarbufPlaneAndRow(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 1, format.NewTag(format.UR8, 0), 3, 2, 2, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	v, err := GetVarbuf(cf)
	require.NoError(err)

	plane, err := v.Plane(1)
	require.NoError(err)
	require.Len(plane, 6)

	row, err := v.Row(1, 0)
	require.NoError(err)
	require.Len(row, 3)
	require.Equal(plane[0:3], row)
}

func TestVarbufRowValid(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 1, format.NewTag(format.UR4, 0), 4, 3, 2, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	v, err := GetVarbuf(cf)
	require.NoError(err)

	for y := 0; y < 3; y++ {
		require.True(v.RowValid(y))
	}
}

func TestVarbufRefreshesOnChunkChange(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 2, format.NewTag(format.UR4, 0), 2, 2, 1, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	v, err := GetVarbuf(cf)
	require.NoError(err)

	first, err := v.Value(0, 0, 0)
	require.NoError(err)
	require.Equal(0.0, first)

	require.NoError(cf.Next())

	second, err := v.Value(0, 0, 0)
	require.NoError(err)
	require.Equal(1000.0, second)
}

func TestVarbufAttrReadsCachedHeader(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 2, format.NewTag(format.UR4, 0), 2, 2, 1, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	v, err := GetVarbuf(cf)
	require.NoError(err)

	miss, err := v.AttrFloat("MISS")
	require.NoError(err)
	require.Equal(-999.0, miss)

	nx, err := v.AttrInt("AEND1")
	require.NoError(err)
	require.Equal(2, nx)

	dfmt, err := v.AttrString("DFMT")
	require.NoError(err)
	require.Equal("UR4", dfmt)
}

func TestVarbufOutOfRangeIndices(t *testing.T) {
	require := require.New(t)

	path := makeContainer(t, 1, format.NewTag(format.UR4, 0), 2, 2, 2, -999.0)

	cf, err := Open(path)
	require.NoError(err)
	defer cf.Close()

	v, err := GetVarbuf(cf)
	require.NoError(err)

	_, err = v.Value(0, 0, 99)
	require.Error(err)

	_, err = v.Plane(-1)
	require.Error(err)

	_, err = v.Row(0, 99)
	require.Error(err)
}

func TestVarbufReattach(t *testing.T) {
	require := require.New(t)

	path1 := makeContainer(t, 1, format.NewTag(format.UR4, 0), 2, 2, 1, -999.0)
	path2 := makeContainer(t, 1, format.NewTag(format.UR4, 0), 2, 2, 1, -888.0)

	cf1, err := Open(path1)
	require.NoError(err)
	defer cf1.Close()

	cf2, err := Open(path2)
	require.NoError(err)
	defer cf2.Close()

	v, err := GetVarbuf(cf1)
	require.NoError(err)
	require.Equal(-999.0, v.Miss())

	require.NoError(v.Reattach(cf2))
	require.Equal(-888.0, v.Miss())
}

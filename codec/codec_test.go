package codec

import (
	"bytes"
	"math"
	"testing"

	"github.com/kjoti/gt3/format"
	"github.com/stretchr/testify/require"
)

const testMiss = -999.0

func sampleGrid() Grid {
	data := []float64{
		1.0, 2.5, 3.25, testMiss,
		-4.0, 5.125, 6.0, 7.75,
		8.5, 9.0, testMiss, 11.25,

		12.0, 13.5, 14.25, 15.0,
		16.5, testMiss, 18.0, 19.25,
		20.0, 21.5, 22.25, 23.0,
	}
	return Grid{Nx: 4, Ny: 3, Nz: 2, Data: data, Miss: testMiss}
}

func roundTrip(t *testing.T, tag format.Tag, g Grid) []float64 {
	t.Helper()
	require := require.New(t)

	var buf bytes.Buffer
	require.NoError(Encode(&buf, tag, g))

	got, err := Decode(bytes.NewReader(buf.Bytes()), tag, g.Nx, g.Ny, g.Nz, g.Miss)
	require.NoError(err)
	require.Len(got.Data, len(g.Data))
	return got.Data
}

func requireCloseOrMiss(t *testing.T, want, got []float64, miss, tol float64) {
	t.Helper()
	require := require.New(t)

	for i := range want {
		if want[i] == miss {
			require.Equal(miss, got[i], "index %d should be missing", i)
			continue
		}
		require.InDelta(want[i], got[i], tol, "index %d", i)
	}
}

func TestUR4RoundTrip(t *testing.T) {
	g := sampleGrid()
	tag := format.NewTag(format.UR4, 0)
	got := roundTrip(t, tag, g)

	for i, v := range g.Data {
		want := v
		if v != g.Miss {
			want = float64(float32(v))
		}
		require.Equal(t, want, got[i])
	}
}

func TestUR8RoundTrip(t *testing.T) {
	g := sampleGrid()
	tag := format.NewTag(format.UR8, 0)
	got := roundTrip(t, tag, g)
	require.Equal(t, g.Data, got)
}

func TestURC2RoundTrip(t *testing.T) {
	g := sampleGrid()
	tag := format.NewTag(format.URC, 0)
	got := roundTrip(t, tag, g)
	requireCloseOrMiss(t, g.Data, got, g.Miss, 0.01)
}

func TestURC1RoundTrip(t *testing.T) {
	g := sampleGrid()
	tag := format.NewTag(format.URC1, 0)
	got := roundTrip(t, tag, g)
	requireCloseOrMiss(t, g.Data, got, g.Miss, 0.01)
}

func TestURXRoundTrip(t *testing.T) {
	g := sampleGrid()
	tag := format.NewTag(format.URX, 16)
	got := roundTrip(t, tag, g)
	requireCloseOrMiss(t, g.Data, got, g.Miss, 0.01)
}

func TestURYRoundTrip(t *testing.T) {
	g := sampleGrid()
	tag := format.NewTag(format.URY, 16)
	got := roundTrip(t, tag, g)
	requireCloseOrMiss(t, g.Data, got, g.Miss, 0.01)
}

func TestMR4RoundTrip(t *testing.T) {
	g := sampleGrid()
	tag := format.NewTag(format.MR4, 0)
	got := roundTrip(t, tag, g)

	for i, v := range g.Data {
		want := v
		if v != g.Miss {
			want = float64(float32(v))
		}
		require.Equal(t, want, got[i])
	}
}

func TestMR8RoundTrip(t *testing.T) {
	g := sampleGrid()
	tag := format.NewTag(format.MR8, 0)
	got := roundTrip(t, tag, g)
	require.Equal(t, g.Data, got)
}

func TestMRXRoundTrip(t *testing.T) {
	g := sampleGrid()
	tag := format.NewTag(format.MRX, 16)
	got := roundTrip(t, tag, g)
	requireCloseOrMiss(t, g.Data, got, g.Miss, 0.01)
}

func TestMRYRoundTrip(t *testing.T) {
	g := sampleGrid()
	tag := format.NewTag(format.MRY, 16)
	got := roundTrip(t, tag, g)
	requireCloseOrMiss(t, g.Data, got, g.Miss, 0.01)
}

func TestURXConstantPlaneDecodesExactly(t *testing.T) {
	require := require.New(t)

	data := make([]float64, 4*3)
	for i := range data {
		data[i] = 42.0
	}
	g := Grid{Nx: 4, Ny: 3, Nz: 1, Data: data, Miss: testMiss}

	tag := format.NewTag(format.URX, 12)
	got := roundTrip(t, tag, g)
	for _, v := range got {
		require.InDelta(42.0, v, 1e-9)
	}
}

func TestMR4AllMissingPlane(t *testing.T) {
	require := require.New(t)

	data := make([]float64, 4*3)
	for i := range data {
		data[i] = testMiss
	}
	g := Grid{Nx: 4, Ny: 3, Nz: 1, Data: data, Miss: testMiss}

	tag := format.NewTag(format.MR4, 0)
	got := roundTrip(t, tag, g)
	for _, v := range got {
		require.Equal(testMiss, v)
	}
}

func TestScalingParametersMapsExtentToZero(t *testing.T) {
	require := require.New(t)

	offset, scale := scalingParameters(1.0, 9.0, 8)
	require.Equal(1.0, offset)
	require.Equal(1.0, scale)

	// every step from vmin to vmax should land on an integer code.
	for code := 0; code <= 8; code++ {
		v := offset + float64(code)*scale
		require.True(v >= 1.0 && v <= 9.0)
	}
}

func TestQuantizeClampsOutOfRangeAndMissing(t *testing.T) {
	require := require.New(t)

	imiss := uint32(15)
	require.Equal(imiss, quantize(testMiss, testMiss, 0, 1, imiss))
	require.Equal(uint32(0), quantize(-100, testMiss, 0, 1, imiss))
	require.Equal(imiss-1, quantize(100, testMiss, 0, 1, imiss))
}

func TestDequantizeRoundTripsIntegerCodes(t *testing.T) {
	require := require.New(t)

	imiss := uint32(15)
	for code := uint32(0); code < imiss; code++ {
		v := dequantize(code, imiss, 1.0, 0.5, testMiss)
		require.InDelta(1.0+float64(code)*0.5, v, 1e-9)
	}
	require.Equal(testMiss, dequantize(imiss, imiss, 1.0, 0.5, testMiss))
}

func TestZeroIndexFindsExactZeroLevel(t *testing.T) {
	require := require.New(t)

	// offset=-4, scale=1: level 4 lands exactly on zero (4 levels in range).
	idx, ok := zeroIndex(-4.0, 1.0, 8)
	require.True(ok)
	require.Equal(uint32(4), idx)

	require.Equal(-4.0+4.0*1.0, 0.0)
	require.Equal(0.0, dequantizeZero(4, 99, idx, 1.0, testMiss))
}

func TestZeroIndexRejectsOutOfRangeOrOffInterval(t *testing.T) {
	require := require.New(t)

	// no zero in [offset, offset+count*scale] at all.
	_, ok := zeroIndex(1.0, 1.0, 8)
	require.False(ok)

	// zero level would fall at index 0 or beyond count, both out of range.
	_, ok = zeroIndex(0.0, 1.0, 8)
	require.False(ok)

	// scale of zero guards against division by zero.
	_, ok = zeroIndex(-4.0, 0.0, 8)
	require.False(ok)
}

// zeroStraddlingData is chosen so quantizing at 4 bits (15 levels, 14
// steps) maps the extent [-7,7] onto integer codes 0..14 with a per-step
// scale of exactly 1.0 - the condition get_zero_index requires to find an
// exact zero level (code 7).
func zeroStraddlingData() []float64 {
	return []float64{-7, -6, -5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5, 6, 7}
}

func TestURYReconstructsExactZero(t *testing.T) {
	require := require.New(t)

	data := zeroStraddlingData()
	g := Grid{Nx: len(data), Ny: 1, Nz: 1, Data: data, Miss: testMiss}

	tag := format.NewTag(format.URY, 4)
	got := roundTrip(t, tag, g)

	require.Equal(0.0, got[7])
	requireCloseOrMiss(t, data, got, g.Miss, 1e-9)
}

func TestMRYReconstructsExactZero(t *testing.T) {
	require := require.New(t)

	data := zeroStraddlingData()
	data[2] = testMiss // drop an interior value; extent (and scale) unchanged
	g := Grid{Nx: len(data), Ny: 1, Nz: 1, Data: data, Miss: testMiss}

	tag := format.NewTag(format.MRY, 4)
	got := roundTrip(t, tag, g)

	require.Equal(0.0, got[7])
	requireCloseOrMiss(t, data, got, g.Miss, 1e-9)
}

func TestFindExtentAllMissing(t *testing.T) {
	require := require.New(t)

	_, _, ok := findExtent([]float64{testMiss, testMiss}, testMiss)
	require.False(ok)
}

func TestURC1VsURC2Truncation(t *testing.T) {
	require := require.New(t)

	var bufV1, bufV2 bytes.Buffer
	g := sampleGrid()

	require.NoError(Encode(&bufV1, format.NewTag(format.URC1, 0), g))
	require.NoError(Encode(&bufV2, format.NewTag(format.URC, 0), g))

	require.NotEqual(bufV1.Bytes(), bufV2.Bytes())
}

func TestMaskRoundTripPreservesPopulation(t *testing.T) {
	require := require.New(t)

	present := []uint32{1, 0, 1, 1, 0, 0, 1, 0, 1}

	var buf bytes.Buffer
	require.NoError(writeMaskRecord(&buf, present, len(present), 1))

	got, err := readMaskRecord(bytes.NewReader(buf.Bytes()), len(present), 1)
	require.NoError(err)
	require.Equal(present, got)
}

func TestMaskRoundTripPerZPlane(t *testing.T) {
	require := require.New(t)

	planeLen := 5
	nsets := 3
	present := make([]uint32, planeLen*nsets)
	for i := range present {
		if i%3 == 0 {
			present[i] = 1
		}
	}

	var buf bytes.Buffer
	require.NoError(writeMaskRecord(&buf, present, planeLen, nsets))

	got, err := readMaskRecord(bytes.NewReader(buf.Bytes()), planeLen, nsets)
	require.NoError(err)
	require.Equal(present, got)
}

func TestURXWidthExtremes(t *testing.T) {
	require := require.New(t)

	g := Grid{Nx: 2, Ny: 1, Nz: 1, Data: []float64{0, 1}, Miss: testMiss}

	tag := format.NewTag(format.URX, 1)
	var buf bytes.Buffer
	require.NoError(Encode(&buf, tag, g))

	got, err := Decode(bytes.NewReader(buf.Bytes()), tag, g.Nx, g.Ny, g.Nz, g.Miss)
	require.NoError(err)
	// imiss==1 at 1 bit: no real dynamic range, every sample collapses to
	// the plane's offset.
	require.False(math.IsNaN(got.Data[0]))
}
